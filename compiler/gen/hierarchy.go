package gen

import (
	"fmt"
	"slices"

	"github.com/syssam/stigen/compiler/load"
)

// AncestorKind tells what an Ancestor refers to.
type AncestorKind int

const (
	// AncestorTable is the generic query unit of a table.
	AncestorTable AncestorKind = iota + 1
	// AncestorSubtype is the query unit of another subtype of the same table.
	AncestorSubtype
)

// String implements fmt.Stringer.
func (k AncestorKind) String() string {
	switch k {
	case AncestorTable:
		return "table"
	case AncestorSubtype:
		return "subtype"
	default:
		return "unknown"
	}
}

// Ancestor is the query unit a subtype query unit derives from.
type Ancestor struct {
	Kind AncestorKind
	// Table is set for AncestorTable. It is the owning table in the root case
	// and another table of the database when the subtype extends one.
	Table *load.Table
	// Subtype is set for AncestorSubtype.
	Subtype *load.Inheritance
	// Class is the unqualified query class identifier of the ancestor.
	Class string
}

// IsRoot reports if the ancestor is the generic query unit of the table
// owning the subtype.
func (a Ancestor) IsRoot(owner *load.Table) bool {
	return a.Kind == AncestorTable && a.Table == owner
}

// ResolveAncestor returns the immediate ancestor-in-code of the target
// subtype of table t:
//
//   - no declared ancestor: the generic query unit of t.
//   - the ancestor names a table of the database: its generic query unit.
//     Tables take precedence over sibling subtypes of the same name.
//   - the ancestor names a sibling subtype class: the sibling's query unit.
//
// Any other ancestor name is reported as a HierarchyError.
func ResolveAncestor(t *load.Table, target *load.Inheritance, namer Namer) (Ancestor, error) {
	if target == nil {
		return Ancestor{}, errMissingTarget("ResolveAncestor")
	}
	if t == nil {
		return Ancestor{}, NewConfigError("Table", nil, "ResolveAncestor needs the table owning the subtype")
	}
	if target.Extends == "" {
		return Ancestor{Kind: AncestorTable, Table: t, Class: namer.QueryClass(t)}, nil
	}
	name := target.AncestorClassName()
	if db := t.Database(); db != nil {
		if at, ok := db.TableByPhpName(name); ok {
			return Ancestor{Kind: AncestorTable, Table: at, Class: namer.QueryClass(at)}, nil
		}
	}
	for _, sibling := range t.Children() {
		if sibling.ClassName != name {
			continue
		}
		if sibling == target {
			return Ancestor{}, &HierarchyError{
				Kind:  HierarchyCycle,
				Table: t.Name,
				Path:  []string{target.ClassName, target.ClassName},
			}
		}
		return Ancestor{Kind: AncestorSubtype, Subtype: sibling, Class: namer.SubtypeQueryClass(sibling)}, nil
	}
	return Ancestor{}, &HierarchyError{
		Kind:     HierarchyUnresolved,
		Table:    t.Name,
		Subtype:  target.ClassName,
		Ancestor: target.Extends,
	}
}

// Hierarchy is the inheritance graph of one table: the table root and its
// subtypes as nodes, the ancestor relation as edges. It is built once, is
// acyclic by construction and is safe for concurrent reads.
type Hierarchy struct {
	table   *load.Table
	parents map[*load.Inheritance]Ancestor
	order   []*load.Inheritance
}

// NewHierarchy resolves the ancestor of every subtype of t and verifies that
// no subtype derives from itself, directly or transitively, and that no two
// subtypes share a class key constant under namer.
func NewHierarchy(t *load.Table, namer Namer) (*Hierarchy, error) {
	if t == nil {
		return nil, NewConfigError("Table", nil, "NewHierarchy needs a table")
	}
	children := t.Children()
	h := &Hierarchy{
		table:   t,
		parents: make(map[*load.Inheritance]Ancestor, len(children)),
		order:   make([]*load.Inheritance, 0, len(children)),
	}
	constants := make(map[string]*load.Inheritance, len(children))
	for _, inh := range children {
		a, err := ResolveAncestor(t, inh, namer)
		if err != nil {
			return nil, err
		}
		h.parents[inh] = a

		c := namer.ClassKeyConstant(inh)
		if prev, ok := constants[c]; ok {
			return nil, NewSchemaError(t.Name, inh.ClassName,
				fmt.Sprintf("key %q renders class key constant %s of key %q", inh.Key, c, prev.Key), nil)
		}
		constants[c] = inh
	}
	if err := h.sort(children); err != nil {
		return nil, err
	}
	return h, nil
}

// sort orders the subtypes so that every ancestor precedes its descendants,
// failing on the first cycle found.
func (h *Hierarchy) sort(children []*load.Inheritance) error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[*load.Inheritance]int, len(children))
	for _, inh := range children {
		var chain []*load.Inheritance
		for cur := inh; cur != nil && state[cur] != done; {
			if state[cur] == visiting {
				idx := slices.Index(chain, cur)
				path := make([]string, 0, len(chain)-idx+1)
				for _, c := range chain[idx:] {
					path = append(path, c.ClassName)
				}
				return &HierarchyError{
					Kind:  HierarchyCycle,
					Table: h.table.Name,
					Path:  append(path, cur.ClassName),
				}
			}
			state[cur] = visiting
			chain = append(chain, cur)
			cur = h.parents[cur].Subtype
		}
		for i := len(chain) - 1; i >= 0; i-- {
			state[chain[i]] = done
			h.order = append(h.order, chain[i])
		}
	}
	return nil
}

// Table returns the table the hierarchy was built for.
func (h *Hierarchy) Table() *load.Table { return h.table }

// Ancestor returns the immediate ancestor of the target subtype.
func (h *Hierarchy) Ancestor(target *load.Inheritance) (Ancestor, error) {
	if target == nil {
		return Ancestor{}, errMissingTarget("Hierarchy.Ancestor")
	}
	a, ok := h.parents[target]
	if !ok {
		return Ancestor{}, NewSchemaError(h.table.Name, target.ClassName, "subtype is not declared on this table", nil)
	}
	return a, nil
}

// Chain returns the ancestors of the target from the immediate one up to the
// first table query unit, which always ends the chain.
func (h *Hierarchy) Chain(target *load.Inheritance) ([]Ancestor, error) {
	a, err := h.Ancestor(target)
	if err != nil {
		return nil, err
	}
	chain := []Ancestor{a}
	for a.Kind == AncestorSubtype {
		a = h.parents[a.Subtype]
		chain = append(chain, a)
	}
	return chain, nil
}

// Depth returns the number of query units between the target and the table
// query unit ending its chain, the target excluded. Root subtypes have depth 1.
func (h *Hierarchy) Depth(target *load.Inheritance) (int, error) {
	chain, err := h.Chain(target)
	if err != nil {
		return 0, err
	}
	return len(chain), nil
}

// Order returns the subtypes with every ancestor before its descendants.
// Subtypes unrelated to each other keep their declaration order.
func (h *Hierarchy) Order() []*load.Inheritance {
	return slices.Clone(h.order)
}
