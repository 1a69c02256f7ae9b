package gen

import (
	"fmt"
	"time"

	"github.com/syssam/stigen/compiler/load"
)

// DeclKind identifies a declaration of a subtype query unit.
type DeclKind int

// Declarations of a subtype query unit, in emission order.
const (
	DeclImports DeclKind = iota + 1
	DeclFactory
	DeclPreSelect
	DeclPreUpdate
	DeclPreDelete
	DeclDeleteAll
	DeclClose
)

var declNames = map[DeclKind]string{
	DeclImports:   "imports",
	DeclFactory:   "factory",
	DeclPreSelect: "preSelect",
	DeclPreUpdate: "preUpdate",
	DeclPreDelete: "preDelete",
	DeclDeleteAll: "doDeleteAll",
	DeclClose:     "close",
}

// String implements fmt.Stringer.
func (k DeclKind) String() string {
	if s, ok := declNames[k]; ok {
		return s
	}
	return fmt.Sprintf("DeclKind(%d)", int(k))
}

// IsFilter reports if the declaration injects the class key condition.
func (k DeclKind) IsFilter() bool {
	return k == DeclPreSelect || k == DeclPreUpdate || k == DeclPreDelete
}

// Decl is one declaration of a unit. Doc holds the documentation lines of the
// declaration, without comment markers.
type Decl struct {
	Kind DeclKind
	Doc  []string
}

// Header holds the data of the documentation block opening a unit.
type Header struct {
	// Comment is the configured file header, if any.
	Comment string
	// TableName is the SQL name of the table persisting the subtype.
	TableName string
	// Description is the optional table description.
	Description string
	// GeneratedAt is set when timestamps are enabled.
	GeneratedAt *time.Time
	// Version of the generator, reported with the timestamp.
	Version string
}

// Condition is the class key condition injected by every filter hook:
// the discriminator column equals the constant of the subtype key.
type Condition struct {
	Column *load.Column
	// ColumnConstant references the discriminator column.
	ColumnConstant string
	// TableMap is the class holding the class key constants.
	TableMap string
	// Constant is the class key constant of the subtype, e.g. CLASSKEY_ADMIN.
	Constant string
	// Key is the raw discriminator value.
	Key string
}

// Unit is the language independent shape of a subtype query unit. Renderers
// turn it into source text; they decide syntax, never structure.
type Unit struct {
	Table     *load.Table
	Subtype   *load.Inheritance
	Ancestor  Ancestor
	Placement Placement
	// AncestorNamespace is the namespace of the ancestor unit. It equals the
	// unit namespace unless the subtype extends another table.
	AncestorNamespace string
	Header            Header
	Condition         Condition
	Decls             []Decl
}

// ClassName returns the query class name of the unit.
func (u *Unit) ClassName() string { return u.Placement.ClassName }

// ObjectClass returns the class name of the subtype the unit queries.
func (u *Unit) ObjectClass() string { return u.Subtype.ClassName }

// Find returns the declaration of the given kind.
func (u *Unit) Find(kind DeclKind) (Decl, bool) {
	for _, d := range u.Decls {
		if d.Kind == kind {
			return d, true
		}
	}
	return Decl{}, false
}

// BuildUnit assembles the unit of the target subtype of table t deriving
// from the given ancestor. sep is the namespace separator of the language
// the unit will be rendered in.
func BuildUnit(cfg *Config, namer Namer, sep string, t *load.Table, target *load.Inheritance, ancestor Ancestor) (*Unit, error) {
	if target == nil {
		return nil, errMissingTarget("BuildUnit")
	}
	if t == nil {
		return nil, NewConfigError("Table", nil, "BuildUnit needs the table owning the subtype")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	col := target.Column()
	if col == nil {
		return nil, NewSchemaError(t.Name, target.ClassName, "subtype is not linked to a discriminator column", nil)
	}
	if ancestor.Kind == 0 || ancestor.Class == "" {
		return nil, NewSchemaError(t.Name, target.ClassName, "no ancestor query unit resolved", ErrUnresolvedAncestor)
	}
	placement, err := Place(t, target, namer, sep)
	if err != nil {
		return nil, err
	}
	u := &Unit{
		Table:             t,
		Subtype:           target,
		Ancestor:          ancestor,
		Placement:         placement,
		AncestorNamespace: placement.Namespace,
		Header: Header{
			Comment:     cfg.Header,
			TableName:   t.Name,
			Description: t.Description,
			Version:     cfg.version(),
		},
		Condition: Condition{
			Column:         col,
			ColumnConstant: namer.ColumnConstant(col),
			TableMap:       namer.TableMapClass(t),
			Constant:       namer.ClassKeyConstant(target),
			Key:            target.Key,
		},
	}
	if ancestor.Kind == AncestorTable && ancestor.Table != nil && ancestor.Table != t {
		u.AncestorNamespace = DeriveNamespace(ancestor.Table, sep)
	}
	if cfg.Timestamp {
		now := cfg.now()
		u.Header.GeneratedAt = &now
	}
	filterDoc := []string{fmt.Sprintf("Filters the query to target only %s objects.", target.ClassName)}
	u.Decls = []Decl{
		{Kind: DeclImports},
		{Kind: DeclFactory, Doc: []string{fmt.Sprintf("Returns a new %s object.", placement.ClassName)}},
		{Kind: DeclPreSelect, Doc: filterDoc},
		{Kind: DeclPreUpdate, Doc: filterDoc},
		{Kind: DeclPreDelete, Doc: filterDoc},
		{Kind: DeclDeleteAll, Doc: []string{
			"Issue a DELETE query based on the current ModelCriteria deleting all rows in the table",
			fmt.Sprintf("Having the %s class.", target.ClassName),
		}},
		{Kind: DeclClose},
	}
	return u, nil
}
