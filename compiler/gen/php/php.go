// Package php renders subtype query units as PHP classes extending the
// Propel generic query classes.
package php

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/syssam/stigen/compiler/gen"
)

// Propel runtime classes referenced by every unit.
const (
	CriteriaClass   = `Propel\Runtime\ActiveQuery\Criteria`
	ConnectionClass = `Propel\Runtime\Connection\ConnectionInterface`
)

// Separator joins PHP namespace segments.
const Separator = `\`

// MapSegment is the namespace segment holding table map classes.
const MapSegment = "Map"

// Renderer renders units as PHP source.
type Renderer struct {
	namer gen.Namer
}

var _ gen.Renderer = (*Renderer)(nil)

// New returns a PHP renderer using the Propel naming conventions.
func New() *Renderer {
	return &Renderer{namer: gen.DefaultNamer{}}
}

// Name implements gen.Renderer.
func (*Renderer) Name() string { return "php" }

// Extension implements gen.Renderer.
func (*Renderer) Extension() string { return ".php" }

// NamespaceSeparator implements gen.Renderer.
func (*Renderer) NamespaceSeparator() string { return Separator }

// Namer implements gen.Renderer.
func (r *Renderer) Namer() gen.Namer { return r.namer }

// data is the template data of one declaration.
type data struct {
	*gen.Unit
	Decl gen.Decl
	Uses []string
}

var declTemplates = map[gen.DeclKind]string{
	gen.DeclFactory:   "factory",
	gen.DeclPreSelect: "preSelect",
	gen.DeclPreUpdate: "preUpdate",
	gen.DeclPreDelete: "preDelete",
	gen.DeclDeleteAll: "deleteAll",
	gen.DeclClose:     "close",
}

// Render implements gen.Renderer.
func (r *Renderer) Render(u *gen.Unit) ([]byte, error) {
	var buf bytes.Buffer
	d := &data{Unit: u, Uses: r.uses(u)}
	if err := templates.ExecuteTemplate(&buf, "preamble", d); err != nil {
		return nil, err
	}
	for _, decl := range u.Decls {
		d.Decl = decl
		if decl.Kind == gen.DeclImports {
			if err := templates.ExecuteTemplate(&buf, "imports", d); err != nil {
				return nil, err
			}
			if err := templates.ExecuteTemplate(&buf, "classOpen", d); err != nil {
				return nil, err
			}
			continue
		}
		name, ok := declTemplates[decl.Kind]
		if !ok {
			return nil, fmt.Errorf("php: no template for declaration %s", decl.Kind)
		}
		if err := templates.ExecuteTemplate(&buf, name, d); err != nil {
			return nil, fmt.Errorf("php: execute %s: %w", name, err)
		}
	}
	return buf.Bytes(), nil
}

// uses returns the sorted use statements of the unit: the runtime classes,
// the table map and the ancestor when it lives in another namespace.
func (r *Renderer) uses(u *gen.Unit) []string {
	uses := []string{CriteriaClass, ConnectionClass, TableMapClass(u, r.namer)}
	if u.AncestorNamespace != u.Placement.Namespace {
		uses = append(uses, u.AncestorNamespace+Separator+u.Ancestor.Class)
	}
	slices.Sort(uses)
	return slices.Compact(uses)
}

// TableMapClass returns the fully-qualified table map class of the unit table.
func TableMapClass(u *gen.Unit, namer gen.Namer) string {
	class := namer.TableMapClass(u.Table)
	if ns := u.Table.EffectiveNamespace(); ns != "" {
		return ns + Separator + MapSegment + Separator + class
	}
	return MapSegment + Separator + class
}
