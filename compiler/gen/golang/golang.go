// Package golang renders subtype query units as Go types embedding the
// query type they derive from, built on the dialect/sql runtime.
package golang

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/syssam/stigen/compiler/gen"
	"github.com/syssam/stigen/compiler/load"
)

// RuntimePkg is the import path of the runtime used by generated units.
const RuntimePkg = "github.com/syssam/stigen/dialect/sql"

// Separator joins the segments of Go import paths.
const Separator = "/"

// Renderer renders units as Go source.
type Renderer struct {
	namer Namer
}

var _ gen.Renderer = (*Renderer)(nil)

// New returns a Go renderer.
func New() *Renderer {
	return &Renderer{}
}

// Name implements gen.Renderer.
func (*Renderer) Name() string { return "go" }

// Extension implements gen.Renderer.
func (*Renderer) Extension() string { return ".go" }

// NamespaceSeparator implements gen.Renderer.
func (*Renderer) NamespaceSeparator() string { return Separator }

// Namer implements gen.Renderer.
func (r *Renderer) Namer() gen.Namer { return r.namer }

// Namer names Go query units. Table level constants live in the entity
// package of the table, named after the table in lower case.
type Namer struct{}

var _ gen.Namer = Namer{}

// QueryClass returns "<PhpName>Query".
func (Namer) QueryClass(t *load.Table) string { return t.PhpName + "Query" }

// SubtypeQueryClass returns "<ClassName>Query".
func (Namer) SubtypeQueryClass(inh *load.Inheritance) string { return inh.ClassName + "Query" }

// TableMapClass returns the name of the entity package of the table.
func (Namer) TableMapClass(t *load.Table) string { return strings.ToLower(t.PhpName) }

// ColumnConstant returns "<entity>.Column<PhpName>".
func (n Namer) ColumnConstant(c *load.Column) string {
	return n.TableMapClass(c.Table()) + "." + columnIdent(c)
}

// ClassKeyConstant returns "ClassKey<Key>", the key camelized.
func (Namer) ClassKeyConstant(inh *load.Inheritance) string {
	return "ClassKey" + inflect.Camelize(strings.ToLower(inh.Key))
}

func columnIdent(c *load.Column) string {
	return "Column" + c.PhpName
}

// EntityPkgPath returns the import path of the entity package of t.
func EntityPkgPath(t *load.Table) string {
	pkg := strings.ToLower(t.PhpName)
	if ns := t.EffectiveNamespace(); ns != "" {
		return ns + Separator + pkg
	}
	return pkg
}

// PackageName returns the package clause name of a unit namespace.
func PackageName(namespace string) string {
	return strings.ToLower(path.Base(namespace))
}

// Render implements gen.Renderer.
func (r *Renderer) Render(u *gen.Unit) ([]byte, error) {
	f, err := r.File(u)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// File builds the jennifer file of the unit.
func (r *Renderer) File(u *gen.Unit) (*jen.File, error) {
	f := jen.NewFilePathName(u.Placement.Namespace, PackageName(u.Placement.Namespace))
	if u.Header.Comment != "" {
		f.HeaderComment(u.Header.Comment)
	}
	for _, decl := range u.Decls {
		switch decl.Kind {
		case gen.DeclImports:
			// jennifer tracks imports through qualified identifiers.
			f.ImportName(RuntimePkg, "sql")
			r.genType(f, u)
		case gen.DeclFactory:
			r.genFactory(f, u, decl)
		case gen.DeclPreSelect:
			r.genFilter(f, u, decl, "PreSelect", jen.Id("ctx").Qual("context", "Context"), jen.Id("conn").Qual(RuntimePkg, "Conn"))
		case gen.DeclPreUpdate:
			r.genFilter(f, u, decl, "PreUpdate",
				jen.Id("ctx").Qual("context", "Context"),
				jen.Id("values").Map(jen.String()).Any(),
				jen.Id("conn").Qual(RuntimePkg, "Conn"),
				jen.Id("forceIndividualSaves").Bool(),
			)
		case gen.DeclPreDelete:
			r.genFilter(f, u, decl, "PreDelete", jen.Id("ctx").Qual("context", "Context"), jen.Id("conn").Qual(RuntimePkg, "Conn"))
		case gen.DeclDeleteAll:
			r.genDeleteAll(f, u)
		case gen.DeclClose:
			f.Line()
			f.Commentf("End of %s.", u.ClassName())
		default:
			return nil, fmt.Errorf("golang: unknown declaration %s", decl.Kind)
		}
	}
	return f, nil
}

// ancestor returns the embedded ancestor type and its constructor.
func (r *Renderer) ancestor(u *gen.Unit) (typ, ctor jen.Code) {
	return jen.Qual(u.AncestorNamespace, u.Ancestor.Class), jen.Qual(u.AncestorNamespace, "New"+u.Ancestor.Class)
}

// genType generates the documented type declaration embedding the ancestor.
func (r *Renderer) genType(f *jen.File, u *gen.Unit) {
	name := u.ClassName()
	f.Commentf("%s is the query for one of the subtypes of the '%s' table.", name, u.Header.TableName)
	if u.Header.Description != "" {
		f.Comment("")
		f.Comment(u.Header.Description)
	}
	if at := u.Header.GeneratedAt; at != nil {
		f.Comment("")
		f.Commentf("This file was autogenerated by stigen %s on:", u.Header.Version)
		f.Comment("")
		f.Comment(at.Format("Mon Jan _2 15:04:05 2006"))
	}
	f.Comment("")
	f.Comment("You should add additional methods to this type to meet the")
	f.Comment("application requirements. This file will only be generated as")
	f.Comment("long as it does not already exist in the output directory.")
	typ, _ := r.ancestor(u)
	f.Type().Id(name).Struct(
		jen.Op("*").Add(typ),
	)
}

// genFactory generates New<Class>, which adopts a criteria that already is
// of the unit type and wraps anything else.
func (r *Renderer) genFactory(f *jen.File, u *gen.Unit, decl gen.Decl) {
	name := u.ClassName()
	ctorName := "New" + name
	_, ctor := r.ancestor(u)
	f.Line()
	comment(f, ctorName, decl.Doc)
	f.Func().Id(ctorName).Params(
		jen.Id("modelAlias").String(),
		jen.Id("criteria").Qual(RuntimePkg, "Criteria"),
	).Op("*").Id(name).Block(
		jen.If(
			jen.List(jen.Id("q"), jen.Id("ok")).Op(":=").Id("criteria").Assert(jen.Op("*").Id(name)),
			jen.Id("ok"),
		).Block(
			jen.Return(jen.Id("q")),
		),
		jen.Id("query").Op(":=").Op("&").Id(name).Values(jen.Dict{
			jen.Id(u.Ancestor.Class): jen.Add(ctor).Call(jen.Lit(""), jen.Nil()),
		}),
		jen.If(jen.Id("modelAlias").Op("!=").Lit("")).Block(
			jen.Id("query").Dot("SetModelAlias").Call(jen.Id("modelAlias")),
		),
		jen.If(jen.Id("criteria").Op("!=").Nil()).Block(
			jen.Id("query").Dot("MergeWith").Call(jen.Id("criteria")),
		),
		jen.Return(jen.Id("query")),
	)
}

// genFilter generates a hook adding the class key condition.
func (r *Renderer) genFilter(f *jen.File, u *gen.Unit, decl gen.Decl, method string, params ...jen.Code) {
	f.Line()
	comment(f, method, decl.Doc)
	f.Func().Params(jen.Id("q").Op("*").Id(u.ClassName())).Id(method).Params(params...).Error().Block(
		r.condition(u),
		jen.Return(jen.Nil()),
	)
}

// condition returns the statement adding the class key condition.
func (r *Renderer) condition(u *gen.Unit) jen.Code {
	pkg := EntityPkgPath(u.Table)
	return jen.Id("q").Dot("AddUsingAlias").Call(
		jen.Qual(pkg, columnIdent(u.Condition.Column)),
		jen.Qual(pkg, u.Condition.Constant),
	)
}

// genDeleteAll generates DoDeleteAll, which delegates to the ancestor.
func (r *Renderer) genDeleteAll(f *jen.File, u *gen.Unit) {
	f.Line()
	f.Comment("DoDeleteAll issues a DELETE query based on the current ModelCriteria deleting")
	f.Commentf("all rows in the table having the %s class. It is called by sql.DeleteAll", u.ObjectClass())
	f.Comment("after PreDelete.")
	f.Func().Params(jen.Id("q").Op("*").Id(u.ClassName())).Id("DoDeleteAll").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("conn").Qual(RuntimePkg, "Conn"),
	).Params(jen.Int64(), jen.Error()).Block(
		jen.Comment("Condition on class key is already added in PreDelete."),
		jen.Return(jen.Id("q").Dot(u.Ancestor.Class).Dot("Delete").Call(jen.Id("ctx"), jen.Id("conn"))),
	)
}

// comment writes doc lines as a Go doc comment starting with name.
func comment(f *jen.File, name string, doc []string) {
	for i, line := range doc {
		if i == 0 {
			line = name + " " + lowerFirst(line)
		}
		f.Comment(line)
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
