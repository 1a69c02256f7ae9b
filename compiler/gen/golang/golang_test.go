package golang

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/stigen/compiler/gen"
	"github.com/syssam/stigen/compiler/load"
)

const schema = `
name: bookstore
namespace: example.com/bookstore/model
tables:
  - name: publication
    namespace: example.com/bookstore/catalog
    columns:
      - name: id
  - name: book
    description: Books of the store
    columns:
      - name: id
      - name: class_key
        inheritance: single
        children:
          - key: essay
            class: Essay
          - key: novel
            class: Novel
            extends: Essay
          - key: short_novel
            class: ShortNovel
            extends: Novel
          - key: comic
            class: Comic
            extends: Publication
`

func fixture(t *testing.T) (*load.Table, map[string]*load.Inheritance) {
	t.Helper()
	db, err := load.Load(strings.NewReader(schema), load.FormatYAML)
	require.NoError(t, err)
	book, ok := db.TableByName("book")
	require.True(t, ok)
	subtypes := make(map[string]*load.Inheritance)
	for _, inh := range book.Children() {
		subtypes[inh.ClassName] = inh
	}
	return book, subtypes
}

func unit(t *testing.T, cfg *gen.Config, class string) *gen.Unit {
	t.Helper()
	book, subtypes := fixture(t)
	u, err := gen.NewGenerator(cfg, New()).Unit(book, subtypes[class])
	require.NoError(t, err)
	return u
}

func TestNamer(t *testing.T) {
	book, subtypes := fixture(t)
	n := Namer{}
	assert.Equal(t, "BookQuery", n.QueryClass(book))
	assert.Equal(t, "ShortNovelQuery", n.SubtypeQueryClass(subtypes["ShortNovel"]))
	assert.Equal(t, "book", n.TableMapClass(book))
	assert.Equal(t, "book.ColumnClassKey", n.ColumnConstant(book.ChildrenColumn()))
	assert.Equal(t, "ClassKeyShortNovel", n.ClassKeyConstant(subtypes["ShortNovel"]))
	assert.Equal(t, "example.com/bookstore/model/book", EntityPkgPath(book))
	assert.Equal(t, "base", PackageName("example.com/bookstore/model/Base"))
	assert.Equal(t, "base", PackageName("Base"))
}

func TestRender(t *testing.T) {
	u := unit(t, nil, "Novel")
	assert.Equal(t, "example.com/bookstore/model/Base", u.Placement.Namespace)

	src, err := New().Render(u)
	require.NoError(t, err)
	code := string(src)

	assert.Contains(t, code, "package base")
	assert.Contains(t, code, `"example.com/bookstore/model/book"`)
	assert.Contains(t, code, `"github.com/syssam/stigen/dialect/sql"`)
	assert.Contains(t, code, "type NovelQuery struct {\n\t*EssayQuery\n}")
	assert.Contains(t, code, "// NewNovelQuery returns a new NovelQuery object.")
	assert.Contains(t, code, "func NewNovelQuery(modelAlias string, criteria sql.Criteria) *NovelQuery {")
	assert.Contains(t, code, "if q, ok := criteria.(*NovelQuery); ok {")
	assert.Contains(t, code, `EssayQuery: NewEssayQuery("", nil)`)
	assert.Contains(t, code, "query.SetModelAlias(modelAlias)")
	assert.Contains(t, code, "query.MergeWith(criteria)")
	assert.Contains(t, code, "func (q *NovelQuery) PreSelect(ctx context.Context, conn sql.Conn) error {")
	assert.Contains(t, code, "func (q *NovelQuery) PreUpdate(ctx context.Context, values map[string]any, conn sql.Conn, forceIndividualSaves bool) error {")
	assert.Contains(t, code, "func (q *NovelQuery) PreDelete(ctx context.Context, conn sql.Conn) error {")
	assert.Contains(t, code, "// PreSelect filters the query to target only Novel objects.")
	assert.Equal(t, 3, strings.Count(code, "q.AddUsingAlias(book.ColumnClassKey, book.ClassKeyNovel)"))
	assert.Contains(t, code, "func (q *NovelQuery) DoDeleteAll(ctx context.Context, conn sql.Conn) (int64, error) {")
	assert.Contains(t, code, "return q.EssayQuery.Delete(ctx, conn)")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(code), "// End of NovelQuery."))
}

func TestRenderParses(t *testing.T) {
	for _, class := range []string{"Essay", "Novel", "ShortNovel", "Comic"} {
		t.Run(class, func(t *testing.T) {
			src, err := New().Render(unit(t, nil, class))
			require.NoError(t, err)

			fset := token.NewFileSet()
			file, err := parser.ParseFile(fset, class+"Query.go", src, parser.ParseComments)
			require.NoError(t, err)
			assert.Equal(t, "base", file.Name.Name)

			methods := map[string]bool{}
			for _, decl := range file.Decls {
				fn, ok := decl.(*ast.FuncDecl)
				if !ok {
					continue
				}
				methods[fn.Name.Name] = true
				assert.NotNil(t, fn.Doc, fn.Name.Name)
			}
			for _, name := range []string{"New" + class + "Query", "PreSelect", "PreUpdate", "PreDelete", "DoDeleteAll"} {
				assert.True(t, methods[name], name)
			}
		})
	}
}

func TestRenderRoot(t *testing.T) {
	src, err := New().Render(unit(t, nil, "Essay"))
	require.NoError(t, err)
	code := string(src)
	assert.Contains(t, code, "type EssayQuery struct {\n\t*BookQuery\n}")
	assert.Contains(t, code, `BookQuery: NewBookQuery("", nil)`)
	assert.Contains(t, code, "return q.BookQuery.Delete(ctx, conn)")
}

func TestRenderOtherTableAncestor(t *testing.T) {
	u := unit(t, nil, "Comic")
	assert.Equal(t, "example.com/bookstore/catalog/Base", u.AncestorNamespace)

	src, err := New().Render(u)
	require.NoError(t, err)
	code := string(src)
	assert.Contains(t, code, `"example.com/bookstore/catalog/Base"`)
	assert.Contains(t, code, "PublicationQuery\n}")
	assert.Contains(t, code, "return q.PublicationQuery.Delete(ctx, conn)")
}

func TestRenderHeader(t *testing.T) {
	cfg := gen.MustNewConfig(gen.WithHeader("// Code generated by stigen. DO NOT EDIT."))
	f, err := New().File(unit(t, cfg, "Novel"))
	require.NoError(t, err)
	code := f.GoString()
	assert.True(t, strings.HasPrefix(code, "// Code generated by stigen. DO NOT EDIT."))
	assert.Contains(t, code, "// Books of the store")
}

func TestRenderUnknownDecl(t *testing.T) {
	u := unit(t, nil, "Essay")
	u.Decls = append(u.Decls, gen.Decl{Kind: gen.DeclKind(99)})
	_, err := New().Render(u)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DeclKind(99)")
}

func TestGenerateAll(t *testing.T) {
	book, _ := fixture(t)
	outs, err := gen.NewGenerator(nil, New()).GenerateAll(context.Background(), book.Database())
	require.NoError(t, err)
	require.Len(t, outs, 4)
	for _, out := range outs {
		assert.Equal(t, ".go", out.FileName[len(out.FileName)-3:])
		assert.Equal(t, "example.com/bookstore/model/Base", out.Placement.Namespace)
	}
}

func TestRenderer(t *testing.T) {
	r := New()
	assert.Equal(t, "go", r.Name())
	assert.Equal(t, ".go", r.Extension())
	assert.Equal(t, "/", r.NamespaceSeparator())
	assert.Equal(t, Namer{}, r.Namer())
}

func TestLowerFirst(t *testing.T) {
	assert.Equal(t, "returns", lowerFirst("Returns"))
	assert.Equal(t, "", lowerFirst(""))
}

func TestClassKeyCollision(t *testing.T) {
	db, err := load.Load(strings.NewReader(`
name: shop
namespace: example.com/shop
tables:
  - name: car
    columns:
      - name: kind
        inheritance: single
        children:
          - key: a_b
            class: Ab
          - key: a-b
            class: AdashB
`), load.FormatYAML)
	require.NoError(t, err)

	car, _ := db.TableByName("car")
	outs, err := gen.NewGenerator(nil, New()).GenerateAll(context.Background(), db)
	assert.Nil(t, outs)
	assert.True(t, gen.IsSchemaError(err))
	assert.Contains(t, err.Error(), "ClassKeyAB")

	_, err = gen.NewGenerator(nil, New()).Generate(context.Background(), car, car.Children()[0])
	assert.True(t, gen.IsSchemaError(err))
}
