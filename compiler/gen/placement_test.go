package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/stigen/compiler/load"
)

func TestDerivePackage(t *testing.T) {
	tests := []struct {
		name     string
		dbPkg    string
		tablePkg string
		childPkg string
		want     string
	}{
		{"child wins", "db", "table", "child", "child.Base"},
		{"table over database", "db", "table", "", "table.Base"},
		{"database fallback", "db", "", "", "db.Base"},
		{"nothing set", "", "", "", ".Base"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &load.Database{
				Name:    "db",
				Package: tt.dbPkg,
				Tables: []*load.Table{{
					Name:    "book",
					Package: tt.tablePkg,
					Columns: []*load.Column{{
						Name:            "class_key",
						InheritanceType: load.InheritanceSingle,
						Inheritances:    []*load.Inheritance{{Key: "a", ClassName: "A", Package: tt.childPkg}},
					}},
				}},
			}
			db.Link()
			book := db.Tables[0]
			got, err := DerivePackage(book, book.Children()[0])
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing target", func(t *testing.T) {
		_, err := DerivePackage(&load.Table{Name: "book"}, nil)
		assert.True(t, errors.Is(err, ErrMissingTarget))
	})
}

func TestDeriveNamespace(t *testing.T) {
	tests := []struct {
		name    string
		dbNs    string
		tableNs string
		sep     string
		want    string
	}{
		{"table namespace", `App`, `App\Model`, `\`, `App\Model\Base`},
		{"database fallback", `App\Model`, "", `\`, `App\Model\Base`},
		{"empty", "", "", `\`, "Base"},
		{"go import path", "example.com/shop", "", "/", "example.com/shop/Base"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &load.Database{Name: "db", Namespace: tt.dbNs, Tables: []*load.Table{{Name: "book", Namespace: tt.tableNs}}}
			db.Link()
			assert.Equal(t, tt.want, DeriveNamespace(db.Tables[0], tt.sep))
		})
	}
}

func TestPlace(t *testing.T) {
	book, subtypes := fixture(t)

	p, err := Place(book, subtypes["Novel"], DefaultNamer{}, `\`)
	require.NoError(t, err)
	assert.Equal(t, Placement{
		Namespace: `App\Model\Base`,
		Package:   "bookstore.Base",
		ClassName: "NovelQuery",
	}, p)

	p, err = Place(book, subtypes["Comic"], DefaultNamer{}, `\`)
	require.NoError(t, err)
	assert.Equal(t, "comics.Base", p.Package)
	assert.Equal(t, `App\Model\Base`, p.Namespace)

	_, err = Place(book, nil, DefaultNamer{}, `\`)
	assert.True(t, errors.Is(err, ErrMissingTarget))
}
