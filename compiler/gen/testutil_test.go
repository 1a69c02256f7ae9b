package gen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/syssam/stigen/compiler/load"
	"github.com/syssam/stigen/internal/logger"
)

// bookstore declares a two level subtype chain, a subtype extending another
// table through a qualified name and a subtype with its own package.
const bookstore = `
name: bookstore
namespace: App\Model
package: bookstore
tables:
  - name: publication
    namespace: App\Catalog
    columns:
      - name: id
  - name: book
    description: Books of the store
    columns:
      - name: id
        type: INTEGER
      - name: class_key
        type: VARCHAR
        inheritance: single
        children:
          - key: short_novel
            class: ShortNovel
            extends: \App\Model\Novel
          - key: novel
            class: Novel
            extends: Essay
          - key: essay
            class: Essay
          - key: comic
            class: Comic
            extends: Publication
            package: comics
`

var fixedTime = time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

// loadDB loads a YAML schema or fails the test.
func loadDB(t testing.TB, src string) *load.Database {
	t.Helper()
	db, err := load.Load(strings.NewReader(src), load.FormatYAML)
	require.NoError(t, err)
	return db
}

// fixture returns the book table of the bookstore schema and its subtypes
// indexed by class name.
func fixture(t testing.TB) (*load.Table, map[string]*load.Inheritance) {
	t.Helper()
	db := loadDB(t, bookstore)
	book, ok := db.TableByName("book")
	require.True(t, ok)
	subtypes := make(map[string]*load.Inheritance)
	for _, inh := range book.Children() {
		subtypes[inh.ClassName] = inh
	}
	return book, subtypes
}

// observe routes the global logger to an observer for the test duration.
func observe(t testing.TB) *observer.ObservedLogs {
	t.Helper()
	old := logger.Logger
	t.Cleanup(func() { logger.Set(old) })
	core, logs := observer.New(zap.DebugLevel)
	logger.Set(zap.New(core).Sugar())
	return logs
}

// stubRenderer renders the class name of the unit and its ancestor.
type stubRenderer struct {
	err error
}

func (stubRenderer) Name() string               { return "stub" }
func (stubRenderer) Extension() string          { return ".txt" }
func (stubRenderer) NamespaceSeparator() string { return `\` }
func (stubRenderer) Namer() Namer               { return DefaultNamer{} }

func (r stubRenderer) Render(u *Unit) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte(u.ClassName() + " extends " + u.Ancestor.Class), nil
}
