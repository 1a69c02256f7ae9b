// Package sql is the runtime of generated Go query units.
//
// A generic query type embeds *ModelCriteria for its table. The query type of
// a single table inheritance subtype embeds the query type it derives from and
// implements the hooks below, each adding the class key condition of the
// subtype:
//
//   - SelectHook: PreSelect, run by Select
//   - UpdateHook: PreUpdate, run by UpdateAll
//   - DeleteHook: PreDelete, run by DeleteAll
//
// DeleteAll then calls DoDeleteAll, which delegates to the plain delete of
// the ancestor. Calling DoDeleteAll directly skips PreDelete and deletes
// every row matched by the conditions already added.
//
// # Statements
//
// Statements are built with github.com/Masterminds/squirrel. Bind variables
// follow the dialect of the Conn: "$1" for Postgres, "?" otherwise.
//
//	q := sql.NewModelCriteria("book").SetModelAlias("b")
//	q.AddUsingAlias("book.class_key", "novel")
//	q.SelectBuilder().ToSql()
//	// SELECT * FROM book AS b WHERE b.class_key = ?
package sql
