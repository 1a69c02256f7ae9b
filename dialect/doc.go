// Package dialect names the SQL dialects supported by the runtime of
// generated Go query units.
//
// # Supported Dialects
//
// The following dialects are supported:
//
//   - Postgres: PostgreSQL database (github.com/lib/pq)
//   - MySQL: MySQL/MariaDB database (github.com/go-sql-driver/mysql)
//   - SQLite: SQLite database (modernc.org/sqlite)
//
// # Usage
//
// Opening a database connection:
//
//	import (
//	    "github.com/syssam/stigen/dialect"
//	    "github.com/syssam/stigen/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	n, err := sql.DeleteAll(ctx, drv.Conn, base.NewAdminQuery("", nil))
package dialect

// Dialect names.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// IsSupported reports if name is one of the supported dialects.
func IsSupported(name string) bool {
	switch name {
	case MySQL, SQLite, Postgres:
		return true
	}
	return false
}
