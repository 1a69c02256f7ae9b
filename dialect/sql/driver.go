package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/stigen/dialect"
)

// Driver is a SQL database opened for one dialect.
type Driver struct {
	Conn
}

// NewDriver creates a new Driver with the given Conn.
func NewDriver(c Conn) *Driver {
	return &Driver{Conn: c}
}

// Open wraps the database/sql.Open method for one of the supported dialects.
func Open(name, source string) (*Driver, error) {
	if !dialect.IsSupported(name) {
		return nil, fmt.Errorf("dialect/sql: unsupported dialect %q", name)
	}
	db, err := sql.Open(name, source)
	if err != nil {
		return nil, err
	}
	return NewDriver(Conn{db, name}), nil
}

// OpenDB wraps the given database/sql.DB with a Driver.
func OpenDB(name string, db *sql.DB) *Driver {
	return NewDriver(Conn{db, name})
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB {
	return d.ExecQuerier.(*sql.DB)
}

// Tx starts and returns a transaction.
func (d *Driver) Tx(ctx context.Context) (*Tx, error) {
	return d.BeginTx(ctx, nil)
}

// BeginTx starts a transaction with options.
func (d *Driver) BeginTx(ctx context.Context, opts *TxOptions) (*Tx, error) {
	tx, err := d.DB().BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{
		Conn: Conn{tx, d.dialect},
		Tx:   tx,
	}, nil
}

// Close closes the underlying connection.
func (d *Driver) Close() error { return d.DB().Close() }

// Tx is a transaction of a Driver.
type Tx struct {
	Conn
	*sql.Tx
}

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn is the connection handed to query units and their hooks. It is an
// ExecQuerier bound to the dialect its statements are written in.
type Conn struct {
	ExecQuerier
	dialect string
}

// NewConn binds an ExecQuerier to a dialect.
func NewConn(name string, eq ExecQuerier) Conn {
	return Conn{eq, name}
}

// Dialect returns the dialect name of the connection.
func (c Conn) Dialect() string {
	// If the underlying driver is wrapped with a telemetry driver.
	for _, name := range []string{dialect.MySQL, dialect.SQLite, dialect.Postgres} {
		if strings.HasPrefix(c.dialect, name) {
			return name
		}
	}
	return c.dialect
}

// placeholder returns the bind variable format of the dialect.
func (c Conn) placeholder() sq.PlaceholderFormat {
	if c.Dialect() == dialect.Postgres {
		return sq.Dollar
	}
	return sq.Question
}

// InTx runs fn in a transaction unless c already executes inside one.
// The transaction is committed if fn succeeds and rolled back otherwise.
func InTx(ctx context.Context, c Conn, fn func(Conn) error) error {
	db, ok := c.ExecQuerier.(*sql.DB)
	if !ok {
		return fn(c)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("dialect/sql: begin transaction: %w", err)
	}
	if err := fn(Conn{tx, c.dialect}); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("dialect/sql: commit transaction: %w", err)
	}
	return nil
}

type (
	// Result is an alias to sql.Result.
	Result = sql.Result
	// Rows is an alias to sql.Rows.
	Rows = sql.Rows
	// TxOptions holds the transaction options to be used in DB.BeginTx.
	TxOptions = sql.TxOptions
)
