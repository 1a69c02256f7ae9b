package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/syssam/stigen/internal/logger"
)

// Condition restricts a query to the rows where Column equals Value.
type Condition struct {
	// Column is qualified with the table name or the model alias.
	Column string
	Value  any
}

// Criteria is the state of a query that other queries can merge.
type Criteria interface {
	TableName() string
	ModelAlias() string
	Conditions() []Condition
}

// ModelCriteria is the query over the rows of one table. Generated query
// types embed it, directly or through the query type they derive from.
type ModelCriteria struct {
	table string
	alias string
	conds []Condition
}

var _ Criteria = (*ModelCriteria)(nil)

// NewModelCriteria returns a query over all rows of table.
func NewModelCriteria(table string) *ModelCriteria {
	return &ModelCriteria{table: table}
}

// TableName returns the table the query reads.
func (m *ModelCriteria) TableName() string { return m.table }

// ModelAlias returns the alias of the table in the query, if any.
func (m *ModelCriteria) ModelAlias() string { return m.alias }

// SetModelAlias sets the alias of the table in the query. Conditions added
// afterwards with AddUsingAlias are qualified with it.
func (m *ModelCriteria) SetModelAlias(alias string) *ModelCriteria {
	m.alias = alias
	return m
}

// AddUsingAlias adds the condition column = value. A column qualified with
// the table name is requalified with the model alias when one is set.
func (m *ModelCriteria) AddUsingAlias(column string, value any) *ModelCriteria {
	m.conds = append(m.conds, Condition{Column: m.qualify(column), Value: value})
	return m
}

func (m *ModelCriteria) qualify(column string) string {
	if m.alias == "" {
		return column
	}
	if name, ok := strings.CutPrefix(column, m.table+"."); ok {
		return m.alias + "." + name
	}
	return column
}

// MergeWith appends the conditions of c. The alias of c is adopted when the
// query has none.
func (m *ModelCriteria) MergeWith(c Criteria) *ModelCriteria {
	if c == nil {
		return m
	}
	if m.alias == "" {
		m.alias = c.ModelAlias()
	}
	m.conds = append(m.conds, c.Conditions()...)
	return m
}

// Conditions returns a copy of the conditions of the query, in the order
// they were added.
func (m *ModelCriteria) Conditions() []Condition {
	return append([]Condition(nil), m.conds...)
}

// from returns the table expression of the statements.
func (m *ModelCriteria) from() string {
	if m.alias != "" {
		return m.table + " AS " + m.alias
	}
	return m.table
}

// where returns the conditions as squirrel predicates.
func (m *ModelCriteria) where() []sq.Sqlizer {
	preds := make([]sq.Sqlizer, 0, len(m.conds))
	for _, c := range m.conds {
		preds = append(preds, sq.Eq{c.Column: c.Value})
	}
	return preds
}

// SelectBuilder returns the SELECT statement of the query. Columns default
// to all columns of the table.
func (m *ModelCriteria) SelectBuilder(columns ...string) sq.SelectBuilder {
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	b := sq.Select(columns...).From(m.from())
	for _, p := range m.where() {
		b = b.Where(p)
	}
	return b
}

// DeleteBuilder returns the DELETE statement of the query.
func (m *ModelCriteria) DeleteBuilder() sq.DeleteBuilder {
	b := sq.Delete(m.from())
	for _, p := range m.where() {
		b = b.Where(p)
	}
	return b
}

// UpdateBuilder returns the UPDATE statement setting values on the rows of
// the query.
func (m *ModelCriteria) UpdateBuilder(values map[string]any) sq.UpdateBuilder {
	b := sq.Update(m.from()).SetMap(values)
	for _, p := range m.where() {
		b = b.Where(p)
	}
	return b
}

// Find runs the SELECT statement of the query without calling any hook.
func (m *ModelCriteria) Find(ctx context.Context, conn Conn) (*sql.Rows, error) {
	query, args, err := m.SelectBuilder().PlaceholderFormat(conn.placeholder()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: build select: %w", err)
	}
	logger.Logger.Debugw("select", logger.FieldTable, m.table, logger.FieldSQL, query)
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: query: %w", err)
	}
	return rows, nil
}

// Delete runs the DELETE statement of the query without calling any hook
// and returns the number of deleted rows.
func (m *ModelCriteria) Delete(ctx context.Context, conn Conn) (int64, error) {
	query, args, err := m.DeleteBuilder().PlaceholderFormat(conn.placeholder()).ToSql()
	if err != nil {
		return 0, fmt.Errorf("dialect/sql: build delete: %w", err)
	}
	return m.exec(ctx, conn, query, args)
}

// Update runs the UPDATE statement of the query without calling any hook
// and returns the number of updated rows.
func (m *ModelCriteria) Update(ctx context.Context, conn Conn, values map[string]any) (int64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("dialect/sql: update %s: no values", m.table)
	}
	query, args, err := m.UpdateBuilder(values).PlaceholderFormat(conn.placeholder()).ToSql()
	if err != nil {
		return 0, fmt.Errorf("dialect/sql: build update: %w", err)
	}
	return m.exec(ctx, conn, query, args)
}

func (m *ModelCriteria) exec(ctx context.Context, conn Conn, query string, args []any) (int64, error) {
	logger.Logger.Debugw("exec", logger.FieldTable, m.table, logger.FieldSQL, query)
	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("dialect/sql: exec: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("dialect/sql: rows affected: %w", err)
	}
	return n, nil
}
