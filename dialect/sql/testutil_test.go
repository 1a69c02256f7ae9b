package sql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/syssam/stigen/dialect"
)

// Query types below have the shape of generated units: PersonQuery is the
// generic query of the person table, AdminQuery the query of the admin
// subtype and SuperAdminQuery the query of a subtype extending admin.

const (
	personTable              = "person"
	personColumnName         = "person.name"
	personColumnClassKey     = "person.class_key"
	personClassKeyUser       = "user"
	personClassKeyAdmin      = "admin"
	personClassKeySuperAdmin = "super_admin"
)

type PersonQuery struct {
	*ModelCriteria
}

func NewPersonQuery(modelAlias string, criteria Criteria) *PersonQuery {
	if q, ok := criteria.(*PersonQuery); ok {
		return q
	}
	query := &PersonQuery{ModelCriteria: NewModelCriteria(personTable)}
	if modelAlias != "" {
		query.SetModelAlias(modelAlias)
	}
	if criteria != nil {
		query.MergeWith(criteria)
	}
	return query
}

type AdminQuery struct {
	*PersonQuery
}

func NewAdminQuery(modelAlias string, criteria Criteria) *AdminQuery {
	if q, ok := criteria.(*AdminQuery); ok {
		return q
	}
	query := &AdminQuery{PersonQuery: NewPersonQuery("", nil)}
	if modelAlias != "" {
		query.SetModelAlias(modelAlias)
	}
	if criteria != nil {
		query.MergeWith(criteria)
	}
	return query
}

func (q *AdminQuery) PreSelect(ctx context.Context, conn Conn) error {
	q.AddUsingAlias(personColumnClassKey, personClassKeyAdmin)
	return nil
}

func (q *AdminQuery) PreUpdate(ctx context.Context, values map[string]any, conn Conn, forceIndividualSaves bool) error {
	q.AddUsingAlias(personColumnClassKey, personClassKeyAdmin)
	return nil
}

func (q *AdminQuery) PreDelete(ctx context.Context, conn Conn) error {
	q.AddUsingAlias(personColumnClassKey, personClassKeyAdmin)
	return nil
}

func (q *AdminQuery) DoDeleteAll(ctx context.Context, conn Conn) (int64, error) {
	return q.PersonQuery.Delete(ctx, conn)
}

type SuperAdminQuery struct {
	*AdminQuery
}

func NewSuperAdminQuery(modelAlias string, criteria Criteria) *SuperAdminQuery {
	if q, ok := criteria.(*SuperAdminQuery); ok {
		return q
	}
	query := &SuperAdminQuery{AdminQuery: NewAdminQuery("", nil)}
	if modelAlias != "" {
		query.SetModelAlias(modelAlias)
	}
	if criteria != nil {
		query.MergeWith(criteria)
	}
	return query
}

func (q *SuperAdminQuery) PreSelect(ctx context.Context, conn Conn) error {
	q.AddUsingAlias(personColumnClassKey, personClassKeySuperAdmin)
	return nil
}

func (q *SuperAdminQuery) PreUpdate(ctx context.Context, values map[string]any, conn Conn, forceIndividualSaves bool) error {
	q.AddUsingAlias(personColumnClassKey, personClassKeySuperAdmin)
	return nil
}

func (q *SuperAdminQuery) PreDelete(ctx context.Context, conn Conn) error {
	q.AddUsingAlias(personColumnClassKey, personClassKeySuperAdmin)
	return nil
}

func (q *SuperAdminQuery) DoDeleteAll(ctx context.Context, conn Conn) (int64, error) {
	return q.AdminQuery.Delete(ctx, conn)
}

var (
	_ SelectHook  = (*AdminQuery)(nil)
	_ UpdateHook  = (*AdminQuery)(nil)
	_ DeleteHook  = (*AdminQuery)(nil)
	_ DeleteAller = (*AdminQuery)(nil)
	_ Model       = (*SuperAdminQuery)(nil)
)

// mockDriver returns a Postgres driver backed by sqlmock with exact matching.
func mockDriver(t *testing.T) (*Driver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return OpenDB(dialect.Postgres, db), mock
}

// sqliteDriver returns an in-memory SQLite database holding three persons:
// a user, an admin and a super admin.
func sqliteDriver(t *testing.T) *Driver {
	t.Helper()
	drv, err := Open(dialect.SQLite, "file::memory:")
	require.NoError(t, err)
	drv.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { drv.Close() })

	ctx := context.Background()
	_, err = drv.ExecContext(ctx, "CREATE TABLE person (id INTEGER PRIMARY KEY, name TEXT, class_key TEXT)")
	require.NoError(t, err)
	for i, key := range []string{personClassKeyUser, personClassKeyAdmin, personClassKeySuperAdmin} {
		_, err = drv.ExecContext(ctx, "INSERT INTO person (id, name, class_key) VALUES (?, ?, ?)", i+1, key+" name", key)
		require.NoError(t, err)
	}
	return drv
}

// count returns the number of persons with the given class key.
func count(t *testing.T, drv *Driver, key string) int {
	t.Helper()
	var n int
	err := drv.DB().QueryRowContext(context.Background(), "SELECT COUNT(*) FROM person WHERE class_key = ?", key).Scan(&n)
	require.NoError(t, err)
	return n
}
