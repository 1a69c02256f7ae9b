package sql

import (
	"context"
	"database/sql"
)

// Model is implemented by ModelCriteria and by every query type embedding it.
type Model interface {
	Criteria
	Find(ctx context.Context, conn Conn) (*sql.Rows, error)
	Update(ctx context.Context, conn Conn, values map[string]any) (int64, error)
	Delete(ctx context.Context, conn Conn) (int64, error)
}

// SelectHook is implemented by queries that amend themselves before a select.
type SelectHook interface {
	PreSelect(ctx context.Context, conn Conn) error
}

// UpdateHook is implemented by queries that amend themselves before an update.
type UpdateHook interface {
	PreUpdate(ctx context.Context, values map[string]any, conn Conn, forceIndividualSaves bool) error
}

// DeleteHook is implemented by queries that amend themselves before a delete.
type DeleteHook interface {
	PreDelete(ctx context.Context, conn Conn) error
}

// DeleteAller is implemented by queries that replace the delete statement
// run by DeleteAll.
type DeleteAller interface {
	DoDeleteAll(ctx context.Context, conn Conn) (int64, error)
}

// Select calls the PreSelect hook of q, if any, and runs its select.
func Select(ctx context.Context, conn Conn, q Model) (*sql.Rows, error) {
	if h, ok := q.(SelectHook); ok {
		if err := h.PreSelect(ctx, conn); err != nil {
			return nil, err
		}
	}
	return q.Find(ctx, conn)
}

// UpdateAll calls the PreUpdate hook of q, if any, and runs its update.
// The hook may change values before the statement is built.
func UpdateAll(ctx context.Context, conn Conn, q Model, values map[string]any, forceIndividualSaves bool) (int64, error) {
	if h, ok := q.(UpdateHook); ok {
		if err := h.PreUpdate(ctx, values, conn, forceIndividualSaves); err != nil {
			return 0, err
		}
	}
	return q.Update(ctx, conn, values)
}

// DeleteAll deletes the rows of q inside a transaction: the PreDelete hook
// of q runs first, then DoDeleteAll when q implements DeleteAller, or the
// plain delete of q otherwise.
func DeleteAll(ctx context.Context, conn Conn, q Model) (int64, error) {
	var n int64
	err := InTx(ctx, conn, func(conn Conn) error {
		if h, ok := q.(DeleteHook); ok {
			if err := h.PreDelete(ctx, conn); err != nil {
				return err
			}
		}
		var err error
		if d, ok := q.(DeleteAller); ok {
			n, err = d.DoDeleteAll(ctx, conn)
		} else {
			n, err = q.Delete(ctx, conn)
		}
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
