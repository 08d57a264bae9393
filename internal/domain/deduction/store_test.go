package deduction

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// rowErrQuerier fails every statement with err.
type rowErrQuerier struct {
	err   error
	calls int
}

func (q *rowErrQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	q.calls++
	return pgconn.CommandTag{}, q.err
}

func (q *rowErrQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	q.calls++
	return nil, q.err
}

func (q *rowErrQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	q.calls++
	return errRow{err: q.err}
}

func TestStoreCreateUnknownEmployee(t *testing.T) {
	create := func(q *rowErrQuerier, employeeID string) error {
		_, err := NewStore(q).Create(context.Background(), Rule{EmployeeID: employeeID, Name: "Meal", Kind: KindFixed})
		return err
	}

	q := &rowErrQuerier{err: &pgconn.PgError{Code: "23503"}}
	assert.ErrorIs(t, create(q, "6f1c2a4e-9d7b-4c1e-8a55-0b3f2d9e7c10"), ErrUnknownEmployee)

	q = &rowErrQuerier{err: errors.New("unexpected query")}
	assert.ErrorIs(t, create(q, "not-a-uuid"), ErrUnknownEmployee)
	assert.Zero(t, q.calls)
}
