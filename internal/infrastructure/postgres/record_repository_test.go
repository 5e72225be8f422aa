package postgres_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/specification"
	"github.com/libertsolutions/libertvendas/internal/infrastructure/postgres"
)

// ──────────────────────────────────────────────────────────────────────────────
// Querier falso: registra las sentencias y responde lo configurado.
// ──────────────────────────────────────────────────────────────────────────────

type call struct {
	sql  string
	args []any
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.values[i].(int64)
		case *[]byte:
			*p = r.values[i].([]byte)
		}
	}
	return nil
}

type fakeQuerier struct {
	calls   []call
	row     fakeRow
	execTag string
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.calls = append(q.calls, call{sql, args})
	return pgconn.NewCommandTag(q.execTag), nil
}

func (q *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.calls = append(q.calls, call{sql, args})
	return nil, errors.New("sin filas en el fake")
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.calls = append(q.calls, call{sql, args})
	return q.row
}

func newOrderRepo(q postgres.Querier) *postgres.RecordRepo[*entity.Order] {
	return postgres.NewRecordRepo(q, func() *entity.Order { return new(entity.Order) })
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordRepo_QueryTraduceEspecificacionASQL(t *testing.T) {
	q := &fakeQuerier{}
	repo := newOrderRepo(q)

	_, err := repo.Query(context.Background(),
		specification.OrderedOrdersBySalesmanAndCompany{SalesmanID: 3, CompanyID: 10})

	require.Error(t, err)
	require.Len(t, q.calls, 1)
	sql := q.calls[0].sql
	assert.Contains(t, sql, "kind = $1")
	assert.Contains(t, sql, "(payload->>'salesman_id')::bigint = $2")
	assert.Contains(t, sql, "(payload->>'company_id')::bigint = $3")
	assert.True(t, strings.HasSuffix(sql, "ORDER BY payload->'customer'->>'name', (payload->>'issue_date')::timestamptz, id"))
	assert.Equal(t, []any{entity.KindOrder, int64(3), int64(10)}, q.calls[0].args)
}

func TestRecordRepo_SaveNuevoHaceUpsertYAsignaID(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []any{int64(41)}}}
	repo := newOrderRepo(q)
	order := &entity.Order{LocalKey: "abc", Meta: entity.Meta{Status: entity.StatusCreated}}

	require.NoError(t, repo.Save(context.Background(), order))

	require.Len(t, q.calls, 1, "sin id local no intenta mover la fila")
	assert.Contains(t, q.calls[0].sql, "ON CONFLICT (kind, key) DO UPDATE")
	assert.Equal(t, "local:abc", q.calls[0].args[1])
	assert.Equal(t, int(entity.StatusCreated), q.calls[0].args[2])
	assert.Equal(t, int64(41), order.LocalID())
}

func TestRecordRepo_SaveConIDLocalMueveLaFila(t *testing.T) {
	q := &fakeQuerier{execTag: "UPDATE 1"}
	repo := newOrderRepo(q)
	order := &entity.Order{OrderID: 900}
	order.SetLocalID(7)

	require.NoError(t, repo.Save(context.Background(), order))

	require.Len(t, q.calls, 1)
	assert.True(t, strings.Contains(q.calls[0].sql, "UPDATE records SET key = $3"))
	assert.Equal(t, "900", q.calls[0].args[2])
	assert.Equal(t, int64(7), order.LocalID())
}

func TestRecordRepo_FindByKeySinFilasEsNotFound(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}

	_, err := newOrderRepo(q).FindByKey(context.Background(), "1")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRecordRepo_FindByKeyDecodificaPayload(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []any{int64(5), []byte(`{"order_id":12,"status":2,"customer":{"name":"Bar"}}`)}}}

	got, err := newOrderRepo(q).FindByKey(context.Background(), "12")

	require.NoError(t, err)
	assert.Equal(t, int64(5), got.LocalID())
	assert.Equal(t, "Bar", got.Customer.Name)
	assert.Equal(t, entity.StatusCreated, got.SyncStatus())
}

func TestSettingsRepo_GetInexistenteDevuelveNil(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}

	v, err := postgres.NewSettingsRepository(q).Get(context.Background(), "logged_user")

	require.NoError(t, err)
	assert.Nil(t, v)
}
