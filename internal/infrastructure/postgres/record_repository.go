package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/repository"
)

var _ repository.Repository[*entity.Customer] = (*RecordRepo[*entity.Customer])(nil)

// amounted registros con un importe que se guarda en la columna amount (pedidos).
type amounted interface {
	Amount() decimal.Decimal
}

// RecordRepo repositorio genérico sobre la tabla records: una fila por (kind, key),
// el registro completo en payload (JSONB).
type RecordRepo[T entity.Record] struct {
	q    Querier
	tx   *TxRunner
	kind string
	newT func() T
}

// NewRecordRepo construye el adaptador. Pasar pool o tx (Querier).
func NewRecordRepo[T entity.Record](q Querier, newT func() T) *RecordRepo[T] {
	return &RecordRepo[T]{q: q, tx: NewTxRunner(q), kind: newT().Kind(), newT: newT}
}

// List devuelve los registros del tipo en orden de inserción.
func (r *RecordRepo[T]) List(ctx context.Context) ([]T, error) {
	return r.query(ctx, `SELECT id, payload FROM records WHERE kind = $1 ORDER BY id`, r.kind)
}

// Save hace upsert por clave remota.
func (r *RecordRepo[T]) Save(ctx context.Context, record T) error {
	return r.save(ctx, r.q, record)
}

// SaveAll guarda todos o ninguno.
func (r *RecordRepo[T]) SaveAll(ctx context.Context, records []T) error {
	return r.tx.Run(ctx, func(q Querier) error {
		for _, rec := range records {
			if err := r.save(ctx, q, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// Query usa la condición SQL de spec cuando la tiene y vuelve a aplicar spec en memoria,
// así el resultado es el mismo que el del adaptador en memoria.
func (r *RecordRepo[T]) Query(ctx context.Context, spec repository.Specification[T]) ([]T, error) {
	var b strings.Builder
	b.WriteString(`SELECT id, payload FROM records WHERE kind = $1`)
	args := []any{r.kind}
	orderBy := "id"
	if s, ok := spec.(repository.SQLSpecification); ok {
		where, whereArgs := s.Where(len(args))
		b.WriteString(" AND (" + where + ")")
		args = append(args, whereArgs...)
		if ob := s.OrderBy(); ob != "" {
			orderBy = ob + ", id"
		}
	}
	b.WriteString(" ORDER BY " + orderBy)

	list, err := r.query(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	return repository.Apply(list, spec), nil
}

// FindByKey obtiene un registro por su clave remota.
func (r *RecordRepo[T]) FindByKey(ctx context.Context, key string) (T, error) {
	var (
		zero    T
		id      int64
		payload []byte
	)
	err := r.q.QueryRow(ctx, `SELECT id, payload FROM records WHERE kind = $1 AND key = $2`, r.kind, key).
		Scan(&id, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, domain.ErrNotFound
		}
		return zero, fmt.Errorf("postgres: find %s %s: %w", r.kind, key, err)
	}
	return r.decode(id, payload)
}

// Delete elimina por clave remota. Borrar una clave inexistente no es error.
func (r *RecordRepo[T]) Delete(ctx context.Context, key string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM records WHERE kind = $1 AND key = $2`, r.kind, key); err != nil {
		return fmt.Errorf("postgres: delete %s %s: %w", r.kind, key, err)
	}
	return nil
}

func (r *RecordRepo[T]) save(ctx context.Context, q Querier, record T) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("postgres: encode %s: %w", r.kind, err)
	}
	key := record.Key()
	status := int(record.SyncStatus())
	var amount *decimal.Decimal
	if a, ok := any(record).(amounted); ok {
		v := a.Amount()
		amount = &v
	}

	// Registro que cambió de clave (local:<uuid> -> id remoto): se mueve la misma fila.
	if id := record.LocalID(); id != 0 {
		tag, err := q.Exec(ctx, `
			UPDATE records SET key = $3, status = $4, amount = $5, payload = $6, updated_at = now()
			WHERE kind = $1 AND id = $2
			  AND NOT EXISTS (SELECT 1 FROM records WHERE kind = $1 AND key = $3 AND id <> $2)`,
			r.kind, id, key, status, amount, payload)
		if err != nil {
			return fmt.Errorf("postgres: update %s %s: %w", r.kind, key, err)
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
	}

	var id int64
	err = q.QueryRow(ctx, `
		INSERT INTO records (kind, key, status, amount, payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (kind, key) DO UPDATE
		SET status = EXCLUDED.status, amount = EXCLUDED.amount, payload = EXCLUDED.payload, updated_at = now()
		RETURNING id`,
		r.kind, key, status, amount, payload,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("postgres: upsert %s %s: %w", r.kind, key, err)
	}
	if old := record.LocalID(); old != 0 && old != id {
		if _, err := q.Exec(ctx, `DELETE FROM records WHERE kind = $1 AND id = $2`, r.kind, old); err != nil {
			return fmt.Errorf("postgres: delete stale %s row: %w", r.kind, err)
		}
	}
	record.SetLocalID(id)
	return nil
}

func (r *RecordRepo[T]) query(ctx context.Context, sql string, args ...any) ([]T, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list %s: %w", r.kind, err)
	}
	defer rows.Close()
	var list []T
	for rows.Next() {
		var (
			id      int64
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("postgres: scan %s: %w", r.kind, err)
		}
		rec, err := r.decode(id, payload)
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func (r *RecordRepo[T]) decode(id int64, payload []byte) (T, error) {
	rec := r.newT()
	if err := json.Unmarshal(payload, rec); err != nil {
		var zero T
		return zero, fmt.Errorf("postgres: decode %s: %w", r.kind, err)
	}
	rec.SetLocalID(id)
	return rec, nil
}
