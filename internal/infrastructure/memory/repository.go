// Package memory implementa los puertos de repositorio en memoria. Lo usa el
// agente con STORE_DRIVER=memory y los tests de los casos de uso.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/repository"
)

type row struct {
	id      int64
	payload []byte
}

// Repo repositorio genérico guardado como JSON, igual que la tabla records de postgres.
// Devuelve copias: mutar un registro leído no altera la caché hasta el próximo Save.
type Repo[T entity.Record] struct {
	mu     sync.RWMutex
	newT   func() T
	rows   map[string]row
	nextID int64
}

// NewRepo construye el repositorio. newT debe devolver un registro vacío (p. ej. new(entity.City)).
func NewRepo[T entity.Record](newT func() T) *Repo[T] {
	return &Repo[T]{newT: newT, rows: make(map[string]row)}
}

var _ repository.Repository[*entity.City] = (*Repo[*entity.City])(nil)

func (r *Repo[T]) List(ctx context.Context) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.decodeAll()
}

func (r *Repo[T]) Save(ctx context.Context, record T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.put(record)
}

// SaveAll es atómico: si un registro no se puede codificar no se guarda ninguno.
func (r *Repo[T]) SaveAll(ctx context.Context, records []T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	encoded := make([][]byte, len(records))
	for i, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("memory: save all %s: %w", rec.Kind(), err)
		}
		encoded[i] = b
	}
	for i, rec := range records {
		r.store(rec, encoded[i])
	}
	return nil
}

func (r *Repo[T]) Query(ctx context.Context, spec repository.Specification[T]) ([]T, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return repository.Apply(all, spec), nil
}

func (r *Repo[T]) FindByKey(ctx context.Context, key string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var zero T
	rw, ok := r.rows[key]
	if !ok {
		return zero, domain.ErrNotFound
	}
	return r.decode(rw)
}

func (r *Repo[T]) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, key)
	return nil
}

// put requiere r.mu tomado en escritura.
func (r *Repo[T]) put(record T) error {
	b, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("memory: save %s: %w", record.Kind(), err)
	}
	r.store(record, b)
	return nil
}

// store requiere r.mu tomado en escritura. Si el registro ya tenía fila con otra
// clave (cliente local que recibió id remoto) la fila vieja se reemplaza.
func (r *Repo[T]) store(record T, payload []byte) {
	key := record.Key()
	id := record.LocalID()
	if id != 0 {
		for k, rw := range r.rows {
			if rw.id == id && k != key {
				delete(r.rows, k)
			}
		}
	}
	if existing, ok := r.rows[key]; ok {
		id = existing.id
	} else if id == 0 {
		r.nextID++
		id = r.nextID
	} else if id > r.nextID {
		r.nextID = id
	}
	r.rows[key] = row{id: id, payload: payload}
	record.SetLocalID(id)
}

func (r *Repo[T]) decodeAll() ([]T, error) {
	rows := make([]row, 0, len(r.rows))
	for _, rw := range r.rows {
		rows = append(rows, rw)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })
	out := make([]T, 0, len(rows))
	for _, rw := range rows {
		rec, err := r.decode(rw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *Repo[T]) decode(rw row) (T, error) {
	rec := r.newT()
	if err := json.Unmarshal(rw.payload, rec); err != nil {
		var zero T
		return zero, fmt.Errorf("memory: decode %s: %w", rec.Kind(), err)
	}
	rec.SetLocalID(rw.id)
	return rec, nil
}
