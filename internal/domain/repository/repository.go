package repository

import (
	"context"
	"slices"

	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

// Repository puerto de persistencia de la caché local para un tipo de registro.
// Save y SaveAll hacen upsert por Key(): si ya existe un registro con la misma
// identidad remota se reemplaza y conserva su id de fila local.
type Repository[T entity.Record] interface {
	// List devuelve los registros cacheados. Nunca va a la red.
	List(ctx context.Context) ([]T, error)
	Save(ctx context.Context, record T) error
	SaveAll(ctx context.Context, records []T) error
	// Query devuelve el subconjunto que cumple spec, en el orden de spec si es Ordering.
	Query(ctx context.Context, spec Specification[T]) ([]T, error)
	// FindByKey devuelve domain.ErrNotFound si no existe.
	FindByKey(ctx context.Context, key string) (T, error)
	Delete(ctx context.Context, key string) error
}

// Specification predicado de filtro reutilizable.
type Specification[T any] interface {
	IsSatisfiedBy(record T) bool
}

// Ordering especificación que además define el orden del resultado.
type Ordering[T any] interface {
	Less(a, b T) bool
}

// SQLSpecification especificación traducible a SQL sobre la tabla records.
// Where recibe el número de argumentos ya usados y devuelve la condición
// (con placeholders $n a partir de argOffset+1) y sus argumentos.
type SQLSpecification interface {
	Where(argOffset int) (string, []any)
	OrderBy() string
}

// Apply filtra y ordena en memoria según spec. Lo usan los adaptadores que no
// pueden delegar la consulta al motor.
func Apply[T any](records []T, spec Specification[T]) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if spec == nil || spec.IsSatisfiedBy(r) {
			out = append(out, r)
		}
	}
	if ord, ok := spec.(Ordering[T]); ok {
		slices.SortStableFunc(out, func(a, b T) int {
			switch {
			case ord.Less(a, b):
				return -1
			case ord.Less(b, a):
				return 1
			default:
				return 0
			}
		})
	}
	return out
}

// Merge guarda la lista remota en la caché. Una lista vacía no se persiste:
// significa "nada que fusionar" y la caché queda como estaba. Devuelve cuántos
// registros se guardaron.
func Merge[T entity.Record](ctx context.Context, repo Repository[T], records []T) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if err := repo.SaveAll(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// SettingsRepository almacén clave/valor de la sesión y preferencias del dispositivo.
type SettingsRepository interface {
	// Get devuelve nil, nil si la clave no existe.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
