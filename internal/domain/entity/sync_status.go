package entity

import (
	"fmt"

	"github.com/libertsolutions/libertvendas/internal/domain"
)

// SyncStatus estado de sincronización de un registro con el backend.
type SyncStatus int

const (
	StatusImported     SyncStatus = 1 // llegó del backend, sin cambios locales
	StatusCreated      SyncStatus = 2 // creado en el dispositivo, pendiente de envío
	StatusModified     SyncStatus = 3 // editado en el dispositivo, pendiente de envío
	StatusSynchronized SyncStatus = 4 // cambios locales confirmados por el backend
)

func (s SyncStatus) String() string {
	switch s {
	case StatusImported:
		return "imported"
	case StatusCreated:
		return "created"
	case StatusModified:
		return "modified"
	case StatusSynchronized:
		return "synchronized"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// NeedsUpload indica si el registro tiene cambios locales que deben enviarse.
func (s SyncStatus) NeedsUpload() bool {
	return s == StatusCreated || s == StatusModified
}

// CanTransition aplica el ciclo imported→(created|modified)→synchronized.
// Un registro sincronizado sólo vuelve a modified por una edición explícita (nuevo ciclo).
func (s SyncStatus) CanTransition(to SyncStatus) bool {
	switch s {
	case 0:
		return to == StatusImported || to == StatusCreated
	case StatusImported:
		return to == StatusModified
	case StatusCreated, StatusModified:
		return to == StatusSynchronized
	case StatusSynchronized:
		return to == StatusModified
	default:
		return false
	}
}

// Meta campos comunes a todos los registros persistidos.
// ID es la fila local; la identidad del registro es su Key().
type Meta struct {
	ID     int64      `json:"-"`
	Status SyncStatus `json:"status"`
}

// LocalID devuelve el id de fila local (0 si aún no se persistió).
func (m *Meta) LocalID() int64 { return m.ID }

// SetLocalID lo asigna el repositorio al persistir.
func (m *Meta) SetLocalID(id int64) { m.ID = id }

// SyncStatus devuelve el estado de sincronización.
func (m *Meta) SyncStatus() SyncStatus { return m.Status }

// MarkStatus cambia el estado respetando CanTransition.
func (m *Meta) MarkStatus(to SyncStatus) error {
	if !m.Status.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, m.Status, to)
	}
	m.Status = to
	return nil
}
