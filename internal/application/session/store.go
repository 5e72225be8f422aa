// Package session guarda el vendedor con sesión iniciada y las marcas del dispositivo.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/libertsolutions/libertvendas/internal/application/events"
	"github.com/libertsolutions/libertvendas/internal/domain"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/repository"
)

const (
	keyLoggedUser        = "session.logged_user"
	keyInitialDataSynced = "session.initial_data_synced"
)

// Store sesión persistida en el SettingsRepository.
type Store struct {
	settings    repository.SettingsRepository
	bus         *events.Bus
	defaultCNPJ string
}

// NewStore construye el store. defaultCNPJ se usa cuando aún no hay sesión.
func NewStore(settings repository.SettingsRepository, bus *events.Bus, defaultCNPJ string) *Store {
	return &Store{settings: settings, bus: bus, defaultCNPJ: defaultCNPJ}
}

// SetLoggedInUser persiste la sesión.
func (s *Store) SetLoggedInUser(ctx context.Context, u *entity.LoggedUser) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("session: codificar sesión: %w", err)
	}
	if err := s.settings.Put(ctx, keyLoggedUser, b); err != nil {
		return fmt.Errorf("session: guardar sesión: %w", err)
	}
	return nil
}

// LoggedUser devuelve domain.ErrNotLoggedIn si no hay sesión.
func (s *Store) LoggedUser(ctx context.Context) (*entity.LoggedUser, error) {
	b, err := s.settings.Get(ctx, keyLoggedUser)
	if err != nil {
		return nil, fmt.Errorf("session: leer sesión: %w", err)
	}
	if b == nil {
		return nil, domain.ErrNotLoggedIn
	}
	var u entity.LoggedUser
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, fmt.Errorf("session: decodificar sesión: %w", err)
	}
	if u.Salesman == nil {
		return nil, domain.ErrNotLoggedIn
	}
	return &u, nil
}

// Logout borra la sesión y el último LoggedInUserEvent.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.settings.Delete(ctx, keyLoggedUser); err != nil {
		return fmt.Errorf("session: borrar sesión: %w", err)
	}
	if s.bus != nil {
		s.bus.RemoveSticky(events.TopicLoggedInUser)
	}
	return nil
}

// Restore republica la sesión persistida al arrancar el agente. Sin sesión no hace nada.
func (s *Store) Restore(ctx context.Context) (*entity.LoggedUser, error) {
	u, err := s.LoggedUser(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotLoggedIn) {
			return nil, nil
		}
		return nil, err
	}
	if s.bus != nil {
		s.bus.PublishSticky(events.LoggedInUserEvent{User: u})
	}
	return u, nil
}

// MarkInitialDataSynced registra que la importación inicial terminó bien.
func (s *Store) MarkInitialDataSynced(ctx context.Context) error {
	if err := s.settings.Put(ctx, keyInitialDataSynced, []byte{1}); err != nil {
		return fmt.Errorf("session: marcar importación: %w", err)
	}
	return nil
}

// IsInitialDataSynced indica si alguna importación inicial terminó bien en este dispositivo.
func (s *Store) IsInitialDataSynced(ctx context.Context) (bool, error) {
	b, err := s.settings.Get(ctx, keyInitialDataSynced)
	if err != nil {
		return false, fmt.Errorf("session: leer marca de importación: %w", err)
	}
	return len(b) == 1 && b[0] == 1, nil
}

// CompanyCNPJ CNPJ de la empresa de la sesión o, sin sesión, el configurado.
func (s *Store) CompanyCNPJ(ctx context.Context) string {
	u, err := s.LoggedUser(ctx)
	if err != nil || u.DefaultCompany.CNPJ == "" {
		return s.defaultCNPJ
	}
	return u.DefaultCompany.CNPJ
}
