package memory

import (
	"context"
	"sync"

	"github.com/libertsolutions/libertvendas/internal/domain/repository"
)

var _ repository.SettingsRepository = (*Settings)(nil)

// Settings almacén clave/valor en memoria.
type Settings struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewSettings construye el almacén vacío.
func NewSettings() *Settings {
	return &Settings{values: make(map[string][]byte)}
}

func (s *Settings) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *Settings) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *Settings) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
