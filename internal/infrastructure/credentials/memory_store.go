// Package credentials almacenes de tokens de sesión para procesos sin base de datos.
package credentials

import (
	"context"
	"sync"

	"github.com/jhoicas/stellar-burgers/internal/application/ports"
)

var _ ports.CredentialStore = (*MemoryStore)(nil)

// MemoryStore guarda los tokens en memoria: la sesión vive lo que vive el proceso.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore crea un almacén vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
