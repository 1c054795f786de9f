// pkg/credentials/memory.go
package credentials

import (
	"context"
	"sync"
)

// memStore keeps credentials in process memory. Whole-value swap under the
// lock keeps a concurrent reader from ever observing a half-written entry.
type memStore struct {
	mu     sync.RWMutex
	byShop map[string]Credential
}

func NewMemoryStore() Store {
	return &memStore{byShop: map[string]Credential{}}
}

func (m *memStore) Get(ctx context.Context, shop string) (Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.byShop[shop]; ok {
		return c, nil
	}
	return Credential{}, ErrNotFound
}

func (m *memStore) Put(ctx context.Context, cred Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byShop[cred.Shop] = cred
	return nil
}

func (m *memStore) Delete(ctx context.Context, shop string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byShop, shop)
	return nil
}
