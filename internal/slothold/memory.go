package slothold

import (
	"context"
	"sync"
	"time"

	"github.com/dine24/dine24-api/internal/models"
)

type hold struct {
	owner   string
	expires time.Time
}

// MemoryHolder is an in-process Holder for single-instance deployments
type MemoryHolder struct {
	mu    sync.Mutex
	holds map[string]hold
	now   func() time.Time
}

func NewMemoryHolder() *MemoryHolder {
	return &MemoryHolder{
		holds: make(map[string]hold),
		now:   time.Now,
	}
}

func (m *MemoryHolder) Hold(ctx context.Context, slot models.Slot, owner string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	key := slot.Key()
	if h, exists := m.holds[key]; exists && now.Before(h.expires) && h.owner != owner {
		return false, nil
	}
	m.holds[key] = hold{owner: owner, expires: now.Add(ttl)}
	return true, nil
}

func (m *MemoryHolder) Release(ctx context.Context, slot models.Slot, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := slot.Key()
	if h, exists := m.holds[key]; exists && h.owner == owner {
		delete(m.holds, key)
	}
	return nil
}

func (m *MemoryHolder) HeldBy(ctx context.Context, slot models.Slot) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := slot.Key()
	h, exists := m.holds[key]
	if !exists {
		return "", false, nil
	}
	if !m.now().Before(h.expires) {
		delete(m.holds, key)
		return "", false, nil
	}
	return h.owner, true, nil
}
