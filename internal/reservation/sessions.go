package reservation

import (
	"context"
	"sync"
	"time"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/google/uuid"
)

const DefaultIdleTTL = 30 * time.Minute

// Sessions holds the wizards in progress, keyed by id. Wizards idle for longer
// than the idle TTL are dropped and their holds released.
type Sessions struct {
	deps    *Deps
	idleTTL time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	wizards map[string]*Wizard
}

func NewSessions(deps *Deps, idleTTL time.Duration) *Sessions {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Sessions{
		deps:    deps.withDefaults(),
		idleTTL: idleTTL,
		now:     time.Now,
		wizards: make(map[string]*Wizard),
	}
}

// Start validates details and registers a wizard at table selection.
// Nothing is registered when validation fails.
func (s *Sessions) Start(details models.ReservationDetails) (*Wizard, error) {
	w := newWizard(uuid.New().String(), s.deps, s.now)
	if err := w.SubmitDetails(details); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.wizards[w.id] = w
	s.mu.Unlock()
	return w, nil
}

// Get returns a live wizard
func (s *Sessions) Get(id string) (*Wizard, error) {
	s.mu.RLock()
	w, ok := s.wizards[id]
	s.mu.RUnlock()

	if !ok || s.expired(w) {
		return nil, ErrSessionNotFound
	}
	return w, nil
}

func (s *Sessions) expired(w *Wizard) bool {
	return s.now().Sub(w.idleSince()) > s.idleTTL
}

// Remove drops a wizard and releases its hold
func (s *Sessions) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	w, ok := s.wizards[id]
	delete(s.wizards, id)
	s.mu.Unlock()

	if ok {
		w.Close(ctx)
	}
}

// Len is the number of registered wizards, expired ones included until swept
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.wizards)
}

// Sweep removes expired wizards and returns how many were dropped
func (s *Sessions) Sweep(ctx context.Context) int {
	s.mu.Lock()
	var stale []*Wizard
	for id, w := range s.wizards {
		if s.expired(w) {
			stale = append(stale, w)
			delete(s.wizards, id)
		}
	}
	s.mu.Unlock()

	for _, w := range stale {
		w.Close(ctx)
	}
	return len(stale)
}

// Run sweeps on every interval until ctx is done
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(ctx); n > 0 {
				s.deps.Logger.Info("expired reservation sessions removed", "count", n)
			}
		}
	}
}
