package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/athaan-fi-beit/backend/internal/domain"

	"github.com/google/uuid"
)

type registrantMemory struct {
	mu      sync.RWMutex
	byEmail map[string]domain.Registrant
	now     func() time.Time
}

func newRegistrantMemory() *registrantMemory {
	return &registrantMemory{
		byEmail: make(map[string]domain.Registrant),
		now:     time.Now,
	}
}

func (r *registrantMemory) GetByEmail(_ context.Context, email string) (*domain.Registrant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	registrant, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}

	return &registrant, nil
}

// Create checks and inserts under one write lock, so of several concurrent
// calls for the same email exactly one wins.
func (r *registrantMemory) Create(_ context.Context, name, email, phone string) (*domain.Registrant, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate registrant id failed: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return nil, domain.ErrDuplicateEntry
	}

	registrant := domain.Registrant{
		ID:        id,
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: r.now().UTC(),
	}
	r.byEmail[email] = registrant

	return &registrant, nil
}

func (r *registrantMemory) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.byEmail)), nil
}
