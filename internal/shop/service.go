// Package shop is the entry point for every account, catalog and purchase
// workflow. Each mutating call checks the session's capability, validates,
// mutates the in-memory state, and then saves the whole state.
package shop

import (
	"context"
	"fmt"
	"time"

	"shopbackend/internal/data"
	"shopbackend/internal/inventory"
	"shopbackend/internal/logger"
	"shopbackend/internal/order"
)

// Error classes, re-exported for callers that only import shop
var (
	ErrValidation    = data.ErrValidation
	ErrPermission    = data.ErrPermission
	ErrAffordability = data.ErrAffordability
	ErrNotFound      = data.ErrNotFound
	ErrPersistence   = data.ErrPersistence
	ErrMaxLevel      = order.ErrMaxLevel
)

// Service holds the single in-memory copy of the shop's data
type Service struct {
	state   *data.State
	store   data.Store
	catalog *inventory.Service
	orders  *order.Service
}

// Open loads the state from the store and returns a ready service
func Open(ctx context.Context, store data.Store) (*Service, error) {
	st, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop data: %w", err)
	}
	return NewService(store, st), nil
}

// NewService wraps an already loaded state
func NewService(store data.Store, st *data.State) *Service {
	if st == nil {
		st = data.NewState()
	}
	catalog := inventory.NewService(st)
	return &Service{
		state:   st,
		store:   store,
		catalog: catalog,
		orders:  order.NewService(st, catalog),
	}
}

// SetClock replaces the time source used to date transactions
func (s *Service) SetClock(now func() time.Time) {
	s.orders.SetClock(now)
}

// Save writes the full state to the store
func (s *Service) Save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.state); err != nil {
		logger.LogError("Failed to save shop data: %v", err)
		return fmt.Errorf("%w: %v", data.ErrPersistence, err)
	}
	return nil
}

// State exposes the live state to tests and tooling
func (s *Service) State() *data.State {
	return s.state
}
