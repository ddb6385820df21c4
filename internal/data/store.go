package data

import (
	"context"
	"fmt"

	"shopbackend/internal/config"
)

// Store persists the full State. Load tolerates each missing store
// independently; Save overwrites every store in full.
type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, st *State) error
	Close() error
}

// OpenStore returns the backend selected by the settings
func OpenStore(settings config.StoreSettings) (Store, error) {
	switch settings.Backend {
	case "", config.BackendJSON:
		return NewFileStore(settings.DataDir), nil
	case config.BackendSQLite:
		return NewSQLiteStore(settings.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", settings.Backend)
	}
}
