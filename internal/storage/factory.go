package storage

import (
	"context"
	"errors"
	"fmt"

	"knapsackga/internal/model"
)

const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
)

var ErrUnsupportedStore = errors.New("unsupported run store")

// StoreKinds lists the run store backends NewStore accepts.
func StoreKinds() []string {
	return []string{KindMemory, KindSQLite}
}

// NewStore opens the run record store of the given kind. An empty kind
// selects the in-memory store; sqlitePath is only read for KindSQLite.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", KindMemory:
		return NewMemoryStore(), nil
	case KindSQLite:
		if sqlitePath == "" {
			return nil, errors.New("sqlite run store requires a database path")
		}
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnsupportedStore, kind, StoreKinds())
	}
}

// LatestRun returns the most recently created record.
func LatestRun(ctx context.Context, store Store) (model.RunRecord, error) {
	runs, err := store.ListRuns(ctx, 1)
	if err != nil {
		return model.RunRecord{}, err
	}
	if len(runs) == 0 {
		return model.RunRecord{}, ErrRunNotFound
	}
	return runs[0], nil
}

// CloseIfSupported releases backends that hold resources, such as the
// sqlite connection pool. The memory store has nothing to close.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
