package cache

import (
	"context"

	"github.com/prasetyowira/fightcast/internal/domain/event"
	"github.com/prasetyowira/fightcast/internal/domain/fight"
	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	"github.com/prasetyowira/fightcast/internal/domain/snapshot"
	basecache "github.com/prasetyowira/fightcast/internal/platform/cache"
)

type txRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, fighters fighter.Repository, events event.Repository, fights fight.Repository, snapshots snapshot.Repository) error) error
}

// TxManager passes transactions through to the wrapped manager. Writes made
// inside a transaction bypass the read-through decorators, so the entity
// prefixes are evicted once the transaction commits.
type TxManager struct {
	next  txRunner
	cache *basecache.Store
}

func NewTxManager(next txRunner, cache *basecache.Store) *TxManager {
	return &TxManager{next: next, cache: cache}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, fighters fighter.Repository, events event.Repository, fights fight.Repository, snapshots snapshot.Repository) error) error {
	if err := m.next.WithinTx(ctx, fn); err != nil {
		return err
	}

	m.cache.DeletePrefix(ctx, "fighter:")
	m.cache.DeletePrefix(ctx, "event:")
	m.cache.DeletePrefix(ctx, "fight:")

	return nil
}
