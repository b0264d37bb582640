package memory

import (
	"context"

	"github.com/prasetyowira/fightcast/internal/domain/event"
	"github.com/prasetyowira/fightcast/internal/domain/fight"
	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	"github.com/prasetyowira/fightcast/internal/domain/snapshot"
)

// checkpointer is implemented by the repositories in this package. Wrappers
// that embed one inherit it, so a decorated repository still rolls back.
type checkpointer interface {
	Checkpoint() func()
}

// TxManager mimics database transactions over the in-memory repositories:
// it checkpoints each store before running the function and restores every
// checkpoint when the function fails.
type TxManager struct {
	fighters  fighter.Repository
	events    event.Repository
	fights    fight.Repository
	snapshots snapshot.Repository
}

func NewTxManager(fighters fighter.Repository, events event.Repository, fights fight.Repository, snapshots snapshot.Repository) *TxManager {
	return &TxManager{
		fighters:  fighters,
		events:    events,
		fights:    fights,
		snapshots: snapshots,
	}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, fighters fighter.Repository, events event.Repository, fights fight.Repository, snapshots snapshot.Repository) error) error {
	var restores []func()
	for _, repo := range []any{m.fighters, m.events, m.fights, m.snapshots} {
		if c, ok := repo.(checkpointer); ok {
			restores = append(restores, c.Checkpoint())
		}
	}

	if err := fn(ctx, m.fighters, m.events, m.fights, m.snapshots); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}

	return nil
}
