package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/prasetyowira/fightcast/internal/domain/event"
	"github.com/prasetyowira/fightcast/internal/domain/fight"
	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	"github.com/prasetyowira/fightcast/internal/domain/snapshot"
)

// TxManager runs entity writes inside a single database transaction. Import
// runs execute through it so a mid-run failure leaves no partial writes.
type TxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx hands fn repositories bound to one transaction and commits when
// fn returns nil. Any error from fn rolls everything back.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, fighters fighter.Repository, events event.Repository, fights fight.Repository, snapshots snapshot.Repository) error) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	err = fn(ctx,
		&FighterRepository{db: tx},
		&EventRepository{db: tx},
		&FightRepository{db: tx},
		&SnapshotRepository{db: tx},
	)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
