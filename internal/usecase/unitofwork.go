package usecase

import (
	"context"

	"github.com/prasetyowira/fightcast/internal/domain/event"
	"github.com/prasetyowira/fightcast/internal/domain/fight"
	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	"github.com/prasetyowira/fightcast/internal/domain/snapshot"
)

// unitOfWork scopes entity repositories to one transaction. An error from
// the function aborts the transaction and none of its writes survive the
// rollback.
type unitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, fighters fighter.Repository, events event.Repository, fights fight.Repository, snapshots snapshot.Repository) error) error
}
