package fight

import (
	"context"
	"time"
)

// Repository describes fight persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Fight, error)
	GetByEventAndFighters(ctx context.Context, eventID, fighter1ID, fighter2ID string) (*Fight, error)
	ListByEvent(ctx context.Context, eventID string) ([]Fight, error)
	// ListCompletedByFighterBefore returns the fighter's completed bouts on
	// cards dated strictly before the cutoff, ordered by event date ascending.
	ListCompletedByFighterBefore(ctx context.Context, fighterID string, before time.Time) ([]Detail, error)
	// ListCompleted returns completed bouts ordered by event date ascending.
	// A limit of zero or less means no limit.
	ListCompleted(ctx context.Context, limit int) ([]Detail, error)
	// ListScheduled returns bouts with no recorded result, ordered by event
	// date ascending. A limit of zero or less means no limit.
	ListScheduled(ctx context.Context, limit int) ([]Detail, error)
	ListScheduledByEvent(ctx context.Context, eventID string) ([]Fight, error)
	Create(ctx context.Context, f *Fight) error
	Update(ctx context.Context, f *Fight) error
}
