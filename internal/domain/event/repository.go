package event

import (
	"context"
	"time"
)

// Repository describes event persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByNameAndDate(ctx context.Context, name string, date time.Time) (*Event, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]Event, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]Event, error)
	Create(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
}
