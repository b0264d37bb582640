package source

import (
	"context"
	"time"
)

// EventFilter narrows event and fight fetches by date window. Zero bounds
// mean unbounded.
type EventFilter struct {
	StartDate time.Time
	EndDate   time.Time
}

func (f EventFilter) Contains(day time.Time) bool {
	if !f.StartDate.IsZero() && day.Before(f.StartDate) {
		return false
	}
	if !f.EndDate.IsZero() && day.After(f.EndDate) {
		return false
	}
	return true
}

// Adapter is the capability set every data source implements. Adapters never
// let a parse or network failure escape: a broken record is skipped and a
// broken source yields an empty slice plus HealthCheck()==false.
type Adapter interface {
	SourceType() string
	FetchFighters(ctx context.Context) ([]RawFighter, error)
	FetchEvents(ctx context.Context, filter EventFilter) ([]RawEvent, error)
	FetchFights(ctx context.Context, eventName string, filter EventFilter) ([]RawFight, error)
	FetchUpcomingEvents(ctx context.Context) ([]RawEvent, error)
	HealthCheck(ctx context.Context) bool
}
