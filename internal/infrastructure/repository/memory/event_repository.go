package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/event"
)

type EventRepository struct {
	mu   sync.RWMutex
	byID map[string]event.Event
}

func NewEventRepository(events ...event.Event) *EventRepository {
	r := &EventRepository{byID: make(map[string]event.Event)}
	for _, e := range events {
		r.byID[e.ID] = e
	}

	return r
}

// Checkpoint captures the current contents and returns a function that
// restores them.
func (r *EventRepository) Checkpoint() func() {
	r.mu.RLock()
	byID := maps.Clone(r.byID)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.byID = byID
	}
}

func (r *EventRepository) GetByID(_ context.Context, id string) (*event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, nil
	}

	return &e, nil
}

func (r *EventRepository) GetByNameAndDate(_ context.Context, name string, date time.Time) (*event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := date.Format("2006-01-02")
	for _, e := range r.byID {
		if strings.EqualFold(e.Name, name) && e.EventDate.Format("2006-01-02") == day {
			found := e
			return &found, nil
		}
	}

	return nil, nil
}

func (r *EventRepository) ListUpcoming(_ context.Context, now time.Time) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.Event, 0, len(r.byID))
	for _, e := range r.byID {
		if e.IsUpcoming(now) {
			out = append(out, e)
		}
	}
	sortEventsByDate(out)

	return out, nil
}

func (r *EventRepository) ListByDateRange(_ context.Context, start, end time.Time) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.Event, 0, len(r.byID))
	for _, e := range r.byID {
		if e.EventDate.Before(start) || e.EventDate.After(end) {
			continue
		}
		out = append(out, e)
	}
	sortEventsByDate(out)

	return out, nil
}

func (r *EventRepository) Create(_ context.Context, e *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[e.ID] = *e

	return nil
}

func (r *EventRepository) Update(_ context.Context, e *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[e.ID] = *e

	return nil
}

func sortEventsByDate(events []event.Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].EventDate.Equal(events[j].EventDate) {
			return events[i].EventDate.Before(events[j].EventDate)
		}
		return events[i].ID < events[j].ID
	})
}
