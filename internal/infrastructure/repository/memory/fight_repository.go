package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/fight"
)

// FightRepository keeps fights in memory. It resolves event dates through
// the event repository it is constructed with, mirroring the join the SQL
// implementation performs for history queries.
type FightRepository struct {
	mu     sync.RWMutex
	byID   map[string]fight.Fight
	events *EventRepository
}

func NewFightRepository(events *EventRepository, fights ...fight.Fight) *FightRepository {
	r := &FightRepository{
		byID:   make(map[string]fight.Fight),
		events: events,
	}
	for _, f := range fights {
		r.byID[f.ID] = f
	}

	return r
}

// Checkpoint captures the current contents and returns a function that
// restores them.
func (r *FightRepository) Checkpoint() func() {
	r.mu.RLock()
	byID := maps.Clone(r.byID)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.byID = byID
	}
}

func (r *FightRepository) GetByID(_ context.Context, id string) (*fight.Fight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return nil, nil
	}

	return &f, nil
}

func (r *FightRepository) GetByEventAndFighters(_ context.Context, eventID, fighter1ID, fighter2ID string) (*fight.Fight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.byID {
		if f.EventID != eventID {
			continue
		}
		samePair := (f.Fighter1ID == fighter1ID && f.Fighter2ID == fighter2ID) ||
			(f.Fighter1ID == fighter2ID && f.Fighter2ID == fighter1ID)
		if samePair {
			found := f
			return &found, nil
		}
	}

	return nil, nil
}

func (r *FightRepository) ListByEvent(_ context.Context, eventID string) ([]fight.Fight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fight.Fight, 0)
	for _, f := range r.byID {
		if f.EventID == eventID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FightOrder < out[j].FightOrder })

	return out, nil
}

func (r *FightRepository) ListScheduledByEvent(ctx context.Context, eventID string) ([]fight.Fight, error) {
	all, err := r.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	out := make([]fight.Fight, 0, len(all))
	for _, f := range all {
		if !f.IsCompleted() {
			out = append(out, f)
		}
	}

	return out, nil
}

func (r *FightRepository) ListCompletedByFighterBefore(ctx context.Context, fighterID string, before time.Time) ([]fight.Detail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fight.Detail, 0)
	for _, f := range r.byID {
		if f.Fighter1ID != fighterID && f.Fighter2ID != fighterID {
			continue
		}
		if !f.IsCompleted() {
			continue
		}
		detail, ok := r.detailLocked(ctx, f)
		if !ok || !detail.EventDate.Before(before) {
			continue
		}
		out = append(out, detail)
	}
	sortFightDetails(out)

	return out, nil
}

func (r *FightRepository) ListCompleted(ctx context.Context, limit int) ([]fight.Detail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fight.Detail, 0)
	for _, f := range r.byID {
		if !f.IsCompleted() {
			continue
		}
		detail, ok := r.detailLocked(ctx, f)
		if !ok {
			continue
		}
		out = append(out, detail)
	}
	sortFightDetails(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *FightRepository) ListScheduled(ctx context.Context, limit int) ([]fight.Detail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fight.Detail, 0)
	for _, f := range r.byID {
		if f.IsCompleted() {
			continue
		}
		detail, ok := r.detailLocked(ctx, f)
		if !ok {
			continue
		}
		out = append(out, detail)
	}
	sortFightDetails(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *FightRepository) Create(_ context.Context, f *fight.Fight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[f.ID] = *f

	return nil
}

func (r *FightRepository) Update(_ context.Context, f *fight.Fight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[f.ID] = *f

	return nil
}

func (r *FightRepository) detailLocked(ctx context.Context, f fight.Fight) (fight.Detail, bool) {
	ev, err := r.events.GetByID(ctx, f.EventID)
	if err != nil || ev == nil {
		return fight.Detail{}, false
	}

	return fight.Detail{Fight: f, EventDate: ev.EventDate}, true
}

func sortFightDetails(details []fight.Detail) {
	sort.Slice(details, func(i, j int) bool {
		if !details[i].EventDate.Equal(details[j].EventDate) {
			return details[i].EventDate.Before(details[j].EventDate)
		}
		return details[i].ID < details[j].ID
	})
}
