// Package cache wraps repositories with a read-through TTL cache. Writes go
// straight to the wrapped repository and evict the keys they may have
// staled.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/event"
	"github.com/prasetyowira/fightcast/internal/domain/fight"
	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	basecache "github.com/prasetyowira/fightcast/internal/platform/cache"
)

type FighterRepository struct {
	next  fighter.Repository
	cache *basecache.Store
}

func NewFighterRepository(next fighter.Repository, cache *basecache.Store) *FighterRepository {
	return &FighterRepository{next: next, cache: cache}
}

func (r *FighterRepository) GetByID(ctx context.Context, id string) (*fighter.Fighter, error) {
	key := "fighter:id:" + id
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	cached, _ := v.(*fighter.Fighter)
	return cloneFighter(cached), nil
}

func (r *FighterRepository) GetByNormalizedName(ctx context.Context, normalizedName string) (*fighter.Fighter, error) {
	key := "fighter:name:" + normalizedName
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.GetByNormalizedName(ctx, normalizedName)
	})
	if err != nil {
		return nil, err
	}

	cached, _ := v.(*fighter.Fighter)
	return cloneFighter(cached), nil
}

func (r *FighterRepository) List(ctx context.Context) ([]fighter.Fighter, error) {
	v, err := r.cache.GetOrLoad(ctx, "fighter:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]fighter.Fighter(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fighter.Fighter)
	return append([]fighter.Fighter(nil), items...), nil
}

func (r *FighterRepository) Create(ctx context.Context, f *fighter.Fighter) error {
	if err := r.next.Create(ctx, f); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "fighter:")

	return nil
}

func (r *FighterRepository) Update(ctx context.Context, f *fighter.Fighter) error {
	if err := r.next.Update(ctx, f); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "fighter:")

	return nil
}

func cloneFighter(f *fighter.Fighter) *fighter.Fighter {
	if f == nil {
		return nil
	}
	clone := *f

	return &clone
}

type EventRepository struct {
	next  event.Repository
	cache *basecache.Store
}

func NewEventRepository(next event.Repository, cache *basecache.Store) *EventRepository {
	return &EventRepository{next: next, cache: cache}
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	key := "event:id:" + id
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	cached, _ := v.(*event.Event)
	return cloneEvent(cached), nil
}

// GetByNameAndDate is only hit during imports, where a stale read could
// duplicate an event, so it always goes to the wrapped repository.
func (r *EventRepository) GetByNameAndDate(ctx context.Context, name string, date time.Time) (*event.Event, error) {
	return r.next.GetByNameAndDate(ctx, name, date)
}

func (r *EventRepository) ListUpcoming(ctx context.Context, now time.Time) ([]event.Event, error) {
	key := "event:upcoming:" + now.UTC().Format("2006-01-02")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListUpcoming(ctx, now)
		if err != nil {
			return nil, err
		}
		return append([]event.Event(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]event.Event)
	return append([]event.Event(nil), items...), nil
}

func (r *EventRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]event.Event, error) {
	return r.next.ListByDateRange(ctx, start, end)
}

func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	if err := r.next.Create(ctx, e); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "event:")

	return nil
}

func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	if err := r.next.Update(ctx, e); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "event:")

	return nil
}

func cloneEvent(e *event.Event) *event.Event {
	if e == nil {
		return nil
	}
	clone := *e

	return &clone
}

type FightRepository struct {
	next  fight.Repository
	cache *basecache.Store
}

func NewFightRepository(next fight.Repository, cache *basecache.Store) *FightRepository {
	return &FightRepository{next: next, cache: cache}
}

func (r *FightRepository) GetByID(ctx context.Context, id string) (*fight.Fight, error) {
	key := "fight:id:" + id
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	cached, _ := v.(*fight.Fight)
	return cloneFight(cached), nil
}

func (r *FightRepository) GetByEventAndFighters(ctx context.Context, eventID, fighter1ID, fighter2ID string) (*fight.Fight, error) {
	return r.next.GetByEventAndFighters(ctx, eventID, fighter1ID, fighter2ID)
}

func (r *FightRepository) ListByEvent(ctx context.Context, eventID string) ([]fight.Fight, error) {
	key := "fight:event:" + eventID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByEvent(ctx, eventID)
		if err != nil {
			return nil, err
		}
		return append([]fight.Fight(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fight.Fight)
	return append([]fight.Fight(nil), items...), nil
}

func (r *FightRepository) ListCompletedByFighterBefore(ctx context.Context, fighterID string, before time.Time) ([]fight.Detail, error) {
	return r.next.ListCompletedByFighterBefore(ctx, fighterID, before)
}

func (r *FightRepository) ListCompleted(ctx context.Context, limit int) ([]fight.Detail, error) {
	key := "fight:completed:" + strconv.Itoa(limit)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListCompleted(ctx, limit)
		if err != nil {
			return nil, err
		}
		return append([]fight.Detail(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fight.Detail)
	return append([]fight.Detail(nil), items...), nil
}

func (r *FightRepository) ListScheduled(ctx context.Context, limit int) ([]fight.Detail, error) {
	return r.next.ListScheduled(ctx, limit)
}

func (r *FightRepository) ListScheduledByEvent(ctx context.Context, eventID string) ([]fight.Fight, error) {
	return r.next.ListScheduledByEvent(ctx, eventID)
}

func (r *FightRepository) Create(ctx context.Context, f *fight.Fight) error {
	if err := r.next.Create(ctx, f); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "fight:")

	return nil
}

func (r *FightRepository) Update(ctx context.Context, f *fight.Fight) error {
	if err := r.next.Update(ctx, f); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "fight:")

	return nil
}

func cloneFight(f *fight.Fight) *fight.Fight {
	if f == nil {
		return nil
	}
	clone := *f

	return &clone
}
