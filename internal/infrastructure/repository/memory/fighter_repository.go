package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/prasetyowira/fightcast/internal/domain/fighter"
)

type FighterRepository struct {
	mu     sync.RWMutex
	byID   map[string]fighter.Fighter
	byName map[string]string
}

func NewFighterRepository(fighters ...fighter.Fighter) *FighterRepository {
	r := &FighterRepository{
		byID:   make(map[string]fighter.Fighter),
		byName: make(map[string]string),
	}
	for _, f := range fighters {
		r.byID[f.ID] = f
		r.byName[f.NormalizedName] = f.ID
	}

	return r
}

// Checkpoint captures the current contents and returns a function that
// restores them. The transaction manager uses it to roll back failed runs.
func (r *FighterRepository) Checkpoint() func() {
	r.mu.RLock()
	byID := maps.Clone(r.byID)
	byName := maps.Clone(r.byName)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.byID = byID
		r.byName = byName
	}
}

func (r *FighterRepository) GetByID(_ context.Context, id string) (*fighter.Fighter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return nil, nil
	}

	return &f, nil
}

func (r *FighterRepository) GetByNormalizedName(_ context.Context, normalizedName string) (*fighter.Fighter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[normalizedName]
	if !ok {
		return nil, nil
	}
	f := r.byID[id]

	return &f, nil
}

func (r *FighterRepository) List(_ context.Context) ([]fighter.Fighter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fighter.Fighter, 0, len(r.byID))
	for _, f := range r.byID {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NormalizedName < out[j].NormalizedName })

	return out, nil
}

func (r *FighterRepository) Create(_ context.Context, f *fighter.Fighter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[f.ID] = *f
	r.byName[f.NormalizedName] = f.ID

	return nil
}

func (r *FighterRepository) Update(_ context.Context, f *fighter.Fighter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[f.ID] = *f
	r.byName[f.NormalizedName] = f.ID

	return nil
}
