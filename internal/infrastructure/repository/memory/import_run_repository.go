package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/prasetyowira/fightcast/internal/domain/importrun"
)

type ImportRunRepository struct {
	mu   sync.RWMutex
	byID map[string]importrun.Run
}

func NewImportRunRepository() *ImportRunRepository {
	return &ImportRunRepository{byID: make(map[string]importrun.Run)}
}

func (r *ImportRunRepository) GetByID(_ context.Context, id string) (*importrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.byID[id]
	if !ok {
		return nil, nil
	}

	return &run, nil
}

func (r *ImportRunRepository) ListRecent(_ context.Context, limit int) ([]importrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]importrun.Run, 0, len(r.byID))
	for _, run := range r.byID {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *ImportRunRepository) Create(_ context.Context, run *importrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[run.ID] = *run

	return nil
}

func (r *ImportRunRepository) Update(_ context.Context, run *importrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[run.ID] = *run

	return nil
}
