package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/prasetyowira/fightcast/internal/domain/snapshot"
)

type SnapshotRepository struct {
	mu    sync.RWMutex
	byKey map[string]snapshot.Snapshot
}

func NewSnapshotRepository(snapshots ...snapshot.Snapshot) *SnapshotRepository {
	r := &SnapshotRepository{byKey: make(map[string]snapshot.Snapshot)}
	for _, s := range snapshots {
		r.byKey[snapshotKey(s.FighterID, s.FightID)] = s
	}

	return r
}

func snapshotKey(fighterID, fightID string) string {
	return fighterID + "|" + fightID
}

// Checkpoint captures the current contents and returns a function that
// restores them.
func (r *SnapshotRepository) Checkpoint() func() {
	r.mu.RLock()
	byKey := maps.Clone(r.byKey)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.byKey = byKey
	}
}

func (r *SnapshotRepository) GetByFighterAndFight(_ context.Context, fighterID, fightID string) (*snapshot.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byKey[snapshotKey(fighterID, fightID)]
	if !ok {
		return nil, nil
	}

	return &s, nil
}

func (r *SnapshotRepository) ListByFight(_ context.Context, fightID string) ([]snapshot.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]snapshot.Snapshot, 0, 2)
	for _, s := range r.byKey {
		if s.FightID == fightID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FighterID < out[j].FighterID })

	return out, nil
}

func (r *SnapshotRepository) ListByFighter(_ context.Context, fighterID string) ([]snapshot.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]snapshot.Snapshot, 0)
	for _, s := range r.byKey {
		if s.FighterID == fighterID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SnapshotDate.Equal(out[j].SnapshotDate) {
			return out[i].SnapshotDate.Before(out[j].SnapshotDate)
		}
		return out[i].FightID < out[j].FightID
	})

	return out, nil
}

func (r *SnapshotRepository) Create(_ context.Context, s *snapshot.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byKey[snapshotKey(s.FighterID, s.FightID)] = *s

	return nil
}

func (r *SnapshotRepository) Replace(_ context.Context, s *snapshot.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byKey[snapshotKey(s.FighterID, s.FightID)] = *s

	return nil
}
