package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/event"
	"github.com/prasetyowira/fightcast/internal/domain/fight"
	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	"github.com/prasetyowira/fightcast/internal/domain/snapshot"
	idgen "github.com/prasetyowira/fightcast/internal/platform/id"
)

// SnapshotBatch reports one batch snapshot run.
type SnapshotBatch struct {
	FightsProcessed  int
	SnapshotsCreated int
	Errors           []string
}

// SnapshotService builds point-in-time career snapshots. A snapshot for a
// (fighter, fight) pair replays only bouts on cards dated strictly before
// that fight's card, so a completed fight never leaks its own result into
// the features used to predict it.
type SnapshotService struct {
	fighterRepo  fighter.Repository
	eventRepo    event.Repository
	fightRepo    fight.Repository
	snapshotRepo snapshot.Repository
	tx           unitOfWork
	idGen        idgen.Generator
}

func NewSnapshotService(
	fighterRepo fighter.Repository,
	eventRepo event.Repository,
	fightRepo fight.Repository,
	snapshotRepo snapshot.Repository,
	tx unitOfWork,
	idGen idgen.Generator,
) *SnapshotService {
	return &SnapshotService{
		fighterRepo:  fighterRepo,
		eventRepo:    eventRepo,
		fightRepo:    fightRepo,
		snapshotRepo: snapshotRepo,
		tx:           tx,
		idGen:        idGen,
	}
}

// CreateSnapshot computes and persists the snapshot of a fighter as of the
// given fight's card date. An existing snapshot for the pair is recomputed
// and replaced whole.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, fighterID, fightID string) (*snapshot.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "SnapshotService.CreateSnapshot")
	defer span.End()

	bout, err := s.fightRepo.GetByID(ctx, fightID)
	if err != nil {
		return nil, fmt.Errorf("get fight: %w", err)
	}
	if bout == nil {
		return nil, fmt.Errorf("%w: fight %s", ErrNotFound, fightID)
	}
	if bout.Fighter1ID != fighterID && bout.Fighter2ID != fighterID {
		return nil, fmt.Errorf("%w: fighter %s is not in fight %s", ErrInvalidInput, fighterID, fightID)
	}

	ev, err := s.eventRepo.GetByID(ctx, bout.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if ev == nil {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, bout.EventID)
	}

	return s.snapshotAsOf(ctx, fighterID, bout, ev.EventDate)
}

func (s *SnapshotService) snapshotAsOf(ctx context.Context, fighterID string, bout *fight.Fight, cutoff time.Time) (*snapshot.Snapshot, error) {
	history, err := s.fightRepo.ListCompletedByFighterBefore(ctx, fighterID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("load fighter history: %w", err)
	}

	stats := snapshot.ComputeStats(history, fighterID, bout.WeightClass, cutoff)

	existing, err := s.snapshotRepo.GetByFighterAndFight(ctx, fighterID, bout.ID)
	if err != nil {
		return nil, fmt.Errorf("look up snapshot: %w", err)
	}

	if existing != nil {
		replaced := snapshot.NewSnapshot(existing.ID, fighterID, bout.ID, cutoff, stats)
		if err := s.snapshotRepo.Replace(ctx, replaced); err != nil {
			return nil, fmt.Errorf("replace snapshot: %w", err)
		}
		return replaced, nil
	}

	snapshotID, err := s.idGen.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate snapshot id: %w", err)
	}
	created := snapshot.NewSnapshot(snapshotID, fighterID, bout.ID, cutoff, stats)
	if err := s.snapshotRepo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	return created, nil
}

// CalculateAll walks completed fights in chronological order and fills in
// any missing snapshots for both corners. Pairs that already have one are
// skipped, so the batch is safe to rerun. A limit of zero or less processes
// every completed fight. The batch's writes commit as one transaction.
func (s *SnapshotService) CalculateAll(ctx context.Context, limit int) (SnapshotBatch, error) {
	ctx, span := startUsecaseSpan(ctx, "SnapshotService.CalculateAll")
	defer span.End()

	var batch SnapshotBatch
	err := s.tx.WithinTx(ctx, func(ctx context.Context, _ fighter.Repository, _ event.Repository, fightRepo fight.Repository, snapshotRepo snapshot.Repository) error {
		scoped := *s
		scoped.fightRepo = fightRepo
		scoped.snapshotRepo = snapshotRepo
		return scoped.calculateAll(ctx, limit, &batch)
	})

	return batch, err
}

func (s *SnapshotService) calculateAll(ctx context.Context, limit int, batch *SnapshotBatch) error {
	completed, err := s.fightRepo.ListCompleted(ctx, limit)
	if err != nil {
		return fmt.Errorf("list completed fights: %w", err)
	}

	for i := range completed {
		bout := &completed[i]
		batch.FightsProcessed++

		for _, fighterID := range []string{bout.Fighter1ID, bout.Fighter2ID} {
			existing, err := s.snapshotRepo.GetByFighterAndFight(ctx, fighterID, bout.ID)
			if err != nil {
				batch.Errors = append(batch.Errors, fmt.Sprintf("fight %s fighter %s: %v", bout.ID, fighterID, err))
				continue
			}
			if existing != nil {
				continue
			}

			if _, err := s.snapshotAsOf(ctx, fighterID, &bout.Fight, bout.EventDate); err != nil {
				batch.Errors = append(batch.Errors, fmt.Sprintf("fight %s fighter %s: %v", bout.ID, fighterID, err))
				continue
			}
			batch.SnapshotsCreated++
		}
	}

	return nil
}
