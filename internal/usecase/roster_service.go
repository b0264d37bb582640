package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/event"
	"github.com/prasetyowira/fightcast/internal/domain/fight"
	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	"github.com/prasetyowira/fightcast/internal/domain/snapshot"
)

// RosterService serves the read side of the catalog: fighters, events, the
// fights on them and the snapshots computed for them.
type RosterService struct {
	fighterRepo  fighter.Repository
	eventRepo    event.Repository
	fightRepo    fight.Repository
	snapshotRepo snapshot.Repository
	now          func() time.Time
}

func NewRosterService(
	fighterRepo fighter.Repository,
	eventRepo event.Repository,
	fightRepo fight.Repository,
	snapshotRepo snapshot.Repository,
) *RosterService {
	return &RosterService{
		fighterRepo:  fighterRepo,
		eventRepo:    eventRepo,
		fightRepo:    fightRepo,
		snapshotRepo: snapshotRepo,
		now:          time.Now,
	}
}

func (s *RosterService) ListFighters(ctx context.Context) ([]fighter.Fighter, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.ListFighters")
	defer span.End()

	fighters, err := s.fighterRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fighters: %w", err)
	}

	return fighters, nil
}

func (s *RosterService) GetFighter(ctx context.Context, fighterID string) (*fighter.Fighter, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.GetFighter")
	defer span.End()

	if strings.TrimSpace(fighterID) == "" {
		return nil, fmt.Errorf("%w: fighter id is required", ErrInvalidInput)
	}

	f, err := s.fighterRepo.GetByID(ctx, fighterID)
	if err != nil {
		return nil, fmt.Errorf("get fighter: %w", err)
	}
	if f == nil {
		return nil, fmt.Errorf("%w: fighter %s", ErrNotFound, fighterID)
	}

	return f, nil
}

// FighterHistory lists a fighter's completed fights oldest first.
func (s *RosterService) FighterHistory(ctx context.Context, fighterID string) ([]fight.Detail, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.FighterHistory")
	defer span.End()

	if _, err := s.GetFighter(ctx, fighterID); err != nil {
		return nil, err
	}

	history, err := s.fightRepo.ListCompletedByFighterBefore(ctx, fighterID, s.now())
	if err != nil {
		return nil, fmt.Errorf("list fighter history: %w", err)
	}

	return history, nil
}

func (s *RosterService) FighterSnapshots(ctx context.Context, fighterID string) ([]snapshot.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.FighterSnapshots")
	defer span.End()

	if _, err := s.GetFighter(ctx, fighterID); err != nil {
		return nil, err
	}

	snapshots, err := s.snapshotRepo.ListByFighter(ctx, fighterID)
	if err != nil {
		return nil, fmt.Errorf("list fighter snapshots: %w", err)
	}

	return snapshots, nil
}

func (s *RosterService) UpcomingEvents(ctx context.Context) ([]event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.UpcomingEvents")
	defer span.End()

	events, err := s.eventRepo.ListUpcoming(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}

	return events, nil
}

func (s *RosterService) GetEvent(ctx context.Context, eventID string) (*event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.GetEvent")
	defer span.End()

	if strings.TrimSpace(eventID) == "" {
		return nil, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if ev == nil {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}

	return ev, nil
}

// EventFights lists a card's bouts in card order, prelims first.
func (s *RosterService) EventFights(ctx context.Context, eventID string) ([]fight.Fight, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.EventFights")
	defer span.End()

	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	fights, err := s.fightRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event fights: %w", err)
	}

	return fights, nil
}

func (s *RosterService) GetFight(ctx context.Context, fightID string) (*fight.Fight, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.GetFight")
	defer span.End()

	if strings.TrimSpace(fightID) == "" {
		return nil, fmt.Errorf("%w: fight id is required", ErrInvalidInput)
	}

	bout, err := s.fightRepo.GetByID(ctx, fightID)
	if err != nil {
		return nil, fmt.Errorf("get fight: %w", err)
	}
	if bout == nil {
		return nil, fmt.Errorf("%w: fight %s", ErrNotFound, fightID)
	}

	return bout, nil
}

func (s *RosterService) FightSnapshots(ctx context.Context, fightID string) ([]snapshot.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.FightSnapshots")
	defer span.End()

	if _, err := s.GetFight(ctx, fightID); err != nil {
		return nil, err
	}

	snapshots, err := s.snapshotRepo.ListByFight(ctx, fightID)
	if err != nil {
		return nil, fmt.Errorf("list fight snapshots: %w", err)
	}

	return snapshots, nil
}
