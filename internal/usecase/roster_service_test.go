package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/event"
	"github.com/prasetyowira/fightcast/internal/domain/fight"
	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	"github.com/prasetyowira/fightcast/internal/domain/snapshot"
	"github.com/prasetyowira/fightcast/internal/infrastructure/repository/memory"
)

func newRosterFixture(t *testing.T) *RosterService {
	t.Helper()

	fighters := memory.NewFighterRepository(
		fighter.Fighter{ID: "f-silva", FirstName: "Anderson", LastName: "Silva", NormalizedName: "anderson silva", Wins: 34, Losses: 11},
		fighter.Fighter{ID: "f-weidman", FirstName: "Chris", LastName: "Weidman", NormalizedName: "chris weidman", Wins: 15, Losses: 6},
	)
	events := memory.NewEventRepository(
		event.Event{ID: "e-162", Name: "UFC 162", EventDate: time.Date(2013, 7, 6, 0, 0, 0, 0, time.UTC), IsCompleted: true},
		event.Event{ID: "e-future", Name: "UFC Fight Night", EventDate: time.Date(2027, 3, 6, 0, 0, 0, 0, time.UTC)},
	)
	fights := memory.NewFightRepository(events,
		fight.Fight{
			ID: "b-162-main", EventID: "e-162",
			Fighter1ID: "f-weidman", Fighter2ID: "f-silva",
			WeightClass: "Middleweight", IsMainEvent: true, FightOrder: 12,
			WinnerID: "f-weidman", ResultMethod: fight.MethodKOTKO,
		},
		fight.Fight{
			ID: "b-162-co", EventID: "e-162",
			Fighter1ID: "f-silva", Fighter2ID: "f-weidman",
			WeightClass: "Middleweight", FightOrder: 11,
		},
	)
	snapshots := memory.NewSnapshotRepository(
		snapshot.Snapshot{ID: "s-1", FighterID: "f-silva", FightID: "b-162-main", SnapshotDate: time.Date(2013, 7, 6, 0, 0, 0, 0, time.UTC), Wins: 33},
	)

	svc := NewRosterService(fighters, events, fights, snapshots)
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestRosterService_GetFighter(t *testing.T) {
	svc := newRosterFixture(t)
	ctx := context.Background()

	f, err := svc.GetFighter(ctx, "f-silva")
	if err != nil {
		t.Fatalf("GetFighter: %v", err)
	}
	if f.FullName() != "Anderson Silva" {
		t.Fatalf("expected Anderson Silva, got %q", f.FullName())
	}

	if _, err := svc.GetFighter(ctx, "f-ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetFighter(ctx, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRosterService_ListFighters_SortedByName(t *testing.T) {
	svc := newRosterFixture(t)

	fighters, err := svc.ListFighters(context.Background())
	if err != nil {
		t.Fatalf("ListFighters: %v", err)
	}
	if len(fighters) != 2 {
		t.Fatalf("expected 2 fighters, got %d", len(fighters))
	}
	if fighters[0].ID != "f-silva" || fighters[1].ID != "f-weidman" {
		t.Fatalf("unexpected order: %s, %s", fighters[0].ID, fighters[1].ID)
	}
}

func TestRosterService_FighterHistory_CompletedOnly(t *testing.T) {
	svc := newRosterFixture(t)

	history, err := svc.FighterHistory(context.Background(), "f-silva")
	if err != nil {
		t.Fatalf("FighterHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 completed fight, got %d", len(history))
	}
	if history[0].ID != "b-162-main" {
		t.Fatalf("expected b-162-main, got %s", history[0].ID)
	}
	if history[0].EventDate.Year() != 2013 {
		t.Fatalf("expected event date resolved, got %v", history[0].EventDate)
	}
}

func TestRosterService_EventFights_CardOrder(t *testing.T) {
	svc := newRosterFixture(t)
	ctx := context.Background()

	fights, err := svc.EventFights(ctx, "e-162")
	if err != nil {
		t.Fatalf("EventFights: %v", err)
	}
	if len(fights) != 2 {
		t.Fatalf("expected 2 fights, got %d", len(fights))
	}
	if fights[0].ID != "b-162-co" || fights[1].ID != "b-162-main" {
		t.Fatalf("unexpected card order: %s, %s", fights[0].ID, fights[1].ID)
	}

	if _, err := svc.EventFights(ctx, "e-ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRosterService_UpcomingEvents(t *testing.T) {
	svc := newRosterFixture(t)

	events, err := svc.UpcomingEvents(context.Background())
	if err != nil {
		t.Fatalf("UpcomingEvents: %v", err)
	}
	if len(events) != 1 || events[0].ID != "e-future" {
		t.Fatalf("expected only e-future, got %v", events)
	}
}

func TestRosterService_Snapshots(t *testing.T) {
	svc := newRosterFixture(t)
	ctx := context.Background()

	byFighter, err := svc.FighterSnapshots(ctx, "f-silva")
	if err != nil {
		t.Fatalf("FighterSnapshots: %v", err)
	}
	if len(byFighter) != 1 || byFighter[0].ID != "s-1" {
		t.Fatalf("unexpected fighter snapshots: %v", byFighter)
	}

	byFight, err := svc.FightSnapshots(ctx, "b-162-main")
	if err != nil {
		t.Fatalf("FightSnapshots: %v", err)
	}
	if len(byFight) != 1 || byFight[0].FighterID != "f-silva" {
		t.Fatalf("unexpected fight snapshots: %v", byFight)
	}

	if _, err := svc.FightSnapshots(ctx, "b-ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
