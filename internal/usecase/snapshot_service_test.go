package usecase

import (
	"testing"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/event"
	"github.com/prasetyowira/fightcast/internal/domain/fight"
	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	"github.com/prasetyowira/fightcast/internal/infrastructure/repository/memory"
)

type snapshotFixture struct {
	fighterRepo  *memory.FighterRepository
	eventRepo    *memory.EventRepository
	fightRepo    *memory.FightRepository
	snapshotRepo *memory.SnapshotRepository
	svc          *SnapshotService
}

func newSnapshotFixture(t *testing.T) *snapshotFixture {
	t.Helper()

	fighterRepo := memory.NewFighterRepository(
		fighter.Fighter{ID: "f-azul", FirstName: "Alex", LastName: "Azul", NormalizedName: "alex azul", WeightClass: "Lightweight"},
		fighter.Fighter{ID: "f-rojo", FirstName: "Rafa", LastName: "Rojo", NormalizedName: "rafa rojo", WeightClass: "Lightweight"},
		fighter.Fighter{ID: "f-verde", FirstName: "Vito", LastName: "Verde", NormalizedName: "vito verde", WeightClass: "Lightweight"},
	)
	eventRepo := memory.NewEventRepository(
		event.Event{ID: "e-2023", Name: "UFC 290", EventDate: time.Date(2023, 7, 8, 0, 0, 0, 0, time.UTC), IsCompleted: true},
		event.Event{ID: "e-2024", Name: "UFC 300", EventDate: time.Date(2024, 4, 13, 0, 0, 0, 0, time.UTC), IsCompleted: true},
		event.Event{ID: "e-2025", Name: "UFC 310", EventDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), IsCompleted: true},
	)
	fightRepo := memory.NewFightRepository(eventRepo,
		// Azul beats Rojo in 2023, loses to Verde in 2024, rematches Rojo in 2025.
		fight.Fight{ID: "b-1", EventID: "e-2023", Fighter1ID: "f-azul", Fighter2ID: "f-rojo", WeightClass: "Lightweight", WinnerID: "f-azul", ResultMethod: fight.MethodDecision},
		fight.Fight{ID: "b-2", EventID: "e-2024", Fighter1ID: "f-azul", Fighter2ID: "f-verde", WeightClass: "Lightweight", WinnerID: "f-verde", ResultMethod: fight.MethodKOTKO},
		fight.Fight{ID: "b-3", EventID: "e-2025", Fighter1ID: "f-azul", Fighter2ID: "f-rojo", WeightClass: "Lightweight", WinnerID: "f-azul", ResultMethod: fight.MethodSubmission},
	)
	snapshotRepo := memory.NewSnapshotRepository()

	tx := memory.NewTxManager(fighterRepo, eventRepo, fightRepo, snapshotRepo)
	svc := NewSnapshotService(fighterRepo, eventRepo, fightRepo, snapshotRepo, tx, &sequentialIDs{prefix: "snap"})

	return &snapshotFixture{
		fighterRepo:  fighterRepo,
		eventRepo:    eventRepo,
		fightRepo:    fightRepo,
		snapshotRepo: snapshotRepo,
		svc:          svc,
	}
}

func TestSnapshotService_CreateSnapshot_ExcludesFightItself(t *testing.T) {
	fx := newSnapshotFixture(t)

	snap, err := fx.svc.CreateSnapshot(t.Context(), "f-azul", "b-3")
	if err != nil {
		t.Fatalf("create snapshot failed: %v", err)
	}

	// Record as of the 2025 rematch covers only the 2023 and 2024 bouts.
	if snap.Wins != 1 || snap.Losses != 1 {
		t.Fatalf("unexpected record: %d-%d", snap.Wins, snap.Losses)
	}
	if !snap.SnapshotDate.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("snapshot date must be the card date: %v", snap.SnapshotDate)
	}
	if snap.KOLosses != 1 {
		t.Fatalf("ko loss not replayed: %d", snap.KOLosses)
	}
}

func TestSnapshotService_CreateSnapshot_DebutFighterIsEmpty(t *testing.T) {
	fx := newSnapshotFixture(t)

	snap, err := fx.svc.CreateSnapshot(t.Context(), "f-rojo", "b-1")
	if err != nil {
		t.Fatalf("create snapshot failed: %v", err)
	}
	if snap.TotalFights() != 0 {
		t.Fatalf("debut snapshot must be empty, got %d fights", snap.TotalFights())
	}
}

func TestSnapshotService_CreateSnapshot_ReplacesExisting(t *testing.T) {
	fx := newSnapshotFixture(t)

	first, err := fx.svc.CreateSnapshot(t.Context(), "f-azul", "b-3")
	if err != nil {
		t.Fatalf("first snapshot failed: %v", err)
	}
	second, err := fx.svc.CreateSnapshot(t.Context(), "f-azul", "b-3")
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("recompute must keep the snapshot id: %s vs %s", second.ID, first.ID)
	}

	all, err := fx.snapshotRepo.ListByFighter(t.Context(), "f-azul")
	if err != nil {
		t.Fatalf("list snapshots failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("recompute must not duplicate snapshots: %d", len(all))
	}
}

func TestSnapshotService_CreateSnapshot_RejectsOutsider(t *testing.T) {
	fx := newSnapshotFixture(t)

	if _, err := fx.svc.CreateSnapshot(t.Context(), "f-verde", "b-1"); err == nil {
		t.Fatalf("expected rejection for fighter not in the bout")
	}
	if _, err := fx.svc.CreateSnapshot(t.Context(), "f-azul", "missing"); err == nil {
		t.Fatalf("expected rejection for unknown fight")
	}
}

func TestSnapshotService_CalculateAll_FillsAndSkips(t *testing.T) {
	fx := newSnapshotFixture(t)

	batch, err := fx.svc.CalculateAll(t.Context(), 0)
	if err != nil {
		t.Fatalf("calculate all failed: %v", err)
	}
	if batch.FightsProcessed != 3 {
		t.Fatalf("unexpected fights processed: %d", batch.FightsProcessed)
	}
	if batch.SnapshotsCreated != 6 {
		t.Fatalf("unexpected snapshots created: %d", batch.SnapshotsCreated)
	}
	if len(batch.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", batch.Errors)
	}

	again, err := fx.svc.CalculateAll(t.Context(), 0)
	if err != nil {
		t.Fatalf("rerun failed: %v", err)
	}
	if again.SnapshotsCreated != 0 {
		t.Fatalf("rerun must skip existing snapshots, created %d", again.SnapshotsCreated)
	}

	// The 2025 rematch sees each fighter's record as of that card.
	azul, err := fx.snapshotRepo.GetByFighterAndFight(t.Context(), "f-azul", "b-3")
	if err != nil || azul == nil {
		t.Fatalf("azul snapshot missing: %v", err)
	}
	if azul.Wins != 1 || azul.Losses != 1 {
		t.Fatalf("unexpected azul record: %d-%d", azul.Wins, azul.Losses)
	}
	rojo, err := fx.snapshotRepo.GetByFighterAndFight(t.Context(), "f-rojo", "b-3")
	if err != nil || rojo == nil {
		t.Fatalf("rojo snapshot missing: %v", err)
	}
	if rojo.Wins != 0 || rojo.Losses != 1 {
		t.Fatalf("unexpected rojo record: %d-%d", rojo.Wins, rojo.Losses)
	}
}

func TestSnapshotService_CalculateAll_HonorsLimit(t *testing.T) {
	fx := newSnapshotFixture(t)

	batch, err := fx.svc.CalculateAll(t.Context(), 1)
	if err != nil {
		t.Fatalf("calculate all failed: %v", err)
	}
	if batch.FightsProcessed != 1 {
		t.Fatalf("limit not honored: %d", batch.FightsProcessed)
	}

	// Chronological order means the limited pass covers the oldest card.
	snap, err := fx.snapshotRepo.GetByFighterAndFight(t.Context(), "f-azul", "b-1")
	if err != nil || snap == nil {
		t.Fatalf("oldest card snapshot missing: %v", err)
	}
}
