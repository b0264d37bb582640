package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/importrun"
	"github.com/prasetyowira/fightcast/internal/domain/source"
	"github.com/prasetyowira/fightcast/internal/platform/logging"
)

type stubCardSource struct {
	stubAdapter
	cards   map[string][]source.RawFight
	cardErr error
}

func (a *stubCardSource) FetchFightCard(_ context.Context, eventName string) ([]source.RawFight, error) {
	if a.cardErr != nil {
		return nil, a.cardErr
	}
	return a.cards[eventName], nil
}

type syncFixture struct {
	*importFixture
	primary  *stubAdapter
	fallback *stubCardSource
	svc      *SyncService
}

func newSyncFixture(primary *stubAdapter, fallback *stubCardSource) *syncFixture {
	imports := newImportFixture()

	snapshots := NewSnapshotService(
		imports.fighterRepo, imports.eventRepo, imports.fightRepo,
		imports.snapshotRepo, imports.tx, &sequentialIDs{prefix: "snap"},
	)

	var card cardSource
	if fallback != nil {
		card = fallback
	}
	svc := NewSyncService(imports.svc, snapshots, imports.eventRepo, primary, card, nil, logging.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	return &syncFixture{importFixture: imports, primary: primary, fallback: fallback, svc: svc}
}

func TestSyncService_SyncUpcoming_ImportsPrimaryData(t *testing.T) {
	eventDate := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	primary := &stubAdapter{
		sourceType: source.TypeESPN,
		healthy:    true,
		upcoming: []source.RawEvent{
			{Name: "UFC 320: Jones vs Aspinall", EventDate: eventDate, ESPNID: "600050000"},
		},
		fighters: []source.RawFighter{
			{FirstName: "Jon", LastName: "Jones", IsActive: true},
			{FirstName: "Tom", LastName: "Aspinall", IsActive: true},
		},
		fights: []source.RawFight{
			{
				Fighter1Name: "Jon Jones", Fighter2Name: "Tom Aspinall",
				WeightClass: "Heavyweight", EventName: "UFC 320: Jones vs Aspinall",
				EventDate: timePtr(eventDate), IsMainEvent: true, ScheduledRounds: 5, FightOrder: 1,
			},
		},
	}
	fx := newSyncFixture(primary, nil)

	run, err := fx.svc.SyncUpcoming(t.Context(), false)
	if err != nil {
		t.Fatalf("sync upcoming failed: %v", err)
	}
	if run.Status != importrun.StatusCompleted {
		t.Fatalf("unexpected run status: %s", run.Status)
	}
	if run.ImportType != importrun.TypeIncremental {
		t.Fatalf("unexpected import type: %s", run.ImportType)
	}
	if got := runMetadataInt(run, "fights_created"); got != 1 {
		t.Fatalf("fight not imported: %d", got)
	}

	ev, err := fx.eventRepo.GetByNameAndDate(t.Context(), "UFC 320: Jones vs Aspinall", eventDate)
	if err != nil || ev == nil {
		t.Fatalf("event not imported: %v", err)
	}
}

func TestSyncService_SyncUpcoming_FailsWhenPrimaryDown(t *testing.T) {
	primary := &stubAdapter{sourceType: source.TypeESPN, healthy: false}
	fx := newSyncFixture(primary, nil)

	run, err := fx.svc.SyncUpcoming(t.Context(), true)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if run == nil || run.Status != importrun.StatusFailed {
		t.Fatalf("run not marked failed: %+v", run)
	}
}

func TestSyncService_SyncUpcoming_FallsBackToCardScrape(t *testing.T) {
	eventDate := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	otherDate := time.Date(2026, 9, 26, 0, 0, 0, 0, time.UTC)
	primary := &stubAdapter{
		sourceType: source.TypeESPN,
		healthy:    true,
		upcoming: []source.RawEvent{
			{Name: "UFC 320: Jones vs Aspinall", EventDate: eventDate},
			{Name: "UFC Fight Night: Silva vs Costa", EventDate: otherDate},
		},
	}
	fallback := &stubCardSource{
		stubAdapter: stubAdapter{sourceType: source.TypeUFCWeb, healthy: true},
		cards: map[string][]source.RawFight{
			"UFC 320: Jones vs Aspinall": {
				{Fighter1Name: "Jon Jones", Fighter2Name: "Tom Aspinall", WeightClass: "Heavyweight", IsMainEvent: true, ScheduledRounds: 5, FightOrder: 1},
			},
			// The fight night card is not scrapeable and yields nothing.
		},
	}
	fx := newSyncFixture(primary, fallback)

	run, err := fx.svc.SyncUpcoming(t.Context(), true)
	if err != nil {
		t.Fatalf("sync upcoming failed: %v", err)
	}
	if got := runMetadataInt(run, "fights_created"); got != 1 {
		t.Fatalf("fallback card not imported: %d", got)
	}
	if got := runMetadataInt(run, "events_created"); got != 2 {
		t.Fatalf("both events should import regardless: %d", got)
	}

	ev, err := fx.eventRepo.GetByNameAndDate(t.Context(), "UFC 320: Jones vs Aspinall", eventDate)
	if err != nil || ev == nil {
		t.Fatalf("event lookup failed: %v", err)
	}
	fights, err := fx.fightRepo.ListByEvent(t.Context(), ev.ID)
	if err != nil || len(fights) != 1 {
		t.Fatalf("scraped card not attached to the event: %d (%v)", len(fights), err)
	}
}

func TestSyncService_SyncUpcoming_SkipsFallbackWhenUnhealthy(t *testing.T) {
	primary := &stubAdapter{
		sourceType: source.TypeESPN,
		healthy:    true,
		upcoming: []source.RawEvent{
			{Name: "UFC 320: Jones vs Aspinall", EventDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)},
		},
	}
	fallback := &stubCardSource{
		stubAdapter: stubAdapter{sourceType: source.TypeUFCWeb, healthy: false},
		cards: map[string][]source.RawFight{
			"UFC 320: Jones vs Aspinall": {
				{Fighter1Name: "Jon Jones", Fighter2Name: "Tom Aspinall", WeightClass: "Heavyweight"},
			},
		},
	}
	fx := newSyncFixture(primary, fallback)

	run, err := fx.svc.SyncUpcoming(t.Context(), true)
	if err != nil {
		t.Fatalf("sync upcoming failed: %v", err)
	}
	if got := runMetadataInt(run, "fights_created"); got != 0 {
		t.Fatalf("unhealthy fallback must not be scraped: %d", got)
	}
}

func TestSyncService_UpdateEventResults(t *testing.T) {
	eventDate := time.Date(2026, 1, 24, 0, 0, 0, 0, time.UTC)
	primary := &stubAdapter{sourceType: source.TypeESPN, healthy: true}
	fx := newSyncFixture(primary, nil)

	seed := &stubAdapter{
		sourceType: source.TypeUFCWeb,
		fights: []source.RawFight{{
			Fighter1Name: "Justin Gaethje", Fighter2Name: "Paddy Pimblett",
			WeightClass: "Lightweight", EventName: "UFC 324", EventDate: timePtr(eventDate),
		}},
	}
	if _, err := fx.importFixture.svc.RunImport(t.Context(), seed, importrun.TypeIncremental); err != nil {
		t.Fatalf("seed import failed: %v", err)
	}
	ev, err := fx.eventRepo.GetByNameAndDate(t.Context(), "UFC 324", eventDate)
	if err != nil || ev == nil {
		t.Fatalf("seed event missing: %v", err)
	}

	primary.fights = []source.RawFight{{
		Fighter1Name: "Justin Gaethje", Fighter2Name: "Paddy Pimblett",
		WeightClass: "Lightweight", EventName: "UFC 324", EventDate: timePtr(eventDate),
		WinnerName: "Paddy Pimblett", ResultMethod: "Submission",
	}}

	run, err := fx.svc.UpdateEventResults(t.Context(), ev.ID)
	if err != nil {
		t.Fatalf("update event results failed: %v", err)
	}
	if run.ImportType != importrun.TypeEventUpdate {
		t.Fatalf("unexpected import type: %s", run.ImportType)
	}
	if got := runMetadataInt(run, "fights_updated"); got != 1 {
		t.Fatalf("result not applied: %d", got)
	}

	if _, err := fx.svc.UpdateEventResults(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSyncService_RunFullSync_TriggersSnapshots(t *testing.T) {
	eventDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	primary := &stubAdapter{
		sourceType: source.TypeESPN,
		healthy:    true,
		upcoming: []source.RawEvent{
			{Name: "UFC 319", EventDate: eventDate},
		},
		fights: []source.RawFight{{
			Fighter1Name: "Dricus Du Plessis", Fighter2Name: "Khamzat Chimaev",
			WeightClass: "Middleweight", EventName: "UFC 319", EventDate: timePtr(eventDate),
			WinnerName: "Khamzat Chimaev", ResultMethod: "Decision",
		}},
	}
	fx := newSyncFixture(primary, nil)

	report, err := fx.svc.RunFullSync(t.Context())
	if err != nil {
		t.Fatalf("full sync failed: %v", err)
	}
	if report.Run == nil || report.Run.Status != importrun.StatusCompleted {
		t.Fatalf("unexpected run: %+v", report.Run)
	}
	if report.Snapshots == nil {
		t.Fatalf("new fights must trigger a snapshot batch")
	}
	if report.Snapshots.FightsProcessed != 1 {
		t.Fatalf("completed fight not snapshotted: %d", report.Snapshots.FightsProcessed)
	}
	if report.Snapshots.SnapshotsCreated != 2 {
		t.Fatalf("expected both corners snapshotted: %d", report.Snapshots.SnapshotsCreated)
	}
}

func TestSyncService_PipelineStatus(t *testing.T) {
	primary := &stubAdapter{sourceType: source.TypeESPN, healthy: true}
	fallback := &stubCardSource{stubAdapter: stubAdapter{sourceType: source.TypeUFCWeb, healthy: false}}
	fx := newSyncFixture(primary, fallback)

	if _, err := fx.svc.SyncUpcoming(t.Context(), false); err != nil {
		t.Fatalf("seed run failed: %v", err)
	}

	report, err := fx.svc.PipelineStatus(t.Context())
	if err != nil {
		t.Fatalf("pipeline status failed: %v", err)
	}
	if !report.Sources[source.TypeESPN].Healthy {
		t.Fatalf("primary should report healthy")
	}
	if report.Sources[source.TypeUFCWeb].Healthy {
		t.Fatalf("fallback should report unhealthy")
	}
	if len(report.RecentRuns) != 1 {
		t.Fatalf("recent runs missing: %d", len(report.RecentRuns))
	}
	if report.CheckedAt.IsZero() {
		t.Fatalf("checked-at timestamp missing")
	}
}
