package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/event"
	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	"github.com/prasetyowira/fightcast/internal/domain/importrun"
	"github.com/prasetyowira/fightcast/internal/domain/source"
	"github.com/prasetyowira/fightcast/internal/infrastructure/repository/memory"
	"github.com/prasetyowira/fightcast/internal/transform"
)

type stubAdapter struct {
	sourceType string
	fighters   []source.RawFighter
	events     []source.RawEvent
	fights     []source.RawFight
	upcoming   []source.RawEvent
	healthy    bool
	fetchErr   error
}

func (a *stubAdapter) SourceType() string { return a.sourceType }

func (a *stubAdapter) FetchFighters(context.Context) ([]source.RawFighter, error) {
	return a.fighters, a.fetchErr
}

func (a *stubAdapter) FetchEvents(context.Context, source.EventFilter) ([]source.RawEvent, error) {
	return a.events, a.fetchErr
}

func (a *stubAdapter) FetchFights(context.Context, string, source.EventFilter) ([]source.RawFight, error) {
	return a.fights, a.fetchErr
}

func (a *stubAdapter) FetchUpcomingEvents(context.Context) ([]source.RawEvent, error) {
	return a.upcoming, a.fetchErr
}

func (a *stubAdapter) HealthCheck(context.Context) bool { return a.healthy }

type sequentialIDs struct {
	prefix string
	next   int
}

func (g *sequentialIDs) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next), nil
}

type importFixture struct {
	fighterRepo  *memory.FighterRepository
	eventRepo    *memory.EventRepository
	fightRepo    *memory.FightRepository
	snapshotRepo *memory.SnapshotRepository
	runRepo      *memory.ImportRunRepository
	tx           *memory.TxManager
	svc          *ImportService
}

func newImportFixture() *importFixture {
	fighterRepo := memory.NewFighterRepository()
	eventRepo := memory.NewEventRepository()
	fightRepo := memory.NewFightRepository(eventRepo)
	snapshotRepo := memory.NewSnapshotRepository()
	runRepo := memory.NewImportRunRepository()
	tx := memory.NewTxManager(fighterRepo, eventRepo, fightRepo, snapshotRepo)

	svc := NewImportService(
		fighterRepo, eventRepo, fightRepo, runRepo, tx,
		transform.NewDeduplicator(0.9),
		&sequentialIDs{prefix: "id"},
	)
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	return &importFixture{
		fighterRepo:  fighterRepo,
		eventRepo:    eventRepo,
		fightRepo:    fightRepo,
		snapshotRepo: snapshotRepo,
		runRepo:      runRepo,
		tx:           tx,
		svc:          svc,
	}
}

func floatPtr(v float64) *float64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestImportService_RunImport_CreatesEverything(t *testing.T) {
	fx := newImportFixture()
	eventDate := time.Date(2024, 4, 13, 0, 0, 0, 0, time.UTC)

	adapter := &stubAdapter{
		sourceType: source.TypeHistorical,
		fighters: []source.RawFighter{
			{FirstName: "Max", LastName: "Holloway", WeightClass: "Lightweight", IsActive: true, Wins: 25, Losses: 7},
			{FirstName: "Justin", LastName: "Gaethje", WeightClass: "Lightweight", IsActive: true, Wins: 25, Losses: 4},
		},
		events: []source.RawEvent{
			{Name: "UFC 300: Pereira vs Hill", EventDate: eventDate, City: "Las Vegas", Country: "USA", IsCompleted: true},
		},
		fights: []source.RawFight{
			{
				Fighter1Name:    "Max Holloway",
				Fighter2Name:    "Justin Gaethje",
				WeightClass:     "Lightweight",
				EventName:       "UFC 300: Pereira vs Hill",
				EventDate:       timePtr(eventDate),
				ScheduledRounds: 5,
				FightOrder:      2,
				WinnerName:      "Max Holloway",
				ResultMethod:    "KO/TKO",
				EndingTime:      "4:59",
			},
		},
	}

	run, err := fx.svc.RunImport(t.Context(), adapter, importrun.TypeFull)
	if err != nil {
		t.Fatalf("run import failed: %v", err)
	}

	if run.Status != importrun.StatusCompleted {
		t.Fatalf("unexpected run status: %s", run.Status)
	}
	if run.RecordsProcessed != 4 {
		t.Fatalf("unexpected records processed: %d", run.RecordsProcessed)
	}
	if run.RecordsCreated != 4 {
		t.Fatalf("unexpected records created: %d", run.RecordsCreated)
	}
	if run.RecordsFailed != 0 {
		t.Fatalf("unexpected record failures: %v", run.Errors)
	}
	if got := run.Metadata["fights_created"]; got != 1 {
		t.Fatalf("unexpected fights_created metadata: %v", got)
	}

	stored, err := fx.runRepo.GetByID(t.Context(), run.ID)
	if err != nil || stored == nil {
		t.Fatalf("run record not persisted: %v", err)
	}
	if stored.CompletedAt == nil {
		t.Fatalf("run record missing completion time")
	}

	holloway, err := fx.fighterRepo.GetByNormalizedName(t.Context(), "max holloway")
	if err != nil || holloway == nil {
		t.Fatalf("holloway not imported: %v", err)
	}
	if holloway.Wins != 25 {
		t.Fatalf("unexpected win count: %d", holloway.Wins)
	}

	ev, err := fx.eventRepo.GetByNameAndDate(t.Context(), "UFC 300: Pereira vs Hill", eventDate)
	if err != nil || ev == nil {
		t.Fatalf("event not imported: %v", err)
	}
	if ev.EventType != event.TypeNumbered {
		t.Fatalf("unexpected event type: %s", ev.EventType)
	}

	fights, err := fx.fightRepo.ListByEvent(t.Context(), ev.ID)
	if err != nil {
		t.Fatalf("list fights failed: %v", err)
	}
	if len(fights) != 1 {
		t.Fatalf("unexpected fight count: %d", len(fights))
	}
	if fights[0].WinnerID != holloway.ID {
		t.Fatalf("winner not resolved to holloway: %q", fights[0].WinnerID)
	}
}

func TestImportService_RunImport_FillsFighterGapsOnly(t *testing.T) {
	fx := newImportFixture()

	existing := fighter.Fighter{
		ID:             "fighter-1",
		FirstName:      "Alexandre",
		LastName:       "Pantoja",
		NormalizedName: "alexandre pantoja",
		Nationality:    "Brazil",
		Wins:           29,
	}
	if err := fx.fighterRepo.Create(t.Context(), &existing); err != nil {
		t.Fatalf("seed fighter: %v", err)
	}

	adapter := &stubAdapter{
		sourceType: source.TypeESPN,
		fighters: []source.RawFighter{
			{
				FirstName:   "Alexandre",
				LastName:    "Pantoja",
				Nickname:    "The Cannibal",
				Nationality: "United States",
				HeightCM:    floatPtr(165),
				Wins:        2,
			},
		},
	}

	run, err := fx.svc.RunImport(t.Context(), adapter, importrun.TypeIncremental)
	if err != nil {
		t.Fatalf("run import failed: %v", err)
	}
	if run.RecordsCreated != 0 || run.RecordsUpdated != 1 {
		t.Fatalf("unexpected counters: created=%d updated=%d", run.RecordsCreated, run.RecordsUpdated)
	}

	got, err := fx.fighterRepo.GetByID(t.Context(), "fighter-1")
	if err != nil || got == nil {
		t.Fatalf("fighter lookup failed: %v", err)
	}
	if got.Nickname != "The Cannibal" {
		t.Fatalf("nickname gap not filled: %q", got.Nickname)
	}
	if got.HeightCM == nil || *got.HeightCM != 165 {
		t.Fatalf("height gap not filled")
	}
	if got.Nationality != "Brazil" {
		t.Fatalf("populated nationality was overwritten: %q", got.Nationality)
	}
	if got.Wins != 29 {
		t.Fatalf("record counts must not be overwritten: %d", got.Wins)
	}
}

func TestImportService_RunImport_CreatesEventAndFightersFromFight(t *testing.T) {
	fx := newImportFixture()
	eventDate := time.Date(2019, 10, 6, 0, 0, 0, 0, time.UTC)

	adapter := &stubAdapter{
		sourceType: source.TypeHistorical,
		fights: []source.RawFight{
			{
				Fighter1Name: "Valentina Shevchenko",
				Fighter2Name: "Liz Carmouche",
				WeightClass:  "Women's Flyweight",
				EventName:    "UFC Fight Night 161",
				EventDate:    timePtr(eventDate),
				WinnerName:   "Valentina Shevchenko",
				ResultMethod: "Decision",
			},
		},
	}

	run, err := fx.svc.RunImport(t.Context(), adapter, importrun.TypeFull)
	if err != nil {
		t.Fatalf("run import failed: %v", err)
	}
	if got := run.Metadata["fighters_created"]; got != 2 {
		t.Fatalf("placeholder fighters not created: %v", got)
	}
	if got := run.Metadata["events_created"]; got != 1 {
		t.Fatalf("event not created on the fly: %v", got)
	}

	ev, err := fx.eventRepo.GetByNameAndDate(t.Context(), "UFC Fight Night 161", eventDate)
	if err != nil || ev == nil {
		t.Fatalf("on-the-fly event missing: %v", err)
	}
	if !ev.IsCompleted {
		t.Fatalf("event with a decided fight should be completed")
	}
	if ev.EventType != event.TypeFightNight {
		t.Fatalf("unexpected event type: %s", ev.EventType)
	}

	shevchenko, err := fx.fighterRepo.GetByNormalizedName(t.Context(), "valentina shevchenko")
	if err != nil || shevchenko == nil {
		t.Fatalf("placeholder fighter missing: %v", err)
	}
	if shevchenko.FirstName != "Valentina" || shevchenko.LastName != "Shevchenko" {
		t.Fatalf("name split wrong: %q %q", shevchenko.FirstName, shevchenko.LastName)
	}
}

func TestImportService_RunImport_UpdatesExistingFightResult(t *testing.T) {
	fx := newImportFixture()
	eventDate := time.Date(2026, 1, 24, 0, 0, 0, 0, time.UTC)

	scheduled := []source.RawFight{{
		Fighter1Name:    "Justin Gaethje",
		Fighter2Name:    "Paddy Pimblett",
		WeightClass:     "Lightweight",
		EventName:       "UFC 324",
		EventDate:       timePtr(eventDate),
		ScheduledRounds: 5,
		IsMainEvent:     true,
	}}
	if _, err := fx.svc.RunImport(t.Context(), &stubAdapter{sourceType: source.TypeUFCWeb, fights: scheduled}, importrun.TypeIncremental); err != nil {
		t.Fatalf("seed import failed: %v", err)
	}

	decided := scheduled
	decided[0].WinnerName = "Paddy Pimblett"
	decided[0].ResultMethod = "Submission"

	run, err := fx.svc.RunImport(t.Context(), &stubAdapter{sourceType: source.TypeESPN, fights: decided}, importrun.TypeEventUpdate)
	if err != nil {
		t.Fatalf("result import failed: %v", err)
	}
	if got := run.Metadata["fights_updated"]; got != 1 {
		t.Fatalf("fight result not applied: %v", got)
	}
	if got := run.Metadata["fights_created"]; got != 0 {
		t.Fatalf("duplicate fight created: %v", got)
	}

	ev, err := fx.eventRepo.GetByNameAndDate(t.Context(), "UFC 324", eventDate)
	if err != nil || ev == nil {
		t.Fatalf("event lookup failed: %v", err)
	}
	fights, err := fx.fightRepo.ListByEvent(t.Context(), ev.ID)
	if err != nil || len(fights) != 1 {
		t.Fatalf("expected a single fight, got %d (%v)", len(fights), err)
	}
	pimblett, err := fx.fighterRepo.GetByNormalizedName(t.Context(), "paddy pimblett")
	if err != nil || pimblett == nil {
		t.Fatalf("fighter lookup failed: %v", err)
	}
	if fights[0].WinnerID != pimblett.ID {
		t.Fatalf("winner not recorded: %q", fights[0].WinnerID)
	}
	if fights[0].ResultMethod != "Submission" {
		t.Fatalf("method not recorded: %q", fights[0].ResultMethod)
	}
}

func TestImportService_RunImport_SkipsInvalidRecords(t *testing.T) {
	fx := newImportFixture()

	adapter := &stubAdapter{
		sourceType: source.TypeHistorical,
		fighters: []source.RawFighter{
			{},
			{FirstName: "Jon", LastName: "Jones"},
		},
		fights: []source.RawFight{
			{Fighter1Name: "Jon Jones", Fighter2Name: "Jon Jones", WeightClass: "Heavyweight"},
		},
	}

	run, err := fx.svc.RunImport(t.Context(), adapter, importrun.TypeFull)
	if err != nil {
		t.Fatalf("run import failed: %v", err)
	}
	if run.Status != importrun.StatusCompleted {
		t.Fatalf("record errors must not fail the run: %s", run.Status)
	}
	if run.RecordsFailed != 2 {
		t.Fatalf("unexpected failed record count: %d (%v)", run.RecordsFailed, run.Errors)
	}
	if got := run.Metadata["fighters_created"]; got != 1 {
		t.Fatalf("valid fighter should still import: %v", got)
	}
}

func TestImportService_RunImport_FetchFailureFailsRun(t *testing.T) {
	fx := newImportFixture()

	adapter := &stubAdapter{
		sourceType: source.TypeESPN,
		fetchErr:   errors.New("connection refused"),
	}

	run, err := fx.svc.RunImport(t.Context(), adapter, importrun.TypeFull)
	if err == nil {
		t.Fatalf("expected fetch failure to surface")
	}
	if run == nil || run.Status != importrun.StatusFailed {
		t.Fatalf("run not marked failed: %+v", run)
	}

	stored, repoErr := fx.runRepo.GetByID(t.Context(), run.ID)
	if repoErr != nil || stored == nil {
		t.Fatalf("failed run not persisted: %v", repoErr)
	}
	if stored.Status != importrun.StatusFailed {
		t.Fatalf("persisted status: %s", stored.Status)
	}
	if len(stored.Errors) == 0 {
		t.Fatalf("failure cause not recorded")
	}
}

// failingEventRepo rejects every insert. The embedded repository keeps the
// rest of the interface working, Checkpoint included.
type failingEventRepo struct {
	*memory.EventRepository
	createErr error
}

func (r *failingEventRepo) Create(context.Context, *event.Event) error { return r.createErr }

func TestImportService_RunImport_FailedRunRollsBackWrites(t *testing.T) {
	fighterRepo := memory.NewFighterRepository()
	eventRepo := &failingEventRepo{
		EventRepository: memory.NewEventRepository(),
		createErr:       errors.New("insert event: connection reset"),
	}
	fightRepo := memory.NewFightRepository(eventRepo.EventRepository)
	runRepo := memory.NewImportRunRepository()
	tx := memory.NewTxManager(fighterRepo, eventRepo, fightRepo, memory.NewSnapshotRepository())

	svc := NewImportService(
		fighterRepo, eventRepo, fightRepo, runRepo, tx,
		transform.NewDeduplicator(0.9),
		&sequentialIDs{prefix: "id"},
	)
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	adapter := &stubAdapter{
		sourceType: source.TypeHistorical,
		fighters: []source.RawFighter{
			{FirstName: "Jon", LastName: "Jones", WeightClass: "Heavyweight", IsActive: true},
		},
		events: []source.RawEvent{
			{Name: "UFC 309", EventDate: time.Date(2024, 11, 16, 0, 0, 0, 0, time.UTC), IsCompleted: true},
		},
	}

	run, err := svc.RunImport(t.Context(), adapter, importrun.TypeFull)
	if err == nil {
		t.Fatalf("expected write failure to surface")
	}
	if run == nil || run.Status != importrun.StatusFailed {
		t.Fatalf("run not marked failed: %+v", run)
	}

	// The fighter phase succeeded before the event insert blew up; a failed
	// run must leave none of its entity writes behind.
	fighters, listErr := fighterRepo.List(t.Context())
	if listErr != nil {
		t.Fatalf("list fighters: %v", listErr)
	}
	if len(fighters) != 0 {
		t.Fatalf("failed run left %d fighter(s) behind: %+v", len(fighters), fighters)
	}

	// The audit record survives outside the transaction.
	stored, repoErr := runRepo.GetByID(t.Context(), run.ID)
	if repoErr != nil || stored == nil {
		t.Fatalf("failed run not persisted: %v", repoErr)
	}
	if stored.Status != importrun.StatusFailed {
		t.Fatalf("persisted status: %s", stored.Status)
	}
}

func TestImportService_RunImport_DeduplicatesFighters(t *testing.T) {
	fx := newImportFixture()

	adapter := &stubAdapter{
		sourceType: source.TypeHistorical,
		fighters: []source.RawFighter{
			{FirstName: "Charles", LastName: "Oliveira", Nickname: "Do Bronx"},
			{FirstName: "Charles", LastName: "Oliveira", Nationality: "Brazil"},
		},
	}

	run, err := fx.svc.RunImport(t.Context(), adapter, importrun.TypeFull)
	if err != nil {
		t.Fatalf("run import failed: %v", err)
	}
	if got := run.Metadata["fighters_processed"]; got != 1 {
		t.Fatalf("duplicates should collapse before counting: %v", got)
	}
	if got := run.Metadata["fighters_created"]; got != 1 {
		t.Fatalf("unexpected created count: %v", got)
	}

	oliveira, err := fx.fighterRepo.GetByNormalizedName(t.Context(), "charles oliveira")
	if err != nil || oliveira == nil {
		t.Fatalf("fighter lookup failed: %v", err)
	}
	if oliveira.Nickname != "Do Bronx" || oliveira.Nationality != "Brazil" {
		t.Fatalf("merge lost fields: %+v", oliveira)
	}
}
