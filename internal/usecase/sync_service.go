package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/prasetyowira/fightcast/internal/domain/event"
	"github.com/prasetyowira/fightcast/internal/domain/importrun"
	"github.com/prasetyowira/fightcast/internal/domain/source"
	"github.com/prasetyowira/fightcast/internal/platform/logging"
)

const syncCardWorkers = 4

// cardSource is a fallback adapter that can scrape the full fight card of a
// named event, used when the primary source lists events without bouts.
type cardSource interface {
	source.Adapter
	FetchFightCard(ctx context.Context, eventName string) ([]source.RawFight, error)
}

// SyncReport is the outcome of an orchestrated import, with the snapshot
// batch attached when new fights triggered one.
type SyncReport struct {
	Run       *importrun.Run
	Snapshots *SnapshotBatch
}

// SourceStatus is one source's health as seen by the pipeline.
type SourceStatus struct {
	SourceType string
	Healthy    bool
}

// PipelineReport summarizes source health and recent runs.
type PipelineReport struct {
	Sources    map[string]SourceStatus
	RecentRuns []importrun.Run
	CheckedAt  time.Time
}

// SyncService orchestrates imports across sources: the primary API feed for
// events and results, with the website scraper filling in cards the feed
// has not published yet.
type SyncService struct {
	imports   *ImportService
	snapshots *SnapshotService
	eventRepo event.Repository
	primary   source.Adapter
	fallback  cardSource
	sources   []source.Adapter
	logger    *logging.Logger
	now       func() time.Time
}

func NewSyncService(
	imports *ImportService,
	snapshots *SnapshotService,
	eventRepo event.Repository,
	primary source.Adapter,
	fallback cardSource,
	extraSources []source.Adapter,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}

	sources := []source.Adapter{primary}
	if fallback != nil {
		sources = append(sources, fallback)
	}
	sources = append(sources, extraSources...)

	return &SyncService{
		imports:   imports,
		snapshots: snapshots,
		eventRepo: eventRepo,
		primary:   primary,
		fallback:  fallback,
		sources:   sources,
		logger:    logger,
		now:       time.Now,
	}
}

// ImportFromSource runs a full import from one adapter and, when asked and
// new fights arrived, recalculates snapshots over them.
func (s *SyncService) ImportFromSource(ctx context.Context, adapter source.Adapter, calculateSnapshots bool) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.ImportFromSource")
	defer span.End()

	run, err := s.imports.RunImport(ctx, adapter, importrun.TypeFull)
	if err != nil {
		return SyncReport{Run: run}, err
	}

	report := SyncReport{Run: run}
	if calculateSnapshots && runMetadataInt(run, "fights_created") > 0 {
		batch, err := s.snapshots.CalculateAll(ctx, 0)
		if err != nil {
			return report, fmt.Errorf("calculate snapshots after import: %w", err)
		}
		report.Snapshots = &batch
	}

	return report, nil
}

// SyncUpcoming pulls upcoming events, their cards and the fighters on them
// from the primary source. When the primary lists events with no bouts yet
// and the fallback is enabled, each card is scraped from the fallback
// instead; a card that fails to scrape is skipped, not fatal.
func (s *SyncService) SyncUpcoming(ctx context.Context, useFallback bool) (*importrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.SyncUpcoming")
	defer span.End()

	run, err := s.imports.startRun(ctx, s.primary.SourceType(), importrun.TypeIncremental)
	if err != nil {
		return nil, err
	}

	if !s.primary.HealthCheck(ctx) {
		return s.imports.failRun(ctx, run, fmt.Errorf("%w: %s is unreachable", ErrDependencyUnavailable, s.primary.SourceType()))
	}

	events, err := s.primary.FetchUpcomingEvents(ctx)
	if err != nil {
		return s.imports.failRun(ctx, run, fmt.Errorf("fetch upcoming events: %w", err))
	}
	fighters, err := s.primary.FetchFighters(ctx)
	if err != nil {
		return s.imports.failRun(ctx, run, fmt.Errorf("fetch fighters: %w", err))
	}
	fights, err := s.primary.FetchFights(ctx, "", source.EventFilter{StartDate: s.today()})
	if err != nil {
		return s.imports.failRun(ctx, run, fmt.Errorf("fetch fights: %w", err))
	}

	if len(events) > 0 && len(fights) == 0 && useFallback && s.fallback != nil {
		fights = s.fetchFallbackCards(ctx, events)
	}

	result, err := s.imports.importAll(ctx, s.primary.SourceType(), fighters, events, fights)
	if err != nil {
		return s.imports.failRun(ctx, run, err)
	}

	return s.imports.finishRun(ctx, run, result)
}

// fetchFallbackCards scrapes every event's card from the fallback source in
// parallel. Scrape failures are logged and leave that event without bouts.
func (s *SyncService) fetchFallbackCards(ctx context.Context, events []source.RawEvent) []source.RawFight {
	if !s.fallback.HealthCheck(ctx) {
		s.logger.WarnContext(ctx, "fallback source unhealthy, skipping card scrape",
			"source", s.fallback.SourceType(),
		)
		return nil
	}

	pool, err := ants.NewPool(syncCardWorkers)
	if err != nil {
		s.logger.WarnContext(ctx, "card scrape pool unavailable", "error", err)
		return nil
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		fights  []source.RawFight
		workers sync.WaitGroup
	)
	for i := range events {
		ev := events[i]
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			card, err := s.fallback.FetchFightCard(ctx, ev.Name)
			if err != nil {
				s.logger.WarnContext(ctx, "fight card scrape failed",
					"event_name", ev.Name,
					"error", err,
				)
				return
			}

			eventDate := ev.EventDate
			for j := range card {
				card[j].EventName = ev.Name
				card[j].EventDate = &eventDate
			}

			mu.Lock()
			fights = append(fights, card...)
			mu.Unlock()
		}); err != nil {
			workers.Done()
			s.logger.WarnContext(ctx, "card scrape submit failed", "event_name", ev.Name, "error", err)
		}
	}
	workers.Wait()

	return fights
}

// UpdateEventResults refetches one event's card from the primary source and
// applies any newly decided results to stored fights.
func (s *SyncService) UpdateEventResults(ctx context.Context, eventID string) (*importrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.UpdateEventResults")
	defer span.End()

	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if ev == nil {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}

	run, err := s.imports.startRun(ctx, s.primary.SourceType(), importrun.TypeEventUpdate)
	if err != nil {
		return nil, err
	}

	fights, err := s.primary.FetchFights(ctx, ev.Name, source.EventFilter{})
	if err != nil {
		return s.imports.failRun(ctx, run, fmt.Errorf("fetch fights for %q: %w", ev.Name, err))
	}

	result, err := s.imports.importAll(ctx, s.primary.SourceType(), nil, nil, fights)
	if err != nil {
		return s.imports.failRun(ctx, run, err)
	}

	return s.imports.finishRun(ctx, run, result)
}

// RunFullSync is the scheduled entry point: sync upcoming cards with the
// fallback enabled, then fill snapshots when new fights arrived.
func (s *SyncService) RunFullSync(ctx context.Context) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.RunFullSync")
	defer span.End()

	run, err := s.SyncUpcoming(ctx, true)
	if err != nil {
		return SyncReport{Run: run}, err
	}

	report := SyncReport{Run: run}
	if runMetadataInt(run, "fights_created") > 0 {
		batch, err := s.snapshots.CalculateAll(ctx, 0)
		if err != nil {
			return report, fmt.Errorf("calculate snapshots after sync: %w", err)
		}
		report.Snapshots = &batch
	}

	return report, nil
}

// PipelineStatus health-checks every source in parallel and lists the most
// recent runs.
func (s *SyncService) PipelineStatus(ctx context.Context) (PipelineReport, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.PipelineStatus")
	defer span.End()

	report := PipelineReport{
		Sources:   make(map[string]SourceStatus, len(s.sources)),
		CheckedAt: s.now().UTC(),
	}

	var (
		mu sync.Mutex
		wg conc.WaitGroup
	)
	for _, adapter := range s.sources {
		adapter := adapter
		wg.Go(func() {
			healthy := adapter.HealthCheck(ctx)

			mu.Lock()
			report.Sources[adapter.SourceType()] = SourceStatus{
				SourceType: adapter.SourceType(),
				Healthy:    healthy,
			}
			mu.Unlock()
		})
	}
	wg.Wait()

	runs, err := s.imports.runRepo.ListRecent(ctx, 5)
	if err != nil {
		return report, fmt.Errorf("list recent runs: %w", err)
	}
	report.RecentRuns = runs

	return report, nil
}

// GetRun looks up one import run by ID.
func (s *SyncService) GetRun(ctx context.Context, runID string) (*importrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.GetRun")
	defer span.End()

	run, err := s.imports.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("get import run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: import run %s", ErrNotFound, runID)
	}

	return run, nil
}

func (s *SyncService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func runMetadataInt(run *importrun.Run, key string) int {
	if run == nil || run.Metadata == nil {
		return 0
	}
	switch v := run.Metadata[key].(type) {
	case int:
		return v
	case float64:
		// Metadata reloaded from storage decodes numbers as float64.
		return int(v)
	}
	return 0
}
