package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/event"
	"github.com/prasetyowira/fightcast/internal/domain/fight"
	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	"github.com/prasetyowira/fightcast/internal/domain/importrun"
	"github.com/prasetyowira/fightcast/internal/domain/snapshot"
	"github.com/prasetyowira/fightcast/internal/domain/source"
	idgen "github.com/prasetyowira/fightcast/internal/platform/id"
	"github.com/prasetyowira/fightcast/internal/transform"
)

var numberedEventNameRegex = regexp.MustCompile(`(?i)^ufc\s+\d+`)

// ImportService reconciles raw records from a source adapter into the
// canonical roster. Every run is persisted as an importrun.Run audit record,
// created in the running state before any work happens and finalized as
// completed or failed.
type ImportService struct {
	fighterRepo fighter.Repository
	eventRepo   event.Repository
	fightRepo   fight.Repository
	runRepo     importrun.Repository
	tx          unitOfWork
	dedup       *transform.Deduplicator
	idGen       idgen.Generator
	now         func() time.Time
}

func NewImportService(
	fighterRepo fighter.Repository,
	eventRepo event.Repository,
	fightRepo fight.Repository,
	runRepo importrun.Repository,
	tx unitOfWork,
	dedup *transform.Deduplicator,
	idGen idgen.Generator,
) *ImportService {
	return &ImportService{
		fighterRepo: fighterRepo,
		eventRepo:   eventRepo,
		fightRepo:   fightRepo,
		runRepo:     runRepo,
		tx:          tx,
		dedup:       dedup,
		idGen:       idGen,
		now:         time.Now,
	}
}

// importState caches fighters and events resolved during one run so records
// referencing the same entity hit the repository once. Fighters are keyed by
// normalized name, events by name plus date.
type importState struct {
	fighters map[string]*fighter.Fighter
	events   map[string]*event.Event
}

func newImportState() *importState {
	return &importState{
		fighters: make(map[string]*fighter.Fighter),
		events:   make(map[string]*event.Event),
	}
}

func eventKey(name string, date time.Time) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + date.Format("2006-01-02")
}

// RunImport fetches everything the adapter offers and imports it in
// dependency order: fighters first, then events, then fights. A fetch
// failure fails the run; individual bad records are skipped and reported in
// the run's error list without failing it.
func (s *ImportService) RunImport(ctx context.Context, adapter source.Adapter, importType string) (*importrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "ImportService.RunImport")
	defer span.End()

	run, err := s.startRun(ctx, adapter.SourceType(), importType)
	if err != nil {
		return nil, err
	}

	fighters, err := adapter.FetchFighters(ctx)
	if err != nil {
		return s.failRun(ctx, run, fmt.Errorf("fetch fighters from %s: %w", adapter.SourceType(), err))
	}
	events, err := adapter.FetchEvents(ctx, source.EventFilter{})
	if err != nil {
		return s.failRun(ctx, run, fmt.Errorf("fetch events from %s: %w", adapter.SourceType(), err))
	}
	fights, err := adapter.FetchFights(ctx, "", source.EventFilter{})
	if err != nil {
		return s.failRun(ctx, run, fmt.Errorf("fetch fights from %s: %w", adapter.SourceType(), err))
	}

	result, err := s.importAll(ctx, adapter.SourceType(), fighters, events, fights)
	if err != nil {
		return s.failRun(ctx, run, err)
	}

	return s.finishRun(ctx, run, result)
}

func (s *ImportService) startRun(ctx context.Context, sourceType, importType string) (*importrun.Run, error) {
	runID, err := s.idGen.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate import run id: %w", err)
	}

	run := &importrun.Run{
		ID:         runID,
		Source:     sourceType,
		ImportType: importType,
		Status:     importrun.StatusRunning,
		StartedAt:  s.now().UTC(),
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create import run: %w", err)
	}

	return run, nil
}

func (s *ImportService) finishRun(ctx context.Context, run *importrun.Run, result *source.ImportResult) (*importrun.Run, error) {
	completedAt := s.now().UTC()
	run.Status = importrun.StatusCompleted
	run.CompletedAt = &completedAt
	run.RecordsProcessed = result.RecordsProcessed()
	run.RecordsCreated = result.RecordsCreated()
	run.RecordsUpdated = result.RecordsUpdated()
	run.RecordsFailed = len(result.Errors)
	run.Errors = result.Errors
	run.Metadata = map[string]any{
		"fighters_processed": result.FightersProcessed,
		"fighters_created":   result.FightersCreated,
		"fighters_updated":   result.FightersUpdated,
		"events_processed":   result.EventsProcessed,
		"events_created":     result.EventsCreated,
		"events_updated":     result.EventsUpdated,
		"fights_processed":   result.FightsProcessed,
		"fights_created":     result.FightsCreated,
		"fights_updated":     result.FightsUpdated,
	}

	if err := s.runRepo.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("finalize import run: %w", err)
	}

	return run, nil
}

func (s *ImportService) failRun(ctx context.Context, run *importrun.Run, cause error) (*importrun.Run, error) {
	completedAt := s.now().UTC()
	run.Status = importrun.StatusFailed
	run.CompletedAt = &completedAt
	run.Errors = append(run.Errors, cause.Error())

	if err := s.runRepo.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("mark import run failed: %w (run failure: %s)", err, cause)
	}

	return run, cause
}

// importAll runs the three import phases over already-fetched records and
// returns the run-scoped counters. The sync service reuses it for payloads
// it assembles from several sources. All entity writes happen inside one
// transaction, so a phase error rolls the whole run back and only the audit
// record survives.
func (s *ImportService) importAll(ctx context.Context, sourceType string, fighters []source.RawFighter, events []source.RawEvent, fights []source.RawFight) (*source.ImportResult, error) {
	result := source.NewImportResult(sourceType)
	state := newImportState()

	err := s.tx.WithinTx(ctx, func(ctx context.Context, fighterRepo fighter.Repository, eventRepo event.Repository, fightRepo fight.Repository, _ snapshot.Repository) error {
		scoped := *s
		scoped.fighterRepo = fighterRepo
		scoped.eventRepo = eventRepo
		scoped.fightRepo = fightRepo

		if err := scoped.importFighters(ctx, fighters, result, state); err != nil {
			return err
		}
		if err := scoped.importEvents(ctx, events, result, state); err != nil {
			return err
		}
		return scoped.importFights(ctx, fights, result, state)
	})
	if err != nil {
		return nil, err
	}

	result.Complete()
	return result, nil
}

func (s *ImportService) importFighters(ctx context.Context, raws []source.RawFighter, result *source.ImportResult, state *importState) error {
	valid := make([]source.RawFighter, 0, len(raws))
	for _, raw := range raws {
		check := transform.ValidateFighter(raw, s.now())
		if !check.IsValid() {
			result.AddError(fmt.Sprintf("fighter %q: %s", raw.FullName(), check.Errors[0].Error()))
			continue
		}
		valid = append(valid, transform.NormalizeFighter(raw))
	}

	for _, raw := range s.dedup.DeduplicateFighters(valid) {
		result.FightersProcessed++
		if _, err := s.upsertFighter(ctx, raw, result, state); err != nil {
			return err
		}
	}

	return nil
}

func (s *ImportService) upsertFighter(ctx context.Context, raw source.RawFighter, result *source.ImportResult, state *importState) (*fighter.Fighter, error) {
	key := transform.NormalizeName(raw.FullName())
	if key == "" {
		return nil, fmt.Errorf("fighter %q has no usable name", raw.FullName())
	}

	existing, ok := state.fighters[key]
	if !ok {
		var err error
		existing, err = s.fighterRepo.GetByNormalizedName(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("look up fighter %q: %w", raw.FullName(), err)
		}
	}

	if existing != nil {
		if fillFighterGaps(existing, raw) {
			existing.UpdatedAt = s.now().UTC()
			if err := s.fighterRepo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("update fighter %q: %w", raw.FullName(), err)
			}
			result.FightersUpdated++
		}
		state.fighters[key] = existing
		return existing, nil
	}

	created, err := s.createFighter(ctx, raw, key)
	if err != nil {
		return nil, err
	}
	result.FightersCreated++
	state.fighters[key] = created

	return created, nil
}

func (s *ImportService) createFighter(ctx context.Context, raw source.RawFighter, normalizedName string) (*fighter.Fighter, error) {
	fighterID, err := s.idGen.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate fighter id: %w", err)
	}

	now := s.now().UTC()
	created := &fighter.Fighter{
		ID:             fighterID,
		FirstName:      raw.FirstName,
		LastName:       raw.LastName,
		NormalizedName: normalizedName,
		Nickname:       raw.Nickname,
		DateOfBirth:    raw.DateOfBirth,
		Nationality:    raw.Nationality,
		Hometown:       raw.Hometown,
		HeightCM:       raw.HeightCM,
		WeightKG:       raw.WeightKG,
		ReachCM:        raw.ReachCM,
		LegReachCM:     raw.LegReachCM,
		WeightClass:    raw.WeightClass,
		Stance:         raw.Stance,
		IsActive:       raw.IsActive,
		Wins:           raw.Wins,
		Losses:         raw.Losses,
		Draws:          raw.Draws,
		NoContests:     raw.NoContests,
		KOWins:         raw.KOWins,
		SubmissionWins: raw.SubmissionWins,
		DecisionWins:   raw.DecisionWins,
		UFCID:          raw.UFCID,
		ESPNID:         raw.ESPNID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.fighterRepo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("create fighter %q: %w", raw.FullName(), err)
	}

	return created, nil
}

// fillFighterGaps copies raw values into fields the stored record has no
// value for. Populated fields are never overwritten, so the first source to
// supply a fact wins regardless of import order.
func fillFighterGaps(existing *fighter.Fighter, raw source.RawFighter) bool {
	changed := false
	if existing.Nickname == "" && raw.Nickname != "" {
		existing.Nickname = raw.Nickname
		changed = true
	}
	if existing.DateOfBirth == nil && raw.DateOfBirth != nil {
		existing.DateOfBirth = raw.DateOfBirth
		changed = true
	}
	if existing.Nationality == "" && raw.Nationality != "" {
		existing.Nationality = raw.Nationality
		changed = true
	}
	if existing.Hometown == "" && raw.Hometown != "" {
		existing.Hometown = raw.Hometown
		changed = true
	}
	if existing.HeightCM == nil && raw.HeightCM != nil {
		existing.HeightCM = raw.HeightCM
		changed = true
	}
	if existing.WeightKG == nil && raw.WeightKG != nil {
		existing.WeightKG = raw.WeightKG
		changed = true
	}
	if existing.ReachCM == nil && raw.ReachCM != nil {
		existing.ReachCM = raw.ReachCM
		changed = true
	}
	if existing.Stance == "" && raw.Stance != "" {
		existing.Stance = raw.Stance
		changed = true
	}
	if existing.UFCID == "" && raw.UFCID != "" {
		existing.UFCID = raw.UFCID
		changed = true
	}
	if existing.ESPNID == "" && raw.ESPNID != "" {
		existing.ESPNID = raw.ESPNID
		changed = true
	}

	return changed
}

func (s *ImportService) importEvents(ctx context.Context, raws []source.RawEvent, result *source.ImportResult, state *importState) error {
	for _, raw := range raws {
		check := transform.ValidateEvent(raw, s.now())
		if !check.IsValid() {
			result.AddError(fmt.Sprintf("event %q: %s", raw.Name, check.Errors[0].Error()))
			continue
		}
		raw = transform.NormalizeEvent(raw)

		result.EventsProcessed++
		if _, err := s.upsertEvent(ctx, raw, result, state); err != nil {
			return err
		}
	}

	return nil
}

func (s *ImportService) upsertEvent(ctx context.Context, raw source.RawEvent, result *source.ImportResult, state *importState) (*event.Event, error) {
	key := eventKey(raw.Name, raw.EventDate)

	existing, ok := state.events[key]
	if !ok {
		var err error
		existing, err = s.eventRepo.GetByNameAndDate(ctx, raw.Name, raw.EventDate)
		if err != nil {
			return nil, fmt.Errorf("look up event %q: %w", raw.Name, err)
		}
	}

	if existing != nil {
		if fillEventGaps(existing, raw) {
			existing.UpdatedAt = s.now().UTC()
			if err := s.eventRepo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("update event %q: %w", raw.Name, err)
			}
			result.EventsUpdated++
		}
		state.events[key] = existing
		return existing, nil
	}

	created, err := s.createEvent(ctx, raw)
	if err != nil {
		return nil, err
	}
	result.EventsCreated++
	state.events[key] = created

	return created, nil
}

func (s *ImportService) createEvent(ctx context.Context, raw source.RawEvent) (*event.Event, error) {
	eventID, err := s.idGen.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate event id: %w", err)
	}

	eventType := raw.EventType
	if eventType == "" {
		eventType = eventTypeForName(raw.Name)
	}

	now := s.now().UTC()
	created := &event.Event{
		ID:          eventID,
		Name:        raw.Name,
		EventDate:   raw.EventDate,
		Venue:       raw.Venue,
		City:        raw.City,
		State:       raw.State,
		Country:     raw.Country,
		EventType:   eventType,
		IsCompleted: raw.IsCompleted,
		UFCID:       raw.UFCID,
		ESPNID:      raw.ESPNID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.eventRepo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("create event %q: %w", raw.Name, err)
	}

	return created, nil
}

func fillEventGaps(existing *event.Event, raw source.RawEvent) bool {
	changed := false
	if existing.Venue == "" && raw.Venue != "" {
		existing.Venue = raw.Venue
		changed = true
	}
	if existing.City == "" && raw.City != "" {
		existing.City = raw.City
		changed = true
	}
	if existing.State == "" && raw.State != "" {
		existing.State = raw.State
		changed = true
	}
	if existing.Country == "" && raw.Country != "" {
		existing.Country = raw.Country
		changed = true
	}
	if existing.UFCID == "" && raw.UFCID != "" {
		existing.UFCID = raw.UFCID
		changed = true
	}
	if existing.ESPNID == "" && raw.ESPNID != "" {
		existing.ESPNID = raw.ESPNID
		changed = true
	}
	if !existing.IsCompleted && raw.IsCompleted {
		existing.IsCompleted = true
		changed = true
	}

	return changed
}

func eventTypeForName(name string) string {
	if numberedEventNameRegex.MatchString(strings.TrimSpace(name)) {
		return event.TypeNumbered
	}
	return event.TypeFightNight
}

func (s *ImportService) importFights(ctx context.Context, raws []source.RawFight, result *source.ImportResult, state *importState) error {
	for _, raw := range raws {
		check := transform.ValidateFight(raw)
		if !check.IsValid() {
			result.AddError(fmt.Sprintf("fight %s vs %s: %s", raw.Fighter1Name, raw.Fighter2Name, check.Errors[0].Error()))
			continue
		}
		raw = transform.NormalizeFight(raw)

		result.FightsProcessed++
		if err := s.importFight(ctx, raw, result, state); err != nil {
			return err
		}
	}

	return nil
}

func (s *ImportService) importFight(ctx context.Context, raw source.RawFight, result *source.ImportResult, state *importState) error {
	ev, err := s.resolveFightEvent(ctx, raw, result, state)
	if err != nil {
		return err
	}
	if ev == nil {
		result.AddError(fmt.Sprintf("fight %s vs %s: no resolvable event", raw.Fighter1Name, raw.Fighter2Name))
		return nil
	}

	fighter1, err := s.resolveFightFighter(ctx, raw.Fighter1Name, raw.WeightClass, result, state)
	if err != nil {
		return err
	}
	fighter2, err := s.resolveFightFighter(ctx, raw.Fighter2Name, raw.WeightClass, result, state)
	if err != nil {
		return err
	}
	if fighter1 == nil || fighter2 == nil || fighter1.ID == fighter2.ID {
		result.AddError(fmt.Sprintf("fight %s vs %s: could not resolve both fighters", raw.Fighter1Name, raw.Fighter2Name))
		return nil
	}

	winnerID := s.resolveWinner(raw, fighter1, fighter2, state)

	existing, err := s.fightRepo.GetByEventAndFighters(ctx, ev.ID, fighter1.ID, fighter2.ID)
	if err != nil {
		return fmt.Errorf("look up fight %s vs %s: %w", raw.Fighter1Name, raw.Fighter2Name, err)
	}

	if existing != nil {
		if applyFightResult(existing, raw, winnerID) {
			existing.UpdatedAt = s.now().UTC()
			if err := s.fightRepo.Update(ctx, existing); err != nil {
				return fmt.Errorf("update fight %s vs %s: %w", raw.Fighter1Name, raw.Fighter2Name, err)
			}
			result.FightsUpdated++
		}
		return nil
	}

	fightID, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate fight id: %w", err)
	}

	now := s.now().UTC()
	created := &fight.Fight{
		ID:                 fightID,
		EventID:            ev.ID,
		Fighter1ID:         fighter1.ID,
		Fighter2ID:         fighter2.ID,
		WeightClass:        raw.WeightClass,
		IsTitleFight:       raw.IsTitleFight,
		IsMainEvent:        raw.IsMainEvent,
		ScheduledRounds:    raw.ScheduledRounds,
		FightOrder:         raw.FightOrder,
		WinnerID:           winnerID,
		ResultMethod:       raw.ResultMethod,
		ResultMethodDetail: raw.ResultMethodDetail,
		EndingRound:        raw.EndingRound,
		EndingTime:         raw.EndingTime,
		IsNoContest:        raw.IsNoContest,
		IsDraw:             raw.IsDraw,
		Fighter1Stats:      raw.Fighter1Stats,
		Fighter2Stats:      raw.Fighter2Stats,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.fightRepo.Create(ctx, created); err != nil {
		return fmt.Errorf("create fight %s vs %s: %w", raw.Fighter1Name, raw.Fighter2Name, err)
	}
	result.FightsCreated++

	return nil
}

// resolveFightEvent finds the card a fight belongs to, creating it on the
// fly when the fight carries a name and date the run has not seen. Cards
// created this way are marked completed when the fight has a result, since
// historical sources list fights before their events.
func (s *ImportService) resolveFightEvent(ctx context.Context, raw source.RawFight, result *source.ImportResult, state *importState) (*event.Event, error) {
	if raw.EventName == "" || raw.EventDate == nil {
		return nil, nil
	}

	rawEvent := source.RawEvent{
		Name:        raw.EventName,
		EventDate:   *raw.EventDate,
		Source:      raw.Source,
		IsCompleted: raw.WinnerName != "" || raw.IsDraw || raw.IsNoContest,
	}
	rawEvent = transform.NormalizeEvent(rawEvent)

	return s.upsertEvent(ctx, rawEvent, result, state)
}

// resolveFightFighter finds a fighter by normalized name, creating a
// placeholder record when the roster import never saw them.
func (s *ImportService) resolveFightFighter(ctx context.Context, name, weightClass string, result *source.ImportResult, state *importState) (*fighter.Fighter, error) {
	key := transform.NormalizeName(name)
	if key == "" {
		return nil, nil
	}

	if cached, ok := state.fighters[key]; ok {
		return cached, nil
	}

	existing, err := s.fighterRepo.GetByNormalizedName(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("look up fighter %q: %w", name, err)
	}
	if existing != nil {
		state.fighters[key] = existing
		return existing, nil
	}

	first, last := splitFullName(name)
	created, err := s.createFighter(ctx, source.RawFighter{
		FirstName:   first,
		LastName:    last,
		WeightClass: weightClass,
		IsActive:    true,
	}, key)
	if err != nil {
		return nil, err
	}
	result.FightersCreated++
	state.fighters[key] = created

	return created, nil
}

func (s *ImportService) resolveWinner(raw source.RawFight, fighter1, fighter2 *fighter.Fighter, state *importState) string {
	if raw.WinnerName == "" {
		return ""
	}

	key := transform.NormalizeName(raw.WinnerName)
	switch key {
	case fighter1.NormalizedName:
		return fighter1.ID
	case fighter2.NormalizedName:
		return fighter2.ID
	}
	if cached, ok := state.fighters[key]; ok {
		return cached.ID
	}

	return ""
}

// applyFightResult backfills result and card-position fields onto a stored
// fight. Recorded results are never overwritten.
func applyFightResult(existing *fight.Fight, raw source.RawFight, winnerID string) bool {
	changed := false
	if !existing.IsCompleted() && (winnerID != "" || raw.IsDraw || raw.IsNoContest) {
		existing.WinnerID = winnerID
		existing.ResultMethod = raw.ResultMethod
		existing.ResultMethodDetail = raw.ResultMethodDetail
		existing.EndingRound = raw.EndingRound
		existing.EndingTime = raw.EndingTime
		existing.IsDraw = raw.IsDraw
		existing.IsNoContest = raw.IsNoContest
		changed = true
	}
	if existing.WeightClass == "" && raw.WeightClass != "" {
		existing.WeightClass = raw.WeightClass
		changed = true
	}
	if existing.ScheduledRounds == 0 && raw.ScheduledRounds != 0 {
		existing.ScheduledRounds = raw.ScheduledRounds
		changed = true
	}
	if existing.FightOrder == 0 && raw.FightOrder != 0 {
		existing.FightOrder = raw.FightOrder
		changed = true
	}
	if !existing.IsMainEvent && raw.IsMainEvent {
		existing.IsMainEvent = true
		changed = true
	}
	if !existing.IsTitleFight && raw.IsTitleFight {
		existing.IsTitleFight = true
		changed = true
	}
	if existing.Fighter1Stats == nil && raw.Fighter1Stats != nil {
		existing.Fighter1Stats = raw.Fighter1Stats
		changed = true
	}
	if existing.Fighter2Stats == nil && raw.Fighter2Stats != nil {
		existing.Fighter2Stats = raw.Fighter2Stats
		changed = true
	}

	return changed
}

func splitFullName(name string) (first, last string) {
	fields := strings.Fields(strings.TrimSpace(name))
	if len(fields) == 0 {
		return "", ""
	}
	if len(fields) == 1 {
		return fields[0], ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
