package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/event"
	"github.com/prasetyowira/fightcast/internal/domain/fight"
	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	"github.com/prasetyowira/fightcast/internal/domain/snapshot"
)

func (h *Handler) ListFighters(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFighters")
	defer span.End()

	fighters, err := h.rosterService.ListFighters(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list fighters failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fighterDTO, 0, len(fighters))
	for _, f := range fighters {
		items = append(items, fighterToDTO(ctx, f))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetFighter(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFighter")
	defer span.End()

	fighterID := r.PathValue("fighterID")
	f, err := h.rosterService.GetFighter(ctx, fighterID)
	if err != nil {
		h.logger.WarnContext(ctx, "get fighter failed", "fighter_id", fighterID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fighterToDTO(ctx, *f))
}

func (h *Handler) GetFighterHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFighterHistory")
	defer span.End()

	fighterID := r.PathValue("fighterID")
	history, err := h.rosterService.FighterHistory(ctx, fighterID)
	if err != nil {
		h.logger.WarnContext(ctx, "get fighter history failed", "fighter_id", fighterID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fightDetailDTO, 0, len(history))
	for _, d := range history {
		items = append(items, fightDetailToDTO(ctx, d))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListFighterSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFighterSnapshots")
	defer span.End()

	fighterID := r.PathValue("fighterID")
	snapshots, err := h.rosterService.FighterSnapshots(ctx, fighterID)
	if err != nil {
		h.logger.WarnContext(ctx, "list fighter snapshots failed", "fighter_id", fighterID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]snapshotDTO, 0, len(snapshots))
	for _, s := range snapshots {
		items = append(items, snapshotToDTO(ctx, s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingEvents")
	defer span.End()

	events, err := h.rosterService.UpcomingEvents(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list upcoming events failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		items = append(items, eventToDTO(ctx, ev))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEvent")
	defer span.End()

	eventID := r.PathValue("eventID")
	ev, err := h.rosterService.GetEvent(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "get event failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventToDTO(ctx, *ev))
}

func (h *Handler) ListEventFights(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventFights")
	defer span.End()

	eventID := r.PathValue("eventID")
	fights, err := h.rosterService.EventFights(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "list event fights failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fightDTO, 0, len(fights))
	for _, bout := range fights {
		items = append(items, fightToDTO(ctx, bout))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListFightSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFightSnapshots")
	defer span.End()

	fightID := r.PathValue("fightID")
	snapshots, err := h.rosterService.FightSnapshots(ctx, fightID)
	if err != nil {
		h.logger.WarnContext(ctx, "list fight snapshots failed", "fight_id", fightID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]snapshotDTO, 0, len(snapshots))
	for _, s := range snapshots {
		items = append(items, snapshotToDTO(ctx, s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type fighterDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Nickname    string   `json:"nickname,omitempty"`
	Record      string   `json:"record"`
	WeightClass string   `json:"weightClass,omitempty"`
	Stance      string   `json:"stance,omitempty"`
	Nationality string   `json:"nationality,omitempty"`
	HeightCM    *float64 `json:"heightCm,omitempty"`
	ReachCM     *float64 `json:"reachCm,omitempty"`
	IsActive    bool     `json:"isActive"`
	Wins        int      `json:"wins"`
	Losses      int      `json:"losses"`
	Draws       int      `json:"draws"`
	KOWins      int      `json:"koWins"`
	SubWins     int      `json:"submissionWins"`
}

type eventDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	EventDate   string `json:"eventDate"`
	Venue       string `json:"venue,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	EventType   string `json:"eventType"`
	IsCompleted bool   `json:"isCompleted"`
}

type fightDTO struct {
	ID              string `json:"id"`
	EventID         string `json:"eventId"`
	Fighter1ID      string `json:"fighter1Id"`
	Fighter2ID      string `json:"fighter2Id"`
	WeightClass     string `json:"weightClass,omitempty"`
	IsTitleFight    bool   `json:"isTitleFight"`
	IsMainEvent     bool   `json:"isMainEvent"`
	ScheduledRounds int    `json:"scheduledRounds"`
	FightOrder      int    `json:"fightOrder"`
	IsCompleted     bool   `json:"isCompleted"`
	WinnerID        string `json:"winnerId,omitempty"`
	ResultMethod    string `json:"resultMethod,omitempty"`
	EndingRound     *int   `json:"endingRound,omitempty"`
	EndingTime      string `json:"endingTime,omitempty"`
	IsDraw          bool   `json:"isDraw,omitempty"`
	IsNoContest     bool   `json:"isNoContest,omitempty"`
}

type fightDetailDTO struct {
	fightDTO
	EventDate string `json:"eventDate"`
}

type snapshotDTO struct {
	ID           string `json:"id"`
	FighterID    string `json:"fighterId"`
	FightID      string `json:"fightId"`
	SnapshotDate string `json:"snapshotDate"`

	Record      string `json:"record"`
	TotalFights int    `json:"totalFights"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Draws       int    `json:"draws"`
	NoContests  int    `json:"noContests"`

	KOWins         int `json:"koWins"`
	SubmissionWins int `json:"submissionWins"`
	DecisionWins   int `json:"decisionWins"`
	KOLosses       int `json:"koLosses"`

	WinStreak        int `json:"winStreak"`
	LossStreak       int `json:"lossStreak"`
	LongestWinStreak int `json:"longestWinStreak"`

	FinishRate    *float64 `json:"finishRate,omitempty"`
	WinPercentage *float64 `json:"winPercentage,omitempty"`

	StrikingAccuracy    *float64 `json:"strikingAccuracy,omitempty"`
	StrikesLandedPerMin *float64 `json:"strikesLandedPerMin,omitempty"`
	TakedownAccuracy    *float64 `json:"takedownAccuracy,omitempty"`
	TakedownDefense     *float64 `json:"takedownDefense,omitempty"`

	RecentForm         string `json:"recentForm,omitempty"`
	DaysSinceLastFight *int   `json:"daysSinceLastFight,omitempty"`
}

func fighterToDTO(ctx context.Context, f fighter.Fighter) fighterDTO {
	ctx, span := startSpan(ctx, "httpapi.fighterToDTO")
	defer span.End()

	return fighterDTO{
		ID:          f.ID,
		Name:        f.FullName(),
		Nickname:    f.Nickname,
		Record:      f.Record(),
		WeightClass: f.WeightClass,
		Stance:      f.Stance,
		Nationality: f.Nationality,
		HeightCM:    f.HeightCM,
		ReachCM:     f.ReachCM,
		IsActive:    f.IsActive,
		Wins:        f.Wins,
		Losses:      f.Losses,
		Draws:       f.Draws,
		KOWins:      f.KOWins,
		SubWins:     f.SubmissionWins,
	}
}

func eventToDTO(ctx context.Context, ev event.Event) eventDTO {
	ctx, span := startSpan(ctx, "httpapi.eventToDTO")
	defer span.End()

	return eventDTO{
		ID:          ev.ID,
		Name:        ev.Name,
		EventDate:   ev.EventDate.UTC().Format(time.RFC3339),
		Venue:       ev.Venue,
		City:        ev.City,
		Country:     ev.Country,
		EventType:   ev.EventType,
		IsCompleted: ev.IsCompleted,
	}
}

func fightToDTO(ctx context.Context, bout fight.Fight) fightDTO {
	ctx, span := startSpan(ctx, "httpapi.fightToDTO")
	defer span.End()

	return fightDTO{
		ID:              bout.ID,
		EventID:         bout.EventID,
		Fighter1ID:      bout.Fighter1ID,
		Fighter2ID:      bout.Fighter2ID,
		WeightClass:     bout.WeightClass,
		IsTitleFight:    bout.IsTitleFight,
		IsMainEvent:     bout.IsMainEvent,
		ScheduledRounds: bout.ScheduledRounds,
		FightOrder:      bout.FightOrder,
		IsCompleted:     bout.IsCompleted(),
		WinnerID:        bout.WinnerID,
		ResultMethod:    bout.ResultMethod,
		EndingRound:     bout.EndingRound,
		EndingTime:      bout.EndingTime,
		IsDraw:          bout.IsDraw,
		IsNoContest:     bout.IsNoContest,
	}
}

func fightDetailToDTO(ctx context.Context, d fight.Detail) fightDetailDTO {
	return fightDetailDTO{
		fightDTO:  fightToDTO(ctx, d.Fight),
		EventDate: d.EventDate.UTC().Format(time.RFC3339),
	}
}

func snapshotToDTO(ctx context.Context, s snapshot.Snapshot) snapshotDTO {
	ctx, span := startSpan(ctx, "httpapi.snapshotToDTO")
	defer span.End()

	return snapshotDTO{
		ID:           s.ID,
		FighterID:    s.FighterID,
		FightID:      s.FightID,
		SnapshotDate: s.SnapshotDate.UTC().Format(time.RFC3339),

		Record:      s.Record(),
		TotalFights: s.TotalFights(),
		Wins:        s.Wins,
		Losses:      s.Losses,
		Draws:       s.Draws,
		NoContests:  s.NoContests,

		KOWins:         s.KOWins,
		SubmissionWins: s.SubmissionWins,
		DecisionWins:   s.DecisionWins,
		KOLosses:       s.KOLosses,

		WinStreak:        s.WinStreak,
		LossStreak:       s.LossStreak,
		LongestWinStreak: s.LongestWinStreak,

		FinishRate:    s.FinishRate,
		WinPercentage: s.WinPercentage,

		StrikingAccuracy:    s.StrikingAccuracy,
		StrikesLandedPerMin: s.StrikesLandedPerMin,
		TakedownAccuracy:    s.TakedownAccuracy,
		TakedownDefense:     s.TakedownDefense,

		RecentForm:         s.RecentForm,
		DaysSinceLastFight: s.DaysSinceLastFight,
	}
}
