package source

import (
	"time"
)

const (
	TypeHistorical = "historical"
	TypeESPN       = "espn"
	TypeUFCWeb     = "ufcweb"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RawFighter is a denormalized fighter record as produced by an adapter,
// before validation and normalization.
type RawFighter struct {
	FirstName   string
	LastName    string
	Nickname    string
	DateOfBirth *time.Time
	Nationality string
	Hometown    string
	HeightCM    *float64
	WeightKG    *float64
	ReachCM     *float64
	LegReachCM  *float64
	WeightClass string
	Stance      string
	IsActive    bool

	UFCID  string
	ESPNID string

	Wins       int
	Losses     int
	Draws      int
	NoContests int

	KOWins         int
	SubmissionWins int
	DecisionWins   int

	Source    string
	SourceURL string
	RawData   map[string]any
}

func (f RawFighter) FullName() string {
	if f.FirstName == "" {
		return f.LastName
	}
	if f.LastName == "" {
		return f.FirstName
	}
	return f.FirstName + " " + f.LastName
}

// RawEvent is a denormalized event record from an adapter.
type RawEvent struct {
	Name        string
	EventDate   time.Time
	Venue       string
	City        string
	State       string
	Country     string
	EventType   string
	IsCompleted bool

	UFCID  string
	ESPNID string

	Source    string
	SourceURL string
	RawData   map[string]any
}

const (
	EventTypeNumbered   = "numbered"
	EventTypeFightNight = "fight_night"
)

// RawFight is a denormalized fight record from an adapter. EventDate may be
// zero when the adapter only knows the card, not the schedule.
type RawFight struct {
	Fighter1Name string
	Fighter2Name string
	WeightClass  string

	EventName string
	EventDate *time.Time

	IsTitleFight    bool
	IsMainEvent     bool
	ScheduledRounds int
	FightOrder      int

	WinnerName         string
	ResultMethod       string
	ResultMethodDetail string
	EndingRound        *int
	EndingTime         string
	IsNoContest        bool
	IsDraw             bool

	// Per-fighter numeric stats captured at fight time, used to seed
	// snapshot columns the replay cannot derive on its own.
	Fighter1Stats map[string]float64
	Fighter2Stats map[string]float64

	Source  string
	RawData map[string]any
}

// ImportResult carries run-scoped counters for one adapter run. It is owned
// by the import service and discarded after being reported.
type ImportResult struct {
	Source      string
	StartedAt   time.Time
	CompletedAt *time.Time
	Status      string

	FightersProcessed int
	FightersCreated   int
	FightersUpdated   int

	EventsProcessed int
	EventsCreated   int
	EventsUpdated   int

	FightsProcessed int
	FightsCreated   int
	FightsUpdated   int

	Errors []string
}

func NewImportResult(sourceType string) *ImportResult {
	return &ImportResult{
		Source:    sourceType,
		StartedAt: time.Now().UTC(),
		Status:    StatusRunning,
	}
}

func (r *ImportResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *ImportResult) RecordsProcessed() int {
	return r.FightersProcessed + r.EventsProcessed + r.FightsProcessed
}

func (r *ImportResult) RecordsCreated() int {
	return r.FightersCreated + r.EventsCreated + r.FightsCreated
}

func (r *ImportResult) RecordsUpdated() int {
	return r.FightersUpdated + r.EventsUpdated + r.FightsUpdated
}

func (r *ImportResult) Complete() {
	now := time.Now().UTC()
	r.CompletedAt = &now
	r.Status = StatusCompleted
}

func (r *ImportResult) Fail(msg string) {
	now := time.Now().UTC()
	r.CompletedAt = &now
	r.Status = StatusFailed
	r.AddError(msg)
}
