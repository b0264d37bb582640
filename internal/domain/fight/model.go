package fight

import (
	"fmt"
	"time"
)

const (
	MethodKOTKO      = "KO/TKO"
	MethodSubmission = "Submission"
	MethodDecision   = "Decision"
)

// Outcome of a completed fight from one fighter's perspective.
const (
	OutcomeWin       = "win"
	OutcomeLoss      = "loss"
	OutcomeDraw      = "draw"
	OutcomeNoContest = "no_contest"
)

// Fight is one bout on a card. A fight with no winner, draw or no contest
// flag is still scheduled.
type Fight struct {
	ID         string
	EventID    string
	Fighter1ID string
	Fighter2ID string

	WeightClass     string
	IsTitleFight    bool
	IsMainEvent     bool
	ScheduledRounds int
	FightOrder      int

	WinnerID           string
	ResultMethod       string
	ResultMethodDetail string
	EndingRound        *int
	EndingTime         string
	IsNoContest        bool
	IsDraw             bool

	// Per-fighter numeric stats recorded for the bout, keyed by stat name
	// (significant strikes landed, takedowns, control seconds and so on).
	Fighter1Stats map[string]float64
	Fighter2Stats map[string]float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (f Fight) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("fight id is required")
	}
	if f.EventID == "" {
		return fmt.Errorf("fight event id is required")
	}
	if f.Fighter1ID == "" || f.Fighter2ID == "" {
		return fmt.Errorf("fight requires both fighters")
	}
	if f.Fighter1ID == f.Fighter2ID {
		return fmt.Errorf("fight cannot pair a fighter with themselves")
	}

	return nil
}

// IsCompleted reports whether the bout has a recorded result.
func (f Fight) IsCompleted() bool {
	return f.WinnerID != "" || f.IsDraw || f.IsNoContest
}

// OutcomeFor maps the recorded result to the given fighter's perspective.
// It returns an empty string for a fighter not in the bout or a bout with
// no result yet.
func (f Fight) OutcomeFor(fighterID string) string {
	if fighterID != f.Fighter1ID && fighterID != f.Fighter2ID {
		return ""
	}
	switch {
	case f.IsNoContest:
		return OutcomeNoContest
	case f.IsDraw:
		return OutcomeDraw
	case f.WinnerID == fighterID:
		return OutcomeWin
	case f.WinnerID != "":
		return OutcomeLoss
	}
	return ""
}

// OpponentID returns the other fighter in the bout, or an empty string when
// the given fighter is not in it.
func (f Fight) OpponentID(fighterID string) string {
	switch fighterID {
	case f.Fighter1ID:
		return f.Fighter2ID
	case f.Fighter2ID:
		return f.Fighter1ID
	}
	return ""
}

// Detail is a fight joined with its card date, as returned by history
// queries that replay a fighter's record chronologically.
type Detail struct {
	Fight
	EventDate time.Time
}

// StatsFor returns the recorded bout stats for the given fighter.
func (f Fight) StatsFor(fighterID string) map[string]float64 {
	switch fighterID {
	case f.Fighter1ID:
		return f.Fighter1Stats
	case f.Fighter2ID:
		return f.Fighter2Stats
	}
	return nil
}
