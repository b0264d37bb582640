// Package snapshot computes and stores point-in-time fighter statistics.
// A snapshot captures a fighter's record as it stood immediately before one
// specific fight, so a prediction for that fight can never see the fight's
// own outcome or anything that happened after it.
package snapshot

import (
	"fmt"
	"time"
)

// Snapshot is the persisted point-in-time statistics for one fighter going
// into one fight. At most one snapshot exists per (fighter, fight) pair.
type Snapshot struct {
	ID           string
	FighterID    string
	FightID      string
	SnapshotDate time.Time

	Wins       int
	Losses     int
	Draws      int
	NoContests int

	KOWins         int
	SubmissionWins int
	DecisionWins   int

	KOLosses         int
	SubmissionLosses int
	DecisionLosses   int

	WinStreak        int
	LossStreak       int
	LongestWinStreak int

	// Rates over wins only, expressed 0-100 with one decimal.
	FinishRate     *float64
	KORate         *float64
	SubmissionRate *float64
	WinPercentage  *float64

	TitleFightWins   int
	TitleFightLosses int

	// Career averages up to this point, derived from per-bout stat maps
	// when the source recorded them.
	StrikingAccuracy      *float64
	StrikesLandedPerMin   *float64
	StrikesAbsorbedPerMin *float64
	StrikeDefense         *float64
	TakedownAccuracy      *float64
	TakedownAvgPer15Min   *float64
	TakedownDefense       *float64
	SubmissionAvgPer15Min *float64

	AvgFightTimeSeconds *int
	FightsInWeightClass int

	// RecentForm is the last five decided results oldest-first, e.g. "WLWWW".
	RecentForm         string
	RecentWins         int
	RecentLosses       int
	DaysSinceLastFight *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Snapshot) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("snapshot id is required")
	}
	if s.FighterID == "" {
		return fmt.Errorf("snapshot fighter id is required")
	}
	if s.FightID == "" {
		return fmt.Errorf("snapshot fight id is required")
	}
	if s.SnapshotDate.IsZero() {
		return fmt.Errorf("snapshot date is required")
	}

	return nil
}

func (s Snapshot) TotalFights() int {
	return s.Wins + s.Losses + s.Draws + s.NoContests
}

func (s Snapshot) Record() string {
	if s.Draws > 0 {
		return fmt.Sprintf("%d-%d-%d", s.Wins, s.Losses, s.Draws)
	}
	return fmt.Sprintf("%d-%d", s.Wins, s.Losses)
}

// StrikeDifferential is strikes landed minus absorbed per minute, or nil
// when either side of the pair is unknown.
func (s Snapshot) StrikeDifferential() *float64 {
	if s.StrikesLandedPerMin == nil || s.StrikesAbsorbedPerMin == nil {
		return nil
	}
	diff := *s.StrikesLandedPerMin - *s.StrikesAbsorbedPerMin
	return &diff
}
