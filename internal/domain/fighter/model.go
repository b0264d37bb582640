package fighter

import (
	"fmt"
	"time"
)

const (
	StanceOrthodox = "Orthodox"
	StanceSouthpaw = "Southpaw"
	StanceSwitch   = "Switch"
)

// Fighter is one athlete in the roster. NormalizedName is the lookup key
// used to reconcile records arriving from different sources.
type Fighter struct {
	ID             string
	FirstName      string
	LastName       string
	NormalizedName string
	Nickname       string
	DateOfBirth    *time.Time
	Nationality    string
	Hometown       string

	HeightCM   *float64
	WeightKG   *float64
	ReachCM    *float64
	LegReachCM *float64

	WeightClass string
	Stance      string
	IsActive    bool

	Wins       int
	Losses     int
	Draws      int
	NoContests int

	KOWins         int
	SubmissionWins int
	DecisionWins   int

	UFCID  string
	ESPNID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (f Fighter) FullName() string {
	if f.FirstName == "" {
		return f.LastName
	}
	if f.LastName == "" {
		return f.FirstName
	}
	return f.FirstName + " " + f.LastName
}

// Record renders the professional record in the usual W-L-D form, with the
// no contest count appended when present.
func (f Fighter) Record() string {
	record := fmt.Sprintf("%d-%d-%d", f.Wins, f.Losses, f.Draws)
	if f.NoContests > 0 {
		record = fmt.Sprintf("%s (%d NC)", record, f.NoContests)
	}
	return record
}

func (f Fighter) TotalFights() int {
	return f.Wins + f.Losses + f.Draws + f.NoContests
}

func (f Fighter) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("fighter id is required")
	}
	if f.FirstName == "" && f.LastName == "" {
		return fmt.Errorf("fighter name is required")
	}
	if f.NormalizedName == "" {
		return fmt.Errorf("fighter normalized name is required")
	}

	return nil
}
