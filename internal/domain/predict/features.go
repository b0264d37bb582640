// Package predict turns fighter snapshots into explainable win predictions.
// The predictor is a fixed weighted formula, not a trained model: every
// number it produces can be traced back to a feature difference and a
// configured weight.
package predict

import (
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	"github.com/prasetyowira/fightcast/internal/domain/snapshot"
)

// Sentinel defaults stand in for stats the sources never recorded. They
// approximate a typical fighter and also let the confidence scorer spot
// thin data by exact comparison.
const (
	DefaultStrikingAccuracy  = 0.45
	DefaultStrikingDefense   = 0.55
	DefaultStrikesPerMin     = 3.0
	DefaultStrikesAbsorbed   = 3.0
	DefaultTakedownAccuracy  = 0.35
	DefaultTakedownDefense   = 0.60
	DefaultTakedownsPer15Min = 1.0
	DefaultSubsPer15Min      = 0.5
)

const (
	maxFightsForExperience = 40
	maxDaysForActivity     = 730
)

// Features is the normalized 0-1 feature vector for one fighter, consumed
// only within a single prediction call.
type Features struct {
	FighterID   string
	FighterName string

	WinRate        float64
	FinishRate     float64
	KORate         float64
	SubmissionRate float64

	TotalFights     int
	ExperienceScore float64

	StrikingAccuracy      float64
	StrikingDefense       float64
	StrikesPerMin         float64
	StrikesAbsorbedPerMin float64
	StrikeDifferential    float64

	TakedownAccuracy    float64
	TakedownDefense     float64
	TakedownsPer15Min   float64
	SubmissionsPer15Min float64

	WinStreak       int
	LossStreak      int
	RecentFormScore float64
	DaysSinceFight  *int
	ActivityScore   float64

	HeightCM *float64
	ReachCM  *float64
	AgeYears *float64
}

// Extractor builds feature vectors from snapshots, or from bare fighter
// records when no snapshot exists.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// FromSnapshot extracts a full feature vector. The fighter supplies the
// static physical attributes.
func (e *Extractor) FromSnapshot(snap *snapshot.Snapshot, f *fighter.Fighter) Features {
	totalFights := snap.Wins + snap.Losses + snap.Draws

	winRate := 0.5
	if totalFights > 0 {
		winRate = float64(snap.Wins) / float64(totalFights)
	}

	features := Features{
		FighterID:   snap.FighterID,
		FighterName: f.FullName(),

		WinRate:        winRate,
		FinishRate:     rateOrDefault(snap.FinishRate, 0) / 100,
		KORate:         rateOrDefault(snap.KORate, 0) / 100,
		SubmissionRate: rateOrDefault(snap.SubmissionRate, 0) / 100,

		TotalFights:     totalFights,
		ExperienceScore: min(1.0, float64(totalFights)/maxFightsForExperience),

		StrikingAccuracy:      rateOrDefault(snap.StrikingAccuracy, DefaultStrikingAccuracy*100) / 100,
		StrikingDefense:       rateOrDefault(snap.StrikeDefense, DefaultStrikingDefense*100) / 100,
		StrikesPerMin:         rateOrDefault(snap.StrikesLandedPerMin, DefaultStrikesPerMin),
		StrikesAbsorbedPerMin: rateOrDefault(snap.StrikesAbsorbedPerMin, DefaultStrikesAbsorbed),

		TakedownAccuracy:    rateOrDefault(snap.TakedownAccuracy, DefaultTakedownAccuracy*100) / 100,
		TakedownDefense:     rateOrDefault(snap.TakedownDefense, DefaultTakedownDefense*100) / 100,
		TakedownsPer15Min:   rateOrDefault(snap.TakedownAvgPer15Min, DefaultTakedownsPer15Min),
		SubmissionsPer15Min: rateOrDefault(snap.SubmissionAvgPer15Min, DefaultSubsPer15Min),

		WinStreak:       snap.WinStreak,
		LossStreak:      snap.LossStreak,
		RecentFormScore: FormScore(snap.RecentForm),
		DaysSinceFight:  snap.DaysSinceLastFight,

		HeightCM: f.HeightCM,
		ReachCM:  f.ReachCM,
		AgeYears: ageAt(f.DateOfBirth, snap.SnapshotDate),
	}

	features.StrikeDifferential = features.StrikesPerMin - features.StrikesAbsorbedPerMin

	if snap.DaysSinceLastFight != nil {
		features.ActivityScore = max(0.0, 1.0-float64(*snap.DaysSinceLastFight)/maxDaysForActivity)
	} else {
		features.ActivityScore = 0.5
	}

	return features
}

// FromFighter extracts the degraded feature vector used when no snapshot
// exists, based only on the fighter's career counters.
func (e *Extractor) FromFighter(f *fighter.Fighter) Features {
	totalFights := f.Wins + f.Losses

	winRate := 0.5
	if totalFights > 0 {
		winRate = float64(f.Wins) / float64(totalFights)
	}

	return Features{
		FighterID:       f.ID,
		FighterName:     f.FullName(),
		WinRate:         winRate,
		TotalFights:     totalFights,
		ExperienceScore: min(1.0, float64(totalFights)/maxFightsForExperience),
		HeightCM:        f.HeightCM,
		ReachCM:         f.ReachCM,
	}
}

// Weights for the last five results, most recent first. Results past the
// fifth carry a flat residual weight.
var formWeights = [5]float64{0.35, 0.25, 0.20, 0.12, 0.08}

const overflowFormWeight = 0.05

// FormScore converts a result string like "WLWWW" (oldest first) into a
// signed score, +weight per win and -weight per loss, front-loaded toward
// the most recent result.
func FormScore(recentForm string) float64 {
	if recentForm == "" {
		return 0
	}

	score := 0.0
	runes := []rune(recentForm)
	for i := len(runes) - 1; i >= 0; i-- {
		pos := len(runes) - 1 - i
		weight := overflowFormWeight
		if pos < len(formWeights) {
			weight = formWeights[pos]
		}
		switch runes[i] {
		case 'W', 'w':
			score += weight
		case 'L', 'l':
			score -= weight
		}
	}

	return score
}

func rateOrDefault(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func ageAt(dob *time.Time, at time.Time) *float64 {
	if dob == nil || at.IsZero() {
		return nil
	}

	years := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		years--
	}
	age := float64(years)
	return &age
}
