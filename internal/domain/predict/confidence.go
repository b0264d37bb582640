package predict

// ConfidenceFactors is the diagnostic breakdown produced by the standalone
// scorer. It is informational and independent of the confidence value the
// predictor itself reports.
type ConfidenceFactors struct {
	DataQuality        float64
	ExperienceLevel    float64
	MatchupClarity     float64
	HistoricalAccuracy float64
}

// Overall combines the factors with fixed weights. The historical accuracy
// term is a static baseline until recorded predictions feed it.
func (c ConfidenceFactors) Overall() float64 {
	return c.DataQuality*0.3 +
		c.ExperienceLevel*0.25 +
		c.MatchupClarity*0.35 +
		c.HistoricalAccuracy*0.1
}

// ConfidenceScorer independently assesses data quality, experience and
// advantage clarity for richer diagnostics.
type ConfidenceScorer struct{}

func NewConfidenceScorer() *ConfidenceScorer {
	return &ConfidenceScorer{}
}

func (s *ConfidenceScorer) Score(f1, f2 Features, advantageMagnitude float64) ConfidenceFactors {
	return ConfidenceFactors{
		DataQuality:        assessDataQuality(f1, f2),
		ExperienceLevel:    assessExperience(f1, f2),
		MatchupClarity:     assessClarity(advantageMagnitude),
		HistoricalAccuracy: 0.55,
	}
}

func assessDataQuality(f1, f2 Features) float64 {
	score := 1.0

	if f1.HeightCM == nil || f2.HeightCM == nil {
		score -= 0.1
	}
	if f1.ReachCM == nil || f2.ReachCM == nil {
		score -= 0.1
	}

	// Exact equality to a sentinel default means the stat was never
	// measured for at least one fighter.
	if f1.StrikingAccuracy == DefaultStrikingAccuracy || f2.StrikingAccuracy == DefaultStrikingAccuracy {
		score -= 0.15
	}
	if f1.TakedownDefense == DefaultTakedownDefense || f2.TakedownDefense == DefaultTakedownDefense {
		score -= 0.1
	}

	if f1.RecentFormScore == 0 && f2.RecentFormScore == 0 {
		score -= 0.1
	}

	return max(0.0, score)
}

func assessExperience(f1, f2 Features) float64 {
	minFights := min(f1.TotalFights, f2.TotalFights)

	switch {
	case minFights >= 20:
		return 1.0
	case minFights >= 15:
		return 0.9
	case minFights >= 10:
		return 0.75
	case minFights >= 5:
		return 0.5
	case minFights >= 3:
		return 0.3
	default:
		return 0.1
	}
}

func assessClarity(advantageMagnitude float64) float64 {
	switch {
	case advantageMagnitude >= 0.3:
		return 1.0
	case advantageMagnitude >= 0.2:
		return 0.8
	case advantageMagnitude >= 0.1:
		return 0.6
	case advantageMagnitude >= 0.05:
		return 0.4
	default:
		return 0.2
	}
}
