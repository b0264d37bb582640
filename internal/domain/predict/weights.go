package predict

// Weights configures the rule-based predictor. All fifteen weights should
// sum to approximately 1.0 so category contributions stay interpretable.
type Weights struct {
	// Record and experience (25%)
	WinRate    float64
	Experience float64
	FinishRate float64

	// Striking (25%)
	StrikingAccuracy   float64
	StrikingDefense    float64
	StrikeDifferential float64

	// Grappling (20%)
	TakedownAccuracy float64
	TakedownDefense  float64
	GrapplingOffense float64

	// Form and momentum (20%)
	RecentForm float64
	WinStreak  float64
	Activity   float64

	// Physical attributes (10%)
	ReachAdvantage  float64
	HeightAdvantage float64
	AgeAdvantage    float64
}

func DefaultWeights() Weights {
	return Weights{
		WinRate:    0.12,
		Experience: 0.08,
		FinishRate: 0.05,

		StrikingAccuracy:   0.08,
		StrikingDefense:    0.07,
		StrikeDifferential: 0.10,

		TakedownAccuracy: 0.06,
		TakedownDefense:  0.07,
		GrapplingOffense: 0.07,

		RecentForm: 0.10,
		WinStreak:  0.05,
		Activity:   0.05,

		ReachAdvantage:  0.05,
		HeightAdvantage: 0.03,
		AgeAdvantage:    0.02,
	}
}

// StrikingFocusedWeights shifts weight from grappling to striking stats.
func StrikingFocusedWeights() Weights {
	w := DefaultWeights()
	w.StrikingAccuracy = 0.12
	w.StrikingDefense = 0.10
	w.StrikeDifferential = 0.15
	w.TakedownAccuracy = 0.04
	w.TakedownDefense = 0.05
	w.GrapplingOffense = 0.04
	return w
}

// GrapplingFocusedWeights shifts weight from striking to grappling stats.
func GrapplingFocusedWeights() Weights {
	w := DefaultWeights()
	w.StrikingAccuracy = 0.05
	w.StrikingDefense = 0.05
	w.StrikeDifferential = 0.05
	w.TakedownAccuracy = 0.10
	w.TakedownDefense = 0.12
	w.GrapplingOffense = 0.13
	return w
}

// ProfileWeights resolves a named weight profile, defaulting to the
// balanced profile for unknown names.
func ProfileWeights(profile string) Weights {
	switch profile {
	case "striking":
		return StrikingFocusedWeights()
	case "grappling":
		return GrapplingFocusedWeights()
	default:
		return DefaultWeights()
	}
}

func (w Weights) Total() float64 {
	return w.WinRate + w.Experience + w.FinishRate +
		w.StrikingAccuracy + w.StrikingDefense + w.StrikeDifferential +
		w.TakedownAccuracy + w.TakedownDefense + w.GrapplingOffense +
		w.RecentForm + w.WinStreak + w.Activity +
		w.ReachAdvantage + w.HeightAdvantage + w.AgeAdvantage
}
