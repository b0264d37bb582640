package predict

import (
	"math"
	"testing"
)

func sampleFeatures(name string) Features {
	return Features{
		FighterID:   name,
		FighterName: name,

		WinRate:        0.5,
		FinishRate:     0.4,
		KORate:         0.25,
		SubmissionRate: 0.15,

		TotalFights:     12,
		ExperienceScore: 0.3,

		StrikingAccuracy:      0.45,
		StrikingDefense:       0.55,
		StrikesPerMin:         3.0,
		StrikesAbsorbedPerMin: 3.0,

		TakedownAccuracy:    0.35,
		TakedownDefense:     0.60,
		TakedownsPer15Min:   1.0,
		SubmissionsPer15Min: 0.5,

		ActivityScore: 0.5,
	}
}

func TestWeightTotals(t *testing.T) {
	profiles := map[string]Weights{
		"default":   DefaultWeights(),
		"striking":  StrikingFocusedWeights(),
		"grappling": GrapplingFocusedWeights(),
	}

	for name, w := range profiles {
		total := w.Total()
		if total < 0.95 || total > 1.05 {
			t.Errorf("%s weights total %v, want within [0.95, 1.05]", name, total)
		}
	}
}

func TestPredictProbabilityBounds(t *testing.T) {
	p := NewPredictor(DefaultWeights())

	strong := sampleFeatures("strong")
	strong.WinRate = 0.95
	strong.FinishRate = 0.8
	strong.KORate = 0.7
	strong.RecentFormScore = 1.0
	strong.WinStreak = 6
	strong.ExperienceScore = 1.0
	strong.TotalFights = 30

	weak := sampleFeatures("weak")
	weak.WinRate = 0.1
	weak.RecentFormScore = -1.0
	weak.LossStreak = 4

	cases := [][2]Features{
		{sampleFeatures("a"), sampleFeatures("b")},
		{strong, weak},
		{weak, strong},
	}

	for _, pair := range cases {
		prediction := p.Predict(pair[0], pair[1], "")
		if prediction.WinProbability < 0.5 || prediction.WinProbability > 1.0 {
			t.Errorf("win probability %v outside [0.5, 1.0]", prediction.WinProbability)
		}
		if prediction.Confidence < 0.0 || prediction.Confidence > 1.0 {
			t.Errorf("confidence %v outside [0.0, 1.0]", prediction.Confidence)
		}
	}
}

func TestPredictSymmetry(t *testing.T) {
	p := NewPredictor(DefaultWeights())

	a := sampleFeatures("a")
	a.WinRate = 0.8
	a.StrikesPerMin = 4.5
	a.WinStreak = 4

	b := sampleFeatures("b")
	b.WinRate = 0.55
	b.TakedownAccuracy = 0.5

	forward := p.Predict(a, b, "")
	reverse := p.Predict(b, a, "")

	if math.Abs(forward.Fighter1Advantage+reverse.Fighter1Advantage) > 1e-9 {
		t.Fatalf("advantage not antisymmetric: %v vs %v",
			forward.Fighter1Advantage, reverse.Fighter1Advantage)
	}
	if forward.PredictedWinnerID != reverse.PredictedWinnerID {
		t.Errorf("winner differs by argument order: %q vs %q",
			forward.PredictedWinnerID, reverse.PredictedWinnerID)
	}
}

func TestPredictEvenMatchup(t *testing.T) {
	p := NewPredictor(DefaultWeights())

	prediction := p.Predict(sampleFeatures("a"), sampleFeatures("b"), "fight-1")

	if prediction.WinProbability != 0.5 {
		t.Errorf("identical fighters should split 50/50, got %v", prediction.WinProbability)
	}
	if prediction.ConfidenceLabel != LabelLow {
		t.Errorf("even matchup confidence label = %q, want Low", prediction.ConfidenceLabel)
	}
	if prediction.FightID != "fight-1" {
		t.Errorf("fight id = %q, want fight-1", prediction.FightID)
	}
}

func TestPredictFactorsAndWarnings(t *testing.T) {
	p := NewPredictor(DefaultWeights())

	veteran := sampleFeatures("Veteran")
	veteran.WinRate = 0.9
	veteran.WinStreak = 5
	reach1 := 200.0
	veteran.ReachCM = &reach1

	novice := sampleFeatures("Novice")
	novice.TotalFights = 2
	novice.WinRate = 0.4
	reach2 := 180.0
	novice.ReachCM = &reach2

	prediction := p.Predict(veteran, novice, "")

	if len(prediction.Factors) == 0 {
		t.Fatal("expected at least one factor for a lopsided matchup")
	}
	if len(prediction.Warnings) != 1 {
		t.Fatalf("warnings = %v, want one limited-history warning", prediction.Warnings)
	}
}

func TestPredictMethod(t *testing.T) {
	cases := []struct {
		name       string
		koRate     float64
		subRate    float64
		finishRate float64
		want       string
	}{
		{"low finish rate", 0.1, 0.1, 0.2, MethodDecision},
		{"knockout heavy", 0.6, 0.1, 0.7, MethodKOTKO},
		{"submission heavy", 0.1, 0.5, 0.6, MethodSubmission},
		{"no clear finisher", 0.2, 0.15, 0.4, MethodDecision},
	}

	for _, tc := range cases {
		f1 := sampleFeatures("a")
		f1.KORate = tc.koRate
		f1.SubmissionRate = tc.subRate
		f1.FinishRate = tc.finishRate
		f2 := f1

		method, prob := predictMethod(f1, f2)
		if method != tc.want {
			t.Errorf("%s: method = %q, want %q", tc.name, method, tc.want)
		}
		if prob <= 0 || prob > 1 {
			t.Errorf("%s: method probability %v outside (0, 1]", tc.name, prob)
		}
	}
}

func TestConfidenceLabel(t *testing.T) {
	cases := []struct {
		confidence float64
		want       string
	}{
		{0.9, LabelHigh},
		{0.7, LabelHigh},
		{0.5, LabelMedium},
		{0.4, LabelMedium},
		{0.1, LabelLow},
	}

	for _, tc := range cases {
		if got := ConfidenceLabel(tc.confidence); got != tc.want {
			t.Errorf("ConfidenceLabel(%v) = %q, want %q", tc.confidence, got, tc.want)
		}
	}
}

func TestConfidenceScorer(t *testing.T) {
	scorer := NewConfidenceScorer()

	measured := sampleFeatures("measured")
	measured.StrikingAccuracy = 0.52
	measured.TakedownDefense = 0.71
	measured.RecentFormScore = 0.4
	measured.TotalFights = 22
	h := 180.0
	r := 185.0
	measured.HeightCM = &h
	measured.ReachCM = &r

	factors := scorer.Score(measured, measured, 0.35)
	if factors.DataQuality != 1.0 {
		t.Errorf("fully measured data quality = %v, want 1.0", factors.DataQuality)
	}
	if factors.ExperienceLevel != 1.0 {
		t.Errorf("experience level = %v, want 1.0", factors.ExperienceLevel)
	}
	if factors.MatchupClarity != 1.0 {
		t.Errorf("matchup clarity = %v, want 1.0", factors.MatchupClarity)
	}

	// Sentinel defaults and missing physicals drag data quality down.
	thin := sampleFeatures("thin")
	thinFactors := scorer.Score(thin, thin, 0.01)
	if thinFactors.DataQuality >= factors.DataQuality {
		t.Errorf("sentinel-valued features should score lower data quality: %v", thinFactors.DataQuality)
	}
	if thinFactors.MatchupClarity != 0.2 {
		t.Errorf("near-even clarity = %v, want 0.2", thinFactors.MatchupClarity)
	}

	overall := factors.Overall()
	if overall < 0 || overall > 1 {
		t.Errorf("overall confidence %v outside [0, 1]", overall)
	}
}
