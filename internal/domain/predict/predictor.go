package predict

import (
	"fmt"
	"math"
)

const (
	MethodKOTKO      = "KO/TKO"
	MethodSubmission = "Submission"
	MethodDecision   = "Decision"
)

const (
	LabelHigh   = "High"
	LabelMedium = "Medium"
	LabelLow    = "Low"
)

// Breakdown decomposes the signed advantage by category. Positive values
// favor fighter 1.
type Breakdown struct {
	Record    float64
	Striking  float64
	Grappling float64
	Form      float64
	Physical  float64
}

func (b Breakdown) Total() float64 {
	return b.Record + b.Striking + b.Grappling + b.Form + b.Physical
}

// Prediction is the ephemeral output of one prediction call.
type Prediction struct {
	FightID string

	Fighter1ID   string
	Fighter2ID   string
	Fighter1Name string
	Fighter2Name string

	PredictedWinnerID   string
	PredictedWinnerName string
	// WinProbability is for the predicted winner, so always in [0.5, 1.0].
	WinProbability float64

	Confidence      float64
	ConfidenceLabel string

	// Fighter1Advantage is the signed total, negative when fighter 2 is
	// favored.
	Fighter1Advantage float64
	Breakdown         Breakdown

	PredictedMethod   string
	MethodProbability float64

	Factors  []string
	Warnings []string
}

// Predictor scores a matchup with a fixed weighted formula.
type Predictor struct {
	weights Weights
}

func NewPredictor(weights Weights) *Predictor {
	return &Predictor{weights: weights}
}

func (p *Predictor) Predict(fighter1, fighter2 Features, fightID string) Prediction {
	var factors, warnings []string

	if fighter1.TotalFights < 3 {
		warnings = append(warnings, fmt.Sprintf("%s has limited fight history", fighter1.FighterName))
	}
	if fighter2.TotalFights < 3 {
		warnings = append(warnings, fmt.Sprintf("%s has limited fight history", fighter2.FighterName))
	}

	breakdown := p.advantages(fighter1, fighter2, &factors)
	totalAdvantage := breakdown.Total()
	winProbability := advantageToProbability(totalAdvantage)

	winnerID := fighter1.FighterID
	winnerName := fighter1.FighterName
	winnerProb := winProbability
	if totalAdvantage < 0 {
		winnerID = fighter2.FighterID
		winnerName = fighter2.FighterName
		winnerProb = 1.0 - winProbability
	}

	confidence := p.confidence(fighter1, fighter2, math.Abs(totalAdvantage))
	method, methodProb := predictMethod(fighter1, fighter2)

	return Prediction{
		FightID:             fightID,
		Fighter1ID:          fighter1.FighterID,
		Fighter2ID:          fighter2.FighterID,
		Fighter1Name:        fighter1.FighterName,
		Fighter2Name:        fighter2.FighterName,
		PredictedWinnerID:   winnerID,
		PredictedWinnerName: winnerName,
		WinProbability:      winnerProb,
		Confidence:          confidence,
		ConfidenceLabel:     ConfidenceLabel(confidence),
		Fighter1Advantage:   totalAdvantage,
		Breakdown:           breakdown,
		PredictedMethod:     method,
		MethodProbability:   methodProb,
		Factors:             factors,
		Warnings:            warnings,
	}
}

func (p *Predictor) advantages(f1, f2 Features, factors *[]string) Breakdown {
	w := p.weights

	winRateAdv := (f1.WinRate - f2.WinRate) * w.WinRate
	expAdv := (f1.ExperienceScore - f2.ExperienceScore) * w.Experience
	finishAdv := (f1.FinishRate - f2.FinishRate) * w.FinishRate
	recordTotal := winRateAdv + expAdv + finishAdv

	if math.Abs(winRateAdv) > 0.02 {
		*factors = append(*factors, fmt.Sprintf("%s has better win rate", favored(winRateAdv, f1, f2)))
	}

	accAdv := (f1.StrikingAccuracy - f2.StrikingAccuracy) * w.StrikingAccuracy
	defAdv := (f1.StrikingDefense - f2.StrikingDefense) * w.StrikingDefense
	// Differentials are scaled to roughly the -1 to 1 range before the
	// weight is applied.
	diffAdv := (f1.StrikeDifferential - f2.StrikeDifferential) / 5.0 * w.StrikeDifferential
	strikingTotal := accAdv + defAdv + diffAdv

	if math.Abs(strikingTotal) > 0.03 {
		*factors = append(*factors, fmt.Sprintf("%s has striking advantage", favored(strikingTotal, f1, f2)))
	}

	tdAccAdv := (f1.TakedownAccuracy - f2.TakedownAccuracy) * w.TakedownAccuracy
	tdDefAdv := (f1.TakedownDefense - f2.TakedownDefense) * w.TakedownDefense
	grapOff := ((f1.TakedownsPer15Min + f1.SubmissionsPer15Min) -
		(f2.TakedownsPer15Min + f2.SubmissionsPer15Min)) / 10.0 * w.GrapplingOffense
	grapplingTotal := tdAccAdv + tdDefAdv + grapOff

	if math.Abs(grapplingTotal) > 0.03 {
		*factors = append(*factors, fmt.Sprintf("%s has grappling advantage", favored(grapplingTotal, f1, f2)))
	}

	formAdv := (f1.RecentFormScore - f2.RecentFormScore) * w.RecentForm
	streakAdv := streakAdvantage(f1, f2) * w.WinStreak
	activityAdv := (f1.ActivityScore - f2.ActivityScore) * w.Activity
	formTotal := formAdv + streakAdv + activityAdv

	if f1.WinStreak >= 3 {
		*factors = append(*factors, fmt.Sprintf("%s on %d-fight win streak", f1.FighterName, f1.WinStreak))
	} else if f2.WinStreak >= 3 {
		*factors = append(*factors, fmt.Sprintf("%s on %d-fight win streak", f2.FighterName, f2.WinStreak))
	}

	reachAdv := physicalAdvantage(f1.ReachCM, f2.ReachCM, 10.0) * w.ReachAdvantage
	heightAdv := physicalAdvantage(f1.HeightCM, f2.HeightCM, 15.0) * w.HeightAdvantage
	ageAdv := ageAdvantage(f1.AgeYears, f2.AgeYears) * w.AgeAdvantage
	physicalTotal := reachAdv + heightAdv + ageAdv

	if f1.ReachCM != nil && f2.ReachCM != nil {
		diff := *f1.ReachCM - *f2.ReachCM
		if math.Abs(diff) >= 10 {
			*factors = append(*factors, fmt.Sprintf("%s has significant reach advantage", favored(diff, f1, f2)))
		}
	}

	return Breakdown{
		Record:    recordTotal,
		Striking:  strikingTotal,
		Grappling: grapplingTotal,
		Form:      formTotal,
		Physical:  physicalTotal,
	}
}

func favored(advantage float64, f1, f2 Features) string {
	if advantage > 0 {
		return f1.FighterName
	}
	return f2.FighterName
}

func streakAdvantage(f1, f2 Features) float64 {
	f1Streak := f1.WinStreak - f1.LossStreak
	f2Streak := f2.WinStreak - f2.LossStreak
	return float64(f1Streak-f2Streak) / 6.0
}

func physicalAdvantage(val1, val2 *float64, scale float64) float64 {
	if val1 == nil || val2 == nil {
		return 0
	}
	return (*val1 - *val2) / scale
}

// ageAdvantage scores each fighter's age against the 28-32 prime window
// and returns the difference.
func ageAdvantage(age1, age2 *float64) float64 {
	if age1 == nil || age2 == nil {
		return 0
	}
	return ageScore(*age1) - ageScore(*age2)
}

func ageScore(age float64) float64 {
	switch {
	case age >= 28 && age <= 32:
		return 1.0
	case age < 28:
		return 0.8 + (age-22)*0.033
	default:
		return 1.0 - (age-32)*0.05
	}
}

// advantageToProbability maps a clamped advantage onto 0.5-1.0 with a
// logistic curve. An advantage of 0 yields 0.5, an advantage of 1 roughly
// 0.95.
func advantageToProbability(advantage float64) float64 {
	advantage = max(-1.0, min(1.0, advantage))
	return 1.0 / (1.0 + math.Exp(-advantage*3))
}

func (p *Predictor) confidence(f1, f2 Features, advantageMagnitude float64) float64 {
	confidence := min(1.0, advantageMagnitude*2)

	minFights := min(f1.TotalFights, f2.TotalFights)
	if minFights < 5 {
		confidence *= 0.6
	} else if minFights < 10 {
		confidence *= 0.8
	}

	if advantageMagnitude < 0.05 {
		confidence *= 0.7
	}

	return min(1.0, max(0.0, confidence))
}

func ConfidenceLabel(confidence float64) string {
	switch {
	case confidence >= 0.7:
		return LabelHigh
	case confidence >= 0.4:
		return LabelMedium
	default:
		return LabelLow
	}
}

func predictMethod(f1, f2 Features) (string, float64) {
	avgKO := (f1.KORate + f2.KORate) / 2
	avgSub := (f1.SubmissionRate + f2.SubmissionRate) / 2
	avgFinish := (f1.FinishRate + f2.FinishRate) / 2

	switch {
	case avgFinish < 0.3:
		return MethodDecision, 0.6
	case avgKO > avgSub && avgKO > 0.3:
		return MethodKOTKO, min(0.7, avgKO+0.2)
	case avgSub > 0.25:
		return MethodSubmission, min(0.6, avgSub+0.15)
	default:
		return MethodDecision, 0.5
	}
}
