package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/fight"
	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	"github.com/prasetyowira/fightcast/internal/domain/predict"
	"github.com/prasetyowira/fightcast/internal/domain/snapshot"
	"github.com/prasetyowira/fightcast/internal/platform/cache"
)

const (
	defaultUpcomingPredictionLimit = 20
	accuracyBacktestLimit          = 500
	accuracyCacheTTL               = 24 * time.Hour
	accuracyCacheKey               = "prediction:accuracy"
)

// MatchupAnalysis is a hypothetical matchup prediction with the standalone
// confidence diagnostics attached.
type MatchupAnalysis struct {
	Prediction predict.Prediction
	Confidence predict.ConfidenceFactors
}

// ConfidenceBucket tallies backtest outcomes for one confidence label.
type ConfidenceBucket struct {
	Accuracy float64
	Count    int
}

// AccuracyStats is the backtest summary over historical completed fights.
type AccuracyStats struct {
	TotalPredictions   int
	CorrectPredictions int
	Accuracy           float64
	ByConfidence       map[string]ConfidenceBucket
	GeneratedAt        time.Time
}

// PredictionService scores fights with the weighted rule engine. Features
// come from the snapshot taken for the fight when one exists, from the
// fighter's most recent snapshot otherwise, and degrade to bare career
// counters for fighters that have never been snapshotted.
type PredictionService struct {
	fighterRepo  fighter.Repository
	fightRepo    fight.Repository
	snapshotRepo snapshot.Repository

	extractor *predict.Extractor
	predictor *predict.Predictor
	scorer    *predict.ConfidenceScorer

	accuracyCache *cache.Store
	now           func() time.Time
}

func NewPredictionService(
	fighterRepo fighter.Repository,
	fightRepo fight.Repository,
	snapshotRepo snapshot.Repository,
	weights predict.Weights,
) *PredictionService {
	return &PredictionService{
		fighterRepo:   fighterRepo,
		fightRepo:     fightRepo,
		snapshotRepo:  snapshotRepo,
		extractor:     predict.NewExtractor(),
		predictor:     predict.NewPredictor(weights),
		scorer:        predict.NewConfidenceScorer(),
		accuracyCache: cache.NewStore(accuracyCacheTTL),
		now:           time.Now,
	}
}

// PredictFight scores a scheduled fight. Completed fights are rejected, the
// point of the engine being to predict what is not yet known.
func (s *PredictionService) PredictFight(ctx context.Context, fightID string) (*predict.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.PredictFight")
	defer span.End()

	bout, err := s.fightRepo.GetByID(ctx, fightID)
	if err != nil {
		return nil, fmt.Errorf("get fight: %w", err)
	}
	if bout == nil {
		return nil, fmt.Errorf("%w: fight %s", ErrNotFound, fightID)
	}
	if bout.IsCompleted() {
		return nil, fmt.Errorf("%w: fight %s already has a result", ErrAlreadyCompleted, fightID)
	}

	return s.predictBout(ctx, bout)
}

func (s *PredictionService) predictBout(ctx context.Context, bout *fight.Fight) (*predict.Prediction, error) {
	fighter1, err := s.fighterRepo.GetByID(ctx, bout.Fighter1ID)
	if err != nil {
		return nil, fmt.Errorf("get fighter 1: %w", err)
	}
	fighter2, err := s.fighterRepo.GetByID(ctx, bout.Fighter2ID)
	if err != nil {
		return nil, fmt.Errorf("get fighter 2: %w", err)
	}
	if fighter1 == nil || fighter2 == nil {
		return nil, fmt.Errorf("%w: fight %s", ErrMissingFighterData, bout.ID)
	}

	features1, err := s.featuresForFight(ctx, fighter1, bout.ID)
	if err != nil {
		return nil, err
	}
	features2, err := s.featuresForFight(ctx, fighter2, bout.ID)
	if err != nil {
		return nil, err
	}

	prediction := s.predictor.Predict(features1, features2, bout.ID)
	return &prediction, nil
}

// featuresForFight prefers the snapshot taken for this fight, falls back to
// the fighter's most recent snapshot, and finally to career counters.
func (s *PredictionService) featuresForFight(ctx context.Context, f *fighter.Fighter, fightID string) (predict.Features, error) {
	snap, err := s.snapshotRepo.GetByFighterAndFight(ctx, f.ID, fightID)
	if err != nil {
		return predict.Features{}, fmt.Errorf("get snapshot for %s: %w", f.FullName(), err)
	}
	if snap != nil {
		return s.extractor.FromSnapshot(snap, f), nil
	}

	return s.latestFeatures(ctx, f)
}

func (s *PredictionService) latestFeatures(ctx context.Context, f *fighter.Fighter) (predict.Features, error) {
	snapshots, err := s.snapshotRepo.ListByFighter(ctx, f.ID)
	if err != nil {
		return predict.Features{}, fmt.Errorf("list snapshots for %s: %w", f.FullName(), err)
	}
	if len(snapshots) == 0 {
		return s.extractor.FromFighter(f), nil
	}

	latest := snapshots[0]
	for _, snap := range snapshots[1:] {
		if snap.SnapshotDate.After(latest.SnapshotDate) {
			latest = snap
		}
	}

	return s.extractor.FromSnapshot(&latest, f), nil
}

// PredictMatchup scores a hypothetical pairing using each fighter's most
// recent snapshot. An empty profile uses the balanced weight profile.
func (s *PredictionService) PredictMatchup(ctx context.Context, fighter1ID, fighter2ID, profile string) (*MatchupAnalysis, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.PredictMatchup")
	defer span.End()

	if fighter1ID == fighter2ID {
		return nil, fmt.Errorf("%w: a fighter cannot be matched against themselves", ErrInvalidInput)
	}

	fighter1, err := s.fighterRepo.GetByID(ctx, fighter1ID)
	if err != nil {
		return nil, fmt.Errorf("get fighter 1: %w", err)
	}
	fighter2, err := s.fighterRepo.GetByID(ctx, fighter2ID)
	if err != nil {
		return nil, fmt.Errorf("get fighter 2: %w", err)
	}
	if fighter1 == nil {
		return nil, fmt.Errorf("%w: fighter %s", ErrNotFound, fighter1ID)
	}
	if fighter2 == nil {
		return nil, fmt.Errorf("%w: fighter %s", ErrNotFound, fighter2ID)
	}

	features1, err := s.latestFeatures(ctx, fighter1)
	if err != nil {
		return nil, err
	}
	features2, err := s.latestFeatures(ctx, fighter2)
	if err != nil {
		return nil, err
	}

	predictor := s.predictor
	if profile != "" {
		predictor = predict.NewPredictor(predict.ProfileWeights(profile))
	}

	prediction := predictor.Predict(features1, features2, "")
	factors := s.scorer.Score(features1, features2, math.Abs(prediction.Fighter1Advantage))

	return &MatchupAnalysis{Prediction: prediction, Confidence: factors}, nil
}

// PredictUpcoming scores scheduled fights in card-date order. Fights whose
// data is too thin to score are skipped rather than failing the batch. A
// limit of zero or less uses the default.
func (s *PredictionService) PredictUpcoming(ctx context.Context, limit int) ([]predict.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.PredictUpcoming")
	defer span.End()

	if limit <= 0 {
		limit = defaultUpcomingPredictionLimit
	}

	scheduled, err := s.fightRepo.ListScheduled(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list scheduled fights: %w", err)
	}

	out := make([]predict.Prediction, 0, len(scheduled))
	for i := range scheduled {
		prediction, err := s.predictBout(ctx, &scheduled[i].Fight)
		if err != nil {
			continue
		}
		out = append(out, *prediction)
	}

	return out, nil
}

// AccuracyStats backtests the engine against historical completed fights
// that have both a decided winner and snapshots for both corners. The
// result is cached for a day since the backtest only moves when new results
// are imported.
func (s *PredictionService) AccuracyStats(ctx context.Context, useCache bool) (AccuracyStats, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.AccuracyStats")
	defer span.End()

	if useCache {
		if cached, ok := s.accuracyCache.Get(ctx, accuracyCacheKey); ok {
			if stats, ok := cached.(AccuracyStats); ok {
				return stats, nil
			}
		}
	}

	stats, err := s.backtest(ctx)
	if err != nil {
		return AccuracyStats{}, err
	}
	s.accuracyCache.Set(ctx, accuracyCacheKey, stats)

	return stats, nil
}

func (s *PredictionService) backtest(ctx context.Context) (AccuracyStats, error) {
	completed, err := s.fightRepo.ListCompleted(ctx, accuracyBacktestLimit)
	if err != nil {
		return AccuracyStats{}, fmt.Errorf("list completed fights: %w", err)
	}

	correctByLabel := make(map[string]int)
	totalByLabel := make(map[string]int)
	total, correct := 0, 0

	for i := range completed {
		bout := &completed[i].Fight
		if bout.WinnerID == "" {
			continue
		}

		snap1, err := s.snapshotRepo.GetByFighterAndFight(ctx, bout.Fighter1ID, bout.ID)
		if err != nil {
			return AccuracyStats{}, fmt.Errorf("get snapshot: %w", err)
		}
		snap2, err := s.snapshotRepo.GetByFighterAndFight(ctx, bout.Fighter2ID, bout.ID)
		if err != nil {
			return AccuracyStats{}, fmt.Errorf("get snapshot: %w", err)
		}
		if snap1 == nil || snap2 == nil {
			continue
		}

		fighter1, err := s.fighterRepo.GetByID(ctx, bout.Fighter1ID)
		if err != nil {
			return AccuracyStats{}, fmt.Errorf("get fighter: %w", err)
		}
		fighter2, err := s.fighterRepo.GetByID(ctx, bout.Fighter2ID)
		if err != nil {
			return AccuracyStats{}, fmt.Errorf("get fighter: %w", err)
		}
		if fighter1 == nil || fighter2 == nil {
			continue
		}

		prediction := s.predictor.Predict(
			s.extractor.FromSnapshot(snap1, fighter1),
			s.extractor.FromSnapshot(snap2, fighter2),
			bout.ID,
		)

		total++
		totalByLabel[prediction.ConfidenceLabel]++
		if prediction.PredictedWinnerID == bout.WinnerID {
			correct++
			correctByLabel[prediction.ConfidenceLabel]++
		}
	}

	stats := AccuracyStats{
		TotalPredictions:   total,
		CorrectPredictions: correct,
		ByConfidence:       make(map[string]ConfidenceBucket, len(totalByLabel)),
		GeneratedAt:        s.now().UTC(),
	}
	if total > 0 {
		stats.Accuracy = round4(float64(correct) / float64(total))
	}
	for label, count := range totalByLabel {
		bucket := ConfidenceBucket{Count: count}
		if count > 0 {
			bucket.Accuracy = round4(float64(correctByLabel[label]) / float64(count))
		}
		stats.ByConfidence[label] = bucket
	}

	return stats, nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
