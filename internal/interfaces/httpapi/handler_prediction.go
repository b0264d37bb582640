package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/predict"
	"github.com/prasetyowira/fightcast/internal/usecase"
)

func (h *Handler) PredictFight(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PredictFight")
	defer span.End()

	fightID := r.PathValue("fightID")
	prediction, err := h.predictionService.PredictFight(ctx, fightID)
	if err != nil {
		h.logger.WarnContext(ctx, "predict fight failed", "fight_id", fightID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(ctx, *prediction))
}

func (h *Handler) PredictUpcoming(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PredictUpcoming")
	defer span.End()

	limit, err := parseLimitQuery(r, 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	predictions, err := h.predictionService.PredictUpcoming(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "predict upcoming failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]predictionDTO, 0, len(predictions))
	for _, p := range predictions {
		items = append(items, predictionToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) PredictMatchup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PredictMatchup")
	defer span.End()

	var req matchupRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	analysis, err := h.predictionService.PredictMatchup(ctx, req.Fighter1ID, req.Fighter2ID, req.Profile)
	if err != nil {
		h.logger.WarnContext(ctx, "predict matchup failed",
			"fighter1_id", req.Fighter1ID,
			"fighter2_id", req.Fighter2ID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchupAnalysisDTO{
		Prediction: predictionToDTO(ctx, analysis.Prediction),
		Confidence: confidenceFactorsDTO{
			DataQuality:        analysis.Confidence.DataQuality,
			ExperienceLevel:    analysis.Confidence.ExperienceLevel,
			MatchupClarity:     analysis.Confidence.MatchupClarity,
			HistoricalAccuracy: analysis.Confidence.HistoricalAccuracy,
			Overall:            analysis.Confidence.Overall(),
		},
	})
}

func (h *Handler) GetPredictionAccuracy(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPredictionAccuracy")
	defer span.End()

	useCache := !strings.EqualFold(r.URL.Query().Get("refresh"), "true")
	stats, err := h.predictionService.AccuracyStats(ctx, useCache)
	if err != nil {
		h.logger.WarnContext(ctx, "prediction accuracy failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	buckets := make(map[string]accuracyBucketDTO, len(stats.ByConfidence))
	for label, bucket := range stats.ByConfidence {
		buckets[label] = accuracyBucketDTO{
			Accuracy: bucket.Accuracy,
			Count:    bucket.Count,
		}
	}

	writeSuccess(ctx, w, http.StatusOK, accuracyStatsDTO{
		TotalPredictions:   stats.TotalPredictions,
		CorrectPredictions: stats.CorrectPredictions,
		Accuracy:           stats.Accuracy,
		ByConfidence:       buckets,
		GeneratedAt:        stats.GeneratedAt.UTC().Format(time.RFC3339),
	})
}

func parseLimitQuery(r *http.Request, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return fallback, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput)
	}

	return limit, nil
}

type matchupRequest struct {
	Fighter1ID string `json:"fighter1Id" validate:"required"`
	Fighter2ID string `json:"fighter2Id" validate:"required"`
	Profile    string `json:"profile" validate:"omitempty,oneof=balanced striking grappling"`
}

type predictionDTO struct {
	FightID string `json:"fightId,omitempty"`

	Fighter1ID   string `json:"fighter1Id"`
	Fighter2ID   string `json:"fighter2Id"`
	Fighter1Name string `json:"fighter1Name"`
	Fighter2Name string `json:"fighter2Name"`

	PredictedWinnerID   string  `json:"predictedWinnerId"`
	PredictedWinnerName string  `json:"predictedWinnerName"`
	WinProbability      float64 `json:"winProbability"`

	Confidence      float64 `json:"confidence"`
	ConfidenceLabel string  `json:"confidenceLabel"`

	Fighter1Advantage float64      `json:"fighter1Advantage"`
	Breakdown         breakdownDTO `json:"breakdown"`

	PredictedMethod   string  `json:"predictedMethod"`
	MethodProbability float64 `json:"methodProbability"`

	Factors  []string `json:"factors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type breakdownDTO struct {
	Record    float64 `json:"record"`
	Striking  float64 `json:"striking"`
	Grappling float64 `json:"grappling"`
	Form      float64 `json:"form"`
	Physical  float64 `json:"physical"`
}

type matchupAnalysisDTO struct {
	Prediction predictionDTO        `json:"prediction"`
	Confidence confidenceFactorsDTO `json:"confidence"`
}

type confidenceFactorsDTO struct {
	DataQuality        float64 `json:"dataQuality"`
	ExperienceLevel    float64 `json:"experienceLevel"`
	MatchupClarity     float64 `json:"matchupClarity"`
	HistoricalAccuracy float64 `json:"historicalAccuracy"`
	Overall            float64 `json:"overall"`
}

type accuracyStatsDTO struct {
	TotalPredictions   int                          `json:"totalPredictions"`
	CorrectPredictions int                          `json:"correctPredictions"`
	Accuracy           float64                      `json:"accuracy"`
	ByConfidence       map[string]accuracyBucketDTO `json:"byConfidence"`
	GeneratedAt        string                       `json:"generatedAt"`
}

type accuracyBucketDTO struct {
	Accuracy float64 `json:"accuracy"`
	Count    int     `json:"count"`
}

func predictionToDTO(ctx context.Context, p predict.Prediction) predictionDTO {
	ctx, span := startSpan(ctx, "httpapi.predictionToDTO")
	defer span.End()

	return predictionDTO{
		FightID:             p.FightID,
		Fighter1ID:          p.Fighter1ID,
		Fighter2ID:          p.Fighter2ID,
		Fighter1Name:        p.Fighter1Name,
		Fighter2Name:        p.Fighter2Name,
		PredictedWinnerID:   p.PredictedWinnerID,
		PredictedWinnerName: p.PredictedWinnerName,
		WinProbability:      p.WinProbability,
		Confidence:          p.Confidence,
		ConfidenceLabel:     p.ConfidenceLabel,
		Fighter1Advantage:   p.Fighter1Advantage,
		Breakdown: breakdownDTO{
			Record:    p.Breakdown.Record,
			Striking:  p.Breakdown.Striking,
			Grappling: p.Breakdown.Grappling,
			Form:      p.Breakdown.Form,
			Physical:  p.Breakdown.Physical,
		},
		PredictedMethod:   p.PredictedMethod,
		MethodProbability: p.MethodProbability,
		Factors:           p.Factors,
		Warnings:          p.Warnings,
	}
}
