package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/importrun"
	"github.com/prasetyowira/fightcast/internal/usecase"
)

func (h *Handler) RunImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunImport")
	defer span.End()

	var req importRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	adapter, ok := h.adapters[req.Source]
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown source %q", usecase.ErrInvalidInput, req.Source))
		return
	}

	report, err := h.syncService.ImportFromSource(ctx, adapter, req.CalculateSnapshots)
	if err != nil {
		h.logger.WarnContext(ctx, "import failed", "source", req.Source, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncReportToDTO(ctx, report))
}

func (h *Handler) RunSyncUpcoming(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncUpcoming")
	defer span.End()

	var req syncUpcomingRequest
	req.UseFallback = true
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	run, err := h.syncService.SyncUpcoming(ctx, req.UseFallback)
	if err != nil {
		h.logger.WarnContext(ctx, "sync upcoming failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runToDTO(ctx, *run))
}

func (h *Handler) RunFullSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunFullSync")
	defer span.End()

	report, err := h.syncService.RunFullSync(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "full sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncReportToDTO(ctx, report))
}

func (h *Handler) UpdateEventResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateEventResults")
	defer span.End()

	eventID := r.PathValue("eventID")
	run, err := h.syncService.UpdateEventResults(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "update event results failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runToDTO(ctx, *run))
}

func (h *Handler) CalculateSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CalculateSnapshots")
	defer span.End()

	var req calculateSnapshotsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.Limit < 0 {
		writeError(ctx, w, fmt.Errorf("%w: limit must be non-negative", usecase.ErrInvalidInput))
		return
	}

	batch, err := h.snapshotService.CalculateAll(ctx, req.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "calculate snapshots failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotBatchToDTO(ctx, batch))
}

func (h *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSnapshot")
	defer span.End()

	var req createSnapshotRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	snap, err := h.snapshotService.CreateSnapshot(ctx, req.FighterID, req.FightID)
	if err != nil {
		h.logger.WarnContext(ctx, "create snapshot failed",
			"fighter_id", req.FighterID,
			"fight_id", req.FightID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, *snap))
}

func (h *Handler) GetPipelineStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPipelineStatus")
	defer span.End()

	report, err := h.syncService.PipelineStatus(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "pipeline status failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	sources := make(map[string]bool, len(report.Sources))
	for name, status := range report.Sources {
		sources[name] = status.Healthy
	}
	runs := make([]importRunDTO, 0, len(report.RecentRuns))
	for _, run := range report.RecentRuns {
		runs = append(runs, runToDTO(ctx, run))
	}

	writeSuccess(ctx, w, http.StatusOK, pipelineStatusDTO{
		Sources:    sources,
		RecentRuns: runs,
		CheckedAt:  report.CheckedAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) GetImportRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetImportRun")
	defer span.End()

	runID := r.PathValue("runID")
	run, err := h.syncService.GetRun(ctx, runID)
	if err != nil {
		h.logger.WarnContext(ctx, "get import run failed", "run_id", runID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runToDTO(ctx, *run))
}

type importRequest struct {
	Source             string `json:"source" validate:"required"`
	CalculateSnapshots bool   `json:"calculateSnapshots"`
}

type syncUpcomingRequest struct {
	UseFallback bool `json:"useFallback"`
}

type calculateSnapshotsRequest struct {
	Limit int `json:"limit"`
}

type createSnapshotRequest struct {
	FighterID string `json:"fighterId" validate:"required"`
	FightID   string `json:"fightId" validate:"required"`
}

type importRunDTO struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	ImportType string `json:"importType"`
	Status     string `json:"status"`

	RecordsProcessed int `json:"recordsProcessed"`
	RecordsCreated   int `json:"recordsCreated"`
	RecordsUpdated   int `json:"recordsUpdated"`
	RecordsFailed    int `json:"recordsFailed"`

	Errors   []string       `json:"errors,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`

	StartedAt       string  `json:"startedAt"`
	CompletedAt     string  `json:"completedAt,omitempty"`
	DurationSeconds float64 `json:"durationSeconds"`
	SuccessRate     float64 `json:"successRate"`
}

type snapshotBatchDTO struct {
	FightsProcessed  int      `json:"fightsProcessed"`
	SnapshotsCreated int      `json:"snapshotsCreated"`
	Errors           []string `json:"errors,omitempty"`
}

type syncReportDTO struct {
	Run       *importRunDTO     `json:"run,omitempty"`
	Snapshots *snapshotBatchDTO `json:"snapshots,omitempty"`
}

type pipelineStatusDTO struct {
	Sources    map[string]bool `json:"sources"`
	RecentRuns []importRunDTO  `json:"recentRuns"`
	CheckedAt  string          `json:"checkedAt"`
}

func runToDTO(ctx context.Context, run importrun.Run) importRunDTO {
	ctx, span := startSpan(ctx, "httpapi.runToDTO")
	defer span.End()

	dto := importRunDTO{
		ID:               run.ID,
		Source:           run.Source,
		ImportType:       run.ImportType,
		Status:           run.Status,
		RecordsProcessed: run.RecordsProcessed,
		RecordsCreated:   run.RecordsCreated,
		RecordsUpdated:   run.RecordsUpdated,
		RecordsFailed:    run.RecordsFailed,
		Errors:           run.Errors,
		Metadata:         run.Metadata,
		StartedAt:        run.StartedAt.UTC().Format(time.RFC3339),
		DurationSeconds:  run.DurationSeconds(),
		SuccessRate:      run.SuccessRate(),
	}
	if run.CompletedAt != nil {
		dto.CompletedAt = run.CompletedAt.UTC().Format(time.RFC3339)
	}

	return dto
}

func snapshotBatchToDTO(ctx context.Context, batch usecase.SnapshotBatch) snapshotBatchDTO {
	ctx, span := startSpan(ctx, "httpapi.snapshotBatchToDTO")
	defer span.End()

	return snapshotBatchDTO{
		FightsProcessed:  batch.FightsProcessed,
		SnapshotsCreated: batch.SnapshotsCreated,
		Errors:           batch.Errors,
	}
}

func syncReportToDTO(ctx context.Context, report usecase.SyncReport) syncReportDTO {
	ctx, span := startSpan(ctx, "httpapi.syncReportToDTO")
	defer span.End()

	dto := syncReportDTO{}
	if report.Run != nil {
		run := runToDTO(ctx, *report.Run)
		dto.Run = &run
	}
	if report.Snapshots != nil {
		batch := snapshotBatchToDTO(ctx, *report.Snapshots)
		dto.Snapshots = &batch
	}

	return dto
}
