package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/prasetyowira/fightcast/internal/domain/source"
	"github.com/prasetyowira/fightcast/internal/platform/logging"
	"github.com/prasetyowira/fightcast/internal/usecase"
)

type Handler struct {
	rosterService     *usecase.RosterService
	predictionService *usecase.PredictionService
	snapshotService   *usecase.SnapshotService
	syncService       *usecase.SyncService
	adapters          map[string]source.Adapter
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	rosterService *usecase.RosterService,
	predictionService *usecase.PredictionService,
	snapshotService *usecase.SnapshotService,
	syncService *usecase.SyncService,
	adapters []source.Adapter,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	adapterByType := make(map[string]source.Adapter, len(adapters))
	for _, adapter := range adapters {
		if adapter == nil {
			continue
		}
		adapterByType[adapter.SourceType()] = adapter
	}

	return &Handler{
		rosterService:     rosterService,
		predictionService: predictionService,
		snapshotService:   snapshotService,
		syncService:       syncService,
		adapters:          adapterByType,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSONBody decodes a request body into out. An empty body leaves out
// at its zero value so optional payloads work.
func decodeJSONBody(r *http.Request, out any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
