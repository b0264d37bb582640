package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerRosterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/fighters", handler.ListFighters)
	mux.HandleFunc("GET /v1/fighters/{fighterID}", handler.GetFighter)
	mux.HandleFunc("GET /v1/fighters/{fighterID}/history", handler.GetFighterHistory)
	mux.HandleFunc("GET /v1/fighters/{fighterID}/snapshots", handler.ListFighterSnapshots)
	mux.HandleFunc("GET /v1/events/upcoming", handler.ListUpcomingEvents)
	mux.HandleFunc("GET /v1/events/{eventID}", handler.GetEvent)
	mux.HandleFunc("GET /v1/events/{eventID}/fights", handler.ListEventFights)
	mux.HandleFunc("GET /v1/fights/{fightID}/snapshots", handler.ListFightSnapshots)
}

func registerPredictionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/predictions/upcoming", handler.PredictUpcoming)
	mux.HandleFunc("GET /v1/predictions/fights/{fightID}", handler.PredictFight)
	mux.HandleFunc("POST /v1/predictions/matchup", handler.PredictMatchup)
	mux.HandleFunc("GET /v1/predictions/accuracy", handler.GetPredictionAccuracy)
}

func registerPipelineRoutes(mux *http.ServeMux, handler *Handler, pipelineToken string) {
	mux.Handle("POST /v1/pipeline/import", RequirePipelineToken(pipelineToken, http.HandlerFunc(handler.RunImport)))
	mux.Handle("POST /v1/pipeline/sync/upcoming", RequirePipelineToken(pipelineToken, http.HandlerFunc(handler.RunSyncUpcoming)))
	mux.Handle("POST /v1/pipeline/sync/full", RequirePipelineToken(pipelineToken, http.HandlerFunc(handler.RunFullSync)))
	mux.Handle("POST /v1/pipeline/events/{eventID}/results", RequirePipelineToken(pipelineToken, http.HandlerFunc(handler.UpdateEventResults)))
	mux.Handle("POST /v1/pipeline/snapshots", RequirePipelineToken(pipelineToken, http.HandlerFunc(handler.CreateSnapshot)))
	mux.Handle("POST /v1/pipeline/snapshots/calculate", RequirePipelineToken(pipelineToken, http.HandlerFunc(handler.CalculateSnapshots)))
	mux.Handle("GET /v1/pipeline/status", RequirePipelineToken(pipelineToken, http.HandlerFunc(handler.GetPipelineStatus)))
	// Get a previously executed import result by run id.
	mux.Handle("GET /v1/pipeline/runs/{runID}", RequirePipelineToken(pipelineToken, http.HandlerFunc(handler.GetImportRun)))
}
