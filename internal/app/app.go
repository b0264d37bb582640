package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/prasetyowira/fightcast/external/espn"
	"github.com/prasetyowira/fightcast/external/kaggle"
	"github.com/prasetyowira/fightcast/external/ufcweb"
	"github.com/prasetyowira/fightcast/internal/config"
	"github.com/prasetyowira/fightcast/internal/domain/event"
	"github.com/prasetyowira/fightcast/internal/domain/fight"
	"github.com/prasetyowira/fightcast/internal/domain/fighter"
	"github.com/prasetyowira/fightcast/internal/domain/predict"
	"github.com/prasetyowira/fightcast/internal/domain/snapshot"
	"github.com/prasetyowira/fightcast/internal/domain/source"
	cacherepo "github.com/prasetyowira/fightcast/internal/infrastructure/repository/cache"
	"github.com/prasetyowira/fightcast/internal/infrastructure/repository/postgres"
	"github.com/prasetyowira/fightcast/internal/interfaces/httpapi"
	basecache "github.com/prasetyowira/fightcast/internal/platform/cache"
	idgen "github.com/prasetyowira/fightcast/internal/platform/id"
	"github.com/prasetyowira/fightcast/internal/platform/logging"
	"github.com/prasetyowira/fightcast/internal/platform/resilience"
	"github.com/prasetyowira/fightcast/internal/transform"
	"github.com/prasetyowira/fightcast/internal/usecase"

	_ "github.com/lib/pq"
)

// unitOfWork matches the transactional seam the import and snapshot
// services run their batch writes through.
type unitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, fighters fighter.Repository, events event.Repository, fights fight.Repository, snapshots snapshot.Repository) error) error
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	fighterRepo := fighter.Repository(postgres.NewFighterRepository(db))
	eventRepo := event.Repository(postgres.NewEventRepository(db))
	fightRepo := fight.Repository(postgres.NewFightRepository(db))
	snapshotRepo := postgres.NewSnapshotRepository(db)
	runRepo := postgres.NewImportRunRepository(db)
	txManager := unitOfWork(postgres.NewTxManager(db))

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		fighterRepo = cacherepo.NewFighterRepository(fighterRepo, store)
		eventRepo = cacherepo.NewEventRepository(eventRepo, store)
		fightRepo = cacherepo.NewFightRepository(fightRepo, store)
		txManager = cacherepo.NewTxManager(txManager, store)
	}

	espnClient := espn.NewClient(espn.ClientConfig{
		BaseURL:    cfg.ESPNBaseURL,
		Timeout:    cfg.ESPNTimeout,
		MaxRetries: cfg.ESPNMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		},
	})
	ufcClient := ufcweb.NewClient(ufcweb.ClientConfig{
		BaseURL:    cfg.UFCBaseURL,
		Timeout:    cfg.UFCTimeout,
		MaxRetries: cfg.UFCMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.UFCCircuitEnabled,
			FailureThreshold: cfg.UFCCircuitFailureCount,
			OpenTimeout:      cfg.UFCCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.UFCCircuitHalfOpenMaxReq,
		},
	})

	adapters := []source.Adapter{espnClient, ufcClient}
	extraSources := []source.Adapter(nil)
	if cfg.HistoricalEnabled {
		historical := kaggle.New(kaggle.Config{
			DataDir:    cfg.HistoricalDataDir,
			FightsFile: cfg.HistoricalFightsFile,
			Logger:     logger,
		})
		adapters = append(adapters, historical)
		extraSources = append(extraSources, historical)
	}

	importSvc := usecase.NewImportService(
		fighterRepo,
		eventRepo,
		fightRepo,
		runRepo,
		txManager,
		transform.NewDeduplicator(transform.DefaultSimilarityThreshold),
		idgen.NewRandomGenerator(),
	)
	snapshotSvc := usecase.NewSnapshotService(
		fighterRepo,
		eventRepo,
		fightRepo,
		snapshotRepo,
		txManager,
		idgen.NewRandomGenerator(),
	)
	rosterSvc := usecase.NewRosterService(fighterRepo, eventRepo, fightRepo, snapshotRepo)
	predictionSvc := usecase.NewPredictionService(
		fighterRepo,
		fightRepo,
		snapshotRepo,
		predict.ProfileWeights(cfg.PredictionProfile),
	)

	var syncSvc *usecase.SyncService
	if cfg.UFCFallbackEnabled {
		syncSvc = usecase.NewSyncService(importSvc, snapshotSvc, eventRepo, espnClient, ufcClient, extraSources, logger)
	} else {
		syncSvc = usecase.NewSyncService(importSvc, snapshotSvc, eventRepo, espnClient, nil, extraSources, logger)
	}

	handler := httpapi.NewHandler(rosterSvc, predictionSvc, snapshotSvc, syncSvc, adapters, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.PipelineToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, db.Close, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return db, nil
}
