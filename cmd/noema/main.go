package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noema-labs/noema/internal/config"
	"github.com/noema-labs/noema/internal/db"
	dbRedis "github.com/noema-labs/noema/internal/db/redis"
	"github.com/noema-labs/noema/internal/domain"
	logpkg "github.com/noema-labs/noema/internal/logger"
	"github.com/noema-labs/noema/internal/metrics"
	"github.com/noema-labs/noema/internal/repository/embcache"
	ideationrepo "github.com/noema-labs/noema/internal/repository/ideation"
	ledgerrepo "github.com/noema-labs/noema/internal/repository/ledger"
	memoryrepo "github.com/noema-labs/noema/internal/repository/memory"
	spacerepo "github.com/noema-labs/noema/internal/repository/space"
	chiTransport "github.com/noema-labs/noema/internal/transport/chi"
	"github.com/noema-labs/noema/internal/transport/deterministic"
	openaiT "github.com/noema-labs/noema/internal/transport/openai"
	"github.com/noema-labs/noema/internal/usecase/decision"
	"github.com/noema-labs/noema/internal/usecase/evolution"
	healthuc "github.com/noema-labs/noema/internal/usecase/health"
	ingestuc "github.com/noema-labs/noema/internal/usecase/ingest"
	replayuc "github.com/noema-labs/noema/internal/usecase/replay"
	"github.com/noema-labs/noema/internal/version"
)

// ideaStore is everything the use cases and HTTP surface need from the
// idea/fragment storage driver. Both the redis repository and the in-memory
// store satisfy it.
type ideaStore interface {
	EnsureIndex(ctx context.Context) error
	SearchCandidates(ctx context.Context, vector []float32, limit int, spaceID uuid.UUID) ([]domain.Candidate, error)
	GetIdea(ctx context.Context, id uuid.UUID) (domain.Idea, error)
	SaveIdea(ctx context.Context, idea *domain.Idea) error
	ListIdeas(ctx context.Context, spaceID uuid.UUID) ([]domain.Idea, error)
	SaveFragment(ctx context.Context, fragment *domain.Fragment) error
	GetFragment(ctx context.Context, id uuid.UUID) (domain.Fragment, error)
	SaveIdeaVersion(ctx context.Context, v *domain.IdeaVersion) error
	GetLatestVersion(ctx context.Context, ideaID uuid.UUID) (domain.IdeaVersion, bool, error)
	ListIdeaVersions(ctx context.Context, ideaID uuid.UUID) ([]domain.IdeaVersion, error)
	CountVersions(ctx context.Context, ideaID uuid.UUID) (int, error)
}

// auditStore is the append-only decision ledger contract.
type auditStore interface {
	Record(ctx context.Context, fragment domain.Fragment, decision domain.DecisionResult) error
	HistoryFor(ctx context.Context, fragmentID uuid.UUID) ([]domain.LogEntry, error)
	Recent(ctx context.Context, limit int) ([]domain.LogEntry, error)
}

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting noema API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterProviderMetrics()
	metrics.RegisterPipelineMetrics()

	vectorDim := cfg.AI.Dimensions
	if vectorDim <= 0 {
		vectorDim = domain.DefaultVectorConfig().Dimensions
	}

	ctx := context.Background()

	// Storage: the composition root picks the driver.
	var (
		ideas  ideaStore
		audit  auditStore
		spaces chiTransport.SpaceStore
		pinger healthuc.StorePinger
		kv     db.KVStore
	)
	switch cfg.Database.Driver {
	case "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create redis store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to redis")

		ideas = ideationrepo.New(store, vectorDim).WithHNSW(ideationrepo.HNSWConfig{
			M:           cfg.Index.HNSWM,
			EFConstruct: cfg.Index.HNSWEFConstruct,
		})
		audit = ledgerrepo.New(store)
		spaces = spacerepo.New(store)
		pinger = store
		kv = store
	case "memory":
		mem := memoryrepo.New()
		ideas = mem
		audit = mem
		spaces = mem
		pinger = mem
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}

	if err := ideas.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure candidate index", zap.Error(err))
	}

	// AI providers
	var (
		embedder      domain.Embedder
		synth         domain.Synthesizer
		providerCheck healthuc.ProviderChecker
		embModel      string
		promptHash    string
	)
	switch cfg.AI.Provider {
	case "openai":
		provCfg := &openaiT.Config{
			APIKey:     cfg.AI.APIKey,
			BaseURL:    cfg.AI.BaseURL,
			Model:      cfg.AI.EmbeddingModel,
			ChatModel:  cfg.AI.ChatModel,
			Dimensions: vectorDim,
			Provider:   "openai",
			Logger:     logger,
		}
		base := openaiT.NewEmbedder(provCfg)
		embedder = base
		if kv != nil {
			ttl := time.Duration(cfg.AI.CacheTTLSec) * time.Second
			embedder = embcache.New(base, kv, ttl, metrics.EmbeddingCacheTotal, logger)
		}
		synth = openaiT.NewSynthesizer(provCfg)
		providerCheck = base
		embModel = base.Model()
		promptHash = openaiT.PromptTemplateHash()
	case "deterministic":
		p := deterministic.New(vectorDim)
		embedder = p
		synth = p
		providerCheck = p
		embModel = "deterministic"
	default:
		logger.Fatal("Unknown AI provider", zap.String("provider", cfg.AI.Provider))
	}
	logger.Info("AI provider ready",
		zap.String("provider", cfg.AI.Provider),
		zap.Int("dimensions", vectorDim),
	)

	// Use case services
	engine := decision.NewEngine()
	detector := evolution.NewDetector()

	ingestSvc := ingestuc.New(ideas, audit, engine, detector, embedder, synth, vectorDim, logger).
		WithProvenance(embModel, promptHash)
	replaySvc := replayuc.New(ideas, audit, engine)
	healthSvc := healthuc.New(pinger, providerCheck)

	server := chiTransport.NewServer(ingestSvc, replaySvc, audit, ideas, spaces, healthSvc, logger)

	r := gochi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request.
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
