package noema

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noema-labs/noema/internal/db"
	dbRedis "github.com/noema-labs/noema/internal/db/redis"
	"github.com/noema-labs/noema/internal/domain"
	"github.com/noema-labs/noema/internal/repository/embcache"
	ideationrepo "github.com/noema-labs/noema/internal/repository/ideation"
	ledgerrepo "github.com/noema-labs/noema/internal/repository/ledger"
	memoryrepo "github.com/noema-labs/noema/internal/repository/memory"
	spacerepo "github.com/noema-labs/noema/internal/repository/space"
	"github.com/noema-labs/noema/internal/transport/deterministic"
	openaiT "github.com/noema-labs/noema/internal/transport/openai"
	"github.com/noema-labs/noema/internal/usecase/decision"
	"github.com/noema-labs/noema/internal/usecase/evolution"
	healthuc "github.com/noema-labs/noema/internal/usecase/health"
	ingestuc "github.com/noema-labs/noema/internal/usecase/ingest"
	replayuc "github.com/noema-labs/noema/internal/usecase/replay"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the wiring.
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

type auditStore interface {
	Record(ctx context.Context, fragment domain.Fragment, decision domain.DecisionResult) error
	HistoryFor(ctx context.Context, fragmentID uuid.UUID) ([]domain.LogEntry, error)
	Recent(ctx context.Context, limit int) ([]domain.LogEntry, error)
}

type spaceStore interface {
	SaveSpace(ctx context.Context, sp *domain.Space) error
	GetSpace(ctx context.Context, id uuid.UUID) (domain.Space, error)
	ListSpaces(ctx context.Context) ([]domain.Space, error)
	DeleteSpace(ctx context.Context, id uuid.UUID) error
}

// Client is the noema embedded client entry point.
type Client struct {
	ideas     ideaStore
	audit     auditStore
	spaces    spaceStore
	redisKV   db.KVStore // nil on the memory driver
	ingestSvc *ingestuc.Service
	replaySvc *replayuc.Service
	healthSvc *healthuc.Service
	closeFn   func()
}

// New creates a noema Client. With no options it runs fully embedded: the
// in-memory store and the deterministic offline provider. The provided
// context is used for the initial readiness check on the Redis driver.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:           "memory",
		provider:         "deterministic",
		vectorDimensions: domain.DefaultVectorConfig().Dimensions,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	c := &Client{}
	if err := c.connectStore(ctx, cfg); err != nil {
		return nil, err
	}
	if err := c.wireProviders(cfg); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) connectStore(ctx context.Context, cfg *clientConfig) error {
	switch cfg.driver {
	case "memory":
		mem := memoryrepo.New()
		c.ideas = mem
		c.audit = mem
		c.spaces = mem
		c.healthSvc = healthuc.New(mem, nil)
		return nil
	case "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
			DB:       cfg.db,
		})
		if err != nil {
			return fmt.Errorf("noema: create redis store: %w", err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return fmt.Errorf("noema: database not ready: %w", err)
		}

		repo := ideationrepo.New(store, cfg.vectorDimensions)
		if cfg.hnswM > 0 || cfg.hnswEFConstruct > 0 {
			repo = repo.WithHNSW(ideationrepo.HNSWConfig{
				M:           cfg.hnswM,
				EFConstruct: cfg.hnswEFConstruct,
			})
		}
		if err := repo.EnsureIndex(ctx); err != nil {
			store.Close()
			return fmt.Errorf("noema: ensure candidate index: %w", err)
		}

		c.ideas = repo
		c.audit = ledgerrepo.New(store)
		c.spaces = spacerepo.New(store)
		c.healthSvc = healthuc.New(store, nil)
		c.closeFn = store.Close
		c.redisKV = store
		return nil
	default:
		return fmt.Errorf("noema: unknown driver %q", cfg.driver)
	}
}

func (c *Client) wireProviders(cfg *clientConfig) error {
	var (
		embedder   domain.Embedder
		synth      domain.Synthesizer
		embModel   string
		promptHash string
	)

	switch cfg.provider {
	case "deterministic":
		p := deterministic.New(cfg.vectorDimensions)
		embedder = p
		synth = p
		embModel = "deterministic"
	case "openai":
		provCfg := &openaiT.Config{
			APIKey:     cfg.apiKey,
			BaseURL:    cfg.baseURL,
			Model:      cfg.embModel,
			ChatModel:  cfg.chatModel,
			Dimensions: cfg.vectorDimensions,
			Provider:   "openai",
			Logger:     cfg.logger,
		}
		base := openaiT.NewEmbedder(provCfg)
		embedder = base
		synth = openaiT.NewSynthesizer(provCfg)
		embModel = base.Model()
		promptHash = openaiT.PromptTemplateHash()
	default:
		return fmt.Errorf("noema: unknown provider %q", cfg.provider)
	}

	if cfg.embedder != nil {
		embedder = &embedderAdapter{inner: cfg.embedder}
		embModel = "custom"
	}
	if c.redisKV != nil {
		embedder = embcache.New(embedder, c.redisKV, cfg.cacheTTL, nil, cfg.logger)
	}

	engine := decision.NewEngine()
	detector := evolution.NewDetector()

	c.ingestSvc = ingestuc.New(
		c.ideas, c.audit, engine, detector, embedder, synth,
		cfg.vectorDimensions, cfg.logger,
	).WithProvenance(embModel, promptHash)
	c.replaySvc = replayuc.New(c.ideas, c.audit, engine)
	return nil
}

// Close releases the underlying store connection, if any.
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Health checks the health of all components.
func (c *Client) Health(ctx context.Context) (string, map[string]string) {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return string(report.Status), checks
}
