// Package ingest orchestrates the fragment ingestion pipeline: embedding,
// candidate retrieval, classification, persistence, evolution checks, and
// ledger logging. It is the only component permitted to mutate state.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noema-labs/noema/internal/domain"
	"github.com/noema-labs/noema/internal/metrics"
	"github.com/noema-labs/noema/internal/usecase/decision"
)

// candidateLimit is the number of nearest neighbors considered per fragment.
const candidateLimit = 5

// Service runs the ingestion pipeline for one fragment at a time.
type Service struct {
	repo       Repository
	ledger     Ledger
	engine     Engine
	detector   Detector
	embedder   domain.Embedder
	synth      domain.Synthesizer
	vectorDim  int
	embModel   string
	promptHash string
	logger     *zap.Logger
}

// New creates an ingestion service.
func New(
	repo Repository, ledger Ledger, engine Engine, detector Detector,
	embedder domain.Embedder, synth domain.Synthesizer,
	vectorDim int, logger *zap.Logger,
) *Service {
	if vectorDim <= 0 {
		vectorDim = domain.DefaultVectorConfig().Dimensions
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		ledger:     ledger,
		engine:     engine,
		detector:   detector,
		embedder:   embedder,
		synth:      synth,
		vectorDim:  vectorDim,
		embModel:   domain.DefaultVectorConfig().Model,
		promptHash: "n/a",
		logger:     logger,
	}
}

// WithProvenance configures the embedding model tag and prompt hash recorded
// as decision constraints.
func (s *Service) WithProvenance(embModel, promptHash string) *Service {
	if embModel != "" {
		s.embModel = embModel
	}
	if promptHash != "" {
		s.promptHash = promptHash
	}
	return s
}

// ProcessText runs the full pipeline for one fragment and returns the
// enriched decision. Identical text always yields the same fragment id, so
// re-ingestion is idempotent at the identity layer; it still appends a new
// ledger entry and, on ATTACH, a new version.
func (s *Service) ProcessText(
	ctx context.Context, text, source string, mode decision.Mode,
	spaceID uuid.UUID, language string,
) (domain.DecisionResult, error) {
	fragment, err := domain.NewFragment(text, source, spaceID, language)
	if err != nil {
		return domain.DecisionResult{}, fmt.Errorf("build fragment: %w", err)
	}

	// Enrichment. Nothing has been persisted yet, so a failure here aborts
	// the whole run cleanly.
	embRes, err := s.embedder.Embed(ctx, text)
	if err != nil {
		if errors.Is(err, domain.ErrNetwork) {
			return domain.DecisionResult{}, fmt.Errorf("embed fragment: %w", err)
		}
		return domain.DecisionResult{}, fmt.Errorf("embed fragment: %v: %w", err, domain.ErrEmbedding)
	}
	fragment.SetEmbedding(embRes.Embedding)

	var candidates []domain.Candidate
	if len(fragment.Embedding()) > 0 {
		candidates, err = s.repo.SearchCandidates(ctx, fragment.Embedding(), candidateLimit, spaceID)
		if err != nil {
			return domain.DecisionResult{}, fmt.Errorf("search candidates: %v: %w", err, domain.ErrDatabase)
		}
	}

	dec := s.engine.Decide(fragment, candidates, mode)
	s.appendProvenance(&dec)

	switch dec.Action {
	case domain.ActionCreateNew:
		if err := s.createIdea(ctx, &fragment, &dec, spaceID, language); err != nil {
			return domain.DecisionResult{}, err
		}
	case domain.ActionAttach:
		if err := s.attachFragment(ctx, &fragment, &dec, language); err != nil {
			return domain.DecisionResult{}, err
		}
	case domain.ActionMergeProposal:
		// Advisory only. An external reviewer resolves the proposal; the
		// pipeline never merges ideas automatically.
	}

	if err := s.ledger.Record(ctx, fragment, dec); err != nil {
		// Domain writes for CREATE_NEW/ATTACH are already committed at this
		// point: the decision took effect but is missing from the audit
		// trail. Surface it loudly instead of masking.
		if dec.Action != domain.ActionMergeProposal {
			s.logger.Warn("ledger append failed after domain writes committed; audit trail has a gap",
				zap.String("fragment_id", fragment.ID().String()),
				zap.String("action", string(dec.Action)),
				zap.Error(err),
			)
		}
		return domain.DecisionResult{}, fmt.Errorf("record decision: %v: %w", err, domain.ErrDatabase)
	}

	metrics.ObserveDecision(string(dec.Action), dec.RuleID)

	return dec, nil
}

// Item is one batch ingestion input.
type Item struct {
	Text     string
	Source   string
	Language string
}

// Result is one batch ingestion outcome.
type Result struct {
	Decision domain.DecisionResult
	Err      error
}

// ProcessBatch ingests items strictly sequentially. Concurrent attachment
// to the same idea would race on the profile read-update-write cycle, so
// batch processing deliberately serializes.
func (s *Service) ProcessBatch(
	ctx context.Context, items []Item, mode decision.Mode, spaceID uuid.UUID,
) []Result {
	results := make([]Result, len(items))
	for i, item := range items {
		dec, err := s.ProcessText(ctx, item.Text, item.Source, mode, spaceID, item.Language)
		results[i] = Result{Decision: dec, Err: err}
	}
	return results
}

// appendProvenance records engine, rule-set, and embedding provenance as
// constraints. Metadata only: it never influences the decision.
func (s *Service) appendProvenance(dec *domain.DecisionResult) {
	dec.Constraints = append(dec.Constraints,
		"engine_v:"+decision.EngineVersion,
		"rules_v:"+decision.RuleSetVersion,
		"emb_provider:"+s.synth.Name(),
		"emb_model:"+s.embModel,
		"prompt_hash:"+s.promptHash,
	)
}

// createIdea seeds a new idea, its fragment, and the initial version.
func (s *Service) createIdea(
	ctx context.Context, fragment *domain.Fragment, dec *domain.DecisionResult,
	spaceID uuid.UUID, language string,
) error {
	startVector := fragment.Embedding()
	if len(startVector) == 0 {
		// Defensive default so the profile invariants hold even when
		// enrichment produced nothing.
		startVector = make([]float32, s.vectorDim)
	}
	profile := domain.NewSemanticProfile(startVector)

	title, err := s.synth.Synthesize(ctx, fragment.Text(), "provisional_title", language)
	if err != nil {
		if errors.Is(err, domain.ErrNetwork) {
			return fmt.Errorf("synthesize title: %w", err)
		}
		return fmt.Errorf("synthesize title: %v: %w", err, domain.ErrModel)
	}

	idea := domain.NewIdea(fragment.ID(), title, profile, spaceID, language)

	// The idea must exist before anything can reference it.
	if err := s.repo.SaveIdea(ctx, &idea); err != nil {
		return fmt.Errorf("save new idea: %v: %w", err, domain.ErrDatabase)
	}
	if err := s.repo.SaveFragment(ctx, fragment); err != nil {
		return fmt.Errorf("save fragment: %v: %w", err, domain.ErrDatabase)
	}

	initial := domain.NewIdeaVersion(
		idea.ID(), 1, domain.StatusGerminal,
		"Initial seed: "+fragment.Text(), "Genesis from single fragment", language,
	)
	if err := s.repo.SaveIdeaVersion(ctx, &initial); err != nil {
		return fmt.Errorf("save initial version: %v: %w", err, domain.ErrDatabase)
	}

	dec.TargetIdeaID = idea.ID()
	return nil
}

// attachFragment folds the fragment into an existing idea: profile update,
// new version, and evolution check.
func (s *Service) attachFragment(
	ctx context.Context, fragment *domain.Fragment, dec *domain.DecisionResult, language string,
) error {
	idea, err := s.repo.GetIdea(ctx, dec.TargetIdeaID)
	if err != nil {
		// The engine only targets ideas the candidate search just returned;
		// a missing target is a data-integrity violation, never an excuse
		// to silently create a substitute.
		return fmt.Errorf("attach target %s: %v: %w", dec.TargetIdeaID, err, domain.ErrDatabase)
	}

	if err := s.repo.SaveFragment(ctx, fragment); err != nil {
		return fmt.Errorf("save fragment: %v: %w", err, domain.ErrDatabase)
	}

	if idea.Profile().FragmentCount() > 0 && len(fragment.Embedding()) > 0 {
		updated, err := idea.Profile().Update(fragment.Embedding())
		if err != nil {
			return fmt.Errorf("update profile: %v: %w", err, domain.ErrDatabase)
		}
		idea.ReplaceProfile(updated)
		if err := s.repo.SaveIdea(ctx, &idea); err != nil {
			return fmt.Errorf("save updated idea: %v: %w", err, domain.ErrDatabase)
		}
	}

	latest, found, err := s.repo.GetLatestVersion(ctx, idea.ID())
	if err != nil {
		return fmt.Errorf("fetch latest version: %v: %w", err, domain.ErrDatabase)
	}
	nextNumber := 1
	if found {
		nextNumber = latest.VersionNumber() + 1
	}

	synthesis, err := s.synth.Synthesize(ctx, fragment.Text(), "integrate_into:"+idea.TitleProvisional(), language)
	if err != nil {
		if errors.Is(err, domain.ErrNetwork) {
			return fmt.Errorf("synthesize version: %w", err)
		}
		return fmt.Errorf("synthesize version: %v: %w", err, domain.ErrModel)
	}

	version := domain.NewIdeaVersion(
		idea.ID(), nextNumber, idea.Status(),
		synthesis, "Attached fragment: "+preview(fragment.Text()), language,
	)
	if err := s.repo.SaveIdeaVersion(ctx, &version); err != nil {
		return fmt.Errorf("save version: %v: %w", err, domain.ErrDatabase)
	}

	if event, ok := s.detector.DetectTransition(idea, version); ok {
		idea.TransitionTo(event.NewPhase)
		if err := s.repo.SaveIdea(ctx, &idea); err != nil {
			return fmt.Errorf("save transitioned idea: %v: %w", err, domain.ErrDatabase)
		}
		dec.Reasoning += fmt.Sprintf(" [Transitioned to %s]", event.NewPhase)
		s.logger.Info("idea phase transition",
			zap.String("idea_id", idea.ID().String()),
			zap.String("old_phase", string(event.OldPhase)),
			zap.String("new_phase", string(event.NewPhase)),
			zap.String("reason", event.Reason),
		)
	}

	return nil
}

// preview truncates text for reasoning logs.
func preview(text string) string {
	const max = 30
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
