package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/noema-labs/noema/internal/domain"
	"github.com/noema-labs/noema/internal/usecase/decision"
)

// Repository defines the storage contract for fragments, ideas, and versions.
type Repository interface {
	// SearchCandidates returns ideas ordered descending by similarity to the
	// vector. Results are strictly scoped to spaceID: ideas in other spaces
	// are never proposed.
	SearchCandidates(ctx context.Context, vector []float32, limit int, spaceID uuid.UUID) ([]domain.Candidate, error)

	GetIdea(ctx context.Context, id uuid.UUID) (domain.Idea, error)
	SaveIdea(ctx context.Context, idea *domain.Idea) error
	SaveFragment(ctx context.Context, fragment *domain.Fragment) error
	SaveIdeaVersion(ctx context.Context, version *domain.IdeaVersion) error
	// GetLatestVersion returns the highest-numbered version, or found=false
	// if the idea has none.
	GetLatestVersion(ctx context.Context, ideaID uuid.UUID) (v domain.IdeaVersion, found bool, err error)
}

// Ledger is the append-only decision sink.
type Ledger interface {
	Record(ctx context.Context, fragment domain.Fragment, decision domain.DecisionResult) error
}

// Engine classifies a fragment against ranked candidates.
type Engine interface {
	Decide(fragment domain.Fragment, candidates []domain.Candidate, mode decision.Mode) domain.DecisionResult
}

// Detector inspects an idea and its newest version for phase transitions.
type Detector interface {
	DetectTransition(idea domain.Idea, latest domain.IdeaVersion) (domain.PhaseEvent, bool)
}
