package replay

import (
	"context"

	"github.com/google/uuid"

	"github.com/noema-labs/noema/internal/domain"
	"github.com/noema-labs/noema/internal/usecase/decision"
)

// Repository reads fragments and searches the current candidate corpus.
type Repository interface {
	GetFragment(ctx context.Context, id uuid.UUID) (domain.Fragment, error)
	SearchCandidates(ctx context.Context, vector []float32, limit int, spaceID uuid.UUID) ([]domain.Candidate, error)
}

// History reads the decision ledger for a fragment.
type History interface {
	HistoryFor(ctx context.Context, fragmentID uuid.UUID) ([]domain.LogEntry, error)
}

// Engine classifies a fragment against ranked candidates.
type Engine interface {
	Decide(fragment domain.Fragment, candidates []domain.Candidate, mode decision.Mode) domain.DecisionResult
}
