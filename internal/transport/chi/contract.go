package chi

import (
	"context"

	"github.com/google/uuid"

	"github.com/noema-labs/noema/internal/domain"
	"github.com/noema-labs/noema/internal/usecase/decision"
	"github.com/noema-labs/noema/internal/usecase/ingest"
	"github.com/noema-labs/noema/internal/usecase/replay"
)

// Ingestor runs the ingestion pipeline.
type Ingestor interface {
	ProcessText(
		ctx context.Context, text, source string, mode decision.Mode,
		spaceID uuid.UUID, language string,
	) (domain.DecisionResult, error)
	ProcessBatch(
		ctx context.Context, items []ingest.Item, mode decision.Mode, spaceID uuid.UUID,
	) []ingest.Result
}

// Replayer re-runs historical decisions for drift detection.
type Replayer interface {
	Replay(ctx context.Context, fragmentID uuid.UUID) (replay.Report, error)
}

// AuditLog reads the decision ledger.
type AuditLog interface {
	HistoryFor(ctx context.Context, fragmentID uuid.UUID) ([]domain.LogEntry, error)
	Recent(ctx context.Context, limit int) ([]domain.LogEntry, error)
}

// IdeaReader reads ideas and their version history.
type IdeaReader interface {
	GetIdea(ctx context.Context, id uuid.UUID) (domain.Idea, error)
	ListIdeas(ctx context.Context, spaceID uuid.UUID) ([]domain.Idea, error)
	ListIdeaVersions(ctx context.Context, ideaID uuid.UUID) ([]domain.IdeaVersion, error)
	CountVersions(ctx context.Context, ideaID uuid.UUID) (int, error)
}

// SpaceStore manages scoping spaces.
type SpaceStore interface {
	SaveSpace(ctx context.Context, sp *domain.Space) error
	GetSpace(ctx context.Context, id uuid.UUID) (domain.Space, error)
	ListSpaces(ctx context.Context) ([]domain.Space, error)
	DeleteSpace(ctx context.Context, id uuid.UUID) error
}
