package chi

import (
	"context"

	"github.com/google/uuid"

	"github.com/noema-labs/noema/internal/domain"
	"github.com/noema-labs/noema/internal/usecase/decision"
	"github.com/noema-labs/noema/internal/usecase/ingest"
	"github.com/noema-labs/noema/internal/usecase/replay"
)

type mockIngestor struct {
	processTextFn  func(ctx context.Context, text, source string, mode decision.Mode, spaceID uuid.UUID, language string) (domain.DecisionResult, error)
	processBatchFn func(ctx context.Context, items []ingest.Item, mode decision.Mode, spaceID uuid.UUID) []ingest.Result
}

func (m *mockIngestor) ProcessText(
	ctx context.Context, text, source string, mode decision.Mode,
	spaceID uuid.UUID, language string,
) (domain.DecisionResult, error) {
	return m.processTextFn(ctx, text, source, mode, spaceID, language)
}

func (m *mockIngestor) ProcessBatch(
	ctx context.Context, items []ingest.Item, mode decision.Mode, spaceID uuid.UUID,
) []ingest.Result {
	return m.processBatchFn(ctx, items, mode, spaceID)
}

type mockReplayer struct {
	replayFn func(ctx context.Context, fragmentID uuid.UUID) (replay.Report, error)
}

func (m *mockReplayer) Replay(ctx context.Context, fragmentID uuid.UUID) (replay.Report, error) {
	return m.replayFn(ctx, fragmentID)
}

type mockAudit struct {
	historyFn func(ctx context.Context, fragmentID uuid.UUID) ([]domain.LogEntry, error)
	recentFn  func(ctx context.Context, limit int) ([]domain.LogEntry, error)
}

func (m *mockAudit) HistoryFor(ctx context.Context, fragmentID uuid.UUID) ([]domain.LogEntry, error) {
	return m.historyFn(ctx, fragmentID)
}

func (m *mockAudit) Recent(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	return m.recentFn(ctx, limit)
}

type mockIdeas struct {
	getFn          func(ctx context.Context, id uuid.UUID) (domain.Idea, error)
	listFn         func(ctx context.Context, spaceID uuid.UUID) ([]domain.Idea, error)
	listVersionsFn func(ctx context.Context, ideaID uuid.UUID) ([]domain.IdeaVersion, error)
	countFn        func(ctx context.Context, ideaID uuid.UUID) (int, error)
}

func (m *mockIdeas) GetIdea(ctx context.Context, id uuid.UUID) (domain.Idea, error) {
	return m.getFn(ctx, id)
}

func (m *mockIdeas) ListIdeas(ctx context.Context, spaceID uuid.UUID) ([]domain.Idea, error) {
	return m.listFn(ctx, spaceID)
}

func (m *mockIdeas) ListIdeaVersions(ctx context.Context, ideaID uuid.UUID) ([]domain.IdeaVersion, error) {
	return m.listVersionsFn(ctx, ideaID)
}

func (m *mockIdeas) CountVersions(ctx context.Context, ideaID uuid.UUID) (int, error) {
	return m.countFn(ctx, ideaID)
}

type mockSpaces struct {
	saveFn   func(ctx context.Context, sp *domain.Space) error
	getFn    func(ctx context.Context, id uuid.UUID) (domain.Space, error)
	listFn   func(ctx context.Context) ([]domain.Space, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSpaces) SaveSpace(ctx context.Context, sp *domain.Space) error {
	return m.saveFn(ctx, sp)
}

func (m *mockSpaces) GetSpace(ctx context.Context, id uuid.UUID) (domain.Space, error) {
	return m.getFn(ctx, id)
}

func (m *mockSpaces) ListSpaces(ctx context.Context) ([]domain.Space, error) {
	return m.listFn(ctx)
}

func (m *mockSpaces) DeleteSpace(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }
