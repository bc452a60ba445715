// Package replay re-runs historical classifications against the current
// engine and corpus to detect decision drift.
package replay

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/noema-labs/noema/internal/domain"
	"github.com/noema-labs/noema/internal/usecase/decision"
)

// candidateLimit matches the ingestion pipeline so a replay sees the same
// breadth of candidates.
const candidateLimit = 5

// Summary condenses one decision for drift comparison.
type Summary struct {
	Action       domain.Action
	TargetIdeaID uuid.UUID
	Confidence   float64
	RuleID       string
	Reasoning    string
}

// Report is the outcome of one replay.
type Report struct {
	FragmentID     uuid.UUID
	EngineVersion  string
	RuleSetVersion string
	Original       *Summary // nil when the fragment has no ledger history
	Replayed       Summary
	DriftDetected  bool
	DriftReason    string
}

// Service replays historical decisions with the current engine rules.
type Service struct {
	repo    Repository
	history History
	engine  Engine
}

// New creates a replay service.
func New(repo Repository, history History, engine Engine) *Service {
	return &Service{repo: repo, history: history, engine: engine}
}

// Replay re-runs the decision for an already-ingested fragment against the
// current candidate corpus and compares it with the earliest historical
// entry. Drift means the engine rules or the corpus have shifted enough to
// change the outcome.
func (s *Service) Replay(ctx context.Context, fragmentID uuid.UUID) (Report, error) {
	fragment, err := s.repo.GetFragment(ctx, fragmentID)
	if err != nil {
		return Report{}, fmt.Errorf("get fragment: %w", err)
	}
	if len(fragment.Embedding()) == 0 {
		return Report{}, fmt.Errorf("replay %s: %w", fragmentID, domain.ErrNoEmbedding)
	}

	candidates, err := s.repo.SearchCandidates(ctx, fragment.Embedding(), candidateLimit, fragment.SpaceID())
	if err != nil {
		return Report{}, fmt.Errorf("search candidates: %v: %w", err, domain.ErrDatabase)
	}

	replayed := s.engine.Decide(fragment, candidates, decision.ModeDefault)

	entries, err := s.history.HistoryFor(ctx, fragmentID)
	if err != nil {
		return Report{}, fmt.Errorf("fetch history: %v: %w", err, domain.ErrDatabase)
	}

	report := Report{
		FragmentID:     fragmentID,
		EngineVersion:  decision.EngineVersion,
		RuleSetVersion: decision.RuleSetVersion,
		Replayed: Summary{
			Action:       replayed.Action,
			TargetIdeaID: replayed.TargetIdeaID,
			Confidence:   replayed.Confidence,
			RuleID:       replayed.RuleID,
			Reasoning:    replayed.Reasoning,
		},
	}

	if len(entries) == 0 {
		return report, nil
	}

	// The earliest entry is the original ingestion decision.
	original := entries[0]
	report.Original = &Summary{
		Action:       original.Action,
		TargetIdeaID: original.TargetIdeaID,
		Confidence:   original.Confidence,
		RuleID:       original.RuleID,
		Reasoning:    original.Reasoning,
	}

	switch {
	case original.Action != replayed.Action:
		report.DriftDetected = true
		report.DriftReason = fmt.Sprintf("Action changed from %s to %s", original.Action, replayed.Action)
	case replayed.Action == domain.ActionAttach && original.TargetIdeaID != replayed.TargetIdeaID:
		report.DriftDetected = true
		report.DriftReason = fmt.Sprintf("Target changed from %s to %s", original.TargetIdeaID, replayed.TargetIdeaID)
	}

	return report, nil
}
