// Package decision implements the deterministic fragment classifier.
package decision

import (
	"fmt"
	"strings"

	"github.com/noema-labs/noema/internal/domain"
)

// Version identifiers recorded as provenance on every decision. Replay
// compares ledger entries against these, so bump them on any rule change.
const (
	EngineVersion  = "1.0.0-alpha"
	RuleSetVersion = "2026.01.30-determ"
)

// Mode selects the threshold profile for classification.
type Mode string

// Classification modes.
const (
	ModeDefault      Mode = "default"
	ModeExplorer     Mode = "explorer"
	ModeConsolidator Mode = "consolidator"
)

// thresholds holds the similarity cut-offs for one mode.
type thresholds struct {
	attach    float64
	ambiguity float64
}

// thresholdsFor returns the cut-offs for a mode. Unknown modes fall back to
// default, matching the permissive handling of the mode parameter upstream.
func thresholdsFor(mode Mode) thresholds {
	switch mode {
	case ModeExplorer:
		// High barrier for attachment, encourages new ideas.
		return thresholds{attach: 0.85, ambiguity: 0.75}
	case ModeConsolidator:
		// Low barrier, encourages grouping.
		return thresholds{attach: 0.60, ambiguity: 0.45}
	default:
		return thresholds{attach: 0.70, ambiguity: 0.55}
	}
}

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDefault, ModeExplorer, ModeConsolidator:
		return Mode(s), nil
	case "":
		return ModeDefault, nil
	default:
		return "", fmt.Errorf("mode %q: %w", s, domain.ErrInvalidMode)
	}
}

// Engine classifies fragments against ranked candidates. Pure and
// stateless: the same inputs always produce the same decision.
type Engine struct{}

// NewEngine creates a classification engine.
func NewEngine() *Engine { return &Engine{} }

// Decide maps a fragment and its ranked candidates to a decision.
// candidates must already be sorted descending by similarity; the engine
// does not re-sort. Thresholds use strict >, so a similarity exactly equal
// to a threshold falls through to the next band.
func (e *Engine) Decide(fragment domain.Fragment, candidates []domain.Candidate, mode Mode) domain.DecisionResult {
	th := thresholdsFor(mode)
	modeTag := strings.ToUpper(string(mode))

	if len(candidates) == 0 {
		return domain.DecisionResult{
			Action:     domain.ActionCreateNew,
			Confidence: 1.0,
			Reasoning:  "No candidates provided. Must create new idea.",
			RuleID:     "RULE_INIT_001",
		}
	}

	best := candidates[0]

	if best.Similarity > th.attach {
		return domain.DecisionResult{
			Action:       domain.ActionAttach,
			TargetIdeaID: best.Idea.ID(),
			Confidence:   best.Similarity,
			Reasoning: fmt.Sprintf(
				"High similarity (%.4f > %v) with idea %q [%s]",
				best.Similarity, th.attach, best.Idea.TitleProvisional(), modeTag,
			),
			RuleID: "HEUR_ATTACH_" + modeTag,
		}
	}

	if best.Similarity > th.ambiguity {
		return domain.DecisionResult{
			Action:       domain.ActionMergeProposal,
			TargetIdeaID: best.Idea.ID(),
			Confidence:   best.Similarity,
			Reasoning: fmt.Sprintf(
				"Ambiguous match (%.4f in (%v, %v]). Potential merge with %q.",
				best.Similarity, th.ambiguity, th.attach, best.Idea.TitleProvisional(),
			),
			RuleID: "HEUR_AMBIGUITY_CHECK",
		}
	}

	return domain.DecisionResult{
		Action:     domain.ActionCreateNew,
		Confidence: 1.0,
		Reasoning: fmt.Sprintf(
			"No candidate met %s threshold %v (best: %.4f).",
			mode, th.ambiguity, best.Similarity,
		),
		RuleID: "RULE_NEW_" + modeTag,
	}
}
