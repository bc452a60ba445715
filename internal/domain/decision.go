package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action is the outcome class of one fragment classification.
type Action string

// Classification outcomes. The current rule set only produces the first
// three; LINK_WEAK and BLOCK are reserved extension points.
const (
	ActionAttach        Action = "ATTACH"
	ActionCreateNew     Action = "CREATE_NEW"
	ActionMergeProposal Action = "MERGE_PROPOSAL"
	ActionLinkWeak      Action = "LINK_WEAK"
	ActionBlock         Action = "BLOCK"
)

// Candidate pairs an idea with its similarity to a fragment, as returned by
// the candidate store in descending similarity order.
type Candidate struct {
	Idea       Idea
	Similarity float64
}

// DecisionResult is the output of one classification.
type DecisionResult struct {
	Action       Action
	TargetIdeaID uuid.UUID // zero unless the action references an existing idea
	Confidence   float64
	Reasoning    string
	RuleID       string
	Constraints  []string // provenance tags appended by the pipeline, never by the engine
}

// HasTarget reports whether the decision references an existing idea.
func (d *DecisionResult) HasTarget() bool { return d.TargetIdeaID != uuid.Nil }

// LogEntry is one immutable row of the decision ledger.
type LogEntry struct {
	FragmentID   uuid.UUID
	TargetIdeaID uuid.UUID // zero when the decision had no target
	Timestamp    time.Time
	Action       Action
	Confidence   float64
	RuleID       string
	Reasoning    string
	Constraints  []string
}

// PhaseEvent describes a lifecycle transition detected for an idea.
type PhaseEvent struct {
	IdeaID   uuid.UUID
	OldPhase IdeaStatus
	NewPhase IdeaStatus
	Reason   string
}
