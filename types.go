package noema

import (
	"time"

	"github.com/google/uuid"

	"github.com/noema-labs/noema/internal/domain"
	"github.com/noema-labs/noema/internal/usecase/maturity"
	"github.com/noema-labs/noema/internal/usecase/replay"
)

// Classification modes.
const (
	ModeDefault      = "default"
	ModeExplorer     = "explorer"
	ModeConsolidator = "consolidator"
)

// Classification actions.
const (
	ActionAttach        = "ATTACH"
	ActionCreateNew     = "CREATE_NEW"
	ActionMergeProposal = "MERGE_PROPOSAL"
)

// FragmentID derives the deterministic identity of a fragment from its raw
// text. Ingesting the same text always yields this id.
func FragmentID(text string) uuid.UUID {
	return domain.FragmentID(text)
}

// IdeaID derives the deterministic identity of the idea seeded by a
// fragment.
func IdeaID(fragmentID uuid.UUID) uuid.UUID {
	return domain.IdeaID(fragmentID)
}

// Decision is the outcome of one fragment classification.
type Decision struct {
	Action       string
	TargetIdeaID uuid.UUID // zero unless the action references an existing idea
	Confidence   float64
	Reasoning    string
	RuleID       string
	Constraints  []string
}

// LogEntry is one immutable row of the decision ledger.
type LogEntry struct {
	FragmentID   uuid.UUID
	TargetIdeaID uuid.UUID
	Timestamp    time.Time
	Action       string
	Confidence   float64
	RuleID       string
	Reasoning    string
	Constraints  []string
}

// Idea is a semantic cluster of fragments.
type Idea struct {
	ID               uuid.UUID
	TitleProvisional string
	Domain           string
	Status           string
	SpaceID          uuid.UUID
	Language         string
	FragmentCount    int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IdeaVersion is one synthesis snapshot of an idea.
type IdeaVersion struct {
	ID              uuid.UUID
	IdeaID          uuid.UUID
	VersionNumber   int
	Stage           string
	SynthesizedText string
	ReasoningLog    string
	Language        string
	CreatedAt       time.Time
}

// Maturity scores how consolidated an idea is.
type Maturity struct {
	Score int
	Label string // germinal, growing, mature
	Ready bool
}

// Space isolates a corpus of ideas and fragments.
type Space struct {
	ID          uuid.UUID
	Name        string
	Description string
	Color       string
	CreatedAt   time.Time
}

// ReplaySummary condenses one decision for drift comparison.
type ReplaySummary struct {
	Action       string
	TargetIdeaID uuid.UUID
	Confidence   float64
	RuleID       string
	Reasoning    string
}

// ReplayReport is the outcome of re-running a historical decision.
type ReplayReport struct {
	FragmentID     uuid.UUID
	EngineVersion  string
	RuleSetVersion string
	Original       *ReplaySummary // nil when the fragment has no history
	Replayed       ReplaySummary
	DriftDetected  bool
	DriftReason    string
}

func decisionFromDomain(d domain.DecisionResult) Decision {
	return Decision{
		Action:       string(d.Action),
		TargetIdeaID: d.TargetIdeaID,
		Confidence:   d.Confidence,
		Reasoning:    d.Reasoning,
		RuleID:       d.RuleID,
		Constraints:  d.Constraints,
	}
}

func logEntryFromDomain(e domain.LogEntry) LogEntry {
	return LogEntry{
		FragmentID:   e.FragmentID,
		TargetIdeaID: e.TargetIdeaID,
		Timestamp:    e.Timestamp,
		Action:       string(e.Action),
		Confidence:   e.Confidence,
		RuleID:       e.RuleID,
		Reasoning:    e.Reasoning,
		Constraints:  e.Constraints,
	}
}

func ideaFromDomain(i domain.Idea) Idea {
	return Idea{
		ID:               i.ID(),
		TitleProvisional: i.TitleProvisional(),
		Domain:           i.Domain(),
		Status:           string(i.Status()),
		SpaceID:          i.SpaceID(),
		Language:         i.Language(),
		FragmentCount:    i.Profile().FragmentCount(),
		CreatedAt:        i.CreatedAt(),
		UpdatedAt:        i.UpdatedAt(),
	}
}

func versionFromDomain(v domain.IdeaVersion) IdeaVersion {
	return IdeaVersion{
		ID:              v.ID(),
		IdeaID:          v.IdeaID(),
		VersionNumber:   v.VersionNumber(),
		Stage:           string(v.Stage()),
		SynthesizedText: v.SynthesizedText(),
		ReasoningLog:    v.ReasoningLog(),
		Language:        v.Language(),
		CreatedAt:       v.CreatedAt(),
	}
}

func maturityFor(idea domain.Idea, versionCount int) Maturity {
	score := maturity.Score(idea, idea.Profile().FragmentCount(), versionCount, time.Now())
	return Maturity{
		Score: score,
		Label: string(maturity.LabelFor(score)),
		Ready: maturity.Ready(score, 0),
	}
}

func spaceFromDomain(s domain.Space) Space {
	return Space{
		ID:          s.ID(),
		Name:        s.Name(),
		Description: s.Description(),
		Color:       s.Color(),
		CreatedAt:   s.CreatedAt(),
	}
}

func summaryFromReplay(s replay.Summary) ReplaySummary {
	return ReplaySummary{
		Action:       string(s.Action),
		TargetIdeaID: s.TargetIdeaID,
		Confidence:   s.Confidence,
		RuleID:       s.RuleID,
		Reasoning:    s.Reasoning,
	}
}

func reportFromReplay(r replay.Report) ReplayReport {
	report := ReplayReport{
		FragmentID:     r.FragmentID,
		EngineVersion:  r.EngineVersion,
		RuleSetVersion: r.RuleSetVersion,
		Replayed:       summaryFromReplay(r.Replayed),
		DriftDetected:  r.DriftDetected,
		DriftReason:    r.DriftReason,
	}
	if r.Original != nil {
		orig := summaryFromReplay(*r.Original)
		report.Original = &orig
	}
	return report
}
