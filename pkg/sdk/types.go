package sdk

import "time"

// Decision is the classification outcome for one ingested fragment.
type Decision struct {
	FragmentID   string   `json:"fragment_id"`
	Action       string   `json:"action"`
	TargetIdeaID string   `json:"target_idea_id,omitempty"`
	Confidence   float64  `json:"confidence"`
	Reasoning    string   `json:"reasoning"`
	RuleID       string   `json:"rule_id"`
	Constraints  []string `json:"constraints,omitempty"`
}

// LogEntry is one row of a fragment's decision history.
type LogEntry struct {
	FragmentID   string    `json:"fragment_id"`
	TargetIdeaID string    `json:"target_idea_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Action       string    `json:"action"`
	Confidence   float64   `json:"confidence"`
	RuleID       string    `json:"rule_id"`
	Reasoning    string    `json:"reasoning"`
	Constraints  []string  `json:"constraints,omitempty"`
}

// ReplaySummary condenses one decision for drift comparison.
type ReplaySummary struct {
	Action       string  `json:"action"`
	TargetIdeaID string  `json:"target_idea_id,omitempty"`
	Confidence   float64 `json:"confidence"`
	RuleID       string  `json:"rule_id"`
	Reasoning    string  `json:"reasoning"`
}

// ReplayReport compares a historical decision with a fresh run against the
// current corpus and rules.
type ReplayReport struct {
	FragmentID     string         `json:"fragment_id"`
	EngineVersion  string         `json:"engine_version"`
	RuleSetVersion string         `json:"rule_set_version"`
	Original       *ReplaySummary `json:"original,omitempty"`
	Replayed       ReplaySummary  `json:"replayed"`
	DriftDetected  bool           `json:"drift_detected"`
	DriftReason    string         `json:"drift_reason,omitempty"`
}

// HealthReport is the server health summary.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
