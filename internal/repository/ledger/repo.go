package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/noema-labs/noema/internal/domain"
)

// recentCap bounds the global recent-decisions list. Per-fragment history
// is never trimmed: the ledger is append-only.
const recentCap = 1000

// store is the consumer interface for the ledger (ISP).
type store interface {
	RPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LTrim(ctx context.Context, key string, start, stop int64) error
}

// Repo is the append-only decision ledger. Entries are recorded per
// fragment and mirrored into a capped global list for recent-activity
// queries.
type Repo struct {
	store store
}

// New creates a ledger repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Record appends one decision row. The row is immutable once written.
func (r *Repo) Record(ctx context.Context, fragment domain.Fragment, decision domain.DecisionResult) error {
	row, err := json.Marshal(entryRow{
		FragmentID:   fragment.ID().String(),
		TargetIdeaID: targetString(decision),
		Timestamp:    time.Now().UTC().UnixNano(),
		Action:       string(decision.Action),
		Confidence:   decision.Confidence,
		RuleID:       decision.RuleID,
		Reasoning:    decision.Reasoning,
		Constraints:  decision.Constraints,
	})
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}

	if err := r.store.RPush(ctx, fragmentLedgerKey(fragment.ID().String()), string(row)); err != nil {
		return fmt.Errorf("rpush ledger for fragment %s: %w", fragment.ID(), err)
	}

	if err := r.store.RPush(ctx, recentLedgerKey, string(row)); err != nil {
		return fmt.Errorf("rpush recent ledger: %w", err)
	}
	if err := r.store.LTrim(ctx, recentLedgerKey, -recentCap, -1); err != nil {
		return fmt.Errorf("ltrim recent ledger: %w", err)
	}

	return nil
}

// HistoryFor returns the full decision history of a fragment in recording
// order. An unknown fragment yields an empty history, not an error.
func (r *Repo) HistoryFor(ctx context.Context, fragmentID uuid.UUID) ([]domain.LogEntry, error) {
	rows, err := r.store.LRange(ctx, fragmentLedgerKey(fragmentID.String()), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("lrange ledger for fragment %s: %w", fragmentID, err)
	}
	return parseRows(rows)
}

// Recent returns up to limit of the newest decisions across all fragments,
// oldest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	if limit <= 0 || limit > recentCap {
		limit = recentCap
	}
	rows, err := r.store.LRange(ctx, recentLedgerKey, int64(-limit), -1)
	if err != nil {
		return nil, fmt.Errorf("lrange recent ledger: %w", err)
	}
	return parseRows(rows)
}

func parseRows(rows []string) ([]domain.LogEntry, error) {
	entries := make([]domain.LogEntry, 0, len(rows))
	for _, raw := range rows {
		var row entryRow
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return nil, fmt.Errorf("unmarshal ledger entry: %w", err)
		}

		fragmentID, err := uuid.Parse(row.FragmentID)
		if err != nil {
			return nil, fmt.Errorf("invalid ledger fragment id: %w", err)
		}
		targetID := uuid.Nil
		if row.TargetIdeaID != "" {
			targetID, err = uuid.Parse(row.TargetIdeaID)
			if err != nil {
				return nil, fmt.Errorf("invalid ledger target id: %w", err)
			}
		}

		entries = append(entries, domain.LogEntry{
			FragmentID:   fragmentID,
			TargetIdeaID: targetID,
			Timestamp:    time.Unix(0, row.Timestamp).UTC(),
			Action:       domain.Action(row.Action),
			Confidence:   row.Confidence,
			RuleID:       row.RuleID,
			Reasoning:    row.Reasoning,
			Constraints:  row.Constraints,
		})
	}
	return entries, nil
}

// entryRow is the JSON-serializable ledger row.
type entryRow struct {
	FragmentID   string   `json:"fragment_id"`
	TargetIdeaID string   `json:"target_idea_id,omitempty"`
	Timestamp    int64    `json:"timestamp"`
	Action       string   `json:"action"`
	Confidence   float64  `json:"confidence"`
	RuleID       string   `json:"rule_id"`
	Reasoning    string   `json:"reasoning"`
	Constraints  []string `json:"constraints"`
}

func targetString(decision domain.DecisionResult) string {
	if !decision.HasTarget() {
		return ""
	}
	return decision.TargetIdeaID.String()
}

// Redis key patterns: noema:ledger:fragment:{id}, noema:ledger:recent

const recentLedgerKey = domain.KeyPrefix + "ledger:recent"

func fragmentLedgerKey(id string) string {
	return domain.KeyPrefix + "ledger:fragment:" + id
}
