package noema

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/noema-labs/noema/internal/domain"
)

// History returns the full decision history of a fragment in recording
// order. Returns ErrNoHistory if the fragment was never ingested.
func (c *Client) History(ctx context.Context, fragmentID uuid.UUID) ([]LogEntry, error) {
	entries, err := c.audit.HistoryFor(ctx, fragmentID)
	if err != nil {
		return nil, fmt.Errorf("noema: fetch history: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("noema: fragment %s: %w", fragmentID, domain.ErrNoHistory)
	}

	out := make([]LogEntry, len(entries))
	for i, e := range entries {
		out[i] = logEntryFromDomain(e)
	}
	return out, nil
}

// RecentLogs returns up to limit of the newest decisions across all
// fragments, oldest first within the window.
func (c *Client) RecentLogs(ctx context.Context, limit int) ([]LogEntry, error) {
	entries, err := c.audit.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("noema: fetch recent logs: %w", err)
	}

	out := make([]LogEntry, len(entries))
	for i, e := range entries {
		out[i] = logEntryFromDomain(e)
	}
	return out, nil
}

// Replay re-runs the decision for an already-ingested fragment against the
// current corpus and engine rules, and compares it with the original
// ledger entry.
func (c *Client) Replay(ctx context.Context, fragmentID uuid.UUID) (ReplayReport, error) {
	report, err := c.replaySvc.Replay(ctx, fragmentID)
	if err != nil {
		return ReplayReport{}, err
	}
	return reportFromReplay(report), nil
}
