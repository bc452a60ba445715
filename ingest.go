package noema

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/noema-labs/noema/internal/usecase/decision"
	ingestuc "github.com/noema-labs/noema/internal/usecase/ingest"
)

// IngestOptions tune one ingestion call. The zero value selects the default
// mode, the default space, and English.
type IngestOptions struct {
	Mode     string // ModeDefault, ModeExplorer, ModeConsolidator
	SpaceID  uuid.UUID
	Language string // "en" (default) or "es"
}

// BatchItem is one batch ingestion input.
type BatchItem struct {
	Text     string
	Source   string
	Language string
}

// BatchResult is one batch ingestion outcome.
type BatchResult struct {
	Decision Decision
	Err      error
}

// ProcessText runs the full ingestion pipeline for one fragment: embed,
// retrieve candidates in the space, classify, persist, and record the
// decision in the ledger. Identical text always maps to the same fragment
// identity.
func (c *Client) ProcessText(ctx context.Context, text, source string, opts *IngestOptions) (Decision, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}
	mode, err := decision.ParseMode(opts.Mode)
	if err != nil {
		return Decision{}, fmt.Errorf("noema: %w", err)
	}

	dec, err := c.ingestSvc.ProcessText(ctx, text, source, mode, opts.SpaceID, opts.Language)
	if err != nil {
		return Decision{}, err
	}
	return decisionFromDomain(dec), nil
}

// ProcessBatch ingests items strictly sequentially. A failing item is
// reported in its result and does not abort the rest.
func (c *Client) ProcessBatch(ctx context.Context, items []BatchItem, opts *IngestOptions) ([]BatchResult, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}
	mode, err := decision.ParseMode(opts.Mode)
	if err != nil {
		return nil, fmt.Errorf("noema: %w", err)
	}

	in := make([]ingestuc.Item, len(items))
	for i, item := range items {
		in[i] = ingestuc.Item{Text: item.Text, Source: item.Source, Language: item.Language}
	}

	results := c.ingestSvc.ProcessBatch(ctx, in, mode, opts.SpaceID)

	out := make([]BatchResult, len(results))
	for i, res := range results {
		out[i] = BatchResult{Decision: decisionFromDomain(res.Decision), Err: res.Err}
	}
	return out, nil
}
