package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// IngestRequest is one fragment classification input. Mode and SpaceID are
// optional; empty values select the default mode and the default space.
type IngestRequest struct {
	Text     string `json:"text"`
	Source   string `json:"source,omitempty"`
	Mode     string `json:"mode,omitempty"`
	SpaceID  string `json:"space_id,omitempty"`
	Language string `json:"language,omitempty"`
}

// Ingest classifies one fragment and returns the persisted decision.
func (c *Client) Ingest(ctx context.Context, req IngestRequest) (Decision, error) {
	var dec Decision
	if err := c.do(ctx, http.MethodPost, "/api/v1/ingest", req, &dec); err != nil {
		return Decision{}, err
	}
	return dec, nil
}

// History returns the full decision history of a fragment, oldest first.
func (c *Client) History(ctx context.Context, fragmentID string) ([]LogEntry, error) {
	var resp struct {
		Items []LogEntry `json:"items"`
	}
	path := "/api/v1/audit/fragments/" + url.PathEscape(fragmentID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Replay re-runs the decision for an already-ingested fragment and reports
// drift against the original ledger entry.
func (c *Client) Replay(ctx context.Context, fragmentID string) (ReplayReport, error) {
	var report ReplayReport
	path := "/api/v1/audit/replay/" + url.PathEscape(fragmentID)
	if err := c.do(ctx, http.MethodPost, path, nil, &report); err != nil {
		return ReplayReport{}, err
	}
	return report, nil
}

// Health checks the server health. An unhealthy server answers 503 with a
// report body, so that is still a successful call; only transport failures
// return an error.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return HealthReport{}, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return HealthReport{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return HealthReport{}, apiErrorFromResponse(resp)
	}

	var report HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return HealthReport{}, fmt.Errorf("decode response: %w", err)
	}
	return report, nil
}
