package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:8080/")
	if c.baseURL != "http://localhost:8080" {
		t.Errorf("baseURL = %q, want trimmed", c.baseURL)
	}
}

func TestOptions(t *testing.T) {
	custom := &http.Client{}
	c := New("http://x", WithHTTPClient(custom))
	if c.http != custom {
		t.Error("expected custom http client")
	}

	c2 := New("http://x", WithTimeout(5*time.Second))
	if c2.http.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", c2.http.Timeout)
	}
}

func TestIngest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/ingest" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}

		var req IngestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Text != "note text" || req.Mode != "explorer" {
			t.Errorf("unexpected payload: %+v", req)
		}

		json.NewEncoder(w).Encode(Decision{
			FragmentID: "5a0b4f76-0000-5000-8000-000000000001",
			Action:     "CREATE_NEW",
			Confidence: 1.0,
			RuleID:     "RULE_INIT_001",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	dec, err := c.Ingest(context.Background(), IngestRequest{Text: "note text", Mode: "explorer"})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if dec.Action != "CREATE_NEW" || dec.RuleID != "RULE_INIT_001" {
		t.Errorf("decision = %+v", dec)
	}
	if dec.FragmentID == "" {
		t.Error("expected fragment id in decision")
	}
}

func TestIngest_ValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    CodeValidationFailed,
			"message": "text is required",
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Ingest(context.Background(), IngestRequest{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Code != CodeValidationFailed || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if apiErr.NotFound() {
		t.Error("400 must not report NotFound")
	}
}

func TestHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/audit/fragments/abc-123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"fragment_id": "abc-123",
			"items": []LogEntry{
				{FragmentID: "abc-123", Action: "CREATE_NEW", RuleID: "RULE_INIT_001"},
				{FragmentID: "abc-123", Action: "ATTACH", RuleID: "HEUR_ATTACH_DEFAULT"},
			},
		})
	}))
	defer srv.Close()

	entries, err := New(srv.URL).History(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Action != "CREATE_NEW" || entries[1].Action != "ATTACH" {
		t.Errorf("unexpected order: %+v", entries)
	}
}

func TestHistory_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    CodeFragmentNotFound,
			"message": "no decision history for fragment",
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL).History(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if !apiErr.NotFound() {
		t.Error("expected NotFound")
	}
	if apiErr.Code != CodeFragmentNotFound {
		t.Errorf("code = %q", apiErr.Code)
	}
}

func TestReplay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		json.NewEncoder(w).Encode(ReplayReport{
			FragmentID:    "abc-123",
			Original:      &ReplaySummary{Action: "CREATE_NEW"},
			Replayed:      ReplaySummary{Action: "ATTACH"},
			DriftDetected: true,
			DriftReason:   "Action changed from CREATE_NEW to ATTACH",
		})
	}))
	defer srv.Close()

	report, err := New(srv.URL).Replay(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if !report.DriftDetected {
		t.Error("expected drift")
	}
	if report.Original == nil || report.Original.Action != "CREATE_NEW" {
		t.Errorf("original = %+v", report.Original)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(HealthReport{
			Status: "ok",
			Checks: map[string]string{"database": "ok", "ai_provider": "ok"},
		})
	}))
	defer srv.Close()

	report, err := New(srv.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if report.Status != "ok" || report.Checks["database"] != "ok" {
		t.Errorf("report = %+v", report)
	}
}

func TestHealth_Unhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(HealthReport{
			Status: "error",
			Checks: map[string]string{"database": "error"},
		})
	}))
	defer srv.Close()

	report, err := New(srv.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if report.Status != "error" {
		t.Errorf("status = %q, want error", report.Status)
	}
}

func TestAPIError_OpaqueBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Ingest(context.Background(), IngestRequest{Text: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Code != CodeInternalError {
		t.Errorf("code = %q, want fallback internal_error", apiErr.Code)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
}
