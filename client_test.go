package noema

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithRedis("localhost:6379", "secret").apply(cfg)
	if cfg.driver != "redis" {
		t.Errorf("driver = %q, want redis", cfg.driver)
	}
	if cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addr = %q, want localhost:6379", cfg.addrs[0])
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}

	WithRedisAuth("svc", 3).apply(cfg)
	if cfg.username != "svc" || cfg.db != 3 {
		t.Errorf("auth = (%q, %d), want (svc, 3)", cfg.username, cfg.db)
	}

	cfg2 := &clientConfig{}
	WithOpenAI("sk-test", "https://proxy.local/v1", "text-embedding-3-small", "gpt-4o-mini").apply(cfg2)
	if cfg2.provider != "openai" {
		t.Errorf("provider = %q, want openai", cfg2.provider)
	}
	if cfg2.apiKey != "sk-test" || cfg2.baseURL != "https://proxy.local/v1" {
		t.Errorf("credentials not applied: %+v", cfg2)
	}
	if cfg2.embModel != "text-embedding-3-small" || cfg2.chatModel != "gpt-4o-mini" {
		t.Errorf("models not applied: %+v", cfg2)
	}

	cfg3 := &clientConfig{}
	WithVectorDimensions(768).apply(cfg3)
	if cfg3.vectorDimensions != 768 {
		t.Errorf("vectorDimensions = %d, want 768", cfg3.vectorDimensions)
	}

	WithHNSW(32, 400).apply(cfg3)
	if cfg3.hnswM != 32 || cfg3.hnswEFConstruct != 400 {
		t.Errorf("hnsw = (%d, %d), want (32, 400)", cfg3.hnswM, cfg3.hnswEFConstruct)
	}

	WithEmbeddingCacheTTL(time.Hour).apply(cfg3)
	if cfg3.cacheTTL != time.Hour {
		t.Errorf("cacheTTL = %v, want 1h", cfg3.cacheTTL)
	}

	cfg4 := &clientConfig{}
	logger := zap.NewNop()
	WithLogger(logger).apply(cfg4)
	if cfg4.logger != logger {
		t.Error("expected logger to be set")
	}
}

func TestWithEmbedder(t *testing.T) {
	cfg := &clientConfig{}
	WithEmbedder(fixtureEmbedder()).apply(cfg)
	if cfg.embedder == nil {
		t.Error("expected non-nil embedder")
	}
}

func TestConnectStore_UnknownDriver(t *testing.T) {
	c := &Client{}
	err := c.connectStore(context.Background(), &clientConfig{driver: "sqlite"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), "sqlite") {
		t.Errorf("error %q should name the driver", err)
	}
}

func TestWireProviders_UnknownProvider(t *testing.T) {
	c := &Client{}
	if err := c.connectStore(context.Background(), &clientConfig{driver: "memory"}); err != nil {
		t.Fatalf("connectStore: %v", err)
	}
	err := c.wireProviders(&clientConfig{provider: "oracle", logger: zap.NewNop()})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestClient_Close_NilStore(t *testing.T) {
	c := &Client{}
	c.Close() // must not panic without a close function
}

func TestEmbedderAdapter(t *testing.T) {
	adapter := &embedderAdapter{inner: fixtureEmbedder()}
	res, err := adapter.Embed(context.Background(), "anchor thought")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embedding) != 4 {
		t.Errorf("embedding len = %d, want 4", len(res.Embedding))
	}
}

func TestEmbedderAdapter_Error(t *testing.T) {
	adapter := &embedderAdapter{inner: &mockEmbedder{
		fn: func(_ context.Context, _ string) ([]float32, error) {
			return nil, errors.New("provider down")
		},
	}}
	if _, err := adapter.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error from adapter")
	}
}

func TestNew_DefaultsOffline(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	status, checks := c.Health(ctx)
	if status != "ok" {
		t.Errorf("status = %q, want ok (checks: %v)", status, checks)
	}
	if checks["database"] != "ok" {
		t.Errorf("database check = %q, want ok", checks["database"])
	}
}

// With the deterministic provider, ingesting the same text twice attaches
// the repeat to the idea seeded by the first pass.
func TestProcessText_DeterministicRepeat(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	text := "spaced repetition beats cramming for retention"

	first, err := c.ProcessText(ctx, text, "note", nil)
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if first.Action != ActionCreateNew {
		t.Fatalf("first action = %s, want CREATE_NEW", first.Action)
	}
	if first.RuleID != "RULE_INIT_001" {
		t.Errorf("first rule = %q, want RULE_INIT_001", first.RuleID)
	}

	second, err := c.ProcessText(ctx, text, "note", nil)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if second.Action != ActionAttach {
		t.Fatalf("second action = %s, want ATTACH", second.Action)
	}
	wantIdea := IdeaID(FragmentID(text))
	if second.TargetIdeaID != wantIdea {
		t.Errorf("target = %s, want %s", second.TargetIdeaID, wantIdea)
	}
}

func TestProcessText_InvalidMode(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	_, err = c.ProcessText(ctx, "some text", "note", &IngestOptions{Mode: "chaotic"})
	if !errors.Is(err, ErrInvalidMode) {
		t.Errorf("err = %v, want ErrInvalidMode", err)
	}
}

// Full lifecycle against the embedded store with steered similarities:
// genesis, a merge proposal in the ambiguity band, an attachment, history,
// and replay drift once the corpus has grown past the original decision.
func TestClient_Lifecycle(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, WithEmbedder(fixtureEmbedder()), WithVectorDimensions(4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	anchor, err := c.ProcessText(ctx, "anchor thought", "note", nil)
	if err != nil {
		t.Fatalf("ingest anchor: %v", err)
	}
	if anchor.Action != ActionCreateNew {
		t.Fatalf("anchor action = %s, want CREATE_NEW", anchor.Action)
	}
	ideaID := IdeaID(FragmentID("anchor thought"))

	mid, err := c.ProcessText(ctx, "mid thought", "note", nil)
	if err != nil {
		t.Fatalf("ingest mid: %v", err)
	}
	if mid.Action != ActionMergeProposal {
		t.Fatalf("mid action = %s, want MERGE_PROPOSAL", mid.Action)
	}
	if mid.TargetIdeaID != ideaID {
		t.Errorf("mid target = %s, want %s", mid.TargetIdeaID, ideaID)
	}

	near, err := c.ProcessText(ctx, "near thought", "note", nil)
	if err != nil {
		t.Fatalf("ingest near: %v", err)
	}
	if near.Action != ActionAttach {
		t.Fatalf("near action = %s, want ATTACH", near.Action)
	}

	ideas, err := c.Ideas(ctx, uuid.Nil)
	if err != nil {
		t.Fatalf("Ideas: %v", err)
	}
	if len(ideas) != 1 {
		t.Fatalf("ideas = %d, want 1 (merge proposal must not create)", len(ideas))
	}
	if ideas[0].FragmentCount != 2 {
		t.Errorf("fragment count = %d, want 2", ideas[0].FragmentCount)
	}

	versions, err := c.IdeaVersions(ctx, ideaID)
	if err != nil {
		t.Fatalf("IdeaVersions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("versions = %d, want 2", len(versions))
	}
	if versions[0].VersionNumber != 1 || versions[1].VersionNumber != 2 {
		t.Errorf("version numbers = %d, %d, want 1, 2",
			versions[0].VersionNumber, versions[1].VersionNumber)
	}

	mat, err := c.IdeaMaturity(ctx, ideaID)
	if err != nil {
		t.Fatalf("IdeaMaturity: %v", err)
	}
	if mat.Score <= 0 {
		t.Errorf("maturity score = %d, want > 0", mat.Score)
	}
	if mat.Label == "" {
		t.Error("expected a maturity label")
	}

	history, err := c.History(ctx, FragmentID("anchor thought"))
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].Action != ActionCreateNew {
		t.Fatalf("anchor history = %+v, want single CREATE_NEW entry", history)
	}

	// The anchor's own idea now dominates its neighborhood, so replaying
	// the genesis decision flips to ATTACH and reports drift.
	report, err := c.Replay(ctx, FragmentID("anchor thought"))
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if report.Original == nil || report.Original.Action != ActionCreateNew {
		t.Fatalf("original = %+v, want CREATE_NEW", report.Original)
	}
	if report.Replayed.Action != ActionAttach {
		t.Errorf("replayed action = %s, want ATTACH", report.Replayed.Action)
	}
	if !report.DriftDetected {
		t.Error("expected drift after the corpus grew")
	}
	if !strings.Contains(report.DriftReason, "Action changed") {
		t.Errorf("drift reason = %q, want action change", report.DriftReason)
	}
}

func TestHistory_UnknownFragment(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	_, err = c.History(ctx, uuid.New())
	if !errors.Is(err, ErrNoHistory) {
		t.Errorf("err = %v, want ErrNoHistory", err)
	}
}

func TestRecentLogs_WindowCoversNewest(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, WithEmbedder(fixtureEmbedder()), WithVectorDimensions(4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	for _, text := range []string{"anchor thought", "far thought"} {
		if _, err := c.ProcessText(ctx, text, "note", nil); err != nil {
			t.Fatalf("ingest %q: %v", text, err)
		}
	}

	logs, err := c.RecentLogs(ctx, 1)
	if err != nil {
		t.Fatalf("RecentLogs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(logs))
	}
	if logs[0].FragmentID != FragmentID("far thought") {
		t.Errorf("newest entry is %s, want the last ingested fragment", logs[0].FragmentID)
	}
}

func TestProcessBatch_PartialFailure(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	results, err := c.ProcessBatch(ctx, []BatchItem{
		{Text: "a perfectly fine fragment", Source: "batch"},
		{Text: "", Source: "batch"},
	}, nil)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Err != nil {
		t.Errorf("first item failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("expected error for empty text")
	}
	if results[1].Decision.Action != "" {
		t.Errorf("failed item carries decision %q", results[1].Decision.Action)
	}
}

// Candidate retrieval never crosses space boundaries.
func TestSpaces_IsolateRetrieval(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, WithEmbedder(fixtureEmbedder()), WithVectorDimensions(4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if _, err := c.ProcessText(ctx, "anchor thought", "note", nil); err != nil {
		t.Fatalf("ingest in default space: %v", err)
	}

	sp, err := c.CreateSpace(ctx, "Research", "experiments", "#00ff00")
	if err != nil {
		t.Fatalf("CreateSpace: %v", err)
	}
	if sp.Name != "Research" {
		t.Errorf("name = %q, want Research", sp.Name)
	}

	// Same vector neighborhood, different space: no candidates visible.
	dec, err := c.ProcessText(ctx, "near thought", "note", &IngestOptions{SpaceID: sp.ID})
	if err != nil {
		t.Fatalf("ingest in space: %v", err)
	}
	if dec.RuleID != "RULE_INIT_001" {
		t.Errorf("rule = %q, want RULE_INIT_001 (empty space)", dec.RuleID)
	}

	spaces, err := c.Spaces(ctx)
	if err != nil {
		t.Fatalf("Spaces: %v", err)
	}
	if len(spaces) != 1 {
		t.Fatalf("spaces = %d, want 1", len(spaces))
	}

	if err := c.DeleteSpace(ctx, sp.ID); err != nil {
		t.Fatalf("DeleteSpace: %v", err)
	}
	if _, err := c.Space(ctx, sp.ID); !errors.Is(err, ErrSpaceNotFound) {
		t.Errorf("err = %v, want ErrSpaceNotFound", err)
	}
}

func TestCreateSpace_EmptyName(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if _, err := c.CreateSpace(ctx, "", "", ""); err == nil {
		t.Fatal("expected error for empty name")
	}
}
