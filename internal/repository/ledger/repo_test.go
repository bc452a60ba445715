package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/noema-labs/noema/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	rpushFn  func(ctx context.Context, key string, values ...string) error
	lrangeFn func(ctx context.Context, key string, start, stop int64) ([]string, error)
	ltrimFn  func(ctx context.Context, key string, start, stop int64) error
}

func (m *mockStore) RPush(ctx context.Context, key string, values ...string) error {
	if m.rpushFn != nil {
		return m.rpushFn(ctx, key, values...)
	}
	return nil
}

func (m *mockStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if m.lrangeFn != nil {
		return m.lrangeFn(ctx, key, start, stop)
	}
	return nil, nil
}

func (m *mockStore) LTrim(ctx context.Context, key string, start, stop int64) error {
	if m.ltrimFn != nil {
		return m.ltrimFn(ctx, key, start, stop)
	}
	return nil
}

func testFragment(t *testing.T) domain.Fragment {
	t.Helper()
	f, err := domain.NewFragment("ledger test fragment", "manual", uuid.New(), "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

func TestRecord_WritesFragmentAndRecent(t *testing.T) {
	f := testFragment(t)
	dec := domain.DecisionResult{
		Action:       domain.ActionAttach,
		TargetIdeaID: uuid.New(),
		Confidence:   0.92,
		RuleID:       "HEUR_ATTACH_DEFAULT",
		Reasoning:    "High similarity",
		Constraints:  []string{"engine_v:1.0.0-alpha"},
	}

	pushed := map[string][]string{}
	trimmed := false
	ms := &mockStore{
		rpushFn: func(_ context.Context, key string, values ...string) error {
			pushed[key] = append(pushed[key], values...)
			return nil
		},
		ltrimFn: func(_ context.Context, key string, start, stop int64) error {
			if key != "noema:ledger:recent" {
				t.Errorf("unexpected trim key: %s", key)
			}
			if start != -1000 || stop != -1 {
				t.Errorf("unexpected trim window [%d, %d]", start, stop)
			}
			trimmed = true
			return nil
		},
	}

	r := New(ms)
	if err := r.Record(context.Background(), f, dec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fragmentKey := "noema:ledger:fragment:" + f.ID().String()
	if len(pushed[fragmentKey]) != 1 {
		t.Errorf("expected 1 fragment row, got %d", len(pushed[fragmentKey]))
	}
	if len(pushed["noema:ledger:recent"]) != 1 {
		t.Errorf("expected 1 recent row, got %d", len(pushed["noema:ledger:recent"]))
	}
	if !trimmed {
		t.Error("expected recent list trim")
	}
}

func TestRecord_FragmentPushError(t *testing.T) {
	f := testFragment(t)
	ms := &mockStore{
		rpushFn: func(_ context.Context, _ string, _ ...string) error {
			return errors.New("connection reset")
		},
	}

	r := New(ms)
	err := r.Record(context.Background(), f, domain.DecisionResult{Action: domain.ActionCreateNew})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestHistoryFor_RoundTrip(t *testing.T) {
	f := testFragment(t)
	target := uuid.New()
	dec := domain.DecisionResult{
		Action:       domain.ActionAttach,
		TargetIdeaID: target,
		Confidence:   0.88,
		RuleID:       "HEUR_ATTACH_DEFAULT",
		Reasoning:    "High similarity",
		Constraints:  []string{"engine_v:1.0.0-alpha", "rules_v:2026.01.30-determ"},
	}

	var stored []string
	ms := &mockStore{
		rpushFn: func(_ context.Context, key string, values ...string) error {
			if key == "noema:ledger:fragment:"+f.ID().String() {
				stored = append(stored, values...)
			}
			return nil
		},
		lrangeFn: func(_ context.Context, _ string, _, _ int64) ([]string, error) {
			return stored, nil
		},
	}

	r := New(ms)
	if err := r.Record(context.Background(), f, dec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := r.HistoryFor(context.Background(), f.ID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.FragmentID != f.ID() {
		t.Errorf("fragment id not preserved")
	}
	if e.TargetIdeaID != target {
		t.Errorf("target id not preserved")
	}
	if e.Action != domain.ActionAttach || e.RuleID != "HEUR_ATTACH_DEFAULT" {
		t.Errorf("decision fields not preserved")
	}
	if len(e.Constraints) != 2 {
		t.Errorf("constraints not preserved: %v", e.Constraints)
	}
	if e.Timestamp.IsZero() {
		t.Error("expected timestamp")
	}
}

func TestHistoryFor_EmptyIsNotError(t *testing.T) {
	ms := &mockStore{}
	r := New(ms)

	entries, err := r.HistoryFor(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(entries))
	}
}

func TestRecord_NoTargetOmitsTargetID(t *testing.T) {
	f := testFragment(t)

	var stored []string
	ms := &mockStore{
		rpushFn: func(_ context.Context, key string, values ...string) error {
			if key == "noema:ledger:fragment:"+f.ID().String() {
				stored = append(stored, values...)
			}
			return nil
		},
		lrangeFn: func(_ context.Context, _ string, _, _ int64) ([]string, error) {
			return stored, nil
		},
	}

	r := New(ms)
	dec := domain.DecisionResult{Action: domain.ActionCreateNew, RuleID: "RULE_INIT_001"}
	if err := r.Record(context.Background(), f, dec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := r.HistoryFor(context.Background(), f.ID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries[0].TargetIdeaID != uuid.Nil {
		t.Errorf("expected nil target, got %s", entries[0].TargetIdeaID)
	}
}

func TestRecent_ClampsLimit(t *testing.T) {
	var gotStart int64
	ms := &mockStore{
		lrangeFn: func(_ context.Context, key string, start, stop int64) ([]string, error) {
			if key != "noema:ledger:recent" {
				t.Errorf("unexpected key: %s", key)
			}
			gotStart = start
			return nil, nil
		},
	}

	r := New(ms)
	if _, err := r.Recent(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotStart != -1000 {
		t.Errorf("expected clamped start -1000, got %d", gotStart)
	}

	if _, err := r.Recent(context.Background(), 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotStart != -50 {
		t.Errorf("expected start -50, got %d", gotStart)
	}
}
