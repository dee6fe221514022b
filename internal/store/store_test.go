package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked in TestFileDatabaseUsesWAL.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDatabaseUsesWAL(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{tableKV, tableLLMEvents, "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KV().Save(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, ok, err := s.KV().Load(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("load after reopen: ok=%v err=%v", ok, err)
	}
	if string(got) != "v" {
		t.Errorf("value = %q, want v", got)
	}
}

func TestKVRoundTrip(t *testing.T) {
	s := openTestStore(t)
	store := s.KV()
	ctx := context.Background()

	if _, ok, err := store.Load(ctx, "users"); err != nil || ok {
		t.Fatalf("load missing: ok=%v err=%v", ok, err)
	}

	if err := store.Save(ctx, "users", []byte(`[{"id":"u1"}]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "users", []byte(`[{"id":"u2"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	v, ok, err := store.Load(ctx, "users")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(v, []byte(`[{"id":"u2"}]`)) {
		t.Errorf("value = %s, want overwritten blob", v)
	}

	if err := store.Delete(ctx, "users"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Load(ctx, "users"); ok {
		t.Error("expected key to be gone after delete")
	}
	if err := store.Delete(ctx, "users"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestKVEmptyValue(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.KV().Save(ctx, "empty", nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	v, ok, err := s.KV().Load(ctx, "empty")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if len(v) != 0 {
		t.Errorf("expected empty value, got %q", v)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "mock-1", Purpose: "question-gen", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true, RequestBody: "req-1", ResponseBody: "resp-1"},
		{Provider: "mock", Model: "mock-1", Purpose: "quiz-extract", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: false, ErrorMessage: "rate limited"},
		{Provider: "mock", Model: "mock-2", Purpose: "question-gen", InputTokens: 5, OutputTokens: 5, LatencyMs: 200, Success: true},
	}
	for i, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Model != "mock-2" || all[2].RequestBody != "req-1" {
		t.Errorf("events not newest first: %+v", all)
	}
	if all[1].Success || all[1].ErrorMessage != "rate limited" {
		t.Errorf("failure not recorded: %+v", all[1])
	}
	if time.Since(all[0].Timestamp) > time.Minute {
		t.Errorf("timestamp not recent: %v", all[0].Timestamp)
	}

	limited, _ := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("limit: got %d", len(limited))
	}

	gen, _ := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "question-gen"})
	if len(gen) != 2 {
		t.Errorf("purpose filter: got %d, want 2", len(gen))
	}

	after, _ := repo.QueryLLMEvents(ctx, QueryOpts{After: all[2].Sequence})
	if len(after) != 2 {
		t.Errorf("after filter: got %d, want 2", len(after))
	}

	got, err := repo.GetLLMEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ResponseBody != "resp-1" {
		t.Errorf("get returned %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("missing event: got %+v, %v", missing, err)
	}
}

func TestLLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "a", Purpose: "question-gen", InputTokens: 10, OutputTokens: 1, LatencyMs: 100},
		{Model: "a", Purpose: "question-gen", InputTokens: 20, OutputTokens: 2, LatencyMs: 300},
		{Model: "b", Purpose: "quiz-extract", InputTokens: 5, OutputTokens: 5, LatencyMs: 50},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	gen := byPurpose[0]
	if gen.Purpose != "question-gen" || gen.Calls != 2 || gen.InputTokens != 30 || gen.OutputTokens != 3 || gen.AvgLatencyMs != 200 {
		t.Errorf("question-gen usage = %+v", gen)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Model != "b" || byModel[1].Calls != 1 {
		t.Errorf("model usage = %+v", byModel)
	}
}
