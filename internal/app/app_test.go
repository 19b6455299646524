package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecjudge/internal/config"
	healthuc "github.com/kailas-cloud/vecjudge/internal/usecase/health"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	kb := filepath.Join(root, "kb")
	rules := filepath.Join(root, "rules")
	for _, dir := range []string{kb, rules} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	doc := "Sparse retrieval ranks passages by tf-idf weighted cosine similarity between query and chunk vectors."
	if err := os.WriteFile(filepath.Join(kb, "retrieval.md"), []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	rubric := "name: default\nrules:\n  - id: r1\n    description: mentions cosine\n    checker: contains_any\n    params:\n      terms: [cosine]\n"
	if err := os.WriteFile(filepath.Join(rules, "example_rubric.yaml"), []byte(rubric), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Corpus.Path = kb
	cfg.Corpus.MinChunkChars = 10
	cfg.Judge.RubricDir = rules
	return cfg
}

func TestNew_WiresServicesWithoutOptionalBackends(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.Semantic.IsAvailable() {
		t.Error("semantic must be unavailable without an API key")
	}

	report := a.Health.Check(context.Background())
	if report.Checks["semantic"] != healthuc.CheckDisabled || report.Checks["cache"] != healthuc.CheckDisabled {
		t.Errorf("unexpected checks: %v", report.Checks)
	}
	if report.Checks["index"] != healthuc.CheckEmpty {
		t.Errorf("index = %q before rebuild", report.Checks["index"])
	}

	sum, err := a.Corpus.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if sum.Chunks != 1 {
		t.Fatalf("chunks = %d, want 1", sum.Chunks)
	}

	ans, err := a.Ask.Ask(context.Background(), "cosine similarity", 0)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(ans.Sources) != 1 {
		t.Fatalf("sources = %v", ans.Sources)
	}

	res, err := a.Judge.JudgeByID(context.Background(), "q", ans.Answer, nil, "")
	if err != nil {
		t.Fatalf("JudgeByID: %v", err)
	}
	if !res.Passed || res.Rubric.Name != "default" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestBuildSemantic_EnabledWithKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Semantic.APIKey = "sk-test"

	if !buildSemantic(cfg, nil, zap.NewNop()).IsAvailable() {
		t.Error("expected available semantic capability")
	}
}

func TestNew_CacheUnreachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Enabled = true
	cfg.Cache.Addrs = []string{"127.0.0.1:1"}
	cfg.Cache.ReadinessTimeout = 1

	if _, err := New(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for unreachable cache")
	}
}
