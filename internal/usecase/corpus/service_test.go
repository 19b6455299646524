package corpus

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecjudge/internal/domain"
	"github.com/kailas-cloud/vecjudge/internal/domain/chunk"
	"github.com/kailas-cloud/vecjudge/internal/index"
)

type mockLoader struct {
	chunks     []chunk.Chunk
	err        error
	lastFolder string
}

func (m *mockLoader) Load(_ context.Context, folder string) ([]chunk.Chunk, error) {
	m.lastFolder = folder
	return m.chunks, m.err
}

func mustChunk(t *testing.T, path, id, text string) chunk.Chunk {
	t.Helper()
	c, err := chunk.New(path, id, text)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	return c
}

func TestRebuild_SwapsSnapshot(t *testing.T) {
	loader := &mockLoader{chunks: []chunk.Chunk{
		mustChunk(t, "kb/a.md", "a.md#0", "vector search with tf idf"),
		mustChunk(t, "kb/b.md", "b.md#0", "rubric based judging"),
	}}
	holder := index.NewHolder()
	s := New(loader, holder, "kb", 1000, zap.NewNop())

	if got := s.Current(); got.Chunks != 0 || got.SnapshotID != "" {
		t.Errorf("expected empty summary before rebuild, got %+v", got)
	}

	sum, err := s.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loader.lastFolder != "kb" {
		t.Errorf("folder = %q, want kb", loader.lastFolder)
	}
	if sum.Chunks != 2 || sum.SnapshotID == "" {
		t.Errorf("unexpected summary: %+v", sum)
	}
	if holder.Load() == nil || holder.Load().ID() != sum.SnapshotID {
		t.Error("holder does not serve the new snapshot")
	}
	if hits := holder.Search("rubric judging", 1); len(hits) != 1 || hits[0].DocPath() != "kb/b.md" {
		t.Errorf("unexpected search after rebuild: %+v", hits)
	}

	again, err := s.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.SnapshotID == sum.SnapshotID {
		t.Error("rebuild must produce a new snapshot id")
	}
}

func TestRebuild_ErrorKeepsCurrent(t *testing.T) {
	loader := &mockLoader{chunks: []chunk.Chunk{mustChunk(t, "kb/a.md", "a.md#0", "some text here")}}
	holder := index.NewHolder()
	s := New(loader, holder, "kb", 0, zap.NewNop())

	first, err := s.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loader.err = domain.ErrNotFound
	if _, err := s.Rebuild(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if s.Current().SnapshotID != first.SnapshotID {
		t.Error("failed rebuild replaced the served snapshot")
	}
}

func TestRebuild_EmptyCorpus(t *testing.T) {
	s := New(&mockLoader{}, index.NewHolder(), "kb", 0, zap.NewNop())

	sum, err := s.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Chunks != 0 {
		t.Errorf("chunks = %d, want 0", sum.Chunks)
	}
}
