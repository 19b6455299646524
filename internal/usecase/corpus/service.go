package corpus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecjudge/internal/index"
	logpkg "github.com/kailas-cloud/vecjudge/internal/logger"
	"github.com/kailas-cloud/vecjudge/internal/metrics"
)

// Summary describes the index snapshot currently served.
type Summary struct {
	Chunks     int       `json:"chunks"`
	SnapshotID string    `json:"snapshot_id"`
	BuiltAt    time.Time `json:"built_at"`
}

// Service rebuilds the served index from the configured corpus folder.
type Service struct {
	loader      ChunkLoader
	holder      *index.Holder
	folder      string
	maxFeatures int
	logger      *zap.Logger

	mu sync.Mutex // serializes rebuilds
}

// New creates a corpus service that publishes snapshots into holder.
func New(loader ChunkLoader, holder *index.Holder, folder string, maxFeatures int, logger *zap.Logger) *Service {
	return &Service{
		loader:      loader,
		holder:      holder,
		folder:      folder,
		maxFeatures: maxFeatures,
		logger:      logger,
	}
}

// Rebuild loads the corpus, builds a fresh snapshot and swaps it in.
// In-flight searches keep the previous snapshot. On error the served
// snapshot is left untouched.
func (s *Service) Rebuild(ctx context.Context) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	chunks, err := s.loader.Load(ctx, s.folder)
	if err != nil {
		return Summary{}, fmt.Errorf("load corpus: %w", err)
	}

	ix := index.Build(chunks, index.WithMaxFeatures(s.maxFeatures))
	prev := s.holder.Swap(ix)

	elapsed := time.Since(start)
	metrics.IndexBuildDuration.Observe(elapsed.Seconds())
	metrics.IndexChunks.Set(float64(ix.Len()))
	metrics.IndexVocabularySize.Set(float64(ix.VocabularySize()))

	logpkg.FromContext(ctx, s.logger).Info("Index rebuilt",
		zap.String("snapshot_id", ix.ID()),
		zap.String("previous_snapshot_id", prev.ID()),
		zap.Int("chunks", ix.Len()),
		zap.Int("vocabulary", ix.VocabularySize()),
		zap.Duration("duration", elapsed),
	)
	return summarize(ix), nil
}

// Current describes the snapshot being served. Zero chunks when none is loaded.
func (s *Service) Current() Summary {
	return summarize(s.holder.Load())
}

func summarize(ix *index.Index) Summary {
	return Summary{Chunks: ix.Len(), SnapshotID: ix.ID(), BuiltAt: ix.BuiltAt()}
}
