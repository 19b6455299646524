package corpus

import (
	"context"

	"github.com/kailas-cloud/vecjudge/internal/domain/chunk"
)

// ChunkLoader reads and chunks the documents of a corpus folder.
type ChunkLoader interface {
	Load(ctx context.Context, folder string) ([]chunk.Chunk, error)
}
