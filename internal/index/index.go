// Package index is an in-memory tf-idf vector space over chunks with cosine search.
//
// An Index is immutable once built; concurrent Search calls need no locking.
// Rebuilding produces a new Index that a Holder swaps in atomically.
package index

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/vecjudge/internal/domain/chunk"
	"github.com/kailas-cloud/vecjudge/internal/domain/search/result"
)

// Index owns a fitted vectorizer, one weight row per chunk, and the chunks themselves.
type Index struct {
	id      string
	model   *vectorizer
	rows    []sparseVector
	chunks  []chunk.Chunk
	builtAt time.Time
}

type buildOptions struct {
	maxFeatures int
}

// Option configures Build.
type Option func(*buildOptions)

// WithMaxFeatures caps the vocabulary size. Non-positive values keep the default.
func WithMaxFeatures(n int) Option {
	return func(o *buildOptions) {
		if n > 0 {
			o.maxFeatures = n
		}
	}
}

// Build fits the vector space over chunks. An empty input yields an empty
// Index that answers every search with no results.
func Build(chunks []chunk.Chunk, opts ...Option) *Index {
	o := buildOptions{maxFeatures: DefaultMaxFeatures}
	for _, opt := range opts {
		opt(&o)
	}

	ix := &Index{
		id:      uuid.NewString(),
		chunks:  append([]chunk.Chunk(nil), chunks...),
		builtAt: time.Now(),
	}
	if len(chunks) == 0 {
		return ix
	}

	counts := make([]map[string]int, len(chunks))
	for i := range chunks {
		counts[i] = termCounts(chunks[i].Text())
	}

	ix.model = fit(counts, o.maxFeatures)
	ix.rows = make([]sparseVector, len(chunks))
	for i := range counts {
		ix.rows[i] = ix.model.transform(counts[i])
	}
	return ix
}

// Search returns up to k chunks ranked by cosine similarity, highest first.
// Ties keep corpus order. A nil or empty Index returns no results.
func (ix *Index) Search(query string, k int) []result.Result {
	if ix == nil || ix.model == nil || k <= 0 {
		return nil
	}

	q := ix.model.transform(termCounts(query))

	scores := make([]float64, len(ix.rows))
	order := make([]int, len(ix.rows))
	for i := range ix.rows {
		scores[i] = dot(q, ix.rows[i])
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	out := make([]result.Result, k)
	for rank, i := range order[:k] {
		c := ix.chunks[i]
		out[rank] = result.New(c.Text(), c.DocPath(), c.ID(), scores[i])
	}
	return out
}

// ID identifies this build.
func (ix *Index) ID() string {
	if ix == nil {
		return ""
	}
	return ix.id
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.chunks)
}

// VocabularySize returns the number of terms in the fitted vocabulary.
func (ix *Index) VocabularySize() int {
	if ix == nil || ix.model == nil {
		return 0
	}
	return len(ix.model.idf)
}

// BuiltAt returns the build time.
func (ix *Index) BuiltAt() time.Time {
	if ix == nil {
		return time.Time{}
	}
	return ix.builtAt
}
