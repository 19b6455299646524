package index

import (
	"sync/atomic"

	"github.com/kailas-cloud/vecjudge/internal/domain/search/result"
)

// Holder owns the current Index and swaps it atomically on rebuild.
// In-flight searches keep the snapshot they loaded.
type Holder struct {
	current atomic.Pointer[Index]
}

// NewHolder creates a holder with no index loaded.
func NewHolder() *Holder {
	return &Holder{}
}

// Load returns the current index, or nil if none was built.
func (h *Holder) Load() *Index {
	return h.current.Load()
}

// Swap installs ix and returns the previous index.
func (h *Holder) Swap(ix *Index) *Index {
	return h.current.Swap(ix)
}

// Search queries the current snapshot. No snapshot means no results.
func (h *Holder) Search(query string, k int) []result.Result {
	return h.current.Load().Search(query, k)
}

// Len returns the chunk count of the current snapshot.
func (h *Holder) Len() int {
	return h.current.Load().Len()
}
