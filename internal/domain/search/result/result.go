package result

// Result is a single ranked passage.
type Result struct {
	text    string
	docPath string
	chunkID string
	score   float64
}

// New creates a search result.
func New(text, docPath, chunkID string, score float64) Result {
	return Result{text: text, docPath: docPath, chunkID: chunkID, score: score}
}

// Text returns the chunk text.
func (r *Result) Text() string { return r.text }

// DocPath returns the source document of the chunk.
func (r *Result) DocPath() string { return r.docPath }

// ChunkID returns the chunk identifier within DocPath.
func (r *Result) ChunkID() string { return r.chunkID }

// Score returns the cosine similarity, nominally in [0, 1].
func (r *Result) Score() float64 { return r.score }
