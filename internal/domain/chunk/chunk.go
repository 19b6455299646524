// Package chunk holds the unit of retrieval.
package chunk

import (
	"fmt"
	"strconv"
)

// Chunk is a bounded slice of a source document. ID is unique within DocPath only.
type Chunk struct {
	docPath string
	id      string
	text    string
}

// New validates and creates a chunk.
func New(docPath, id, text string) (Chunk, error) {
	if docPath == "" {
		return Chunk{}, fmt.Errorf("doc_path is required")
	}
	if id == "" {
		return Chunk{}, fmt.Errorf("chunk_id is required")
	}
	return Chunk{docPath: docPath, id: id, text: text}, nil
}

// ID formats the per-document chunk identifier, e.g. "notes.md#2".
func ID(baseName string, n int) string {
	return baseName + "#" + strconv.Itoa(n)
}

// DocPath returns the source document identifier.
func (c Chunk) DocPath() string { return c.docPath }

// ID returns the chunk identifier.
func (c Chunk) ID() string { return c.id }

// Text returns the chunk content.
func (c Chunk) Text() string { return c.text }
