package result

import "testing"

func TestNew(t *testing.T) {
	r := New("hello", "kb/a.md", "a.md#0", 0.95)

	if r.Text() != "hello" {
		t.Errorf("Text() = %q", r.Text())
	}
	if r.DocPath() != "kb/a.md" {
		t.Errorf("DocPath() = %q", r.DocPath())
	}
	if r.ChunkID() != "a.md#0" {
		t.Errorf("ChunkID() = %q", r.ChunkID())
	}
	if r.Score() != 0.95 {
		t.Errorf("Score() = %f", r.Score())
	}
}
