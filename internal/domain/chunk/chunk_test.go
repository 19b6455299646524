package chunk

import "testing"

func TestNew(t *testing.T) {
	c, err := New("kb/a.md", "a.md#0", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.DocPath() != "kb/a.md" || c.ID() != "a.md#0" || c.Text() != "hello" {
		t.Errorf("unexpected chunk %+v", c)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New("", "x#0", "t"); err == nil {
		t.Error("expected error for empty doc_path")
	}
	if _, err := New("a", "", "t"); err == nil {
		t.Error("expected error for empty chunk_id")
	}
}

func TestID(t *testing.T) {
	if got := ID("notes.md", 3); got != "notes.md#3" {
		t.Errorf("ID() = %q", got)
	}
}
