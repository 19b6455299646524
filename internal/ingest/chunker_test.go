package ingest

import (
	"strings"
	"testing"
)

func TestSplit_Empty(t *testing.T) {
	if got := Split("", 0, 100); len(got) != 0 {
		t.Errorf("expected no chunks, got %q", got)
	}
	if got := Split("  \n\n \n ", 0, 100); len(got) != 0 {
		t.Errorf("expected no chunks for whitespace, got %q", got)
	}
}

func TestSplit_MergesParagraphs(t *testing.T) {
	text := "alpha\n\nbeta\n   \ngamma"
	got := Split(text, 1, 100)
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %q", len(got), got)
	}
	if got[0] != "alpha\nbeta\ngamma" {
		t.Errorf("unexpected chunk %q", got[0])
	}
}

func TestSplit_FlushesAtMax(t *testing.T) {
	// "aaaa" + "\n" + "bbbb" = 9 chars, next paragraph would need 9+4+1 > 10.
	text := "aaaa\n\nbbbb\n\ncccc"
	got := Split(text, 1, 10)
	want := []string{"aaaa\nbbbb", "cccc"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplit_BoundaryIsInclusive(t *testing.T) {
	// curLen(4) + pLen(4) + 1 == 9 fits exactly.
	got := Split("aaaa\n\nbbbb", 1, 9)
	if len(got) != 1 || got[0] != "aaaa\nbbbb" {
		t.Errorf("got %q", got)
	}
}

func TestSplit_OversizedParagraphKept(t *testing.T) {
	long := strings.Repeat("x", 50)
	got := Split("short\n\n"+long+"\n\ntail", 1, 10)
	want := []string{"short", long, "tail"}
	if len(got) != len(want) {
		t.Fatalf("got %q", got)
	}
	if got[1] != long {
		t.Errorf("oversized paragraph truncated: %q", got[1])
	}
}

func TestSplit_DropsShortBuffers(t *testing.T) {
	// "tiny" is dropped mid-stream, "end" is dropped at the end.
	long := strings.Repeat("y", 20)
	got := Split("tiny\n\n"+long+"\n\nend", 10, 20)
	if len(got) != 1 || got[0] != long {
		t.Errorf("got %q, want only the long paragraph", got)
	}
}

func TestSplit_ShortDocumentYieldsNothing(t *testing.T) {
	if got := Split("just a sentence", DefaultMinChunkChars, DefaultMaxChunkChars); len(got) != 0 {
		t.Errorf("expected short document to be dropped, got %q", got)
	}
}

func TestSplit_CountsCharactersNotBytes(t *testing.T) {
	// Each paragraph is 4 runes but 8 bytes.
	got := Split("смыс\n\nслов", 1, 9)
	if len(got) != 1 {
		t.Errorf("expected runes to be counted, got %q", got)
	}
}
