package ingest

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Default chunk bounds in characters.
const (
	DefaultMinChunkChars = 300
	DefaultMaxChunkChars = 1200
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// Split greedily packs blank-line separated paragraphs into chunks of at most
// maxChars characters, joining paragraphs with a single newline.
//
// Buffers shorter than minChars are dropped, both mid-stream and at the end of
// the text, so short documents may yield nothing. A single paragraph longer
// than maxChars becomes its own oversized chunk. minChars > maxChars is a
// configuration error the caller must prevent.
func Split(text string, minChars, maxChars int) []string {
	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)

	flush := func() {
		if curLen > 0 && curLen >= minChars {
			chunks = append(chunks, cur.String())
		}
		cur.Reset()
		curLen = 0
	}

	for _, p := range paragraphBreak.Split(strings.TrimSpace(text), -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		pLen := utf8.RuneCountInString(p)

		if curLen+pLen+1 <= maxChars {
			if curLen > 0 {
				cur.WriteByte('\n')
				curLen++
			}
			cur.WriteString(p)
			curLen += pLen
			continue
		}

		flush()
		cur.WriteString(p)
		curLen = pLen
	}
	flush()

	return chunks
}
