package index

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var wordRun = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// tokens lower-cases text and returns word runs of at least two characters.
func tokens(text string) []string {
	runs := wordRun.FindAllString(strings.ToLower(text), -1)
	out := runs[:0]
	for _, r := range runs {
		if utf8.RuneCountInString(r) >= 2 {
			out = append(out, r)
		}
	}
	return out
}

// terms returns unigrams followed by space-joined bigrams.
func terms(text string) []string {
	toks := tokens(text)
	if len(toks) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(toks)-1)
	out = append(out, toks...)
	for i := 0; i+1 < len(toks); i++ {
		out = append(out, toks[i]+" "+toks[i+1])
	}
	return out
}

func termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, t := range terms(text) {
		counts[t]++
	}
	return counts
}
