// Package ask answers free-text questions from the indexed corpus.
package ask

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecjudge/internal/domain"
	logpkg "github.com/kailas-cloud/vecjudge/internal/logger"
)

// NoContextAnswer is returned when the index yields no passages.
const NoContextAnswer = "(No context found. Add docs in domains/default/domain_kb)"

// answerChunks is how many top passages are concatenated into the answer.
const answerChunks = 2

// Source is a retrieved passage reference.
type Source struct {
	DocPath string  `json:"doc_path"`
	Score   float64 `json:"score"`
}

// Answer is an extractive answer with its sources, best first.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// Service answers questions by retrieval.
type Service struct {
	searcher Searcher
	defaultK int
	maxK     int
	logger   *zap.Logger
}

// New creates an ask service. k <= 0 selects defaultK; k above maxK is clamped.
func New(searcher Searcher, defaultK, maxK int, logger *zap.Logger) *Service {
	return &Service{searcher: searcher, defaultK: defaultK, maxK: maxK, logger: logger}
}

// Ask retrieves the top-k passages for the question.
func (s *Service) Ask(ctx context.Context, question string, k int) (Answer, error) {
	if strings.TrimSpace(question) == "" {
		return Answer{}, fmt.Errorf("%w: question is required", domain.ErrInvalidRequest)
	}
	if k <= 0 {
		k = s.defaultK
	}
	if s.maxK > 0 && k > s.maxK {
		k = s.maxK
	}

	hits := s.searcher.Search(question, k)

	out := Answer{Answer: NoContextAnswer, Sources: make([]Source, 0, len(hits))}
	texts := make([]string, 0, answerChunks)
	for i := range hits {
		if i < answerChunks {
			texts = append(texts, hits[i].Text())
		}
		out.Sources = append(out.Sources, Source{DocPath: hits[i].DocPath(), Score: hits[i].Score()})
	}
	if len(texts) > 0 {
		out.Answer = strings.Join(texts, "\n\n")
	}

	logpkg.FromContext(ctx, s.logger).Debug("Question answered",
		zap.Int("k", k),
		zap.Int("hits", len(hits)),
	)
	return out, nil
}
