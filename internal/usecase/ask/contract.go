package ask

import "github.com/kailas-cloud/vecjudge/internal/domain/search/result"

// Searcher ranks corpus chunks against a query.
type Searcher interface {
	Search(query string, k int) []result.Result
}
