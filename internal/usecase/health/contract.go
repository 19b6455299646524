package health

import "context"

// IndexReader reports the size of the served index snapshot.
type IndexReader interface {
	Len() int
}

// SemanticChecker checks semantic backend availability.
type SemanticChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks verdict cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
