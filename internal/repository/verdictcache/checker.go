// Package verdictcache memoizes definite semantic verdicts in a key-value store.
package verdictcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecjudge/internal/db"
	"github.com/kailas-cloud/vecjudge/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "verdict:"

// store is the consumer interface for the verdict cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedChecker caches PASS/FAIL verdicts of an inner semantic checker.
// Errors and inconclusive replies are never stored.
type CachedChecker struct {
	inner      domain.SemanticChecker
	store      store
	model      string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. model scopes keys so that switching models
// does not reuse old verdicts. cacheTotal is a counter vec with label
// "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.SemanticChecker,
	s store,
	model string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedChecker {
	return &CachedChecker{
		inner:      inner,
		store:      s,
		model:      model,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Ask returns a cached verdict or calls the inner checker.
func (c *CachedChecker) Ask(ctx context.Context, question, answer, contextText, rule string) (domain.Verdict, error) {
	key := c.cacheKey(rule, question, answer, contextText)

	if v, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return v, nil
	}

	c.incCache("miss")

	v, err := c.inner.Ask(ctx, question, answer, contextText, rule)
	if err != nil {
		return v, fmt.Errorf("semantic check: %w", err)
	}

	if v.IsDefinite() {
		c.putToCache(ctx, key, v)
	}
	return v, nil
}

// HealthCheck delegates to the inner checker when it supports health checks.
func (c *CachedChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // already wrapped by provider
	}
	return nil
}

func (c *CachedChecker) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes length-prefixed fields so that no two inputs share a key
// by shifting text between fields.
func (c *CachedChecker) cacheKey(rule, question, answer, contextText string) string {
	h := sha256.New()
	var n [8]byte
	for _, part := range []string{c.model, rule, question, answer, contextText} {
		binary.BigEndian.PutUint64(n[:], uint64(len(part)))
		h.Write(n[:])
		h.Write([]byte(part))
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedChecker) getFromCache(ctx context.Context, key string) (domain.Verdict, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached verdict", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}

	v := domain.Verdict(data)
	if !v.IsDefinite() {
		c.logger.Warn("Ignoring malformed cached verdict", zap.String("key", key), zap.ByteString("value", data))
		return "", false
	}
	return v, true
}

// putToCache stores v. A non-positive ttl stores without expiry.
func (c *CachedChecker) putToCache(ctx context.Context, key string, v domain.Verdict) {
	var err error
	if c.ttl > 0 {
		err = c.store.SetWithTTL(ctx, key, []byte(v), c.ttl)
	} else {
		err = c.store.Set(ctx, key, []byte(v))
	}
	if err != nil {
		c.logger.Warn("Failed to cache verdict", zap.String("key", key), zap.Error(err))
	}
}
