package cache

import (
	"context"
	"encoding/json"
	"time"

	"chronicle/internal/observability"

	"github.com/redis/go-redis/v9"
)

// PageEntry is a cached rendered response: the exact body bytes and content
// type that were sent, so repeated reads within the TTL are byte-identical.
type PageEntry struct {
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
}

// PageCache is a time-bounded response cache keyed by full request URI.
// It is deliberately decoupled from write paths: entries go away only by TTL
// or an explicit Invalidate call.
type PageCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPageCache returns a PageCache over the given client. A nil client yields
// a disabled cache: every Get is a miss and Put is a no-op.
func NewPageCache(rdb *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached entry for the request URI, if present.
func (p *PageCache) Get(ctx context.Context, requestURI string) (*PageEntry, bool) {
	if p == nil || p.rdb == nil {
		observability.PageCacheRequests.WithLabelValues("bypass").Inc()
		return nil, false
	}
	raw, err := p.rdb.Get(ctx, PageKey(requestURI)).Bytes()
	if err != nil {
		observability.PageCacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	var entry PageEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		observability.PageCacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	observability.PageCacheRequests.WithLabelValues("hit").Inc()
	return &entry, true
}

// Put stores the rendered response for the request URI. Best-effort: cache
// write failures never fail the request.
func (p *PageCache) Put(ctx context.Context, requestURI string, entry PageEntry) {
	if p == nil || p.rdb == nil {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	p.rdb.Set(ctx, PageKey(requestURI), raw, p.ttl)
}

// Invalidate drops the cached entry for the request URI.
func (p *PageCache) Invalidate(ctx context.Context, requestURI string) {
	if p == nil || p.rdb == nil {
		return
	}
	p.rdb.Del(ctx, PageKey(requestURI))
}
