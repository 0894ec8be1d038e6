package completion

import (
	"context"
	"errors"
	"time"

	"quiz-trail/internal/cache"
	"quiz-trail/internal/domain"
	"quiz-trail/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachingCompleter remembers completions by (system, prompt) and collapses
// concurrent identical requests into one upstream call. Cache failures are
// logged and otherwise ignored.
type CachingCompleter struct {
	next        domain.TextCompleter
	store       domain.Cache
	ttl         time.Duration
	namespace   string
	callTimeout time.Duration
	group       singleflight.Group
}

// NewCachingCompleter wraps next. namespace separates entries produced by
// different models. A nil store disables caching but keeps request collapsing.
// The shared upstream call is detached from any single caller's cancellation
// and bounded by callTimeout instead; zero means no bound.
func NewCachingCompleter(next domain.TextCompleter, store domain.Cache, ttl time.Duration, namespace string, callTimeout time.Duration) *CachingCompleter {
	return &CachingCompleter{next: next, store: store, ttl: ttl, namespace: namespace, callTimeout: callTimeout}
}

func (c *CachingCompleter) key(system, prompt string) string {
	return cache.GenerateCacheKey("feedback", "completion", cache.Digest(system, prompt), c.namespace)
}

func (c *CachingCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	l := logger.Get()
	key := c.key(system, prompt)

	if c.store != nil {
		cached, err := c.store.Get(ctx, key)
		if err == nil {
			l.Debug("Completion cache hit", zap.String("key", key))
			return cached, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			l.Warn("Completion cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	// Each caller waits on its own ctx; the upstream call keeps running for
	// the others when one of them gives up.
	ch := c.group.DoChan(key, func() (interface{}, error) {
		callCtx := context.WithoutCancel(ctx)
		if c.callTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, c.callTimeout)
			defer cancel()
		}

		text, err := c.next.Complete(callCtx, system, prompt)
		if err != nil {
			return "", err
		}
		if c.store != nil {
			if setErr := c.store.Set(callCtx, key, text, c.ttl); setErr != nil {
				l.Warn("Completion cache write failed", zap.String("key", key), zap.Error(setErr))
			}
		}
		return text, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			l.Debug("Completion shared with a concurrent request", zap.String("key", key))
		}
		return res.Val.(string), nil
	}
}
