package completion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quiz-trail/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCompleter struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
}

func (c *countingCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.text + prompt, c.err
}

type memoryCache struct {
	mu     sync.Mutex
	items  map[string]string
	getErr error
	setErr error
}

func newMemoryCache() *memoryCache { return &memoryCache{items: map[string]string{}} }

func (m *memoryCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.items[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (m *memoryCache) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.items[key] = value
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *memoryCache) Ping(ctx context.Context) error { return nil }

func TestCachingCompleter_HitAfterMiss(t *testing.T) {
	next := &countingCompleter{text: "advice for "}
	store := newMemoryCache()
	c := NewCachingCompleter(next, store, time.Hour, "ollama", 0)
	ctx := context.Background()

	first, err := c.Complete(ctx, "sys", "Privacy")
	require.NoError(t, err)
	second, err := c.Complete(ctx, "sys", "Privacy")
	require.NoError(t, err)

	assert.Equal(t, "advice for Privacy", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
	assert.Len(t, store.items, 1)

	_, err = c.Complete(ctx, "sys", "Ethics")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachingCompleter_NamespaceSeparatesModels(t *testing.T) {
	store := newMemoryCache()
	a := NewCachingCompleter(&countingCompleter{text: "a:"}, store, time.Hour, "model-a", 0)
	b := NewCachingCompleter(&countingCompleter{text: "b:"}, store, time.Hour, "model-b", 0)

	got, _ := a.Complete(context.Background(), "s", "p")
	assert.Equal(t, "a:p", got)
	got, _ = b.Complete(context.Background(), "s", "p")
	assert.Equal(t, "b:p", got)
}

func TestCachingCompleter_ErrorsAreNotCached(t *testing.T) {
	next := &countingCompleter{err: errors.New("upstream down")}
	store := newMemoryCache()
	c := NewCachingCompleter(next, store, time.Hour, "x", 0)

	_, err := c.Complete(context.Background(), "s", "p")
	assert.Error(t, err)
	assert.Empty(t, store.items)
}

func TestCachingCompleter_CacheFailuresFallThrough(t *testing.T) {
	next := &countingCompleter{text: "ok:"}
	store := newMemoryCache()
	store.getErr = errors.New("redis down")
	store.setErr = errors.New("redis down")
	c := NewCachingCompleter(next, store, time.Hour, "x", 0)

	got, err := c.Complete(context.Background(), "s", "p")
	require.NoError(t, err)
	assert.Equal(t, "ok:p", got)
}

func TestCachingCompleter_NilStore(t *testing.T) {
	next := &countingCompleter{text: "ok:"}
	c := NewCachingCompleter(next, nil, time.Hour, "x", 0)

	got, err := c.Complete(context.Background(), "s", "p")
	require.NoError(t, err)
	assert.Equal(t, "ok:p", got)
}

// blockingCompleter holds every call until release is closed.
type blockingCompleter struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	mu      sync.Mutex
	calls   int
	ctxErr  error
}

func (b *blockingCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	b.once.Do(func() { close(b.started) })
	<-b.release

	b.mu.Lock()
	b.ctxErr = ctx.Err()
	b.mu.Unlock()
	return "shared:" + prompt, nil
}

func TestCachingCompleter_CallerCancellationDoesNotLeak(t *testing.T) {
	next := &blockingCompleter{started: make(chan struct{}), release: make(chan struct{})}
	store := newMemoryCache()
	c := NewCachingCompleter(next, store, time.Hour, "x", time.Minute)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := c.Complete(leaderCtx, "s", "p")
		leaderErr <- err
	}()
	<-next.started

	type result struct {
		text string
		err  error
	}
	follower := make(chan result, 1)
	go func() {
		text, err := c.Complete(context.Background(), "s", "p")
		follower <- result{text, err}
	}()

	cancelLeader()
	select {
	case err := <-leaderErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled caller did not return")
	}

	// Give the follower time to join the in-flight call before it finishes.
	time.Sleep(50 * time.Millisecond)
	close(next.release)

	select {
	case res := <-follower:
		require.NoError(t, res.err)
		assert.Equal(t, "shared:p", res.text)
	case <-time.After(5 * time.Second):
		t.Fatal("follower did not return")
	}

	next.mu.Lock()
	defer next.mu.Unlock()
	assert.Equal(t, 1, next.calls)
	assert.NoError(t, next.ctxErr)

	cached, err := store.Get(context.Background(), c.key("s", "p"))
	require.NoError(t, err)
	assert.Equal(t, "shared:p", cached)
}

func TestCachingCompleter_CallerDeadline(t *testing.T) {
	next := &blockingCompleter{started: make(chan struct{}), release: make(chan struct{})}
	defer close(next.release)
	c := NewCachingCompleter(next, nil, time.Hour, "x", 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Complete(ctx, "s", "p")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
