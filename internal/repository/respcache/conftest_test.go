package respcache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/db"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/request"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/response"
)

type mockUpstream struct {
	resp    response.Response
	err     error
	calls   atomic.Int32
	release chan struct{} // when set, Search blocks until closed
	ctxErr  atomic.Value  // error seen on ctx after release
}

func (m *mockUpstream) Search(ctx context.Context, _ *request.Request) (response.Response, error) {
	m.calls.Add(1)
	if m.release != nil {
		<-m.release
	}
	m.ctxErr.Store(fmt.Sprint(ctx.Err()))
	return m.resp, m.err
}

// mockKVStore is an in-memory store safe for concurrent use. getFn/setFn/delFn override it.
type mockKVStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
	lastTTL time.Duration
	getFn   func(ctx context.Context, key string) ([]byte, error)
	setFn   func(ctx context.Context, key string, value []byte) error
	delFn   func(ctx context.Context, key string) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

func (m *mockKVStore) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, key)
	m.mu.Unlock()
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockKVStore) deletedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

func newTestCache(t *testing.T, inner *mockUpstream) (*CachedUpstream, *mockKVStore, *prometheus.CounterVec) {
	t.Helper()
	ms := &mockKVStore{}
	total := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
	return New(inner, ms, 10*time.Minute, 5*time.Second, total, zap.NewNop()), ms, total
}
