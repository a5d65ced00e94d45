package respcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/mode"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/query"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/request"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/response"
)

func mustRequest(t *testing.T, raw string, m mode.Mode, topK int) *request.Request {
	t.Helper()
	r, err := request.New(query.Normalize(raw), m, topK, "")
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

func sampleResponse() response.Response {
	return response.Response{
		Query:     "fintech",
		Narrative: "Fintech keeps growing across regions.",
		Total:     7,
		Matches: []match.Match{
			match.New("c1", match.Company, 0.8, match.Metadata{
				Name:       "Acme",
				Industries: []string{"Fintech"},
				Stars:      3,
			}, &match.Connection{FromID: "p1", Distance: 2, Path: []string{"p1", "x", "c1"}}),
			match.New("p1", match.Person, 0.6, match.Metadata{Name: "Jane", Role: "investor"}, nil),
		},
	}
}

// viewOf flattens a response into comparable values.
func viewOf(r response.Response) []any {
	out := []any{r.Query, r.Narrative, r.Total}
	for i := range r.Matches {
		m := &r.Matches[i]
		out = append(out, m.ID(), m.Type(), m.Score(), m.Metadata(), m.Connection())
	}
	return out
}

func TestSearch_MissThenHit(t *testing.T) {
	inner := &mockUpstream{resp: sampleResponse()}
	c, ms, total := newTestCache(t, inner)
	ctx := context.Background()
	req := mustRequest(t, "fintech", mode.Ranked, 10)

	first, err := c.Search(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.Search(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := inner.calls.Load(); n != 1 {
		t.Errorf("expected 1 upstream call, got %d", n)
	}
	if diff := cmp.Diff(viewOf(first), viewOf(second)); diff != "" {
		t.Errorf("cached response differs (-miss +hit):\n%s", diff)
	}
	if ms.lastTTL != 10*time.Minute {
		t.Errorf("ttl = %v", ms.lastTTL)
	}
	if v := testutil.ToFloat64(total.WithLabelValues("miss")); v != 1 {
		t.Errorf("miss = %f", v)
	}
	if v := testutil.ToFloat64(total.WithLabelValues("hit")); v != 1 {
		t.Errorf("hit = %f", v)
	}
}

func TestSearch_InnerErrorNotCached(t *testing.T) {
	inner := &mockUpstream{err: domain.NewUpstreamStatus(502, "")}
	c, ms, _ := newTestCache(t, inner)

	_, err := c.Search(context.Background(), mustRequest(t, "fintech", "", 0))
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if len(ms.data) != 0 {
		t.Error("errors must not be cached")
	}
}

func TestSearch_StoreErrorsIgnored(t *testing.T) {
	inner := &mockUpstream{resp: sampleResponse()}
	c, ms, _ := newTestCache(t, inner)
	ms.getFn = func(context.Context, string) ([]byte, error) { return nil, errors.New("conn refused") }
	ms.setFn = func(context.Context, string, []byte) error { return errors.New("conn refused") }

	resp, err := c.Search(context.Background(), mustRequest(t, "fintech", "", 0))
	if err != nil {
		t.Fatalf("cache failure must not fail the search: %v", err)
	}
	if resp.Total != 7 {
		t.Errorf("Total = %d", resp.Total)
	}
}

func TestSearch_CorruptEntryFallsThrough(t *testing.T) {
	inner := &mockUpstream{resp: sampleResponse()}
	c, ms, _ := newTestCache(t, inner)
	ms.getFn = func(context.Context, string) ([]byte, error) { return []byte("{not json"), nil }

	if _, err := c.Search(context.Background(), mustRequest(t, "fintech", "", 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls.Load() != 1 {
		t.Error("expected upstream call on corrupt cache entry")
	}
}

func TestSearch_CorruptEntryEvicted(t *testing.T) {
	inner := &mockUpstream{resp: sampleResponse()}
	c, ms, _ := newTestCache(t, inner)
	req := mustRequest(t, "fintech", "", 0)
	key := cacheKey(req)
	ms.data = map[string][]byte{key: []byte("{not json")}

	if _, err := c.Search(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{key}, ms.deletedKeys()); diff != "" {
		t.Errorf("deleted keys mismatch (-want +got):\n%s", diff)
	}

	// The fresh upstream answer replaces the corrupt entry.
	if _, err := c.Search(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := inner.calls.Load(); n != 1 {
		t.Errorf("expected second search to hit the repaired entry, upstream calls = %d", n)
	}
}

func TestSearch_EvictFailureIgnored(t *testing.T) {
	inner := &mockUpstream{resp: sampleResponse()}
	c, ms, _ := newTestCache(t, inner)
	ms.getFn = func(context.Context, string) ([]byte, error) { return []byte("[]"), nil }
	ms.delFn = func(context.Context, string) error { return errors.New("conn refused") }

	if _, err := c.Search(context.Background(), mustRequest(t, "fintech", "", 0)); err != nil {
		t.Fatalf("evict failure must not fail the search: %v", err)
	}
	if len(ms.deletedKeys()) != 1 {
		t.Error("expected one eviction attempt")
	}
}

func TestCacheKey_DistinguishesRequests(t *testing.T) {
	base := cacheKey(mustRequest(t, "fintech", mode.Ranked, 10))
	others := []*request.Request{
		mustRequest(t, "fintech ", mode.Ranked, 10),
		mustRequest(t, "fintech", mode.FilterOnly, 10),
		mustRequest(t, "fintech", mode.Ranked, 11),
		mustRequest(t, "fintech vc", mode.Ranked, 10),
	}
	for i, r := range others {
		if cacheKey(r) == base {
			t.Errorf("request %d collides with base key", i)
		}
	}
	if cacheKey(mustRequest(t, "fintech", mode.Ranked, 10)) != base {
		t.Error("cache key is not deterministic")
	}
	if got := base[:len(cacheKeyPrefix)]; got != cacheKeyPrefix {
		t.Errorf("key prefix = %q", got)
	}
}

func TestSearch_ConcurrentMissesCollapse(t *testing.T) {
	inner := &mockUpstream{resp: sampleResponse(), release: make(chan struct{})}
	c, _, _ := newTestCache(t, inner)
	req := mustRequest(t, "fintech", "", 0)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Search(context.Background(), req); err != nil {
				errs <- err
			}
		}()
	}

	// Give every caller time to join the in-flight call.
	time.Sleep(100 * time.Millisecond)
	close(inner.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	if n := inner.calls.Load(); n != 1 {
		t.Errorf("expected concurrent misses to share 1 upstream call, got %d", n)
	}
}

func TestSearch_CancelledCallerDoesNotFailWaiters(t *testing.T) {
	inner := &mockUpstream{resp: sampleResponse(), release: make(chan struct{})}
	c, _, _ := newTestCache(t, inner)
	req := mustRequest(t, "fintech", "", 0)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Search(firstCtx, req)
		firstErr <- err
	}()
	waitFor(t, func() bool { return inner.calls.Load() == 1 })

	secondErr := make(chan error, 1)
	go func() {
		resp, err := c.Search(context.Background(), req)
		if err == nil && resp.Total != 7 {
			err = fmt.Errorf("Total = %d", resp.Total)
		}
		secondErr <- err
	}()
	// Let the second caller join the in-flight call.
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("first caller err = %v, want context.Canceled", err)
	}

	close(inner.release)
	if err := <-secondErr; err != nil {
		t.Errorf("waiter failed after another caller cancelled: %v", err)
	}
	if n := inner.calls.Load(); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}
	if got := inner.ctxErr.Load(); got != "<nil>" {
		t.Errorf("shared call saw ctx error %v", got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
