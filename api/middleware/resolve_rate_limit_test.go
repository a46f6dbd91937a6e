package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeLimiterStore struct {
	counts map[string]int64
	err    error
}

func newFakeLimiterStore() *fakeLimiterStore {
	return &fakeLimiterStore{counts: map[string]int64{}}
}

func (f *fakeLimiterStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	return f.counts[key], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestResolveRateLimitBlocksAfterIPLimit(t *testing.T) {
	t.Parallel()

	store := newFakeLimiterStore()
	policy := NewResolveRateLimitPolicy(time.Minute, 2, 0)
	handler := ResolveRateLimit(policy, store, nil)(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/review?view=tok", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d should pass, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/review?view=tok", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request should be blocked, got %d", rec.Code)
	}
}

func TestResolveRateLimitCountsPerToken(t *testing.T) {
	t.Parallel()

	store := newFakeLimiterStore()
	policy := NewResolveRateLimitPolicy(time.Minute, 0, 1)
	handler := ResolveRateLimit(policy, store, nil)(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/review?view=token-a", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first hit should pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/review?view=token-a", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second hit on same token should block, got %d", second.Code)
	}

	// A different token carries its own counter.
	other := httptest.NewRecorder()
	handler.ServeHTTP(other, httptest.NewRequest(http.MethodGet, "/api/v1/review?view=token-b", nil))
	if other.Code != http.StatusOK {
		t.Fatalf("different token should pass, got %d", other.Code)
	}

	for key := range store.counts {
		if strings.Contains(key, "token-a") || strings.Contains(key, "token-b") {
			t.Fatalf("raw token leaked into redis key %q", key)
		}
	}
}

func TestResolveRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	t.Parallel()

	policy := NewResolveRateLimitPolicy(0, 10, 10)
	handler := ResolveRateLimit(policy, newFakeLimiterStore(), nil)(okHandler())

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/review?view=tok", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("disabled policy must never block, got %d", rec.Code)
		}
	}
}

func TestResolveRateLimitStoreFailure(t *testing.T) {
	t.Parallel()

	store := newFakeLimiterStore()
	store.err = context.DeadlineExceeded
	policy := NewResolveRateLimitPolicy(time.Minute, 1, 0)
	handler := ResolveRateLimit(policy, store, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/review?view=tok", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store failure should map to 503, got %d", rec.Code)
	}
}
