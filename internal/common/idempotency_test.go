package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newIdem(t *testing.T) Idem {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Idem{R: client, TTL: time.Minute}
}

func TestIdempotencyReplayRejected(t *testing.T) {
	idem := newIdem(t)
	calls := 0
	handler := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/cart", nil)
		req.Header.Set("Idempotency-Key", "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, want, rec.Code, "request %d", i)
	}
	require.Equal(t, 1, calls)
}

func TestIdempotencyKeyReleasedOnServerError(t *testing.T) {
	idem := newIdem(t)
	calls := 0
	handler := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))

	// The first attempt fails before the write applies; the same key must
	// admit the retry instead of replying with a replay conflict.
	for i, want := range []int{http.StatusInternalServerError, http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/cart", nil)
		req.Header.Set("Idempotency-Key", "retry-me")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, want, rec.Code, "request %d", i)
	}
	require.Equal(t, 2, calls)
}

func TestIdempotencyKeyReleasedOnPanic(t *testing.T) {
	idem := newIdem(t)
	calls := 0
	handler := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			panic("boom")
		}
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/cart", nil)
	req.Header.Set("Idempotency-Key", "panic-key")
	require.Panics(t, func() { handler.ServeHTTP(httptest.NewRecorder(), req) })

	retry := httptest.NewRequest(http.MethodPost, "/cart", nil)
	retry.Header.Set("Idempotency-Key", "panic-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, retry)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 2, calls)
}

func TestIdempotencyWithoutKeyPassesThrough(t *testing.T) {
	idem := newIdem(t)
	calls := 0
	handler := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart", nil))
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	require.Equal(t, 2, calls)
}
