package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// memoryIdempotencyStore is an in-memory usecase.IdempotencyStore.
type memoryIdempotencyStore struct {
	mu        sync.Mutex
	values    map[string][]byte
	updateErr error
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{values: make(map[string][]byte)}
}

func (s *memoryIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.values[key]; ok {
		return true, existing, nil
	}

	if response == nil {
		s.values[key] = []byte("processing")
	} else {
		s.values[key] = response
	}

	return false, nil, nil
}

func (s *memoryIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updateErr != nil {
		return s.updateErr
	}

	s.values[key] = response

	return nil
}

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"entry-1"}`))
	})
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	store := newMemoryIdempotencyStore()
	m := NewIdempotencyMiddleware(store, zerolog.Nop())

	calls := 0
	handler := m.Wrap(countingHandler(&calls))

	first := httptest.NewRequest(http.MethodPost, "/api/v1/postings", strings.NewReader(`{}`))
	first.Header.Set(IdempotencyKeyHeader, "req-1")
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, first)

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/postings", strings.NewReader(`{}`))
	second.Header.Set(IdempotencyKeyHeader, "req-1")
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, second)

	if calls != 1 {
		t.Fatalf("expected replay to skip the handler, ran %d times", calls)
	}
	if rec2.Header().Get("X-Idempotency-Replay") != "true" {
		t.Fatal("expected replay marker header")
	}
	if rec2.Code != http.StatusCreated {
		t.Fatalf("expected replay to keep the original 201, got %d", rec2.Code)
	}
	if rec2.Body.String() != rec1.Body.String() {
		t.Fatalf("expected identical body on replay: %q vs %q", rec2.Body.String(), rec1.Body.String())
	}
}

func TestIdempotencyMiddlewareSkipsWithoutKey(t *testing.T) {
	store := newMemoryIdempotencyStore()
	m := NewIdempotencyMiddleware(store, zerolog.Nop())

	calls := 0
	handler := m.Wrap(countingHandler(&calls))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/postings", strings.NewReader(`{}`))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if calls != 2 {
		t.Fatalf("expected both requests to run, ran %d times", calls)
	}
}

func TestIdempotencyMiddlewareIgnoresReads(t *testing.T) {
	store := newMemoryIdempotencyStore()
	m := NewIdempotencyMiddleware(store, zerolog.Nop())

	calls := 0
	handler := m.Wrap(countingHandler(&calls))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.Header.Set(IdempotencyKeyHeader, "req-2")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if calls != 2 {
		t.Fatalf("expected GET requests to bypass idempotency, ran %d times", calls)
	}
}

func TestIdempotencyMiddlewareDoesNotStoreFailures(t *testing.T) {
	store := newMemoryIdempotencyStore()
	m := NewIdempotencyMiddleware(store, zerolog.Nop())

	failures := 0
	handler := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		failures++
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"unbalanced"}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/postings", strings.NewReader(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "req-3")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if string(store.values["req-3"]) != "processing" {
		t.Fatalf("expected failed response not to be stored, got %q", store.values["req-3"])
	}
}

func TestIdempotencyMiddlewareWarnsOnStoreFailure(t *testing.T) {
	store := newMemoryIdempotencyStore()
	store.updateErr = errors.New("redis unavailable")

	var logs bytes.Buffer
	m := NewIdempotencyMiddleware(store, zerolog.New(&logs))

	calls := 0
	handler := m.Wrap(countingHandler(&calls))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/postings", strings.NewReader(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "req-4")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(logs.String(), "failed to store idempotent response") {
		t.Fatalf("expected a warning about the failed store, got %q", logs.String())
	}
	if !strings.Contains(logs.String(), "req-4") {
		t.Fatalf("expected the key in the warning, got %q", logs.String())
	}
	if string(store.values["req-4"]) != "processing" {
		t.Fatalf("expected reservation to remain, got %q", store.values["req-4"])
	}
}
