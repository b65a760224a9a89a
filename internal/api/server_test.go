package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/animevault/animevault-server/internal/catalog"
	"github.com/animevault/animevault-server/internal/logger"
	"github.com/animevault/animevault-server/internal/retry"
	"github.com/animevault/animevault-server/internal/service"
	"github.com/animevault/animevault-server/internal/store"
	"github.com/animevault/animevault-server/internal/validation"
)

type immediateTimer struct{ c chan time.Time }

func (t *immediateTimer) Start(time.Duration) { t.c <- time.Now() }
func (t *immediateTimer) Stop()               {}
func (t *immediateTimer) C() <-chan time.Time { return t.c }

// fakeCatalog serves item, list and random endpoints and records every
// request URL it receives.
type fakeCatalog struct {
	mu       sync.Mutex
	requests []string
}

func (f *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.String())
	f.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 2 && (parts[0] == "anime" || parts[0] == "manga"):
		if parts[1] == "404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"data": %s}`, fakeRecord(parts[0], parts[1]))
	case len(parts) == 2 && parts[0] == "random":
		fmt.Fprintf(w, `{"data": %s}`, fakeRecord(parts[1], "7"))
	case r.URL.Query().Get("q") == "limited":
		w.WriteHeader(http.StatusTooManyRequests)
	default:
		kind := "anime"
		if strings.Contains(r.URL.Path, "manga") {
			kind = "manga"
		}
		fmt.Fprintf(w, `{"data": [%s, %s], "pagination": {"current_page": 1, "last_visible_page": 3, "has_next_page": true}}`,
			fakeRecord(kind, "1"), fakeRecord(kind, "2"))
	}
}

func (f *fakeCatalog) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return ""
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeCatalog) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func fakeRecord(kind, id string) string {
	return fmt.Sprintf(`{"mal_id": %s, "title": "%s %s", "score": 8.7, "synopsis": "<p>Story</p>"}`, id, kind, id)
}

type testServer struct {
	*Server
	api      humatest.TestAPI
	upstream *fakeCatalog
}

// setupTestServer wires a full server against a temp Badger store and a fake catalog.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "animevault-api-test-*")
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(tmpDir, "test.db"), logger.Discard())
	require.NoError(t, err)

	upstream := &fakeCatalog{}
	upstreamServer := httptest.NewServer(upstream)

	validator := validation.New()
	executor := retry.NewExecutor(retry.DefaultPolicy, logger.Discard(), retry.WithTimer(func() backoff.Timer {
		return &immediateTimer{c: make(chan time.Time, 1)}
	}))
	client := catalog.New(catalog.Options{BaseURL: upstreamServer.URL, RPS: 1000, Burst: 100}, executor, validator, logger.Discard())

	services := &Services{
		Catalog: service.NewCatalogService(client, st, logger.Discard()),
		Library: service.NewLibraryService(client, st, logger.Discard()),
		Session: service.NewSessionService(st, logger.Discard()),
	}

	s := NewServer(st, services, validator, Options{}, logger.Discard())

	t.Cleanup(func() {
		upstreamServer.Close()
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return &testServer{
		Server:   s,
		api:      humatest.Wrap(t, s.API()),
		upstream: upstream,
	}
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out), "body: %s", body)
	return out
}
