package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"

	"github.com/animevault/animevault-server/internal/catalog"
	"github.com/animevault/animevault-server/internal/logger"
	"github.com/animevault/animevault-server/internal/retry"
	"github.com/animevault/animevault-server/internal/store"
	"github.com/animevault/animevault-server/internal/validation"
)

type immediateTimer struct{ c chan time.Time }

func (t *immediateTimer) Start(time.Duration) { t.c <- time.Now() }
func (t *immediateTimer) Stop()               {}
func (t *immediateTimer) C() <-chan time.Time { return t.c }

// fakeUpstream answers /{kind}/{id} with a record titled "{kind} {id}" and
// list endpoints with records 1 and 2.
type fakeUpstream struct {
	requests atomic.Int32
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 2 && (parts[0] == "anime" || parts[0] == "manga"):
		if parts[1] == "404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"data": %s}`, rawRecord(parts[0], parts[1]))
	case len(parts) == 2 && parts[0] == "random":
		fmt.Fprintf(w, `{"data": %s}`, rawRecord(parts[1], "1"))
	default:
		kind := "anime"
		if strings.Contains(r.URL.Path, "manga") {
			kind = "manga"
		}
		fmt.Fprintf(w, `{"data": [%s, %s], "pagination": {"current_page": 1, "last_visible_page": 1}}`,
			rawRecord(kind, "1"), rawRecord(kind, "2"))
	}
}

func rawRecord(kind, id string) string {
	return fmt.Sprintf(`{"mal_id": %s, "title": "%s %s", "score": 8.1}`, id, kind, id)
}

type testEnv struct {
	store    *store.Store
	client   *catalog.Client
	upstream *fakeUpstream
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "animevault-service-test-*")
	require.NoError(t, err)

	s, err := store.Open(filepath.Join(tmpDir, "test.db"), logger.Discard())
	require.NoError(t, err)

	upstream := &fakeUpstream{}
	server := httptest.NewServer(upstream)

	executor := retry.NewExecutor(retry.DefaultPolicy, logger.Discard(), retry.WithTimer(func() backoff.Timer {
		return &immediateTimer{c: make(chan time.Time, 1)}
	}))
	client := catalog.New(catalog.Options{BaseURL: server.URL, RPS: 1000, Burst: 100}, executor, validation.New(), logger.Discard())

	t.Cleanup(func() {
		server.Close()
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return &testEnv{store: s, client: client, upstream: upstream}
}

func background() context.Context { return context.Background() }
