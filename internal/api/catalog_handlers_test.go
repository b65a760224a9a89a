package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animevault/animevault-server/internal/domain"
)

func TestSearch_DefaultsToScoreDescending(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/anime/search?q=naruto")

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	page := decode[domain.Page](t, resp.Body.Bytes())
	require.Len(t, page.Records, 2)
	assert.Equal(t, "anime 1", page.Records[0].Title)
	assert.Equal(t, "Story", page.Records[0].Synopsis)
	assert.True(t, page.Pagination.HasNextPage)

	sent, err := url.Parse(ts.upstream.last())
	require.NoError(t, err)
	assert.Equal(t, "/anime", sent.Path)
	assert.Equal(t, "naruto", sent.Query().Get("q"))
	assert.Equal(t, "score", sent.Query().Get("order_by"))
	assert.Equal(t, "desc", sent.Query().Get("sort"))
}

func TestSearch_ExplicitOrderIsKept(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/manga/search?order_by=title&sort=asc&genres=1,4&min_score=7.5")

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	sent, err := url.Parse(ts.upstream.last())
	require.NoError(t, err)
	assert.Equal(t, "/manga", sent.Path)
	assert.Equal(t, "title", sent.Query().Get("order_by"))
	assert.Equal(t, "asc", sent.Query().Get("sort"))
	assert.Equal(t, "1,4", sent.Query().Get("genres"))
	assert.Equal(t, "7.5", sent.Query().Get("min_score"))
}

func TestSearch_InvalidFiltersNeverReachUpstream(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		field string
	}{
		{name: "unknown kind", path: "/api/v1/novel/search", field: "kind"},
		{name: "score not a number", path: "/api/v1/anime/search?min_score=high", field: "min_score"},
		{name: "bad genre list", path: "/api/v1/anime/search?genres=1,x", field: "genres"},
		{name: "score out of range", path: "/api/v1/anime/search?max_score=11", field: "max_score"},
		{name: "inverted score range", path: "/api/v1/anime/search?min_score=9&max_score=5", field: "max_score"},
		{name: "season on manga", path: "/api/v1/manga/search?season=spring", field: "season"},
		{name: "unknown season", path: "/api/v1/anime/search?season=monsoon", field: "season"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServer(t)

			resp := ts.api.Get(tt.path)

			require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
			apiErr := decode[APIError](t, resp.Body.Bytes())
			assert.Equal(t, "VALIDATION", apiErr.Code)
			details, ok := apiErr.Details.(map[string]any)
			require.True(t, ok, "details: %#v", apiErr.Details)
			assert.Contains(t, details, tt.field)
			assert.Zero(t, ts.upstream.count())
		})
	}
}

func TestSearch_RateLimitExhausted(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/anime/search?q=limited")

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	apiErr := decode[APIError](t, resp.Body.Bytes())
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", apiErr.Code)
	assert.Equal(t, 3, ts.upstream.count())
}

func TestGetItem(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/manga/12")

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	rec := decode[domain.CatalogRecord](t, resp.Body.Bytes())
	assert.Equal(t, 12, rec.ID)
	assert.Equal(t, domain.KindManga, rec.Kind)
	assert.False(t, rec.Favorite)
}

func TestGetItem_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/anime/404")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decode[APIError](t, resp.Body.Bytes()).Code)
}

func TestGetItem_MergesFavoriteState(t *testing.T) {
	ts := setupTestServer(t)

	add := ts.api.Post("/api/v1/favorites", map[string]any{"kind": "anime", "id": 5, "status": "watching"})
	require.Equal(t, http.StatusCreated, add.Code, add.Body.String())

	resp := ts.api.Get("/api/v1/anime/5")

	require.Equal(t, http.StatusOK, resp.Code)
	rec := decode[domain.CatalogRecord](t, resp.Body.Bytes())
	assert.True(t, rec.Favorite)
	assert.Equal(t, domain.StatusWatching, rec.WatchStatus)

	other := decode[domain.CatalogRecord](t, ts.api.Get("/api/v1/manga/5").Body.Bytes())
	assert.False(t, other.Favorite, "favorites only match their own kind")
}

func TestTopAndRecommended(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/anime/top?page=2")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	sent, err := url.Parse(ts.upstream.last())
	require.NoError(t, err)
	assert.Equal(t, "/top/anime", sent.Path)
	assert.Equal(t, "2", sent.Query().Get("page"))

	resp = ts.api.Get("/api/v1/manga/recommended")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	sent, err = url.Parse(ts.upstream.last())
	require.NoError(t, err)
	assert.Equal(t, "/manga", sent.Path)
	assert.Equal(t, "8.5", sent.Query().Get("min_score"))
	assert.Equal(t, "score", sent.Query().Get("order_by"))
}

func TestSeasonalAndRandom(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/anime/seasonal")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, ts.upstream.last(), "/seasons/")

	resp = ts.api.Get("/api/v1/anime/random")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	rec := decode[domain.CatalogRecord](t, resp.Body.Bytes())
	assert.Equal(t, 7, rec.ID)
}
