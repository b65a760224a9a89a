package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animevault/animevault-server/internal/domain"
)

func TestSession_Lifecycle(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/session/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "UNAUTHORIZED", decode[APIError](t, resp.Body.Bytes()).Code)

	resp = ts.api.Post("/api/v1/session/login", map[string]any{"username": "  kira  "})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	user := decode[domain.User](t, resp.Body.Bytes())
	assert.Equal(t, "kira", user.Username)
	assert.True(t, strings.HasPrefix(user.ID, "user-"), user.ID)
	assert.NotEmpty(t, user.SessionID)

	me := decode[domain.User](t, ts.api.Get("/api/v1/session/me").Body.Bytes())
	assert.Equal(t, user, me)

	resp = ts.api.Post("/api/v1/session/logout")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, http.StatusUnauthorized, ts.api.Get("/api/v1/session/me").Code)
}

func TestSession_LoginRejectsBlankName(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/session/login", map[string]any{"username": "   "})

	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}
