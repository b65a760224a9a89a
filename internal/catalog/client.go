// Package catalog is the client for the upstream anime and manga catalog API.
//
// Both catalogs share one request pipeline: client-side pacing per kind, the
// retry executor for rate limits, status mapping to domain errors, and
// normalization of raw payloads into domain.CatalogRecord.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/animevault/animevault-server/internal/domain"
	apperrors "github.com/animevault/animevault-server/internal/errors"
	"github.com/animevault/animevault-server/internal/ratelimit"
	"github.com/animevault/animevault-server/internal/retry"
	"github.com/animevault/animevault-server/internal/validation"
)

const (
	// DefaultBaseURL is the public Jikan v4 endpoint.
	DefaultBaseURL = "https://api.jikan.moe/v4"

	defaultRPS       = 3.0
	defaultBurst     = 3
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "AnimeVault/1.0"

	// Upper bound on response bodies; the largest list page is well below this.
	maxBodyBytes = 8 << 20
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RPS       float64
	Burst     int
	UserAgent string
}

// Client is a paced, retrying catalog API client.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	limiter   *ratelimit.KeyedRateLimiter[domain.Kind]
	executor  *retry.Executor
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time

	anime *AnimeCatalog
	manga *MangaCatalog
}

// New creates a catalog client.
func New(opts Options, executor *retry.Executor, validator *validation.Validator, logger *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RPS <= 0 {
		opts.RPS = defaultRPS
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if executor == nil {
		executor = retry.NewExecutor(retry.DefaultPolicy, logger)
	}
	if validator == nil {
		validator = validation.New()
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		http: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		limiter:   ratelimit.New[domain.Kind](opts.RPS, opts.Burst),
		executor:  executor,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
	c.anime = &AnimeCatalog{resource{client: c, kind: domain.KindAnime}}
	c.manga = &MangaCatalog{resource{client: c, kind: domain.KindManga}}
	return c
}

// Anime returns the primary catalog.
func (c *Client) Anime() *AnimeCatalog {
	return c.anime
}

// Manga returns the secondary catalog.
func (c *Client) Manga() *MangaCatalog {
	return c.manga
}

// Resource returns the shared operations for kind.
func (c *Client) Resource(kind domain.Kind) (Resource, error) {
	switch kind {
	case domain.KindAnime:
		return c.anime, nil
	case domain.KindManga:
		return c.manga, nil
	default:
		return nil, apperrors.Validationf("unknown catalog kind %q", kind)
	}
}

// get issues a GET through the retry executor. A rate limit that outlasts
// the retry budget is reported as the upstream being unavailable.
func (c *Client) get(ctx context.Context, kind domain.Kind, path string, query url.Values) ([]byte, error) {
	body, err := retry.Execute(ctx, c.executor, func(ctx context.Context) ([]byte, error) {
		return c.doRequest(ctx, kind, path, query)
	})
	if err != nil {
		if retry.IsRateLimited(err) {
			return nil, apperrors.Wrap(err, apperrors.CodeUpstreamUnavailable, "catalog still rate limited after retries")
		}
		return nil, err
	}
	return body, nil
}

// doRequest executes one HTTP request with pacing and maps the status code
// to a domain error.
func (c *Client) doRequest(ctx context.Context, kind domain.Kind, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, kind); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUpstreamUnavailable, "catalog pacing wait aborted")
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("catalog request",
		"kind", kind,
		"path", path,
		"query", query.Encode(),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUpstreamUnavailable, "catalog request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUpstreamUnavailable, "read catalog response")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.NotFoundf("%s not found", strings.TrimPrefix(path, "/"))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, apperrors.ErrRateLimited.WithCause(fmt.Errorf("GET %s: status 429", path))
	case resp.StatusCode == http.StatusBadRequest:
		return nil, apperrors.Validation("upstream rejected request: " + upstreamMessage(body))
	case resp.StatusCode >= 500:
		return nil, apperrors.ErrUpstreamUnavailable.WithCause(fmt.Errorf("GET %s: status %d", path, resp.StatusCode))
	default:
		return nil, apperrors.InvalidResponsef("unexpected status %d from %s", resp.StatusCode, path)
	}
}

// upstreamMessage extracts the message field of an upstream error body.
func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return "bad request"
}
