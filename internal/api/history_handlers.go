package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/animevault/animevault-server/internal/domain"
)

func (s *Server) registerHistoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getHistory",
		Method:      http.MethodGet,
		Path:        "/api/v1/history",
		Summary:     "Watch history",
		Description: "Most recent first, at most 20 entries",
		Tags:        []string{"History"},
	}, s.handleGetHistory)

	huma.Register(s.api, huma.Operation{
		OperationID: "recordHistory",
		Method:      http.MethodPost,
		Path:        "/api/v1/history",
		Summary:     "Record a view",
		Description: "Moves the item to the front of the history and returns the updated history with fresh stats",
		Tags:        []string{"History"},
	}, s.handleRecordHistory)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearHistory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/history",
		Summary:     "Clear watch history",
		Tags:        []string{"History"},
	}, s.handleClearHistory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "User statistics",
		Tags:        []string{"History"},
	}, s.handleGetStats)
}

// HistoryOutput wraps the watch history.
type HistoryOutput struct {
	Body struct {
		History []domain.HistoryEntry `json:"history"`
	}
}

// RecordHistoryRequest is the request body for recording a view.
type RecordHistoryRequest struct {
	Kind          string     `json:"kind" validate:"required,catalog_kind" doc:"anime or manga"`
	ID            int        `json:"id" validate:"required,gt=0" doc:"Upstream item id"`
	Title         string     `json:"title" validate:"required" doc:"Display title"`
	ImageURL      string     `json:"image_url,omitempty" doc:"Cover image"`
	EpisodeNumber *int       `json:"episode_number,omitempty" validate:"omitempty,gt=0" doc:"Episode or chapter reached"`
	ConsumedAt    *time.Time `json:"consumed_at,omitempty" doc:"When the item was viewed (default: now)"`
}

// RecordHistoryInput wraps the record request.
type RecordHistoryInput struct {
	Body RecordHistoryRequest
}

// RecordHistoryOutput returns the updated history and stats.
type RecordHistoryOutput struct {
	Body struct {
		History []domain.HistoryEntry `json:"history"`
		Stats   domain.UserStats      `json:"stats"`
	}
}

// StatsOutput wraps user statistics.
type StatsOutput struct {
	Body domain.UserStats
}

func (s *Server) handleGetHistory(ctx context.Context, _ *struct{}) (*HistoryOutput, error) {
	history, err := s.services.Library.History(ctx)
	if err != nil {
		return nil, s.storeError("get history", err)
	}
	resp := &HistoryOutput{}
	resp.Body.History = history
	return resp, nil
}

func (s *Server) handleRecordHistory(ctx context.Context, input *RecordHistoryInput) (*RecordHistoryOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, toAPIError(err)
	}

	entry := domain.HistoryEntry{
		ItemID:        input.Body.ID,
		Kind:          domain.Kind(input.Body.Kind),
		Title:         input.Body.Title,
		ImageURL:      input.Body.ImageURL,
		EpisodeNumber: input.Body.EpisodeNumber,
	}
	if input.Body.ConsumedAt != nil {
		entry.LastConsumedAt = input.Body.ConsumedAt.UTC()
	}

	update, err := s.services.Library.RecordHistory(ctx, entry)
	if err != nil {
		return nil, s.storeError("record history", err)
	}
	resp := &RecordHistoryOutput{}
	resp.Body.History = update.History
	resp.Body.Stats = update.Stats
	return resp, nil
}

func (s *Server) handleClearHistory(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	stats, err := s.services.Library.ClearHistory(ctx)
	if err != nil {
		return nil, s.storeError("clear history", err)
	}
	return &StatsOutput{Body: stats}, nil
}

func (s *Server) handleGetStats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	stats, err := s.services.Library.Stats(ctx)
	if err != nil {
		return nil, s.storeError("get stats", err)
	}
	return &StatsOutput{Body: stats}, nil
}
