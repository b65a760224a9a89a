package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/animevault/animevault-server/internal/catalog"
	"github.com/animevault/animevault-server/internal/domain"
	domainerrors "github.com/animevault/animevault-server/internal/errors"
	"github.com/animevault/animevault-server/internal/store"
)

// LibraryService manages favorites, watch statuses, the watch history and
// the stats derived from them.
type LibraryService struct {
	catalog *catalog.Client
	store   *store.Store
	logger  *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(client *catalog.Client, store *store.Store, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		catalog: client,
		store:   store,
		logger:  logger,
	}
}

// HistoryUpdate is the history after a mutation together with fresh stats.
type HistoryUpdate struct {
	History []domain.HistoryEntry `json:"history"`
	Stats   domain.UserStats      `json:"stats"`
}

// Favorites lists favorites matching filter.
func (s *LibraryService) Favorites(ctx context.Context, filter domain.StatusFilter) ([]domain.FavoriteEntry, error) {
	return s.store.ListByStatus(ctx, filter)
}

// AddFavorite favorites the item kind/id with an optional status. The record
// snapshot is fetched from the catalog only when the item is not already a
// favorite. Favorites are keyed by id, so an id already saved under the
// other kind is rejected.
func (s *LibraryService) AddFavorite(ctx context.Context, kind domain.Kind, id int, status domain.WatchStatus) (domain.FavoriteEntry, bool, error) {
	existing, err := s.store.GetFavorite(ctx, id)
	if err != nil {
		return domain.FavoriteEntry{}, false, err
	}
	if existing != nil {
		if existing.Kind != kind {
			return domain.FavoriteEntry{}, false, domainerrors.ValidationWithDetails("favorite id already in use", map[string]string{
				"id": fmt.Sprintf("%d is already a favorite %s", id, existing.Kind),
			})
		}
		return *existing, false, nil
	}

	res, err := s.catalog.Resource(kind)
	if err != nil {
		return domain.FavoriteEntry{}, false, err
	}
	rec, err := res.GetByID(ctx, id)
	if err != nil {
		return domain.FavoriteEntry{}, false, err
	}

	entry, added, err := s.store.AddFavorite(ctx, rec, status)
	if err != nil {
		return domain.FavoriteEntry{}, false, err
	}
	if added {
		s.logger.Info("favorite added", "kind", kind, "item_id", id, "title", rec.Title)
	}
	return entry, added, nil
}

// RemoveFavorite removes the favorite id if present.
func (s *LibraryService) RemoveFavorite(ctx context.Context, id int) (bool, error) {
	return s.store.RemoveFavorite(ctx, id)
}

// SetStatus changes the watch status of a favorite. It reports false when id
// is not a favorite.
func (s *LibraryService) SetStatus(ctx context.Context, id int, status domain.WatchStatus) (bool, error) {
	return s.store.SetStatus(ctx, id, status)
}

// History returns the watch history, most recent first.
func (s *LibraryService) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	return s.store.ListHistory(ctx)
}

// RecordHistory logs a consumption and recomputes stats.
func (s *LibraryService) RecordHistory(ctx context.Context, entry domain.HistoryEntry) (HistoryUpdate, error) {
	history, err := s.store.RecordHistory(ctx, entry)
	if err != nil {
		return HistoryUpdate{}, err
	}
	stats, err := s.statsWithHistory(ctx, history)
	if err != nil {
		return HistoryUpdate{}, err
	}
	return HistoryUpdate{History: history, Stats: stats}, nil
}

// ClearHistory empties the history and recomputes stats.
func (s *LibraryService) ClearHistory(ctx context.Context) (domain.UserStats, error) {
	if err := s.store.ClearHistory(ctx); err != nil {
		return domain.UserStats{}, err
	}
	return s.Stats(ctx)
}

// Stats recomputes the user's stats from the stores.
func (s *LibraryService) Stats(ctx context.Context) (domain.UserStats, error) {
	history, err := s.store.ListHistory(ctx)
	if err != nil {
		return domain.UserStats{}, err
	}
	return s.statsWithHistory(ctx, history)
}

func (s *LibraryService) statsWithHistory(ctx context.Context, history []domain.HistoryEntry) (domain.UserStats, error) {
	favorites, err := s.store.ListFavorites(ctx)
	if err != nil {
		return domain.UserStats{}, err
	}
	return domain.ComputeUserStats(favorites, history), nil
}
