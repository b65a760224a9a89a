package store

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/animevault/animevault-server/internal/domain"
	apperrors "github.com/animevault/animevault-server/internal/errors"
)

// ListFavorites returns all favorites in the order they were added.
func (s *Store) ListFavorites(ctx context.Context) ([]domain.FavoriteEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var favorites []domain.FavoriteEntry
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		favorites, err = loadFavorites(txn)
		return err
	})
	if err != nil {
		return nil, persistenceError("list favorites", err)
	}
	return favorites, nil
}

// AddFavorite stores record as a favorite with an optional status.
// Adding an item that is already a favorite changes nothing and returns the
// existing entry with added=false.
func (s *Store) AddFavorite(ctx context.Context, record domain.CatalogRecord, status domain.WatchStatus) (entry domain.FavoriteEntry, added bool, err error) {
	if err := ctx.Err(); err != nil {
		return domain.FavoriteEntry{}, false, err
	}
	if record.ID <= 0 {
		return domain.FavoriteEntry{}, false, apperrors.Validationf("favorite needs a positive id, got %d", record.ID)
	}
	if err := validateKind(record.Kind); err != nil {
		return domain.FavoriteEntry{}, false, err
	}
	if !status.Valid() {
		return domain.FavoriteEntry{}, false, apperrors.Validationf("unknown watch status %q", status)
	}

	err = s.mutateFavorites(func(favorites []domain.FavoriteEntry) ([]domain.FavoriteEntry, bool) {
		if i := indexOfFavorite(favorites, record.ID); i >= 0 {
			entry = favorites[i]
			return favorites, false
		}
		entry = domain.NewFavoriteEntry(record, status, s.now().UTC())
		added = true
		return append(favorites, entry), true
	})
	if err != nil {
		return domain.FavoriteEntry{}, false, persistenceError("add favorite", err)
	}

	if added {
		s.logger.Debug("favorite added", "item_id", record.ID, "kind", record.Kind, "status", status)
	}
	return entry, added, nil
}

// RemoveFavorite deletes the favorite for id. Removing a non-member is a no-op
// reported as removed=false.
func (s *Store) RemoveFavorite(ctx context.Context, id int) (removed bool, err error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	err = s.mutateFavorites(func(favorites []domain.FavoriteEntry) ([]domain.FavoriteEntry, bool) {
		i := indexOfFavorite(favorites, id)
		if i < 0 {
			return favorites, false
		}
		removed = true
		return append(favorites[:i], favorites[i+1:]...), true
	})
	if err != nil {
		return false, persistenceError("remove favorite", err)
	}
	return removed, nil
}

// IsFavorite reports whether id is a favorite.
func (s *Store) IsFavorite(ctx context.Context, id int) (bool, error) {
	entry, err := s.GetFavorite(ctx, id)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}

// GetFavorite returns the favorite for id, or nil if id is not a favorite.
func (s *Store) GetFavorite(ctx context.Context, id int) (*domain.FavoriteEntry, error) {
	favorites, err := s.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOfFavorite(favorites, id); i >= 0 {
		return &favorites[i], nil
	}
	return nil, nil
}

// GetStatus returns the watch status of id. Non-favorites have no status.
func (s *Store) GetStatus(ctx context.Context, id int) (domain.WatchStatus, error) {
	entry, err := s.GetFavorite(ctx, id)
	if err != nil || entry == nil {
		return domain.StatusNone, err
	}
	return entry.WatchStatus, nil
}

// SetStatus assigns status to the favorite id; StatusNone clears it.
// Setting a status on an item that is not a favorite changes nothing and
// returns updated=false.
func (s *Store) SetStatus(ctx context.Context, id int, status domain.WatchStatus) (updated bool, err error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !status.Valid() {
		return false, apperrors.Validationf("unknown watch status %q", status)
	}

	err = s.mutateFavorites(func(favorites []domain.FavoriteEntry) ([]domain.FavoriteEntry, bool) {
		i := indexOfFavorite(favorites, id)
		if i < 0 {
			return favorites, false
		}
		updated = true
		if favorites[i].WatchStatus == status {
			return favorites, false
		}
		favorites[i].WatchStatus = status
		return favorites, true
	})
	if err != nil {
		return false, persistenceError("set watch status", err)
	}
	return updated, nil
}

// ListByStatus returns the favorites matching filter, in insertion order.
func (s *Store) ListByStatus(ctx context.Context, filter domain.StatusFilter) ([]domain.FavoriteEntry, error) {
	favorites, err := s.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.FavoriteEntry, 0, len(favorites))
	for _, f := range favorites {
		if filter.Matches(f.WatchStatus) {
			matched = append(matched, f)
		}
	}
	return matched, nil
}

// mutateFavorites runs fn over the stored favorites inside one update
// transaction. The collection is written back only when fn reports a change.
func (s *Store) mutateFavorites(fn func([]domain.FavoriteEntry) ([]domain.FavoriteEntry, bool)) error {
	s.favoritesMu.Lock()
	defer s.favoritesMu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		favorites, err := loadFavorites(txn)
		if err != nil {
			return err
		}
		next, changed := fn(favorites)
		if !changed {
			return nil
		}
		return setJSON(txn, keyFavorites, next)
	})
}

// loadFavorites reads the favorites collection, keeping the first entry
// for each item id.
func loadFavorites(txn *badger.Txn) ([]domain.FavoriteEntry, error) {
	var stored []domain.FavoriteEntry
	if _, err := getJSON(txn, keyFavorites, &stored); err != nil {
		return nil, err
	}

	favorites := make([]domain.FavoriteEntry, 0, len(stored))
	seen := make(map[int]bool, len(stored))
	for _, f := range stored {
		if seen[f.ItemID] {
			continue
		}
		seen[f.ItemID] = true
		favorites = append(favorites, f)
	}
	return favorites, nil
}

func indexOfFavorite(favorites []domain.FavoriteEntry, id int) int {
	for i := range favorites {
		if favorites[i].ItemID == id {
			return i
		}
	}
	return -1
}
