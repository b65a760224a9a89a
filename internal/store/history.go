package store

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/animevault/animevault-server/internal/domain"
	apperrors "github.com/animevault/animevault-server/internal/errors"
)

// ListHistory returns the watch history, most recent first.
func (s *Store) ListHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var history []domain.HistoryEntry
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		history, err = loadHistory(txn)
		return err
	})
	if err != nil {
		return nil, persistenceError("list history", err)
	}
	return history, nil
}

// RecordHistory moves entry to the front of the history, replacing any older
// entry for the same item and evicting from the tail beyond capacity.
// A zero LastConsumedAt is set to the current time.
func (s *Store) RecordHistory(ctx context.Context, entry domain.HistoryEntry) ([]domain.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if entry.ItemID <= 0 {
		return nil, apperrors.Validationf("history entry needs a positive id, got %d", entry.ItemID)
	}
	if err := validateKind(entry.Kind); err != nil {
		return nil, err
	}
	if entry.EpisodeNumber != nil && *entry.EpisodeNumber < 0 {
		return nil, apperrors.Validation("episode number must not be negative")
	}
	if entry.LastConsumedAt.IsZero() {
		entry.LastConsumedAt = s.now().UTC()
	}

	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	var next []domain.HistoryEntry
	err := s.db.Update(func(txn *badger.Txn) error {
		history, err := loadHistory(txn)
		if err != nil {
			return err
		}
		next = domain.PushHistory(history, entry, domain.HistoryCapacity)
		return setJSON(txn, keyHistory, next)
	})
	if err != nil {
		return nil, persistenceError("record history", err)
	}
	return next, nil
}

// ClearHistory removes every history entry.
func (s *Store) ClearHistory(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, keyHistory, []domain.HistoryEntry{})
	})
	if err != nil {
		return persistenceError("clear history", err)
	}
	return nil
}

// loadHistory reads the history, keeping the first (most recent) entry per
// item and at most HistoryCapacity entries.
func loadHistory(txn *badger.Txn) ([]domain.HistoryEntry, error) {
	var stored []domain.HistoryEntry
	if _, err := getJSON(txn, keyHistory, &stored); err != nil {
		return nil, err
	}

	history := make([]domain.HistoryEntry, 0, min(len(stored), domain.HistoryCapacity))
	seen := make(map[int]bool, len(stored))
	for _, h := range stored {
		if len(history) == domain.HistoryCapacity {
			break
		}
		if seen[h.ItemID] {
			continue
		}
		seen[h.ItemID] = true
		history = append(history, h)
	}
	return history, nil
}
