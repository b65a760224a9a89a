// Package store persists favorites, watch history and the current session in
// a Badger database. Each collection lives under one key as a JSON value and
// every mutation is committed before the call returns.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/animevault/animevault-server/internal/domain"
	apperrors "github.com/animevault/animevault-server/internal/errors"
)

// Durable keys.
const (
	keyFavorites     = "favorites"
	keyHistory       = "history"
	keyCurrentUser   = "session:current_user"
	keySchemaVersion = "meta:schema_version"
)

// SchemaVersion is the layout version written by this build.
const SchemaVersion = 1

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
	now    func() time.Time

	// One lock per collection guards its read-modify-write cycle.
	favoritesMu sync.Mutex
	historyMu   sync.Mutex
	sessionMu   sync.Mutex
}

// Open opens (or creates) the database at path and migrates it to SchemaVersion.
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Every mutation must be durable before returning
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePersistence, "open badger db")
	}

	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		db:     db,
		logger: logger,
		now:    time.Now,
	}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("Badger database opened", "path", path, "schema_version", SchemaVersion)
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.logger.Info("Closing database connection")
	if err := s.db.Close(); err != nil {
		return apperrors.Wrap(err, apperrors.CodePersistence, "close badger db")
	}
	return nil
}

// Ping verifies the database can serve a read.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := readVersion(txn)
		return err
	})
	if err != nil {
		return persistenceError("ping", err)
	}
	return nil
}

// migrate brings the stored layout up to SchemaVersion. A database without a
// version key is version 0; moving to 1 deduplicates favorites and history.
func (s *Store) migrate() error {
	return s.db.Update(func(txn *badger.Txn) error {
		version, err := readVersion(txn)
		if err != nil {
			return persistenceError("read schema version", err)
		}

		switch {
		case version == SchemaVersion:
			return nil
		case version > SchemaVersion:
			return apperrors.Wrap(
				fmt.Errorf("schema version %d is newer than supported version %d", version, SchemaVersion),
				apperrors.CodePersistence, "unsupported database schema")
		}

		favorites, err := loadFavorites(txn)
		if err != nil {
			return persistenceError("migrate favorites", err)
		}
		if err := setJSON(txn, keyFavorites, favorites); err != nil {
			return persistenceError("migrate favorites", err)
		}

		history, err := loadHistory(txn)
		if err != nil {
			return persistenceError("migrate history", err)
		}
		if err := setJSON(txn, keyHistory, history); err != nil {
			return persistenceError("migrate history", err)
		}

		if err := setJSON(txn, keySchemaVersion, SchemaVersion); err != nil {
			return persistenceError("write schema version", err)
		}

		s.logger.Info("migrated preference store",
			"from_version", version,
			"to_version", SchemaVersion,
			"favorites", len(favorites),
			"history", len(history),
		)
		return nil
	})
}

func readVersion(txn *badger.Txn) (int, error) {
	var version int
	found, err := getJSON(txn, keySchemaVersion, &version)
	if err != nil || !found {
		return 0, err
	}
	return version, nil
}

// getJSON decodes the value at key into dest. A missing key is not an error.
func getJSON(txn *badger.Txn, key string, dest any) (bool, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	err = item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, dest); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		return nil
	})
	return err == nil, err
}

func setJSON(txn *badger.Txn, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

// persistenceError wraps storage failures. Domain errors raised inside a
// transaction pass through untouched.
func persistenceError(op string, err error) error {
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return apperrors.Wrap(err, apperrors.CodePersistence, op)
}

func validateKind(kind domain.Kind) error {
	if !kind.Valid() {
		return apperrors.Validationf("unknown catalog kind %q", kind)
	}
	return nil
}
