package store

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/animevault/animevault-server/internal/domain"
)

// CurrentUser returns the signed-in user, or nil when nobody is signed in.
func (s *Store) CurrentUser(ctx context.Context) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		user  domain.User
		found bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = getJSON(txn, keyCurrentUser, &user)
		return err
	})
	if err != nil {
		return nil, persistenceError("read current user", err)
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// SaveCurrentUser replaces the signed-in user.
func (s *Store) SaveCurrentUser(ctx context.Context, user domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, keyCurrentUser, user)
	})
	if err != nil {
		return persistenceError("save current user", err)
	}
	return nil
}

// ClearCurrentUser signs the current user out. Clearing when nobody is
// signed in is a no-op.
func (s *Store) ClearCurrentUser(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyCurrentUser))
	})
	if err != nil {
		return persistenceError("clear current user", err)
	}
	return nil
}
