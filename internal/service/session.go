package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/animevault/animevault-server/internal/domain"
	domainerrors "github.com/animevault/animevault-server/internal/errors"
	"github.com/animevault/animevault-server/internal/id"
	"github.com/animevault/animevault-server/internal/store"
)

const maxUsernameLength = 64

// SessionService tracks the single signed-in user.
type SessionService struct {
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(store *store.Store, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Login signs username in, replacing any current session.
func (s *SessionService) Login(ctx context.Context, username string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, domainerrors.ValidationWithDetails("validation failed", map[string]string{"username": "is required"})
	}
	if len(username) > maxUsernameLength {
		return domain.User{}, domainerrors.ValidationWithDetails("validation failed",
			map[string]string{"username": fmt.Sprintf("must not exceed %d characters", maxUsernameLength)})
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return domain.User{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate user id")
	}
	sessionID, err := id.NewSessionID()
	if err != nil {
		return domain.User{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate session id")
	}

	user := domain.User{
		ID:         userID,
		Username:   username,
		SessionID:  sessionID,
		LoggedInAt: s.now().UTC(),
	}
	if err := s.store.SaveCurrentUser(ctx, user); err != nil {
		return domain.User{}, err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "session_id", user.SessionID)
	return user, nil
}

// Logout ends the current session. Logging out with no session is a no-op.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.store.ClearCurrentUser(ctx); err != nil {
		return err
	}
	s.logger.Info("user logged out")
	return nil
}

// CurrentUser returns the signed-in user or an Unauthorized error.
func (s *SessionService) CurrentUser(ctx context.Context) (domain.User, error) {
	user, err := s.store.CurrentUser(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domainerrors.Unauthorized("not logged in")
	}
	return *user, nil
}
