package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"gitlab.com/yelinaung/expense-report/internal/logger"
	"gitlab.com/yelinaung/expense-report/internal/models"
)

// UserFinder looks up accounts by exact credentials.
type UserFinder interface {
	FindByCredentials(ctx context.Context, username, password string) (*models.User, error)
}

// AuthService moves sessions between the anonymous and authenticated states.
type AuthService struct {
	users  UserFinder
	logins metric.Int64Counter
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserFinder) *AuthService {
	return &AuthService{
		users:  users,
		logins: newCounter("expense_report.logins", "Login attempts by result"),
	}
}

// Login checks the credentials and returns an authenticated session on an
// exact match. A mismatch is reported as ok=false, not as an error.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.Session, bool, error) {
	if username == "" || password == "" {
		s.record(ctx, "rejected")
		return models.Session{}, false, nil
	}

	user, err := s.users.FindByCredentials(ctx, username, password)
	if errors.Is(err, models.ErrUserNotFound) {
		s.record(ctx, "rejected")
		logger.Log.Info().Str("user", logger.HashUsername(username)).Msg("Login rejected")
		return models.Session{}, false, nil
	}
	if err != nil {
		s.record(ctx, "error")
		return models.Session{}, false, persistenceError("failed to check credentials", err)
	}

	s.record(ctx, "success")
	logger.Log.Info().
		Str("user", logger.HashUsername(user.Username)).
		Str("role", string(user.Role)).
		Msg("Login succeeded")

	return models.Session{LoggedIn: true, Username: user.Username, Role: user.Role}, true, nil
}

// Logout returns the anonymous session.
func (s *AuthService) Logout() models.Session {
	return models.Session{}
}

func (s *AuthService) record(ctx context.Context, result string) {
	s.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
