package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"gitlab.com/yelinaung/expense-report/internal/logger"
	"gitlab.com/yelinaung/expense-report/internal/models"
)

// UserStore persists and lists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

// AdminService implements the admin panel operations.
type AdminService struct {
	users   UserStore
	created metric.Int64Counter
}

// NewAdminService creates a new AdminService.
func NewAdminService(users UserStore) *AdminService {
	return &AdminService{
		users:   users,
		created: newCounter("expense_report.users_created", "Accounts created from the admin panel"),
	}
}

// AddUser creates a new account. Only admins may call it.
func (s *AdminService) AddUser(ctx context.Context, actor models.Session, username, password string, role models.Role) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, forbiddenError("add users")
	}

	// Stored as typed; login matches it exactly.
	if strings.TrimSpace(username) == "" {
		return nil, validationError("username is required")
	}
	if password == "" {
		return nil, validationError("password is required")
	}
	if !role.Valid() {
		return nil, validationError("invalid role %q", role)
	}

	user := &models.User{Username: username, Password: password, Role: role}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, persistenceError("failed to add user", err)
	}

	s.created.Add(ctx, 1)
	logger.Log.Info().
		Str("admin", logger.HashUsername(actor.Username)).
		Str("user", logger.HashUsername(user.Username)).
		Str("role", string(role)).
		Msg("User added")

	return user, nil
}

// ListUsers returns all accounts. Only admins may call it.
func (s *AdminService) ListUsers(ctx context.Context, actor models.Session) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, forbiddenError("list users")
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, persistenceError("failed to list users", err)
	}
	return users, nil
}
