// Package storage selects and prepares the persistence backend named by DATABASE_URL.
package storage

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/yelinaung/expense-report/internal/database"
	"gitlab.com/yelinaung/expense-report/internal/logger"
	"gitlab.com/yelinaung/expense-report/internal/models"
	"gitlab.com/yelinaung/expense-report/internal/repository"
	"gitlab.com/yelinaung/expense-report/internal/sqlite"
)

// Backend kinds.
const (
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindByCredentials(ctx context.Context, username, password string) (*models.User, error)
	CountUsers(ctx context.Context) (int, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// EntryStore persists expense entries.
type EntryStore interface {
	CreateEntry(ctx context.Context, entry *models.Entry) error
	ListEntries(ctx context.Context) ([]models.Entry, error)
}

// Backend is an opened, migrated and seeded store.
type Backend struct {
	Kind    string
	Users   UserStore
	Entries EntryStore
	close   func() error
}

// Close releases the underlying connections.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects to the database named by url, ensures the schema exists and
// seeds the default accounts into an empty users table.
//
// postgres:// and postgresql:// URLs use PostgreSQL. sqlite://<path> and
// :memory: use SQLite.
func Open(ctx context.Context, url string) (*Backend, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return openPostgres(ctx, url)
	case url == sqlite.MemoryPath:
		return openSQLite(ctx, sqlite.MemoryPath)
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		if path == "" {
			return nil, fmt.Errorf("sqlite url %q has no path", url)
		}
		return openSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported database url scheme: %q", schemeOf(url))
	}
}

func openPostgres(ctx context.Context, url string) (*Backend, error) {
	pool, err := database.Connect(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := database.SeedDefaultUsers(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Log.Info().Str("backend", KindPostgres).Msg("Database ready")

	return &Backend{
		Kind:    KindPostgres,
		Users:   repository.NewUserRepository(pool),
		Entries: repository.NewEntryRepository(pool),
		close: func() error {
			pool.Close()
			return nil
		},
	}, nil
}

func openSQLite(ctx context.Context, path string) (*Backend, error) {
	store, err := sqlite.New(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := store.SeedDefaultUsers(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	logger.Log.Info().Str("backend", KindSQLite).Str("path", path).Msg("Database ready")

	return &Backend{
		Kind:    KindSQLite,
		Users:   store,
		Entries: store,
		close:   store.Close,
	}, nil
}

func schemeOf(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		return url[:i]
	}
	return url
}
