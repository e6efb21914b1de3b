// Package sqlite provides a SQLite-backed store for users and entries.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"gitlab.com/yelinaung/expense-report/internal/models"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store persists users and entries in a SQLite database.
type Store struct {
	db *sql.DB
}

// New opens the database at path, creating parent directories as needed,
// and ensures the schema exists.
func New(ctx context.Context, path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := path
	if path != MemoryPath {
		dsn = path + "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the users and entries tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('admin', 'user'))
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			employee TEXT NOT NULL,
			expense_type TEXT NOT NULL CHECK (expense_type IN ('TA', 'DA', 'Tour')),
			amount TEXT NOT NULL CHECK (CAST(amount AS REAL) >= 0),
			description TEXT NOT NULL DEFAULT ''
		)`,
	}

	for i, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

// SeedDefaultUsers inserts the default accounts when the users table is empty.
func (s *Store) SeedDefaultUsers(ctx context.Context) error {
	count, err := s.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, u := range models.DefaultUsers() {
		if err := s.CreateUser(ctx, &u); err != nil {
			return fmt.Errorf("failed to seed user %q: %w", u.Username, err)
		}
	}
	return nil
}

// CreateUser inserts a new account and fills in its ID.
// Returns models.ErrDuplicateUsername if the username is taken.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password, role) VALUES (?, ?, ?)`,
		user.Username, user.Password, string(user.Role),
	)
	if err != nil {
		var sqErr *sqlite.Error
		if errors.As(err, &sqErr) && sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return models.ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id
	return nil
}

// FindByCredentials returns the user whose username and password both match exactly.
// Returns models.ErrUserNotFound if there is no such user.
func (s *Store) FindByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password, role FROM users WHERE username = ? AND password = ?`,
		username, password,
	).Scan(&user.ID, &user.Username, &user.Password, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user.Role = models.Role(role)
	return &user, nil
}

// CountUsers returns the number of accounts.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// ListUsers returns all accounts in creation order.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, username, password, role FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var role string
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &role); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.Role = models.Role(role)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// CreateEntry appends an entry and fills in its ID.
func (s *Store) CreateEntry(ctx context.Context, entry *models.Entry) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (date, employee, expense_type, amount, description) VALUES (?, ?, ?, ?, ?)`,
		entry.Date.Format(models.DateLayout), entry.Employee, string(entry.ExpenseType),
		entry.Amount.String(), entry.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read entry id: %w", err)
	}
	entry.ID = id
	return nil
}

// ListEntries returns every entry in insertion order.
func (s *Store) ListEntries(ctx context.Context) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, employee, expense_type, amount, description FROM entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var e models.Entry
		var date, expenseType, amount string
		if err := rows.Scan(&e.ID, &date, &e.Employee, &expenseType, &amount, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if e.Date, err = time.Parse(models.DateLayout, date); err != nil {
			return nil, fmt.Errorf("failed to parse entry date %q: %w", date, err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse entry amount %q: %w", amount, err)
		}
		e.ExpenseType = models.ExpenseType(expenseType)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}
	return entries, nil
}
