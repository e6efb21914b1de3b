package database

import (
	"context"
	"fmt"

	"gitlab.com/yelinaung/expense-report/internal/models"
)

// RunMigrations creates the database schema. Every statement is idempotent,
// so it is safe to call on each startup.
func RunMigrations(ctx context.Context, db PGXDB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('admin', 'user'))
		)`,

		`CREATE TABLE IF NOT EXISTS entries (
			id SERIAL PRIMARY KEY,
			date DATE NOT NULL,
			employee TEXT NOT NULL,
			expense_type TEXT NOT NULL CHECK (expense_type IN ('TA', 'DA', 'Tour')),
			amount NUMERIC(12, 2) NOT NULL CHECK (amount >= 0),
			description TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_employee ON entries(employee)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

// SeedDefaultUsers inserts the default admin and user accounts when the
// users table is empty. It is a no-op otherwise.
func SeedDefaultUsers(ctx context.Context, db PGXDB) error {
	var count int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, u := range models.DefaultUsers() {
		_, err := db.Exec(ctx,
			`INSERT INTO users (username, password, role) VALUES ($1, $2, $3)`,
			u.Username, u.Password, string(u.Role),
		)
		if err != nil {
			return fmt.Errorf("failed to seed user %q: %w", u.Username, err)
		}
	}

	return nil
}
