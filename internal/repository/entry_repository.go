package repository

import (
	"context"
	"fmt"

	"gitlab.com/yelinaung/expense-report/internal/database"
	"gitlab.com/yelinaung/expense-report/internal/models"
)

// EntryRepository handles expense entry database operations.
type EntryRepository struct {
	db database.PGXDB
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db database.PGXDB) *EntryRepository {
	return &EntryRepository{db: db}
}

// CreateEntry appends an entry and fills in its ID.
func (r *EntryRepository) CreateEntry(ctx context.Context, entry *models.Entry) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO entries (date, employee, expense_type, amount, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, entry.Date, entry.Employee, string(entry.ExpenseType), entry.Amount, entry.Description,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

// ListEntries returns every entry in insertion order.
func (r *EntryRepository) ListEntries(ctx context.Context) ([]models.Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, date, employee, expense_type, amount, description
		FROM entries ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var e models.Entry
		var expenseType string
		if err := rows.Scan(&e.ID, &e.Date, &e.Employee, &expenseType, &e.Amount, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.ExpenseType = models.ExpenseType(expenseType)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}
