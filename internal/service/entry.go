package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"gitlab.com/yelinaung/expense-report/internal/logger"
	"gitlab.com/yelinaung/expense-report/internal/models"
)

// EntryStore persists and lists expense entries.
type EntryStore interface {
	CreateEntry(ctx context.Context, entry *models.Entry) error
	ListEntries(ctx context.Context) ([]models.Entry, error)
}

// maxAmount is the exclusive upper bound of a NUMERIC(12, 2) column.
var maxAmount = decimal.New(1, 10)

// EntryInput is the raw data-entry form.
type EntryInput struct {
	Date        string
	Employee    string
	ExpenseType string
	Amount      string
	Description string
}

// EntryService records and lists expense entries.
type EntryService struct {
	entries   EntryStore
	submitted metric.Int64Counter
}

// NewEntryService creates a new EntryService.
func NewEntryService(entries EntryStore) *EntryService {
	return &EntryService{
		entries:   entries,
		submitted: newCounter("expense_report.entries_submitted", "Expense entries recorded"),
	}
}

// Submit validates the form and stores a new entry. Both roles may submit.
func (s *EntryService) Submit(ctx context.Context, actor models.Session, in EntryInput) (*models.Entry, error) {
	if !actor.LoggedIn {
		return nil, forbiddenError("submit entries")
	}

	entry, verr := parseEntry(in)
	if verr != nil {
		return nil, verr
	}

	if err := s.entries.CreateEntry(ctx, entry); err != nil {
		return nil, persistenceError("failed to save entry", err)
	}

	s.submitted.Add(ctx, 1, metric.WithAttributes(attribute.String("expense_type", string(entry.ExpenseType))))
	logger.Log.Info().
		Int64("entry_id", entry.ID).
		Str("user", logger.HashUsername(actor.Username)).
		Str("employee", logger.SanitizeText(entry.Employee)).
		Str("expense_type", string(entry.ExpenseType)).
		Str("amount", entry.Amount.StringFixed(2)).
		Str("description", logger.SanitizeDescription(entry.Description)).
		Msg("Entry submitted")

	return entry, nil
}

// List returns every entry in storage order. Only admins may call it.
func (s *EntryService) List(ctx context.Context, actor models.Session) ([]models.Entry, error) {
	if !actor.IsAdmin() {
		return nil, forbiddenError("view entries")
	}
	return s.all(ctx)
}

// Report returns every entry for aggregation. Only admins may call it.
func (s *EntryService) Report(ctx context.Context, actor models.Session) ([]models.Entry, error) {
	if !actor.IsAdmin() {
		return nil, forbiddenError("view reports")
	}
	return s.all(ctx)
}

func (s *EntryService) all(ctx context.Context) ([]models.Entry, error) {
	entries, err := s.entries.ListEntries(ctx)
	if err != nil {
		return nil, persistenceError("failed to load entries", err)
	}
	return entries, nil
}

func parseEntry(in EntryInput) (*models.Entry, *Error) {
	dateStr := strings.TrimSpace(in.Date)
	if dateStr == "" {
		return nil, validationError("date is required")
	}
	date, err := time.Parse(models.DateLayout, dateStr)
	if err != nil {
		return nil, validationError("invalid date %q: use YYYY-MM-DD", dateStr)
	}

	employee := strings.TrimSpace(in.Employee)
	if employee == "" {
		return nil, validationError("employee name is required")
	}

	expenseType := models.ExpenseType(strings.TrimSpace(in.ExpenseType))
	if !expenseType.Valid() {
		return nil, validationError("invalid expense type %q", in.ExpenseType)
	}

	amountStr := strings.TrimSpace(in.Amount)
	if amountStr == "" {
		return nil, validationError("amount is required")
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, validationError("invalid amount %q", amountStr)
	}
	if amount.IsNegative() {
		return nil, validationError("amount must not be negative")
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return nil, validationError("amount must be less than %s", maxAmount.String())
	}
	if !amount.Equal(amount.Round(2)) {
		return nil, validationError("amount must have at most 2 decimal places")
	}

	return &models.Entry{
		Date:        date,
		Employee:    employee,
		ExpenseType: expenseType,
		Amount:      amount,
		Description: strings.TrimSpace(in.Description),
	}, nil
}
