package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gitlab.com/yelinaung/expense-report/internal/logger"
	"gitlab.com/yelinaung/expense-report/internal/models"
)

func validInput() EntryInput {
	return EntryInput{
		Date:        "2024-01-01",
		Employee:    "Alice",
		ExpenseType: "TA",
		Amount:      "100",
		Description: "flight",
	}
}

func TestEntryService_Submit(t *testing.T) {
	ctx := context.Background()
	svc := NewEntryService(newStore(t))

	t.Run("user submits and admin sees it", func(t *testing.T) {
		entry, err := svc.Submit(ctx, userSession, validInput())
		require.NoError(t, err)
		require.NotZero(t, entry.ID)

		entries, err := svc.List(ctx, adminSession)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		got := entries[0]
		require.Equal(t, "2024-01-01", got.Date.Format(models.DateLayout))
		require.Equal(t, "Alice", got.Employee)
		require.Equal(t, models.ExpenseTA, got.ExpenseType)
		require.True(t, got.Amount.Equal(decimal.NewFromInt(100)))
		require.Equal(t, "flight", got.Description)
	})

	t.Run("zero amount is allowed", func(t *testing.T) {
		in := validInput()
		in.Amount = "0"
		_, err := svc.Submit(ctx, adminSession, in)
		require.NoError(t, err)
	})

	t.Run("trims employee and description", func(t *testing.T) {
		in := validInput()
		in.Employee = "  Bob  "
		in.Description = " meal "
		entry, err := svc.Submit(ctx, userSession, in)
		require.NoError(t, err)
		require.Equal(t, "Bob", entry.Employee)
		require.Equal(t, "meal", entry.Description)
	})

	t.Run("log line redacts employee and description", func(t *testing.T) {
		var buf bytes.Buffer
		old := logger.Log
		logger.Log = zerolog.New(&buf)
		t.Cleanup(func() { logger.Log = old })

		in := validInput()
		in.Employee = "Alexandra Smith"
		in.Description = "taxi to the airport"
		_, err := svc.Submit(ctx, userSession, in)
		require.NoError(t, err)

		out := buf.String()
		require.Contains(t, out, "Ale...<15 chars>")
		require.NotContains(t, out, "Alexandra Smith")
		require.NotContains(t, out, "airport")
		require.NotContains(t, out, "user2")
	})

	t.Run("anonymous is forbidden", func(t *testing.T) {
		_, err := svc.Submit(ctx, models.Session{}, validInput())
		requireKind(t, err, KindForbidden)
	})

	tests := []struct {
		name   string
		mutate func(*EntryInput)
		msg    string
	}{
		{"missing date", func(in *EntryInput) { in.Date = "" }, "date is required"},
		{"bad date", func(in *EntryInput) { in.Date = "01/02/2024" }, "invalid date"},
		{"blank employee", func(in *EntryInput) { in.Employee = "   " }, "employee name is required"},
		{"unknown type", func(in *EntryInput) { in.ExpenseType = "Hotel" }, "invalid expense type"},
		{"lowercase type", func(in *EntryInput) { in.ExpenseType = "ta" }, "invalid expense type"},
		{"missing amount", func(in *EntryInput) { in.Amount = "" }, "amount is required"},
		{"non-numeric amount", func(in *EntryInput) { in.Amount = "ten" }, "invalid amount"},
		{"negative amount", func(in *EntryInput) { in.Amount = "-0.01" }, "must not be negative"},
		{"too many decimals", func(in *EntryInput) { in.Amount = "1.005" }, "at most 2 decimal places"},
		{"too large", func(in *EntryInput) { in.Amount = "10000000000" }, "must be less than"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Submit(ctx, userSession, in)
			requireKind(t, err, KindValidation)
			require.Contains(t, err.Error(), tt.msg)
		})
	}

	t.Run("storage failure is a persistence error", func(t *testing.T) {
		broken := NewEntryService(brokenStore{})
		_, err := broken.Submit(ctx, userSession, validInput())
		requireKind(t, err, KindPersistence)
		require.ErrorIs(t, err, errBroken)
	})
}

func TestEntryService_List(t *testing.T) {
	ctx := context.Background()
	svc := NewEntryService(newStore(t))

	t.Run("empty store lists nothing", func(t *testing.T) {
		entries, err := svc.List(ctx, adminSession)
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("non-admin cannot list or report", func(t *testing.T) {
		_, err := svc.List(ctx, userSession)
		requireKind(t, err, KindForbidden)

		_, err = svc.Report(ctx, userSession)
		requireKind(t, err, KindForbidden)
	})

	t.Run("storage failure is a persistence error", func(t *testing.T) {
		broken := NewEntryService(brokenStore{})
		_, err := broken.Report(ctx, adminSession)
		requireKind(t, err, KindPersistence)
	})
}
