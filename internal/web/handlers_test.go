package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/yelinaung/expense-report/internal/models"
	"gitlab.com/yelinaung/expense-report/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &service.Error{Kind: service.KindValidation}, http.StatusUnprocessableEntity},
		{"forbidden", &service.Error{Kind: service.KindForbidden}, http.StatusForbidden},
		{"persistence", &service.Error{Kind: service.KindPersistence, Err: errors.New("down")}, http.StatusInternalServerError},
		{"duplicate username", &service.Error{Kind: service.KindPersistence, Err: models.ErrDuplicateUsername}, http.StatusConflict},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestLedgerSelection(t *testing.T) {
	t.Run("nil before the form is submitted", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/reports?report=ledger", nil)
		require.Nil(t, ledgerSelection(r))
	})

	t.Run("empty but not nil when nothing is ticked", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/reports?report=ledger&employees_submitted=1", nil)
		got := ledgerSelection(r)
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("ticked employees", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/reports?employees_submitted=1&employee=Alice&employee=Bob", nil)
		require.Equal(t, []string{"Alice", "Bob"}, ledgerSelection(r))
	})
}
