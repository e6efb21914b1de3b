package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"gitlab.com/yelinaung/expense-report/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func entry(date, employee string, t models.ExpenseType, amount int64, desc string) models.Entry {
	return models.Entry{
		Date:        day(date),
		Employee:    employee,
		ExpenseType: t,
		Amount:      decimal.NewFromInt(amount),
		Description: desc,
	}
}

func scenario() []models.Entry {
	return []models.Entry{
		entry("2024-01-01", "Alice", models.ExpenseTA, 100, "flight"),
		entry("2024-01-01", "Bob", models.ExpenseDA, 50, "meal"),
		entry("2024-01-02", "Alice", models.ExpenseTour, 200, "site visit"),
	}
}

func requireAmount(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.NewFromInt(want).Equal(got), "want %d, got %s", want, got)
}

func TestOverall(t *testing.T) {
	t.Parallel()

	t.Run("three entry scenario", func(t *testing.T) {
		s := Overall(scenario())
		require.Equal(t, 3, s.Count)
		requireAmount(t, 350, s.Total)
		requireAmount(t, 100, s.TA)
		requireAmount(t, 50, s.DA)
		requireAmount(t, 200, s.Tour)

		require.Len(t, s.Trend, 2)
		require.Equal(t, day("2024-01-01"), s.Trend[0].Date)
		requireAmount(t, 150, s.Trend[0].Amount)
		require.Equal(t, day("2024-01-02"), s.Trend[1].Date)
		requireAmount(t, 200, s.Trend[1].Amount)
	})

	t.Run("missing heads are zero", func(t *testing.T) {
		s := Overall([]models.Entry{entry("2024-03-01", "Alice", models.ExpenseDA, 40, "")})
		requireAmount(t, 0, s.TA)
		requireAmount(t, 40, s.DA)
		requireAmount(t, 0, s.Tour)
	})

	t.Run("trend is sorted regardless of input order", func(t *testing.T) {
		s := Overall([]models.Entry{
			entry("2024-02-03", "A", models.ExpenseTA, 1, ""),
			entry("2023-12-31", "A", models.ExpenseTA, 2, ""),
			entry("2024-01-15", "A", models.ExpenseTA, 3, ""),
		})
		require.Len(t, s.Trend, 3)
		require.Equal(t, day("2023-12-31"), s.Trend[0].Date)
		require.Equal(t, day("2024-01-15"), s.Trend[1].Date)
		require.Equal(t, day("2024-02-03"), s.Trend[2].Date)
	})

	t.Run("no entries", func(t *testing.T) {
		s := Overall(nil)
		require.Zero(t, s.Count)
		require.True(t, s.Total.IsZero())
		require.Empty(t, s.Trend)
	})
}

func TestLedger(t *testing.T) {
	t.Parallel()

	t.Run("nil selection includes every employee", func(t *testing.T) {
		l := Ledger(scenario(), nil)
		require.Equal(t, []string{"Alice", "Bob"}, l.Employees)
		require.Equal(t, []string{"Alice", "Bob"}, l.Selected)
		require.Len(t, l.Rows, 3)
		require.False(t, l.Empty())

		require.Len(t, l.Subtotals, 3)
		require.Equal(t, "Alice", l.Subtotals[0].Employee)
		require.Equal(t, models.ExpenseTA, l.Subtotals[0].ExpenseType)
		require.Equal(t, "Alice", l.Subtotals[1].Employee)
		require.Equal(t, models.ExpenseTour, l.Subtotals[1].ExpenseType)
		require.Equal(t, "Bob", l.Subtotals[2].Employee)
		requireAmount(t, 350, l.Total())
	})

	t.Run("filters to selection", func(t *testing.T) {
		l := Ledger(scenario(), []string{"Bob"})
		require.Equal(t, []string{"Bob"}, l.Selected)
		require.Len(t, l.Rows, 1)
		require.Equal(t, "meal", l.Rows[0].Description)
		require.True(t, l.IsSelected("Bob"))
		require.False(t, l.IsSelected("Alice"))
		requireAmount(t, 50, l.Total())
	})

	t.Run("groups same employee and head", func(t *testing.T) {
		entries := append(scenario(), entry("2024-01-05", "Alice", models.ExpenseTA, 25, "bus"))
		l := Ledger(entries, []string{"Alice"})
		require.Len(t, l.Subtotals, 2)
		requireAmount(t, 125, l.Subtotals[0].Amount)
	})

	t.Run("empty selection is empty state", func(t *testing.T) {
		l := Ledger(scenario(), []string{})
		require.True(t, l.Empty())
		require.Empty(t, l.Subtotals)
		require.Equal(t, []string{"Alice", "Bob"}, l.Employees)
	})

	t.Run("unknown names are dropped", func(t *testing.T) {
		l := Ledger(scenario(), []string{"Zed"})
		require.True(t, l.Empty())
		require.Empty(t, l.Selected)
	})

	t.Run("no entries", func(t *testing.T) {
		l := Ledger(nil, nil)
		require.True(t, l.Empty())
		require.Empty(t, l.Employees)
	})
}

func TestHeadWise(t *testing.T) {
	t.Parallel()

	totals := HeadWise(scenario())
	require.Len(t, totals, 3)
	require.Equal(t, models.ExpenseDA, totals[0].ExpenseType)
	requireAmount(t, 50, totals[0].Amount)
	require.Equal(t, models.ExpenseTA, totals[1].ExpenseType)
	requireAmount(t, 100, totals[1].Amount)
	require.Equal(t, models.ExpenseTour, totals[2].ExpenseType)
	requireAmount(t, 200, totals[2].Amount)

	require.Empty(t, HeadWise(nil))
	require.Len(t, HeadWise(scenario()[:1]), 1)
}

func TestValidMode(t *testing.T) {
	t.Parallel()

	for _, m := range Modes {
		require.True(t, ValidMode(m))
	}
	require.False(t, ValidMode(""))
	require.False(t, ValidMode("monthly"))
}

func genEntries() *rapid.Generator[[]models.Entry] {
	return rapid.SliceOf(rapid.Custom(func(t *rapid.T) models.Entry {
		return models.Entry{
			Date:        day("2024-01-01").AddDate(0, 0, rapid.IntRange(0, 60).Draw(t, "offset")),
			Employee:    rapid.SampledFrom([]string{"Alice", "Bob", "Chen", "Divya"}).Draw(t, "employee"),
			ExpenseType: rapid.SampledFrom(models.ExpenseTypes).Draw(t, "type"),
			Amount:      decimal.New(rapid.Int64Range(0, 100_000_000).Draw(t, "cents"), -2),
		}
	}))
}

func TestOverall_HeadsSumToTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Overall(genEntries().Draw(t, "entries"))
		if !s.Total.Equal(s.TA.Add(s.DA).Add(s.Tour)) {
			t.Fatalf("total %s != TA %s + DA %s + Tour %s", s.Total, s.TA, s.DA, s.Tour)
		}

		trend := decimal.Zero
		for _, p := range s.Trend {
			trend = trend.Add(p.Amount)
		}
		if !trend.Equal(s.Total) {
			t.Fatalf("trend sum %s != total %s", trend, s.Total)
		}
	})
}

func TestLedger_AllEmployeesSumToTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		entries := genEntries().Draw(t, "entries")
		l := Ledger(entries, nil)
		if total := Overall(entries).Total; !l.Total().Equal(total) {
			t.Fatalf("ledger total %s != overall total %s", l.Total(), total)
		}
		if len(l.Rows) != len(entries) {
			t.Fatalf("ledger has %d rows, want %d", len(l.Rows), len(entries))
		}
	})
}

func TestHeadWise_SumsToTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		entries := genEntries().Draw(t, "entries")
		sum := decimal.Zero
		for _, h := range HeadWise(entries) {
			sum = sum.Add(h.Amount)
		}
		if total := Overall(entries).Total; !sum.Equal(total) {
			t.Fatalf("head-wise sum %s != total %s", sum, total)
		}
	})
}
