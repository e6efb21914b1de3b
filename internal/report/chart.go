package report

import (
	"errors"
	"fmt"

	"github.com/go-analyze/charts"

	"gitlab.com/yelinaung/expense-report/internal/models"
)

// ErrNoData is returned when there is nothing to chart.
var ErrNoData = errors.New("no data to chart")

// TrendChart renders the daily totals as a line chart. Returns PNG bytes.
func TrendChart(points []TrendPoint) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}

	values := make([]float64, 0, len(points))
	labels := make([]string, 0, len(points))
	for _, p := range points {
		values = append(values, p.Amount.InexactFloat64())
		labels = append(labels, p.Date.Format(models.DateLayout))
	}

	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleOptionFunc(charts.TitleOption{
			Text: "Expense Trend Over Time",
		}),
		charts.XAxisLabelsOptionFunc(labels),
		charts.LegendLabelsOptionFunc([]string{"Amount"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}

// HeadWiseChart renders the per-head totals as a bar chart with one series,
// and so one color, per expense head. Returns PNG bytes.
func HeadWiseChart(totals []HeadTotal) ([]byte, error) {
	if len(totals) == 0 {
		return nil, ErrNoData
	}

	values := make([][]float64, 0, len(totals))
	names := make([]string, 0, len(totals))
	for _, t := range totals {
		values = append(values, []float64{t.Amount.InexactFloat64()})
		names = append(names, string(t.ExpenseType))
	}

	p, err := charts.BarRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: "Expense Head-wise Summary",
		}),
		charts.XAxisLabelsOptionFunc([]string{"Expense Head"}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}
