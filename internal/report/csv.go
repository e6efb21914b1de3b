package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gitlab.com/yelinaung/expense-report/internal/models"
)

// CSVHeader is the first row of the entries export.
var CSVHeader = []string{"ID", "Date", "Employee", "Expense Type", "Amount", "Description"}

// WriteCSV writes entries to w as CSV with a header row.
func WriteCSV(w io.Writer, entries []models.Entry) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range entries {
		row := []string{
			strconv.FormatInt(entries[i].ID, 10),
			entries[i].Date.Format(models.DateLayout),
			entries[i].Employee,
			string(entries[i].ExpenseType),
			entries[i].Amount.StringFixed(2),
			entries[i].Description,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}
