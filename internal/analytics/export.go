package analytics

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMean renders a mean with one decimal place. Rounding works on the exact
// float value, half up, the same rule as JavaScript's toFixed in the chart tooltip.
func FormatMean(mean float64) string {
	return decimal.NewFromFloatWithExponent(mean, -1).StringFixed(1)
}

// ExportCSV writes every aggregated point to a CSV file, monthly rows first
func ExportCSV(path string, s Summary, cal Calendar) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	// Header
	if err := writer.Write([]string{
		"Granularity", "Period", "Start", "Avg BPM", "Samples",
	}); err != nil {
		return err
	}

	// Rows
	for _, g := range Granularities {
		for _, p := range s.Series(g) {
			row := []string{
				string(g),
				cal.Label(p.Start, g),
				p.Start.Format(time.RFC3339),
				FormatMean(p.Mean),
				strconv.Itoa(p.Samples),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}
