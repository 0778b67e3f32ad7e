package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/analytics"
)

var titles = map[analytics.Granularity]string{
	analytics.Monthly: "Monthly Average Heart Rate",
	analytics.Weekly:  "Weekly Average Heart Rate",
	analytics.Daily:   "Daily Average Heart Rate",
}

// Console prints the monthly, weekly and daily tables to w
func Console(w io.Writer, s analytics.Summary, cal analytics.Calendar, theme Theme) error {
	for _, g := range analytics.Granularities {
		if _, err := fmt.Fprintf(w, "\n%s\n", theme.titleStyle(g).Render("--- "+titles[g]+" ---")); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, Table(s.Series(g), g, cal, theme)); err != nil {
			return err
		}
	}
	return nil
}

// Table renders one series: period label, mean to one decimal, sample count
func Table(points []analytics.Point, g analytics.Granularity, cal analytics.Calendar, theme Theme) string {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			cal.Label(p.Start, g),
			analytics.FormatMean(p.Mean),
			strconv.Itoa(p.Samples),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("Period", "Avg BPM", "Samples").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return theme.headerStyle()
			case col == 2:
				return theme.mutedStyle()
			default:
				return theme.cellStyle()
			}
		})

	return t.Render()
}
