package chart

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"

	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/analytics"
)

const Title = "Average Heart Rate Over Time"

// SeriesStyle describes how one granularity is drawn
type SeriesStyle struct {
	Name       string
	Color      string
	LineType   string // solid, dashed, dotted
	LineWidth  float32
	SymbolSize float32
}

// Styles per granularity: daily is thin and faint, monthly bold
var Styles = map[analytics.Granularity]SeriesStyle{
	analytics.Daily:   {Name: "Daily Avg", Color: "rgba(0, 128, 0, 0.5)", LineType: "dotted", LineWidth: 1, SymbolSize: 3},
	analytics.Weekly:  {Name: "Weekly Avg", Color: "orange", LineType: "dashed", LineWidth: 2, SymbolSize: 5},
	analytics.Monthly: {Name: "Monthly Avg", Color: "red", LineType: "solid", LineWidth: 3, SymbolSize: 7},
}

// Each data item is [start millis, mean, start date, period label]; the tooltip
// shows the date, the period label and the mean to one decimal.
const tooltipFormatter = `function (p) {
	return p.seriesName + '<br/>Date: ' + p.value[2] + '<br/>Period: ' + p.value[3] +
		'<br/>Avg BPM: ' + Number(p.value[1]).toFixed(1);
}`

const dateLayout = "2006-01-02"


// seriesData converts points to time-axis items
func seriesData(points []analytics.Point, g analytics.Granularity, cal analytics.Calendar) []opts.LineData {
	items := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		items = append(items, opts.LineData{
			Value: []interface{}{p.Start.UnixMilli(), p.Mean, p.Start.Format(dateLayout), cal.Label(p.Start, g)},
		})
	}
	return items
}

// Build assembles the line chart with one series per granularity.
// Clicking a legend entry hides or shows its series.
func Build(s analytics.Summary, cal analytics.Calendar) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: Title,
			Width:     "1000px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{Title: Title}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: opts.FuncOpts(tooltipFormatter),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Left: "left",
			Top:  "bottom",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", Type: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Beats Per Minute (BPM)", Type: "value"}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside"},
			opts.DataZoom{Type: "slider"},
		),
	)

	// Daily first so the coarser series draw on top
	for _, g := range []analytics.Granularity{analytics.Daily, analytics.Weekly, analytics.Monthly} {
		style := Styles[g]
		line.AddSeries(style.Name, seriesData(s.Series(g), g, cal),
			charts.WithLineStyleOpts(opts.LineStyle{
				Color: style.Color,
				Width: style.LineWidth,
				Type:  style.LineType,
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: style.Color}),
			charts.WithLineChartOpts(opts.LineChart{
				ShowSymbol: opts.Bool(true),
				Symbol:     "circle",
				SymbolSize: style.SymbolSize,
			}),
		)
	}

	return line
}

// Render writes the chart as a standalone HTML page
func Render(w io.Writer, s analytics.Summary, cal analytics.Calendar) error {
	return Build(s, cal).Render(w)
}

// Show writes the chart to path and, if open is set, opens it in the default browser
func Show(path string, s analytics.Summary, cal analytics.Calendar, open bool) error {
	log.Info().Str("path", path).Msg("generating interactive graph")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := Render(f, s, cal); err != nil {
		f.Close()
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	if !open {
		return nil
	}
	log.Info().Msg("opening plot in your web browser")
	if err := browser.OpenFile(path); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
