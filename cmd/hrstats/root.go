package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/analytics"
	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/chart"
	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/config"
	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/metrics"
	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/report"
	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/storage"
)

type flags struct {
	maxBPM       int
	output       string
	weekStart    string
	tz           string
	chartFile    string
	noOpen       bool
	csvPath      string
	textfilePath string
	theme        string
}

// execute runs the CLI and returns the process exit code
func execute(args []string, stdout io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	env := config.LoadEnv()
	var f flags

	cmd := &cobra.Command{
		Use:   "hrstats <db_file>",
		Short: "Analyze Android Health Connect heart rate data",
		Long: "Reads heart rate samples from a Health Connect SQLite export and prints\n" +
			"daily, weekly and monthly averages, or shows them as an interactive graph.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				log.Error().Err(err).Msg("expected exactly one database file")
				return err
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(args[0], f, env)
			if err != nil {
				log.Error().Err(err).Msg("configuration error")
				return err
			}
			return run(cmd.Context(), cfg, stdout)
		},
	}
	cmd.SetOut(stdout)

	fl := cmd.Flags()
	fl.IntVar(&f.maxBPM, "max-bpm", 0, "ignore heart rates above this value (default: no upper limit)")
	fl.StringVar(&f.output, "output", string(config.OutputConsole), "output format: console or graph")
	fl.StringVar(&f.weekStart, "week-start", env.WeekStart, "first day of a week bucket")
	fl.StringVar(&f.tz, "tz", env.TZ, "time zone for day/week/month boundaries (IANA name or Local)")
	fl.StringVar(&f.chartFile, "chart-file", env.ChartFile, "where graph output writes its HTML page")
	fl.BoolVar(&f.noOpen, "no-open", false, "write the graph page without opening a browser")
	fl.StringVar(&f.csvPath, "csv", "", "also export all averages to this CSV file")
	fl.StringVar(&f.textfilePath, "textfile", "", "also write Prometheus textfile metrics to this path")
	fl.StringVar(&f.theme, "theme", env.Theme, "console theme: CHART or MONO")

	// cobra only sees a flag's presence; --max-bpm 0 must not silently mean "no ceiling"
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("max-bpm") && f.maxBPM <= 0 {
			err := fmt.Errorf("%w: --max-bpm must be positive, got %d", config.ErrInvalid, f.maxBPM)
			log.Error().Err(err).Msg("configuration error")
			return err
		}
		return nil
	}

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		log.Error().Err(err).Msg("invalid arguments")
		return err
	})

	return cmd
}

func buildConfig(dbPath string, f flags, env config.Env) (*config.Config, error) {
	output, err := config.ParseOutput(f.output)
	if err != nil {
		return nil, err
	}
	weekStart, err := config.ParseWeekday(f.weekStart)
	if err != nil {
		return nil, err
	}
	loc, err := config.ParseLocation(f.tz)
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		DBPath:    dbPath,
		MaxBPM:    f.maxBPM,
		Output:    output,
		WeekStart: weekStart,
		Location:  loc,
		Schema: storage.Schema{
			Table:      env.Table,
			TimeColumn: env.TimeColumn,
			BPMColumn:  env.BPMColumn,
		},
		Theme:        f.theme,
		ChartPath:    f.chartFile,
		OpenBrowser:  !f.noOpen,
		CSVPath:      f.csvPath,
		TextfilePath: f.textfilePath,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run is one pass: read, aggregate, present. The database is closed on every return path.
func run(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	db, err := storage.NewDB(cfg.DBPath, cfg.Schema)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrDatabaseNotFound):
			log.Error().Str("path", cfg.DBPath).Msg("database file not found")
		default:
			log.Error().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
		}
		return err
	}
	defer db.Close()

	samples, err := db.HeartRateSamples(ctx, cfg.MaxBPM)
	if err != nil {
		if errors.Is(err, storage.ErrNoData) {
			log.Error().Msg("no heart rate data found with the current query")
		}
		return err
	}
	log.Info().Int("samples", len(samples)).Msg("heart rate data loaded")

	cal := cfg.Calendar()
	summary := analytics.Summarize(samples, cal)

	if cfg.CSVPath != "" {
		if err := analytics.ExportCSV(cfg.CSVPath, summary, cal); err != nil {
			log.Error().Err(err).Msg("CSV export failed")
			return err
		}
		log.Info().Str("path", cfg.CSVPath).Msg("averages exported to CSV")
	}
	if cfg.TextfilePath != "" {
		if err := metrics.WriteTextfile(cfg.TextfilePath, len(samples), summary); err != nil {
			log.Error().Err(err).Msg("metrics textfile failed")
			return err
		}
	}

	switch cfg.Output {
	case config.OutputGraph:
		if err := chart.Show(cfg.ChartPath, summary, cal, cfg.OpenBrowser); err != nil {
			log.Error().Err(err).Msg("graph output failed")
			return err
		}
	default:
		if err := report.Console(stdout, summary, cal, report.ThemeByName(cfg.Theme)); err != nil {
			return err
		}
	}
	return nil
}
