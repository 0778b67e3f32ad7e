package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/analytics"
	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/report"
	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/storage"
)

// Output selects the presentation path
type Output string

const (
	OutputConsole Output = "console"
	OutputGraph   Output = "graph"
)

var ErrInvalid = errors.New("invalid configuration")

// Config holds everything one run needs
type Config struct {
	DBPath string
	MaxBPM int // 0 = no ceiling
	Output Output

	WeekStart time.Weekday
	Location  *time.Location
	Schema    storage.Schema
	Theme     string

	ChartPath   string
	OpenBrowser bool

	// Optional side outputs, empty = disabled
	CSVPath      string
	TextfilePath string
}

// Env holds the raw environment defaults, before parsing
type Env struct {
	Table      string
	TimeColumn string
	BPMColumn  string
	WeekStart  string
	TZ         string
	ChartFile  string
	Theme      string
}

// LoadEnv reads .env (if present) and the HRSTATS_* environment variables
func LoadEnv() Env {
	if err := godotenv.Load(".env"); err == nil {
		log.Debug().Msg("loaded .env")
	}

	return Env{
		Table:      readEnv("HRSTATS_TABLE", storage.DefaultSchema.Table),
		TimeColumn: readEnv("HRSTATS_TIME_COLUMN", storage.DefaultSchema.TimeColumn),
		BPMColumn:  readEnv("HRSTATS_BPM_COLUMN", storage.DefaultSchema.BPMColumn),
		WeekStart:  readEnv("HRSTATS_WEEK_START", strings.ToLower(analytics.DefaultWeekStart.String())),
		TZ:         readEnv("HRSTATS_TZ", "UTC"),
		ChartFile:  readEnv("HRSTATS_CHART_FILE", "heart_rate.html"),
		Theme:      readEnv("HRSTATS_THEME", report.ChartTheme.Name),
	}
}

func readEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Calendar returns the binning rule for this run
func (c *Config) Calendar() analytics.Calendar {
	return analytics.Calendar{Location: c.Location, WeekStart: c.WeekStart}
}

// Validate checks values the flag parser cannot
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%w: database file is required", ErrInvalid)
	}
	if c.MaxBPM < 0 {
		return fmt.Errorf("%w: --max-bpm must be positive, got %d", ErrInvalid, c.MaxBPM)
	}
	if _, err := ParseOutput(string(c.Output)); err != nil {
		return err
	}
	if c.Location == nil {
		return fmt.Errorf("%w: no time zone", ErrInvalid)
	}
	if err := c.Schema.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Output == OutputGraph && c.ChartPath == "" {
		return fmt.Errorf("%w: --chart-file is required for graph output", ErrInvalid)
	}
	return nil
}

// ParseOutput accepts console or graph
func ParseOutput(s string) (Output, error) {
	switch o := Output(strings.ToLower(strings.TrimSpace(s))); o {
	case OutputConsole, OutputGraph:
		return o, nil
	}
	return "", fmt.Errorf("%w: output %q (choose from console, graph)", ErrInvalid, s)
}

// ParseWeekday accepts full or three-letter English day names
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: week start %q", ErrInvalid, s)
}

// ParseLocation loads an IANA zone name; "Local" means the system zone
func ParseLocation(s string) (*time.Location, error) {
	loc, err := time.LoadLocation(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: time zone %q: %v", ErrInvalid, s, err)
	}
	return loc, nil
}
