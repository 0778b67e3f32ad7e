package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

var (
	ErrDatabaseNotFound = errors.New("database file not found")
	ErrConnect          = errors.New("error connecting to database")
	ErrQuery            = errors.New("heart rate query failed")
	ErrNoData           = errors.New("no heart rate data found")
	ErrInvalidSchema    = errors.New("invalid schema identifier")
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Schema names the relation holding the heart rate series
type Schema struct {
	Table      string
	TimeColumn string // epoch milliseconds
	BPMColumn  string
}

// DefaultSchema matches the Health Connect export
var DefaultSchema = Schema{
	Table:      "heart_rate_record_series_table",
	TimeColumn: "epoch_millis",
	BPMColumn:  "beats_per_minute",
}

// Validate rejects identifiers that cannot be quoted safely.
// Table and column names can't be bound as parameters, so they are checked here instead.
func (s Schema) Validate() error {
	for _, id := range []string{s.Table, s.TimeColumn, s.BPMColumn} {
		if !identPattern.MatchString(id) {
			return fmt.Errorf("%w: %q", ErrInvalidSchema, id)
		}
	}
	return nil
}

// quoteIdent brackets a validated identifier. Unlike double quotes, SQLite never
// reinterprets a bracketed name as a string literal when the column is missing.
func quoteIdent(id string) string {
	return "[" + id + "]"
}

// Sample is one heart rate reading
type Sample struct {
	Time time.Time
	BPM  int
}

// DB wraps a read-only SQLite database
type DB struct {
	db     *sql.DB
	schema Schema
	path   string
}

// NewDB opens the export at path read-only
func NewDB(path string, schema Schema) (*DB, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	db, err := sql.Open("sqlite", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	log.Debug().Str("path", path).Msg("database opened read-only")
	return &DB{db: db, schema: schema, path: path}, nil
}

// readOnlyDSN builds a file: URI so the driver never creates or writes the file.
func readOnlyDSN(path string) string {
	escaped := strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23").Replace(filepath.ToSlash(path))
	return "file:" + escaped + "?mode=ro&_pragma=query_only(1)&_pragma=busy_timeout(5000)"
}

// HeartRateSamples returns every sample with 0 < bpm (<= maxBPM when maxBPM > 0), oldest first
func (d *DB) HeartRateSamples(ctx context.Context, maxBPM int) ([]Sample, error) {
	s := d.schema
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s
		WHERE %s > 0`, quoteIdent(s.TimeColumn), quoteIdent(s.BPMColumn), quoteIdent(s.Table), quoteIdent(s.BPMColumn))
	var args []any

	if maxBPM > 0 {
		query += " AND " + quoteIdent(s.BPMColumn) + " <= ?"
		args = append(args, maxBPM)
		log.Info().Int("max_bpm", maxBPM).Msg("ignoring heart rates above ceiling")
	}
	query += " ORDER BY " + quoteIdent(s.TimeColumn)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		d.logSchemaHint(err)
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var millis int64
		var bpm int
		if err := rows.Scan(&millis, &bpm); err != nil {
			d.logSchemaHint(err)
			return nil, fmt.Errorf("%w: %v", ErrQuery, err)
		}
		samples = append(samples, Sample{Time: time.UnixMilli(millis).UTC(), BPM: bpm})
	}
	if err := rows.Err(); err != nil {
		d.logSchemaHint(err)
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	if len(samples) == 0 {
		return nil, ErrNoData
	}

	log.Debug().Int("count", len(samples)).Msg("heart rate samples loaded")
	return samples, nil
}

func (d *DB) logSchemaHint(err error) {
	log.Error().
		Err(err).
		Str("path", d.path).
		Str("table", d.schema.Table).
		Str("time_column", d.schema.TimeColumn).
		Str("bpm_column", d.schema.BPMColumn).
		Msg("the assumed table or columns probably do not exist; set HRSTATS_TABLE, HRSTATS_TIME_COLUMN and HRSTATS_BPM_COLUMN to match your export")
}

// Close closes the database
func (d *DB) Close() error {
	return d.db.Close()
}
