package storage

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// WriteSeries creates (or extends) a Health Connect shaped series table at path and inserts samples.
// It is the only write path in the package and exists for tests and tools/gendb.
func WriteSeries(path string, schema Schema, samples []Sample) error {
	if err := schema.Validate(); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	table, bpm, ts := quoteIdent(schema.Table), quoteIdent(schema.BPMColumn), quoteIdent(schema.TimeColumn)
	ddl := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		row_id INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_key INTEGER NOT NULL DEFAULT 0,
		%s INTEGER NOT NULL,
		%s INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS %s ON %s(%s);
	`, table, bpm, ts, quoteIdent("idx_"+schema.Table+"_"+schema.TimeColumn), table, ts)

	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create series table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES (?, ?)`, table, bpm, ts))
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, s := range samples {
		if _, err := stmt.Exec(s.BPM, s.Time.UnixMilli()); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert sample: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	log.Debug().Str("path", path).Int("count", len(samples)).Msg("series written")
	return nil
}
