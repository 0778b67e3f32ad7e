package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/config"
	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/storage"
)

// Prints the newest raw heart rate rows of an export, for eyeballing a file before analysis.
// Usage: dbquery [db_file] [limit]
func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	dbPath := "health_connect_export.db"
	if len(args) > 0 {
		dbPath = args[0]
	}
	limit := 15
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid limit %q", args[1])
		}
		limit = n
	}

	env := config.LoadEnv()
	schema := storage.Schema{
		Table:      env.Table,
		TimeColumn: env.TimeColumn,
		BPMColumn:  env.BPMColumn,
	}
	if err := schema.Validate(); err != nil {
		return err
	}

	if _, err := os.Stat(dbPath); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("opening DB: %w", err)
	}
	defer db.Close()

	var total int
	var first, last sql.NullInt64
	err = db.QueryRow(fmt.Sprintf(`SELECT COUNT(*), MIN([%[2]s]), MAX([%[2]s]) FROM [%[1]s]`,
		schema.Table, schema.TimeColumn)).Scan(&total, &first, &last)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	fmt.Printf("%s: %d rows", schema.Table, total)
	if first.Valid && last.Valid {
		fmt.Printf(" from %s to %s",
			time.UnixMilli(first.Int64).UTC().Format(time.RFC3339),
			time.UnixMilli(last.Int64).UTC().Format(time.RFC3339))
	}
	fmt.Println()

	rows, err := db.Query(fmt.Sprintf(`
		SELECT [%[2]s], [%[3]s]
		FROM [%[1]s]
		ORDER BY [%[2]s] DESC
		LIMIT ?
	`, schema.Table, schema.TimeColumn, schema.BPMColumn), limit)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	fmt.Println("TIME (UTC)\t\t\tEPOCH_MILLIS\tBPM")
	fmt.Println("─────────────────────────────────────────────────────")
	for rows.Next() {
		var millis, bpm int64
		if err := rows.Scan(&millis, &bpm); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		fmt.Printf("%-24s\t%d\t%d\n", time.UnixMilli(millis).UTC().Format(time.RFC3339), millis, bpm)
	}
	return rows.Err()
}
