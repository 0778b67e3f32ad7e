package main

import (
	"flag"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/storage"
)

// Generates a synthetic Health Connect export for trying the CLI without a phone.
func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	out := flag.String("out", "health_connect_export.db", "output database file")
	days := flag.Int("days", 90, "number of days to generate")
	perHour := flag.Int("per-hour", 4, "samples per hour")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if *days <= 0 || *perHour <= 0 || *perHour > 3600 {
		log.Fatal().Int("days", *days).Int("per_hour", *perHour).Msg("days and per-hour must be positive")
	}
	if _, err := os.Stat(*out); err == nil {
		log.Fatal().Str("path", *out).Msg("refusing to append to an existing file")
	}

	rng := rand.New(rand.NewSource(*seed))
	end := time.Now().UTC().Truncate(time.Hour)
	start := end.AddDate(0, 0, -*days)
	step := time.Hour / time.Duration(*perHour)

	var samples []storage.Sample
	for t := start; t.Before(end); t = t.Add(step) {
		// Resting around 62 at night, 78 in the afternoon, with noise and the odd workout
		hour := float64(t.Hour()) + float64(t.Minute())/60
		bpm := 70 - 8*math.Cos((hour-3)/24*2*math.Pi) + rng.NormFloat64()*4
		if rng.Float64() < 0.01 {
			bpm += 60 + rng.Float64()*40
		}
		// Health Connect occasionally stores 0 for dropped readings
		if rng.Float64() < 0.002 {
			bpm = 0
		}
		samples = append(samples, storage.Sample{Time: t, BPM: int(math.Round(bpm))})
	}

	if err := storage.WriteSeries(*out, storage.DefaultSchema, samples); err != nil {
		log.Fatal().Err(err).Msg("failed to write database")
	}
	log.Info().Str("path", *out).Int("samples", len(samples)).Msg("synthetic export written")
}
