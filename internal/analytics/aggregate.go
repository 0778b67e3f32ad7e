package analytics

import (
	"sort"
	"time"

	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/storage"
)

// Point is the mean heart rate of one non-empty calendar period
type Point struct {
	Start   time.Time // Start of the period in the calendar's location
	Mean    float64
	Samples int
}

// Summary holds the three aggregated series
type Summary struct {
	Daily   []Point
	Weekly  []Point
	Monthly []Point
}

// Series returns the points for g
func (s Summary) Series(g Granularity) []Point {
	switch g {
	case Weekly:
		return s.Weekly
	case Monthly:
		return s.Monthly
	default:
		return s.Daily
	}
}

type bucket struct {
	start time.Time
	sum   int64
	count int
}

// Aggregate bins samples into calendar periods and averages each bin.
// Empty periods are never emitted; output is ascending by period start.
// The input order does not matter.
func Aggregate(samples []storage.Sample, g Granularity, cal Calendar) []Point {
	if len(samples) == 0 {
		return nil
	}

	// keyed by period start (unix seconds)
	buckets := make(map[int64]*bucket)
	for _, s := range samples {
		start := cal.PeriodStart(s.Time, g)
		key := start.Unix()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{start: start}
			buckets[key] = b
		}
		b.sum += int64(s.BPM)
		b.count++
	}

	keys := make([]int64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	points := make([]Point, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		points = append(points, Point{
			Start:   b.start,
			Mean:    float64(b.sum) / float64(b.count),
			Samples: b.count,
		})
	}
	return points
}

// Summarize computes daily, weekly and monthly means
func Summarize(samples []storage.Sample, cal Calendar) Summary {
	return Summary{
		Daily:   Aggregate(samples, Daily, cal),
		Weekly:  Aggregate(samples, Weekly, cal),
		Monthly: Aggregate(samples, Monthly, cal),
	}
}
