package analytics

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/storage"
)

// comparePoints checks start, mean (1e-9 tolerance) and sample count, in order.
func comparePoints(t *testing.T, expected, actual []Point) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("expected %d points, got %d", len(expected), len(actual))
		t.Logf("Expected: %+v", expected)
		t.Logf("Actual:   %+v", actual)
		return
	}
	for i := range expected {
		if !expected[i].Start.Equal(actual[i].Start) {
			t.Errorf("point %d: expected start %v, got %v", i, expected[i].Start, actual[i].Start)
		}
		if math.Abs(expected[i].Mean-actual[i].Mean) > 1e-9 {
			t.Errorf("point %d: expected mean %f, got %f", i, expected[i].Mean, actual[i].Mean)
		}
		if expected[i].Samples != actual[i].Samples {
			t.Errorf("point %d: expected %d samples, got %d", i, expected[i].Samples, actual[i].Samples)
		}
	}
}

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestAggregate_SingleDayMean(t *testing.T) {
	samples := []storage.Sample{
		{Time: at(2024, 3, 4, 8), BPM: 60},
		{Time: at(2024, 3, 4, 20), BPM: 80},
	}

	got := Aggregate(samples, Daily, DefaultCalendar())
	comparePoints(t, []Point{{Start: at(2024, 3, 4, 0), Mean: 70.0, Samples: 2}}, got)
}

func TestAggregate_WeekBoundary(t *testing.T) {
	// Saturday 2024-03-09 and Sunday 2024-03-10 sit on either side of a Sunday boundary
	samples := []storage.Sample{
		{Time: at(2024, 3, 8, 10), BPM: 60},
		{Time: at(2024, 3, 9, 23), BPM: 70},
		{Time: at(2024, 3, 10, 0), BPM: 100},
		{Time: at(2024, 3, 11, 12), BPM: 110},
	}

	tests := []struct {
		name      string
		weekStart time.Weekday
		want      []Point
	}{
		{
			name:      "Sunday Start",
			weekStart: time.Sunday,
			want: []Point{
				{Start: at(2024, 3, 3, 0), Mean: 65, Samples: 2},
				{Start: at(2024, 3, 10, 0), Mean: 105, Samples: 2},
			},
		},
		{
			name:      "Monday Start",
			weekStart: time.Monday,
			want: []Point{
				{Start: at(2024, 3, 4, 0), Mean: 230.0 / 3, Samples: 3},
				{Start: at(2024, 3, 11, 0), Mean: 110, Samples: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := Calendar{Location: time.UTC, WeekStart: tt.weekStart}
			comparePoints(t, tt.want, Aggregate(samples, Weekly, cal))
		})
	}
}

func TestAggregate_SkipsEmptyPeriods(t *testing.T) {
	samples := []storage.Sample{
		{Time: at(2024, 1, 15, 9), BPM: 61},
		{Time: at(2024, 4, 2, 9), BPM: 75},
		{Time: at(2024, 4, 30, 23), BPM: 76},
	}

	comparePoints(t, []Point{
		{Start: at(2024, 1, 1, 0), Mean: 61, Samples: 1},
		{Start: at(2024, 4, 1, 0), Mean: 75.5, Samples: 2},
	}, Aggregate(samples, Monthly, DefaultCalendar()))

	if got := len(Aggregate(samples, Daily, DefaultCalendar())); got != 3 {
		t.Errorf("expected 3 daily points, got %d", got)
	}
}

func TestAggregate_Empty(t *testing.T) {
	if got := Aggregate(nil, Daily, DefaultCalendar()); len(got) != 0 {
		t.Errorf("expected no points, got %+v", got)
	}
}

func TestAggregate_UnsortedInput(t *testing.T) {
	samples := []storage.Sample{
		{Time: at(2024, 3, 6, 9), BPM: 90},
		{Time: at(2024, 3, 4, 9), BPM: 60},
		{Time: at(2024, 3, 6, 10), BPM: 70},
	}

	comparePoints(t, []Point{
		{Start: at(2024, 3, 4, 0), Mean: 60, Samples: 1},
		{Start: at(2024, 3, 6, 0), Mean: 80, Samples: 2},
	}, Aggregate(samples, Daily, DefaultCalendar()))
}

// TestAggregate_Properties checks, on random series, that every point's mean is
// the mean of exactly the samples in [start, end), that every sample is counted
// once, and that points are strictly ascending.
func TestAggregate_Properties(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load Europe/Berlin: %v", err)
	}
	rng := rand.New(rand.NewSource(42))
	base := at(2023, 11, 20, 0)

	var samples []storage.Sample
	ts := base
	for i := 0; i < 2000; i++ {
		ts = ts.Add(time.Duration(rng.Intn(6*60)) * time.Minute)
		samples = append(samples, storage.Sample{Time: ts, BPM: 40 + rng.Intn(140)})
	}

	calendars := []Calendar{
		DefaultCalendar(),
		{Location: time.UTC, WeekStart: time.Monday},
		{Location: time.FixedZone("UTC-7", -7*60*60), WeekStart: time.Saturday},
		{Location: berlin, WeekStart: time.Monday},
	}

	for _, cal := range calendars {
		for _, g := range Granularities {
			points := Aggregate(samples, g, cal)

			counted := 0
			for i, p := range points {
				if i > 0 && !points[i-1].Start.Before(p.Start) {
					t.Fatalf("%s: points %d and %d not strictly ascending", g, i-1, i)
				}
				if p.Samples == 0 {
					t.Fatalf("%s: point %d has no samples", g, i)
				}

				end := cal.PeriodEnd(p.Start, g)
				var sum, n int
				for _, s := range samples {
					if !s.Time.Before(p.Start) && s.Time.Before(end) {
						sum += s.BPM
						n++
					}
				}
				if n != p.Samples {
					t.Errorf("%s %v: %d samples in range, point says %d", g, p.Start, n, p.Samples)
				}
				if math.Abs(float64(sum)/float64(n)-p.Mean) > 1e-9 {
					t.Errorf("%s %v: mean %f, want %f", g, p.Start, p.Mean, float64(sum)/float64(n))
				}
				counted += p.Samples
			}
			if counted != len(samples) {
				t.Errorf("%s: %d samples counted, want %d", g, counted, len(samples))
			}
		}
	}
}

func TestAggregate_DaylightSavingTransition(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load Europe/Berlin: %v", err)
	}
	cal := Calendar{Location: berlin, WeekStart: time.Monday}

	// Clocks jump from 02:00 CET to 03:00 CEST on 2024-03-31
	samples := []storage.Sample{
		{Time: time.Date(2024, 3, 30, 22, 30, 0, 0, time.UTC), BPM: 60}, // 23:30 CET, Mar 30
		{Time: time.Date(2024, 3, 30, 23, 30, 0, 0, time.UTC), BPM: 70}, // 00:30 CET, Mar 31
		{Time: time.Date(2024, 3, 31, 21, 30, 0, 0, time.UTC), BPM: 80}, // 23:30 CEST, Mar 31
		{Time: time.Date(2024, 3, 31, 22, 30, 0, 0, time.UTC), BPM: 90}, // 00:30 CEST, Apr 1
	}

	comparePoints(t, []Point{
		{Start: time.Date(2024, 3, 30, 0, 0, 0, 0, berlin), Mean: 60, Samples: 1},
		{Start: time.Date(2024, 3, 31, 0, 0, 0, 0, berlin), Mean: 75, Samples: 2},
		{Start: time.Date(2024, 4, 1, 0, 0, 0, 0, berlin), Mean: 90, Samples: 1},
	}, Aggregate(samples, Daily, cal))

	comparePoints(t, []Point{
		{Start: time.Date(2024, 3, 25, 0, 0, 0, 0, berlin), Mean: 70, Samples: 3},
		{Start: time.Date(2024, 4, 1, 0, 0, 0, 0, berlin), Mean: 90, Samples: 1},
	}, Aggregate(samples, Weekly, cal))

	comparePoints(t, []Point{
		{Start: time.Date(2024, 3, 1, 0, 0, 0, 0, berlin), Mean: 70, Samples: 3},
		{Start: time.Date(2024, 4, 1, 0, 0, 0, 0, berlin), Mean: 90, Samples: 1},
	}, Aggregate(samples, Monthly, cal))

	start := cal.PeriodStart(samples[1].Time, Daily)
	if got := cal.PeriodEnd(start, Daily).Sub(start); got != 23*time.Hour {
		t.Errorf("Mar 31 lasts %v, want 23h", got)
	}
	weekStart := cal.PeriodStart(samples[0].Time, Weekly)
	if got := cal.PeriodEnd(weekStart, Weekly).Sub(weekStart); got != 7*24*time.Hour-time.Hour {
		t.Errorf("week of Mar 25 lasts %v, want 167h", got)
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	samples := []storage.Sample{
		{Time: at(2024, 2, 28, 7), BPM: 58},
		{Time: at(2024, 3, 1, 7), BPM: 64},
		{Time: at(2024, 3, 1, 18), BPM: 99},
	}
	cal := DefaultCalendar()

	first := Summarize(samples, cal)
	second := Summarize(samples, cal)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Summarize is not idempotent:\n%+v\n%+v", first, second)
	}
	if len(first.Daily) != 2 || len(first.Weekly) != 1 || len(first.Monthly) != 2 {
		t.Errorf("unexpected series lengths: %d daily, %d weekly, %d monthly",
			len(first.Daily), len(first.Weekly), len(first.Monthly))
	}
}
