package analytics

import (
	"fmt"
	"time"
)

// Granularity is the calendar bucket size
type Granularity string

const (
	Daily   Granularity = "day"
	Weekly  Granularity = "week"
	Monthly Granularity = "month"
)

// Granularities in presentation order (coarsest first)
var Granularities = []Granularity{Monthly, Weekly, Daily}

// DefaultWeekStart is Sunday. Week boundaries vary between date libraries,
// so the rule is always passed explicitly through Calendar.
const DefaultWeekStart = time.Sunday

// Calendar holds the boundary rule used for binning.
// Every bucket starts at local midnight in Location:
//   - day:   that midnight, length one calendar day
//   - week:  midnight of the latest WeekStart on or before the sample, length seven days
//   - month: midnight on the 1st, length one calendar month
type Calendar struct {
	Location  *time.Location
	WeekStart time.Weekday
}

// DefaultCalendar bins in UTC with Sunday-starting weeks
func DefaultCalendar() Calendar {
	return Calendar{Location: time.UTC, WeekStart: DefaultWeekStart}
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// PeriodStart returns the start of the bucket containing t
func (c Calendar) PeriodStart(t time.Time, g Granularity) time.Time {
	loc := c.location()
	t = t.In(loc)
	y, m, d := t.Date()

	switch g {
	case Weekly:
		back := (int(t.Weekday()) - int(c.WeekStart) + 7) % 7
		return time.Date(y, m, d-back, 0, 0, 0, 0, loc)
	case Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}

// PeriodEnd returns the exclusive end of the bucket starting at start
func (c Calendar) PeriodEnd(start time.Time, g Granularity) time.Time {
	y, m, d := start.Date()
	loc := start.Location()

	switch g {
	case Weekly:
		return time.Date(y, m, d+7, 0, 0, 0, 0, loc)
	case Monthly:
		return time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	}
}

// Label formats a period start for display: 2006-01, "2006 - Week 05", 2006-01-02
func (c Calendar) Label(start time.Time, g Granularity) string {
	start = start.In(c.location())

	switch g {
	case Monthly:
		return start.Format("2006-01")
	case Weekly:
		return fmt.Sprintf("%d - Week %02d", start.Year(), c.WeekOfYear(start))
	default:
		return start.Format("2006-01-02")
	}
}

// WeekOfYear numbers weeks with WeekStart as the first day of the week.
// Days before the first WeekStart of the year are week 0, the same convention
// as strftime %U (Sunday) and %W (Monday).
func (c Calendar) WeekOfYear(t time.Time) int {
	yday := t.YearDay() - 1
	offset := (int(t.Weekday()) - int(c.WeekStart) + 7) % 7
	return (yday + 7 - offset) / 7
}
