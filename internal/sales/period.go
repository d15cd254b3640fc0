package sales

import (
	"encoding/json"
	"strings"
	"time"

	"foodtruck-pos/internal/apperr"
	"foodtruck-pos/internal/models"
)

// Granularity is the bucketing unit of a report.
type Granularity string

const (
	Day   Granularity = "day"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// trendDays is the length of the day-granularity trend window.
const trendDays = 7

func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "daily":
		return Day, nil
	case "month", "monthly":
		return Month, nil
	case "year", "yearly":
		return Year, nil
	}
	return "", apperr.Validation("granularity must be day, month or year")
}

// Layout is the time layout of the period keys of g.
func (g Granularity) Layout() string {
	switch g {
	case Month:
		return "2006-01"
	case Year:
		return "2006"
	default:
		return models.DateLayout
	}
}

// Range is an inclusive span of calendar dates. Start and End are midnights
// in the report location.
type Range struct {
	Start time.Time
	End   time.Time
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// window returns the half-open instant window [from, to) covering r.
func (r Range) window() (time.Time, time.Time) {
	y, m, d := r.End.Date()
	return r.Start, time.Date(y, m, d+1, 0, 0, 0, 0, r.End.Location())
}

// Dates lists every date in r in ascending order.
func (r Range) Dates() []time.Time {
	var dates []time.Time
	y, m, d := r.Start.Date()
	for i := 0; ; i++ {
		day := time.Date(y, m, d+i, 0, 0, 0, 0, r.Start.Location())
		if day.After(r.End) {
			return dates
		}
		dates = append(dates, day)
	}
}

func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}{r.Start.Format(models.DateLayout), r.End.Format(models.DateLayout)})
}

// UnmarshalJSON reads the start/end dates written by MarshalJSON. The
// dates come back as UTC midnights.
func (r *Range) UnmarshalJSON(data []byte) error {
	var raw struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := ParseDate(raw.Start, time.UTC)
	if err != nil {
		return err
	}
	end, err := ParseDate(raw.End, time.UTC)
	if err != nil {
		return err
	}
	r.Start, r.End = start, end
	return nil
}

// Ranges returns the range of the time series and the range of the menu
// breakdown for a report anchored at anchor. They differ only for Day: the
// trend always covers the trailing week, the breakdown only the anchor date.
func Ranges(g Granularity, anchor time.Time) (series Range, breakdown Range) {
	anchor = dateOf(anchor)
	y, m, d := anchor.Date()
	loc := anchor.Location()

	switch g {
	case Month:
		r := Range{Start: time.Date(y, m, 1, 0, 0, 0, 0, loc), End: time.Date(y, m+1, 0, 0, 0, 0, 0, loc)}
		return r, r
	case Year:
		r := Range{Start: time.Date(y, time.January, 1, 0, 0, 0, 0, loc), End: time.Date(y, time.December, 31, 0, 0, 0, 0, loc)}
		return r, r
	default:
		series = Range{Start: time.Date(y, m, d-(trendDays-1), 0, 0, 0, 0, loc), End: anchor}
		return series, Range{Start: anchor, End: anchor}
	}
}

// RangeForPeriod resolves a period key (yyyy-MM-dd, yyyy-MM or yyyy) to the
// range it names.
func RangeForPeriod(key string, loc *time.Location) (Range, Granularity, error) {
	key = strings.TrimSpace(key)
	for _, g := range []Granularity{Day, Month, Year} {
		if len(key) != len(g.Layout()) {
			continue
		}
		t, err := time.ParseInLocation(g.Layout(), key, loc)
		if err != nil {
			break
		}
		if g == Day {
			return Range{Start: t, End: t}, g, nil
		}
		r, _ := Ranges(g, t)
		return r, g, nil
	}
	return Range{}, "", apperr.Validation("period must look like YYYY-MM-DD, YYYY-MM or YYYY")
}

// ParseDate parses a yyyy-MM-dd date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(models.DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, apperr.Validation("date must look like YYYY-MM-DD")
	}
	return t, nil
}
