// Package stats turns completed focus sessions into calendar-day aggregates.
//
// All functions take the calendar (time.Location) explicitly so results are
// reproducible regardless of the process time zone.
package stats

import (
	"math"
	"sort"
	"time"
)

const dayLayout = "2006-01-02"

// Point is one completed session as seen by the aggregations.
type Point struct {
	Start   time.Time
	Minutes float64
	Clarity string
}

type DayMinutes struct {
	Day     string `json:"day"`
	Minutes int    `json:"minutes"`
}

type DayClarity struct {
	Day   string `json:"day"`
	Clear int    `json:"clear"`
	Meh   int    `json:"meh"`
	Foggy int    `json:"foggy"`
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DayKey formats t as YYYY-MM-DD in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

// DaysBetween is the number of calendar days from b to a. DST transitions do
// not produce fractional days.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ua.Sub(ub).Hours() / 24)
}

// SessionDays returns the distinct calendar days of starts, newest first.
func SessionDays(starts []time.Time, loc *time.Location) []time.Time {
	seen := make(map[string]bool)
	var days []time.Time
	for _, s := range starts {
		key := DayKey(s, loc)
		if seen[key] {
			continue
		}
		seen[key] = true
		days = append(days, StartOfDay(s, loc))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

// Streak counts consecutive session days ending today. days must be distinct
// and sorted newest first, as SessionDays returns them. A missing session
// today yields 0 even when yesterday's chain is unbroken.
func Streak(days []time.Time, today time.Time) int {
	streak := 0
	for _, d := range days {
		if DaysBetween(today, d.In(today.Location())) != streak {
			break
		}
		streak++
	}
	return streak
}

// MinutesByDay sums minutes per calendar day, oldest day first, rounding each
// day's total to the nearest minute.
func MinutesByDay(points []Point, loc *time.Location) []DayMinutes {
	totals := make(map[string]float64)
	for _, p := range points {
		totals[DayKey(p.Start, loc)] += p.Minutes
	}

	out := make([]DayMinutes, 0, len(totals))
	for day, mins := range totals {
		out = append(out, DayMinutes{Day: day, Minutes: int(math.Round(mins))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// ClarityByDay counts ratings per calendar day, oldest first. Unrated points
// are ignored and days without any rating are omitted.
func ClarityByDay(points []Point, loc *time.Location) []DayClarity {
	byDay := make(map[string]*DayClarity)
	for _, p := range points {
		if p.Clarity == "" {
			continue
		}
		key := DayKey(p.Start, loc)
		dc, ok := byDay[key]
		if !ok {
			dc = &DayClarity{Day: key}
			byDay[key] = dc
		}
		switch p.Clarity {
		case "clear":
			dc.Clear++
		case "meh":
			dc.Meh++
		case "foggy":
			dc.Foggy++
		}
	}

	out := make([]DayClarity, 0, len(byDay))
	for _, dc := range byDay {
		out = append(out, *dc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
