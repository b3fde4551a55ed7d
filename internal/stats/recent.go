package stats

import (
	"fmt"
	"math"
	"time"
)

const defaultTaskLabel = "Focus Session"

// RecentSession is the display form of a completed session.
type RecentSession struct {
	Time     string  `json:"time"`
	Task     string  `json:"task"`
	Duration string  `json:"duration"`
	Clarity  *string `json:"clarity"`
	Note     *string `json:"note"`
}

// RecentLabel describes when a session started relative to now: the time of
// day for today, "Yesterday", or the calendar date.
func RecentLabel(started, now time.Time, loc *time.Location) string {
	started = started.In(loc)
	switch DaysBetween(StartOfDay(now, loc), StartOfDay(started, loc)) {
	case 0:
		return started.Format("3:04 PM")
	case 1:
		return "Yesterday"
	default:
		return started.Format("Jan 2, 2006")
	}
}

// FormatMinutes renders fractional minutes as "<n> min".
func FormatMinutes(mins float64) string {
	return fmt.Sprintf("%d min", int(math.Round(mins)))
}

// NewRecentSession builds the display row for one session.
func NewRecentSession(started time.Time, task string, minutes float64, clarity, note string, now time.Time, loc *time.Location) RecentSession {
	if task == "" {
		task = defaultTaskLabel
	}
	r := RecentSession{
		Time:     RecentLabel(started, now, loc),
		Task:     task,
		Duration: FormatMinutes(minutes),
	}
	if clarity != "" {
		r.Clarity = &clarity
	}
	if note != "" {
		r.Note = &note
	}
	return r
}
