package stats

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStreak(t *testing.T) {
	today := day(2024, time.March, 15)

	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{"no sessions", nil, 0},
		{"today", []time.Time{today}, 1},
		{"today and yesterday", []time.Time{today, day(2024, time.March, 14)}, 2},
		{"yesterday and two days ago", []time.Time{day(2024, time.March, 14), day(2024, time.March, 13)}, 0},
		{"gap after today", []time.Time{today, day(2024, time.March, 13)}, 1},
		{"stale chain", []time.Time{day(2024, time.March, 2), day(2024, time.March, 1), day(2024, time.February, 29)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Streak(tt.days, today); got != tt.want {
				t.Fatalf("Streak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStreakAcrossMonthBoundary(t *testing.T) {
	today := day(2024, time.March, 1)
	days := []time.Time{today, day(2024, time.February, 29), day(2024, time.February, 28)}
	if got := Streak(days, today); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestDaysBetweenDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// 2024-03-10 is a 23-hour day in New York.
	a := time.Date(2024, time.March, 11, 0, 0, 0, 0, loc)
	b := time.Date(2024, time.March, 10, 0, 0, 0, 0, loc)
	if got := DaysBetween(a, b); got != 1 {
		t.Fatalf("expected 1 day across DST, got %d", got)
	}
}

func TestSessionDays(t *testing.T) {
	starts := []time.Time{
		time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 15, 18, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 14, 23, 59, 0, 0, time.UTC),
	}
	days := SessionDays(starts, time.UTC)
	if len(days) != 3 {
		t.Fatalf("expected 3 distinct days, got %d", len(days))
	}
	if !days[0].Equal(day(2024, time.March, 15)) || !days[2].Equal(day(2024, time.March, 13)) {
		t.Fatalf("expected newest first, got %v", days)
	}
}

func TestSessionDaysUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 02:00 UTC on the 15th is still the 14th five hours west.
	starts := []time.Time{time.Date(2024, time.March, 15, 2, 0, 0, 0, time.UTC)}
	days := SessionDays(starts, loc)
	if got := DayKey(days[0], loc); got != "2024-03-14" {
		t.Fatalf("expected 2024-03-14, got %s", got)
	}
}

func TestRecentLabel(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		started time.Time
		want    string
	}{
		{time.Date(2024, time.March, 15, 9, 5, 0, 0, time.UTC), "9:05 AM"},
		{time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), "12:00 AM"},
		{time.Date(2024, time.March, 14, 23, 59, 0, 0, time.UTC), "Yesterday"},
		{time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC), "Mar 13, 2024"},
		{time.Date(2023, time.December, 31, 10, 0, 0, 0, time.UTC), "Dec 31, 2023"},
	}
	for _, tt := range tests {
		if got := RecentLabel(tt.started, now, time.UTC); got != tt.want {
			t.Errorf("RecentLabel(%v) = %q, want %q", tt.started, got, tt.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := map[float64]string{
		0:     "0 min",
		0.4:   "0 min",
		24.5:  "25 min",
		25:    "25 min",
		119.6: "120 min",
	}
	for in, want := range tests {
		if got := FormatMinutes(in); got != want {
			t.Errorf("FormatMinutes(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestNewRecentSession(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	r := NewRecentSession(now.Add(-time.Hour), "", 25, "", "", now, time.UTC)
	if r.Task != "Focus Session" {
		t.Fatalf("expected fallback task label, got %q", r.Task)
	}
	if r.Clarity != nil || r.Note != nil {
		t.Fatal("empty clarity and note should be nil")
	}

	r = NewRecentSession(now.Add(-time.Hour), "Write", 25, "clear", "ok", now, time.UTC)
	if r.Task != "Write" || r.Clarity == nil || *r.Clarity != "clear" || r.Note == nil || *r.Note != "ok" {
		t.Fatalf("unexpected row: %+v", r)
	}
}

func TestMinutesByDay(t *testing.T) {
	points := []Point{
		{Start: time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC), Minutes: 10.3},
		{Start: time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC), Minutes: 10.3},
		{Start: time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC), Minutes: 0.4},
	}
	got := MinutesByDay(points, time.UTC)
	if len(got) != 2 {
		t.Fatalf("expected 2 days, got %+v", got)
	}
	if got[0] != (DayMinutes{Day: "2024-03-13", Minutes: 0}) {
		t.Fatalf("unexpected first day: %+v", got[0])
	}
	// rounding applies to the day's total, not each session
	if got[1] != (DayMinutes{Day: "2024-03-15", Minutes: 21}) {
		t.Fatalf("unexpected second day: %+v", got[1])
	}
}

func TestMinutesByDayEmpty(t *testing.T) {
	got := MinutesByDay(nil, time.UTC)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestClarityByDay(t *testing.T) {
	points := []Point{
		{Start: time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC), Clarity: "clear"},
		{Start: time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC), Clarity: "clear"},
		{Start: time.Date(2024, time.March, 15, 11, 0, 0, 0, time.UTC), Clarity: "meh"},
		{Start: time.Date(2024, time.March, 14, 11, 0, 0, 0, time.UTC)},
		{Start: time.Date(2024, time.March, 12, 11, 0, 0, 0, time.UTC), Clarity: "foggy"},
	}
	got := ClarityByDay(points, time.UTC)
	want := []DayClarity{
		{Day: "2024-03-12", Foggy: 1},
		{Day: "2024-03-15", Clear: 2, Meh: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d days, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("day %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}
