package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/focusos/internal/stats"
)

const (
	weeklyWindow  = 7 * 24 * time.Hour
	clarityWindow = 30 * 24 * time.Hour
	recentLimit   = 6
)

// EndedFilter narrows ListEndedSessions. Sessions are returned newest first.
type EndedFilter struct {
	Since       *time.Time
	RatedOnly   bool
	Limit       int
	OldestFirst bool
}

// ListEndedSessions returns the user's completed sessions with their task
// titles. Open sessions never appear.
func (s *Store) ListEndedSessions(ctx context.Context, userID string, f EndedFilter) ([]EndedSession, error) {
	query := `
		SELECT fs.id, COALESCE(t.title, ''), fs.started_at, fs.ended_at,
		       COALESCE(fs.duration_minutes, 0), COALESCE(fs.clarity, ''), COALESCE(fs.note, '')
		FROM focus_sessions fs
		LEFT JOIN tasks t ON t.id = fs.task_id
		WHERE fs.user_id = ? AND fs.ended_at IS NOT NULL`
	args := []any{userID}

	if f.Since != nil {
		query += ` AND fs.started_at >= ?`
		args = append(args, formatTime(*f.Since))
	}
	if f.RatedOnly {
		query += ` AND fs.clarity IS NOT NULL`
	}
	if f.OldestFirst {
		query += ` ORDER BY fs.started_at ASC, fs.id ASC`
	} else {
		query += ` ORDER BY fs.started_at DESC, fs.id DESC`
	}
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ended sessions: %w", err)
	}
	defer rows.Close()

	var sessions []EndedSession
	for rows.Next() {
		var e EndedSession
		var startedAt, endedAt, clarity string
		if err := rows.Scan(&e.ID, &e.TaskTitle, &startedAt, &endedAt, &e.DurationMinutes, &clarity, &e.Note); err != nil {
			return nil, err
		}
		e.StartedAt = parseTime(startedAt)
		e.EndedAt = parseTime(endedAt)
		e.Clarity = Clarity(clarity)
		sessions = append(sessions, e)
	}
	return sessions, rows.Err()
}

func (s *Store) Summary(ctx context.Context, userID string) (*Summary, error) {
	sum := &Summary{}
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(duration_minutes), 0)
		FROM focus_sessions
		WHERE user_id = ? AND ended_at IS NOT NULL`, userID,
	).Scan(&sum.TotalSessions, &sum.TotalFocusMinutes)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	return sum, nil
}

// DailyTotals covers sessions that started on the current calendar day.
func (s *Store) DailyTotals(ctx context.Context, userID string) (*DailyTotals, error) {
	dayStart := stats.StartOfDay(s.now(), s.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	d := &DailyTotals{}
	var mins sql.NullFloat64
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(duration_minutes)
		FROM focus_sessions
		WHERE user_id = ? AND ended_at IS NOT NULL
		  AND started_at >= ? AND started_at < ?`,
		userID, formatTime(dayStart), formatTime(dayEnd),
	).Scan(&d.SessionsToday, &mins)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	d.FocusMinutesToday = mins.Float64
	return d, nil
}

// WeeklyMinutes sums minutes per day over the trailing seven days.
func (s *Store) WeeklyMinutes(ctx context.Context, userID string) ([]stats.DayMinutes, error) {
	since := s.now().Add(-weeklyWindow)
	sessions, err := s.ListEndedSessions(ctx, userID, EndedFilter{Since: &since})
	if err != nil {
		return nil, err
	}
	return stats.MinutesByDay(toPoints(sessions), s.loc), nil
}

// ClarityBreakdown counts ratings per day over the trailing thirty days.
func (s *Store) ClarityBreakdown(ctx context.Context, userID string) ([]stats.DayClarity, error) {
	since := s.now().Add(-clarityWindow)
	sessions, err := s.ListEndedSessions(ctx, userID, EndedFilter{Since: &since, RatedOnly: true})
	if err != nil {
		return nil, err
	}
	return stats.ClarityByDay(toPoints(sessions), s.loc), nil
}

func (s *Store) Streak(ctx context.Context, userID string) (int, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT started_at FROM focus_sessions
		WHERE user_id = ? AND ended_at IS NOT NULL`, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("streak days: %w", err)
	}
	defer rows.Close()

	var starts []time.Time
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return 0, err
		}
		starts = append(starts, parseTime(v))
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	days := stats.SessionDays(starts, s.loc)
	return stats.Streak(days, stats.StartOfDay(s.now(), s.loc)), nil
}

// RecentSessions returns display rows for the last few completed sessions.
func (s *Store) RecentSessions(ctx context.Context, userID string) ([]stats.RecentSession, error) {
	sessions, err := s.ListEndedSessions(ctx, userID, EndedFilter{Limit: recentLimit})
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]stats.RecentSession, 0, len(sessions))
	for _, e := range sessions {
		out = append(out, stats.NewRecentSession(e.StartedAt, e.TaskTitle, e.DurationMinutes, string(e.Clarity), e.Note, now, s.loc))
	}
	return out, nil
}

func toPoints(sessions []EndedSession) []stats.Point {
	points := make([]stats.Point, 0, len(sessions))
	for _, e := range sessions {
		points = append(points, stats.Point{Start: e.StartedAt, Minutes: e.DurationMinutes, Clarity: string(e.Clarity)})
	}
	return points
}
