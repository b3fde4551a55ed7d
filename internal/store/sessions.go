package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const selectSession = `SELECT id, user_id, task_id, started_at, ended_at, duration_minutes, clarity, note FROM focus_sessions`

func scanSession(row scannable) (*FocusSession, error) {
	f := &FocusSession{}
	var startedAt string
	var endedAt, clarity, note sql.NullString
	var taskID sql.NullInt64
	var duration sql.NullFloat64
	if err := row.Scan(&f.ID, &f.UserID, &taskID, &startedAt, &endedAt, &duration, &clarity, &note); err != nil {
		return nil, err
	}
	if taskID.Valid {
		f.TaskID = &taskID.Int64
	}
	f.StartedAt = parseTime(startedAt)
	f.EndedAt = parseNullTime(endedAt)
	if duration.Valid {
		f.DurationMinutes = &duration.Float64
	}
	if clarity.Valid {
		c := Clarity(clarity.String)
		f.Clarity = &c
	}
	if note.Valid {
		f.Note = &note.String
	}
	return f, nil
}

// GetSession returns the session only if userID owns it.
func (s *Store) GetSession(ctx context.Context, userID string, id int64) (*FocusSession, error) {
	f, err := scanSession(s.conn(ctx).QueryRowContext(ctx,
		selectSession+` WHERE id = ? AND user_id = ?`, id, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %d: %w", id, err)
	}
	return f, nil
}

// ActiveSession returns the user's open session, or nil when there is none.
func (s *Store) ActiveSession(ctx context.Context, userID string) (*FocusSession, error) {
	f, err := scanSession(s.conn(ctx).QueryRowContext(ctx,
		selectSession+` WHERE user_id = ? AND ended_at IS NULL ORDER BY started_at DESC, id DESC LIMIT 1`, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active session: %w", err)
	}
	return f, nil
}

// StartSession opens a focus session, optionally bound to one of the user's
// tasks. The check for an open session and the insert run in one transaction
// and idx_focus_sessions_one_active backs it up at the schema level.
func (s *Store) StartSession(ctx context.Context, userID string, taskID *int64) (*FocusSession, error) {
	var out *FocusSession
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if taskID != nil {
			var owner string
			err := s.conn(ctx).QueryRowContext(ctx,
				`SELECT user_id FROM tasks WHERE id = ?`, *taskID,
			).Scan(&owner)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrForbidden
			}
			if err != nil {
				return fmt.Errorf("check task owner: %w", err)
			}
			if owner != userID {
				return ErrForbidden
			}
		}

		active, err := s.ActiveSession(ctx, userID)
		if err != nil {
			return err
		}
		if active != nil {
			return &ConflictError{Message: "A session is already active", ActiveSessionID: active.ID}
		}

		res, err := s.conn(ctx).ExecContext(ctx,
			`INSERT INTO focus_sessions (user_id, task_id, started_at) VALUES (?, ?, ?)`,
			userID, taskID, s.nowString(),
		)
		if isUniqueViolation(err) {
			return s.activeConflict(ctx, userID)
		}
		if err != nil {
			return fmt.Errorf("start session: %w", err)
		}
		id, _ := res.LastInsertId()
		out, err = s.GetSession(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// activeConflict builds the start conflict after another connection won the
// race to idx_focus_sessions_one_active.
func (s *Store) activeConflict(ctx context.Context, userID string) error {
	active, err := s.ActiveSession(ctx, userID)
	if err != nil {
		return err
	}
	ce := &ConflictError{Message: "A session is already active"}
	if active != nil {
		ce.ActiveSessionID = active.ID
	}
	return ce
}

// EndSession closes the user's open session and records the elapsed
// wall-clock time in minutes.
func (s *Store) EndSession(ctx context.Context, userID string) (*FocusSession, error) {
	var out *FocusSession
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		active, err := s.ActiveSession(ctx, userID)
		if err != nil {
			return err
		}
		if active == nil {
			return &ConflictError{Message: "No active session to end"}
		}

		now := s.now()
		duration := now.Sub(active.StartedAt).Minutes()
		if duration < 0 {
			duration = 0
		}
		_, err = s.conn(ctx).ExecContext(ctx,
			`UPDATE focus_sessions SET ended_at = ?, duration_minutes = ? WHERE id = ? AND user_id = ?`,
			formatTime(now), duration, active.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("end session %d: %w", active.ID, err)
		}
		out, err = s.GetSession(ctx, userID, active.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Reflect rates the most recently ended session. It never touches the open
// session, if any.
func (s *Store) Reflect(ctx context.Context, userID string, r Reflection) (*FocusSession, error) {
	if r.Clarity != "" && !r.Clarity.Valid() {
		return nil, invalid("Invalid clarity value")
	}

	var out *FocusSession
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var id int64
		err := s.conn(ctx).QueryRowContext(ctx, `
			SELECT id FROM focus_sessions
			WHERE user_id = ? AND ended_at IS NOT NULL
			ORDER BY ended_at DESC, id DESC
			LIMIT 1`, userID,
		).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return &ConflictError{Message: "No recent session to reflect on"}
		}
		if err != nil {
			return fmt.Errorf("find last session: %w", err)
		}

		_, err = s.conn(ctx).ExecContext(ctx,
			`UPDATE focus_sessions SET clarity = ?, note = ? WHERE id = ? AND user_id = ?`,
			nullIfEmpty(string(r.Clarity)), nullIfEmpty(strings.TrimSpace(r.Note)), id, userID,
		)
		if err != nil {
			return fmt.Errorf("reflect session %d: %w", id, err)
		}
		out, err = s.GetSession(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
