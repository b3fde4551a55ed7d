package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const selectTask = `SELECT id, user_id, title, completed, created_at FROM tasks`

type scannable interface {
	Scan(...any) error
}

func scanTask(row scannable) (*Task, error) {
	t := &Task{}
	var createdAt string
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &createdAt); err != nil {
		return nil, err
	}
	t.CreatedAt = parseTime(createdAt)
	return t, nil
}

func (s *Store) CreateTask(ctx context.Context, userID, title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("Title is required")
	}
	res, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO tasks (user_id, title, created_at) VALUES (?, ?, ?)`,
		userID, title, s.nowString(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTask(ctx, userID, id)
}

// GetTask returns the task only if userID owns it.
func (s *Store) GetTask(ctx context.Context, userID string, id int64) (*Task, error) {
	t, err := scanTask(s.conn(ctx).QueryRowContext(ctx,
		selectTask+` WHERE id = ? AND user_id = ?`, id, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// ListTasks returns the user's tasks, newest first.
func (s *Store) ListTasks(ctx context.Context, userID string) ([]Task, error) {
	rows, err := s.conn(ctx).QueryContext(ctx,
		selectTask+` WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// ToggleTask flips the completed flag.
func (s *Store) ToggleTask(ctx context.Context, userID string, id int64) (*Task, error) {
	return s.updateTask(ctx, userID, id, `UPDATE tasks SET completed = NOT completed WHERE id = ? AND user_id = ?`)
}

// CompleteTask marks the task completed. Completing twice is not an error.
func (s *Store) CompleteTask(ctx context.Context, userID string, id int64) (*Task, error) {
	return s.updateTask(ctx, userID, id, `UPDATE tasks SET completed = 1 WHERE id = ? AND user_id = ?`)
}

func (s *Store) updateTask(ctx context.Context, userID string, id int64, stmt string) (*Task, error) {
	res, err := s.conn(ctx).ExecContext(ctx, stmt, id, userID)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetTask(ctx, userID, id)
}

func (s *Store) DeleteTask(ctx context.Context, userID string, id int64) error {
	res, err := s.conn(ctx).ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
