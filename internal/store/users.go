package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// EnsureUser provisions the user row and its default settings. Email always
// follows the provider; the name is only filled in while still unset.
func (s *Store) EnsureUser(ctx context.Context, p Principal) error {
	if p.ID == "" {
		return invalid("principal id is required")
	}
	var name any
	if n := strings.TrimSpace(p.Name); n != "" {
		name = n
	}

	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		now := s.nowString()
		_, err := s.conn(ctx).ExecContext(ctx, `
			INSERT INTO users (id, email, name, created_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				email = excluded.email,
				name  = COALESCE(users.name, excluded.name)`,
			p.ID, p.Email, name, now,
		)
		if err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}

		d := DefaultSettings(p.ID)
		_, err = s.conn(ctx).ExecContext(ctx, `
			INSERT INTO user_settings (user_id, sound_enabled, notifications_enabled, theme, focus_minutes, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(user_id) DO NOTHING`,
			d.UserID, d.SoundEnabled, d.NotificationsEnabled, string(d.Theme), d.FocusMinutes, now,
		)
		if err != nil {
			return fmt.Errorf("insert default settings: %w", err)
		}
		return nil
	})
}

func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	u := &User{}
	var name sql.NullString
	var createdAt string
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT id, email, name, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	if name.Valid {
		u.Name = &name.String
	}
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

// UpdateUserName sets the display name. An empty name is stored as such so a
// cleared name is not refilled from the provider on the next request.
func (s *Store) UpdateUserName(ctx context.Context, id, name string) (*User, error) {
	res, err := s.conn(ctx).ExecContext(ctx,
		`UPDATE users SET name = ? WHERE id = ?`, strings.TrimSpace(name), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update user name: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, id)
}
