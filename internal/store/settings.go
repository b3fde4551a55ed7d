package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetSettings returns the user's settings, or the defaults when no row exists.
func (s *Store) GetSettings(ctx context.Context, userID string) (*Settings, error) {
	st := &Settings{}
	var theme, updatedAt string
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT user_id, sound_enabled, notifications_enabled, theme, focus_minutes, updated_at
		FROM user_settings WHERE user_id = ?`, userID,
	).Scan(&st.UserID, &st.SoundEnabled, &st.NotificationsEnabled, &theme, &st.FocusMinutes, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		d := DefaultSettings(userID)
		return &d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings %s: %w", userID, err)
	}
	st.Theme = Theme(theme)
	st.UpdatedAt = parseTime(updatedAt)
	return st, nil
}

// UpdateSettings applies a partial update on top of the stored (or default)
// settings.
func (s *Store) UpdateSettings(ctx context.Context, userID string, patch SettingsPatch) (*Settings, error) {
	if patch.Theme != nil && !patch.Theme.Valid() {
		return nil, invalid("Invalid theme value")
	}
	if patch.FocusMinutes != nil && (*patch.FocusMinutes < MinFocusMinutes || *patch.FocusMinutes > MaxFocusMinutes) {
		return nil, invalid("focus_minutes must be between %d and %d", MinFocusMinutes, MaxFocusMinutes)
	}

	var out *Settings
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		cur, err := s.GetSettings(ctx, userID)
		if err != nil {
			return err
		}
		if patch.SoundEnabled != nil {
			cur.SoundEnabled = *patch.SoundEnabled
		}
		if patch.NotificationsEnabled != nil {
			cur.NotificationsEnabled = *patch.NotificationsEnabled
		}
		if patch.Theme != nil {
			cur.Theme = *patch.Theme
		}
		if patch.FocusMinutes != nil {
			cur.FocusMinutes = *patch.FocusMinutes
		}

		_, err = s.conn(ctx).ExecContext(ctx, `
			INSERT INTO user_settings (user_id, sound_enabled, notifications_enabled, theme, focus_minutes, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET
				sound_enabled         = excluded.sound_enabled,
				notifications_enabled = excluded.notifications_enabled,
				theme                 = excluded.theme,
				focus_minutes         = excluded.focus_minutes,
				updated_at            = excluded.updated_at`,
			userID, cur.SoundEnabled, cur.NotificationsEnabled, string(cur.Theme), cur.FocusMinutes, s.nowString(),
		)
		if err != nil {
			return fmt.Errorf("update settings: %w", err)
		}

		out, err = s.GetSettings(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
