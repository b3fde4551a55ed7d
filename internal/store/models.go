package store

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Principal is the identity the provider resolved for a request, as far as
// provisioning cares.
type Principal struct {
	ID    string
	Email string
	Name  string
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

type Settings struct {
	UserID               string    `json:"user_id"`
	SoundEnabled         bool      `json:"sound_enabled"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	Theme                Theme     `json:"theme"`
	FocusMinutes         int       `json:"focus_minutes"`
	UpdatedAt            time.Time `json:"updated_at"`
}

const (
	MinFocusMinutes = 1
	MaxFocusMinutes = 240
)

// DefaultSettings is the configuration every new user starts with.
func DefaultSettings(userID string) Settings {
	return Settings{
		UserID:               userID,
		SoundEnabled:         true,
		NotificationsEnabled: true,
		Theme:                ThemeLight,
		FocusMinutes:         25,
	}
}

// SettingsPatch is a partial update; nil fields keep their stored value.
type SettingsPatch struct {
	SoundEnabled         *bool  `json:"sound_enabled"`
	NotificationsEnabled *bool  `json:"notifications_enabled"`
	Theme                *Theme `json:"theme"`
	FocusMinutes         *int   `json:"focus_minutes"`
}

type Task struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

type Clarity string

const (
	ClarityClear Clarity = "clear"
	ClarityMeh   Clarity = "meh"
	ClarityFoggy Clarity = "foggy"
)

func (c Clarity) Valid() bool {
	switch c {
	case ClarityClear, ClarityMeh, ClarityFoggy:
		return true
	}
	return false
}

type FocusSession struct {
	ID              int64      `json:"id"`
	UserID          string     `json:"user_id"`
	TaskID          *int64     `json:"task_id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationMinutes *float64   `json:"duration_minutes"`
	Clarity         *Clarity   `json:"clarity"`
	Note            *string    `json:"note"`
}

// Active reports whether the session is still open.
func (f FocusSession) Active() bool {
	return f.EndedAt == nil
}

// Reflection is the post-session self rating. Empty values clear the field.
type Reflection struct {
	Clarity Clarity
	Note    string
}

// EndedSession is the slice of a completed session that analytics need.
type EndedSession struct {
	ID              int64
	TaskTitle       string
	StartedAt       time.Time
	EndedAt         time.Time
	DurationMinutes float64
	Clarity         Clarity
	Note            string
}

type Summary struct {
	TotalSessions     int     `json:"total_sessions"`
	TotalFocusMinutes float64 `json:"total_focus_minutes"`
}

type DailyTotals struct {
	SessionsToday     int     `json:"sessions_today"`
	FocusMinutesToday float64 `json:"focus_minutes_today"`
}
