package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/focusos/internal/client"
	"github.com/sadopc/focusos/internal/stats"
	"github.com/sadopc/focusos/internal/store"
)

// API is the subset of the focusos backend the views talk to.
// *client.Client satisfies it.
type API interface {
	Tasks(ctx context.Context) ([]store.Task, error)
	CreateTask(ctx context.Context, title string) (*store.Task, error)
	ToggleTask(ctx context.Context, id int64) (*store.Task, error)
	CompleteTask(ctx context.Context, id int64) (*store.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	StartSession(ctx context.Context, taskID *int64) (*store.FocusSession, error)
	ActiveSession(ctx context.Context) (*store.FocusSession, error)
	EndSession(ctx context.Context) (*store.FocusSession, error)
	Reflect(ctx context.Context, clarity store.Clarity, note string) (*store.FocusSession, error)
	RecentSessions(ctx context.Context) ([]stats.RecentSession, error)

	Summary(ctx context.Context) (*store.Summary, error)
	Daily(ctx context.Context) (*store.DailyTotals, error)
	Streak(ctx context.Context) (int, error)
	Weekly(ctx context.Context) ([]stats.DayMinutes, error)
	Clarity(ctx context.Context) ([]stats.DayClarity, error)

	Profile(ctx context.Context) (*client.Profile, error)
	UpdateName(ctx context.Context, name string) (*client.Profile, error)
	Settings(ctx context.Context) (*store.Settings, error)
	UpdateSettings(ctx context.Context, patch store.SettingsPatch) (*store.Settings, error)
	Export(ctx context.Context, format string) ([]byte, error)
}

var _ API = (*client.Client)(nil)

const requestTimeout = 10 * time.Second

// call runs fn off the update loop with a bounded context.
func call(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return fn(ctx)
	}
}

func errStatus(prefix string, err error) tea.Msg {
	return statusMsg{text: prefix + ": " + err.Error(), isError: true}
}
