package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/focusos/internal/client"
	"github.com/sadopc/focusos/internal/stats"
	"github.com/sadopc/focusos/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewTasks
	viewFocus
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Tasks", "Focus", "Reports", "Settings"}

// --- Messages ---

type sessionStartedMsg struct {
	session *store.FocusSession
	resumed bool
}

// sessionEndedMsg reports a closed session. finished is set when the
// countdown ran out; completed when the session's task was marked done.
type sessionEndedMsg struct {
	session   *store.FocusSession
	finished  bool
	completed bool
}

type reflectedMsg struct{}

type tasksDataMsg struct {
	tasks []store.Task
}

type dashboardDataMsg struct {
	daily   store.DailyTotals
	summary store.Summary
	streak  int
	recent  []stats.RecentSession
}

type reportsDataMsg struct {
	weekly  []stats.DayMinutes
	clarity []stats.DayClarity
}

type settingsDataMsg struct {
	profile  client.Profile
	settings store.Settings
}

// selectTaskMsg asks the focus view to preselect a task.
type selectTaskMsg struct {
	id int64
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatCountdown renders mm:ss, letting minutes run past 59.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

func formatFocusMinutes(mins float64) string {
	if mins < 60 {
		return stats.FormatMinutes(mins)
	}
	return fmt.Sprintf("%.1fh", mins/60)
}
