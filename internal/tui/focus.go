package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusos/internal/client"
	"github.com/sadopc/focusos/internal/store"
)

type focusPhase int

const (
	focusIdle focusPhase = iota
	focusRunning
	focusReflecting
)

type focusModel struct {
	api    API
	width  int
	height int

	timer timerModel
	phase focusPhase

	// Open tasks offered for the next session; cursor 0 means no task.
	tasks  []store.Task
	cursor int

	sound bool

	formActive bool
	form       *huh.Form
	clarity    *string
	note       *string
}

func newFocusModel(api API, now func() time.Time) focusModel {
	clarity, note := string(store.ClarityClear), ""
	return focusModel{
		api:     api,
		timer:   newTimerModel(now),
		sound:   true,
		clarity: &clarity,
		note:    &note,
	}
}

func (f *focusModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

type focusDataMsg struct {
	session  *store.FocusSession
	tasks    []store.Task
	settings *store.Settings
}

// refresh restores an open session along with the task list and the
// configured focus length.
func (f focusModel) refresh() tea.Cmd {
	return call(func(ctx context.Context) tea.Msg {
		active, err := f.api.ActiveSession(ctx)
		if err != nil {
			return errStatus("Failed to fetch active session", err)
		}
		tasks, err := f.api.Tasks(ctx)
		if err != nil {
			return errStatus("Failed to fetch tasks", err)
		}
		settings, err := f.api.Settings(ctx)
		if err != nil {
			return errStatus("Failed to fetch settings", err)
		}
		return focusDataMsg{session: active, tasks: tasks, settings: settings}
	})
}

func (f focusModel) update(msg tea.Msg) (focusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case focusDataMsg:
		f.setTasks(msg.tasks)
		if msg.settings != nil {
			f.applySettings(*msg.settings)
		}
		switch {
		case msg.session != nil && !f.timer.running():
			f.timer.attach(msg.session, f.taskTitle(msg.session.TaskID))
			f.phase = focusRunning
		case msg.session == nil && f.phase == focusRunning:
			f.timer.detach()
			f.phase = focusIdle
		}
		return f, nil

	case tasksDataMsg:
		f.setTasks(msg.tasks)
		return f, nil

	case settingsDataMsg:
		f.applySettings(msg.settings)
		return f, nil

	case selectTaskMsg:
		for i, t := range f.tasks {
			if t.ID == msg.id {
				f.cursor = i + 1
			}
		}
		return f, nil

	case sessionStartedMsg:
		f.timer.attach(msg.session, f.taskTitle(msg.session.TaskID))
		f.phase = focusRunning
		return f, nil

	case sessionEndedMsg:
		f.timer.detach()
		return f.showReflection()

	case reflectedMsg:
		f.phase = focusIdle
		return f, nil

	case tickMsg:
		if f.phase == focusRunning && f.timer.tick() {
			return f, f.endSession(true)
		}
		return f, nil

	case tea.KeyMsg:
		if f.formActive && f.form != nil {
			return f.updateForm(msg)
		}
		return f.updateKeys(msg)
	}

	if f.formActive && f.form != nil {
		return f.updateForm(msg)
	}
	return f, nil
}

func (f focusModel) updateKeys(msg tea.KeyMsg) (focusModel, tea.Cmd) {
	switch f.phase {
	case focusIdle:
		switch {
		case key.Matches(msg, keys.Up):
			if f.cursor > 0 {
				f.cursor--
			}
		case key.Matches(msg, keys.Down):
			if f.cursor < len(f.tasks) {
				f.cursor++
			}
		case key.Matches(msg, keys.Start), key.Matches(msg, keys.Enter):
			return f, f.startSession()
		}
	case focusRunning:
		switch {
		case key.Matches(msg, keys.Pause):
			f.timer.toggle()
		case key.Matches(msg, keys.Stop):
			return f, f.endSession(false)
		}
	}
	return f, nil
}

func (f *focusModel) setTasks(tasks []store.Task) {
	var selected int64
	if t := f.selectedTask(); t != nil {
		selected = t.ID
	}

	var open []store.Task
	for _, t := range tasks {
		if !t.Completed {
			open = append(open, t)
		}
	}
	f.tasks = open

	f.cursor = 0
	for i, t := range f.tasks {
		if t.ID == selected {
			f.cursor = i + 1
		}
	}
}

func (f *focusModel) applySettings(s store.Settings) {
	f.sound = s.SoundEnabled
	// The length of a running countdown is fixed when it starts.
	if !f.timer.running() {
		f.timer.setLength(s.FocusMinutes)
	}
}

func (f focusModel) selectedTask() *store.Task {
	if f.cursor < 1 || f.cursor > len(f.tasks) {
		return nil
	}
	return &f.tasks[f.cursor-1]
}

func (f focusModel) taskTitle(id *int64) string {
	if id == nil {
		return ""
	}
	for _, t := range f.tasks {
		if t.ID == *id {
			return t.Title
		}
	}
	return ""
}

func (f focusModel) startSession() tea.Cmd {
	var taskID *int64
	if t := f.selectedTask(); t != nil {
		id := t.ID
		taskID = &id
	}
	return call(func(ctx context.Context) tea.Msg {
		s, err := f.api.StartSession(ctx, taskID)
		if err == nil {
			return sessionStartedMsg{session: s}
		}

		// Another client already has a session open: resume it here.
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.ActiveSessionID != 0 {
			if active, aerr := f.api.ActiveSession(ctx); aerr == nil && active != nil {
				return sessionStartedMsg{session: active, resumed: true}
			}
		}
		return errStatus("Failed to start session", err)
	})
}

// endSession closes the open session. When the countdown ran out, the task
// the session was for is marked complete as well.
func (f focusModel) endSession(finished bool) tea.Cmd {
	var taskID *int64
	if f.timer.session != nil {
		taskID = f.timer.session.TaskID
	}
	return call(func(ctx context.Context) tea.Msg {
		s, err := f.api.EndSession(ctx)
		if err != nil {
			return errStatus("Failed to end session", err)
		}
		msg := sessionEndedMsg{session: s, finished: finished}
		if finished && taskID != nil {
			if _, err := f.api.CompleteTask(ctx, *taskID); err == nil {
				msg.completed = true
			}
		}
		return msg
	})
}

func (f focusModel) showReflection() (focusModel, tea.Cmd) {
	*f.clarity = string(store.ClarityClear)
	*f.note = ""
	f.phase = focusReflecting

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("How clear was your focus?").
				Options(
					huh.NewOption("Clear", string(store.ClarityClear)),
					huh.NewOption("Meh", string(store.ClarityMeh)),
					huh.NewOption("Foggy", string(store.ClarityFoggy)),
				).Value(f.clarity),
			huh.NewText().Title("Note (optional)").CharLimit(500).Value(f.note),
		),
	).WithShowHelp(true).WithShowErrors(true)

	f.formActive = true
	return f, f.form.Init()
}

func (f focusModel) updateForm(msg tea.Msg) (focusModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		f.formActive = false
		f.form = nil
		f.phase = focusIdle
		return f, func() tea.Msg { return statusMsg{text: "Reflection skipped"} }
	}

	form, cmd := f.form.Update(msg)
	if ff, ok := form.(*huh.Form); ok {
		f.form = ff
	}

	if f.form.State == huh.StateCompleted {
		f.formActive = false
		f.form = nil
		return f, f.saveReflection(store.Clarity(*f.clarity), strings.TrimSpace(*f.note))
	}
	return f, cmd
}

func (f focusModel) saveReflection(clarity store.Clarity, note string) tea.Cmd {
	return call(func(ctx context.Context) tea.Msg {
		if _, err := f.api.Reflect(ctx, clarity, note); err != nil {
			return errStatus("Failed to save reflection", err)
		}
		return reflectedMsg{}
	})
}

func (f focusModel) view() string {
	w := f.width - 4
	title := titleStyle.Render("Focus Session")

	if f.formActive && f.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", f.form.View()),
		)
	}

	var clock, label, detail, controls string
	switch f.phase {
	case focusRunning:
		remaining := formatCountdown(f.timer.remaining())
		if f.timer.paused() {
			clock = timerPausedStyle.Width(w - 6).Render(remaining)
			label = warningStyle.Render("⏸  PAUSED")
		} else {
			clock = timerRunningStyle.Width(w - 6).Render(remaining)
			label = successStyle.Render("●  FOCUSING")
		}
		detail = f.renderProgress(w - 10)
		if f.timer.taskTitle != "" {
			detail = lipgloss.JoinVertical(lipgloss.Center, highlightStyle.Render(f.timer.taskTitle), detail)
		}
		controls = mutedStyle.Render("space: pause/resume  x: end session")
	default:
		clock = timerStyle.Width(w - 6).Render(formatCountdown(f.timer.length))
		label = mutedStyle.Render("Ready to focus")
		detail = f.renderPicker()
		controls = mutedStyle.Render("↑/↓: choose task  s: start")
	}

	content := lipgloss.JoinVertical(lipgloss.Center, title, "", clock, label, "", detail)
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (f focusModel) renderProgress(width int) string {
	width = max(width, 10)
	filled := int(f.timer.progress() * float64(width))
	bar := successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
	return bar + mutedStyle.Render(fmt.Sprintf("  %s elapsed", formatDuration(f.timer.elapsed())))
}

func (f focusModel) renderPicker() string {
	rows := []string{mutedStyle.Render("Task")}
	options := append([]string{"No task"}, taskTitles(f.tasks)...)
	for i, name := range options {
		cursor := "  "
		style := normalItemStyle
		if i == f.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+name))
	}
	return strings.Join(rows, "\n")
}

func taskTitles(tasks []store.Task) []string {
	titles := make([]string, len(tasks))
	for i, t := range tasks {
		titles[i] = t.Title
	}
	return titles
}
