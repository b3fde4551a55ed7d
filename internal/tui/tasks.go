package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

type tasksModel struct {
	api    API
	width  int
	height int

	all    []taskRow
	tasks  []taskRow // rows matching filter
	cursor int

	filter    textinput.Model
	filtering bool

	formActive bool
	form       *huh.Form
	formTitle  *string // survives value copies
}

// taskRow is a task as the list renders it.
type taskRow struct {
	id        int64
	title     string
	completed bool
	createdAt string
}

func newTasksModel(api API) tasksModel {
	title := ""
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter by title"
	filter.CharLimit = 100
	return tasksModel{api: api, formTitle: &title, filter: filter}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) refresh() tea.Cmd {
	return call(func(ctx context.Context) tea.Msg {
		tasks, err := m.api.Tasks(ctx)
		if err != nil {
			return errStatus("Failed to fetch tasks", err)
		}
		return tasksDataMsg{tasks: tasks}
	})
}

func (m tasksModel) selected() (taskRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return taskRow{}, false
	}
	return m.tasks[m.cursor], true
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksDataMsg:
		m.all = m.all[:0:0]
		for _, t := range msg.tasks {
			m.all = append(m.all, taskRow{
				id:        t.ID,
				title:     t.Title,
				completed: t.Completed,
				createdAt: t.CreatedAt.Local().Format("Jan 2"),
			})
		}
		m.applyFilter()
		return m, nil

	case tea.KeyMsg:
		if m.formActive && m.form != nil {
			return m.updateForm(msg)
		}
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateList(msg)
	}

	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

// applyFilter rebuilds the visible rows from the case-insensitive title
// query and keeps the cursor in range.
func (m *tasksModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.tasks = make([]taskRow, 0, len(m.all))
	for _, t := range m.all {
		if q == "" || strings.Contains(strings.ToLower(t.title), q) {
			m.tasks = append(m.tasks, t)
		}
	}
	if m.cursor >= len(m.tasks) {
		m.cursor = max(0, len(m.tasks)-1)
	}
}

func (m tasksModel) updateFilter(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case key.Matches(msg, keys.Back):
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Filter):
		m.filtering = true
		cmd := m.filter.Focus()
		return m, cmd
	case key.Matches(msg, keys.Back):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
		}
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.New):
		return m.showNewTaskForm()
	case key.Matches(msg, keys.Toggle):
		if t, ok := m.selected(); ok {
			return m, m.mutate("Failed to update task", func(ctx context.Context) error {
				_, err := m.api.ToggleTask(ctx, t.id)
				return err
			})
		}
	case key.Matches(msg, keys.Complete):
		if t, ok := m.selected(); ok {
			return m, m.mutate("Failed to complete task", func(ctx context.Context) error {
				_, err := m.api.CompleteTask(ctx, t.id)
				return err
			})
		}
	case key.Matches(msg, keys.Delete):
		if t, ok := m.selected(); ok {
			return m, m.mutate("Failed to delete task", func(ctx context.Context) error {
				return m.api.DeleteTask(ctx, t.id)
			})
		}
	case key.Matches(msg, keys.Start), key.Matches(msg, keys.Enter):
		if t, ok := m.selected(); ok && !t.completed {
			return m, m.focusOn(t)
		}
	}
	return m, nil
}

// mutate runs a task change and reloads the list.
func (m tasksModel) mutate(failure string, fn func(ctx context.Context) error) tea.Cmd {
	return call(func(ctx context.Context) tea.Msg {
		if err := fn(ctx); err != nil {
			return errStatus(failure, err)
		}
		tasks, err := m.api.Tasks(ctx)
		if err != nil {
			return errStatus("Failed to fetch tasks", err)
		}
		return tasksDataMsg{tasks: tasks}
	})
}

func (m tasksModel) focusOn(t taskRow) tea.Cmd {
	return func() tea.Msg { return selectTaskMsg{id: t.id} }
}

func (m tasksModel) showNewTaskForm() (tasksModel, tea.Cmd) {
	*m.formTitle = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").
				Placeholder("What do you want to focus on?").
				Value(m.formTitle).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.formActive = false
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		title := strings.TrimSpace(*m.formTitle)
		return m, m.mutate("Failed to create task", func(ctx context.Context) error {
			_, err := m.api.CreateTask(ctx, title)
			return err
		})
	}
	return m, cmd
}

func (m tasksModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("New Task"), "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Tasks")
	if len(m.all) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	open := 0
	for _, t := range m.all {
		if !t.completed {
			open++
		}
	}

	rows := []string{
		title + "  " + mutedStyle.Render(fmt.Sprintf("%d open / %d total", open, len(m.all))),
	}
	if m.filtering || m.filter.Value() != "" {
		rows = append(rows, m.filter.View())
	}
	rows = append(rows, "")
	if len(m.tasks) == 0 {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  No tasks match %q", m.filter.Value())))
	}
	for i, t := range m.tasks {
		cursor := "  "
		style := normalItemStyle
		if t.completed {
			style = doneItemStyle
		}
		if i == m.cursor {
			cursor = "> "
			if !t.completed {
				style = selectedItemStyle
			}
		}
		check := "[ ]"
		if t.completed {
			check = successStyle.Render("[✓]")
		}
		rows = append(rows, fmt.Sprintf("%s%s %s  %s", cursor, check, style.Render(t.title), mutedStyle.Render(t.createdAt)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  t: toggle  c: complete  d: delete  s: focus on task  /: filter"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
