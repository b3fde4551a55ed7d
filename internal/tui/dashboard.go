package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusos/internal/stats"
	"github.com/sadopc/focusos/internal/store"
)

const dashboardRecentLimit = 5

type dashboardModel struct {
	api    API
	width  int
	height int

	loaded  bool
	daily   store.DailyTotals
	summary store.Summary
	streak  int
	recent  []stats.RecentSession
}

func newDashboardModel(api API) dashboardModel {
	return dashboardModel{api: api}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) loadData() tea.Cmd {
	return call(func(ctx context.Context) tea.Msg {
		var msg dashboardDataMsg

		daily, err := d.api.Daily(ctx)
		if err != nil {
			return errStatus("Failed to fetch daily analytics", err)
		}
		msg.daily = *daily

		summary, err := d.api.Summary(ctx)
		if err != nil {
			return errStatus("Failed to fetch analytics", err)
		}
		msg.summary = *summary

		if msg.streak, err = d.api.Streak(ctx); err != nil {
			return errStatus("Failed to calculate streak", err)
		}
		if msg.recent, err = d.api.RecentSessions(ctx); err != nil {
			return errStatus("Failed to fetch recent sessions", err)
		}
		return msg
	})
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.loaded = true
		d.daily = msg.daily
		d.summary = msg.summary
		d.streak = msg.streak
		d.recent = msg.recent
		return d, nil

	case sessionEndedMsg, reflectedMsg:
		return d, d.loadData()

	case tea.KeyMsg:
		if key.Matches(msg, keys.Refresh) {
			return d, d.loadData()
		}
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderStats(w),
		d.renderRecent(w),
	)
}

func (d dashboardModel) renderStats(w int) string {
	cell := lipgloss.NewStyle().Width((w - 6) / 4)

	stat := func(label, value string) string {
		return cell.Render(lipgloss.JoinVertical(lipgloss.Left,
			mutedStyle.Render(label),
			statStyle.Render(value),
		))
	}

	streak := fmt.Sprintf("%d day", d.streak)
	if d.streak != 1 {
		streak += "s"
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Focus today", formatFocusMinutes(d.daily.FocusMinutesToday)),
		stat("Sessions today", fmt.Sprintf("%d", d.daily.SessionsToday)),
		stat("Streak", streak),
		stat("All time", formatFocusMinutes(d.summary.TotalFocusMinutes)),
	)

	title := titleStyle.Render("Today")
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", row))
}

func (d dashboardModel) renderRecent(w int) string {
	title := titleStyle.Render("Recent Sessions")
	if len(d.recent) == 0 {
		hint := "No sessions yet. Press 3 to start focusing."
		if !d.loaded {
			hint = "Loading..."
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render(hint),
		))
	}

	rows := []string{title}
	for i, r := range d.recent {
		if i == dashboardRecentLimit {
			break
		}
		clarity := mutedStyle.Render("·")
		if r.Clarity != nil {
			clarity = clarityStyle(store.Clarity(*r.Clarity)).Render(*r.Clarity)
		}
		row := fmt.Sprintf("  %-12s %-28s %8s  %s", r.Time, truncate(r.Task, 28), r.Duration, clarity)
		rows = append(rows, row)
		if r.Note != nil {
			rows = append(rows, mutedStyle.Render("               "+truncate(*r.Note, w-20)))
		}
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 2 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
