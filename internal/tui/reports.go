package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusos/internal/stats"
	"github.com/sadopc/focusos/internal/store"
)

type reportsModel struct {
	api    API
	width  int
	height int

	weekly  []stats.DayMinutes
	clarity []stats.DayClarity

	chart barchart.Model
}

func newReportsModel(api API) reportsModel {
	return reportsModel{
		api:   api,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.buildChart()
}

func (r reportsModel) refresh() tea.Cmd {
	return call(func(ctx context.Context) tea.Msg {
		weekly, err := r.api.Weekly(ctx)
		if err != nil {
			return errStatus("Failed to fetch weekly analytics", err)
		}
		clarity, err := r.api.Clarity(ctx)
		if err != nil {
			return errStatus("Failed to fetch clarity analytics", err)
		}
		return reportsDataMsg{weekly: weekly, clarity: clarity}
	})
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.weekly = msg.weekly
		r.clarity = msg.clarity
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Refresh) {
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := max(r.width-8, 20)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	bar := lipgloss.NewStyle().Foreground(colorPrimary)
	var bars []barchart.BarData
	for _, d := range r.weekly {
		bars = append(bars, barchart.BarData{
			Label: dayLabel(d.Day),
			Values: []barchart.BarValue{{
				Name:  "minutes",
				Value: float64(d.Minutes),
				Style: bar,
			}},
		})
	}
	if len(bars) == 0 {
		return
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

// dayLabel shortens a YYYY-MM-DD key to "Mon 02".
func dayLabel(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return t.Format("Mon 02")
}

func (r reportsModel) view() string {
	w := r.width - 4

	total := 0
	for _, d := range r.weekly {
		total += d.Minutes
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Last 7 days"), "  ",
		mutedStyle.Render(fmt.Sprintf("%d min focused", total)),
	)

	chart := mutedStyle.Render("  No focus sessions in the last week")
	if len(r.weekly) > 0 {
		chart = r.chart.View()
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chart, "",
			titleStyle.Render("Clarity"), r.renderClarityTable(w), "",
			mutedStyle.Render("  r: refresh"),
		),
	)
}

func (r reportsModel) renderClarityTable(w int) string {
	if len(r.clarity) == 0 {
		return mutedStyle.Render("  No rated sessions yet")
	}

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-12s %6s %6s %6s", "Day", "Clear", "Meh", "Foggy")),
		mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 33))),
	}
	for _, d := range r.clarity {
		rows = append(rows, fmt.Sprintf("  %-12s %s %s %s",
			d.Day,
			clarityStyle(store.ClarityClear).Render(fmt.Sprintf("%6d", d.Clear)),
			clarityStyle(store.ClarityMeh).Render(fmt.Sprintf("%6d", d.Meh)),
			clarityStyle(store.ClarityFoggy).Render(fmt.Sprintf("%6d", d.Foggy)),
		))
	}
	return strings.Join(rows, "\n")
}
