package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusos/internal/client"
	"github.com/sadopc/focusos/internal/store"
)

type settingsModel struct {
	api    API
	width  int
	height int

	loaded   bool
	profile  client.Profile
	settings store.Settings

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	name          *string
	sound         *bool
	notifications *bool
	theme         *string
	focusMinutes  *string
}

func newSettingsModel(api API) settingsModel {
	name, theme, focus := "", "", ""
	sound, notifications := false, false
	return settingsModel{
		api:           api,
		name:          &name,
		sound:         &sound,
		notifications: &notifications,
		theme:         &theme,
		focusMinutes:  &focus,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return call(func(ctx context.Context) tea.Msg {
		profile, err := s.api.Profile(ctx)
		if err != nil {
			return errStatus("Failed to fetch profile", err)
		}
		settings, err := s.api.Settings(ctx)
		if err != nil {
			return errStatus("Failed to fetch settings", err)
		}
		return settingsDataMsg{profile: *profile, settings: *settings}
	})
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsDataMsg:
		s.loaded = true
		s.profile = msg.profile
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if s.formActive && s.form != nil {
			return s.updateForm(msg)
		}
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			if s.loaded {
				return s.showForm()
			}
		case key.Matches(msg, keys.Refresh):
			return s, s.refresh()
		}
		return s, nil
	}

	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}
	return s, nil
}

func validateFocusMinutes(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < store.MinFocusMinutes || n > store.MaxFocusMinutes {
		return fmt.Errorf("enter a whole number between %d and %d", store.MinFocusMinutes, store.MaxFocusMinutes)
	}
	return nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.name = ""
	if s.profile.Name != nil {
		*s.name = *s.profile.Name
	}
	*s.sound = s.settings.SoundEnabled
	*s.notifications = s.settings.NotificationsEnabled
	*s.theme = string(s.settings.Theme)
	*s.focusMinutes = strconv.Itoa(s.settings.FocusMinutes)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Display name").Value(s.name),
		).Title("Profile"),
		huh.NewGroup(
			huh.NewInput().Title("Focus length (min)").
				Value(s.focusMinutes).
				Validate(validateFocusMinutes),
			huh.NewConfirm().Title("Sound").Affirmative("On").Negative("Off").Value(s.sound),
			huh.NewConfirm().Title("Notifications").Affirmative("On").Negative("Off").Value(s.notifications),
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Light", string(store.ThemeLight)),
					huh.NewOption("Dark", string(store.ThemeDark)),
				).Value(s.theme),
		).Title("Preferences"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		s.formActive = false
		s.form = nil
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, s.save(s.patch())
	}
	return s, cmd
}

// patch collects the fields that differ from the loaded settings.
func (s settingsModel) patch() settingsChange {
	var c settingsChange
	if name := strings.TrimSpace(*s.name); s.profile.Name == nil || *s.profile.Name != name {
		c.name = &name
	}
	if *s.sound != s.settings.SoundEnabled {
		v := *s.sound
		c.patch.SoundEnabled = &v
	}
	if *s.notifications != s.settings.NotificationsEnabled {
		v := *s.notifications
		c.patch.NotificationsEnabled = &v
	}
	if theme := store.Theme(*s.theme); theme != s.settings.Theme {
		c.patch.Theme = &theme
	}
	if n, err := strconv.Atoi(strings.TrimSpace(*s.focusMinutes)); err == nil && n != s.settings.FocusMinutes {
		c.patch.FocusMinutes = &n
	}
	return c
}

type settingsChange struct {
	name  *string
	patch store.SettingsPatch
}

func (s settingsModel) save(c settingsChange) tea.Cmd {
	return call(func(ctx context.Context) tea.Msg {
		profile := &s.profile
		if c.name != nil {
			p, err := s.api.UpdateName(ctx, *c.name)
			if err != nil {
				return errStatus("Failed to update profile", err)
			}
			profile = p
		}
		settings, err := s.api.UpdateSettings(ctx, c.patch)
		if err != nil {
			return errStatus("Failed to update settings", err)
		}
		return settingsDataMsg{profile: *profile, settings: *settings}
	})
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}
	if !s.loaded {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render("Loading...")),
		)
	}

	name := "(not set)"
	if s.profile.Name != nil && *s.profile.Name != "" {
		name = *s.profile.Name
	}

	label := lipgloss.NewStyle().Width(22)
	row := func(k, v string) string {
		return "  " + label.Render(k) + " " + highlightStyle.Render(v)
	}

	rows := []string{
		title,
		"",
		row("Name", name),
		row("Email", s.profile.Email),
		"",
		row("Focus length", fmt.Sprintf("%d min", s.settings.FocusMinutes)),
		row("Sound", onOff(s.settings.SoundEnabled)),
		row("Notifications", onOff(s.settings.NotificationsEnabled)),
		row("Theme", string(s.settings.Theme)),
		"",
		mutedStyle.Render("Press enter to edit settings"),
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
