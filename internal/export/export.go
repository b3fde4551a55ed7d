// Package export renders a user's data for download.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sadopc/focusos/internal/stats"
	"github.com/sadopc/focusos/internal/store"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, csv or yaml (case-insensitive). Empty means json.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatYAML:
		return "application/yaml; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// Filename is the suggested download name for an export taken at t.
func (f Format) Filename(t time.Time) string {
	return fmt.Sprintf("focusos-export-%s.%s", t.Format("20060102-150405"), f)
}

// Data is everything an export contains.
type Data struct {
	ExportedAt time.Time
	Profile    store.User
	Settings   store.Settings
	Sessions   []store.EndedSession
	// Location formats session times; nil means UTC.
	Location *time.Location
}

func (d *Data) loc() *time.Location {
	if d.Location == nil {
		return time.UTC
	}
	return d.Location
}

// Write renders d in format f.
func Write(w io.Writer, f Format, d *Data) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, d)
	case FormatYAML:
		return WriteYAML(w, d)
	default:
		return WriteJSON(w, d)
	}
}

type document struct {
	ExportedAt string          `json:"exported_at" yaml:"exported_at"`
	Profile    profileRecord   `json:"profile" yaml:"profile"`
	Settings   settingsRecord  `json:"settings" yaml:"settings"`
	Count      int             `json:"count" yaml:"count"`
	Sessions   []sessionRecord `json:"sessions" yaml:"sessions"`
}

type profileRecord struct {
	ID    string `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
}

type settingsRecord struct {
	SoundEnabled         bool   `json:"sound_enabled" yaml:"sound_enabled"`
	NotificationsEnabled bool   `json:"notifications_enabled" yaml:"notifications_enabled"`
	Theme                string `json:"theme" yaml:"theme"`
	FocusMinutes         int    `json:"focus_minutes" yaml:"focus_minutes"`
}

type sessionRecord struct {
	ID              int64   `json:"id" yaml:"id"`
	Task            string  `json:"task,omitempty" yaml:"task,omitempty"`
	StartedAt       string  `json:"started_at" yaml:"started_at"`
	EndedAt         string  `json:"ended_at" yaml:"ended_at"`
	DurationMinutes float64 `json:"duration_minutes" yaml:"duration_minutes"`
	Duration        string  `json:"duration" yaml:"duration"`
	Clarity         string  `json:"clarity,omitempty" yaml:"clarity,omitempty"`
	Note            string  `json:"note,omitempty" yaml:"note,omitempty"`
}

func newDocument(d *Data) document {
	doc := document{
		ExportedAt: d.ExportedAt.UTC().Format(time.RFC3339),
		Profile: profileRecord{
			ID:    d.Profile.ID,
			Email: d.Profile.Email,
		},
		Settings: settingsRecord{
			SoundEnabled:         d.Settings.SoundEnabled,
			NotificationsEnabled: d.Settings.NotificationsEnabled,
			Theme:                string(d.Settings.Theme),
			FocusMinutes:         d.Settings.FocusMinutes,
		},
		Count:    len(d.Sessions),
		Sessions: make([]sessionRecord, 0, len(d.Sessions)),
	}
	if d.Profile.Name != nil {
		doc.Profile.Name = *d.Profile.Name
	}

	loc := d.loc()
	for _, s := range d.Sessions {
		doc.Sessions = append(doc.Sessions, sessionRecord{
			ID:              s.ID,
			Task:            s.TaskTitle,
			StartedAt:       s.StartedAt.In(loc).Format(time.RFC3339),
			EndedAt:         s.EndedAt.In(loc).Format(time.RFC3339),
			DurationMinutes: s.DurationMinutes,
			Duration:        stats.FormatMinutes(s.DurationMinutes),
			Clarity:         string(s.Clarity),
			Note:            s.Note,
		})
	}
	return doc
}
