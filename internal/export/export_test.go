package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/focusos/internal/store"
)

func sampleData() *Data {
	start := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	name := "Ada"

	return &Data{
		ExportedAt: time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
		Profile:    store.User{ID: "user-1", Email: "ada@example.com", Name: &name},
		Settings:   store.DefaultSettings("user-1"),
		Sessions: []store.EndedSession{
			{
				ID:              1,
				TaskTitle:       "Write report",
				StartedAt:       start,
				EndedAt:         start.Add(25 * time.Minute),
				DurationMinutes: 25,
				Clarity:         store.ClarityClear,
				Note:            "flowed",
			},
			{
				ID:              2,
				StartedAt:       start.Add(time.Hour),
				EndedAt:         start.Add(time.Hour + 90*time.Second),
				DurationMinutes: 1.5,
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":      FormatJSON,
		"json":  FormatJSON,
		"CSV":   FormatCSV,
		" yaml": FormatYAML,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestFilename(t *testing.T) {
	at := time.Date(2024, time.March, 15, 12, 30, 0, 0, time.UTC)
	if got := FormatCSV.Filename(at); got != "focusos-export-20240315-123000.csv" {
		t.Fatalf("unexpected filename %q", got)
	}
}

// ============================================================
// CSV
// ============================================================

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleData()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 data rows
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}

	expectedHeader := []string{"ID", "Task", "Started", "Ended", "Minutes", "Clarity", "Note"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "1" || row[1] != "Write report" {
		t.Fatalf("unexpected first row: %v", row)
	}
	if row[2] != "2024-03-15T09:00:00Z" || row[3] != "2024-03-15T09:25:00Z" {
		t.Fatalf("unexpected times: %v", row)
	}
	if row[4] != "25.00" || row[5] != "clear" || row[6] != "flowed" {
		t.Fatalf("unexpected values: %v", row)
	}

	// session without task or reflection
	if records[2][1] != "" || records[2][4] != "1.50" || records[2][5] != "" {
		t.Fatalf("unexpected second row: %v", records[2])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	d := sampleData()
	d.Sessions = nil
	if err := WriteCSV(&buf, d); err != nil {
		t.Fatal(err)
	}
	records, _ := csv.NewReader(&buf).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestWriteCSVSpecialCharacters(t *testing.T) {
	d := sampleData()
	d.Sessions[0].TaskTitle = `Task "Special"`
	d.Sessions[0].Note = `notes with "quotes" and, commas`

	var buf bytes.Buffer
	if err := WriteCSV(&buf, d); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV should be parseable: %v", err)
	}
	if records[1][1] != `Task "Special"` {
		t.Fatalf("task name not preserved: %q", records[1][1])
	}
	if records[1][6] != `notes with "quotes" and, commas` {
		t.Fatalf("notes not preserved: %q", records[1][6])
	}
}

func TestWriteCSVLocation(t *testing.T) {
	d := sampleData()
	d.Location = time.FixedZone("UTC+2", 2*3600)

	var buf bytes.Buffer
	WriteCSV(&buf, d)
	records, _ := csv.NewReader(&buf).ReadAll()
	if records[1][2] != "2024-03-15T11:00:00+02:00" {
		t.Fatalf("expected local time, got %q", records[1][2])
	}
}

// ============================================================
// JSON
// ============================================================

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleData()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var doc document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if doc.ExportedAt != "2024-03-15T12:00:00Z" {
		t.Fatalf("unexpected exported_at %q", doc.ExportedAt)
	}
	if doc.Profile.ID != "user-1" || doc.Profile.Name != "Ada" {
		t.Fatalf("unexpected profile %+v", doc.Profile)
	}
	if doc.Settings.Theme != "light" || doc.Settings.FocusMinutes != 25 {
		t.Fatalf("unexpected settings %+v", doc.Settings)
	}
	if doc.Count != 2 || len(doc.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got count=%d len=%d", doc.Count, len(doc.Sessions))
	}
	if doc.Sessions[1].Duration != "2 min" {
		t.Fatalf("expected rounded duration label, got %q", doc.Sessions[1].Duration)
	}
}

func TestWriteJSONOmitsEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteJSON(&buf, sampleData())

	var raw struct {
		Sessions []map[string]any `json:"sessions"`
	}
	json.Unmarshal(buf.Bytes(), &raw)

	second := raw.Sessions[1]
	for _, key := range []string{"task", "clarity", "note"} {
		if _, ok := second[key]; ok {
			t.Errorf("%s should be omitted when empty", key)
		}
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	d := sampleData()
	d.Sessions = nil

	var buf bytes.Buffer
	if err := WriteJSON(&buf, d); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"sessions": []`) {
		t.Fatalf("sessions should be an empty array, got %s", buf.String())
	}
}

// ============================================================
// YAML
// ============================================================

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, sampleData()); err != nil {
		t.Fatalf("Write yaml: %v", err)
	}

	var doc document
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if doc.Count != 2 || doc.Sessions[0].Task != "Write report" || doc.Sessions[0].Clarity != "clear" {
		t.Fatalf("unexpected document %+v", doc)
	}
	if !strings.Contains(buf.String(), "exported_at:") {
		t.Fatalf("expected snake_case keys, got:\n%s", buf.String())
	}
}
