package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{"ID", "Task", "Started", "Ended", "Minutes", "Clarity", "Note"}

// WriteCSV writes one row per session. Profile and settings are not part of
// the CSV form.
func WriteCSV(out io.Writer, d *Data) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	loc := d.loc()
	for _, s := range d.Sessions {
		row := []string{
			fmt.Sprintf("%d", s.ID),
			s.TaskTitle,
			s.StartedAt.In(loc).Format(time.RFC3339),
			s.EndedAt.In(loc).Format(time.RFC3339),
			strconv.FormatFloat(s.DurationMinutes, 'f', 2, 64),
			string(s.Clarity),
			s.Note,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
