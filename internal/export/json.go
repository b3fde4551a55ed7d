package export

import (
	"encoding/json"
	"fmt"
	"io"
)

func WriteJSON(w io.Writer, d *Data) error {
	data, err := json.MarshalIndent(newDocument(d), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
