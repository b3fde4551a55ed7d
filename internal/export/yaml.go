package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

func WriteYAML(w io.Writer, d *Data) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(d)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
