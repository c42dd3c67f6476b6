package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"
)

// Output formats accepted by -o.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ValidateFormat rejects unknown -o values.
func ValidateFormat(format string) error {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

// writeStructured writes v as JSON or YAML. It reports false for the table
// format so the caller renders its own table.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return true, fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return true, err
	}
	return false, nil
}
