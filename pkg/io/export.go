package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/statsmith/statsmith/pkg/stats"
)

// WriteJSON encodes a metric set as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip
// processing, fed to shields.io-style badge endpoints, or diffed
// between runs.
func WriteJSON(m *stats.MetricSet, w io.Writer) error {
	if m == nil {
		return fmt.Errorf("nil metric set")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a metric set to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(m *stats.MetricSet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(m, f)
}
