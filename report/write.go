package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/poiesic/corpora/core"
)

// WriteJSON encodes a report as indented JSON.
func WriteJSON(w io.Writer, report *core.CorpusReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteFile writes a report to path, replacing any existing file. The report
// is written to a temporary file first so a crash never leaves a truncated
// report behind.
func WriteFile(path string, report *core.CorpusReport) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteJSON(tmp, report); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace report file: %w", err)
	}
	return nil
}

// ReadFile loads a report written by WriteFile.
func ReadFile(path string) (*core.CorpusReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report core.CorpusReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}
	return &report, nil
}
