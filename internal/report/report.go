// Package report renders evaluation results for humans and machines: a JSON
// document for programmatic consumers and a simple PDF summary for handing
// back to the student.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/docugrade/docugrade/internal/evaluate"
	"github.com/docugrade/docugrade/internal/grade"
)

// Report bundles the per-question verdicts with the overall grade.
type Report struct {
	Results []evaluate.Verdict `json:"results"`
	Grade   grade.Summary      `json:"overall_grade"`
}

// WriteJSON writes the report as indented JSON to path, or to stdout when
// path is "-" or empty.
func WriteJSON(r Report, path string) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	b = append(b, '\n')
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(b)
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
