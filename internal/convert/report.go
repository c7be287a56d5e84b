// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/webp2png/pkg/types"
)

// Report is the machine-readable summary of a run.
type Report struct {
	Input       string             `yaml:"input"`
	GeneratedAt time.Time          `yaml:"generated_at"`
	Converted   int                `yaml:"converted"`
	Skipped     int                `yaml:"skipped"`
	Failed      int                `yaml:"failed"`
	Total       int                `yaml:"total"`
	Files       []types.FileResult `yaml:"files"`
}

// NewReport builds a Report from a finished run.
func NewReport(input string, result BatchResult) Report {
	return Report{
		Input:       input,
		GeneratedAt: time.Now().UTC(),
		Converted:   result.Converted,
		Skipped:     result.Skipped,
		Failed:      result.Failed,
		Total:       result.Total(),
		Files:       result.Files,
	}
}

// WriteReport writes the YAML report for a run to path.
func WriteReport(path, input string, result BatchResult) error {
	data, err := yaml.Marshal(NewReport(input, result))
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
