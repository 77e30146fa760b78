// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-atlas/pkg/types"
)

// Report is the YAML record written after a fetch run. It captures
// what was requested, what the APIs yielded, and what ended up in the
// store, so runs can be compared over time.
type Report struct {
	GeneratedAt time.Time `yaml:"generated_at"`

	Requested int `yaml:"requested"`
	YearFrom  int `yaml:"year_from"`
	YearTo    int `yaml:"year_to"`

	Saved   int `yaml:"saved"`
	Skipped int `yaml:"skipped"`

	Stats types.FetchStats `yaml:"stats"`
}

// WriteReport writes the report as YAML to path, creating parent
// directories as needed.
func WriteReport(path string, report Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding fetch report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing fetch report: %w", err)
	}
	return nil
}

// ReadReport loads a previously written report from path.
func ReadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("reading fetch report: %w", err)
	}
	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return Report{}, fmt.Errorf("decoding fetch report: %w", err)
	}
	return report, nil
}
