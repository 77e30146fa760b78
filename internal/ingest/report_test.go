// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-atlas/pkg/types"
)

func TestWriteAndReadReport(t *testing.T) {
	stats := types.NewFetchStats()
	stats.TotalFetched = 42
	stats.Verified = 40
	stats.ByYear[2023] = 30
	stats.ByYear[2024] = 12
	stats.ByInstitution["UI"] = 20

	report := Report{
		GeneratedAt: time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC),
		Requested:   500,
		YearFrom:    2020,
		YearTo:      2024,
		Saved:       38,
		Skipped:     4,
		Stats:       stats,
	}

	// Nested path exercises parent directory creation.
	path := filepath.Join(t.TempDir(), "reports", "fetch.yaml")
	require.NoError(t, WriteReport(path, report))

	got, err := ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, report, got)
}

func TestReadReportMissingFile(t *testing.T) {
	_, err := ReadReport(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading fetch report")
}
