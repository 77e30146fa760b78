// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import "github.com/pdiddy/research-atlas/pkg/types"

const (
	minTitleLen    = 10
	minAbstractLen = 50
	minYear        = 2000
	maxYear        = 2030
)

// QualityOK reports whether a parsed publication meets the minimum
// content and metadata thresholds: title of at least 10 characters, a
// real abstract of at least 50 characters, at least one author, and a
// year within [2000, 2030]. The conditions are independent; any one
// failing rejects the record.
func QualityOK(pub types.ParsedPublication) bool {
	if len(pub.Title) < minTitleLen {
		return false
	}
	if pub.Abstract == "" || pub.Abstract == types.NoAbstract {
		return false
	}
	if len(pub.Abstract) < minAbstractLen {
		return false
	}
	if len(pub.Authors) == 0 {
		return false
	}
	if pub.Year < minYear || pub.Year > maxYear {
		return false
	}
	return true
}
