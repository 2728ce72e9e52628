// Package index models the remote election-results index: the counties
// list and the per-county report index that references every precinct's
// scanned report files.
package index

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Work-list eligibility filter: only the signed A3 precinct report at
// the FINAL stage is a verifiable result document.
const (
	FileTypeSignedA3     = "A3SGND"
	ScopePrecinct        = "PRCNCT"
	StageFinal           = "FINAL"
	CategoryPresidential = "PRSD"
)

// County is one entry of the counties list.
type County struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// FileRef is one document reference inside a county index.
type FileRef struct {
	Type            string `json:"type"`
	ScopeCode       string `json:"scope_code"`
	ReportStageCode string `json:"report_stage_code"`
	URL             string `json:"url"`
}

// CountyIndex is the per-county report index, keyed down to the
// per-precinct file lists.
type CountyIndex struct {
	Scopes map[string]struct {
		Categories map[string]struct {
			Files map[string][]FileRef `json:"files"`
		} `json:"categories"`
	} `json:"scopes"`
}

// WorkItem is one eligible precinct document to verify.
type WorkItem struct {
	// ID is the precinct identifier the index keys the document under.
	ID string
	// URL is the document's location, relative to the index base.
	URL string
}

// countiesSchema is the minimal shape the counties endpoint must have
// before its content is trusted.
const countiesSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["code", "name"],
		"properties": {
			"code": {"type": "string", "minLength": 1},
			"name": {"type": "string"}
		}
	}
}`

// countyIndexSchema guards the top-level shape of a county index.
const countyIndexSchema = `{
	"type": "object",
	"required": ["scopes"],
	"properties": {
		"scopes": {"type": "object"}
	}
}`

// ParseCounties validates and decodes the counties list payload.
func ParseCounties(data []byte) ([]County, error) {
	if err := validate(countiesSchema, data); err != nil {
		return nil, fmt.Errorf("counties index: %w", err)
	}
	var counties []County
	if err := json.Unmarshal(data, &counties); err != nil {
		return nil, fmt.Errorf("counties index: %w", err)
	}
	return counties, nil
}

// ParseCountyIndex validates and decodes a county report index payload.
func ParseCountyIndex(data []byte) (*CountyIndex, error) {
	if err := validate(countyIndexSchema, data); err != nil {
		return nil, fmt.Errorf("county index: %w", err)
	}
	var idx CountyIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("county index: %w", err)
	}
	return &idx, nil
}

func validate(schema string, data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("unexpected index shape: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Eligible builds the work list from a county index: one item per
// precinct whose file list carries a signed final A3 precinct report.
// Precincts with no eligible reference are excluded before execution
// begins. Items are sorted by precinct ID so the work list is
// deterministic.
func Eligible(idx *CountyIndex) []WorkItem {
	var items []WorkItem
	scope, ok := idx.Scopes[ScopePrecinct]
	if !ok {
		return nil
	}
	category, ok := scope.Categories[CategoryPresidential]
	if !ok {
		return nil
	}
	for id, refs := range category.Files {
		for _, ref := range refs {
			if ref.Type == FileTypeSignedA3 &&
				ref.ScopeCode == ScopePrecinct &&
				ref.ReportStageCode == StageFinal &&
				ref.URL != "" {
				items = append(items, WorkItem{ID: id, URL: ref.URL})
				break
			}
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}
