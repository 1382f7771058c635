package models

import (
	"fmt"
	"strings"
)

// LabelTable names a reference table.
type LabelTable string

const (
	CategoriesTable LabelTable = "categories"
	FocusAreasTable LabelTable = "focus_areas"
)

func (t LabelTable) String() string { return string(t) }

// Validate rejects anything but the two known reference tables.
// Stores interpolate the table name into queries, so this guards them.
func (t LabelTable) Validate() error {
	switch t {
	case CategoriesTable, FocusAreasTable:
		return nil
	default:
		return fmt.Errorf("unknown label table %q", string(t))
	}
}

// ReferenceLabel is a row of a reference table. Name is unique within its table.
type ReferenceLabel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// JunctionRow associates a content item with a focus area.
type JunctionRow struct {
	ContentID   string `json:"content_id"`
	FocusAreaID string `json:"focus_area_id"`
}

// UniqueNames trims names, drops blanks and collapses duplicates, keeping first-seen order.
func UniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// LabelNames extracts the names of labels in order.
func LabelNames(labels []ReferenceLabel) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return names
}
