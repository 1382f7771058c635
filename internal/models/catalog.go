package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ContentTypes are the content type options offered by the editor.
var ContentTypes = []string{"Audio", "Video", "Reading", "Exercise", "Collection"}

// DefaultCategories seed the categories table on a fresh store.
var DefaultCategories = []string{
	"Balance",
	"Communication",
	"Empowerment",
	"Performance",
	"Presence",
	"Purpose",
}

// DefaultFocusAreas seed the focus_areas table on a fresh store.
var DefaultFocusAreas = []string{
	"Appreciation",
	"Authenticity",
	"Centeredness",
	"Collaboration",
	"Communication",
	"Conflict Management",
	"Delegation",
	"Emotional Intelligence",
	"Emotional Regulation",
	"Feedback",
	"Goal Setting",
	"Growth Mindset",
	"Mindfulness",
	"Motivation",
	"Problem Solving",
	"Resilience",
	"Time Management",
	"Values",
	"Vision",
}

// Catalog lists the options for the editor's select inputs.
type Catalog struct {
	ContentTypes []string `json:"contentTypes"`
	Categories   []string `json:"categories"`
	FocusAreas   []string `json:"focusAreas"`
}

// NormalizeContentType is the write-side transform: "Audio" is stored as "audio".
func NormalizeContentType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DisplayContentType is the read-side transform: "audio" is shown as "Audio".
func DisplayContentType(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Title(language.English).String(s)
}
