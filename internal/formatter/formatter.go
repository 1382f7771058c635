// package formatter renders academy content as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/acms/internal/models"
	"github.com/desertthunder/acms/internal/shared"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name case-insensitively; "md" is short for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// RenderSummaries renders a content listing in format.
func RenderSummaries(format Format, summaries []models.ContentSummary) ([]byte, error) {
	switch format {
	case FormatCSV:
		return SummariesToCSV(summaries)
	case FormatMarkdown:
		return SummariesToMarkdown(summaries), nil
	case FormatJSON:
		return ToJSON(summaries, true)
	default:
		return SummariesToText(summaries), nil
	}
}

// RenderRecord renders a single content item in format.
func RenderRecord(format Format, record *models.ContentRecord) ([]byte, error) {
	switch format {
	case FormatCSV:
		return RecordToCSV(record)
	case FormatMarkdown:
		return RecordToMarkdown(record), nil
	case FormatJSON:
		return ToJSON(record, true)
	default:
		return RecordToText(record), nil
	}
}

var summaryHeaders = []string{"ID", "Title", "Type", "Category", "Duration", "Status", "Created"}

func summaryFields(s models.ContentSummary) []string {
	return []string{s.ID, s.Title, s.ContentType, s.Category, s.Duration, StatusString(s.Published), DateString(s.CreatedAt)}
}

// SummariesToCSV writes one row per item under a header row.
func SummariesToCSV(summaries []models.ContentSummary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(summaryHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, s := range summaries {
		if err := writer.Write(summaryFields(s)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RecordToCSV writes the record as a single row, focus areas joined with ";".
func RecordToCSV(record *models.ContentRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Type", "Category", "Focus Areas", "Link", "Thumbnail", "Duration", "Description", "Status", "Created", "Updated"}
	row := []string{
		record.ID,
		record.Title,
		record.ContentType,
		record.Category,
		strings.Join(record.FocusAreas, ";"),
		record.ContentLink,
		record.ThumbnailURL,
		record.Duration,
		record.Description,
		StatusString(record.Published),
		DateString(record.CreatedAt),
		DateString(record.UpdatedAt),
	}

	if err := writer.WriteAll([][]string{headers, row}); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// SummariesToMarkdown renders a table of items.
func SummariesToMarkdown(summaries []models.ContentSummary) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Academy Content\n\n")
	if len(summaries) == 0 {
		buf.WriteString("_No content found._\n")
		return buf.Bytes()
	}

	buf.WriteString("| " + strings.Join(summaryHeaders[1:], " | ") + " |\n")
	buf.WriteString("|" + strings.Repeat(" --- |", len(summaryHeaders)-1) + "\n")
	for _, s := range summaries {
		fields := summaryFields(s)[1:]
		for i, f := range fields {
			fields[i] = markdownCell(f)
		}
		buf.WriteString("| " + strings.Join(fields, " | ") + " |\n")
	}

	return buf.Bytes()
}

// RecordToMarkdown renders one item with its body.
func RecordToMarkdown(record *models.ContentRecord) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", record.Title)

	if record.ThumbnailURL != "" {
		fmt.Fprintf(&buf, "![Thumbnail](%s)\n\n", record.ThumbnailURL)
	}

	fmt.Fprintf(&buf, "**Type**: %s\n", orDash(record.ContentType))
	fmt.Fprintf(&buf, "**Category**: %s\n", orDash(record.Category))
	fmt.Fprintf(&buf, "**Focus Areas**: %s\n", orDash(strings.Join(record.FocusAreas, ", ")))
	if record.Duration != "" {
		fmt.Fprintf(&buf, "**Duration**: %s\n", record.Duration)
	}
	fmt.Fprintf(&buf, "**Status**: %s\n", StatusString(record.Published))
	if record.ContentLink != "" {
		fmt.Fprintf(&buf, "**Link**: %s\n", record.ContentLink)
	}

	if record.Description != "" {
		fmt.Fprintf(&buf, "\n%s\n", record.Description)
	}
	if record.ContentBody != "" {
		fmt.Fprintf(&buf, "\n## Content\n\n%s\n", record.ContentBody)
	}

	return buf.Bytes()
}

// SummariesToText renders a numbered list.
func SummariesToText(summaries []models.ContentSummary) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Content items: %d\n\n", len(summaries))
	for i, s := range summaries {
		fmt.Fprintf(&buf, "%d. %s [%s] %s\n", i+1, s.Title, orDash(s.ContentType), StatusString(s.Published))
		fmt.Fprintf(&buf, "   ID: %s\n", s.ID)
		if s.Category != "" {
			fmt.Fprintf(&buf, "   Category: %s\n", s.Category)
		}
	}

	return buf.Bytes()
}

// RecordToText renders one item as labelled lines.
func RecordToText(record *models.ContentRecord) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Title: %s\n", record.Title)
	fmt.Fprintf(&buf, "ID: %s\n", record.ID)
	fmt.Fprintf(&buf, "Type: %s\n", orDash(record.ContentType))
	fmt.Fprintf(&buf, "Category: %s\n", orDash(record.Category))
	fmt.Fprintf(&buf, "Focus Areas: %s\n", orDash(strings.Join(record.FocusAreas, ", ")))
	fmt.Fprintf(&buf, "Status: %s\n", StatusString(record.Published))
	if record.Duration != "" {
		fmt.Fprintf(&buf, "Duration: %s\n", record.Duration)
	}
	if record.ContentLink != "" {
		fmt.Fprintf(&buf, "Link: %s\n", record.ContentLink)
	}
	fmt.Fprintf(&buf, "Created: %s\n", orDash(DateString(record.CreatedAt)))
	fmt.Fprintf(&buf, "Updated: %s\n", orDash(DateString(record.UpdatedAt)))

	return buf.Bytes()
}

// ToJSON marshals v, indented when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteExport writes rendered output to path.
func WriteExport(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// StatusString describes the published flag the way the dashboard badges it.
func StatusString(published bool) string {
	if published {
		return "published"
	}
	return "draft"
}

// DateString formats a timestamp as YYYY-MM-DD, or "" when unset.
func DateString(ts models.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Time.Format("2006-01-02")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func markdownCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
