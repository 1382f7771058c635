package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

func TestContentType(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, display := range ContentTypes {
			stored := NormalizeContentType(display)
			if stored != toLowerASCII(display) {
				t.Errorf("NormalizeContentType(%q) = %q", display, stored)
			}
			if got := DisplayContentType(stored); got != display {
				t.Errorf("DisplayContentType(%q) = %q, want %q", stored, got, display)
			}
		}
	})

	t.Run("mixed case input", func(t *testing.T) {
		tc := []struct {
			in     string
			stored string
			shown  string
		}{
			{"AUDIO", "audio", "Audio"},
			{"  video ", "video", "Video"},
			{"rEaDiNg", "reading", "Reading"},
			{"", "", ""},
		}

		for _, tt := range tc {
			stored := NormalizeContentType(tt.in)
			if stored != tt.stored {
				t.Errorf("NormalizeContentType(%q) = %q, want %q", tt.in, stored, tt.stored)
			}
			if got := DisplayContentType(stored); got != tt.shown {
				t.Errorf("DisplayContentType(%q) = %q, want %q", stored, got, tt.shown)
			}
		}
	})
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}

func TestTimestamp(t *testing.T) {
	t.Run("zero marshals to empty string", func(t *testing.T) {
		data, err := json.Marshal(Timestamp{})
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != `""` {
			t.Errorf("expected empty string, got %s", data)
		}
	})

	t.Run("empty string and null unmarshal to zero", func(t *testing.T) {
		for _, raw := range []string{`""`, `null`} {
			ts := NewTimestamp(time.Now())
			if err := json.Unmarshal([]byte(raw), &ts); err != nil {
				t.Fatalf("unmarshal %s failed: %v", raw, err)
			}
			if !ts.IsZero() {
				t.Errorf("expected zero timestamp for %s, got %v", raw, ts.Time)
			}
		}
	})

	t.Run("RFC3339 round trip", func(t *testing.T) {
		want := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
		data, err := json.Marshal(NewTimestamp(want))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		var got Timestamp
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got.Time)
		}
	})

	t.Run("invalid string", func(t *testing.T) {
		var ts Timestamp
		if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
			t.Error("expected error for unparseable timestamp")
		}
	})
}

func TestContentRecord(t *testing.T) {
	t.Run("IsPersisted follows createdAt", func(t *testing.T) {
		record := &ContentRecord{ID: "abc"}
		if record.IsPersisted() {
			t.Error("record without createdAt should not be persisted")
		}

		record.CreatedAt = NewTimestamp(time.Now())
		if !record.IsPersisted() {
			t.Error("record with createdAt should be persisted")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := (&ContentRecord{Title: "   "}).Validate(); err != ErrTitleRequired {
			t.Errorf("expected ErrTitleRequired, got %v", err)
		}
		if err := (&ContentRecord{Title: "Intro"}).Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("FocusAreaSet collapses duplicates", func(t *testing.T) {
		record := &ContentRecord{FocusAreas: []string{"Mindfulness", " Resilience", "", "Mindfulness", "Resilience "}}
		got := record.FocusAreaSet()
		if len(got) != 2 || got[0] != "Mindfulness" || got[1] != "Resilience" {
			t.Errorf("unexpected focus area set: %v", got)
		}
	})

	t.Run("ToRow drops names and lowercases type", func(t *testing.T) {
		record := &ContentRecord{
			ID:          "abc",
			ContentType: "Audio",
			Title:       " Intro ",
			Category:    "Balance",
			FocusAreas:  []string{"Mindfulness"},
			Published:   true,
		}

		row := record.ToRow("cat-1")
		if row.CategoryID != "cat-1" {
			t.Errorf("expected category id cat-1, got %s", row.CategoryID)
		}
		if row.CategoryName != "" {
			t.Errorf("category name must not be written, got %s", row.CategoryName)
		}
		if row.ContentType != "audio" {
			t.Errorf("expected stored content type audio, got %s", row.ContentType)
		}
		if row.Title != "Intro" {
			t.Errorf("expected trimmed title, got %q", row.Title)
		}
		if !row.Published {
			t.Error("expected published to carry over")
		}
	})

	t.Run("ToSummary leaves detail fields empty", func(t *testing.T) {
		row := &ContentRow{
			ID:           "abc",
			ContentType:  "video",
			Title:        "Intro",
			CategoryName: "Balance",
			ContentBody:  "body",
			Description:  "desc",
			CreatedAt:    time.Now(),
		}

		summary := row.ToSummary()
		if summary.ContentBody != "" || summary.Description != "" || len(summary.FocusAreas) != 0 {
			t.Errorf("summary should not hydrate detail fields: %+v", summary)
		}
		if summary.ContentType != "Video" {
			t.Errorf("expected display content type Video, got %s", summary.ContentType)
		}
		if summary.Category != "Balance" {
			t.Errorf("expected category Balance, got %s", summary.Category)
		}
	})
}

func TestPageQuery(t *testing.T) {
	tc := []struct {
		name     string
		page     int
		size     int
		wantFrom int
		wantTo   int
	}{
		{"first page", 0, 10, 0, 9},
		{"third page", 2, 10, 20, 29},
		{"negative page clamps", -1, 5, 0, 4},
		{"default size", 1, 0, DefaultPageSize, 2*DefaultPageSize - 1},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			q := PageQuery(tt.page, tt.size, "")
			if q.From != tt.wantFrom || q.To != tt.wantTo {
				t.Errorf("PageQuery(%d, %d) = [%d, %d], want [%d, %d]", tt.page, tt.size, q.From, q.To, tt.wantFrom, tt.wantTo)
			}
			if q.Limit() != q.To-q.From+1 {
				t.Errorf("unexpected limit %d", q.Limit())
			}
		})
	}
}

func TestPageWindowOverflow(t *testing.T) {
	huge := math.MaxInt/20 + 1

	if err := CheckPage(huge, 20); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("CheckPage(%d, 20) error = %v, want ErrPageOutOfRange", huge, err)
	}
	if err := CheckPage(maxPage(20), 20); err != nil {
		t.Errorf("CheckPage(last page) error = %v", err)
	}
	if err := CheckPage(-3, 0); err != nil {
		t.Errorf("CheckPage(-3, 0) error = %v", err)
	}

	q := PageQuery(huge, 20, "")
	if q.From < 0 || q.To < q.From || q.Limit() != 20 {
		t.Errorf("PageQuery(%d, 20) = [%d, %d], want a non-wrapping window", huge, q.From, q.To)
	}
	if q.From != maxPage(20)*20 {
		t.Errorf("PageQuery(%d, 20).From = %d, want clamp to the last page", huge, q.From)
	}
}

func TestLabelTable(t *testing.T) {
	if err := CategoriesTable.Validate(); err != nil {
		t.Errorf("categories should be valid: %v", err)
	}
	if err := FocusAreasTable.Validate(); err != nil {
		t.Errorf("focus_areas should be valid: %v", err)
	}
	if err := LabelTable("users; DROP TABLE users").Validate(); err == nil {
		t.Error("expected error for unknown table")
	}
}
