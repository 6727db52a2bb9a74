package parser

import (
	"testing"
	"time"

	"github.com/balkashynov/remindr/internal/models"
)

func TestParseTitle(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name  string
		input string
		want  ParsedReminder
	}{
		{
			name:  "plain title",
			input: "Buy milk",
			want:  ParsedReminder{Title: "Buy milk"},
		},
		{
			name:  "full syntax",
			input: "Call mom #family @personal +high ! due:tomorrow at:18:30",
			want: ParsedReminder{
				Title:    "Call mom",
				Tag:      "family",
				List:     "personal",
				Priority: models.PriorityHigh,
				Flagged:  true,
				Date:     "16/03/2025",
				Time:     "18:30",
			},
		},
		{
			name:  "url keeps its fragment",
			input: "Read https://example.com/page#section later",
			want:  ParsedReminder{Title: "Read later", URL: "https://example.com/page#section"},
		},
		{
			name:  "explicit flag word",
			input: "Pay rent !flag",
			want:  ParsedReminder{Title: "Pay rent", Flagged: true},
		},
		{
			name:  "numeric priority",
			input: "Stretch +1",
			want:  ParsedReminder{Title: "Stretch", Priority: models.PriorityLow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTitle(tt.input, now)
			if len(got.Errors) > 0 {
				t.Fatalf("unexpected errors: %v", got.Errors)
			}
			if got.Title != tt.want.Title || got.Tag != tt.want.Tag || got.List != tt.want.List ||
				got.Priority != tt.want.Priority || got.Flagged != tt.want.Flagged ||
				got.Date != tt.want.Date || got.Time != tt.want.Time || got.URL != tt.want.URL {
				t.Errorf("ParseTitle(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTitleErrors(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.Local)

	tests := []string{
		"Thing +urgent",
		"Thing due:31/02/2025",
		"Thing at:25:00",
		"Thing #one #two",
	}

	for _, input := range tests {
		if got := ParseTitle(input, now); len(got.Errors) == 0 {
			t.Errorf("ParseTitle(%q) should report an error", input)
		}
	}
}

func TestNormalizePriority(t *testing.T) {
	tests := map[string]string{
		"":       models.PriorityNone,
		"none":   models.PriorityNone,
		"LOW":    models.PriorityLow,
		"med":    models.PriorityMedium,
		"2":      models.PriorityMedium,
		"high":   models.PriorityHigh,
		"3":      models.PriorityHigh,
		"Medium": models.PriorityMedium,
	}
	for in, want := range tests {
		got, ok := NormalizePriority(in)
		if !ok || got != want {
			t.Errorf("NormalizePriority(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := NormalizePriority("urgent"); ok {
		t.Error("urgent should not be accepted")
	}
}
