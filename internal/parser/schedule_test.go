package parser

import (
	"testing"
	"time"

	"github.com/balkashynov/remindr/internal/models"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"15/03/2025", "15/03/2025", false},
		{"5/3/2025", "05/03/2025", false},
		{"29/02/2024", "29/02/2024", false},
		{"29/02/2025", "", true},
		{"31/04/2025", "", true},
		{"00/01/2025", "", true},
		{"15/13/2025", "", true},
		{"2025-03-15", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"09:00", "09:00", false},
		{"9:05", "09:05", false},
		{"23:59", "23:59", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"noon", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeTime(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeTime(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSchedule(t *testing.T) {
	at, ok := ParseSchedule("15/03/2025", "09:30")
	if !ok {
		t.Fatal("expected a schedule")
	}
	want := time.Date(2025, time.March, 15, 9, 30, 0, 0, time.Local)
	if !at.Equal(want) {
		t.Errorf("got %v, want %v", at, want)
	}

	missing := []struct{ date, clock string }{
		{"", "09:30"},
		{"15/03/2025", ""},
		{"31/02/2025", "09:30"},
		{"15/03/2025", "9h30"},
	}
	for _, m := range missing {
		if _, ok := ParseSchedule(m.date, m.clock); ok {
			t.Errorf("ParseSchedule(%q, %q) should not yield a schedule", m.date, m.clock)
		}
	}
}

func TestParseDateInput(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.Local)

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"today", "15/03/2025", false},
		{"Tomorrow", "16/03/2025", false},
		{"3 days", "18/03/2025", false},
		{"2w", "29/03/2025", false},
		{"1/4/2025", "01/04/2025", false},
		{"", "", false},
		{"400 days", "", true},
		{"next friday", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDateInput(tt.input, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDateInput(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDateInput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatSchedule(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		d    models.ReminderDetails
		want string
	}{
		{"none", models.ReminderDetails{}, ""},
		{"time only", models.ReminderDetails{Time: "08:00"}, "⏰ 08:00"},
		{"later today", models.ReminderDetails{Date: "15/03/2025", Time: "18:00"}, "🔥 Today 18:00"},
		{"tomorrow", models.ReminderDetails{Date: "16/03/2025"}, "📅 Tomorrow"},
		{"past", models.ReminderDetails{Date: "15/03/2025", Time: "09:00"}, "⚠️ OVERDUE (15/03/2025 09:00)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSchedule(tt.d, now); got != tt.want {
				t.Errorf("FormatSchedule() = %q, want %q", got, tt.want)
			}
		})
	}
}
