package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/remindr/internal/models"
)

// Layouts reminders are stored in
const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04"
)

var (
	dateRegex     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	clockRegex    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	relativeRegex = regexp.MustCompile(`^(\d+)\s*(day|days|d|week|weeks|w)$`)
)

// ParseDate parses a dd/mm/yyyy string into local midnight of that day.
// Days that do not exist in the month (31/02) are rejected.
func ParseDate(input string) (time.Time, error) {
	matches := dateRegex.FindStringSubmatch(strings.TrimSpace(input))
	if len(matches) != 4 {
		return time.Time{}, fmt.Errorf("invalid date format. Use: dd/mm/yyyy")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 1 {
		return time.Time{}, fmt.Errorf("invalid year")
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)

	// time.Date normalises overflow, so a round trip catches 30/02 and friends
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date")
	}

	return date, nil
}

// ParseClock parses a 24h HH:MM string
func ParseClock(input string) (hour, minute int, err error) {
	matches := clockRegex.FindStringSubmatch(strings.TrimSpace(input))
	if len(matches) != 3 {
		return 0, 0, fmt.Errorf("invalid time format. Use: HH:MM (24h)")
	}

	hour, _ = strconv.Atoi(matches[1])
	minute, _ = strconv.Atoi(matches[2])

	if hour > 23 {
		return 0, 0, fmt.Errorf("hour must be between 0 and 23")
	}
	if minute > 59 {
		return 0, 0, fmt.Errorf("minute must be between 0 and 59")
	}

	return hour, minute, nil
}

// ParseSchedule combines a reminder's date and time into a local instant.
// ok is false when either part is missing or malformed.
func ParseSchedule(date, clock string) (at time.Time, ok bool) {
	if date == "" || clock == "" {
		return time.Time{}, false
	}

	day, err := ParseDate(date)
	if err != nil {
		return time.Time{}, false
	}
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.Local), true
}

// ScheduleOf is ParseSchedule applied to a reminder's details
func ScheduleOf(d models.ReminderDetails) (time.Time, bool) {
	return ParseSchedule(d.Date, d.Time)
}

// NormalizeDate returns the zero-padded dd/mm/yyyy form of a valid date
func NormalizeDate(input string) (string, error) {
	date, err := ParseDate(input)
	if err != nil {
		return "", err
	}
	return date.Format(DateLayout), nil
}

// NormalizeTime returns the zero-padded HH:MM form of a valid time
func NormalizeTime(input string) (string, error) {
	hour, minute, err := ParseClock(input)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// ParseDateInput accepts what a user types for a date and returns the stored form.
// Supported formats:
// - dd/mm/yyyy (e.g., "15/12/2025")
// - today, tomorrow
// - X days / X weeks (e.g., "3 days", "2w")
func ParseDateInput(input string, now time.Time) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", nil
	}

	switch input {
	case "today":
		return now.Format(DateLayout), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(DateLayout), nil
	}

	if normalized, err := NormalizeDate(input); err == nil {
		return normalized, nil
	}

	matches := relativeRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return "", fmt.Errorf("invalid date format. Use: dd/mm/yyyy, today, tomorrow, X days or X weeks")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return "", fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "day", "days", "d":
		if amount > 365 {
			return "", fmt.Errorf("days must be between 0 and 365")
		}
		return now.AddDate(0, 0, amount).Format(DateLayout), nil
	default:
		if amount > 52 {
			return "", fmt.Errorf("weeks must be between 0 and 52")
		}
		return now.AddDate(0, 0, amount*7).Format(DateLayout), nil
	}
}

// FormatSchedule formats a reminder's date and time for display
func FormatSchedule(d models.ReminderDetails, now time.Time) string {
	if !d.HasSchedule() {
		return ""
	}

	if d.Date == "" {
		return "⏰ " + d.Time
	}

	day, err := ParseDate(d.Date)
	if err != nil {
		// Stored as-is by an older writer, show it untouched
		return strings.TrimSpace(d.Date + " " + d.Time)
	}

	suffix := ""
	if d.Time != "" {
		suffix = " " + d.Time
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daysDiff := int(math.Round(day.Sub(today).Hours() / 24))

	if at, ok := ParseSchedule(d.Date, d.Time); ok && !at.After(now) {
		return fmt.Sprintf("⚠️ OVERDUE (%s%s)", d.Date, suffix)
	}

	switch {
	case daysDiff < 0:
		return fmt.Sprintf("⚠️ OVERDUE (%s%s)", d.Date, suffix)
	case daysDiff == 0:
		return fmt.Sprintf("🔥 Today%s", suffix)
	case daysDiff == 1:
		return fmt.Sprintf("📅 Tomorrow%s", suffix)
	case daysDiff <= 7:
		return fmt.Sprintf("📅 %s%s (in %d days)", d.Date, suffix, daysDiff)
	default:
		return fmt.Sprintf("📅 %s%s", d.Date, suffix)
	}
}
