package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/balkashynov/remindr/internal/app"
	"github.com/balkashynov/remindr/internal/models"
	"github.com/balkashynov/remindr/internal/parser"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// formatReminderLine renders one reminder row for table output
func formatReminderLine(r models.Reminder, now time.Time) string {
	check := "[ ]"
	if r.Completed() {
		check = "[x]"
	}

	title := r.Title
	if marks := r.Details.PriorityMarks(); marks != "" {
		title = marks + " " + title
	}

	var extras []string
	if r.Details.Tag != "" {
		extras = append(extras, "#"+r.Details.Tag)
	}
	if r.Details.Flagged {
		extras = append(extras, "⚑")
	}
	if when := parser.FormatSchedule(r.Details, now); when != "" {
		extras = append(extras, when)
	}

	return fmt.Sprintf("%s %-8s %-40s %s", check, shortID(r.ID), truncate(title, 40), strings.Join(extras, "  "))
}

func printReminders(reminders []models.Reminder, now time.Time) {
	for _, r := range reminders {
		fmt.Println(formatReminderLine(r, now))
	}
}

func printReminderDetails(r models.Reminder, now time.Time) {
	if r.Note != "" {
		fmt.Printf("  Note: %s\n", r.Note)
	}
	if when := parser.FormatSchedule(r.Details, now); when != "" {
		fmt.Printf("  When: %s\n", when)
	}
	if r.Details.Tag != "" {
		fmt.Printf("  Tag: #%s\n", r.Details.Tag)
	}
	if r.Details.Priority != "" {
		fmt.Printf("  Priority: %s\n", r.Details.Priority)
	}
	if r.Details.Flagged {
		fmt.Println("  Flagged")
	}
	if r.Details.URL != "" {
		fmt.Printf("  URL: %s\n", r.Details.URL)
	}
}

func formatListLine(s app.ListSummary, indent string) string {
	return fmt.Sprintf("%s%-30s %-10s %d", indent, truncate(s.Name, 30), shortID(s.ListID), s.Count)
}
