package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/balkashynov/remindr/internal/models"
)

// ParsedReminder represents a reminder parsed from quick-add text
type ParsedReminder struct {
	Title    string
	List     string
	Tag      string
	Priority string
	Flagged  bool
	Date     string
	Time     string
	URL      string
	Errors   []string
}

var (
	urlRegex      = regexp.MustCompile(`\bhttps?://\S+`)
	tagRegex      = regexp.MustCompile(`(^|\s)#([\p{L}0-9_-]+)`)
	listRegex     = regexp.MustCompile(`(^|\s)@([\p{L}0-9_-]+)`)
	priorityRegex = regexp.MustCompile(`(^|\s)\+([a-zA-Z0-9]+)`)
	flagRegex     = regexp.MustCompile(`(^|\s)!(flag)?(\s|$)`)
	dueRegex      = regexp.MustCompile(`(^|\s)due:(\S+)`)
	atRegex       = regexp.MustCompile(`(^|\s)at:(\S+)`)
)

// ParseTitle extracts metadata from a reminder title using quick-add syntax
// Syntax: "Call mom #family @personal +high ! due:15/03/2025 at:09:00 https://..."
func ParseTitle(input string, now time.Time) ParsedReminder {
	result := ParsedReminder{
		Title:  input,
		Errors: []string{},
	}

	// URLs first so '#' fragments inside them are not read as tags
	if match := urlRegex.FindString(input); match != "" {
		result.URL = match
		input = urlRegex.ReplaceAllString(input, "")
	}

	// Single tag; the first one wins
	if matches := tagRegex.FindAllStringSubmatch(input, -1); len(matches) > 0 {
		result.Tag = matches[0][2]
		if len(matches) > 1 {
			result.Errors = append(result.Errors, "Only one tag is kept, ignoring the rest")
		}
		input = tagRegex.ReplaceAllString(input, " ")
	}

	if matches := listRegex.FindStringSubmatch(input); len(matches) > 2 {
		result.List = matches[2]
		input = listRegex.ReplaceAllString(input, " ")
	}

	if matches := priorityRegex.FindStringSubmatch(input); len(matches) > 2 {
		if priority, ok := NormalizePriority(matches[2]); ok {
			result.Priority = priority
		} else {
			result.Errors = append(result.Errors, "Invalid priority '"+matches[2]+"'. Use: none, low, medium, high, 1, 2, or 3")
		}
		input = priorityRegex.ReplaceAllString(input, " ")
	}

	if flagRegex.MatchString(input) {
		result.Flagged = true
		input = flagRegex.ReplaceAllString(input, " ")
	}

	if matches := dueRegex.FindStringSubmatch(input); len(matches) > 2 {
		date, err := ParseDateInput(matches[2], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid date '"+matches[2]+"': "+err.Error())
		} else {
			result.Date = date
		}
		input = dueRegex.ReplaceAllString(input, " ")
	}

	if matches := atRegex.FindStringSubmatch(input); len(matches) > 2 {
		clock, err := NormalizeTime(matches[2])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid time '"+matches[2]+"': "+err.Error())
		} else {
			result.Time = clock
		}
		input = atRegex.ReplaceAllString(input, " ")
	}

	// Clean up the title (remove extra spaces)
	result.Title = strings.Join(strings.Fields(input), " ")

	return result
}

// NormalizePriority converts user input to one of the stored priority names
func NormalizePriority(priority string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "", "none", "0":
		return models.PriorityNone, true
	case "low", "1":
		return models.PriorityLow, true
	case "medium", "med", "2":
		return models.PriorityMedium, true
	case "high", "3":
		return models.PriorityHigh, true
	default:
		return "", false
	}
}
