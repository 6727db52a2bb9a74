package tui

// Color constants for the remindr TUI theme
const (
	// Base Colors
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Titles, user input
	ColorSecondaryText = "#B1B8C7" // Schedules, empty states
	ColorDisabledText  = "#6D7383" // Completed reminders
	ColorPlaceholder   = "#B1B8C7"
	ColorHelpText      = "240" // Dark grey for help text and counts

	// Accent Colors
	ColorAccentMain   = "#7C3AED" // Focused pane borders
	ColorAccentBright = "#A78BFA" // Selection marker, tags

	// State Colors
	ColorError   = "#EF4444" // Overdue schedules, failures
	ColorSuccess = "#22C55E" // Completed checkmarks, confirmations
	ColorWarning = "#F59E0B" // Flags
)
