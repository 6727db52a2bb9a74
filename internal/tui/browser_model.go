package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/remindr/internal/app"
	"github.com/balkashynov/remindr/internal/models"
	"github.com/balkashynov/remindr/internal/notify"
	"github.com/balkashynov/remindr/internal/parser"
)

// refreshInterval re-evaluates views so Today and sweep results stay current
const refreshInterval = 30 * time.Second

// Focus represents what UI element has focus
type Focus int

const (
	FocusLists Focus = iota
	FocusReminders
	FocusInput
)

// Service is the part of the application the browser drives
type Service interface {
	Load(ctx context.Context) error
	Overview() app.Overview
	View(listID string, showCompleted bool) ([]models.Reminder, error)
	ResolveList(ref string) (models.List, error)
	CreateReminder(ctx context.Context, in app.ReminderInput) (*models.Reminder, error)
	SetCompleted(ctx context.Context, id string, done bool) (*models.Reminder, error)
	ToggleFlag(ctx context.Context, id string) (*models.Reminder, error)
	DeleteReminder(ctx context.Context, id string) error
	ClearCompleted(ctx context.Context, listID string) (int, error)
	Now() time.Time
}

type deliveryMsg notify.Delivery

type refreshTickMsg struct{}

// reloadMsg refreshes once, after the lifecycle has handled a delivery
type reloadMsg struct{}

// listEntry is one row of the left pane
type listEntry struct {
	summary app.ListSummary
	group   string
}

// BrowserModel shows lists on the left and the selected list's reminders on the right
type BrowserModel struct {
	ctx context.Context
	svc Service

	width  int
	height int

	entries      []listEntry
	selectedList int

	reminders        []models.Reminder
	selectedReminder int

	focus         Focus
	showCompleted bool
	input         textinput.Model

	status    string
	statusErr bool
}

// NewBrowserModel creates the browser over a service
func NewBrowserModel(ctx context.Context, svc Service, showCompleted bool) BrowserModel {
	input := textinput.New()
	input.Width = 60
	input.CharLimit = 300
	input.Placeholder = "Call mom #family @personal +high ! due:tomorrow at:18:30"
	input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	input.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	input.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	m := BrowserModel{
		ctx:           ctx,
		svc:           svc,
		focus:         FocusLists,
		showCompleted: showCompleted,
		input:         input,
	}
	m.reload()
	return m
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

// Init initializes the model
func (m BrowserModel) Init() tea.Cmd {
	return refreshTick()
}

// Update handles messages
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, m.width-20)
		return m, nil

	case refreshTickMsg:
		// other processes may have written since the last tick
		if err := m.svc.Load(m.ctx); err != nil {
			m.setStatus(err.Error(), true)
		}
		m.reload()
		return m, refreshTick()

	case reloadMsg:
		m.reload()
		return m, nil

	case deliveryMsg:
		m.reload()
		m.setStatus("🔔 "+msg.Title, false)
		return m, tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg { return reloadMsg{} })

	case tea.KeyMsg:
		if m.focus == FocusInput {
			return m.handleInputKeys(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "tab":
			if m.focus == FocusLists {
				m.focus = FocusReminders
			} else {
				m.focus = FocusLists
			}
			return m, nil

		case "up", "k":
			return m.moveSelection(-1), nil

		case "down", "j":
			return m.moveSelection(1), nil

		case "c":
			m.showCompleted = !m.showCompleted
			m.reload()
			return m, nil

		case "a":
			m.focus = FocusInput
			m.input.SetValue("")
			return m, m.input.Focus()

		case "x":
			return m.clearCompleted(), nil

		case " ", "enter":
			if m.focus == FocusReminders {
				return m.toggleDone(), nil
			}
			m.focus = FocusReminders
			return m, nil

		case "f":
			if m.focus == FocusReminders {
				return m.toggleFlag(), nil
			}

		case "d":
			if m.focus == FocusReminders {
				return m.deleteSelected(), nil
			}
		}
	}

	return m, nil
}

// handleInputKeys handles key input while quick-adding
func (m BrowserModel) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = FocusReminders
		m.input.Blur()
		return m, nil

	case "enter":
		m = m.quickAdd(m.input.Value())
		m.focus = FocusReminders
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// reload rebuilds both panes from the service, keeping selections in range
func (m *BrowserModel) reload() {
	ov := m.svc.Overview()

	entries := make([]listEntry, 0, len(ov.Smart)+len(ov.Ungrouped))
	for _, s := range ov.Smart {
		entries = append(entries, listEntry{summary: s})
	}
	for _, g := range ov.Groups {
		for _, s := range g.Lists {
			entries = append(entries, listEntry{summary: s, group: g.Name})
		}
	}
	for _, s := range ov.Ungrouped {
		entries = append(entries, listEntry{summary: s})
	}
	m.entries = entries
	m.selectedList = clamp(m.selectedList, len(m.entries))

	m.reminders = nil
	if len(m.entries) > 0 {
		view, err := m.svc.View(m.currentList().ListID, m.showCompleted)
		if err != nil {
			m.setStatus(err.Error(), true)
		}
		m.reminders = view
	}
	m.selectedReminder = clamp(m.selectedReminder, len(m.reminders))
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (m BrowserModel) currentList() models.List {
	if len(m.entries) == 0 {
		return models.List{}
	}
	return m.entries[m.selectedList].summary.List
}

func (m BrowserModel) currentReminder() (models.Reminder, bool) {
	if len(m.reminders) == 0 {
		return models.Reminder{}, false
	}
	return m.reminders[m.selectedReminder], true
}

func (m *BrowserModel) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m BrowserModel) moveSelection(delta int) BrowserModel {
	if m.focus == FocusLists {
		m.selectedList = clamp(m.selectedList+delta, len(m.entries))
		m.selectedReminder = 0
		m.reload()
		return m
	}
	m.selectedReminder = clamp(m.selectedReminder+delta, len(m.reminders))
	return m
}

func (m BrowserModel) toggleDone() BrowserModel {
	rem, ok := m.currentReminder()
	if !ok {
		return m
	}
	if _, err := m.svc.SetCompleted(m.ctx, rem.ID, !rem.Completed()); err != nil {
		m.setStatus(err.Error(), true)
		return m
	}
	m.reload()
	return m
}

func (m BrowserModel) toggleFlag() BrowserModel {
	rem, ok := m.currentReminder()
	if !ok {
		return m
	}
	if _, err := m.svc.ToggleFlag(m.ctx, rem.ID); err != nil {
		m.setStatus(err.Error(), true)
		return m
	}
	m.reload()
	return m
}

func (m BrowserModel) deleteSelected() BrowserModel {
	rem, ok := m.currentReminder()
	if !ok {
		return m
	}
	if err := m.svc.DeleteReminder(m.ctx, rem.ID); err != nil {
		m.setStatus(err.Error(), true)
		return m
	}
	m.setStatus("Deleted "+rem.Title, false)
	m.reload()
	return m
}

func (m BrowserModel) clearCompleted() BrowserModel {
	if len(m.entries) == 0 {
		return m
	}
	removed, err := m.svc.ClearCompleted(m.ctx, m.currentList().ListID)
	if err != nil {
		m.setStatus(err.Error(), true)
	} else {
		m.setStatus(fmt.Sprintf("Cleared %d completed reminder(s)", removed), false)
	}
	m.reload()
	return m
}

// quickAdd creates a reminder from smart syntax. Without @list it goes to
// the selected list, or the first user list when a smart list is selected.
func (m BrowserModel) quickAdd(text string) BrowserModel {
	if strings.TrimSpace(text) == "" {
		return m
	}

	parsed := parser.ParseTitle(text, m.svc.Now())
	if len(parsed.Errors) > 0 {
		m.setStatus(strings.Join(parsed.Errors, ", "), true)
		return m
	}

	listID, err := m.targetList(parsed.List)
	if err != nil {
		m.setStatus(err.Error(), true)
		return m
	}

	rem, err := m.svc.CreateReminder(m.ctx, app.ReminderInput{
		Title:    parsed.Title,
		ListID:   listID,
		Tag:      parsed.Tag,
		Priority: parsed.Priority,
		Flagged:  parsed.Flagged,
		Date:     parsed.Date,
		Time:     parsed.Time,
		URL:      parsed.URL,
	})
	if err != nil {
		m.setStatus(err.Error(), true)
		return m
	}

	m.setStatus("Added "+rem.Title, false)
	m.reload()
	return m
}

func (m BrowserModel) targetList(ref string) (string, error) {
	if ref != "" {
		list, err := m.svc.ResolveList(ref)
		if err != nil {
			return "", err
		}
		return list.ListID, nil
	}

	if current := m.currentList(); current.ListID != "" && !current.SmartList {
		return current.ListID, nil
	}
	for _, e := range m.entries {
		if !e.summary.SmartList {
			return e.summary.ListID, nil
		}
	}
	return "", errors.New("create a list first: remindr list add <name>")
}

// View renders the TUI
func (m BrowserModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 35 / 100
	rightWidth := m.width - leftWidth - 5

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderLists(leftWidth),
		" ",
		m.renderReminders(rightWidth),
	)

	var bottom string
	if m.focus == FocusInput {
		bottom = m.renderInputBar()
	} else {
		bottom = m.renderHelpBar()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		content,
		m.renderStatus(),
		bottom,
	)
}

func (m BrowserModel) paneStyle(width int, focused bool) lipgloss.Style {
	border := ColorBorder
	if focused {
		border = ColorAccentMain
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(width)
}

// renderLists renders the left pane with smart lists, groups and lists
func (m BrowserModel) renderLists(width int) string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	groupStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true)
	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText))

	b.WriteString(headerStyle.Render("Lists"))
	b.WriteString("\n\n")

	lastGroup := ""
	for i, e := range m.entries {
		if e.group != "" && e.group != lastGroup {
			b.WriteString(groupStyle.Render("▾ " + e.group))
			b.WriteString("\n")
		}
		if i > 0 && !e.summary.SmartList && m.entries[i-1].summary.SmartList {
			b.WriteString("\n")
		}
		lastGroup = e.group

		indent := " "
		if e.group != "" {
			indent = "   "
		}

		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(e.summary.Color)).Render("●")
		name := truncate(e.summary.Name, width-12)
		row := fmt.Sprintf("%s%s %s %s", indent, dot, name, countStyle.Render(fmt.Sprintf("%d", e.summary.Count)))

		if i == m.selectedList {
			row = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Render("›") + row[1:]
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	return m.paneStyle(width, m.focus == FocusLists).Render(b.String())
}

// renderReminders renders the right pane with the selected list's reminders
func (m BrowserModel) renderReminders(width int) string {
	var b strings.Builder

	list := m.currentList()
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(list.Color))
	b.WriteString(headerStyle.Render(list.Name))
	if m.showCompleted {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).Render("  (showing completed)"))
	}
	b.WriteString("\n\n")

	if len(m.reminders) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true)
		b.WriteString(emptyStyle.Render("No reminders"))
		return m.paneStyle(width, m.focus == FocusReminders).Render(b.String())
	}

	now := m.svc.Now()
	visible := max(3, m.height-10)
	start := 0
	if m.selectedReminder >= visible {
		start = m.selectedReminder - visible + 1
	}
	end := min(start+visible, len(m.reminders))

	for i := start; i < end; i++ {
		b.WriteString(m.renderReminderRow(m.reminders[i], i == m.selectedReminder, width, now))
		b.WriteString("\n")
	}

	if end-start < len(m.reminders) {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).
			Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(m.reminders))))
	}

	return m.paneStyle(width, m.focus == FocusReminders).Render(b.String())
}

func (m BrowserModel) renderReminderRow(r models.Reminder, selected bool, width int, now time.Time) string {
	check := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render("○")
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	if r.Completed() {
		check = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render("●")
		titleStyle = titleStyle.Foreground(lipgloss.Color(ColorDisabledText)).Strikethrough(true)
	}

	title := r.Title
	if marks := r.Details.PriorityMarks(); marks != "" {
		title = marks + " " + title
	}

	var extras []string
	if when := parser.FormatSchedule(r.Details, now); when != "" {
		color := ColorSecondaryText
		if at, ok := parser.ScheduleOf(r.Details); ok && at.Before(now) && !r.Completed() {
			color = ColorError
		}
		extras = append(extras, lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(when))
	}
	if r.Details.Tag != "" {
		extras = append(extras, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render("#"+r.Details.Tag))
	}
	if r.Details.Flagged {
		extras = append(extras, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render("⚑"))
	}

	row := fmt.Sprintf("%s %s", check, titleStyle.Render(truncate(title, width-6)))
	if len(extras) > 0 {
		row += "\n    " + strings.Join(extras, "  ")
	}

	if selected && m.focus == FocusReminders {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorAccentMain)).
			Padding(0, 1).
			Render(row)
	}
	if selected {
		return "›" + row
	}
	return " " + row
}

func (m BrowserModel) renderStatus() string {
	if m.status == "" {
		return ""
	}
	color := ColorSuccess
	if m.statusErr {
		color = ColorError
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Padding(0, 1).Render(m.status)
}

// renderInputBar renders the quick-add prompt
func (m BrowserModel) renderInputBar() string {
	barStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Background(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		Width(m.width - 2)
	return barStyle.Render("New: " + m.input.View())
}

// renderHelpBar renders the help bar with hotkey hints
func (m BrowserModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	helpText := "tab pane · ↑/↓ nav · space done · f flag · d delete · a add · c completed · x clear · q quit"
	return helpStyle.Render(helpText)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width < 4 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
