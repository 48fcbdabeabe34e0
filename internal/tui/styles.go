package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/taskdeck/internal/model"
)

// Color palette based on TUI design
var (
	// Priority colors
	ColorUrgent = lipgloss.Color("#FF6B6B") // P1 - Red
	ColorHigh   = lipgloss.Color("#FFB347") // P2 - Orange
	ColorNormal = lipgloss.Color("#FFE66D") // P3 - Yellow
	ColorLow    = lipgloss.Color("#4ECDC4") // P4 - Teal

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Surface   = lipgloss.Color("#16213e")
	Text      = lipgloss.Color("#FFFFFF")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Pinned    = lipgloss.Color("#FFE66D")
	Snoozed   = lipgloss.Color("#6C757D")
)

// Styles
var (
	TabStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(0, 1)

	TaskListStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TaskItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TaskItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TreeStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	PreviewStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(Border).
			Padding(0, 1)

	PreviewFocusedStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderLeft(true).
				BorderForeground(Primary).
				Padding(0, 1)

	// Priority badges
	PriorityP1Style = lipgloss.NewStyle().Foreground(ColorUrgent).Bold(true)
	PriorityP2Style = lipgloss.NewStyle().Foreground(ColorHigh).Bold(true)
	PriorityP3Style = lipgloss.NewStyle().Foreground(ColorNormal)
	PriorityP4Style = lipgloss.NewStyle().Foreground(ColorLow)
	PriorityNoStyle = lipgloss.NewStyle().Foreground(TextMuted)

	PinStyle     = lipgloss.NewStyle().Foreground(Pinned)
	SnoozedStyle = lipgloss.NewStyle().Foreground(Snoozed)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Search modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// FormatPriority renders a colored priority badge, or a muted dash when
// the task has none.
func FormatPriority(priority *int) string {
	if priority == nil {
		return PriorityNoStyle.Render("--")
	}
	switch *priority {
	case model.PriorityUrgent:
		return PriorityP1Style.Render("P1")
	case model.PriorityHigh:
		return PriorityP2Style.Render("P2")
	case model.PriorityMedium:
		return PriorityP3Style.Render("P3")
	case model.PriorityLow:
		return PriorityP4Style.Render("P4")
	default:
		return PriorityNoStyle.Render("P?")
	}
}
