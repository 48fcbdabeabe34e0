package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/taskdeck/internal/model"
)

const previewWidth = 44

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	tabs := m.renderTabs()
	taskList := m.renderTaskList()
	preview := m.renderPreview()
	statusBar := m.renderStatusBar()

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, taskList, preview)

	if m.mode == ModeSearch {
		modal := m.renderSearchModal()
		mainContent = lipgloss.Place(
			m.width, m.height-4,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	if m.mode == ModeHelp {
		mainContent = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabs, mainContent, statusBar)
}

func (m Model) renderTabs() string {
	var parts []string
	for _, c := range model.Categories() {
		label := fmt.Sprintf("%d %s (%d)", c.Index()+1, c.Label(), m.counts[c])
		if c == m.category {
			parts = append(parts, TabActiveStyle.Render(label))
		} else {
			parts = append(parts, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderTaskList() string {
	width := m.width - previewWidth
	if width < 30 {
		width = 30
	}
	height := m.height - 4

	var s string

	if len(m.visible) == 0 {
		s = HelpStyle.Render("  Nothing here. Press 'r' to refresh the feed.")
		return TaskListStyle.Width(width).Height(height).Render(s)
	}

	// Parent links of the visible set, for tree indentation
	parents := make(map[string]string, len(m.visible))
	for _, dt := range m.visible {
		parents[dt.Task.ID] = dt.Task.ParentID
	}

	// Keep the cursor in the window
	top := 0
	if m.cursor >= height {
		top = m.cursor - height + 1
	}

	for i := top; i < len(m.visible) && i-top < height; i++ {
		dt := m.visible[i]

		cursor := "  "
		style := TaskItemStyle
		if i == m.cursor && m.pane == PaneTaskList {
			cursor = "❯ "
			style = TaskItemSelectedStyle
		}

		pin := "  "
		if dt.Overlay.Pinned {
			pin = PinStyle.Render("📌")
		}

		indent := ""
		if depth := visibleDepth(dt.Task.ID, parents); depth > 0 {
			indent = TreeStyle.Render(strings.Repeat("  ", depth-1) + "└ ")
		}

		name := truncate(dt.Task.Name, width-16-len(indent))
		line := style.Render(cursor+name) + " "

		row := pin + FormatPriority(dt.Task.Priority) + " " + indent + line
		if dt.Overlay.SnoozedAt(time.Now()) {
			row = pin + FormatPriority(dt.Task.Priority) + " " + indent + SnoozedStyle.Render(cursor+name)
		}
		s += row + "\n"
	}

	return TaskListStyle.Width(width).Height(height).Render(s)
}

func (m Model) renderPreview() string {
	height := m.height - 4
	style := PreviewStyle
	if m.pane == PanePreview {
		style = PreviewFocusedStyle
	}

	task := m.currentTask()
	if task == nil {
		return style.Width(previewWidth).Height(height).Render(HelpStyle.Render("No task selected"))
	}
	t := task.Task

	innerWidth := previewWidth - 4
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(truncate(t.Name, innerWidth)))
	if t.CustomID != "" {
		lines = append(lines, HelpStyle.Render(t.CustomID))
	}
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Status:   %s", t.Status))
	lines = append(lines, fmt.Sprintf("List:     %s", truncate(t.ListName, innerWidth-10)))
	if label := t.PriorityLabel(); label != "" {
		lines = append(lines, fmt.Sprintf("Priority: %s", label))
	}
	if label := t.TypeLabel(); label != "" {
		lines = append(lines, fmt.Sprintf("Type:     %s", label))
	}
	if t.DueDate != nil {
		lines = append(lines, fmt.Sprintf("Due:      %s", t.DueDate.Format("2006-01-02")))
	}
	if len(t.Tags) > 0 {
		lines = append(lines, fmt.Sprintf("Tags:     %s", truncate(strings.Join(t.Tags, ", "), innerWidth-10)))
	}
	if task.Overlay.SnoozedUntil != nil {
		lines = append(lines, SnoozedStyle.Render(
			fmt.Sprintf("Snoozed until %s", task.Overlay.SnoozedUntil.Format("2006-01-02"))))
	}
	if t.Description != "" {
		lines = append(lines, "", HelpStyle.Render(strings.Repeat("─", innerWidth)))
		lines = append(lines, wrapText(t.Description, innerWidth)...)
	}

	// Apply scroll offset
	offset := m.previewScroll
	if offset > len(lines)-1 {
		offset = len(lines) - 1
	}
	if offset < 0 {
		offset = 0
	}
	lines = lines[offset:]
	if len(lines) > height-2 {
		lines = lines[:height-2]
	}

	return style.Width(previewWidth).Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatusBar() string {
	if m.mode == ModeSnooze {
		return StatusBarStyle.Width(m.width).Render("Snooze for how many days? " + m.input.View())
	}

	help := "1-6:tabs  h/l:cycle  j/k:move  p:pin  s:snooze  S:unsnooze  o:open  /:search  r:refresh  ?:help  q:quit"
	if m.message != "" {
		help = m.message
	}

	right := ""
	if m.refreshing {
		right = "Refreshing..."
	} else if m.autoSync != nil && m.autoSync.IsPending() {
		right = "Syncing..."
	} else if !m.lastRefresh.IsZero() {
		right = "Refreshed " + m.lastRefresh.Format("15:04")
	}

	if right != "" {
		avail := m.width - len(help) - len(right) - 4
		if avail > 0 {
			help += strings.Repeat(" ", avail) + right
		} else {
			help += "  " + right
		}
	}

	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderSearchModal() string {
	modalWidth := 60
	maxResults := 10

	var content string
	content += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Search") + "\n\n"
	content += "/" + m.input.View() + "\n\n"
	content += HelpStyle.Render(strings.Repeat("─", modalWidth-6)) + "\n\n"

	if m.input.Value() == "" {
		content += HelpStyle.Render("Type to search name, list, status, description, tags") + "\n"
	} else if len(m.searchResults) == 0 {
		content += HelpStyle.Render("No matches found") + "\n"
	} else {
		content += fmt.Sprintf("%d matches\n\n", len(m.searchResults))
		for i, dt := range m.searchResults {
			if i >= maxResults {
				content += HelpStyle.Render(fmt.Sprintf("... +%d more", len(m.searchResults)-maxResults)) + "\n"
				break
			}

			marker := "  "
			style := lipgloss.NewStyle()
			if i == m.searchCursor {
				marker = "❯ "
				style = lipgloss.NewStyle().Bold(true).Foreground(Primary)
			}

			line := fmt.Sprintf("%s%s  %s", marker,
				truncate(dt.Task.Name, modalWidth-28), HelpStyle.Render(truncate(dt.Task.ListName, 16)))
			content += style.Render(line) + "\n"
		}
	}

	content += "\n" + HelpStyle.Render("↑↓:nav  Enter:open  Esc:close")

	return ModalStyle.Width(modalWidth).Render(content)
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ────╮
│                           │
│  Navigation               │
│  ──────────               │
│  j/↓    Move down         │
│  k/↑    Move up           │
│  1-6    Jump to tab       │
│  h/l    Cycle tabs        │
│  Tab    Focus preview     │
│                           │
│  Actions                  │
│  ───────                  │
│  p      Toggle pin        │
│  s      Snooze task       │
│  S      Unsnooze task     │
│  o      Open in browser   │
│  /      Search all tasks  │
│  r      Refresh feed      │
│                           │
│  Other                    │
│  ─────                    │
│  ?      Toggle help       │
│  q      Quit              │
│                           │
╰───────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, help)
}
