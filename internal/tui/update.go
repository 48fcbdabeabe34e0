package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/taskdeck/internal/engine"
	"github.com/existflow/taskdeck/internal/logger"
	"github.com/existflow/taskdeck/internal/model"
)

// tickMsg re-evaluates time-dependent state (snooze expiry) periodically
type tickMsg time.Time

// syncRefreshMsg is sent when remote overlay changes are pulled
type syncRefreshMsg struct{}

// refreshDoneMsg carries the result of an async feed fetch
type refreshDoneMsg struct {
	tasks []model.Task
	err   error
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), m.waitForSyncRefresh()}
	if m.cfg.AutoRefresh && m.remote != nil {
		cmds = append(cmds, m.refreshCmd())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Every(30*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForSyncRefresh listens for overlay sync refresh signals
func (m Model) waitForSyncRefresh() tea.Cmd {
	if m.syncRefreshChan == nil {
		return nil
	}
	return func() tea.Msg {
		<-m.syncRefreshChan
		return syncRefreshMsg{}
	}
}

// refreshCmd fetches the feed asynchronously and caches it.
func (m Model) refreshCmd() tea.Cmd {
	client := m.remote
	teamID := m.teamID
	userID := m.cfg.UserID
	st := m.store
	return func() tea.Msg {
		ctx := context.Background()
		if teamID == "" {
			var err error
			teamID, err = client.TeamID(ctx)
			if err != nil {
				return refreshDoneMsg{err: err}
			}
		}
		tasks, err := client.FetchTasks(ctx, teamID, userID)
		if err != nil {
			return refreshDoneMsg{err: err}
		}
		if err := st.CacheTasks(ctx, tasks); err != nil {
			logger.Warn("Failed to cache fetched tasks", logger.F("error", err))
		}
		return refreshDoneMsg{tasks: tasks}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// Snoozes expire on their own; rebuild so tasks surface again.
		m.rebuild()
		return m, tickCmd()

	case syncRefreshMsg:
		m.loadData()
		m.rebuild()
		m.message = "Overlays synced"
		return m, m.waitForSyncRefresh()

	case refreshDoneMsg:
		m.refreshing = false
		if msg.err != nil {
			logger.Error("Feed refresh failed", logger.F("error", msg.err))
			m.message = fmt.Sprintf("Refresh failed: %v", msg.err)
			return m, nil
		}
		m.tasks = msg.tasks
		m.lastRefresh = time.Now()
		m.rebuild()
		m.message = fmt.Sprintf("Fetched %d tasks", len(msg.tasks))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeSnooze:
			return m.updateSnooze(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	switch {
	case key.Matches(msg, keys.Quit):
		if m.autoSync != nil {
			_ = m.autoSync.SyncNowIfPending()
			m.autoSync.Stop()
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Down):
		if m.pane == PanePreview {
			m.previewScroll++
		} else if m.cursor < len(m.visible)-1 {
			m.cursor++
			m.previewScroll = 0
		}

	case key.Matches(msg, keys.Up):
		if m.pane == PanePreview {
			if m.previewScroll > 0 {
				m.previewScroll--
			}
		} else if m.cursor > 0 {
			m.cursor--
			m.previewScroll = 0
		}

	case key.Matches(msg, keys.Pane):
		if m.pane == PaneTaskList {
			m.pane = PanePreview
		} else {
			m.pane = PaneTaskList
		}

	case key.Matches(msg, keys.NextTab):
		m.cycleCategory(1)

	case key.Matches(msg, keys.PrevTab):
		m.cycleCategory(-1)

	case msg.String() >= "1" && msg.String() <= "6" && len(msg.String()) == 1:
		if c, ok := model.CategoryFromIndex(int(msg.String()[0] - '1')); ok {
			m.switchCategory(c)
		}

	case key.Matches(msg, keys.Pin):
		m.handleTogglePin()

	case key.Matches(msg, keys.Snooze):
		return m.startSnooze()

	case key.Matches(msg, keys.Unsnooze):
		m.handleUnsnooze()

	case key.Matches(msg, keys.Open):
		m.handleOpen()

	case key.Matches(msg, keys.Search):
		return m.startSearch()

	case key.Matches(msg, keys.Refresh):
		if m.remote == nil {
			m.message = "No API token configured - run 'taskdeck auth' first"
			return m, nil
		}
		if !m.refreshing {
			m.refreshing = true
			m.message = "Refreshing..."
			return m, m.refreshCmd()
		}

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

func (m *Model) handleTogglePin() {
	task := m.currentTask()
	if task == nil {
		return
	}
	pinned, err := m.store.TogglePin(context.Background(), task.Task.ID)
	if err != nil {
		m.message = fmt.Sprintf("Pin failed: %v", err)
		return
	}
	m.loadData()
	m.rebuild()
	if m.autoSync != nil {
		m.autoSync.TriggerSync()
	}
	if pinned {
		m.message = "Task pinned"
	} else {
		m.message = "Task unpinned"
	}
}

func (m Model) startSnooze() (tea.Model, tea.Cmd) {
	if m.currentTask() == nil {
		return m, nil
	}
	m.mode = ModeSnooze
	m.input.SetValue("")
	m.input.Placeholder = "days"
	m.input.Focus()
	m.message = "Snooze for how many days?"
	return m, textinput.Blink
}

func (m *Model) handleUnsnooze() {
	task := m.currentTask()
	if task == nil {
		return
	}
	if err := m.store.Unsnooze(context.Background(), task.Task.ID); err != nil {
		m.message = fmt.Sprintf("Unsnooze failed: %v", err)
		return
	}
	m.loadData()
	m.rebuild()
	if m.autoSync != nil {
		m.autoSync.TriggerSync()
	}
	m.message = "Task unsnoozed"
}

func (m *Model) handleOpen() {
	task := m.currentTask()
	if task == nil || task.Task.URL == "" {
		return
	}
	if err := openBrowser(task.Task.URL); err != nil {
		m.message = fmt.Sprintf("Failed to open: %v", err)
	} else {
		m.message = "Opened in browser"
	}
}

func (m Model) startSearch() (tea.Model, tea.Cmd) {
	m.mode = ModeSearch
	m.input.SetValue("")
	m.input.Placeholder = "search all tasks..."
	m.input.Focus()
	m.searchResults = nil
	m.searchCursor = 0
	return m, textinput.Blink
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.searchResults = nil
		return m, nil

	case key.Matches(msg, keys.Enter):
		if m.searchCursor < len(m.searchResults) {
			task := m.searchResults[m.searchCursor].Task
			if task.URL != "" {
				if err := openBrowser(task.URL); err != nil {
					m.message = fmt.Sprintf("Failed to open: %v", err)
				}
			}
		}
		m.mode = ModeNormal
		return m, nil

	case msg.String() == "down":
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
		}
		return m, nil

	case msg.String() == "up":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.runSearch()
	return m, cmd
}

func (m *Model) runSearch() {
	m.searchResults = engine.Search(m.tasks, m.overlays, m.input.Value())
	if m.searchCursor >= len(m.searchResults) {
		m.searchCursor = 0
	}
}

func (m Model) updateSnooze(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.message = ""
		return m, nil

	case key.Matches(msg, keys.Enter):
		days, err := strconv.Atoi(m.input.Value())
		if err != nil || days <= 0 {
			m.message = "Invalid number"
			m.mode = ModeNormal
			return m, nil
		}
		task := m.currentTask()
		if task != nil {
			until := time.Now().AddDate(0, 0, days)
			if err := m.store.Snooze(context.Background(), task.Task.ID, until); err != nil {
				m.message = fmt.Sprintf("Snooze failed: %v", err)
			} else {
				m.loadData()
				m.rebuild()
				if m.autoSync != nil {
					m.autoSync.TriggerSync()
				}
				m.message = fmt.Sprintf("Task snoozed for %d days", days)
			}
		}
		m.mode = ModeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
