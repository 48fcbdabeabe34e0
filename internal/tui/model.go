// Package tui renders the task dashboard: category tabs, the hierarchical
// task list, a detail preview, fuzzy search, and the pin/snooze actions.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/existflow/taskdeck/internal/config"
	"github.com/existflow/taskdeck/internal/engine"
	"github.com/existflow/taskdeck/internal/logger"
	"github.com/existflow/taskdeck/internal/model"
	"github.com/existflow/taskdeck/internal/remote"
	"github.com/existflow/taskdeck/internal/store"
	"github.com/existflow/taskdeck/internal/sync"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneTaskList Pane = iota
	PanePreview
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeSnooze
	ModeHelp
)

// Model is the main TUI model
type Model struct {
	store  *store.Store
	cfg    *config.Config
	remote *remote.Client
	teamID string

	// Feed and overlays, the inputs to every view computation
	tasks    []model.Task
	overlays map[string]model.Overlay

	// Derived view state, rebuilt after every change
	visible []model.DisplayTask
	counts  map[model.Category]int

	// Sync
	syncClient      *sync.Client
	autoSync        *sync.AutoSync
	syncRefreshChan chan struct{}

	// UI state
	width         int
	height        int
	pane          Pane
	mode          Mode
	category      model.Category
	cursor        int
	previewScroll int

	// Input, shared by search and snooze prompts
	input         textinput.Model
	searchResults []model.DisplayTask
	searchCursor  int

	message     string
	refreshing  bool
	lastRefresh time.Time
}

// NewModel creates a new TUI model over the local store and, when an API
// token is configured, the remote feed.
func NewModel(st *store.Store, cfg *config.Config) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		store:    st,
		cfg:      cfg,
		pane:     PaneTaskList,
		mode:     ModeNormal,
		category: model.CategoryMyAction,
		input:    ti,
		overlays: map[string]model.Overlay{},
	}

	if cfg.HasCredentials() {
		m.remote = remote.NewClient(cfg.APIToken)
	}

	// Initialize overlay sync
	sClient, err := sync.NewClient()
	if err == nil && sClient.IsLoggedIn() {
		logger.Info("Sync client initialized and logged in")
		m.syncClient = sClient
		m.autoSync = sync.NewAutoSync(sClient, st)
		m.syncRefreshChan = make(chan struct{}, 1)

		m.autoSync.SetOnPull(func() {
			logger.Debug("Auto-sync pull callback triggered")
			select {
			case m.syncRefreshChan <- struct{}{}:
			default:
			}
		})

		m.autoSync.TriggerSync()
	} else if err != nil {
		logger.Debug("Sync client not initialized", logger.F("error", err))
	}

	m.loadData()
	m.rebuild()
	logger.Debug("TUI model initialized",
		logger.F("tasks", len(m.tasks)),
		logger.F("overlays", len(m.overlays)))
	return m
}

// loadData reloads the cached feed and the overlays from the local store.
func (m *Model) loadData() {
	ctx := context.Background()
	if tasks, err := m.store.CachedTasks(ctx); err == nil {
		m.tasks = tasks
	}
	if overlays, err := m.store.Overlays(ctx); err == nil {
		m.overlays = overlays
	}
	if last, err := m.store.LastRefresh(ctx); err == nil {
		m.lastRefresh = last
	}
}

// rebuild recomputes the working set and the tab counts.
func (m *Model) rebuild() {
	now := time.Now()
	m.visible = engine.BuildSet(m.tasks, m.overlays, now, m.category, m.cfg.NumericUserID(), "")
	m.counts = engine.Counts(m.tasks, m.overlays, now)
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) switchCategory(c model.Category) {
	if c == m.category {
		return
	}
	m.category = c
	m.cursor = 0
	m.previewScroll = 0
	m.rebuild()
}

func (m *Model) cycleCategory(delta int) {
	n := len(model.Categories())
	idx := (m.category.Index() + delta + n) % n
	if c, ok := model.CategoryFromIndex(idx); ok {
		m.switchCategory(c)
	}
}

func (m *Model) currentTask() *model.DisplayTask {
	if m.cursor < len(m.visible) {
		return &m.visible[m.cursor]
	}
	return nil
}
