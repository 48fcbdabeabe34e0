// Package cli wires the cobra command tree: the bare command launches the
// dashboard, subcommands cover scripting and account management.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/existflow/taskdeck/internal/config"
	"github.com/existflow/taskdeck/internal/logger"
	"github.com/existflow/taskdeck/internal/store"
	"github.com/existflow/taskdeck/internal/tui"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "TaskDeck - Terminal dashboard for your ClickUp tasks",
	Long: `TaskDeck is a terminal dashboard over a remote ClickUp task feed.
It groups tasks into action-oriented categories, keeps local pin and snooze
annotations, and can sync those annotations across devices.

Run 'taskdeck' without arguments to launch the interactive dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}

		// Override with CLI flags if provided
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("TaskDeck started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}

		st, err := store.OpenDefault()
		if err != nil {
			logger.Error("Failed to open store", logger.F("error", err))
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer func() {
			_ = st.Close()
			logger.Info("Store closed")
		}()

		logger.Info("Launching TUI")
		m := tui.NewModel(st, cfg)
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("TaskDeck exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(countsCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(clearCmd)
}
