package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/taskdeck/internal/config"
	"github.com/existflow/taskdeck/internal/logger"
	"github.com/existflow/taskdeck/internal/remote"
	"github.com/existflow/taskdeck/internal/store"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the task feed and update the local cache",
	RunE:  runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.HasCredentials() {
		return fmt.Errorf("no API token configured, run 'taskdeck auth' first")
	}

	st, err := store.OpenDefault()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	client := remote.NewClient(cfg.APIToken)

	fmt.Println("🔄 Fetching tasks...")
	teamID, err := client.TeamID(ctx)
	if err != nil {
		return err
	}

	tasks, err := client.FetchTasks(ctx, teamID, cfg.UserID)
	if err != nil {
		return err
	}

	if err := st.CacheTasks(ctx, tasks); err != nil {
		return fmt.Errorf("failed to cache tasks: %w", err)
	}

	logger.Info("Feed refreshed", logger.F("tasks", len(tasks)))
	fmt.Printf("✓ Fetched %d tasks\n", len(tasks))
	return nil
}
