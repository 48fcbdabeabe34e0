package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/taskdeck/internal/store"
	"github.com/existflow/taskdeck/internal/sync"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the local cache and overlays",
	Long: `Clear locally stored data. By default both the cached feed and the
overlay annotations are removed; --remote also wipes overlays stored on the
sync server.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().Bool("cache", false, "Clear only the cached feed")
	clearCmd.Flags().Bool("overlays", false, "Clear only the overlay annotations")
	clearCmd.Flags().Bool("remote", false, "Also clear overlays on the sync server")
	clearCmd.Flags().Bool("force", false, "Do not ask for confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	cacheOnly, _ := cmd.Flags().GetBool("cache")
	overlaysOnly, _ := cmd.Flags().GetBool("overlays")
	remote, _ := cmd.Flags().GetBool("remote")
	force, _ := cmd.Flags().GetBool("force")

	clearCache := !overlaysOnly
	clearOverlays := !cacheOnly

	if !force {
		fmt.Print("Are you sure you want to clear data? (y/N): ")
		var response string
		_, _ = fmt.Scanln(&response)
		if strings.ToLower(response) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	st, err := store.OpenDefault()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()

	if clearCache {
		if err := st.ClearCache(ctx); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Println("Cached feed cleared.")
	}

	if clearOverlays {
		if err := st.ClearOverlays(ctx); err != nil {
			return fmt.Errorf("failed to clear overlays: %w", err)
		}
		fmt.Println("Overlays cleared.")
	}

	if remote {
		client, err := sync.NewClient()
		if err != nil {
			return err
		}
		if !client.IsLoggedIn() {
			fmt.Println("Skipping remote clear: not logged in.")
			return nil
		}
		if err := client.ClearRemote(); err != nil {
			return fmt.Errorf("failed to clear remote overlays: %w", err)
		}
		fmt.Println("Remote overlays cleared.")
	}

	return nil
}
