package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/taskdeck/internal/engine"
	"github.com/existflow/taskdeck/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-search all cached tasks",
	Long: `Rank every cached task against the query. Matching is a fuzzy
subsequence over name, list, status, description and tags.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	st, err := store.OpenDefault()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	tasks, err := st.CachedTasks(ctx)
	if err != nil {
		return err
	}
	overlays, err := st.Overlays(ctx)
	if err != nil {
		return err
	}

	results := engine.Search(tasks, overlays, query)
	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	fmt.Printf("%d matches for %q\n", len(results), query)
	for _, dt := range results {
		printTaskLine(dt)
	}
	return nil
}
