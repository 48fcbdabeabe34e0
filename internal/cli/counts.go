package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/taskdeck/internal/engine"
	"github.com/existflow/taskdeck/internal/model"
	"github.com/existflow/taskdeck/internal/store"
)

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Print the per-category task counts",
	RunE:  runCounts,
}

func runCounts(cmd *cobra.Command, args []string) error {
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

	counts := engine.Counts(tasks, overlays, time.Now())
	total := 0
	for _, c := range model.Categories() {
		fmt.Printf("%-10s %d\n", c.Label(), counts[c])
		total += counts[c]
	}
	fmt.Printf("%-10s %d\n", "Total", total)
	return nil
}
