package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/taskdeck/internal/config"
	"github.com/existflow/taskdeck/internal/engine"
	"github.com/existflow/taskdeck/internal/model"
	"github.com/existflow/taskdeck/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list [category]",
	Short: "Print one category of the dashboard",
	Long: `Print the working set for a category (my-action, waiting, backlog,
done, snoozed, people). Defaults to my-action. Uses the locally cached feed;
run 'taskdeck refresh' first to fetch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().String("filter", "", "Case-insensitive substring filter")
	listCmd.Flags().Bool("all-assignees", false, "Include tasks assigned to others")
}

func runList(cmd *cobra.Command, args []string) error {
	category := model.CategoryMyAction
	if len(args) > 0 {
		c, ok := model.ParseCategory(args[0])
		if !ok {
			return fmt.Errorf("unknown category %q", args[0])
		}
		category = c
	}

	filter, _ := cmd.Flags().GetString("filter")
	allAssignees, _ := cmd.Flags().GetBool("all-assignees")

	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

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

	var userID *uint64
	if !allAssignees {
		userID = cfg.NumericUserID()
	}

	set := engine.BuildSet(tasks, overlays, time.Now(), category, userID, filter)
	if len(set) == 0 {
		fmt.Printf("No tasks in %s.\n", category.Label())
		return nil
	}

	fmt.Printf("%s (%d)\n", category.Label(), len(set))
	for _, dt := range set {
		printTaskLine(dt)
	}

	if last, err := st.LastRefresh(ctx); err == nil && !last.IsZero() {
		fmt.Printf("\nFeed refreshed %s\n", last.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func printTaskLine(dt model.DisplayTask) {
	t := dt.Task

	pin := " "
	if dt.Overlay.Pinned {
		pin = "*"
	}

	prio := "--"
	if label := t.PriorityLabel(); label != "" {
		prio = label
	}

	indent := ""
	if t.IsSubtask() {
		indent = "  └ "
	}

	extra := ""
	if dt.Overlay.SnoozedUntil != nil {
		extra = fmt.Sprintf("  (snoozed until %s)", dt.Overlay.SnoozedUntil.Format("2006-01-02"))
	}

	fmt.Printf("%s %-6s %s%s  [%s / %s]%s\n",
		pin, prio, indent, t.Name, t.ListName, strings.ToLower(t.Status), extra)
}
