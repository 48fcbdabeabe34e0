package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/existflow/taskdeck/internal/config"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Configure ClickUp API credentials",
	Long: `Store the ClickUp personal API token and your numeric user id.
The token is read without echo and written to ~/.taskdeck/config.yaml.`,
	RunE: runAuth,
}

func runAuth(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	fmt.Print("API token: ")
	tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(tokenBytes))
	if token == "" {
		return fmt.Errorf("token required")
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("User id (numeric): ")
	userID, _ := reader.ReadString('\n')
	userID = strings.TrimSpace(userID)
	if _, err := strconv.ParseUint(userID, 10, 64); err != nil {
		return fmt.Errorf("user id must be numeric: %w", err)
	}

	cfg.APIToken = token
	cfg.UserID = userID
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println("✅ Credentials saved. Run 'taskdeck refresh' to fetch your tasks.")
	return nil
}
