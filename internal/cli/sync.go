package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/existflow/taskdeck/internal/store"
	"github.com/existflow/taskdeck/internal/sync"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync pin/snooze annotations across devices",
	Long: `Replicate local overlay annotations through a taskdeck-server
account. Overlay payloads are encrypted on this device before upload.`,
}

var syncRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account on the sync server",
	RunE:  runSyncRegister,
}

var syncLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the sync server",
	RunE:  runSyncLogin,
}

var syncLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from the sync server",
	RunE:  runSyncLogout,
}

var syncKeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Set the encryption passphrase for overlay payloads",
	RunE:  runSyncKey,
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync overlays immediately",
	RunE:  runSyncNow,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync server and session status",
	RunE:  runSyncStatus,
}

func init() {
	syncCmd.AddCommand(syncRegisterCmd)
	syncCmd.AddCommand(syncLoginCmd)
	syncCmd.AddCommand(syncLogoutCmd)
	syncCmd.AddCommand(syncKeyCmd)
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncStatusCmd)

	syncCmd.PersistentFlags().String("server", "", "Sync server URL")
	syncLoginCmd.Flags().String("email", "", "Login using a magic link for this email")
	syncLoginCmd.Flags().String("token", "", "Verify a magic link token")
	syncNowCmd.Flags().String("mode", "merge", "Sync mode: merge, pull (wipe local), push")
}

func syncClient(cmd *cobra.Command) (*sync.Client, error) {
	client, err := sync.NewClient()
	if err != nil {
		return nil, err
	}
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		if err := client.SetServer(server); err != nil {
			return nil, err
		}
	}
	return client, nil
}

func runSyncRegister(cmd *cobra.Command, args []string) error {
	client, err := syncClient(cmd)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	password := string(passwordBytes)
	fmt.Println()

	fmt.Print("Confirm Password: ")
	confirmBytes, _ := term.ReadPassword(int(syscall.Stdin))
	confirm := string(confirmBytes)
	fmt.Println()

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println("🔄 Creating account...")
	if err := client.Register(username, email, password); err != nil {
		return err
	}

	fmt.Println("✅ Account created and logged in!")
	fmt.Println("Run 'taskdeck sync key' to set an encryption passphrase.")
	return nil
}

func runSyncLogin(cmd *cobra.Command, args []string) error {
	client, err := syncClient(cmd)
	if err != nil {
		return err
	}

	email, _ := cmd.Flags().GetString("email")
	token, _ := cmd.Flags().GetString("token")

	if token != "" {
		fmt.Println("🔄 Verifying magic link token...")
		if err := client.LoginWithMagicToken(token); err != nil {
			return err
		}
		fmt.Println("✅ Logged in successfully!")
		return nil
	}

	if email != "" {
		fmt.Printf("🔄 Requesting magic link for %s...\n", email)
		devToken, err := client.RequestMagicLink(email)
		if err != nil {
			return err
		}
		fmt.Println("📬 Magic link requested! Check your email (or server logs in dev).")
		if devToken != "" {
			fmt.Printf("🔑 Development token: %s\n", devToken)
		}

		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Enter magic link token: ")
		inputToken, _ := reader.ReadString('\n')
		inputToken = strings.TrimSpace(inputToken)

		if inputToken == "" {
			fmt.Println("❌ Token required.")
			return nil
		}

		fmt.Println("🔄 Verifying magic link...")
		if err := client.LoginWithMagicToken(inputToken); err != nil {
			return err
		}
		fmt.Println("✅ Logged in successfully!")
		return nil
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	password := string(passwordBytes)
	fmt.Println()

	fmt.Println("🔄 Logging in...")
	if err := client.Login(username, password); err != nil {
		return err
	}

	fmt.Println("✅ Logged in successfully!")
	return nil
}

func runSyncLogout(cmd *cobra.Command, args []string) error {
	client, err := sync.NewClient()
	if err != nil {
		return err
	}

	if !client.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	if err := client.Logout(); err != nil {
		return err
	}

	fmt.Println("✅ Logged out successfully.")
	return nil
}

func runSyncKey(cmd *cobra.Command, args []string) error {
	client, err := sync.NewClient()
	if err != nil {
		return err
	}

	fmt.Print("Encryption passphrase: ")
	passBytes, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()

	fmt.Print("Confirm passphrase: ")
	confirmBytes, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()

	if string(passBytes) != string(confirmBytes) {
		return fmt.Errorf("passphrases do not match")
	}
	if len(passBytes) == 0 {
		return fmt.Errorf("passphrase required")
	}

	fingerprint, err := client.GenerateEncryptionKey(string(passBytes))
	if err != nil {
		return err
	}

	fmt.Printf("✅ Encryption key set (fingerprint %s).\n", fingerprint)
	fmt.Println("Use the same passphrase on your other devices.")
	return nil
}

func runSyncNow(cmd *cobra.Command, args []string) error {
	client, err := sync.NewClient()
	if err != nil {
		return err
	}
	if !client.IsLoggedIn() {
		return fmt.Errorf("not logged in, run 'taskdeck sync login' first")
	}

	mode := sync.SyncModeMerge
	switch m, _ := cmd.Flags().GetString("mode"); m {
	case "merge":
	case "pull":
		mode = sync.SyncModeRemoteToLocal
	case "push":
		mode = sync.SyncModeLocalToRemote
	default:
		return fmt.Errorf("unknown sync mode %q", m)
	}

	st, err := store.OpenDefault()
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Println("🔄 Syncing overlays...")
	result, err := client.Sync(st, mode)
	if err != nil {
		return err
	}

	if result.Pushed > 0 || result.Pulled > 0 {
		fmt.Printf("✓ Synced (↑%d ↓%d)\n", result.Pushed, result.Pulled)
	} else {
		fmt.Println("✓ Already up to date")
	}
	return nil
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	client, err := sync.NewClient()
	if err != nil {
		return err
	}

	server, userID, lastSyncAt := client.GetStatus()
	fmt.Printf("Server:    %s\n", server)
	if client.IsLoggedIn() {
		fmt.Printf("Logged in: yes (user %s)\n", userID)
	} else {
		fmt.Println("Logged in: no")
	}
	if lastSyncAt > 0 {
		fmt.Printf("Last sync: %s\n", time.UnixMilli(lastSyncAt).Local().Format("2006-01-02 15:04:05"))
	} else {
		fmt.Println("Last sync: never")
	}
	if client.CanAutoSync() {
		fmt.Println("Auto-sync: ready")
	} else {
		fmt.Println("Auto-sync: unavailable (login and set a key first)")
	}
	return nil
}
