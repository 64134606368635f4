package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"docharvest/pkg/auth"
	"docharvest/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage AWS credentials for invoice analysis",
	Long: `Manage stored AWS credentials used to call Amazon Textract.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read only)

Never share your credentials or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store an AWS access key securely",
	Long: `Store an AWS access key in the system keychain or an encrypted file.

You will be prompted for:
  - An account name (if not provided)
  - Access key ID
  - Secret access key (hidden)
  - Region (optional, press Enter for the configured one)`,
	Example: `  # Interactive login
  docharvest auth login

  # Login with a name
  docharvest auth login work`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout <name>",
	Short: "Remove stored credentials",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored accounts with masked credential information.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	auth.ShowCredentialGuide()

	if name == "" {
		fmt.Print("Account name: ")
		name = readLine(reader)
	}
	if name == "" {
		return errors.New("account name is required")
	}

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("\n⚠️  Account '%s' already exists. Update credentials? (y/N): ", name)
		if !strings.HasPrefix(strings.ToLower(readLine(reader)), "y") {
			return nil
		}
	}

	fmt.Print("Access key ID: ")
	keyID := readLine(reader)

	fmt.Print("Secret access key: ")
	secret, err := readPassword(reader)
	if err != nil {
		return fmt.Errorf("failed to read secret: %w", err)
	}

	fmt.Print("Region (optional): ")
	region := readLine(reader)

	account := &auth.Account{
		Name:            name,
		AccessKeyID:     keyID,
		SecretAccessKey: secret,
		Region:          region,
		LastModified:    time.Now(),
	}
	if err := account.Validate(); err != nil {
		return err
	}
	if err := manager.Store(account); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	ui.PrintSuccess(fmt.Sprintf("Account saved: %s", name))
	fmt.Printf("\nUse it with:\n  docharvest invoice --account %s\n", name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}
	if err := manager.Delete(args[0]); err != nil {
		return err
	}
	ui.PrintSuccess("Account removed: " + args[0])
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	accounts, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "use 'docharvest auth login' to add one")
		return nil
	}

	ui.PrintHighlight("Stored Accounts")
	fmt.Println()
	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. Name: %s\n", i+1, sanitized.Name)
		fmt.Printf("   Access key: %s\n", sanitized.AccessKeyID)
		fmt.Printf("   Secret: %s\n", sanitized.SecretAccessKey)
		if sanitized.Region != "" {
			fmt.Printf("   Region: %s\n", sanitized.Region)
		}
		if !sanitized.LastModified.IsZero() {
			fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		}
		fmt.Println()
	}
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readPassword reads a secret from stdin without echoing when it is a terminal
func readPassword(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		password, err := term.ReadPassword(fd)
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(password)), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
