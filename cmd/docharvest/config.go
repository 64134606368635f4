package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"docharvest/pkg/config"
	"docharvest/pkg/invoice"
	"docharvest/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage docharvest configuration files.

Configuration is loaded from, highest priority first:
  - Command line flags
  - Environment variables (DOCHARVEST_*)
  - .env files
  - Configuration file
  - Default values`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as '.docharvest.yaml' in the current directory unless a
different path is given with --config.`,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the configuration after all sources are applied. Secrets are masked.`,
	RunE:  runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration and check it for invalid values, unreadable alias
files and output paths that cannot be created.`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# docharvest configuration
#
# Environment variables prefixed with DOCHARVEST_ override these values,
# for example DOCHARVEST_PROFILE_URL or DOCHARVEST_PAGE_COUNT.

scraper:
  # Profile whose activity feed is scraped
  profile_url: ""
  login_url: "https://www.linkedin.com/login"
  # Browser storage state written after a manual login
  session_file: "session.json"
  # Stop scrolling once this many posts are loaded
  min_posts: 10
  # Give up scrolling after this long
  scroll_timeout: 60s
  headless: false
  viewport_width: 1280
  viewport_height: 720
  # Randomized pauses between browser actions
  delay:
    min: 100ms
    max: 400ms
  post_delay:
    min: 800ms
    max: 1.5s
  scroll_delay:
    min: 1.2s
    max: 2.5s

textract:
  region: "us-east-1"
  # Stored account from 'docharvest auth login'; empty uses the default one
  account: ""
  feature_types: ["TABLES", "FORMS"]
  # Client side rate limit for AnalyzeDocument
  requests_per_second: 1
  burst: 1
  # Reuse responses for identical page content
  cache_responses: true
  cache_dir: ""

invoice:
  # {i} is replaced by the page number starting at 1
  file_pattern: "invoice_page_{i}.png"
  page_count: 2
  # YAML file overriding field labels and column names
  alias_file: ""
  validate_schema: true

retry:
  max_retries: 3
  base_delay: 2s
  max_delay: 60s
  multiplier: 2.0
  jitter_factor: 0.1

output:
  directory: "./output"
  posts_file: "posts.json"
  invoice_file: "invoice.json"
  # Also write a spreadsheet when set
  xlsx_file: ""

logging:
  # debug, info, warn, error
  level: "info"
  # Log file path; empty logs to the console only
  file: ""
  # JSON-lines journal of pipeline events; empty disables it
  event_file: "logs/events.jsonl"
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".docharvest.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s (remove it first to start over)", configPath)
	}
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Set scraper.profile_url or the invoice file pattern")
	fmt.Println("2. Run 'docharvest config validate' to check the configuration")
	fmt.Println("3. Store AWS credentials with 'docharvest auth login'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	display := *cfg
	display.Textract.AccessKeyID = mask(display.Textract.AccessKeyID)
	display.Textract.SecretAccessKey = mask(display.Textract.SecretAccessKey)

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	var problems []error
	var warnings []string

	if cfg.Scraper.ProfileURL == "" {
		warnings = append(warnings, "scraper.profile_url is not set; pass it to 'docharvest scrape'")
	}
	if cfg.Invoice.AliasFile != "" {
		if _, err := invoice.LoadAliases(cfg.Invoice.AliasFile); err != nil {
			problems = append(problems, err)
		}
	}
	if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
		problems = append(problems, fmt.Errorf("cannot create output directory: %w", err))
	}
	for _, f := range []string{cfg.Logging.File, cfg.Logging.EventFile} {
		if f == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f), 0755); err != nil {
			problems = append(problems, fmt.Errorf("cannot create log directory: %w", err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration has errors: %w", errors.Join(problems...))
	}
	for _, w := range warnings {
		ui.PrintWarning(w)
	}

	ui.PrintSuccess("Configuration is valid")
	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Output directory: %s\n", cfg.Output.Directory)
	fmt.Printf("  Invoice pages: %s × %d\n", cfg.Invoice.FilePattern, cfg.Invoice.PageCount)
	fmt.Printf("  Textract: %s, %.2g req/s\n", cfg.Textract.Region, cfg.Textract.RequestsPerSecond)
	fmt.Printf("  Max retries: %d\n", cfg.Retry.MaxRetries)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}

func mask(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) > 8:
		return s[:4] + "..." + s[len(s)-4:]
	default:
		return "***"
	}
}
