package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for docharvest
type Config struct {
	// Post scraper settings
	Scraper ScraperConfig `yaml:"scraper" json:"scraper"`

	// Document analysis service settings
	Textract TextractConfig `yaml:"textract" json:"textract"`

	// Invoice pipeline settings
	Invoice InvoiceConfig `yaml:"invoice" json:"invoice"`

	// Retry policy for remote calls
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ScraperConfig holds browser and feed scraping configuration
type ScraperConfig struct {
	ProfileURL           string        `yaml:"profile_url" json:"profile_url"`
	LoginURL             string        `yaml:"login_url" json:"login_url"`
	SessionFile          string        `yaml:"session_file" json:"session_file"`
	MinPosts             int           `yaml:"min_posts" json:"min_posts"`
	ScrollTimeout        time.Duration `yaml:"scroll_timeout" json:"scroll_timeout"`
	Headless             bool          `yaml:"headless" json:"headless"`
	ViewportWidth        int           `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight       int           `yaml:"viewport_height" json:"viewport_height"`
	PostSelector         string        `yaml:"post_selector" json:"post_selector"`
	ActivityLinkSelector string        `yaml:"activity_link_selector" json:"activity_link_selector"`
	Delay                DelayRange    `yaml:"delay" json:"delay"`
	PostDelay            DelayRange    `yaml:"post_delay" json:"post_delay"`
	ScrollDelay          DelayRange    `yaml:"scroll_delay" json:"scroll_delay"`
}

// DelayRange is an inclusive range for randomized pauses
type DelayRange struct {
	Min time.Duration `yaml:"min" json:"min"`
	Max time.Duration `yaml:"max" json:"max"`
}

// TextractConfig holds AWS Textract configuration
type TextractConfig struct {
	Region            string   `yaml:"region" json:"region"`
	Account           string   `yaml:"account" json:"account"`
	AccessKeyID       string   `yaml:"access_key_id" json:"access_key_id"`
	SecretAccessKey   string   `yaml:"secret_access_key" json:"-"`
	FeatureTypes      []string `yaml:"feature_types" json:"feature_types"`
	RequestsPerSecond float64  `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int      `yaml:"burst" json:"burst"`
	CacheResponses    bool     `yaml:"cache_responses" json:"cache_responses"`
	CacheDir          string   `yaml:"cache_dir" json:"cache_dir"`
}

// InvoiceConfig holds invoice pipeline configuration
type InvoiceConfig struct {
	// FilePattern is a page path template; {i} is replaced by the 1-based page number
	FilePattern    string `yaml:"file_pattern" json:"file_pattern"`
	PageCount      int    `yaml:"page_count" json:"page_count"`
	AliasFile      string `yaml:"alias_file" json:"alias_file"`
	ValidateSchema bool   `yaml:"validate_schema" json:"validate_schema"`
}

// RetryConfig holds retry configuration for remote calls
type RetryConfig struct {
	MaxRetries   int           `yaml:"max_retries" json:"max_retries"`
	BaseDelay    time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay     time.Duration `yaml:"max_delay" json:"max_delay"`
	Multiplier   float64       `yaml:"multiplier" json:"multiplier"`
	JitterFactor float64       `yaml:"jitter_factor" json:"jitter_factor"`
}

// OutputConfig holds output file configuration
type OutputConfig struct {
	Directory   string `yaml:"directory" json:"directory"`
	PostsFile   string `yaml:"posts_file" json:"posts_file"`
	InvoiceFile string `yaml:"invoice_file" json:"invoice_file"`
	XLSXFile    string `yaml:"xlsx_file" json:"xlsx_file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
	// EventFile receives one JSON object per pipeline event; empty disables it
	EventFile string `yaml:"event_file" json:"event_file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Scraper: ScraperConfig{
			LoginURL:             "https://www.linkedin.com/login",
			SessionFile:          "session.json",
			MinPosts:             10,
			ScrollTimeout:        60 * time.Second,
			Headless:             false,
			ViewportWidth:        1280,
			ViewportHeight:       720,
			PostSelector:         ".AyAfzTZBQSDwpiHasRnjtXFsKCJXamNffNgk",
			ActivityLinkSelector: "a[href*='recent-activity']",
			Delay:                DelayRange{Min: 100 * time.Millisecond, Max: 400 * time.Millisecond},
			PostDelay:            DelayRange{Min: 800 * time.Millisecond, Max: 1500 * time.Millisecond},
			ScrollDelay:          DelayRange{Min: 1200 * time.Millisecond, Max: 2500 * time.Millisecond},
		},
		Textract: TextractConfig{
			Region:            "us-east-1",
			FeatureTypes:      []string{"TABLES", "FORMS"},
			RequestsPerSecond: 1,
			Burst:             1,
			CacheResponses:    true,
		},
		Invoice: InvoiceConfig{
			FilePattern:    "invoice_page_{i}.png",
			PageCount:      2,
			ValidateSchema: true,
		},
		Retry: RetryConfig{
			MaxRetries:   3,
			BaseDelay:    2 * time.Second,
			MaxDelay:     60 * time.Second,
			Multiplier:   2.0,
			JitterFactor: 0.1,
		},
		Output: OutputConfig{
			Directory:   "./output",
			PostsFile:   "posts.json",
			InvoiceFile: "invoice.json",
		},
		Logging: LoggingConfig{
			Level:     "info",
			EventFile: "logs/events.jsonl",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	// Scraper
	if v := os.Getenv("DOCHARVEST_PROFILE_URL"); v != "" {
		c.Scraper.ProfileURL = v
	}
	if v := os.Getenv("DOCHARVEST_SESSION_FILE"); v != "" {
		c.Scraper.SessionFile = v
	}
	if v := os.Getenv("DOCHARVEST_MIN_POSTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("DOCHARVEST_MIN_POSTS: %w", err))
		} else if n > 0 {
			c.Scraper.MinPosts = n
		}
	}
	if v := os.Getenv("DOCHARVEST_HEADLESS"); v != "" {
		c.Scraper.Headless = strings.ToLower(v) == "true"
	}

	// Textract credentials. AWS_KEY_ID/AWS_SECRET_KEY are the historical names.
	if v := firstEnv("DOCHARVEST_AWS_ACCESS_KEY_ID", "AWS_KEY_ID"); v != "" {
		c.Textract.AccessKeyID = v
	}
	if v := firstEnv("DOCHARVEST_AWS_SECRET_ACCESS_KEY", "AWS_SECRET_KEY"); v != "" {
		c.Textract.SecretAccessKey = v
	}
	if v := firstEnv("DOCHARVEST_AWS_REGION", "AWS_REGION"); v != "" {
		c.Textract.Region = v
	}
	if v := os.Getenv("DOCHARVEST_AWS_ACCOUNT"); v != "" {
		c.Textract.Account = v
	}

	// Invoice
	if v := os.Getenv("DOCHARVEST_INVOICE_PATTERN"); v != "" {
		c.Invoice.FilePattern = v
	}
	if v := os.Getenv("DOCHARVEST_PAGE_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("DOCHARVEST_PAGE_COUNT: %w", err))
		} else {
			c.Invoice.PageCount = n
		}
	}
	if v := os.Getenv("DOCHARVEST_ALIAS_FILE"); v != "" {
		c.Invoice.AliasFile = v
	}

	// Retry
	if v := os.Getenv("DOCHARVEST_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("DOCHARVEST_MAX_RETRIES: %w", err))
		} else {
			c.Retry.MaxRetries = n
		}
	}

	// Output directory
	if v := os.Getenv("DOCHARVEST_OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}

	// Logging
	if v := os.Getenv("DOCHARVEST_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DOCHARVEST_EVENT_FILE"); v != "" {
		c.Logging.EventFile = v
	}

	return errors.Join(errs...)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".docharvest.yaml",
		".docharvest.yml",
		filepath.Join(home, ".config", "docharvest", "config.yaml"),
		filepath.Join(home, ".config", "docharvest", "config.yml"),
		filepath.Join(home, ".docharvest.yaml"),
		filepath.Join(home, ".docharvest.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Scraper
	if c.Scraper.MinPosts <= 0 {
		errs = append(errs, errors.New("min posts must be positive"))
	}
	if c.Scraper.ScrollTimeout <= 0 {
		errs = append(errs, errors.New("scroll timeout must be positive"))
	}
	if c.Scraper.PostSelector == "" {
		errs = append(errs, errors.New("post selector is required"))
	}
	if c.Scraper.SessionFile == "" {
		errs = append(errs, errors.New("session file is required"))
	}
	for name, r := range map[string]DelayRange{
		"delay":        c.Scraper.Delay,
		"post delay":   c.Scraper.PostDelay,
		"scroll delay": c.Scraper.ScrollDelay,
	} {
		if r.Min < 0 || r.Max < r.Min {
			errs = append(errs, fmt.Errorf("%s range is invalid: min %s, max %s", name, r.Min, r.Max))
		}
	}

	// Textract
	if c.Textract.Region == "" {
		errs = append(errs, errors.New("textract region is required"))
	}
	if c.Textract.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("requests per second must be positive"))
	}
	if c.Textract.Burst <= 0 {
		errs = append(errs, errors.New("burst must be positive"))
	}
	validFeatures := map[string]bool{"TABLES": true, "FORMS": true, "SIGNATURES": true, "LAYOUT": true}
	for _, f := range c.Textract.FeatureTypes {
		if !validFeatures[strings.ToUpper(f)] {
			errs = append(errs, fmt.Errorf("unsupported feature type %q", f))
		}
	}

	// Invoice
	if c.Invoice.PageCount <= 0 {
		errs = append(errs, errors.New("page count must be positive"))
	}

	// Retry
	if c.Retry.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}
	if c.Retry.BaseDelay < 0 || c.Retry.MaxDelay < c.Retry.BaseDelay {
		errs = append(errs, errors.New("retry delays are invalid"))
	}
	if c.Retry.Multiplier < 1 {
		errs = append(errs, errors.New("retry multiplier must be at least 1"))
	}
	if c.Retry.JitterFactor < 0 || c.Retry.JitterFactor > 1 {
		errs = append(errs, errors.New("jitter factor must be between 0 and 1"))
	}

	// Output
	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	// Logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["profile-url"].(string); ok && v != "" {
		c.Scraper.ProfileURL = v
	}
	if v, ok := flags["session"].(string); ok && v != "" {
		c.Scraper.SessionFile = v
	}
	if v, ok := flags["min-posts"].(int); ok && v > 0 {
		c.Scraper.MinPosts = v
	}
	if v, ok := flags["headless"].(bool); ok {
		c.Scraper.Headless = v
	}
	if v, ok := flags["timeout"].(time.Duration); ok && v > 0 {
		c.Scraper.ScrollTimeout = v
	}
	if v, ok := flags["pattern"].(string); ok && v != "" {
		c.Invoice.FilePattern = v
	}
	if v, ok := flags["pages"].(int); ok && v > 0 {
		c.Invoice.PageCount = v
	}
	if v, ok := flags["aliases"].(string); ok && v != "" {
		c.Invoice.AliasFile = v
	}
	if v, ok := flags["region"].(string); ok && v != "" {
		c.Textract.Region = v
	}
	if v, ok := flags["account"].(string); ok && v != "" {
		c.Textract.Account = v
	}
	if v, ok := flags["no-cache"].(bool); ok && v {
		c.Textract.CacheResponses = false
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.Directory = v
	}
	if v, ok := flags["xlsx"].(string); ok && v != "" {
		c.Output.XLSXFile = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".docharvest.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
