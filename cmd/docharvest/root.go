package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"docharvest/pkg/config"
	"docharvest/pkg/logger"
	"docharvest/pkg/ui"
)

var (
	// Version information
	version   = "0.3.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
	verbose    bool
	notify     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docharvest",
	Short: "Turn social feeds and scanned invoices into structured JSON",
	Long: `docharvest extracts structured records from two kinds of sources:

  scrape   collects the recent posts of a profile through a real browser
  invoice  analyzes scanned invoice pages with Amazon Textract and
           normalizes them into one invoice record

Results are written as JSON (and optionally XLSX) to the output directory.
Every pipeline step is also appended to a JSON-lines event journal.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			ui.SetQuietMode(true)
		}
		switch cmd.Name() {
		case "scrape", "invoice":
			ui.PrintLogo()
		}
	},
}

// Execute runs the root command and returns the process exit code
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.PrintError("Error", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.docharvest.yaml or ~/.config/docharvest/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except warnings and errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show log lines instead of the progress bar")
	rootCmd.PersistentFlags().BoolVar(&notify, "notify", false, "send a desktop notification when a run finishes")

	rootCmd.SetVersionTemplate(`docharvest {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// run holds what every pipeline command needs: configuration, a logger and
// an event journal tagged with a fresh run id
type run struct {
	cfg     *config.Config
	id      string
	log     logger.Logger
	journal *logger.EventLog
	events  logger.EventSink
	console *ui.Console
}

// startRun loads configuration with flags applied and opens the journal.
// Unless --verbose is set, console logging is limited to warnings and
// events are rendered by a progress display instead.
func startRun(command string, flags map[string]interface{}) (*run, error) {
	if flags == nil {
		flags = map[string]interface{}{}
	}
	switch {
	case logLevel != "":
		flags["log-level"] = logLevel
	case !verbose:
		flags["log-level"] = "warn"
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	id := uuid.NewString()
	log := logger.GetLogger().WithFields(map[string]interface{}{
		"run_id":  id,
		"command": command,
	})

	var mirror logger.Logger = logger.NewNopLogger()
	if verbose {
		mirror = log
	}
	journal, err := logger.NewEventLog(cfg.Logging.EventFile, mirror)
	if err != nil {
		return nil, fmt.Errorf("failed to open event journal: %w", err)
	}
	journal = journal.With(map[string]interface{}{"run_id": id})

	log.DebugWithFields("Run started", map[string]interface{}{
		"config_file": configFile,
		"event_file":  cfg.Logging.EventFile,
	})

	return &run{
		cfg:     cfg,
		id:      id,
		log:     log,
		journal: journal,
		events:  journal,
		console: ui.Default(),
	}, nil
}

// progress attaches a progress display to the run's events and returns it,
// or nil when output is verbose or quiet
func (r *run) progress(label string, total int) *ui.ProgressDisplay {
	if verbose || r.console.Quiet() {
		return nil
	}
	p := ui.NewProgressDisplay(r.console, label, total)
	r.events = logger.Tee(r.journal, p)
	return p
}

func (r *run) notifier() *ui.Notifier {
	return ui.NewNotifier(r.console, notify)
}

func (r *run) Close() {
	if err := r.journal.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close event journal: %v\n", err)
	}
}
