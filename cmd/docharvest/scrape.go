package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"docharvest/pkg/browser"
	"docharvest/pkg/export"
	"docharvest/pkg/scraper"
	"docharvest/pkg/storage"
	"docharvest/pkg/ui"
)

var (
	// Scrape command flags
	scrapeMinPosts int
	scrapeSession  string
	scrapeHeadless bool
	scrapeTimeout  time.Duration
	scrapeOutput   string
	scrapeXLSX     string
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [profile_url]",
	Short: "Collect the recent posts of a profile",
	Long: `Open a profile in Chromium, switch to its activity feed and scroll until
enough posts are loaded, then extract author, date, text, hashtags, links and
engagement counts of every post.

The first run has no saved session: a browser window opens on the login page,
you log in by hand and press Enter in the terminal. The session is saved to
the session file and reused afterwards.`,
	Example: `  # Scrape the profile from the configuration
  docharvest scrape

  # Scrape a given profile and keep at least 25 posts
  docharvest scrape https://www.linkedin.com/in/someone --min-posts 25

  # Also write a spreadsheet
  docharvest scrape https://www.linkedin.com/in/someone --xlsx posts.xlsx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().IntVar(&scrapeMinPosts, "min-posts", 0, "stop scrolling once this many posts are loaded (default 10)")
	scrapeCmd.Flags().StringVar(&scrapeSession, "session", "", "browser storage state file (default session.json)")
	scrapeCmd.Flags().BoolVar(&scrapeHeadless, "headless", false, "run the browser without a window")
	scrapeCmd.Flags().DurationVar(&scrapeTimeout, "timeout", 0, "give up scrolling after this long (default 60s)")
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "output directory")
	scrapeCmd.Flags().StringVar(&scrapeXLSX, "xlsx", "", "also write the posts to this XLSX file")
}

func runScrape(cmd *cobra.Command, args []string) error {
	flags := map[string]interface{}{
		"min-posts": scrapeMinPosts,
		"session":   scrapeSession,
		"timeout":   scrapeTimeout,
		"output":    scrapeOutput,
		"xlsx":      scrapeXLSX,
	}
	if len(args) > 0 {
		flags["profile-url"] = args[0]
	}
	if cmd.Flags().Changed("headless") {
		flags["headless"] = scrapeHeadless
	}

	r, err := startRun("scrape", flags)
	if err != nil {
		return err
	}
	defer r.Close()

	cfg := r.cfg
	if cfg.Scraper.ProfileURL == "" {
		return errors.New("no profile url: pass one as argument or set scraper.profile_url")
	}
	ui.PrintInfo("Profile", cfg.Scraper.ProfileURL)
	ui.PrintInfo("Session", cfg.Scraper.SessionFile)

	ctx := cmd.Context()

	session, err := browser.Launch(ctx, cfg.Scraper, browser.WaitForEnter(os.Stdin, os.Stdout), r.events)
	if err != nil {
		r.notifier().SendError("Scrape failed", err.Error())
		return err
	}
	defer session.Close()

	page, err := session.NewPage()
	if err != nil {
		return err
	}

	progress := r.progress("posts", cfg.Scraper.MinPosts)
	s := scraper.New(page, cfg.Scraper, scraper.WithEvents(r.events), scraper.WithLogger(r.log))

	report, err := s.Run(ctx, cfg.Scraper.ProfileURL)
	if err != nil {
		r.log.WithError(err).Error("Scrape failed")
		r.notifier().SendError("Scrape failed", err.Error())
		return err
	}
	if progress != nil {
		progress.SetTotal(len(report.Posts))
	}

	store, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		return err
	}
	store.WithEvents(r.events)

	path, err := store.SaveJSON(cfg.Output.PostsFile, report)
	if err != nil {
		return fmt.Errorf("save posts: %w", err)
	}

	if cfg.Output.XLSXFile != "" {
		data, err := export.PostsXLSX(report)
		if err != nil {
			return err
		}
		if _, err := store.WriteFile(cfg.Output.XLSXFile, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("save spreadsheet: %w", err)
		}
	}

	summary := fmt.Sprintf("%d posts saved to %s", report.TotalPosts, path)
	if progress != nil {
		progress.Complete(summary)
	}
	r.notifier().SendSuccess("Scrape complete", summary)
	return nil
}
