package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	pw "github.com/playwright-community/playwright-go"

	"docharvest/pkg/config"
	"docharvest/pkg/logger"
)

// Session event names
const (
	EventSessionInit  = "SESSION_INIT"
	EventSessionSaved = "SESSION_SAVED"
)

var installOnce sync.Once

// Session is a running browser with one authenticated context
type Session struct {
	pw      *pw.Playwright
	browser pw.Browser
	context pw.BrowserContext
	log     logger.Logger
}

// Launch starts Chromium and opens a context for the configured session
// file. When the file is missing or empty the user is sent to the login page
// and, once prompt returns, the resulting storage state is saved for later
// runs.
func Launch(ctx context.Context, cfg config.ScraperConfig, prompt Prompt, events logger.EventSink) (*Session, error) {
	if events == nil {
		events = logger.NopEvents()
	}
	log := logger.GetLogger().WithField("component", "browser")

	runtime, err := start(log)
	if err != nil {
		return nil, err
	}

	b, err := runtime.Chromium.Launch(pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(cfg.Headless),
	})
	if err != nil {
		_ = runtime.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	s := &Session{pw: runtime, browser: b, log: log}
	viewport := &pw.Size{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight}

	fresh, err := NeedsLogin(cfg.SessionFile)
	if err != nil {
		s.Close()
		return nil, err
	}

	if fresh {
		if err := s.login(ctx, cfg, viewport, prompt, events); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	}

	bc, err := b.NewContext(pw.BrowserNewContextOptions{
		StorageStatePath: pw.String(cfg.SessionFile),
		Viewport:         viewport,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("restore session %s: %w", cfg.SessionFile, err)
	}
	s.context = bc
	log.WithField("session_file", cfg.SessionFile).Debug("Session restored")
	return s, nil
}

func (s *Session) login(ctx context.Context, cfg config.ScraperConfig, viewport *pw.Size, prompt Prompt, events logger.EventSink) error {
	if prompt == nil {
		return errors.New("no saved session and no way to prompt for login")
	}
	events.Event(EventSessionInit, map[string]interface{}{"file": cfg.SessionFile})

	bc, err := s.browser.NewContext(pw.BrowserNewContextOptions{Viewport: viewport})
	if err != nil {
		return fmt.Errorf("create context: %w", err)
	}
	s.context = bc

	page, err := bc.NewPage()
	if err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	if _, err := page.Goto(cfg.LoginURL); err != nil {
		return fmt.Errorf("open %s: %w", cfg.LoginURL, err)
	}

	if err := prompt(ctx); err != nil {
		return fmt.Errorf("wait for login: %w", err)
	}

	if _, err := bc.StorageState(cfg.SessionFile); err != nil {
		return fmt.Errorf("save session %s: %w", cfg.SessionFile, err)
	}
	events.Event(EventSessionSaved, map[string]interface{}{"file": cfg.SessionFile})
	return nil
}

// NewPage opens a tab in the session's context
func (s *Session) NewPage() (*Page, error) {
	p, err := s.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}
	return &Page{page: p}, nil
}

// Close shuts down the browser and the driver
func (s *Session) Close() {
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.log.WithError(err).Warn("Failed to close browser")
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			s.log.WithError(err).Warn("Failed to stop playwright")
		}
	}
}

// start runs the playwright driver, installing it and Chromium on first failure
func start(log logger.Logger) (*pw.Playwright, error) {
	runtime, err := pw.Run()
	if err == nil {
		return runtime, nil
	}

	var installErr error
	installOnce.Do(func() {
		log.Info("Installing Playwright driver and Chromium (one-time setup)")
		installErr = pw.Install(&pw.RunOptions{Browsers: []string{"chromium"}})
	})
	if installErr != nil {
		return nil, fmt.Errorf("install playwright: %w", installErr)
	}

	runtime, err = pw.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	return runtime, nil
}
