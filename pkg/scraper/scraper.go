package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"docharvest/pkg/config"
	"docharvest/pkg/logger"
	"docharvest/pkg/models"
	"docharvest/pkg/retry"
)

// Scrape event names
const (
	EventNavProfile      = "NAV_PROFILE"
	EventNavPostsTab     = "NAV_POSTS_TAB"
	EventScrollMore      = "SCROLL_MORE"
	EventPostLoaded      = "POST_LOADED"
	EventExtractionError = "WARN_EXTRACTION_ERROR"
	EventDateParseFail   = "WARN_DATE_PARSE_FAIL"
)

// WaitFunc pauses for a random duration in [lo, hi]
type WaitFunc func(ctx context.Context, lo, hi time.Duration) error

// Scraper collects the recent posts of a profile from a FeedPage
type Scraper struct {
	page   FeedPage
	cfg    config.ScraperConfig
	events logger.EventSink
	logger logger.Logger
	wait   WaitFunc
	now    func() time.Time
}

// Option configures a Scraper
type Option func(*Scraper)

// WithEvents sets the event sink
func WithEvents(sink logger.EventSink) Option {
	return func(s *Scraper) {
		if sink != nil {
			s.events = sink
		}
	}
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWait replaces the randomized pause
func WithWait(w WaitFunc) Option {
	return func(s *Scraper) {
		if w != nil {
			s.wait = w
		}
	}
}

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(s *Scraper) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a scraper driving page
func New(page FeedPage, cfg config.ScraperConfig, opts ...Option) *Scraper {
	s := &Scraper{
		page:   page,
		cfg:    cfg,
		events: logger.NopEvents(),
		logger: logger.GetLogger(),
		wait:   retry.WaitBetween,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run opens the profile's activity feed, scrolls until at least MinPosts
// posts are loaded or ScrollTimeout elapses, and extracts every loaded post.
// Navigation failures abort the run; a post that cannot be extracted is
// reported and skipped.
func (s *Scraper) Run(ctx context.Context, profileURL string) (*models.PostsReport, error) {
	if profileURL == "" {
		return nil, errors.New("profile url is required")
	}

	s.events.Event(EventNavProfile, map[string]interface{}{"url": profileURL})
	if err := s.page.Goto(ctx, profileURL); err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	if err := s.pause(ctx, s.cfg.Delay); err != nil {
		return nil, err
	}

	if err := s.page.Click(ctx, s.cfg.ActivityLinkSelector); err != nil {
		return nil, fmt.Errorf("open activity tab: %w", err)
	}
	if err := s.pause(ctx, s.cfg.Delay); err != nil {
		return nil, err
	}
	s.events.Event(EventNavPostsTab, nil)
	if err := s.pause(ctx, s.cfg.Delay); err != nil {
		return nil, err
	}

	handles, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := s.extract(ctx, handles)
	if err != nil {
		return nil, err
	}

	s.logger.InfoWithFields("Scrape complete", map[string]interface{}{
		"profile_url": profileURL,
		"loaded":      len(handles),
		"extracted":   len(posts),
	})

	return models.NewPostsReport(profileURL, posts, s.now()), nil
}

// load scrolls the feed until enough posts are present or time runs out
func (s *Scraper) load(ctx context.Context) ([]PostHandle, error) {
	start := s.now()
	for {
		handles, err := s.page.QueryAll(ctx, s.cfg.PostSelector)
		if err != nil {
			return nil, fmt.Errorf("query posts: %w", err)
		}

		for _, h := range handles {
			if err := h.ScrollIntoView(ctx); err != nil {
				s.logger.WithError(err).Debug("scroll into view failed")
			}
			if err := s.pause(ctx, s.cfg.PostDelay); err != nil {
				return nil, err
			}
		}

		if len(handles) >= s.cfg.MinPosts || s.now().Sub(start) > s.cfg.ScrollTimeout {
			return handles, nil
		}

		if err := s.page.ScrollToBottom(ctx); err != nil {
			return nil, fmt.Errorf("scroll feed: %w", err)
		}
		if err := s.pause(ctx, s.cfg.ScrollDelay); err != nil {
			return nil, err
		}
		s.events.Event(EventScrollMore, map[string]interface{}{"current_posts": len(handles)})
	}
}

func (s *Scraper) extract(ctx context.Context, handles []PostHandle) ([]models.Post, error) {
	posts := make([]models.Post, 0, len(handles))
	for idx, h := range handles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		post, err := s.extractOne(ctx, h, idx)
		if err != nil {
			s.events.Event(EventExtractionError, map[string]interface{}{
				"idx":   idx,
				"error": err.Error(),
			})
			continue
		}
		posts = append(posts, post)
		s.events.Event(EventPostLoaded, map[string]interface{}{"post_id": post.PostID, "idx": idx})

		if err := s.pause(ctx, s.cfg.Delay); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (s *Scraper) extractOne(ctx context.Context, h PostHandle, idx int) (models.Post, error) {
	html, err := h.OuterHTML(ctx)
	if err != nil {
		return models.Post{}, fmt.Errorf("read post %d: %w", idx, err)
	}
	post, warnings, err := ParsePost(html, idx, s.now())
	for _, w := range warnings {
		s.events.Event(EventDateParseFail, map[string]interface{}{
			"raw":   w.Subject,
			"error": w.Message,
		})
	}
	return post, err
}

func (s *Scraper) pause(ctx context.Context, r config.DelayRange) error {
	return s.wait(ctx, r.Min, r.Max)
}
