// Package scraper collects the recent posts of a social profile.
//
// The Scraper drives a FeedPage (a browser tab, see package browser): it opens
// the profile, switches to the activity feed and scrolls until MinPosts posts
// are loaded or ScrollTimeout elapses. Each loaded post element is then read
// as HTML and parsed with goquery into a models.Post.
//
// Usage:
//
//	s := scraper.New(page, cfg.Scraper, scraper.WithEvents(events))
//	report, err := s.Run(ctx, "https://www.linkedin.com/in/someone")
//	if err != nil {
//	    return err
//	}
//	_, err = store.SaveJSON(cfg.Output.PostsFile, report)
//
// Pacing:
//
// Every step waits a random delay taken from the configured ranges: Delay
// after navigation and between posts, PostDelay after scrolling a post into
// view, ScrollDelay after loading more of the feed.
//
// Dates:
//
// Relative timestamps ("3h", "2mo", "1yr") are resolved against the current
// time; months count as 30 days and years as 365. Absolute dates use the
// "Jan 2, 2006" layout. Unparseable dates are reported as
// WARN_DATE_PARSE_FAIL events and serialized as null.
package scraper
