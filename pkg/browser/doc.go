// Package browser runs Chromium through playwright and exposes its tabs as
// scraper.FeedPage values.
//
// Launch reuses the storage state saved in the configured session file. When
// that file is missing or empty it opens the login page instead, waits for
// the user to confirm they have logged in, and saves the new state so later
// runs start authenticated.
package browser
