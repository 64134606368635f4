// Package cache stores document analysis responses on disk.
//
// Entries are keyed by the SHA-256 of the analyzed file plus the request
// options, so editing a page image or changing the requested features
// produces a new key. Files live in platform-specific data directories
// unless a directory is configured:
//   - Linux: ~/.local/share/docharvest/cache/
//   - macOS: ~/Library/Application Support/docharvest/cache/
//   - Windows: %APPDATA%/docharvest/cache/
//
// Entries are written atomically and carry a version; entries with another
// version are treated as misses.
package cache
