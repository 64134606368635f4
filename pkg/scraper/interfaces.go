package scraper

import "context"

// FeedPage is the browser tab the scraper drives
type FeedPage interface {
	Goto(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	QueryAll(ctx context.Context, selector string) ([]PostHandle, error)
	// ScrollToBottom scrolls the window by the full document height
	ScrollToBottom(ctx context.Context) error
}

// PostHandle is one post element on a FeedPage
type PostHandle interface {
	ScrollIntoView(ctx context.Context) error
	// OuterHTML returns the element's markup including the element itself
	OuterHTML(ctx context.Context) (string, error)
}
