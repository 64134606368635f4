package browser

import (
	"context"
	"fmt"

	pw "github.com/playwright-community/playwright-go"

	"docharvest/pkg/scraper"
)

const scrollToBottomJS = "window.scrollBy(0, document.body.scrollHeight)"

// Page adapts a playwright tab to scraper.FeedPage. Playwright calls are not
// context aware, so ctx is only checked before each call.
type Page struct {
	page pw.Page
}

var _ scraper.FeedPage = (*Page)(nil)

func (p *Page) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url)
	return err
}

func (p *Page) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Locator(selector).First().Click()
}

func (p *Page) QueryAll(ctx context.Context, selector string) ([]scraper.PostHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handles, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	out := make([]scraper.PostHandle, len(handles))
	for i, h := range handles {
		out[i] = &element{handle: h}
	}
	return out, nil
}

func (p *Page) ScrollToBottom(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Evaluate(scrollToBottomJS)
	return err
}

// Close closes the tab
func (p *Page) Close() error {
	return p.page.Close()
}

type element struct {
	handle pw.ElementHandle
}

func (e *element) ScrollIntoView(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.handle.ScrollIntoViewIfNeeded()
}

func (e *element) OuterHTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, err := e.handle.Evaluate("el => el.outerHTML")
	if err != nil {
		return "", err
	}
	html, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("outerHTML returned %T", v)
	}
	return html, nil
}
