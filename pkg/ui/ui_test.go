package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleQuietKeepsWarningsAndErrors(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, true)

	c.Info("Profile", "https://example.com")
	c.Success("done")
	c.Highlight("[RUN]")
	c.Logo()
	assert.Empty(t, buf.String())

	c.Warning("slow page")
	c.Error("fetch failed", errors.New("throttled"))
	assert.Equal(t, "slow page\nfetch failed: throttled\n", buf.String())
}

func TestConsoleInfo(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)

	c.Info("Pages", "2")
	c.Printf("%d items\n", 3)
	assert.Equal(t, "Pages: 2\n3 items\n", buf.String())
}

type recordingSender struct {
	titles []string
}

func (r *recordingSender) Send(title, message string) error {
	r.titles = append(r.titles, title)
	return errors.New("no display")
}

func TestNotifier(t *testing.T) {
	var buf bytes.Buffer
	sender := &recordingSender{}
	n := NewNotifier(NewConsole(&buf, false), false).WithSender(sender)

	n.SendSuccess("Invoice parsed", "3 line items")
	n.SendError("Scrape failed", "timeout")

	assert.Equal(t, []string{"Invoice parsed", "Scrape failed"}, sender.titles)
	assert.Contains(t, buf.String(), "Invoice parsed: 3 line items")
	assert.Contains(t, buf.String(), "Scrape failed: timeout")
}

func TestProgressDisplayFollowsEvents(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressDisplay(NewConsole(&buf, false), "invoice", 2)
	p.now = func() time.Time { return p.start.Add(3 * time.Second) }

	p.Event("INVOICE_PARSING_STARTED", map[string]interface{}{"page_count": 2})
	assert.Empty(t, buf.String(), "unknown events do not redraw")

	p.Event("PAGE_PROCESSING", map[string]interface{}{"page_number": 2})
	assert.Contains(t, buf.String(), "1/2 • page 2")

	p.Event("PAGE_FETCHED", map[string]interface{}{"page_number": 2, "cached": true})
	p.Event("FIELD_EXTRACTION_WARNING", map[string]interface{}{"message": "dangling reference"})
	p.Event("LINE_ITEMS_EXTRACTED", map[string]interface{}{"count": 4})
	p.Complete("parsed FT-118")

	out := buf.String()
	assert.Contains(t, out, "⚠ FIELD_EXTRACTION_WARNING: dangling reference\n")
	assert.Contains(t, out, "2/2 • 4 line items")
	require.True(t, strings.HasSuffix(out, "✓ parsed FT-118 in 3s • 1 cached • 1 warnings\n"), out)
}

func TestProgressDisplayCountsPostsWithoutTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressDisplay(NewConsole(&buf, false), "posts", 0)

	p.Event("SCROLL_MORE", map[string]interface{}{"current_posts": 5})
	p.Event("POST_LOADED", map[string]interface{}{"post_id": int64(7), "idx": 0})

	assert.Contains(t, buf.String(), "posts 0 • 5 posts loaded, scrolling")
	assert.Contains(t, buf.String(), "posts 1 • post 7")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "42s", formatDuration(42*time.Second))
	assert.Equal(t, "2m5s", formatDuration(125*time.Second))
	assert.Equal(t, "1h1m", formatDuration(61*time.Minute))
}
