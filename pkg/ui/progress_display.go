package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const barWidth = 20

// ProgressDisplay renders pipeline events as a single progress line with
// warnings printed above it. It implements logger.EventSink.
type ProgressDisplay struct {
	mu       sync.Mutex
	console  *Console
	label    string
	total    int
	done     int
	cached   int
	warnings int
	detail   string
	start    time.Time
	now      func() time.Time
	drawn    bool
}

// NewProgressDisplay creates a display for label expecting total units of
// work. A total of 0 shows a counter instead of a bar.
func NewProgressDisplay(console *Console, label string, total int) *ProgressDisplay {
	if console == nil {
		console = std
	}
	return &ProgressDisplay{
		console: console,
		label:   label,
		total:   total,
		start:   time.Now(),
		now:     time.Now,
	}
}

// Event updates the display from a pipeline event
func (p *ProgressDisplay) Event(name string, fields map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case name == "PAGE_PROCESSING":
		if n, ok := fields["page_number"].(int); ok {
			p.done = n - 1
			p.detail = fmt.Sprintf("page %d", n)
		}
	case name == "PAGE_FETCHED":
		if cached, _ := fields["cached"].(bool); cached {
			p.cached++
		}
	case name == "LINE_ITEMS_EXTRACTED":
		p.done = p.total
		if n, ok := fields["count"].(int); ok {
			p.detail = fmt.Sprintf("%d line items", n)
		}
	case name == "SCROLL_MORE":
		if n, ok := fields["current_posts"].(int); ok {
			p.detail = fmt.Sprintf("%d posts loaded, scrolling", n)
		}
	case name == "POST_LOADED":
		p.done++
		p.detail = fmt.Sprintf("post %v", fields["post_id"])
	case strings.HasPrefix(name, "WARN_") || strings.HasSuffix(name, "_WARNING"):
		p.warnings++
		p.printAbove(p.console.styles.Warning.Render("⚠ " + describe(name, fields)))
		return
	default:
		return
	}
	p.draw()
}

// SetTotal changes the expected amount of work
func (p *ProgressDisplay) SetTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

// Complete ends the progress line and prints a summary
func (p *ProgressDisplay) Complete(summary string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.drawn {
		p.console.print(false, "\n")
		p.drawn = false
	}

	line := fmt.Sprintf("%s %s in %s", p.console.styles.Success.Render("✓"), summary, formatDuration(p.now().Sub(p.start)))
	if p.cached > 0 {
		line += p.console.styles.Dim.Render(fmt.Sprintf(" • %d cached", p.cached))
	}
	if p.warnings > 0 {
		line += p.console.styles.Warning.Render(fmt.Sprintf(" • %d warnings", p.warnings))
	}
	p.console.print(false, line+"\n")
}

func (p *ProgressDisplay) draw() {
	var line string
	if p.total > 0 {
		done := p.done
		if done > p.total {
			done = p.total
		}
		pct := float64(done) / float64(p.total) * 100
		filled := done * barWidth / p.total
		bar := p.console.styles.progressStyle(pct).Render(strings.Repeat("━", filled)) +
			p.console.styles.BarEmpty.Render(strings.Repeat("─", barWidth-filled))
		line = fmt.Sprintf("%s [%s] %d/%d", p.console.styles.Label.Render(p.label), bar, done, p.total)
	} else {
		line = fmt.Sprintf("%s %d", p.console.styles.Label.Render(p.label), p.done)
	}
	if p.detail != "" {
		line += " • " + p.detail
	}
	if p.warnings > 0 {
		line += " • " + p.console.styles.Warning.Render(fmt.Sprintf("%d warnings", p.warnings))
	}
	p.console.print(false, "\r\033[K"+line)
	p.drawn = true
}

func (p *ProgressDisplay) printAbove(msg string) {
	prefix := ""
	if p.drawn {
		prefix = "\r\033[K"
	}
	p.console.print(true, prefix+msg+"\n")
	if p.drawn {
		p.draw()
	}
}

func describe(name string, fields map[string]interface{}) string {
	for _, key := range []string{"message", "error"} {
		if v, ok := fields[key]; ok {
			return fmt.Sprintf("%s: %v", name, v)
		}
	}
	return name
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
