package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ASCIILogo is printed at the start of interactive runs
const ASCIILogo = `
  ╔════════════════════════════════════════════════╗
  ║  ▛▀▖▞▀▖▞▀▖ ▌ ▌▞▀▖▛▀▖▌ ▌▛▀▘▞▀▘▀▛▘                ║
  ║  ▌ ▌▌ ▌▌   ▙▄▌▙▄▌▙▄▘▚▗▘▙▄ ▝▀▖ ▌                 ║
  ║  ▀▀ ▝▀ ▝▀  ▘ ▘▘ ▘▘ ▘ ▘ ▀▀▘▀▀  ▘                 ║
  ║      POSTS AND INVOICES, STRAIGHT TO JSON      ║
  ╚════════════════════════════════════════════════╝
`

// Console writes styled status lines. Quiet consoles only print warnings
// and errors.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	quiet  bool
	styles Styles
}

// NewConsole creates a console writing to out
func NewConsole(out io.Writer, quiet bool) *Console {
	return &Console{
		out:    out,
		quiet:  quiet,
		styles: NewStyles(lipgloss.NewRenderer(out)),
	}
}

var std = NewConsole(os.Stdout, false)

// Default returns the process-wide console
func Default() *Console { return std }

// SetQuietMode toggles quiet output on the default console
func SetQuietMode(quiet bool) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.quiet = quiet
}

// IsQuietMode reports whether the default console is quiet
func IsQuietMode() bool { return std.Quiet() }

// Quiet reports whether informational output is suppressed
func (c *Console) Quiet() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quiet
}

// Styles returns the console's styles
func (c *Console) Styles() Styles { return c.styles }

func (c *Console) print(always bool, s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quiet && !always {
		return
	}
	fmt.Fprint(c.out, s)
}

// Logo prints the ASCII logo
func (c *Console) Logo() {
	c.print(false, c.styles.Logo.Render(ASCIILogo)+"\n")
}

// Error prints msg, followed by err when it is not nil
func (c *Console) Error(msg string, err error) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	c.print(true, c.styles.Error.Render(msg)+"\n")
}

// Warning prints a warning
func (c *Console) Warning(msg string) {
	c.print(true, c.styles.Warning.Render(msg)+"\n")
}

// Success prints a success line
func (c *Console) Success(msg string) {
	c.print(false, c.styles.Success.Render(msg)+"\n")
}

// Info prints a label/value pair
func (c *Console) Info(label, value string) {
	c.print(false, fmt.Sprintf("%s: %s\n", c.styles.Label.Render(label), c.styles.Value.Render(value)))
}

// Highlight prints a highlighted line
func (c *Console) Highlight(msg string) {
	c.print(false, c.styles.Highlight.Render(msg)+"\n")
}

// Printf writes unstyled informational output
func (c *Console) Printf(format string, args ...interface{}) {
	c.print(false, fmt.Sprintf(format, args...))
}

// PrintLogo prints the logo on the default console
func PrintLogo() { std.Logo() }

// PrintError prints an error on the default console
func PrintError(msg string, err error) { std.Error(msg, err) }

// PrintWarning prints a warning on the default console
func PrintWarning(msg string) { std.Warning(msg) }

// PrintSuccess prints a success line on the default console
func PrintSuccess(msg string) { std.Success(msg) }

// PrintInfo prints a label/value pair on the default console
func PrintInfo(label, value string) { std.Info(label, value) }

// PrintHighlight prints a highlighted line on the default console
func PrintHighlight(msg string) { std.Highlight(msg) }
