package ui

import "github.com/charmbracelet/lipgloss"

var (
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	neonOrange  = lipgloss.Color("#FF6700")
	alertRed    = lipgloss.Color("#FF0000")
	dimGray     = lipgloss.Color("#666666")
	emptyGray   = lipgloss.Color("#333333")
)

// Styles is the set of lipgloss styles used for terminal output
type Styles struct {
	Logo      lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Highlight lipgloss.Style
	Dim       lipgloss.Style
	BarFull   lipgloss.Style
	BarEmpty  lipgloss.Style
}

// NewStyles builds styles bound to r, so color is only emitted when r's
// output supports it
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Logo:      r.NewStyle().Foreground(neonCyan).Bold(true),
		Label:     r.NewStyle().Foreground(neonCyan).Bold(true),
		Value:     r.NewStyle().Foreground(neonYellow),
		Success:   r.NewStyle().Foreground(neonGreen).Bold(true),
		Error:     r.NewStyle().Foreground(alertRed).Bold(true),
		Warning:   r.NewStyle().Foreground(neonOrange).Bold(true),
		Highlight: r.NewStyle().Foreground(neonMagenta),
		Dim:       r.NewStyle().Foreground(dimGray),
		BarFull:   r.NewStyle().Foreground(neonGreen),
		BarEmpty:  r.NewStyle().Foreground(emptyGray),
	}
}

// progressStyle shifts the bar color as work completes
func (s Styles) progressStyle(percentage float64) lipgloss.Style {
	switch {
	case percentage >= 80:
		return s.BarFull.Foreground(neonGreen)
	case percentage >= 50:
		return s.BarFull.Foreground(neonYellow)
	case percentage >= 30:
		return s.BarFull.Foreground(neonOrange)
	default:
		return s.BarFull.Foreground(neonMagenta)
	}
}
