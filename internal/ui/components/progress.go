package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar shows how many photos have been taken
type ProgressBar struct {
	Width   int
	Current int
	Total   int
	Label   string
	Color   bool
}

// NewProgressBar creates a new progress bar
func NewProgressBar(width int) *ProgressBar {
	return &ProgressBar{
		Width: width,
		Color: true,
	}
}

// SetProgress updates the progress
func (p *ProgressBar) SetProgress(current, total int) {
	p.Current = current
	p.Total = total
}

// SetLabel sets the progress label
func (p *ProgressBar) SetLabel(label string) {
	p.Label = label
}

// Render renders the progress bar
func (p *ProgressBar) Render() string {
	// Define styles locally to avoid import cycle
	progressStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EC4899")).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	if !p.Color {
		progressStyle = lipgloss.NewStyle()
		mutedStyle = lipgloss.NewStyle()
	}

	percentage := 0.0
	if p.Total > 0 {
		percentage = float64(p.Current) / float64(p.Total)
	}
	if percentage > 1.0 {
		percentage = 1.0
	}

	filledWidth := int(float64(p.Width) * percentage)
	emptyWidth := p.Width - filledWidth
	if emptyWidth < 0 {
		emptyWidth = 0
	}

	bar := progressStyle.Render(strings.Repeat("█", filledWidth)) +
		mutedStyle.Render(strings.Repeat("░", emptyWidth))

	result := fmt.Sprintf("[%s] %d/%d", bar, p.Current, p.Total)
	if p.Label != "" {
		result = p.Label + " " + result
	}
	return result
}

// Dots renders one marker per slot, filled for taken slots
func Dots(current, total int) string {
	if current > total {
		current = total
	}
	if current < 0 {
		current = 0
	}
	return strings.Repeat("●", current) + strings.Repeat("○", total-current)
}
