package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/botdash/internal/models"
)

// Theme holds the color scheme for the dashboard.
type Theme struct {
	Accent  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
	Border  lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Accent:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
	Border:  lipgloss.Color("#3A3A3A"), // dark gray
}

func (t Theme) accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent)
}

func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

func (t Theme) successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) activeTabStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Underline(true).
		Padding(0, 1)
}

func (t Theme) tabStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Padding(0, 1)
}

func (t Theme) panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
}

// message renders a controller message in its kind's color.
func (t Theme) message(msg models.Message) string {
	switch msg.Kind {
	case models.MessageSuccess:
		return t.successStyle().Render("✓ " + msg.Text)
	case models.MessageError:
		return t.errorStyle().Render("✗ " + msg.Text)
	default:
		return msg.Text
	}
}

// health renders a status label green when healthy, red when unhealthy and
// dim when unknown.
func (t Theme) health(label string, healthy, unknown bool) string {
	switch {
	case unknown:
		return t.hintStyle().Render(label)
	case healthy:
		return t.successStyle().Render(label)
	default:
		return t.errorStyle().Render(label)
	}
}
