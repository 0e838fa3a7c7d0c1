package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tierlist/internal/model"
)

// ------- styling (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	grabbedStyle  = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("12"))
	cardStyle     = lipgloss.NewStyle().Padding(0, 1)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

const labelWidth = 9

// coverMark prefixes cards whose item has a cover image.
const coverMark = "▣ "

var tierColors = map[model.Tier]lipgloss.Color{
	model.TierGod:     lipgloss.Color("201"),
	model.TierS:       lipgloss.Color("196"),
	model.TierA:       lipgloss.Color("208"),
	model.TierB:       lipgloss.Color("220"),
	model.TierC:       lipgloss.Color("40"),
	model.TierD:       lipgloss.Color("33"),
	model.TierUnrated: lipgloss.Color("240"),
}

func tierLabelStyle(t model.Tier, active bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Bold(true).
		Width(labelWidth).
		Align(lipgloss.Center).
		Foreground(lipgloss.Color("0")).
		Background(tierColors[t])
	if active {
		s = s.Underline(true)
	}
	return s
}

var statusColors = map[model.Status]lipgloss.Color{
	model.StatusPlanned:   lipgloss.Color("12"),
	model.StatusWatching:  lipgloss.Color("214"),
	model.StatusCompleted: lipgloss.Color("42"),
	model.StatusDropped:   lipgloss.Color("9"),
}

func statusBadge(s model.Status) string {
	label := s.Label()
	if label == "" {
		return mutedStyle.Render(string(s))
	}
	return lipgloss.NewStyle().Foreground(statusColors[s]).Render(label)
}
