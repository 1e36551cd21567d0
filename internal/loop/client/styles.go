package client

import "github.com/charmbracelet/lipgloss"

// styles are the HUD text styles of one connection. They are bound to the
// connection's renderer so each SSH session gets its own color profile.
type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	text     lipgloss.Style
	dim      lipgloss.Style
	player   lipgloss.Style
	ai       lipgloss.Style
	warn     lipgloss.Style
	good     lipgloss.Style
	bar      lipgloss.Style
	barEmpty lipgloss.Style
	panel    lipgloss.Style
	heading  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:    r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		subtitle: r.NewStyle().Foreground(lipgloss.Color("180")).Italic(true),
		text:     r.NewStyle().Foreground(lipgloss.Color("252")),
		dim:      r.NewStyle().Foreground(lipgloss.Color("244")),
		player:   r.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		ai:       r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		warn:     r.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		good:     r.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		bar:      r.NewStyle().Foreground(lipgloss.Color("46")),
		barEmpty: r.NewStyle().Foreground(lipgloss.Color("238")),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("94")).
			Padding(0, 2),
		heading: r.NewStyle().Foreground(lipgloss.Color("214")).Underline(true),
	}
}
