package editor

import "github.com/charmbracelet/lipgloss"

// Style controls the editor's rendering.
type Style struct {
	Title     lipgloss.Style
	Text      lipgloss.Style
	Bold      lipgloss.Style
	Italic    lipgloss.Style
	Link      lipgloss.Style
	Quote     lipgloss.Style
	QuoteBar  lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style

	Toolbar             lipgloss.Style
	ToolbarFading       lipgloss.Style
	ToolbarButton       lipgloss.Style
	ToolbarButtonActive lipgloss.Style
	ToolbarInput        lipgloss.Style

	Status lipgloss.Style
}

func DefaultStyle() Style {
	bar := lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252"))
	return Style{
		Title:     lipgloss.NewStyle().Bold(true).Underline(true),
		Text:      lipgloss.NewStyle(),
		Bold:      lipgloss.NewStyle().Bold(true),
		Italic:    lipgloss.NewStyle().Italic(true),
		Link:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
		Quote:     lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Italic(true),
		QuoteBar:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Selection: lipgloss.NewStyle().Background(lipgloss.Color("24")),
		Cursor:    lipgloss.NewStyle().Reverse(true),

		Toolbar:             bar,
		ToolbarFading:       bar.Faint(true),
		ToolbarButton:       bar,
		ToolbarButtonActive: bar.Foreground(lipgloss.Color("214")).Bold(true),
		ToolbarInput:        bar,

		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}
