package cli

import "github.com/charmbracelet/lipgloss"

// Output styles shared by the query commands.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	snippetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			PaddingLeft(6)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)
