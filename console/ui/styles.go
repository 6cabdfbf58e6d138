package ui

import "github.com/charmbracelet/lipgloss"

var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Width(8)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	sectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))

	errorMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#DC3545")).
				Render

	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	cardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFDF5"))
	cardLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

// renderButton draws a button; the focused one is highlighted.
func renderButton(text string, focused bool, bg string) string {
	if focused {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("205")).Padding(0, 3).Bold(true).Render(text)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("254")).Background(lipgloss.Color(bg)).Padding(0, 3).Render(text)
}
