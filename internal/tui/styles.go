package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/youthlink/youthlink/internal/models"
)

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#606878"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80")).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e8ecf4")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e8ecf4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	unreadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fbbf24")).
			Bold(true)

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0b0e14")).
			Background(lipgloss.Color("#4ade80")).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8b0c0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#606878"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0")).
			Width(18)

	focusedLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#4ade80")).
				Bold(true).
				Width(18)
)

var roleColors = map[models.Role]lipgloss.Color{
	models.RoleYouth:    "#60a5fa",
	models.RoleEmployer: "#fbbf24",
	models.RoleAdmin:    "#f87171",
	models.RoleVerifier: "#c084fc",
}

// RoleStyle returns a bold style colored for the given role.
func RoleStyle(role models.Role) lipgloss.Style {
	if c, ok := roleColors[role]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// helpEntry renders a "key label" pair for the bottom help line.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}
