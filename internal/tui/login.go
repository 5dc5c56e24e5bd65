package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/youthlink/youthlink/internal/session"
)

type loginField int

const (
	loginFieldEmail loginField = iota
	loginFieldPassword
	numLoginFields
)

type loginModel struct {
	session SessionService
	fields  [numLoginFields]string
	focus   loginField
	errMsg  string
	pending bool
}

// loginResultMsg carries the outcome of a sign-in attempt. Successful logins
// also produce a NavigateMsg through the session manager's navigate hook, so
// this message only needs to surface failures.
type loginResultMsg struct {
	result session.Result
}

func newLoginModel(s SessionService) loginModel {
	return loginModel{session: s}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.pending = false
		if !msg.result.Success {
			m.errMsg = msg.result.Message
		}
		return m, nil

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}
		m.errMsg = ""
		switch msg.String() {
		case "tab", "down":
			m.focus = (m.focus + 1) % numLoginFields
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + numLoginFields) % numLoginFields
		case "enter":
			if m.focus == loginFieldPassword {
				return m.submit()
			}
			m.focus++
		case "ctrl+s":
			return m.submit()
		default:
			m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
		}
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	m.pending = true
	s := m.session
	email, password := m.fields[loginFieldEmail], m.fields[loginFieldPassword]
	return m, func() tea.Msg {
		return loginResultMsg{result: s.Login(context.Background(), email, password)}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Sign in") + "\n\n")
	b.WriteString(renderField("Email", m.fields[loginFieldEmail], m.focus == loginFieldEmail, false))
	b.WriteString(renderField("Password", m.fields[loginFieldPassword], m.focus == loginFieldPassword, true))
	b.WriteString("\n")
	if m.pending {
		b.WriteString("  " + dimStyle.Render("Signing in...") + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("  " + errorStyle.Render(m.errMsg) + "\n")
	}
	return b.String()
}

// renderField renders one labelled form row. Password fields are masked.
func renderField(label, value string, focused, secret bool) string {
	shown := value
	if secret {
		shown = maskRunes(value)
	}
	style := labelStyle
	cursor := ""
	if focused {
		style = focusedLabelStyle
		cursor = accentStyle.Render("█")
	}
	return "  " + style.Render(label) + selectedStyle.Render(shown) + cursor + "\n"
}
