package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/youthlink/youthlink/internal/session"
)

type resetPhase int

const (
	phaseRequest resetPhase = iota
	phaseRedeem
)

// resetModel drives the two-step password reset: request a token for an
// email, then redeem the token with a new password.
type resetModel struct {
	session SessionService
	phase   resetPhase

	email       string
	token       string
	newPassword string
	focusToken  bool // redeem phase: token vs password field

	errMsg  string
	infoMsg string
	pending bool
}

type resetRequestedMsg struct {
	result session.Result
}

type resetDoneMsg struct {
	result session.Result
}

func newResetModel(s SessionService) resetModel {
	return resetModel{session: s, focusToken: true}
}

func (m resetModel) Update(msg tea.Msg) (resetModel, tea.Cmd) {
	switch msg := msg.(type) {
	case resetRequestedMsg:
		m.pending = false
		if msg.result.Success {
			m.phase = phaseRedeem
			m.infoMsg = msg.result.Message
		} else {
			m.errMsg = msg.result.Message
		}
		return m, nil

	case resetDoneMsg:
		m.pending = false
		if msg.result.Success {
			m.infoMsg = msg.result.Message
			m.token, m.newPassword = "", ""
		} else {
			m.errMsg = msg.result.Message
		}
		return m, nil

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}
		m.errMsg, m.infoMsg = "", ""
		switch msg.String() {
		case "tab", "down", "up", "shift+tab":
			if m.phase == phaseRedeem {
				m.focusToken = !m.focusToken
			}
		case "enter", "ctrl+s":
			return m.submit()
		default:
			switch {
			case m.phase == phaseRequest:
				m.email = editRune(m.email, msg.String())
			case m.focusToken:
				m.token = editRune(m.token, msg.String())
			default:
				m.newPassword = editRune(m.newPassword, msg.String())
			}
		}
	}
	return m, nil
}

func (m resetModel) submit() (resetModel, tea.Cmd) {
	m.pending = true
	s := m.session
	if m.phase == phaseRequest {
		email := m.email
		return m, func() tea.Msg {
			return resetRequestedMsg{result: s.RequestPasswordReset(context.Background(), email)}
		}
	}
	token, password := m.token, m.newPassword
	return m, func() tea.Msg {
		return resetDoneMsg{result: s.ResetPassword(context.Background(), token, password)}
	}
}

func (m resetModel) View() string {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Reset password") + "\n\n")

	if m.phase == phaseRequest {
		b.WriteString(renderField("Email", m.email, true, false))
	} else {
		b.WriteString(renderField("Reset token", m.token, m.focusToken, false))
		b.WriteString(renderField("New password", m.newPassword, !m.focusToken, true))
	}
	b.WriteString("\n")

	if m.pending {
		b.WriteString("  " + dimStyle.Render("Working...") + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("  " + errorStyle.Render(m.errMsg) + "\n")
	}
	if m.infoMsg != "" {
		b.WriteString("  " + successStyle.Render(m.infoMsg) + "\n")
	}
	return b.String()
}
