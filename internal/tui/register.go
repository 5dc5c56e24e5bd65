package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/youthlink/youthlink/internal/models"
	"github.com/youthlink/youthlink/internal/session"
)

type registerField int

const (
	regFieldEmail registerField = iota
	regFieldPassword
	regFieldConfirm
	regFieldRole
	regFieldFirstName
	regFieldLastName
	regFieldPhone
	numRegFields
)

// registrableRoles are the account types self-service sign-up offers.
// Admin accounts are provisioned out of band.
var registrableRoles = []models.Role{models.RoleYouth, models.RoleEmployer, models.RoleVerifier}

type registerModel struct {
	session SessionService
	fields  [numRegFields]string
	roleIdx int
	focus   registerField
	errMsg  string
	infoMsg string
	pending bool
}

type registerResultMsg struct {
	result session.Result
}

func newRegisterModel(s SessionService) registerModel {
	return registerModel{session: s}
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerResultMsg:
		m.pending = false
		if msg.result.Success {
			// Registration does not sign the user in; they log in next.
			m.infoMsg = msg.result.Message
			m.fields = [numRegFields]string{}
			m.focus = regFieldEmail
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
		case "tab", "down", "enter":
			m.focus = (m.focus + 1) % numRegFields
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + numRegFields) % numRegFields
		case "ctrl+s":
			return m.submit()
		default:
			if m.focus == regFieldRole {
				switch msg.String() {
				case "l", "right":
					m.roleIdx = (m.roleIdx + 1) % len(registrableRoles)
				case "h", "left":
					m.roleIdx = (m.roleIdx - 1 + len(registrableRoles)) % len(registrableRoles)
				}
				return m, nil
			}
			m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
		}
	}
	return m, nil
}

func (m registerModel) submit() (registerModel, tea.Cmd) {
	m.pending = true
	s := m.session
	input := session.RegisterInput{
		Email:           m.fields[regFieldEmail],
		Password:        m.fields[regFieldPassword],
		ConfirmPassword: m.fields[regFieldConfirm],
		Role:            registrableRoles[m.roleIdx],
		FirstName:       m.fields[regFieldFirstName],
		LastName:        m.fields[regFieldLastName],
		Phone:           m.fields[regFieldPhone],
	}
	return m, func() tea.Msg {
		return registerResultMsg{result: s.Register(context.Background(), input)}
	}
}

func (m registerModel) View() string {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Create an account") + "\n\n")
	b.WriteString(renderField("Email", m.fields[regFieldEmail], m.focus == regFieldEmail, false))
	b.WriteString(renderField("Password", m.fields[regFieldPassword], m.focus == regFieldPassword, true))
	b.WriteString(renderField("Confirm password", m.fields[regFieldConfirm], m.focus == regFieldConfirm, true))

	role := registrableRoles[m.roleIdx]
	roleStyle := labelStyle
	if m.focus == regFieldRole {
		roleStyle = focusedLabelStyle
	}
	b.WriteString("  " + roleStyle.Render("I am a") + RoleStyle(role).Render(string(role)) + dimStyle.Render("  (h/l to change)") + "\n")

	b.WriteString(renderField("First name", m.fields[regFieldFirstName], m.focus == regFieldFirstName, false))
	b.WriteString(renderField("Last name", m.fields[regFieldLastName], m.focus == regFieldLastName, false))
	b.WriteString(renderField("Phone", m.fields[regFieldPhone], m.focus == regFieldPhone, false))
	b.WriteString("\n")

	if m.pending {
		b.WriteString("  " + dimStyle.Render("Creating account...") + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("  " + errorStyle.Render(m.errMsg) + "\n")
	}
	if m.infoMsg != "" {
		b.WriteString("  " + successStyle.Render(m.infoMsg) + "\n")
	}
	return b.String()
}
