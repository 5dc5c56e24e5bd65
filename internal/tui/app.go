// Package tui implements the terminal front end: login and registration
// forms, role dashboards and the notification panel.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/youthlink/youthlink/internal/models"
	"github.com/youthlink/youthlink/internal/notifications"
	"github.com/youthlink/youthlink/internal/session"
)

type view int

const (
	viewLogin view = iota
	viewRegister
	viewReset
	viewDashboard
	viewCompose
)

// SessionService is the slice of the session manager the TUI drives.
type SessionService interface {
	Login(ctx context.Context, email, password string) session.Result
	Register(ctx context.Context, input session.RegisterInput) session.Result
	RequestPasswordReset(ctx context.Context, email string) session.Result
	ResetPassword(ctx context.Context, token, newPassword string) session.Result
	Logout(ctx context.Context)
	CurrentUser() *models.User
	CurrentRole() (models.Role, bool)
	IsAdmin() bool
}

// NotificationService is the slice of the notification center the TUI reads
// and mutates.
type NotificationService interface {
	Add(input notifications.Input) models.Notification
	View() []models.Notification
	UnreadCount() int
	ActiveToast() *models.Notification
	MarkAsRead(id string)
	MarkAllAsRead()
	Remove(id string)
	Refresh()
}

// NavigateMsg switches the visible screen to the given route. The session
// manager emits routes like "/admin" or "/youth/dashboard" after a login and
// "/login" after a logout.
type NavigateMsg struct {
	Path string
}

// tickMsg drives periodic redraws so toasts disappear and relative
// timestamps stay current without user input.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// App is the root Bubbletea model.
type App struct {
	session  SessionService
	notifier NotificationService

	view     view
	login    loginModel
	register registerModel
	reset    resetModel
	dash     dashModel
	compose  composeModel

	width  int
	height int
}

// NewApp creates the root model. The starting screen follows the session
// state: an authenticated session goes straight to its dashboard.
func NewApp(s SessionService, n NotificationService) App {
	a := App{
		session:  s,
		notifier: n,
		login:    newLoginModel(s),
		register: newRegisterModel(s),
		reset:    newResetModel(s),
		dash:     newDashModel(s, n),
		compose:  newComposeModel(n),
	}
	if role, ok := s.CurrentRole(); ok {
		a.view = viewDashboard
		a.dash.route = session.RedirectPath(role)
	}
	return a
}

func (a App) Init() tea.Cmd {
	return tickCmd()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tickMsg:
		return a, tickCmd()

	case NavigateMsg:
		// Navigation means the session role changed (login, logout, forced
		// logout): the notification view and its auto-read timer follow.
		a.notifier.Refresh()
		if msg.Path == "/login" {
			a.view = viewLogin
			a.login = newLoginModel(a.session)
			return a, nil
		}
		a.view = viewDashboard
		a.dash = newDashModel(a.session, a.notifier)
		a.dash.route = msg.Path
		return a, nil

	case composeDoneMsg:
		a.view = viewDashboard
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+l":
			if a.view == viewDashboard || a.view == viewCompose {
				s := a.session
				return a, func() tea.Msg {
					s.Logout(context.Background())
					return NavigateMsg{Path: "/login"}
				}
			}
		case "esc":
			switch a.view {
			case viewRegister, viewReset:
				a.view = viewLogin
				return a, nil
			case viewCompose:
				a.view = viewDashboard
				return a, nil
			}
		}

		// Screen switches available from the login form.
		if a.view == viewLogin && !a.login.pending {
			switch msg.String() {
			case "ctrl+r":
				a.view = viewRegister
				a.register = newRegisterModel(a.session)
				return a, nil
			case "ctrl+f":
				a.view = viewReset
				a.reset = newResetModel(a.session)
				return a, nil
			}
		}
		if a.view == viewDashboard && msg.String() == "n" && a.session.IsAdmin() {
			a.view = viewCompose
			a.compose = newComposeModel(a.notifier)
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewRegister:
		a.register, cmd = a.register.Update(msg)
	case viewReset:
		a.reset, cmd = a.reset.Update(msg)
	case viewDashboard:
		a.dash, cmd = a.dash.Update(msg)
	case viewCompose:
		a.compose, cmd = a.compose.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	header := titleStyle.Render("YouthLink")
	if user := a.session.CurrentUser(); user != nil {
		header += "  " + metaStyle.Render(user.DisplayName()) + " " + RoleStyle(user.Role).Render(string(user.Role))
	}

	// A toast overlays the header line wherever the user is.
	if toast := a.notifier.ActiveToast(); toast != nil {
		header += "   " + toastStyle.Render(toast.Title)
	}

	var body, help string
	switch a.view {
	case viewLogin:
		body = a.login.View()
		help = " " + helpEntry("enter", "sign in") + "  " + helpEntry("ctrl+r", "register") + "  " + helpEntry("ctrl+f", "forgot password") + "  " + helpEntry("ctrl+c", "quit")
	case viewRegister:
		body = a.register.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("h/l", "role") + "  " + helpEntry("ctrl+s", "create account") + "  " + helpEntry("esc", "back")
	case viewReset:
		body = a.reset.View()
		help = " " + helpEntry("ctrl+s", "submit") + "  " + helpEntry("esc", "back")
	case viewDashboard:
		body = a.dash.View()
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "mark read") + "  " + helpEntry("m", "mark all")
		if a.session.IsAdmin() {
			help += "  " + helpEntry("n", "new") + "  " + helpEntry("x", "delete")
		}
		help += "  " + helpEntry("ctrl+l", "logout") + "  " + helpEntry("ctrl+c", "quit")
	case viewCompose:
		body = a.compose.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("h/l", "audience") + "  " + helpEntry("ctrl+s", "send") + "  " + helpEntry("esc", "cancel")
	}

	if a.height > 0 {
		body = strings.TrimRight(truncateToHeight(body, a.height-3), "\n")
	}
	return fmt.Sprintf("%s\n\n%s\n%s", header, body, help)
}
