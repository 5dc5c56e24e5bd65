package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/youthlink/youthlink/internal/models"
	"github.com/youthlink/youthlink/internal/notifications"
)

// dashModel is the post-login screen: a role headline plus the notification
// panel. The panel reads live from the notification center on every render,
// so external changes (auto-read, new broadcasts) appear without plumbing.
type dashModel struct {
	session  SessionService
	notifier NotificationService
	route    string
	cursor   int
}

func newDashModel(s SessionService, n NotificationService) dashModel {
	return dashModel{session: s, notifier: n}
}

// routeHeadlines maps post-login routes to their screen titles.
var routeHeadlines = map[string]string{
	"/admin":              "Admin console",
	"/employer/dashboard": "Employer dashboard",
	"/youth/dashboard":    "Youth dashboard",
	"/verifier/dashboard": "Verifier dashboard",
	"/dashboard":          "Dashboard",
}

func (m dashModel) Update(msg tea.Msg) (dashModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	items := m.notifier.View()
	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(items) {
			m.notifier.MarkAsRead(items[m.cursor].ID)
		}
	case "m":
		m.notifier.MarkAllAsRead()
	case "x":
		if m.session.IsAdmin() && m.cursor < len(items) {
			m.notifier.Remove(items[m.cursor].ID)
			if m.cursor > 0 {
				m.cursor--
			}
		}
	}
	return m, nil
}

func (m dashModel) View() string {
	headline := routeHeadlines[m.route]
	if headline == "" {
		headline = "Dashboard"
	}

	var b strings.Builder
	b.WriteString("  " + titleStyle.Render(headline) + "\n\n")

	items := m.notifier.View()
	unread := m.notifier.UnreadCount()

	panel := "Notifications"
	if unread > 0 {
		panel += " " + unreadStyle.Render(fmt.Sprintf("(%d unread)", unread))
	}
	b.WriteString("  " + selectedStyle.Render(panel) + "\n")

	if len(items) == 0 {
		b.WriteString("  " + dimStyle.Render("No notifications yet.") + "\n")
		return b.String()
	}

	now := time.Now()
	for i, n := range items {
		b.WriteString(renderNotificationRow(n, i == m.cursor, now))
	}
	return b.String()
}

func renderNotificationRow(n models.Notification, selected bool, now time.Time) string {
	marker := "  "
	if selected {
		marker = accentStyle.Render("> ")
	}
	bullet := dimStyle.Render("·")
	title := dimStyle.Render(n.Title)
	if !n.Read {
		bullet = unreadStyle.Render("●")
		title = selectedStyle.Render(n.Title)
	}
	age := metaStyle.Render(notifications.TimeAgo(n.CreatedAt, now))

	row := fmt.Sprintf("  %s%s %s  %s", marker, bullet, title, age)
	if n.Message != "" {
		row += "\n      " + dimStyle.Render(n.Message)
	}
	return row + "\n"
}
