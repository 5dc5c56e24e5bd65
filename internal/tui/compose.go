package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/youthlink/youthlink/internal/models"
	"github.com/youthlink/youthlink/internal/notifications"
)

type composeField int

const (
	compFieldTitle composeField = iota
	compFieldMessage
	compFieldTarget
	compFieldSchedule
	numCompFields
)

// scheduleLayout is the accepted format for the optional schedule field.
const scheduleLayout = "2006-01-02 15:04"

var composeTargets = []models.Target{models.TargetAll, models.TargetYouths, models.TargetEmployers}

// composeModel is the admin broadcast form.
type composeModel struct {
	notifier  NotificationService
	fields    [numCompFields]string
	targetIdx int
	focus     composeField
	errMsg    string
}

// composeDoneMsg signals a sent broadcast; the app returns to the dashboard.
type composeDoneMsg struct{}

func newComposeModel(n NotificationService) composeModel {
	return composeModel{notifier: n}
}

func (m composeModel) Update(msg tea.Msg) (composeModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.errMsg = ""

	switch keyMsg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % numCompFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numCompFields) % numCompFields
	case "enter":
		if m.focus == compFieldMessage {
			m.fields[compFieldMessage] += "\n"
		} else {
			m.focus = (m.focus + 1) % numCompFields
		}
	default:
		if m.focus == compFieldTarget {
			switch keyMsg.String() {
			case "l", "right":
				m.targetIdx = (m.targetIdx + 1) % len(composeTargets)
			case "h", "left":
				m.targetIdx = (m.targetIdx - 1 + len(composeTargets)) % len(composeTargets)
			}
			return m, nil
		}
		m.fields[m.focus] = editRune(m.fields[m.focus], keyMsg.String())
	}
	return m, nil
}

func (m composeModel) submit() (composeModel, tea.Cmd) {
	title := strings.TrimSpace(m.fields[compFieldTitle])
	if title == "" {
		m.errMsg = "Title is required."
		return m, nil
	}

	var scheduledFor time.Time
	if raw := strings.TrimSpace(m.fields[compFieldSchedule]); raw != "" {
		parsed, err := time.ParseInLocation(scheduleLayout, raw, time.Local)
		if err != nil {
			m.errMsg = "Schedule must look like 2026-09-01 09:00."
			return m, nil
		}
		scheduledFor = parsed
	}

	m.notifier.Add(notifications.Input{
		Title:        title,
		Message:      strings.TrimSpace(m.fields[compFieldMessage]),
		Target:       composeTargets[m.targetIdx],
		ScheduledFor: scheduledFor,
	})
	return m, func() tea.Msg { return composeDoneMsg{} }
}

func (m composeModel) View() string {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("New notification") + "\n\n")
	b.WriteString(renderField("Title", m.fields[compFieldTitle], m.focus == compFieldTitle, false))

	// Message can be multi-line; indent continuation lines under the label.
	message := strings.ReplaceAll(m.fields[compFieldMessage], "\n", "\n  "+strings.Repeat(" ", 18))
	b.WriteString(renderField("Message", message, m.focus == compFieldMessage, false))

	target := composeTargets[m.targetIdx]
	targetStyle := labelStyle
	if m.focus == compFieldTarget {
		targetStyle = focusedLabelStyle
	}
	b.WriteString("  " + targetStyle.Render("Audience") + selectedStyle.Render(string(target)) + dimStyle.Render("  (h/l to change)") + "\n")

	b.WriteString(renderField("Schedule (opt)", m.fields[compFieldSchedule], m.focus == compFieldSchedule, false))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("  " + errorStyle.Render(m.errMsg) + "\n")
	}
	return b.String()
}
