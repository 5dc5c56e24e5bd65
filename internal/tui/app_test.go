package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/youthlink/youthlink/internal/models"
	"github.com/youthlink/youthlink/internal/notifications"
	"github.com/youthlink/youthlink/internal/session"
)

type fakeSession struct {
	user        *models.User
	loginResult session.Result
	loginCalls  []string
	regResult   session.Result
	regInputs   []session.RegisterInput
	logouts     int
}

func (f *fakeSession) Login(_ context.Context, email, password string) session.Result {
	f.loginCalls = append(f.loginCalls, email+"/"+password)
	return f.loginResult
}

func (f *fakeSession) Register(_ context.Context, input session.RegisterInput) session.Result {
	f.regInputs = append(f.regInputs, input)
	return f.regResult
}

func (f *fakeSession) RequestPasswordReset(context.Context, string) session.Result {
	return session.Result{Success: true, Message: "If the email exists, a reset link was sent."}
}

func (f *fakeSession) ResetPassword(context.Context, string, string) session.Result {
	return session.Result{Success: true, Message: "Password reset successful. Please log in."}
}

func (f *fakeSession) Logout(context.Context) {
	f.logouts++
	f.user = nil
}

func (f *fakeSession) CurrentUser() *models.User { return f.user }

func (f *fakeSession) CurrentRole() (models.Role, bool) {
	if f.user == nil {
		return "", false
	}
	return f.user.Role, true
}

func (f *fakeSession) IsAdmin() bool {
	return f.user != nil && f.user.Role == models.RoleAdmin
}

type fakeNotifier struct {
	items   []models.Notification
	toast   *models.Notification
	added   []notifications.Input
	read      []string
	allRead   int
	removed   []string
	refreshes int
}

func (f *fakeNotifier) Add(input notifications.Input) models.Notification {
	f.added = append(f.added, input)
	n := models.Notification{ID: "new", Title: input.Title, Target: input.Target}
	f.items = append([]models.Notification{n}, f.items...)
	return n
}

func (f *fakeNotifier) View() []models.Notification { return f.items }

func (f *fakeNotifier) UnreadCount() int {
	count := 0
	for _, n := range f.items {
		if !n.Read {
			count++
		}
	}
	return count
}

func (f *fakeNotifier) ActiveToast() *models.Notification { return f.toast }

func (f *fakeNotifier) MarkAsRead(id string) { f.read = append(f.read, id) }

func (f *fakeNotifier) MarkAllAsRead() { f.allRead++ }

func (f *fakeNotifier) Remove(id string) { f.removed = append(f.removed, id) }

func (f *fakeNotifier) Refresh() { f.refreshes++ }

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeString(m loginModel, s string) loginModel {
	for _, r := range s {
		m, _ = m.Update(keyMsg(string(r)))
	}
	return m
}

func TestAppStartsOnLoginWhenAnonymous(t *testing.T) {
	app := NewApp(&fakeSession{}, &fakeNotifier{})
	view := app.View()
	if !strings.Contains(view, "Sign in") {
		t.Errorf("expected login screen, got:\n%s", view)
	}
}

func TestAppStartsOnDashboardWhenAuthenticated(t *testing.T) {
	s := &fakeSession{user: &models.User{Email: "admin@x.y", Role: models.RoleAdmin}}
	app := NewApp(s, &fakeNotifier{})
	view := app.View()
	if !strings.Contains(view, "Admin console") {
		t.Errorf("expected admin dashboard, got:\n%s", view)
	}
}

func TestNavigateMsgRoutesScreens(t *testing.T) {
	s := &fakeSession{user: &models.User{Email: "e@x.y", Role: models.RoleEmployer}}
	app := NewApp(&fakeSession{}, &fakeNotifier{})

	next, _ := app.Update(NavigateMsg{Path: "/employer/dashboard"})
	app = next.(App)
	app.session = s
	app.dash.session = s
	if !strings.Contains(app.View(), "Employer dashboard") {
		t.Errorf("expected employer dashboard, got:\n%s", app.View())
	}

	next, _ = app.Update(NavigateMsg{Path: "/login"})
	app = next.(App)
	if !strings.Contains(app.View(), "Sign in") {
		t.Errorf("expected login screen after /login, got:\n%s", app.View())
	}
}

func TestNavigateRefreshesNotifications(t *testing.T) {
	n := &fakeNotifier{}
	app := NewApp(&fakeSession{}, n)

	// Login and logout both route through NavigateMsg; each one must let
	// the notification center recompute its view and auto-read timer.
	next, _ := app.Update(NavigateMsg{Path: "/youth/dashboard"})
	app = next.(App)
	if n.refreshes != 1 {
		t.Fatalf("expected refresh on login navigation, got %d", n.refreshes)
	}

	_, _ = app.Update(NavigateMsg{Path: "/login"})
	if n.refreshes != 2 {
		t.Fatalf("expected refresh on logout navigation, got %d", n.refreshes)
	}
}

func TestLoginSubmitCallsSession(t *testing.T) {
	s := &fakeSession{loginResult: session.Result{Success: false, Message: "Invalid username or password."}}
	m := newLoginModel(s)

	m = typeString(m, "a@b.c")
	m, _ = m.Update(keyMsg("tab"))
	m = typeString(m, "secret")
	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected a submit command")
	}

	msg := cmd()
	result, ok := msg.(loginResultMsg)
	if !ok {
		t.Fatalf("expected loginResultMsg, got %T", msg)
	}
	if len(s.loginCalls) != 1 || s.loginCalls[0] != "a@b.c/secret" {
		t.Fatalf("unexpected login calls: %v", s.loginCalls)
	}

	m, _ = m.Update(result)
	if !strings.Contains(m.View(), "Invalid username or password.") {
		t.Errorf("expected failure message in view, got:\n%s", m.View())
	}
}

func TestLoginMasksPassword(t *testing.T) {
	m := newLoginModel(&fakeSession{})
	m, _ = m.Update(keyMsg("tab"))
	m = typeString(m, "secret")

	view := m.View()
	if strings.Contains(view, "secret") {
		t.Errorf("password must not be rendered in clear text:\n%s", view)
	}
	if !strings.Contains(view, "******") {
		t.Errorf("expected masked password, got:\n%s", view)
	}
}

func TestRegisterRoleCycling(t *testing.T) {
	m := newRegisterModel(&fakeSession{})
	if registrableRoles[m.roleIdx] != models.RoleYouth {
		t.Fatalf("expected youth default, got %s", registrableRoles[m.roleIdx])
	}

	// Move focus to the role field, then cycle.
	for i := 0; i < int(regFieldRole); i++ {
		m, _ = m.Update(keyMsg("tab"))
	}
	m, _ = m.Update(keyMsg("l"))
	if registrableRoles[m.roleIdx] != models.RoleEmployer {
		t.Fatalf("expected employer after l, got %s", registrableRoles[m.roleIdx])
	}
	m, _ = m.Update(keyMsg("h"))
	m, _ = m.Update(keyMsg("h"))
	if registrableRoles[m.roleIdx] != models.RoleVerifier {
		t.Fatalf("expected verifier after h h, got %s", registrableRoles[m.roleIdx])
	}
}

func TestRegisterSubmitPassesInput(t *testing.T) {
	s := &fakeSession{regResult: session.Result{Success: true, Message: "Registration successful. Please log in."}}
	m := newRegisterModel(s)
	for _, r := range "u@x.y" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	m, cmd := m.Update(keyMsg("ctrl+s"))
	if cmd == nil {
		t.Fatal("expected a submit command")
	}

	msg := cmd()
	if len(s.regInputs) != 1 || s.regInputs[0].Email != "u@x.y" {
		t.Fatalf("unexpected register inputs: %+v", s.regInputs)
	}

	m, _ = m.Update(msg)
	view := m.View()
	if !strings.Contains(view, "Registration successful. Please log in.") {
		t.Errorf("expected success message, got:\n%s", view)
	}
	if m.fields[regFieldEmail] != "" {
		t.Error("expected form reset after successful registration")
	}
}

func TestDashboardKeys(t *testing.T) {
	n := &fakeNotifier{items: []models.Notification{
		{ID: "a", Title: "first", Target: models.TargetAll},
		{ID: "b", Title: "second", Target: models.TargetAll},
	}}
	s := &fakeSession{user: &models.User{Email: "admin@x.y", Role: models.RoleAdmin}}
	m := newDashModel(s, n)

	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg("enter"))
	if len(n.read) != 1 || n.read[0] != "b" {
		t.Fatalf("expected selected item marked read, got %v", n.read)
	}

	m, _ = m.Update(keyMsg("m"))
	if n.allRead != 1 {
		t.Fatalf("expected mark-all, got %d", n.allRead)
	}

	m, _ = m.Update(keyMsg("x"))
	if len(n.removed) != 1 || n.removed[0] != "b" {
		t.Fatalf("expected admin delete of selected item, got %v", n.removed)
	}
}

func TestDashboardDeleteRequiresAdmin(t *testing.T) {
	n := &fakeNotifier{items: []models.Notification{{ID: "a", Title: "t", Target: models.TargetAll}}}
	s := &fakeSession{user: &models.User{Email: "y@x.y", Role: models.RoleYouth}}
	m := newDashModel(s, n)

	m, _ = m.Update(keyMsg("x"))
	if len(n.removed) != 0 {
		t.Fatalf("non-admin must not delete, got %v", n.removed)
	}
}

func TestDashboardShowsUnreadBadge(t *testing.T) {
	n := &fakeNotifier{items: []models.Notification{
		{ID: "a", Title: "unseen", Target: models.TargetAll},
		{ID: "b", Title: "seen", Target: models.TargetAll, Read: true},
	}}
	s := &fakeSession{user: &models.User{Email: "y@x.y", Role: models.RoleYouth}}
	m := newDashModel(s, n)

	view := m.View()
	if !strings.Contains(view, "(1 unread)") {
		t.Errorf("expected unread badge, got:\n%s", view)
	}
}

func TestAppShowsToastInHeader(t *testing.T) {
	n := &fakeNotifier{toast: &models.Notification{Title: "Fresh news"}}
	s := &fakeSession{user: &models.User{Email: "y@x.y", Role: models.RoleYouth}}
	app := NewApp(s, n)

	if !strings.Contains(app.View(), "Fresh news") {
		t.Errorf("expected toast title in header, got:\n%s", app.View())
	}
}

func TestLogoutKey(t *testing.T) {
	s := &fakeSession{user: &models.User{Email: "y@x.y", Role: models.RoleYouth}}
	app := NewApp(s, &fakeNotifier{})

	next, cmd := app.Update(keyMsg("ctrl+l"))
	app = next.(App)
	if cmd == nil {
		t.Fatal("expected logout command")
	}
	msg := cmd()
	if s.logouts != 1 {
		t.Fatalf("expected one logout call, got %d", s.logouts)
	}
	nav, ok := msg.(NavigateMsg)
	if !ok || nav.Path != "/login" {
		t.Fatalf("expected NavigateMsg to /login, got %#v", msg)
	}
}

func TestComposeSubmit(t *testing.T) {
	n := &fakeNotifier{}
	m := newComposeModel(n)

	for _, r := range "Job fair" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	m, _ = m.Update(keyMsg("tab"))
	for _, r := range "This Saturday" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	m, _ = m.Update(keyMsg("tab"))
	m, _ = m.Update(keyMsg("l")) // audience: all -> youths

	m, cmd := m.Update(keyMsg("ctrl+s"))
	if cmd == nil {
		t.Fatal("expected a done command")
	}
	if _, ok := cmd().(composeDoneMsg); !ok {
		t.Fatal("expected composeDoneMsg")
	}
	if len(n.added) != 1 {
		t.Fatalf("expected one Add, got %d", len(n.added))
	}
	if n.added[0].Title != "Job fair" || n.added[0].Target != models.TargetYouths {
		t.Fatalf("unexpected input: %+v", n.added[0])
	}
}

func TestComposeRequiresTitle(t *testing.T) {
	m := newComposeModel(&fakeNotifier{})
	m, cmd := m.Update(keyMsg("ctrl+s"))
	if cmd != nil {
		t.Fatal("expected no command without a title")
	}
	if !strings.Contains(m.View(), "Title is required.") {
		t.Errorf("expected validation message, got:\n%s", m.View())
	}
}

func TestComposeRejectsBadSchedule(t *testing.T) {
	m := newComposeModel(&fakeNotifier{})
	for _, r := range "T" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	m.fields[compFieldSchedule] = "tomorrow"
	m, cmd := m.Update(keyMsg("ctrl+s"))
	if cmd != nil {
		t.Fatal("expected no command with an invalid schedule")
	}
	if !strings.Contains(m.View(), "Schedule must look like") {
		t.Errorf("expected schedule error, got:\n%s", m.View())
	}
}

func TestEditRune(t *testing.T) {
	tests := []struct {
		text string
		key  string
		want string
	}{
		{"", "a", "a"},
		{"ab", "backspace", "a"},
		{"", "backspace", ""},
		{"a", "enter", "a"},
		{"a", "space", "a "},
		{"héll", "ö", "héllö"},
	}
	for _, tt := range tests {
		if got := editRune(tt.text, tt.key); got != tt.want {
			t.Errorf("editRune(%q, %q) = %q, want %q", tt.text, tt.key, got, tt.want)
		}
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd\n"
	if got := truncateToHeight(s, 2); got != "a\nb\n" {
		t.Errorf("truncateToHeight = %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("maxLines<=0 must return input unchanged, got %q", got)
	}
}

func TestTickRescheduled(t *testing.T) {
	app := NewApp(&fakeSession{}, &fakeNotifier{})
	_, cmd := app.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick must reschedule itself")
	}
}
