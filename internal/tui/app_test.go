package tui

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/naveenspark/aula/internal/dashboard"
	"github.com/naveenspark/aula/internal/nav"
	"github.com/naveenspark/aula/pkg/client"
	"github.com/naveenspark/aula/pkg/domain"
)

func testSession(roles ...string) domain.Session {
	return domain.Session{
		Token: uuid.NewString(),
		User: &domain.UserProfile{
			ID:        "7",
			Email:     "ana@colegio.pe",
			FirstName: "Ana",
			LastName:  "Quispe",
			Role:      domain.MultiRole(roles...),
		},
	}
}

func newTestApp(t *testing.T, roles ...string) App {
	t.Helper()
	a := NewApp(nil, testSession(roles...), Options{BaseURL: "https://colegio.pe", DownloadDir: t.TempDir()})
	model, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	return model.(App)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(a App, keys ...string) (App, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var m tea.Model
		m, cmd = a.Update(keyMsg(k))
		a = m.(App)
	}
	return a, cmd
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func TestAppStudentMenuHidesCreationAndAdmin(t *testing.T) {
	view := newTestApp(t, "estudiante").View()

	for _, hidden := range []string{"Crear curso", "Nuevo material", "Nueva evaluación", "Gestión de Grupos", "Usuarios", "Reportes"} {
		if strings.Contains(view, hidden) {
			t.Errorf("student view shows %q", hidden)
		}
	}
	if !containsAll(view, "Dashboard", "Catálogo", "Historial", "Certificados") {
		t.Errorf("student view missing base entries:\n%s", view)
	}
}

func TestAppAdminMenuShowsEverything(t *testing.T) {
	view := newTestApp(t, "admin").View()
	if !containsAll(view, "Crear curso", "Gestión de Grupos", "Usuarios", "Reportes") {
		t.Errorf("admin view missing entries:\n%s", view)
	}
}

func TestAppTeacherMenuKeepsCreationButNotAdmin(t *testing.T) {
	view := newTestApp(t, "docente").View()
	if !containsAll(view, "Crear curso", "Nueva clase") {
		t.Errorf("teacher view missing creation entries")
	}
	if strings.Contains(view, "Usuarios") {
		t.Error("teacher view shows admin-only entry")
	}
}

func TestAppHeaderShowsUserAndRole(t *testing.T) {
	view := newTestApp(t, "teacher").View()
	if !containsAll(view, "Ana Quispe", "docente") {
		t.Errorf("header missing user or role:\n%s", view)
	}
}

func TestAppNumberKeysOpenTopLevelEntries(t *testing.T) {
	a := newTestApp(t, "student")
	a, cmd := press(a, "2")
	if a.current != nav.URLCourses {
		t.Fatalf("current = %q, want %q", a.current, nav.URLCourses)
	}
	if cmd == nil {
		t.Error("expected list load command on first visit")
	}
	if !strings.Contains(a.View(), "Catálogo de cursos") {
		t.Error("courses page not rendered")
	}

	a, _ = press(a, "1")
	if a.current != nav.URLDashboard {
		t.Errorf("current = %q, want dashboard", a.current)
	}
}

func TestAppMenuFocusOpensCreationForm(t *testing.T) {
	a := newTestApp(t, "docente")
	// Dashboard, Cursos, Catálogo, Crear curso
	a, _ = press(a, "tab", "j", "j", "j", "enter")

	if a.current != nav.URLCourses {
		t.Fatalf("current = %q, want %q", a.current, nav.URLCourses)
	}
	p := a.pages[nav.URLCourses]
	if !p.formOpen {
		t.Fatal("expected course form open")
	}
	if p.router.Current() != nav.SectionCreateCourse {
		t.Errorf("section = %v, want %v", p.router.Current(), nav.SectionCreateCourse)
	}
	if !strings.Contains(a.View(), "Nivel") {
		t.Error("form fields not rendered")
	}
}

func TestAppStudentCannotOpenCreationForm(t *testing.T) {
	a := newTestApp(t, "student")
	a, _ = press(a, "2", "n")

	p := a.pages[nav.URLCourses]
	if p.formOpen {
		t.Fatal("student opened the creation form")
	}
	if p.router.Current() != nav.SectionDefault {
		t.Errorf("section = %v, want default", p.router.Current())
	}
	if !strings.Contains(a.View(), msgForbiddenSection) {
		t.Error("forbidden notice not shown")
	}
}

func TestAppEditingFormCapturesGlobalKeys(t *testing.T) {
	a := newTestApp(t, "docente")
	a, _ = press(a, "2", "n")
	a, cmd := press(a, "q", "1")

	if cmd != nil {
		t.Error("keys typed into a form must not quit or switch pages")
	}
	if a.current != nav.URLCourses {
		t.Errorf("current = %q, want courses", a.current)
	}
	if got := a.pages[nav.URLCourses].form.fields[0].value; got != "q1" {
		t.Errorf("field value = %q, want %q", got, "q1")
	}

	a, _ = press(a, "esc")
	if a.pages[nav.URLCourses].formOpen {
		t.Error("esc should close the form")
	}
}

func TestAppDashboardSuccess(t *testing.T) {
	a := newTestApp(t, "teacher")
	seq := a.dash.fetcher.Begin(a.role)
	payload := domain.NewDashboardPayload(map[string]any{
		"stats": map[string]any{"total_groups": 3, "attendance_rate": 92.5},
	})

	m, _ := a.Update(dashboardLoadedMsg{seq: seq, payload: payload})
	view := m.(App).View()
	if !containsAll(view, "Panel docente", "92.5%") {
		t.Errorf("dashboard not rendered:\n%s", view)
	}
}

func TestAppDashboardExpiredOffersRelogin(t *testing.T) {
	a := newTestApp(t, "teacher")
	seq := a.dash.fetcher.Begin(a.role)

	m, _ := a.Update(dashboardLoadedMsg{seq: seq, err: &client.HTTPError{StatusCode: http.StatusUnauthorized}})
	a = m.(App)
	if !a.SessionExpired() {
		t.Fatal("expected SessionExpired after 401")
	}
	if !strings.Contains(a.View(), dashboard.MsgExpired) {
		t.Error("expired message not shown")
	}

	a, cmd := press(a, "L")
	if !a.ReloginRequested() || cmd == nil {
		t.Error("L should request relogin and quit")
	}
}

func TestAppReloginIgnoredWhileSessionValid(t *testing.T) {
	a, cmd := press(newTestApp(t, "student"), "L")
	if a.ReloginRequested() || cmd != nil {
		t.Error("L must do nothing while the session is valid")
	}
}

func TestAppDashboardNetworkError(t *testing.T) {
	a := newTestApp(t, "student")
	seq := a.dash.fetcher.Begin(a.role)
	m, _ := a.Update(dashboardLoadedMsg{seq: seq, err: errors.New("dial tcp: connection refused")})
	a = m.(App)
	if a.SessionExpired() {
		t.Error("network error must not expire the session")
	}
	if !strings.Contains(a.View(), dashboard.MsgNetwork) {
		t.Error("network message not shown")
	}
}

func TestAppListResultRoutedToOwningPage(t *testing.T) {
	a := newTestApp(t, "student")
	a, _ = press(a, "2", "1") // visit courses, back to dashboard

	m, _ := a.Update(listLoadedMsg{key: nav.URLCourses, rows: []listRow{
		{id: "1", cells: []string{"Álgebra", "Matemática", "basico", "40"}},
	}})
	a = m.(App)
	if got := len(a.pages[nav.URLCourses].list.rows); got != 1 {
		t.Fatalf("courses rows = %d, want 1", got)
	}

	a, _ = press(a, "2")
	if !strings.Contains(a.View(), "Álgebra") {
		t.Error("loaded course not rendered")
	}
}

func TestAppHelpOverlay(t *testing.T) {
	a, _ := press(newTestApp(t, "student"), "h")
	if !a.helpOpen {
		t.Fatal("expected help open")
	}
	if !containsAll(a.View(), "Teclas", "colegio.pe") {
		t.Error("help overlay not rendered")
	}
	a, _ = press(a, "esc")
	if a.helpOpen {
		t.Error("esc should close help")
	}
}

func TestAppQuitOnQ(t *testing.T) {
	_, cmd := press(newTestApp(t, "student"), "q")
	if cmd == nil {
		t.Fatal("expected quit command on 'q', got nil")
	}
}

func TestAppWebOnlyPage(t *testing.T) {
	a := newTestApp(t, "admin")
	m, _ := a.open(nav.URLUsers)
	view := m.(App).View()
	if !containsAll(view, "Esta sección se gestiona desde la web", "https://colegio.pe/usuarios") {
		t.Errorf("web page not rendered:\n%s", view)
	}
}
