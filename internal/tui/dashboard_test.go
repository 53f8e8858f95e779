package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/aula/internal/dashboard"
	"github.com/naveenspark/aula/internal/views"
	"github.com/naveenspark/aula/pkg/domain"
)

func newTestDashboard(role domain.Role) dashboardModel {
	m := newDashboardModel(dashboard.New(nil, nil), role)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 110, Height: 40})
	return m
}

func TestDashboardLoadingView(t *testing.T) {
	m := newTestDashboard(domain.RoleStudent)
	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init returned no command")
	}
	if !m.state().Loading() {
		t.Error("expected loading after Init")
	}
	if !containsAll(m.View(), "Mi aula", "cargando panel") {
		t.Errorf("view = %q", m.View())
	}
}

func TestDashboardStaleResultDropped(t *testing.T) {
	m := newTestDashboard(domain.RoleTeacher)
	first := m.fetcher.Begin(domain.RoleTeacher)
	m.load()

	m, _ = m.Update(dashboardLoadedMsg{seq: first, payload: domain.NewDashboardPayload(nil)})
	if !m.state().Loading() {
		t.Error("stale result replaced the in-flight request")
	}
}

func TestDashboardStudentView(t *testing.T) {
	m := newTestDashboard(domain.RoleStudent)
	seq := m.fetcher.Begin(domain.RoleStudent)
	m, _ = m.Update(dashboardLoadedMsg{seq: seq, payload: domain.NewDashboardPayload(map[string]any{
		"stats": map[string]any{"enrolled_courses": 2, "average_score": 15.26},
		"grades_trend": []any{
			map[string]any{"course": "Álgebra", "score": 16},
			map[string]any{"course": "Física", "score": 12},
		},
	})})

	view := m.View()
	if !containsAll(view, "15.3", "Álgebra", "Física", "█") {
		t.Errorf("student dashboard incomplete:\n%s", view)
	}
}

func TestDashboardEmptyPayload(t *testing.T) {
	m := newTestDashboard(domain.RoleAdmin)
	seq := m.fetcher.Begin(domain.RoleAdmin)
	m, _ = m.Update(dashboardLoadedMsg{seq: seq})

	view := m.View()
	if !containsAll(view, "Panel de administración", "Sin datos para mostrar.") {
		t.Errorf("empty dashboard:\n%s", view)
	}
}

func TestDashboardRetryKey(t *testing.T) {
	m := newTestDashboard(domain.RoleStudent)
	seq := m.fetcher.Begin(domain.RoleStudent)
	m, _ = m.Update(dashboardLoadedMsg{seq: seq, err: &testNetErr{}})

	if !strings.Contains(m.View(), "reintentar") {
		t.Error("retry hint missing")
	}
	_, cmd := m.Update(keyMsg("r"))
	if cmd == nil {
		t.Fatal("r should retry")
	}
	if st := m.state(); !st.Loading() || st.Seq != seq+1 {
		t.Errorf("state after retry = %+v", st)
	}
}

func TestRenderCardsWraps(t *testing.T) {
	m := newTestDashboard(domain.RoleTeacher)
	cards := []views.CardSpec{{Title: "A", Value: "1"}, {Title: "B", Value: "2"}, {Title: "C", Value: "3"}}
	narrow := m.renderCards(cards, 30)
	wide := m.renderCards(cards, 120)
	if strings.Count(narrow, "\n") <= strings.Count(wide, "\n") {
		t.Error("narrow layout should stack cards")
	}
}

type testNetErr struct{}

func (*testNetErr) Error() string { return "connection reset" }
