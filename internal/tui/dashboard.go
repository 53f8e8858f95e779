package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/aula/internal/dashboard"
	"github.com/naveenspark/aula/internal/views"
	"github.com/naveenspark/aula/pkg/domain"
)

// dashboardLoadedMsg carries one dashboard request result, tagged with the
// sequence number Begin handed out.
type dashboardLoadedMsg struct {
	seq     uint64
	payload *domain.DashboardPayload
	err     error
}

// dashboardModel renders the role-specific dashboard. Request state lives
// in the fetcher so stale responses are dropped in one place.
type dashboardModel struct {
	fetcher  *dashboard.Fetcher
	registry views.Registry
	role     domain.Role
	width    int
	height   int
}

func newDashboardModel(f *dashboard.Fetcher, role domain.Role) dashboardModel {
	return dashboardModel{fetcher: f, registry: views.Default, role: role}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.load()
}

// load starts a request and returns the command that completes it.
func (m dashboardModel) load() tea.Cmd {
	f := m.fetcher
	role := m.role
	seq := f.Begin(role)
	return func() tea.Msg {
		p, err := f.Fetch(context.Background(), role)
		return dashboardLoadedMsg{seq: seq, payload: p, err: err}
	}
}

func (m dashboardModel) state() dashboard.State {
	return m.fetcher.State()
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case dashboardLoadedMsg:
		m.fetcher.Resolve(msg.seq, msg.payload, msg.err)

	case tea.KeyMsg:
		if msg.String() == "r" && !m.state().Loading() {
			return m, m.load()
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	st := m.state()
	cfg := m.registry.Lookup(m.role)

	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render(cfg.Heading) + "\n\n")

	switch st.Phase {
	case dashboard.PhaseIdle, dashboard.PhaseLoading:
		b.WriteString(" " + dimStyle.Render("cargando panel...") + "\n")
		return b.String()
	case dashboard.PhaseError:
		b.WriteString(" " + errorStyle.Render(st.Message) + "\n\n")
		if st.Expired {
			b.WriteString(" " + helpEntry("L", "volver a iniciar sesión") + "  ")
		}
		b.WriteString(helpEntry("r", "reintentar") + "\n")
		return b.String()
	}

	width := m.width
	if width <= 0 {
		width = 100
	}

	b.WriteString(m.renderCards(m.registry.SelectCards(m.role, st.Payload), width))
	b.WriteString("\n\n")
	b.WriteString(m.renderChart(m.registry.SelectChart(m.role, st.Payload), width))
	b.WriteString("\n")

	table := m.registry.SelectTable(m.role, st.Payload)
	b.WriteString(" " + metaStyle.Render(table.Title) + "\n")
	if len(table.Rows) == 0 {
		b.WriteString(" " + dimStyle.Render(table.Empty) + "\n")
	} else {
		b.WriteString(renderTable(table.Columns, table.Rows, -1, width-4))
	}
	return b.String()
}

const cardWidth = 22

func (m dashboardModel) renderCards(cards []views.CardSpec, width int) string {
	perRow := width / (cardWidth + 2)
	if perRow < 1 {
		perRow = 1
	}
	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := start + perRow
		if end > len(cards) {
			end = len(cards)
		}
		var boxes []string
		for _, c := range cards[start:end] {
			title := truncStr(c.Icon+" "+c.Title, cardWidth-4)
			boxes = append(boxes, cardStyle.Width(cardWidth).Render(
				metaStyle.Render(title)+"\n"+cardValueStyle.Render(c.Value)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m dashboardModel) renderChart(chart views.ChartSpec, width int) string {
	var b strings.Builder
	b.WriteString(" " + metaStyle.Render(chart.Title) + "\n")
	if len(chart.Points) == 0 {
		b.WriteString(" " + dimStyle.Render("Sin datos para mostrar.") + "\n")
		return b.String()
	}

	const labelWidth = 12
	barMax := width - labelWidth - 14
	if barMax < 5 {
		barMax = 5
	}
	peak := chart.Max()
	for _, p := range chart.Points {
		n := 0
		if peak > 0 && p.Value > 0 {
			n = int(p.Value / peak * float64(barMax))
			if n == 0 {
				n = 1
			}
		}
		value := trimNumber(p.Value) + chart.Unit
		fmt.Fprintf(&b, " %s %s %s\n",
			dimStyle.Render(padRight(truncStr(p.Label, labelWidth), labelWidth)),
			barStyle.Render(strings.Repeat("█", n)),
			normalStyle.Render(value))
	}
	return b.String()
}

func trimNumber(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}
