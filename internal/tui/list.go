package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/aula/internal/views"
	"github.com/naveenspark/aula/pkg/domain"
)

// listRow is one rendered entity. link, when set, opens with "o".
type listRow struct {
	id    domain.ID
	cells []string
	link  string
}

// listSpec describes what a list shows and how it loads.
type listSpec struct {
	key     string
	title   string
	columns []views.Column
	empty   string
	load    func(ctx context.Context) ([]listRow, error)
}

type listLoadedMsg struct {
	key  string
	rows []listRow
	err  error
}

type listModel struct {
	spec    listSpec
	rows    []listRow
	cursor  int
	loading bool
	err     string
	width   int
	height  int
}

func newListModel(spec listSpec) listModel {
	return listModel{spec: spec}
}

// reload marks the list loading and returns the fetch command.
func (m listModel) reload() (listModel, tea.Cmd) {
	if m.spec.load == nil {
		return m, nil
	}
	m.loading = true
	load := m.spec.load
	key := m.spec.key
	return m, func() tea.Msg {
		rows, err := load(context.Background())
		return listLoadedMsg{key: key, rows: rows, err: err}
	}
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case listLoadedMsg:
		if msg.key != m.spec.key {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = describeErr(msg.err)
			return m, nil
		}
		m.err = ""
		m.rows = msg.rows
		if m.cursor >= len(m.rows) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			if len(m.rows) > 0 {
				m.cursor = len(m.rows) - 1
			}
		case "r":
			return m.reload()
		}
	}
	return m, nil
}

func (m listModel) selected() (listRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return listRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m listModel) View() string {
	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render(m.spec.title) + "\n\n")

	if m.loading && len(m.rows) == 0 {
		b.WriteString(" " + dimStyle.Render("cargando...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
		b.WriteString(" " + dimStyle.Render("r para reintentar") + "\n")
		return b.String()
	}
	if len(m.rows) == 0 {
		b.WriteString(" " + dimStyle.Render(m.spec.empty) + "\n")
		return b.String()
	}

	cells := make([][]string, len(m.rows))
	for i, r := range m.rows {
		cells[i] = r.cells
	}
	width := m.width
	if width <= 0 {
		width = 100
	}
	b.WriteString(renderTable(m.spec.columns, cells, m.cursor, width-4))
	return b.String()
}
