package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/aula/internal/browser"
	"github.com/naveenspark/aula/internal/certificate"
	"github.com/naveenspark/aula/internal/nav"
	"github.com/naveenspark/aula/pkg/client"
	"github.com/naveenspark/aula/pkg/domain"
)

const msgForbiddenSection = "Tu rol no permite crear en esta sección."

type certDownloadedMsg struct {
	page string
	path string
	err  error
}

// pageModel is one menu page: a list, the in-page sections reachable by
// fragment, and an optional creation form.
type pageModel struct {
	url    string
	client *client.Client
	roles  domain.RoleSet
	router *nav.Router

	list   listModel
	loaded bool

	createFragment string
	newForm        func() formSpec
	form           formModel
	formOpen       bool

	downloadDir string // certificates only

	status    string
	statusErr bool
	width     int
	height    int
}

func newPageModel(url string, c *client.Client, roles domain.RoleSet, spec listSpec) pageModel {
	return pageModel{
		url:    url,
		client: c,
		roles:  roles,
		router: nav.NewRouter(roles),
		list:   newListModel(spec),
	}
}

// withForm attaches the creation form reachable at #fragment.
func (m pageModel) withForm(fragment string, spec func() formSpec) pageModel {
	m.createFragment = fragment
	m.newForm = spec
	return m
}

func (m pageModel) canCreate() bool {
	return m.newForm != nil && m.roles.Elevated()
}

// editing reports whether keys belong to a form.
func (m pageModel) editing() bool { return m.formOpen }

// open loads the list on first visit and applies fragment.
func (m pageModel) open(fragment string) (pageModel, tea.Cmd) {
	var cmds []tea.Cmd
	if !m.loaded {
		m.loaded = true
		var cmd tea.Cmd
		m.list, cmd = m.list.reload()
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m, cmd = m.navigate(fragment)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// navigate applies an in-page fragment. Creation fragments open the form
// only for elevated roles; everyone else stays where they were.
func (m pageModel) navigate(fragment string) (pageModel, tea.Cmd) {
	frag := strings.ToLower(strings.TrimPrefix(fragment, "#"))
	section := nav.ParseSection(frag)
	m.status, m.statusErr = "", false

	if section.Creates() || strings.HasPrefix(frag, "crear-") {
		if m.newForm == nil || frag != m.createFragment {
			m.status, m.statusErr = "Sección no disponible.", true
			return m, nil
		}
		if section.Creates() {
			if _, err := m.router.Enter(section); errors.Is(err, nav.ErrSectionForbidden) {
				m.status, m.statusErr = msgForbiddenSection, true
				return m, nil
			}
		} else if !m.roles.Elevated() {
			m.status, m.statusErr = msgForbiddenSection, true
			return m, nil
		}
		m.form = newFormModel(m.url, m.newForm())
		m.formOpen = true
		return m, nil
	}

	m.formOpen = false
	prev := m.router.Current()
	cur, _ := m.router.Enter(section)
	if m.url == nav.URLGroups && cur != prev {
		m.list = newListModel(groupsSpec(m.client, cur == nav.SectionHistory))
		m.list.width, m.list.height = m.width, m.height
		return m.reload()
	}
	return m, nil
}

func (m pageModel) reload() (pageModel, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.reload()
	return m, cmd
}

func (m pageModel) closeForm() pageModel {
	m.formOpen = false
	if m.router.Current().Creates() {
		m.router.Reset()
		if strings.HasSuffix(m.list.spec.key, "#"+nav.SectionHistory.Fragment()) {
			m.router.Enter(nav.SectionHistory) //nolint:errcheck
		}
	}
	return m
}

func (m pageModel) Update(msg tea.Msg) (pageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list, _ = m.list.Update(msg)
		return m, nil

	case listLoadedMsg:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd

	case formSubmittedMsg:
		if !m.formOpen {
			return m, nil
		}
		if msg.err == nil {
			m = m.closeForm()
			m.status, m.statusErr = msg.message, false
			return m.reload()
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd

	case certDownloadedMsg:
		if msg.err != nil {
			m.status, m.statusErr = downloadErr(msg.err), true
		} else {
			m.status, m.statusErr = "Certificado guardado en "+msg.path, false
		}
		return m, nil

	case tea.KeyMsg:
		if m.formOpen {
			if msg.String() == "esc" {
				m = m.closeForm()
				return m, nil
			}
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m pageModel) handleKey(msg tea.KeyMsg) (pageModel, tea.Cmd) {
	switch msg.String() {
	case "n":
		if m.newForm != nil {
			return m.navigate("#" + m.createFragment)
		}
	case "v":
		if m.url == nav.URLGroups {
			if m.router.Current() == nav.SectionHistory {
				return m.navigate("")
			}
			return m.navigate("#" + nav.SectionHistory.Fragment())
		}
	case "o":
		if row, ok := m.list.selected(); ok && row.link != "" {
			browser.Open(row.link) //nolint:errcheck // best-effort browser open
			m.status, m.statusErr = "Abriendo "+row.link, false
		}
		return m, nil
	case "d", "enter":
		if m.url == nav.URLCertificates {
			return m.download()
		}
	case "c":
		if m.url == nav.URLCertificates {
			return m.copyLink(), nil
		}
	}
	m.status = ""
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pageModel) download() (pageModel, tea.Cmd) {
	row, ok := m.list.selected()
	if !ok {
		return m, nil
	}
	c, dir, id, page := m.client, m.downloadDir, row.id.String(), m.url
	m.status, m.statusErr = "descargando "+certificate.FileName(id)+"...", false
	return m, func() tea.Msg {
		path, err := certificate.Download(context.Background(), c, dir, id)
		return certDownloadedMsg{page: page, path: path, err: err}
	}
}

func (m pageModel) copyLink() pageModel {
	row, ok := m.list.selected()
	if !ok {
		return m
	}
	text := row.link
	if text == "" {
		text = row.id.String()
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.status, m.statusErr = "No se pudo copiar al portapapeles.", true
		return m
	}
	m.status, m.statusErr = "Copiado: "+text, false
	return m
}

func downloadErr(err error) string {
	if errors.Is(err, certificate.ErrNotPDF) {
		return "El servidor no devolvió un PDF."
	}
	return describeErr(err)
}

func (m pageModel) View() string {
	var body string
	if m.formOpen {
		body = m.form.View()
	} else {
		body = m.list.View()
	}
	if m.status != "" {
		style := successStyle
		if m.statusErr {
			style = errorStyle
		}
		body += "\n " + style.Render(m.status)
	}
	return body
}

func (m pageModel) helpKeys() string {
	if m.formOpen {
		return helpEntry("tab", "siguiente") + "  " + helpEntry("←/→", "opción") + "  " +
			helpEntry("ctrl+s", "guardar") + "  " + helpEntry("esc", "cancelar")
	}
	keys := []string{helpEntry("j/k", "mover"), helpEntry("r", "recargar")}
	if m.canCreate() {
		keys = append(keys, helpEntry("n", "crear"))
	}
	switch m.url {
	case nav.URLGroups:
		keys = append(keys, helpEntry("v", "historial"))
	case nav.URLCertificates:
		keys = append(keys, helpEntry("d", "descargar"), helpEntry("c", "copiar enlace"))
	case nav.URLClasses, nav.URLMaterials:
		keys = append(keys, helpEntry("o", "abrir"))
	}
	return strings.Join(keys, "  ")
}

// webModel stands in for pages managed only from the web app.
type webModel struct {
	title string
	url   string
}

func (m webModel) Update(msg tea.Msg) (webModel, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && (k.String() == "enter" || k.String() == "o") {
		browser.Open(m.url) //nolint:errcheck // best-effort browser open
	}
	return m, nil
}

func (m webModel) View() string {
	return " " + sectionHeaderStyle.Render(m.title) + "\n\n" +
		" " + dimStyle.Render("Esta sección se gestiona desde la web:") + "\n" +
		" " + accentStyle.Render(m.url) + "\n\n" +
		" " + helpEntry("enter", "abrir en el navegador") + "\n"
}
