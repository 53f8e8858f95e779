package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/naveenspark/aula/internal/browser"
	"github.com/naveenspark/aula/internal/dashboard"
	"github.com/naveenspark/aula/internal/nav"
	"github.com/naveenspark/aula/pkg/client"
	"github.com/naveenspark/aula/pkg/domain"
)

const sidebarWidth = 26

// Options configures the App.
type Options struct {
	BaseURL     string
	DownloadDir string
	Version     string
	Log         *zap.Logger
}

// App is the root Bubbletea model.
type App struct {
	client  *client.Client
	opts    Options
	user    *domain.UserProfile
	roles   domain.RoleSet
	role    domain.Role
	menu    []nav.Entry
	current string // page path of the open view

	menuFocus  bool
	menuCursor int

	dash  dashboardModel
	pages map[string]pageModel
	web   map[string]webModel

	helpOpen   bool
	helpCursor int
	helpItems  []helpItem

	relogin bool
	latest  string
	width   int
	height  int
	frame   int // logo shimmer animation frame
}

// NewApp creates the TUI for an authenticated session.
func NewApp(c *client.Client, sess domain.Session, opts Options) App {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	roles := domain.ResolveRoles(sess.User)
	role := roles.Primary()

	pages := map[string]pageModel{
		nav.URLCourses: newPageModel(nav.URLCourses, c, roles, coursesSpec(c)).
			withForm("crear-curso", func() formSpec { return courseFormSpec(c) }),
		nav.URLGroups: newPageModel(nav.URLGroups, c, roles, groupsSpec(c, false)).
			withForm("crear-grupo", func() formSpec { return groupFormSpec(c) }),
		nav.URLClasses: newPageModel(nav.URLClasses, c, roles, classesSpec(c)).
			withForm("crear-clase", func() formSpec { return classFormSpec(c) }),
		nav.URLMaterials: newPageModel(nav.URLMaterials, c, roles, materialsSpec(c)).
			withForm("crear-material", func() formSpec { return materialFormSpec(c) }),
		nav.URLAttendance: newPageModel(nav.URLAttendance, c, roles, attendanceSpec(c)).
			withForm("crear-asistencia", func() formSpec { return attendanceFormSpec(c) }),
		nav.URLEvaluations: newPageModel(nav.URLEvaluations, c, roles, evaluationsSpec(c)).
			withForm("crear-evaluacion", func() formSpec { return evaluationFormSpec(c) }),
	}
	certs := newPageModel(nav.URLCertificates, c, roles, certificatesSpec(c))
	certs.downloadDir = opts.DownloadDir
	pages[nav.URLCertificates] = certs

	return App{
		client:    c,
		opts:      opts,
		user:      sess.User,
		roles:     roles,
		role:      role,
		menu:      nav.Flatten(nav.Filter(nav.Menu(), roles)),
		current:   nav.URLDashboard,
		dash:      newDashboardModel(dashboard.New(c, opts.Log), role),
		pages:     pages,
		web: map[string]webModel{
			nav.URLUsers:   {title: "Usuarios", url: opts.BaseURL + nav.URLUsers},
			nav.URLReports: {title: "Reportes", url: opts.BaseURL + nav.URLReports},
		},
		helpItems: helpItemsFor(opts.BaseURL),
	}
}

// SessionExpired reports whether the API rejected the stored token.
func (a App) SessionExpired() bool { return a.dash.state().Expired }

// ReloginRequested reports whether the user quit to sign in again.
func (a App) ReloginRequested() bool { return a.relogin }

func (a App) Init() tea.Cmd {
	return tea.Batch(a.dash.Init(), shimmerTickCmd(), checkVersion(a.opts.Version))
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + status(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width - sidebarWidth - 1, Height: msg.Height - 4}
		a.dash, _ = a.dash.Update(bodyMsg)
		for k, p := range a.pages {
			a.pages[k], _ = p.Update(bodyMsg)
		}
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case versionCheckMsg:
		if msg.hasUpdate {
			a.latest = msg.latestVersion
		}
		return a, nil

	case dashboardLoadedMsg:
		var cmd tea.Cmd
		a.dash, cmd = a.dash.Update(msg)
		if a.SessionExpired() {
			a.opts.Log.Info("session rejected by api")
		}
		return a, cmd

	case listLoadedMsg:
		page, _ := nav.SplitURL(msg.key)
		return a.updatePage(page, msg)

	case formSubmittedMsg:
		return a.updatePage(msg.page, msg)

	case certDownloadedMsg:
		return a.updatePage(msg.page, msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a App) updatePage(page string, msg tea.Msg) (tea.Model, tea.Cmd) {
	p, ok := a.pages[page]
	if !ok {
		return a, nil
	}
	var cmd tea.Cmd
	a.pages[page], cmd = p.Update(msg)
	return a, cmd
}

func (a App) isEditing() bool {
	p, ok := a.pages[a.current]
	return ok && p.editing()
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// Help overlay captures all keys when open
	if a.helpOpen {
		switch key {
		case "h", "?", "esc":
			a.helpOpen = false
		case "q":
			return a, tea.Quit
		case "j", "down":
			if a.helpCursor < len(a.helpItems)-1 {
				a.helpCursor++
			}
		case "k", "up":
			if a.helpCursor > 0 {
				a.helpCursor--
			}
		case "enter":
			if item := a.helpItems[a.helpCursor]; item.url != "" {
				browser.Open(item.url) //nolint:errcheck // best-effort browser open
			}
		}
		return a, nil
	}

	if a.isEditing() {
		return a.updatePage(a.current, msg)
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "h", "?":
		a.helpOpen = true
		a.helpCursor = 0
		return a, nil
	case "L":
		if a.SessionExpired() {
			a.relogin = true
			return a, tea.Quit
		}
	case "tab":
		a.menuFocus = !a.menuFocus
		if a.menuFocus {
			a.menuCursor = a.activeEntry()
		}
		return a, nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		top := a.topLevel()
		n := int(key[0] - '1')
		if n < len(top) {
			a.menuFocus = false
			return a.open(a.menu[top[n]].Item.URL)
		}
		return a, nil
	}

	if a.menuFocus {
		switch key {
		case "j", "down":
			if a.menuCursor < len(a.menu)-1 {
				a.menuCursor++
			}
		case "k", "up":
			if a.menuCursor > 0 {
				a.menuCursor--
			}
		case "enter", "l", "right":
			if a.menuCursor < len(a.menu) {
				a.menuFocus = false
				return a.open(a.menu[a.menuCursor].Item.URL)
			}
		case "esc":
			a.menuFocus = false
		}
		return a, nil
	}

	return a.routeKey(msg)
}

func (a App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case a.current == nav.URLDashboard:
		a.dash, cmd = a.dash.Update(msg)
	case a.web[a.current].url != "":
		a.web[a.current], cmd = a.web[a.current].Update(msg)
	default:
		return a.updatePage(a.current, msg)
	}
	return a, cmd
}

// open switches to the page of a menu URL and applies its fragment.
func (a App) open(url string) (tea.Model, tea.Cmd) {
	page, fragment := nav.SplitURL(url)
	if page == nav.URLDashboard {
		changed := a.current != page
		a.current = page
		if changed {
			return a, a.dash.load()
		}
		return a, nil
	}
	if _, ok := a.web[page]; ok {
		a.current = page
		return a, nil
	}
	p, ok := a.pages[page]
	if !ok {
		a.opts.Log.Debug("menu url has no view", zap.String("url", url))
		return a, nil
	}
	a.current = page
	var cmd tea.Cmd
	a.pages[page], cmd = p.open(fragment)
	return a, cmd
}

// topLevel returns menu indexes of depth-0 entries.
func (a App) topLevel() []int {
	var idx []int
	for i, e := range a.menu {
		if e.Depth == 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// activeEntry is the top-level entry of the open page, or 0.
func (a App) activeEntry() int {
	for i, e := range a.menu {
		if page, _ := nav.SplitURL(e.Item.URL); page == a.current {
			return i
		}
	}
	return 0
}

func (a App) renderMenu(height int) string {
	var b strings.Builder
	top := 0
	for i, e := range a.menu {
		num := "  "
		if e.Depth == 0 {
			top++
			if top <= 9 {
				num = fmt.Sprintf("%d ", top)
			}
		}
		text := strings.Repeat("  ", e.Depth)
		if e.Item.Icon != "" {
			text += e.Item.Icon + " "
		}
		text = truncStr(text+e.Item.Title, sidebarWidth-5)

		page, _ := nav.SplitURL(e.Item.URL)
		cursor := " "
		switch {
		case a.menuFocus && i == a.menuCursor:
			cursor = accentStyle.Render("▸")
			text = selectedStyle.Render(text)
		case e.Depth == 0 && page == a.current:
			text = accentStyle.Render(text)
		case e.Depth > 0:
			text = dimStyle.Render(text)
		default:
			text = normalStyle.Render(text)
		}
		b.WriteString(cursor + metaStyle.Render(num) + text + "\n")
	}
	return sidebarStyle.Width(sidebarWidth).Height(height).Render(strings.TrimRight(b.String(), "\n"))
}

func (a App) View() string {
	// Header: centered shimmer logo + who is signed in
	header := centerLine(renderShimmerLogo(a.frame), a.width)
	who := ""
	if a.user != nil {
		who = selectedStyle.Render(a.user.DisplayName()) + metaStyle.Render(" · ") +
			RoleStyle(a.role).Render(roleLabels[a.role])
	}
	if a.latest != "" {
		who += "  " + warnStyle.Render("nueva versión "+a.latest)
	}
	header += "\n" + centerLine(who, a.width)

	bodyHeight := a.height - 4
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body, help string
	switch {
	case a.helpOpen:
		body = helpView(a.helpItems, a.helpCursor)
		help = helpEntry("j/k", "mover") + "  " + helpEntry("enter", "abrir") + "  " + helpEntry("esc", "cerrar")
	case a.current == nav.URLDashboard:
		body = a.dash.View()
		help = helpEntry("r", "recargar")
	case a.web[a.current].url != "":
		body = a.web[a.current].View()
	default:
		p := a.pages[a.current]
		body = p.View()
		help = p.helpKeys()
	}
	if a.menuFocus {
		help = helpEntry("j/k", "mover") + "  " + helpEntry("enter", "abrir") + "  " + helpEntry("tab", "contenido")
	} else if !a.helpOpen && !a.isEditing() {
		if help != "" {
			help += "  "
		}
		help += helpEntry("1-9", "menú") + "  " + helpEntry("tab", "navegar") + "  " +
			helpEntry("h", "ayuda") + "  " + helpEntry("q", "salir")
	}

	body = strings.TrimRight(truncateToHeight(body, bodyHeight), "\n")
	content := lipgloss.JoinHorizontal(lipgloss.Top, a.renderMenu(bodyHeight), " ", body)
	content = strings.TrimRight(truncateToHeight(content, bodyHeight), "\n")

	status := ""
	if a.SessionExpired() {
		status = " " + errorStyle.Render(dashboard.MsgExpired) + "  " + helpEntry("L", "iniciar sesión")
	}

	return fmt.Sprintf("%s\n%s\n%s\n %s", header, content, status, help)
}
