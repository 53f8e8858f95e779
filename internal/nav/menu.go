// Package nav holds the application menu, the role filter applied to it, and
// the in-page section router.
package nav

import "github.com/naveenspark/aula/pkg/domain"

// Page URLs.
const (
	URLDashboard    = "/dashboard"
	URLCourses      = "/cursos"
	URLGroups       = "/grupos"
	URLClasses      = "/clases"
	URLMaterials    = "/materiales"
	URLAttendance   = "/asistencia"
	URLEvaluations  = "/evaluaciones"
	URLCertificates = "/certificados"
	URLUsers        = "/usuarios"
	URLReports      = "/reportes"
)

var menu = []domain.NavItem{
	{Title: "Dashboard", URL: URLDashboard, Icon: "◆"},
	{Title: "Cursos", URL: URLCourses, Icon: "▤", Items: []domain.NavItem{
		{Title: "Catálogo", URL: URLCourses},
		{Title: "Crear curso", URL: URLCourses + "#crear-curso"},
	}},
	{Title: "Grupos", URL: URLGroups, Icon: "◎", Items: []domain.NavItem{
		{Title: "Mis grupos", URL: URLGroups},
		{Title: "Historial", URL: URLGroups + "#historial"},
	}},
	{Title: "Gestión de Grupos", URL: URLGroups, Icon: "⚙", Items: []domain.NavItem{
		{Title: "Crear grupo", URL: URLGroups + "#crear-grupo"},
		{Title: "Nueva clase", URL: URLClasses + "#crear-clase"},
	}},
	{Title: "Clases", URL: URLClasses, Icon: "▦"},
	{Title: "Materiales", URL: URLMaterials, Icon: "▣", Items: []domain.NavItem{
		{Title: "Ver materiales", URL: URLMaterials},
		{Title: "Nuevo material", URL: URLMaterials + "#crear-material"},
	}},
	{Title: "Asistencia", URL: URLAttendance, Icon: "✓"},
	{Title: "Evaluaciones", URL: URLEvaluations, Icon: "✎", Items: []domain.NavItem{
		{Title: "Mis evaluaciones", URL: URLEvaluations},
		{Title: "Nueva evaluación", URL: URLEvaluations + "#crear-evaluacion"},
	}},
	{Title: "Certificados", URL: URLCertificates, Icon: "★"},
	{Title: "Usuarios", URL: URLUsers, Icon: "☰", AdminOnly: true},
	{Title: "Reportes", URL: URLReports, Icon: "▲", AdminOnly: true},
}

// Menu returns a fresh copy of the application menu.
func Menu() []domain.NavItem {
	return clone(menu)
}

func clone(items []domain.NavItem) []domain.NavItem {
	if items == nil {
		return nil
	}
	out := make([]domain.NavItem, len(items))
	for i, it := range items {
		out[i] = it
		out[i].Items = clone(it.Items)
	}
	return out
}

// Entry is a flattened menu row.
type Entry struct {
	Item  domain.NavItem
	Depth int
}

// Flatten walks the tree depth-first.
func Flatten(items []domain.NavItem) []Entry {
	var out []Entry
	var walk func([]domain.NavItem, int)
	walk = func(items []domain.NavItem, depth int) {
		for _, it := range items {
			out = append(out, Entry{Item: it, Depth: depth})
			walk(it.Items, depth+1)
		}
	}
	walk(items, 0)
	return out
}
