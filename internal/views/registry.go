// Package views maps each role to the dashboard it sees: the endpoint it
// loads from and the cards, chart, and table drawn from the payload.
package views

import "github.com/naveenspark/aula/pkg/domain"

// Format selects how a payload value is rendered.
type Format int

const (
	FormatCount Format = iota
	FormatPercent
	FormatScore
	FormatDate
	FormatText
)

type cardDef struct {
	Title  string
	Icon   string
	Path   string
	Format Format
}

type chartDef struct {
	Title    string
	Path     string
	LabelKey string
	ValueKey string
	Unit     string
}

// Column is one table column read from a row object.
type Column struct {
	Header string
	Key    string
	Width  int
	Format Format
}

type tableDef struct {
	Title   string
	Path    string
	Columns []Column
	Empty   string
}

// Config is the dashboard definition of one role.
type Config struct {
	Endpoint string
	Heading  string
	cards    []cardDef
	chart    chartDef
	table    tableDef
}

// Registry is the role to dashboard table. Every lookup falls back to the
// student entry.
type Registry map[domain.Role]Config

// Default is the application registry.
var Default = Registry{
	domain.RoleAdmin: {
		Endpoint: "/api/admin/dashboard",
		Heading:  "Panel de administración",
		cards: []cardDef{
			{Title: "Estudiantes", Icon: "◉", Path: "stats.total_students"},
			{Title: "Docentes", Icon: "◈", Path: "stats.total_teachers"},
			{Title: "Cursos", Icon: "▤", Path: "stats.total_courses"},
			{Title: "Grupos activos", Icon: "◎", Path: "stats.active_groups"},
		},
		chart: chartDef{
			Title: "Matrículas por mes", Path: "enrollment_trend",
			LabelKey: "month", ValueKey: "count",
		},
		table: tableDef{
			Title: "Actividad reciente", Path: "recent_activity",
			Columns: []Column{
				{Header: "Usuario", Key: "user", Width: 20, Format: FormatText},
				{Header: "Acción", Key: "action", Width: 30, Format: FormatText},
				{Header: "Fecha", Key: "date", Width: 12, Format: FormatDate},
			},
			Empty: "Sin actividad reciente",
		},
	},
	domain.RoleTeacher: {
		Endpoint: "/api/teacher/dashboard",
		Heading:  "Panel docente",
		cards: []cardDef{
			{Title: "Mis grupos", Icon: "◎", Path: "stats.total_groups"},
			{Title: "Estudiantes", Icon: "◉", Path: "stats.total_students"},
			{Title: "Por calificar", Icon: "✎", Path: "stats.pending_evaluations"},
			{Title: "Asistencia", Icon: "✓", Path: "stats.attendance_rate", Format: FormatPercent},
		},
		chart: chartDef{
			Title: "Asistencia semanal", Path: "attendance_trend",
			LabelKey: "week", ValueKey: "rate", Unit: "%",
		},
		table: tableDef{
			Title: "Próximas clases", Path: "upcoming_classes",
			Columns: []Column{
				{Header: "Clase", Key: "title", Width: 26, Format: FormatText},
				{Header: "Grupo", Key: "group", Width: 16, Format: FormatText},
				{Header: "Fecha", Key: "date", Width: 12, Format: FormatDate},
			},
			Empty: "No hay clases programadas",
		},
	},
	domain.RoleStudent: {
		Endpoint: "/api/student/dashboard",
		Heading:  "Mi aula",
		cards: []cardDef{
			{Title: "Cursos", Icon: "▤", Path: "stats.enrolled_courses"},
			{Title: "Promedio", Icon: "★", Path: "stats.average_score", Format: FormatScore},
			{Title: "Asistencia", Icon: "✓", Path: "stats.attendance_rate", Format: FormatPercent},
			{Title: "Certificados", Icon: "◆", Path: "stats.certificates"},
		},
		chart: chartDef{
			Title: "Notas por curso", Path: "grades_trend",
			LabelKey: "course", ValueKey: "score",
		},
		table: tableDef{
			Title: "Próximas evaluaciones", Path: "upcoming_evaluations",
			Columns: []Column{
				{Header: "Evaluación", Key: "title", Width: 26, Format: FormatText},
				{Header: "Curso", Key: "course", Width: 18, Format: FormatText},
				{Header: "Fecha", Key: "due_date", Width: 12, Format: FormatDate},
			},
			Empty: "No hay evaluaciones pendientes",
		},
	},
}

// Lookup returns the entry for role, or the student entry.
func (r Registry) Lookup(role domain.Role) Config {
	if c, ok := r[role]; ok {
		return c
	}
	return r[domain.RoleStudent]
}

// Endpoint returns the dashboard path for role.
func (r Registry) Endpoint(role domain.Role) string {
	return r.Lookup(role).Endpoint
}

// Endpoint is Default.Endpoint.
func Endpoint(role domain.Role) string { return Default.Endpoint(role) }
