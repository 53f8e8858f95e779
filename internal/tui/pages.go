package tui

import (
	"context"
	"fmt"

	"github.com/naveenspark/aula/internal/nav"
	"github.com/naveenspark/aula/internal/views"
	"github.com/naveenspark/aula/pkg/client"
	"github.com/naveenspark/aula/pkg/domain"
)

var (
	courseColumns = []views.Column{
		{Header: "Curso", Width: 30},
		{Header: "Categoría", Width: 16},
		{Header: "Nivel", Width: 12},
		{Header: "Horas", Width: 6},
	}
	groupColumns = []views.Column{
		{Header: "Grupo", Width: 18},
		{Header: "Curso", Width: 24},
		{Header: "Docente", Width: 18},
		{Header: "Alumnos", Width: 8},
		{Header: "Periodo", Width: 24},
	}
	classColumns = []views.Column{
		{Header: "Clase", Width: 28},
		{Header: "Fecha", Width: 12},
		{Header: "Horario", Width: 13},
		{Header: "Tema", Width: 24},
	}
	materialColumns = []views.Column{
		{Header: "Material", Width: 30},
		{Header: "Tipo", Width: 10},
		{Header: "Enlace", Width: 36},
	}
	evaluationColumns = []views.Column{
		{Header: "Evaluación", Width: 28},
		{Header: "Tipo", Width: 12},
		{Header: "Fecha", Width: 12},
		{Header: "Nota", Width: 10},
	}
	attendanceColumns = []views.Column{
		{Header: "Estudiante", Width: 26},
		{Header: "Estado", Width: 12},
		{Header: "Fecha", Width: 12},
		{Header: "Notas", Width: 24},
	}
	certificateColumns = []views.Column{
		{Header: "Credencial", Width: 20},
		{Header: "Curso", Width: 30},
		{Header: "Emitido", Width: 12},
	}
)

// Spanish labels for API enums.
var (
	statusLabels = map[string]string{
		"present":  "presente",
		"absent":   "ausente",
		"late":     "tardanza",
		"excused":  "justificado",
		"active":   "activo",
		"finished": "finalizado",
	}
	typeLabels = map[string]string{
		"exam":       "examen",
		"assignment": "tarea",
		"project":    "proyecto",
		"quiz":       "práctica",
		"pdf":        "pdf",
		"video":      "video",
		"link":       "enlace",
		"document":   "documento",
	}
)

func label(labels map[string]string, v string) string {
	if l, ok := labels[v]; ok {
		return l
	}
	return v
}

func coursesSpec(c *client.Client) listSpec {
	return listSpec{
		key:     nav.URLCourses,
		title:   "Catálogo de cursos",
		columns: courseColumns,
		empty:   "No hay cursos publicados.",
		load: func(ctx context.Context) ([]listRow, error) {
			courses, err := c.ListCourses(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]listRow, 0, len(courses))
			for _, co := range courses {
				hours := ""
				if co.DurationHrs > 0 {
					hours = fmt.Sprintf("%d", co.DurationHrs)
				}
				rows = append(rows, listRow{id: co.ID, cells: []string{co.Name, co.Category, co.Level, hours}})
			}
			return rows, nil
		},
	}
}

func groupsSpec(c *client.Client, history bool) listSpec {
	spec := listSpec{
		key:     nav.URLGroups,
		title:   "Mis grupos",
		columns: groupColumns,
		empty:   "No tienes grupos activos.",
	}
	list := c.ListGroups
	if history {
		spec.key = nav.URLGroups + "#" + nav.SectionHistory.Fragment()
		spec.title = "Historial de grupos"
		spec.empty = "No hay grupos finalizados."
		list = c.GroupHistory
	}
	spec.load = func(ctx context.Context) ([]listRow, error) {
		groups, err := list(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]listRow, 0, len(groups))
		for _, g := range groups {
			period := g.StartDate
			if g.EndDate != "" {
				period += " → " + g.EndDate
			}
			rows = append(rows, listRow{id: g.ID, cells: []string{
				g.Name, g.CourseName, g.TeacherName, fmt.Sprintf("%d", g.StudentCount), period,
			}})
		}
		return rows, nil
	}
	return spec
}

func classesSpec(c *client.Client) listSpec {
	return listSpec{
		key:     nav.URLClasses,
		title:   "Clases",
		columns: classColumns,
		empty:   "No hay clases programadas.",
		load: func(ctx context.Context) ([]listRow, error) {
			classes, err := c.ListClasses(ctx, "")
			if err != nil {
				return nil, err
			}
			rows := make([]listRow, 0, len(classes))
			for _, cl := range classes {
				schedule := cl.StartTime
				if cl.EndTime != "" {
					schedule += "-" + cl.EndTime
				}
				rows = append(rows, listRow{id: cl.ID, link: cl.MeetURL, cells: []string{cl.Title, cl.Date, schedule, cl.Topic}})
			}
			return rows, nil
		},
	}
}

func materialsSpec(c *client.Client) listSpec {
	return listSpec{
		key:     nav.URLMaterials,
		title:   "Materiales",
		columns: materialColumns,
		empty:   "Aún no hay materiales.",
		load: func(ctx context.Context) ([]listRow, error) {
			materials, err := c.ListMaterials(ctx, "")
			if err != nil {
				return nil, err
			}
			rows := make([]listRow, 0, len(materials))
			for _, m := range materials {
				rows = append(rows, listRow{id: m.ID, link: m.URL, cells: []string{m.Title, label(typeLabels, m.Type), m.URL}})
			}
			return rows, nil
		},
	}
}

func evaluationsSpec(c *client.Client) listSpec {
	return listSpec{
		key:     nav.URLEvaluations,
		title:   "Evaluaciones",
		columns: evaluationColumns,
		empty:   "No hay evaluaciones.",
		load: func(ctx context.Context) ([]listRow, error) {
			evals, err := c.ListEvaluations(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]listRow, 0, len(evals))
			for _, e := range evals {
				score := "-"
				if e.Score != nil {
					score = fmt.Sprintf("%.1f/%.0f", *e.Score, e.MaxScore)
				}
				rows = append(rows, listRow{id: e.ID, cells: []string{e.Title, label(typeLabels, e.Type), e.DueDate, score}})
			}
			return rows, nil
		},
	}
}

func attendanceSpec(c *client.Client) listSpec {
	return listSpec{
		key:     nav.URLAttendance,
		title:   "Asistencia",
		columns: attendanceColumns,
		empty:   "Sin registros de asistencia.",
		load: func(ctx context.Context) ([]listRow, error) {
			records, err := c.ListAttendances(ctx, "")
			if err != nil {
				return nil, err
			}
			rows := make([]listRow, 0, len(records))
			for _, r := range records {
				rows = append(rows, listRow{id: r.ID, cells: []string{
					r.StudentName, label(statusLabels, r.Status), r.Date, r.Notes,
				}})
			}
			return rows, nil
		},
	}
}

func certificatesSpec(c *client.Client) listSpec {
	return listSpec{
		key:     nav.URLCertificates,
		title:   "Certificados",
		columns: certificateColumns,
		empty:   "Todavía no tienes certificados.",
		load: func(ctx context.Context) ([]listRow, error) {
			certs, err := c.ListCertificates(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]listRow, 0, len(certs))
			for _, ct := range certs {
				rows = append(rows, listRow{
					id:    domain.ID(ct.CredentialID),
					link:  ct.VerifyURL,
					cells: []string{ct.CredentialID, ct.CourseName, ct.IssuedAt},
				})
			}
			return rows, nil
		},
	}
}
