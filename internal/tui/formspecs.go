package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/naveenspark/aula/internal/forms"
	"github.com/naveenspark/aula/pkg/domain"
)

// parseNumber reads an optional numeric field.
func parseNumber(values map[string]string, key string) (float64, error) {
	raw := strings.TrimSpace(strings.ReplaceAll(values[key], ",", "."))
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &forms.SubmitError{
			Fields:  forms.FieldErrors{key: {"Ingresa un número válido"}},
			Message: forms.MsgCheckFields,
		}
	}
	return f, nil
}

func groupFormSpec(api forms.SchoolAPI) formSpec {
	return formSpec{
		title: "Crear grupo",
		fields: []formField{
			{key: "course_id", label: "ID del curso"},
			{key: "name", label: "Nombre"},
			{key: "start_date", label: "Inicio", hint: "AAAA-MM-DD"},
			{key: "end_date", label: "Fin", hint: "AAAA-MM-DD"},
			{key: "capacity", label: "Cupos"},
		},
		submit: func(ctx context.Context, v map[string]string) (string, any, error) {
			capacity, err := parseNumber(v, "capacity")
			if err != nil {
				return "", nil, err
			}
			g, err := forms.SubmitGroup(ctx, api, forms.GroupForm{
				CourseID:  domain.ID(strings.TrimSpace(v["course_id"])),
				Name:      v["name"],
				StartDate: v["start_date"],
				EndDate:   v["end_date"],
				Capacity:  int(capacity),
			})
			if err != nil {
				return "", nil, err
			}
			return fmt.Sprintf("Grupo %q creado.", g.Name), g, nil
		},
	}
}

func courseFormSpec(api forms.SchoolAPI) formSpec {
	return formSpec{
		title: "Crear curso",
		fields: []formField{
			{key: "name", label: "Nombre"},
			{key: "category", label: "Categoría"},
			{key: "level", label: "Nivel", options: []string{"basico", "intermedio", "avanzado"},
				labels: map[string]string{"basico": "básico"}},
			{key: "duration_hours", label: "Horas"},
			{key: "description", label: "Descripción"},
		},
		submit: func(ctx context.Context, v map[string]string) (string, any, error) {
			hours, err := parseNumber(v, "duration_hours")
			if err != nil {
				return "", nil, err
			}
			c, err := forms.SubmitCourse(ctx, api, forms.CourseForm{
				Name:        v["name"],
				Category:    v["category"],
				Level:       v["level"],
				DurationHrs: int(hours),
				Description: v["description"],
			})
			if err != nil {
				return "", nil, err
			}
			return fmt.Sprintf("Curso %q creado.", c.Name), c, nil
		},
	}
}

func classFormSpec(api forms.SchoolAPI) formSpec {
	return formSpec{
		title: "Nueva clase",
		fields: []formField{
			{key: "group_id", label: "ID del grupo"},
			{key: "title", label: "Título"},
			{key: "topic", label: "Tema"},
			{key: "date", label: "Fecha", hint: "AAAA-MM-DD"},
			{key: "start_time", label: "Inicio", hint: "HH:MM"},
			{key: "end_time", label: "Fin", hint: "HH:MM"},
			{key: "meet_url", label: "Enlace de reunión"},
		},
		submit: func(ctx context.Context, v map[string]string) (string, any, error) {
			c, err := forms.SubmitClass(ctx, api, forms.ClassForm{
				GroupID:   domain.ID(strings.TrimSpace(v["group_id"])),
				Title:     v["title"],
				Topic:     v["topic"],
				Date:      v["date"],
				StartTime: v["start_time"],
				EndTime:   v["end_time"],
				MeetURL:   v["meet_url"],
			})
			if err != nil {
				return "", nil, err
			}
			return fmt.Sprintf("Clase %q programada.", c.Title), c, nil
		},
	}
}

func materialFormSpec(api forms.SchoolAPI) formSpec {
	return formSpec{
		title: "Nuevo material",
		fields: []formField{
			{key: "class_id", label: "ID de la clase"},
			{key: "title", label: "Título"},
			{key: "type", label: "Tipo", options: domain.MaterialTypes, labels: typeLabels},
			{key: "url", label: "Enlace", hint: "https://"},
			{key: "description", label: "Descripción"},
		},
		submit: func(ctx context.Context, v map[string]string) (string, any, error) {
			m, err := forms.SubmitMaterial(ctx, api, forms.MaterialForm{
				ClassID:     domain.ID(strings.TrimSpace(v["class_id"])),
				Title:       v["title"],
				Type:        v["type"],
				URL:         v["url"],
				Description: v["description"],
			})
			if err != nil {
				return "", nil, err
			}
			return fmt.Sprintf("Material %q publicado.", m.Title), m, nil
		},
	}
}

func evaluationFormSpec(api forms.SchoolAPI) formSpec {
	return formSpec{
		title: "Nueva evaluación",
		fields: []formField{
			{key: "group_id", label: "ID del grupo"},
			{key: "title", label: "Título"},
			{key: "type", label: "Tipo", options: domain.EvaluationTypes, labels: typeLabels},
			{key: "due_date", label: "Fecha", hint: "AAAA-MM-DD"},
			{key: "max_score", label: "Nota máxima", value: "20"},
			{key: "weight", label: "Peso (%)"},
			{key: "description", label: "Descripción"},
		},
		submit: func(ctx context.Context, v map[string]string) (string, any, error) {
			maxScore, err := parseNumber(v, "max_score")
			if err != nil {
				return "", nil, err
			}
			weight, err := parseNumber(v, "weight")
			if err != nil {
				return "", nil, err
			}
			e, err := forms.SubmitEvaluation(ctx, api, forms.EvaluationForm{
				GroupID:     domain.ID(strings.TrimSpace(v["group_id"])),
				Title:       v["title"],
				Type:        v["type"],
				DueDate:     v["due_date"],
				MaxScore:    maxScore,
				Weight:      weight,
				Description: v["description"],
			})
			if err != nil {
				return "", nil, err
			}
			return fmt.Sprintf("Evaluación %q creada.", e.Title), e, nil
		},
	}
}

func attendanceFormSpec(api forms.SchoolAPI) formSpec {
	return formSpec{
		title: "Registrar asistencia",
		fields: []formField{
			{key: "class_id", label: "ID de la clase"},
			{key: "student_id", label: "ID del estudiante"},
			{key: "status", label: "Estado", options: domain.AttendanceStatuses, labels: statusLabels},
			{key: "notes", label: "Notas"},
		},
		submit: func(ctx context.Context, v map[string]string) (string, any, error) {
			r, err := forms.SubmitAttendance(ctx, api, forms.AttendanceForm{
				ClassID:   domain.ID(strings.TrimSpace(v["class_id"])),
				StudentID: domain.ID(strings.TrimSpace(v["student_id"])),
				Status:    v["status"],
				Notes:     v["notes"],
			})
			if err != nil {
				return "", nil, err
			}
			return fmt.Sprintf("Asistencia registrada: %s.", label(statusLabels, r.Status)), r, nil
		},
	}
}

func loginFormSpec(api forms.AuthAPI) formSpec {
	return formSpec{
		title: "Iniciar sesión",
		fields: []formField{
			{key: "email", label: "Correo"},
			{key: "password", label: "Contraseña", secret: true},
		},
		submit: func(ctx context.Context, v map[string]string) (string, any, error) {
			resp, err := forms.SubmitLogin(ctx, api, forms.LoginForm{Email: v["email"], Password: v["password"]})
			if err != nil {
				return "", nil, err
			}
			return "Sesión iniciada.", resp, nil
		},
	}
}

func registerFormSpec(api forms.AuthAPI) formSpec {
	return formSpec{
		title: "Crear cuenta",
		fields: []formField{
			{key: "first_name", label: "Nombres"},
			{key: "last_name", label: "Apellidos"},
			{key: "dni", label: "DNI", hint: "8 dígitos"},
			{key: "email", label: "Correo"},
			{key: "phone", label: "Teléfono"},
			{key: "password", label: "Contraseña", secret: true,
				hint: fmt.Sprintf("mín. %d, mayúscula, número y símbolo", forms.PasswordMinLength)},
			{key: "password_confirmation", label: "Repite la contraseña", secret: true},
			{key: "role", label: "Soy", options: []string{"student", "teacher"},
				labels: map[string]string{"student": "estudiante", "teacher": "docente"}},
		},
		submit: func(ctx context.Context, v map[string]string) (string, any, error) {
			resp, err := forms.SubmitRegister(ctx, api, forms.RegisterForm{
				FirstName:            v["first_name"],
				LastName:             v["last_name"],
				DNI:                  v["dni"],
				Email:                v["email"],
				Phone:                v["phone"],
				Password:             v["password"],
				PasswordConfirmation: v["password_confirmation"],
				Role:                 v["role"],
			})
			if err != nil {
				return "", nil, err
			}
			return "Cuenta creada.", resp, nil
		},
	}
}
