package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/aula/internal/forms"
	"github.com/naveenspark/aula/internal/nav"
	"github.com/naveenspark/aula/pkg/domain"
)

type stubSchool struct {
	bodies []any
}

func (s *stubSchool) record(body any) { s.bodies = append(s.bodies, body) }

func (s *stubSchool) CreateClass(_ context.Context, body any) (*domain.Class, error) {
	s.record(body)
	return &domain.Class{ID: "10", Title: body.(forms.ClassForm).Title}, nil
}

func (s *stubSchool) CreateMaterial(_ context.Context, body any) (*domain.Material, error) {
	s.record(body)
	return &domain.Material{ID: "2", Title: "m"}, nil
}

func (s *stubSchool) CreateEvaluation(_ context.Context, body any) (*domain.Evaluation, error) {
	s.record(body)
	return &domain.Evaluation{ID: "3", Title: "e"}, nil
}

func (s *stubSchool) CreateGroup(_ context.Context, body any) (*domain.Group, error) {
	s.record(body)
	return &domain.Group{ID: "4", Name: "g"}, nil
}

func (s *stubSchool) CreateCourse(_ context.Context, body any) (*domain.Course, error) {
	s.record(body)
	return &domain.Course{ID: "5", Name: "c"}, nil
}

func (s *stubSchool) RecordAttendance(_ context.Context, body any) (*domain.AttendanceRecord, error) {
	s.record(body)
	return &domain.AttendanceRecord{ID: "6", Status: body.(forms.AttendanceForm).Status}, nil
}

func typeInto(m formModel, text string) formModel {
	for _, r := range text {
		m, _ = m.Update(keyMsg(string(r)))
	}
	return m
}

func submitForm(t *testing.T, m formModel) formModel {
	t.Helper()
	m, cmd := m.Update(keyMsg("ctrl+s"))
	if cmd == nil {
		t.Fatal("ctrl+s returned no command")
	}
	if !m.submitting {
		t.Error("expected submitting state")
	}
	m, _ = m.Update(cmd())
	return m
}

func TestFormOptionFieldsStartOnFirstOption(t *testing.T) {
	m := newFormModel(nav.URLMaterials, materialFormSpec(&stubSchool{}))
	if got := m.values()["type"]; got != domain.MaterialTypes[0] {
		t.Errorf("type = %q, want %q", got, domain.MaterialTypes[0])
	}
}

func TestFormFocusAndOptionCycling(t *testing.T) {
	m := newFormModel(nav.URLMaterials, materialFormSpec(&stubSchool{}))
	m, _ = m.Update(keyMsg("tab"))
	m, _ = m.Update(keyMsg("tab"))
	if m.fields[m.focus].key != "type" {
		t.Fatalf("focused %q, want type", m.fields[m.focus].key)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.values()["type"]; got != domain.MaterialTypes[1] {
		t.Errorf("after right: type = %q, want %q", got, domain.MaterialTypes[1])
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.values()["type"]; got != domain.MaterialTypes[len(domain.MaterialTypes)-1] {
		t.Errorf("left wraps: type = %q", got)
	}

	m = typeInto(m, "zz")
	if got := m.values()["type"]; got != domain.MaterialTypes[len(domain.MaterialTypes)-1] {
		t.Errorf("typing changed option field: %q", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.fields[m.focus].key != "title" {
		t.Errorf("shift+tab focused %q, want title", m.fields[m.focus].key)
	}
}

func TestFormPasteIntoTextField(t *testing.T) {
	m := newFormModel(nav.URLClasses, classFormSpec(&stubSchool{}))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("42\n"), Paste: true})
	if got := m.values()["group_id"]; got != "42" {
		t.Errorf("group_id = %q, want 42", got)
	}
}

func TestFormSubmitShowsFieldErrors(t *testing.T) {
	api := &stubSchool{}
	m := submitForm(t, newFormModel(nav.URLClasses, classFormSpec(api)))

	if len(api.bodies) != 0 {
		t.Fatal("invalid form reached the API")
	}
	if m.submitting {
		t.Error("still submitting after result")
	}
	view := m.View()
	if !containsAll(view, "Este campo es obligatorio", forms.MsgCheckFields) {
		t.Errorf("field errors not rendered:\n%s", view)
	}
}

func TestFormSubmitRejectsBadNumber(t *testing.T) {
	api := &stubSchool{}
	m := newFormModel(nav.URLEvaluations, evaluationFormSpec(api))
	for i, f := range m.fields {
		if f.key == "max_score" {
			m.focus = i
		}
	}
	m, _ = m.Update(keyMsg("backspace"))
	m, _ = m.Update(keyMsg("backspace"))
	m = typeInto(m, "veinte")
	m = submitForm(t, m)

	if len(api.bodies) != 0 {
		t.Fatal("invalid number reached the API")
	}
	if got := m.errs.First("max_score"); got != "Ingresa un número válido" {
		t.Errorf("max_score error = %q", got)
	}
}

func TestFormSubmitClassSuccess(t *testing.T) {
	api := &stubSchool{}
	m := newFormModel(nav.URLClasses, classFormSpec(api))
	for _, text := range []string{"4", "Sesión 1", "Fracciones", "2026-11-03", "08:00", "09:30"} {
		m = typeInto(m, text)
		m, _ = m.Update(keyMsg("tab"))
	}

	m, cmd := m.Update(keyMsg("ctrl+s"))
	msg := cmd().(formSubmittedMsg)
	if msg.err != nil {
		t.Fatalf("submit error: %v", msg.err)
	}
	if msg.page != nav.URLClasses {
		t.Errorf("page = %q", msg.page)
	}
	if !strings.Contains(msg.message, "Sesión 1") {
		t.Errorf("message = %q", msg.message)
	}
	if len(api.bodies) != 1 {
		t.Fatalf("API calls = %d, want 1", len(api.bodies))
	}
	sent := api.bodies[0].(forms.ClassForm)
	if sent.GroupID != "4" || sent.StartTime != "08:00" {
		t.Errorf("sent = %+v", sent)
	}
	_ = m
}

func TestFormAttendanceStatusLabels(t *testing.T) {
	m := newFormModel(nav.URLAttendance, attendanceFormSpec(&stubSchool{}))
	if !strings.Contains(m.View(), "presente") {
		t.Error("status option not shown with its Spanish label")
	}
}

func TestPageFormSuccessClosesAndReloads(t *testing.T) {
	roles := domain.NewRoleSet("teacher")
	api := &stubSchool{}
	p := newPageModel(nav.URLGroups, nil, roles, listSpec{
		key:  nav.URLGroups,
		load: func(context.Context) ([]listRow, error) { return nil, nil },
	}).withForm("crear-grupo", func() formSpec { return groupFormSpec(api) })

	p, _ = p.navigate("#crear-grupo")
	if !p.formOpen || p.router.Current() != nav.SectionCreateGroup {
		t.Fatal("form not opened")
	}

	p, cmd := p.Update(formSubmittedMsg{page: nav.URLGroups, message: "Grupo \"A\" creado."})
	if p.formOpen {
		t.Error("form still open after success")
	}
	if p.router.Current() != nav.SectionDefault {
		t.Errorf("section = %v, want default", p.router.Current())
	}
	if cmd == nil {
		t.Error("expected list reload after success")
	}
	if !strings.Contains(p.View(), "creado") {
		t.Error("confirmation not shown")
	}
}

func TestPageRejectsForeignCreationFragment(t *testing.T) {
	p := newPageModel(nav.URLCourses, nil, domain.NewRoleSet("admin"), listSpec{key: nav.URLCourses}).
		withForm("crear-curso", func() formSpec { return courseFormSpec(&stubSchool{}) })

	p, _ = p.navigate("#crear-grupo")
	if p.formOpen {
		t.Error("courses page opened a group form")
	}
	if p.router.Current() != nav.SectionDefault {
		t.Errorf("section = %v, want default", p.router.Current())
	}
}

func TestPageHelpKeysByRole(t *testing.T) {
	spec := listSpec{key: nav.URLEvaluations}
	form := func() formSpec { return evaluationFormSpec(&stubSchool{}) }

	student := newPageModel(nav.URLEvaluations, nil, domain.NewRoleSet("student"), spec).withForm("crear-evaluacion", form)
	if strings.Contains(student.helpKeys(), "crear") {
		t.Error("student help offers creation")
	}
	teacher := newPageModel(nav.URLEvaluations, nil, domain.NewRoleSet("teacher"), spec).withForm("crear-evaluacion", form)
	if !strings.Contains(teacher.helpKeys(), "crear") {
		t.Error("teacher help missing creation")
	}
}
