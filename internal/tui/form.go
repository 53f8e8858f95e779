package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/aula/internal/forms"
)

// formField is one input. key is the JSON field name server errors refer to.
type formField struct {
	key     string
	label   string
	value   string
	hint    string
	options []string // cycled with left/right; value must be one of them
	labels  map[string]string
	secret  bool
}

// formSpec describes a form and how it is submitted. submit returns the
// confirmation shown on success and, optionally, the created value.
type formSpec struct {
	title  string
	fields []formField
	submit func(ctx context.Context, values map[string]string) (string, any, error)
}

type formSubmittedMsg struct {
	page    string
	message string
	value   any
	err     error
}

type formModel struct {
	page       string
	spec       formSpec
	fields     []formField
	focus      int
	submitting bool
	message    string
	errs       forms.FieldErrors
}

func newFormModel(page string, spec formSpec) formModel {
	fields := make([]formField, len(spec.fields))
	copy(fields, spec.fields)
	for i, f := range fields {
		if len(f.options) > 0 && f.value == "" {
			fields[i].value = f.options[0]
		}
	}
	return formModel{page: page, spec: spec, fields: fields}
}

func (m formModel) values() map[string]string {
	v := make(map[string]string, len(m.fields))
	for _, f := range m.fields {
		v[f.key] = f.value
	}
	return v
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case formSubmittedMsg:
		m.submitting = false
		if msg.err == nil {
			m.errs = nil
			m.message = msg.message
			return m, nil
		}
		if se, ok := forms.AsSubmitError(msg.err); ok {
			m.errs = se.Fields
			m.message = se.Message
		} else {
			m.errs = nil
			m.message = forms.MsgGeneric
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m formModel) handleKey(msg tea.KeyMsg) (formModel, tea.Cmd) {
	if m.submitting || len(m.fields) == 0 {
		return m, nil
	}
	f := &m.fields[m.focus]
	if msg.Paste {
		if len(f.options) == 0 {
			f.value = pasteText(f.value, string(msg.Runes))
		}
		return m, nil
	}
	switch key := msg.String(); key {
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.fields)
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + len(m.fields)) % len(m.fields)
	case "enter":
		if m.focus == len(m.fields)-1 {
			return m.submit()
		}
		m.focus++
	case "left", "right":
		if len(f.options) > 0 {
			f.value = cycleOption(f.options, f.value, key == "right")
		}
	default:
		if len(f.options) == 0 {
			f.value = editRune(f.value, key)
		}
	}
	return m, nil
}

func cycleOption(options []string, current string, forward bool) string {
	idx := 0
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(options)
	} else {
		idx = (idx - 1 + len(options)) % len(options)
	}
	return options[idx]
}

func (m formModel) submit() (formModel, tea.Cmd) {
	if m.spec.submit == nil {
		return m, nil
	}
	m.submitting = true
	m.message = ""
	values := m.values()
	submit := m.spec.submit
	page := m.page
	return m, func() tea.Msg {
		msg, value, err := submit(context.Background(), values)
		return formSubmittedMsg{page: page, message: msg, value: value, err: err}
	}
}

func (m formModel) View() string {
	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render(m.spec.title) + "\n\n")

	for i, f := range m.fields {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = inputPromptStyle.Render(">")
			style = selectedStyle
		}

		value := f.value
		switch {
		case len(f.options) > 0:
			value = "‹ " + statusStyle(f.value).Render(label(f.labels, f.value)) + " ›"
		case f.secret:
			value = strings.Repeat("•", len([]rune(f.value)))
		}
		if i == m.focus && len(f.options) == 0 {
			value += "█"
		}
		if value == "" && f.hint != "" {
			value = inputPlaceholderStyle.Render(f.hint)
		}

		fmt.Fprintf(&b, " %s %s %s\n", cursor, style.Render(padRight(f.label, 20)), value)
		for _, e := range m.errs[f.key] {
			fmt.Fprintf(&b, "   %s %s\n", strings.Repeat(" ", 20), errorStyle.Render(e))
		}
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("guardando..."))
	case m.message != "" && len(m.errs) > 0:
		b.WriteString(" " + errorStyle.Render(m.message))
	case m.message != "":
		b.WriteString(" " + warnStyle.Render(m.message))
	}
	return b.String()
}
