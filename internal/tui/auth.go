package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/aula/internal/forms"
	"github.com/naveenspark/aula/pkg/client"
)

// ErrAuthCancelled is returned by RunLogin and RunRegister when the user
// leaves the form without submitting.
var ErrAuthCancelled = fmt.Errorf("tui: sign-in cancelled")

// authModel runs a single login or registration form full screen.
type authModel struct {
	form      formModel
	resp      *client.AuthResponse
	cancelled bool
	frame     int
}

func newAuthModel(spec formSpec) authModel {
	return authModel{form: newFormModel("auth", spec)}
}

func (m authModel) Init() tea.Cmd { return shimmerTickCmd() }

func (m authModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case shimmerTickMsg:
		m.frame++
		return m, shimmerTickCmd()

	case formSubmittedMsg:
		if resp, ok := msg.value.(*client.AuthResponse); ok && msg.err == nil {
			m.resp = resp
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m authModel) View() string {
	help := helpEntry("tab", "siguiente") + "  " + helpEntry("enter", "continuar") + "  " +
		helpEntry("ctrl+s", "enviar") + "  " + helpEntry("esc", "cancelar")
	return "\n " + renderShimmerLogo(m.frame) + "\n\n" + m.form.View() + "\n\n " + help + "\n"
}

func runAuth(spec formSpec) (*client.AuthResponse, error) {
	final, err := tea.NewProgram(newAuthModel(spec)).Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	m := final.(authModel)
	if m.resp == nil {
		return nil, ErrAuthCancelled
	}
	return m.resp, nil
}

// RunLogin shows the email and password form and returns the new session.
func RunLogin(api forms.AuthAPI) (*client.AuthResponse, error) {
	return runAuth(loginFormSpec(api))
}

// RunRegister shows the registration form and returns the new session.
func RunRegister(api forms.AuthAPI) (*client.AuthResponse, error) {
	return runAuth(registerFormSpec(api))
}
