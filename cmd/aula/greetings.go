package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/aula/internal/dashboard"
	"github.com/naveenspark/aula/internal/tui"
	"github.com/naveenspark/aula/pkg/domain"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#60a5fa")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cmdStyle   = lipgloss.NewStyle().Bold(true)
)

func printHelp() {
	commands := []struct{ cmd, desc string }{
		{"aula", "Abrir el panel (TUI interactiva)"},
		{"aula login", "Iniciar sesión en el navegador"},
		{"aula login -p", "Iniciar sesión con correo y contraseña"},
		{"aula register", "Crear una cuenta"},
		{"aula logout", "Cerrar sesión"},
		{"aula certificate <id>", "Descargar un certificado en PDF (-o carpeta)"},
		{"aula update", "Buscar actualizaciones"},
		{"aula terms", "Términos y condiciones"},
		{"aula privacy", "Política de privacidad"},
		{"aula support", "Soporte"},
		{"aula --version", "Mostrar la versión"},
		{"aula help", "Esta ayuda"},
	}

	fmt.Printf("\n  %s\n\n  %s\n\n  Comandos:\n", titleStyle.Render("A U L A"),
		mutedStyle.Italic(true).Render("Tu colegio desde la terminal."))
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-24s", c.cmd)), mutedStyle.Render(c.desc))
	}
	fmt.Printf("\n  %s\n\n", mutedStyle.Render("Variables: AULA_API_URL, AULA_BASE_URL, AULA_TOKEN, AULA_DOWNLOAD_DIR"))
}

func printGreeting() {
	fmt.Printf("\n%s\n\n%s\n\n%s\n\n",
		titleStyle.Render("AULA"),
		mutedStyle.Italic(true).Render("No hay una sesión iniciada."),
		mutedStyle.Render("Para entrar: aula login    ·    ¿Sin cuenta? aula register"))
}

func printExpired() {
	fmt.Printf("\n%s\n%s\n\n",
		lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171")).Render(dashboard.MsgExpired),
		mutedStyle.Render("aula login"))
}

func printWelcome(u *domain.UserProfile) {
	if u == nil {
		return
	}
	role := domain.ResolveRoles(u).Primary()
	fmt.Printf("Sesión iniciada como %s (%s)\n\n", u.DisplayName(), tui.RoleStyle(role).Render(roleName(role)))
}

func roleName(r domain.Role) string {
	switch r {
	case domain.RoleAdmin:
		return "administrador"
	case domain.RoleTeacher:
		return "docente"
	}
	return "estudiante"
}
