package tui

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/aula/internal/dashboard"
	"github.com/naveenspark/aula/pkg/client"
)

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// padRight truncates or pads s to exactly width cells.
func padRight(s string, width int) string {
	s = truncStr(s, width)
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// centerLine pads s on the left so it sits centered in width.
func centerLine(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

// describeErr turns an API error into a one-line Spanish message.
func describeErr(err error) string {
	if client.IsStatus(err, http.StatusNotFound) {
		return "No se encontró el recurso."
	}
	msg, _ := dashboard.Describe(err)
	return msg
}
