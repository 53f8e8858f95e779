package tui

import (
	"strings"
	"unicode/utf8"
)

// maxInputLen caps every form field, in runes.
const maxInputLen = 2000

// editRune applies one keystroke to a form field value. Backspace drops
// the last rune; a single printable rune (or "space") is appended while
// the value is under maxInputLen. Any other key leaves text unchanged.
func editRune(text, key string) string {
	switch key {
	case "backspace":
		if text == "" {
			return text
		}
		_, size := utf8.DecodeLastRuneInString(text)
		return text[:len(text)-size]
	case "space":
		key = " "
	}
	if utf8.RuneCountInString(key) != 1 || utf8.RuneCountInString(text) >= maxInputLen {
		return text
	}
	return text + key
}

// pasteText appends a bracketed paste to a single-line field.
func pasteText(text, pasted string) string {
	var b strings.Builder
	b.WriteString(text)
	n := utf8.RuneCountInString(text)
	for _, r := range pasted {
		if r == '\n' || r == '\r' {
			continue
		}
		if n >= maxInputLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// truncateToHeight keeps at most maxLines lines of s. maxLines <= 0 keeps all.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	end := 0
	for i := 0; i < maxLines; i++ {
		j := strings.IndexByte(s[end:], '\n')
		if j < 0 {
			return s
		}
		end += j + 1
	}
	return s[:end]
}
