package nav

import (
	"strings"
	"unicode"

	"github.com/naveenspark/aula/pkg/domain"
)

// creationMarkers are the words that flag a menu entry as creating something.
var creationMarkers = map[string]struct{}{
	"crear":   {},
	"create":  {},
	"nuevo":   {},
	"nueva":   {},
	"new":     {},
	"agregar": {},
	"add":     {},
}

// notCreation are ordinary words that begin with a creation marker.
var notCreation = map[string]struct{}{
	"news":       {},
	"newsletter": {},
	"address":    {},
	"addresses":  {},
	"addon":      {},
	"addons":     {},
}

// IsCreation reports whether the item's title or URL contains a creation
// marker: a word, camelCase part or glued prefix such as "crearGrupo" or
// "Nuevagrupo".
func IsCreation(it domain.NavItem) bool {
	return hasMarker(it.Title) || hasMarker(it.URL)
}

func hasMarker(s string) bool {
	for _, w := range splitWords(s) {
		if _, ok := notCreation[w]; ok {
			continue
		}
		for m := range creationMarkers {
			if strings.HasPrefix(w, m) {
				return true
			}
		}
	}
	return false
}

// splitWords lowercases s and splits it on non-letters and on
// lower-to-upper case boundaries.
func splitWords(s string) []string {
	var words []string
	var cur []rune
	prevLower := false
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			flush()
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			flush()
		}
		cur = append(cur, unicode.ToLower(r))
		prevLower = unicode.IsLower(r)
	}
	flush()
	return words
}

// Filter returns the part of tree visible to roles. The input is not modified.
//
// An item is dropped when it is AdminOnly and roles lack admin, or when roles
// hold no role above student and the item creates something. A set with no
// known role is treated as student. A parent whose children
// were all dropped is dropped too; an item declared without children is kept.
func Filter(tree []domain.NavItem, roles domain.RoleSet) []domain.NavItem {
	studentOnly := !roles.Elevated()
	return filter(tree, roles.IsAdmin(), studentOnly)
}

func filter(items []domain.NavItem, admin, studentOnly bool) []domain.NavItem {
	out := make([]domain.NavItem, 0, len(items))
	for _, it := range items {
		if it.AdminOnly && !admin {
			continue
		}
		if studentOnly && IsCreation(it) {
			continue
		}
		if it.Items != nil {
			children := filter(it.Items, admin, studentOnly)
			if len(it.Items) > 0 && len(children) == 0 {
				continue
			}
			it.Items = children
		}
		out = append(out, it)
	}
	return out
}
