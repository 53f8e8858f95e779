package nav

import (
	"errors"
	"strings"

	"github.com/naveenspark/aula/pkg/domain"
)

// Section is an in-page state selected by a URL fragment.
type Section int

const (
	SectionDefault Section = iota
	SectionHistory
	SectionCreateGroup
	SectionCreateCourse
)

var sectionFragments = map[Section]string{
	SectionDefault:      "",
	SectionHistory:      "historial",
	SectionCreateGroup:  "crear-grupo",
	SectionCreateCourse: "crear-curso",
}

func (s Section) String() string {
	switch s {
	case SectionHistory:
		return "history"
	case SectionCreateGroup:
		return "create-group"
	case SectionCreateCourse:
		return "create-course"
	}
	return "default"
}

// Fragment returns the URL fragment (without '#') that selects s.
func (s Section) Fragment() string { return sectionFragments[s] }

// Creates reports whether s is a creation section.
func (s Section) Creates() bool {
	return s == SectionCreateGroup || s == SectionCreateCourse
}

// ErrSectionForbidden is returned when the role may not enter a section.
var ErrSectionForbidden = errors.New("section not available for this role")

// ParseSection maps a fragment ("#historial" or "historial") to a section.
// Unknown fragments select SectionDefault.
func ParseSection(fragment string) Section {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(fragment), "#"))
	for s, frag := range sectionFragments {
		if frag != "" && frag == f {
			return s
		}
	}
	return SectionDefault
}

// SplitURL splits a menu URL into page path and fragment.
func SplitURL(u string) (page, fragment string) {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i], u[i+1:]
	}
	return u, ""
}

// Router is the section state machine of one page. Transitions happen on
// Navigate; creation sections require an elevated role.
type Router struct {
	roles   domain.RoleSet
	current Section
}

// NewRouter starts in SectionDefault.
func NewRouter(roles domain.RoleSet) *Router {
	return &Router{roles: roles}
}

// Current returns the active section.
func (r *Router) Current() Section { return r.current }

// Navigate handles a fragment change. On ErrSectionForbidden the state is unchanged.
func (r *Router) Navigate(fragment string) (Section, error) {
	return r.Enter(ParseSection(fragment))
}

// Enter moves to s directly.
func (r *Router) Enter(s Section) (Section, error) {
	if s.Creates() && !r.roles.Elevated() {
		return r.current, ErrSectionForbidden
	}
	r.current = s
	return s, nil
}

// Reset returns to SectionDefault.
func (r *Router) Reset() { r.current = SectionDefault }
