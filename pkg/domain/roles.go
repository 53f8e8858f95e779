package domain

import (
	"sort"
	"strings"
)

// Role is one of the three application roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// AllRoles lists the roles in precedence order.
var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent}

// roleSynonyms maps every spelling the backend uses onto a canonical role.
// The backend is inconsistent about localization, so keep this exhaustive.
var roleSynonyms = map[string]Role{
	"admin":         RoleAdmin,
	"administrador": RoleAdmin,
	"administrator": RoleAdmin,
	"superadmin":    RoleAdmin,
	"teacher":       RoleTeacher,
	"instructor":    RoleTeacher,
	"docente":       RoleTeacher,
	"profesor":      RoleTeacher,
	"student":       RoleStudent,
	"estudiante":    RoleStudent,
	"alumno":        RoleStudent,
}

// CanonicalRole maps a raw role tag to a Role. ok is false for unknown tags.
func CanonicalRole(tag string) (Role, bool) {
	r, ok := roleSynonyms[strings.ToLower(strings.TrimSpace(tag))]
	return r, ok
}

// ParseRole maps a raw tag to a Role, defaulting to RoleStudent.
func ParseRole(tag string) Role {
	if r, ok := CanonicalRole(tag); ok {
		return r
	}
	return RoleStudent
}

// RoleSet is the canonical, lowercase, deduplicated set of role tags a user holds.
type RoleSet map[string]struct{}

// NewRoleSet builds a RoleSet from raw tags.
func NewRoleSet(tags ...string) RoleSet {
	s := make(RoleSet, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			s[t] = struct{}{}
		}
	}
	return s
}

// ResolveRoles normalizes the three role encodings of a profile
// (role string, role array, separate roles array) into one set.
func ResolveRoles(u *UserProfile) RoleSet {
	if u == nil {
		return RoleSet{}
	}
	tags := make([]string, 0, len(u.Role.Values)+len(u.Roles))
	tags = append(tags, u.Role.Values...)
	tags = append(tags, u.Roles...)
	return NewRoleSet(tags...)
}

// Has reports whether the set contains the raw tag.
func (s RoleSet) Has(tag string) bool {
	_, ok := s[strings.ToLower(tag)]
	return ok
}

// HasRole reports whether any tag in the set is a synonym of r.
func (s RoleSet) HasRole(r Role) bool {
	for tag := range s {
		if c, ok := roleSynonyms[tag]; ok && c == r {
			return true
		}
	}
	return false
}

func (s RoleSet) IsAdmin() bool   { return s.HasRole(RoleAdmin) }
func (s RoleSet) IsTeacher() bool { return s.HasRole(RoleTeacher) }
func (s RoleSet) IsStudent() bool { return s.HasRole(RoleStudent) }

// Elevated reports whether the set holds a role above student.
func (s RoleSet) Elevated() bool {
	return s.IsAdmin() || s.IsTeacher()
}

// Primary picks the role that drives dashboards and menus.
// Unknown or empty sets fall back to RoleStudent.
func (s RoleSet) Primary() Role {
	for _, r := range AllRoles {
		if s.HasRole(r) {
			return r
		}
	}
	return RoleStudent
}

// Sorted returns the tags in lexical order.
func (s RoleSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both sets hold the same tags.
func (s RoleSet) Equal(o RoleSet) bool {
	if len(s) != len(o) {
		return false
	}
	for t := range s {
		if _, ok := o[t]; !ok {
			return false
		}
	}
	return true
}
