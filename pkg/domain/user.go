package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a backend identifier. The API emits both numeric and string ids,
// so it decodes from either and is always carried as a string.
type ID string

// UnmarshalJSON accepts a JSON number, a JSON string, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("domain.ID: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("domain.ID: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits numeric ids as numbers so round trips keep the backend's shape.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// RoleField is the "role" attribute of a user profile. The backend sends it
// either as a single string or as an array of strings.
type RoleField struct {
	Values []string
	// Multi records that the value arrived as an array.
	Multi bool
}

// UnmarshalJSON accepts a string, an array of strings, or null.
func (r *RoleField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = RoleField{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("domain.RoleField: %w", err)
		}
		if s != "" {
			r.Values = []string{s}
		}
		return nil
	case '[':
		var vals []string
		if err := json.Unmarshal(data, &vals); err != nil {
			return fmt.Errorf("domain.RoleField: %w", err)
		}
		r.Values = vals
		r.Multi = true
		return nil
	}
	return fmt.Errorf("domain.RoleField: unsupported role encoding %s", string(data))
}

// MarshalJSON re-emits the role in the shape it was received.
func (r RoleField) MarshalJSON() ([]byte, error) {
	if r.Multi {
		vals := r.Values
		if vals == nil {
			vals = []string{}
		}
		return json.Marshal(vals)
	}
	if len(r.Values) == 0 {
		return []byte(`""`), nil
	}
	return json.Marshal(r.Values[0])
}

// SingleRole builds a RoleField holding one string role.
func SingleRole(role string) RoleField {
	return RoleField{Values: []string{role}}
}

// MultiRole builds a RoleField holding an array of roles.
func MultiRole(roles ...string) RoleField {
	return RoleField{Values: roles, Multi: true}
}

// UserProfile is the authenticated user as returned by the backend.
type UserProfile struct {
	ID        ID        `json:"id,omitempty"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Role      RoleField `json:"role"`
	Roles     []string  `json:"roles,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
}

// DisplayName returns the best human label for the user.
func (u *UserProfile) DisplayName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	}
	return u.Email
}

// Session pairs an auth token with the user it belongs to.
type Session struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

// Active reports whether both halves of the session are present.
// A token without a user, or a user without a token, is not a session.
func (s Session) Active() bool {
	return s.Token != "" && s.User != nil
}
