package domain

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cast"
)

// DashboardPayload is the role-shaped bag of metrics, series, and rows the
// dashboard endpoints return. Its keys are backend-defined; every accessor
// treats a missing or mistyped key as its zero value.
type DashboardPayload struct {
	data map[string]any
}

// NewDashboardPayload wraps an already decoded JSON object.
func NewDashboardPayload(data map[string]any) *DashboardPayload {
	return &DashboardPayload{data: data}
}

// UnmarshalJSON decodes any JSON object. Non-object bodies decode to an empty payload.
func (p *DashboardPayload) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	obj, _ := raw.(map[string]any)
	p.data = obj
	return nil
}

// MarshalJSON re-encodes the wrapped object.
func (p DashboardPayload) MarshalJSON() ([]byte, error) {
	if p.data == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.data)
}

// Lookup walks a dotted key path ("stats.total_students").
func (p *DashboardPayload) Lookup(path string) (any, bool) {
	if p == nil || p.data == nil || path == "" {
		return nil, false
	}
	var cur any = p.data
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// String returns the value at path rendered as a string, or def when absent.
func (p *DashboardPayload) String(path, def string) string {
	v, ok := p.Lookup(path)
	if !ok {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return def
	}
	return s
}

// Float returns the numeric value at path, or 0.
func (p *DashboardPayload) Float(path string) float64 {
	v, ok := p.Lookup(path)
	if !ok {
		return 0
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return f
}

// Int returns the integer value at path, or 0.
func (p *DashboardPayload) Int(path string) int {
	return int(p.Float(path))
}

// List returns the array at path, or nil.
func (p *DashboardPayload) List(path string) []any {
	v, ok := p.Lookup(path)
	if !ok {
		return nil
	}
	l, err := cast.ToSliceE(v)
	if err != nil {
		return nil
	}
	return l
}

// Rows returns the array at path as objects, skipping non-object entries.
func (p *DashboardPayload) Rows(path string) []map[string]any {
	items := p.List(path)
	rows := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			rows = append(rows, m)
		}
	}
	return rows
}

// Empty reports whether the payload carries no keys at all.
func (p *DashboardPayload) Empty() bool {
	return p == nil || len(p.data) == 0
}
