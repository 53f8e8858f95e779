package views

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cast"

	"github.com/naveenspark/aula/pkg/domain"
)

// CardSpec is one rendered metric card.
type CardSpec struct {
	Title string
	Icon  string
	Value string
}

// Point is one bar of a chart.
type Point struct {
	Label string
	Value float64
}

// ChartSpec is a labelled series.
type ChartSpec struct {
	Title  string
	Unit   string
	Points []Point
}

// Max returns the largest value in the series, or 0.
func (c ChartSpec) Max() float64 {
	var m float64
	for _, p := range c.Points {
		if p.Value > m {
			m = p.Value
		}
	}
	return m
}

// TableSpec is a table with rows already rendered to strings.
type TableSpec struct {
	Title   string
	Columns []Column
	Rows    [][]string
	Empty   string
}

// SelectCards renders the role's metric cards. Missing values show as zero.
func (r Registry) SelectCards(role domain.Role, p *domain.DashboardPayload) []CardSpec {
	defs := r.Lookup(role).cards
	out := make([]CardSpec, 0, len(defs))
	for _, d := range defs {
		v, _ := p.Lookup(d.Path)
		out = append(out, CardSpec{Title: d.Title, Icon: d.Icon, Value: render(v, d.Format)})
	}
	return out
}

// SelectChart reads the role's series. Missing series give no points.
func (r Registry) SelectChart(role domain.Role, p *domain.DashboardPayload) ChartSpec {
	d := r.Lookup(role).chart
	spec := ChartSpec{Title: d.Title, Unit: d.Unit, Points: []Point{}}
	for i, row := range p.Rows(d.Path) {
		label := cast.ToString(row[d.LabelKey])
		if label == "" {
			label = strconv.Itoa(i + 1)
		}
		spec.Points = append(spec.Points, Point{Label: label, Value: cast.ToFloat64(row[d.ValueKey])})
	}
	return spec
}

// SelectTable renders the role's table. Missing cells are blank.
func (r Registry) SelectTable(role domain.Role, p *domain.DashboardPayload) TableSpec {
	d := r.Lookup(role).table
	spec := TableSpec{Title: d.Title, Columns: d.Columns, Rows: [][]string{}, Empty: d.Empty}
	for _, row := range p.Rows(d.Path) {
		cells := make([]string, len(d.Columns))
		for i, c := range d.Columns {
			if v, ok := row[c.Key]; ok && v != nil {
				cells[i] = render(v, c.Format)
			}
		}
		spec.Rows = append(spec.Rows, cells)
	}
	return spec
}

// SelectCards is Default.SelectCards.
func SelectCards(role domain.Role, p *domain.DashboardPayload) []CardSpec {
	return Default.SelectCards(role, p)
}

// SelectChart is Default.SelectChart.
func SelectChart(role domain.Role, p *domain.DashboardPayload) ChartSpec {
	return Default.SelectChart(role, p)
}

// SelectTable is Default.SelectTable.
func SelectTable(role domain.Role, p *domain.DashboardPayload) TableSpec {
	return Default.SelectTable(role, p)
}

func render(v any, f Format) string {
	switch f {
	case FormatText:
		return cast.ToString(v)
	case FormatDate:
		return formatDate(cast.ToString(v))
	case FormatPercent:
		return trimFloat(cast.ToFloat64(v)) + "%"
	case FormatScore:
		return fmt.Sprintf("%.1f", cast.ToFloat64(v))
	}
	if v == nil {
		return "0"
	}
	if s, ok := v.(string); ok && s != "" {
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return s
		}
	}
	return trimFloat(cast.ToFloat64(v))
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

func formatDate(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return s
}
