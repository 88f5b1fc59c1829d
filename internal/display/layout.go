package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/scorekeep/internal/input"
)

// Board geometry: three fixed-width columns (team 1, clock, team 2).
const (
	colWidth   = 22
	colGap     = 2
	boardWidth = 3*colWidth + 2*colGap
)

// part is one piece of a column. Parts with an action or a field are
// clickable.
type part struct {
	text   string
	action input.Action
	field  int
}

func plain(s string) part { return part{text: s, field: noField} }

func button(s string, a input.Action) part { return part{text: s, action: a, field: noField} }

func editable(s string, f int) part { return part{text: s, field: f} }

var spacer = plain("  ")

// zone is the screen rectangle of a clickable part. Rows are one line
// high; end is exclusive.
type zone struct {
	row, start, end int
	action          input.Action
	field           int
}

// canvas accumulates rendered lines and the zones they contain so that
// mouse hit testing uses exactly the geometry that was drawn.
type canvas struct {
	margin int
	lines  []string
	zones  []zone
}

func newCanvas(width int) *canvas {
	return &canvas{margin: max(2, (width-boardWidth)/2)}
}

// line appends a full-width line without zones.
func (c *canvas) line(s string) {
	c.lines = append(c.lines, s)
}

// indented appends a line starting at the board margin.
func (c *canvas) indented(s string) {
	c.line(strings.Repeat(" ", c.margin) + s)
}

// columns appends one line made of three centred columns.
func (c *canvas) columns(cols ...[]part) {
	row := len(c.lines)
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", c.margin))
	x := c.margin

	for i, parts := range cols {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", colGap))
			x += colGap
		}

		total := 0
		for _, p := range parts {
			total += lipgloss.Width(p.text)
		}
		left := max(0, (colWidth-total)/2)
		right := max(0, colWidth-total-left)

		b.WriteString(strings.Repeat(" ", left))
		px := x + left
		for _, p := range parts {
			w := lipgloss.Width(p.text)
			if p.action != input.ActionNone || p.field != noField {
				c.zones = append(c.zones, zone{row: row, start: px, end: px + w, action: p.action, field: p.field})
			}
			b.WriteString(p.text)
			px += w
		}
		b.WriteString(strings.Repeat(" ", right))
		x += left + total + right
	}
	c.lines = append(c.lines, strings.TrimRight(b.String(), " "))
}

// hit returns the zone under (x, y).
func (c *canvas) hit(x, y int) (zone, bool) {
	for _, z := range c.zones {
		if z.row == y && x >= z.start && x < z.end {
			return z, true
		}
	}
	return zone{}, false
}

func (c *canvas) String() string {
	return strings.Join(c.lines, "\n")
}
