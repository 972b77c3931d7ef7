// Package render defines the update calls the views issue to whatever
// draws them. The views never draw; a Renderer decides what a mark, bar or
// cell looks like.
package render

import (
	"fmt"
	"strconv"
	"strings"
)

// MarkStyle is the visual encoding of one mark. An empty Fill means the
// mark is drawn unfilled.
type MarkStyle struct {
	Fill   string
	Stroke string
	Radius float64
}

// BarGeometry places one histogram bar. Y is the top edge in a y-down
// frame, so Y+Height is the baseline.
type BarGeometry struct {
	X, Y, Width, Height float64
}

// CellID addresses a visible table cell by window position.
type CellID struct {
	Row, Col int
}

func (c CellID) String() string { return fmt.Sprintf("cell%d,%d", c.Row, c.Col) }

// Renderer receives every visual update a view produces.
type Renderer interface {
	SetAxisDomain(axis string, domain [2]float64)
	SetMarkPosition(mark string, x, y float64)
	SetMarkStyle(mark string, style MarkStyle)
	SetBarGeometry(bar int, geom BarGeometry)
	SetCellText(cell CellID, text string)
	SetLabelText(label string, text string)
	// ResetBars discards every bar and creates count empty ones of the
	// given width.
	ResetBars(count int, width float64)
}

const pointPrefix = "point/"

// Point returns the mark id of data point i.
func Point(i int) string { return pointPrefix + strconv.Itoa(i) }

// ParsePoint reverses Point.
func ParsePoint(mark string) (int, bool) {
	if !strings.HasPrefix(mark, pointPrefix) {
		return 0, false
	}
	i, err := strconv.Atoi(mark[len(pointPrefix):])
	if err != nil {
		return 0, false
	}
	return i, true
}
