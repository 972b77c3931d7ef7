package main

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/aescherling/quiver/internal/render"
)

// -------------------------
// Canvas
// -------------------------

// canvas is the terminal Renderer. It only stores what the views tell it;
// the draw functions turn that into cells when the model is viewed.
type canvas struct {
	axes   map[string][2]float64
	marks  map[string][2]float64
	styles map[string]render.MarkStyle
	cells  map[render.CellID]string
	labels map[string]string

	// bars are the target geometries; heights and velocities are the
	// animated bar heights that chase them.
	bars       []render.BarGeometry
	heights    []float64
	velocities []float64
}

func newCanvas() *canvas {
	return &canvas{
		axes:   map[string][2]float64{},
		marks:  map[string][2]float64{},
		styles: map[string]render.MarkStyle{},
		cells:  map[render.CellID]string{},
		labels: map[string]string{},
	}
}

func (c *canvas) SetAxisDomain(axis string, domain [2]float64) { c.axes[axis] = domain }

func (c *canvas) SetMarkPosition(mark string, x, y float64) { c.marks[mark] = [2]float64{x, y} }

func (c *canvas) SetMarkStyle(mark string, style render.MarkStyle) { c.styles[mark] = style }

func (c *canvas) SetCellText(cell render.CellID, text string) { c.cells[cell] = text }

func (c *canvas) SetLabelText(label string, text string) { c.labels[label] = text }

func (c *canvas) SetBarGeometry(bar int, geom render.BarGeometry) {
	if bar < 0 || bar >= len(c.bars) {
		return
	}
	c.bars[bar] = geom
}

// ResetBars drops every bar. New bars start flat and grow into place.
func (c *canvas) ResetBars(count int, width float64) {
	c.bars = make([]render.BarGeometry, count)
	c.heights = make([]float64, count)
	c.velocities = make([]float64, count)
	for i := range c.bars {
		c.bars[i] = render.BarGeometry{X: float64(i) * width, Width: width}
	}
}

// label returns the text of a label, empty when it was never set.
func (c *canvas) label(id string) string { return c.labels[id] }

// -------------------------
// Bar animation
// -------------------------

// settleEpsilon is how close, in view units, a bar must be to its target
// before it snaps.
const settleEpsilon = 0.25

// animate moves every bar one frame along spring and reports whether any
// bar is still moving.
func (c *canvas) animate(spring harmonica.Spring) bool {
	moving := false
	for i, b := range c.bars {
		h, v := spring.Update(c.heights[i], c.velocities[i], b.Height)
		if math.Abs(h-b.Height) < settleEpsilon && math.Abs(v) < settleEpsilon {
			h, v = b.Height, 0
		} else {
			moving = true
		}
		c.heights[i], c.velocities[i] = h, v
	}
	return moving
}

// settle puts every bar at its target at once.
func (c *canvas) settle() {
	for i, b := range c.bars {
		c.heights[i], c.velocities[i] = b.Height, 0
	}
}

// settled reports whether every bar is at its target.
func (c *canvas) settled() bool {
	for i, b := range c.bars {
		if c.heights[i] != b.Height {
			return false
		}
	}
	return true
}
