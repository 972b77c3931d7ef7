package view

import (
	"log/slog"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/aescherling/quiver/internal/dataset"
	"github.com/aescherling/quiver/internal/render"
	"github.com/aescherling/quiver/internal/scale"
	"github.com/aescherling/quiver/internal/selector"
)

// Renderer ids of the scatterplot.
const (
	ScatterName = "scatter"

	ScatterX     = "scatter/x"
	ScatterY     = "scatter/y"
	ScatterColor = "scatter/color"
	ScatterSize  = "scatter/size"
)

// Point styling.
var (
	// DefaultStyle is used for every point until a colour or size
	// variable is chosen, and again when the selector returns to None.
	DefaultStyle = render.MarkStyle{Fill: "", Stroke: "black", Radius: 3.5}

	ColorLow  = colorful.Color{R: 1, G: 0, B: 0}
	ColorHigh = colorful.Color{R: 0, G: 0, B: 1}

	RadiusRange = [2]float64{2.5, 15}
)

// radiusExponent makes area grow faster than the value.
const radiusExponent = 2

// ScatterState is the interaction state of the scatterplot. Color and Size
// are empty while their selector sits on None.
type ScatterState struct {
	X, Y        string
	Color, Size string

	XDomain, YDomain        [2]float64
	ColorDomain, SizeDomain [2]float64
	Warning                 string
}

// Scatter plots two numeric variables against each other, optionally
// encoding two more as colour and radius.
type Scatter struct {
	plotBase
	layout Layout

	x, y, color, size *selector.Widget

	state  ScatterState
	px, py []float64
	styles []render.MarkStyle
}

// NewScatter returns a scatterplot controller over the numeric variables
// of ds.
func NewScatter(ds *dataset.Dataset, layout Layout, r render.Renderer) *Scatter {
	s := &Scatter{
		plotBase: plotBase{name: ScatterName, ds: ds, r: r, vars: ds.NamesOf(dataset.Numeric)},
		layout:   layout,
		px:       make([]float64, ds.Len()),
		py:       make([]float64, ds.Len()),
		styles:   make([]render.MarkStyle, ds.Len()),
	}
	track := layout.track(layout.Width, false)
	opts := []selector.Option{selector.WithRenderer(r), selector.WithConsumer(s.consume)}
	s.y = selector.New(ScatterY, s.vars, track, opts...)
	s.x = selector.New(ScatterX, s.vars, track, opts...)
	s.color = selector.New(ScatterColor, s.vars, track, append(opts, selector.WithSentinel())...)
	s.size = selector.New(ScatterSize, s.vars, track, append(opts, selector.WithSentinel())...)
	return s
}

func (s *Scatter) consume(ev selector.IndexSelected) { s.Dispatch(IndexSelected(ev)) }

// Open plots the first variable on y and the second on x with the default
// point style.
func (s *Scatter) Open() {
	s.openLabels()
	for i := range s.styles {
		s.styles[i] = DefaultStyle
		s.r.SetMarkStyle(render.Point(i), DefaultStyle)
	}
	s.color.Select(0)
	s.size.Select(0)
	if len(s.vars) == 0 {
		return
	}
	xi := min(1, len(s.vars)-1)
	s.y.Select(0)
	s.x.Select(xi)
	s.setAxis(ScatterX, s.vars[xi], false)
	s.setAxis(ScatterY, s.vars[0], true)
}

// Widgets returns the y, x, colour and size selectors.
func (s *Scatter) Widgets() []*selector.Widget {
	return []*selector.Widget{s.y, s.x, s.color, s.size}
}

// State returns the current state.
func (s *Scatter) State() ScatterState { return s.state }

// Dispatch applies ev. Each selector recomputes only its own encoding.
func (s *Scatter) Dispatch(ev Event) {
	e, ok := ev.(IndexSelected)
	if !ok || e.Index < 0 {
		return
	}
	switch e.WidgetID {
	case ScatterX:
		if e.Index < len(s.vars) {
			s.setAxis(ScatterX, s.vars[e.Index], false)
		}
	case ScatterY:
		if e.Index < len(s.vars) {
			s.setAxis(ScatterY, s.vars[e.Index], true)
		}
	case ScatterColor:
		if e.Index == 0 {
			s.resetColor()
		} else if e.Index <= len(s.vars) {
			s.setColor(s.vars[e.Index-1])
		}
	case ScatterSize:
		if e.Index == 0 {
			s.resetSize()
		} else if e.Index <= len(s.vars) {
			s.setSize(s.vars[e.Index-1])
		}
	}
}

func (s *Scatter) domain(name string) ([2]float64, []float64, bool) {
	values := s.ds.Column(name)
	d, err := scale.AxisDomain(values)
	if err != nil {
		s.state.Warning = s.degenerate(name, err)
		return d, nil, false
	}
	s.state.Warning = ""
	s.clearWarning()
	return d, values, true
}

func (s *Scatter) setAxis(axis, name string, vertical bool) {
	d, values, ok := s.domain(name)
	if !ok {
		return
	}
	s.r.SetAxisDomain(axis, d)
	if vertical {
		s.state.Y, s.state.YDomain = name, d
		sc := scale.NewLinear(d, [2]float64{s.layout.Height, 0})
		for i, v := range values {
			s.py[i] = mapOrNaN(sc, v)
		}
	} else {
		s.state.X, s.state.XDomain = name, d
		sc := scale.NewLinear(d, [2]float64{0, s.layout.Width})
		for i, v := range values {
			s.px[i] = mapOrNaN(sc, v)
		}
	}
	for i := range s.px {
		s.r.SetMarkPosition(render.Point(i), s.px[i], s.py[i])
	}
	slog.Debug("scatter axis", "axis", axis, "variable", name, "domain", d)
}

func mapOrNaN(sc scale.Linear, v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	return sc.Map(v)
}

// ColorOf returns the fill for unit position t along the colour ramp.
func ColorOf(t float64) string {
	return ColorLow.BlendRgb(ColorHigh, t).Hex()
}

func (s *Scatter) setColor(name string) {
	d, values, ok := s.domain(name)
	if !ok {
		return
	}
	s.state.Color, s.state.ColorDomain = name, d
	unit := scale.NewLinear(d, [2]float64{0, 1})
	for i, v := range values {
		st := s.styles[i]
		if math.IsNaN(v) {
			st.Fill, st.Stroke = DefaultStyle.Fill, DefaultStyle.Stroke
		} else {
			c := ColorOf(unit.Map(v))
			st.Fill, st.Stroke = c, c
		}
		s.setStyle(i, st)
	}
	slog.Debug("scatter colour", "variable", name, "domain", d)
}

func (s *Scatter) resetColor() {
	s.state.Color, s.state.ColorDomain = "", [2]float64{}
	for i, st := range s.styles {
		st.Fill, st.Stroke = DefaultStyle.Fill, DefaultStyle.Stroke
		s.setStyle(i, st)
	}
}

func (s *Scatter) setSize(name string) {
	d, values, ok := s.domain(name)
	if !ok {
		return
	}
	s.state.Size, s.state.SizeDomain = name, d
	radius := scale.NewPow(radiusExponent, d, RadiusRange)
	for i, v := range values {
		st := s.styles[i]
		st.Radius = DefaultStyle.Radius
		if !math.IsNaN(v) {
			st.Radius = radius.Map(v)
		}
		s.setStyle(i, st)
	}
	slog.Debug("scatter size", "variable", name, "domain", d)
}

func (s *Scatter) resetSize() {
	s.state.Size, s.state.SizeDomain = "", [2]float64{}
	for i, st := range s.styles {
		st.Radius = DefaultStyle.Radius
		s.setStyle(i, st)
	}
}

func (s *Scatter) setStyle(i int, st render.MarkStyle) {
	s.styles[i] = st
	s.r.SetMarkStyle(render.Point(i), st)
}
