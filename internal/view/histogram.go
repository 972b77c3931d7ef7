package view

import (
	"log/slog"
	"slices"
	"strconv"

	"github.com/aclements/go-moremath/vec"

	"github.com/aescherling/quiver/internal/dataset"
	"github.com/aescherling/quiver/internal/hist"
	"github.com/aescherling/quiver/internal/render"
	"github.com/aescherling/quiver/internal/scale"
	"github.com/aescherling/quiver/internal/selector"
)

// Renderer ids of the histogram.
const (
	HistogramName = "hist"

	HistVariable = "hist/variable"
	HistBins     = "hist/bins"

	HistXAxis   = "hist/x"
	HistYAxis   = "hist/y"
	HistLabel   = "hist/label"
	HistMissing = "hist/missing"
)

// HistogramState is the interaction state of the histogram.
type HistogramState struct {
	// Variable is the variable currently plotted, empty before the first
	// successful recompute.
	Variable string
	Bins     int
	Domain   [2]float64
	Counts   []int
	Excluded int
	Warning  string
}

// Histogram plots the distribution of one numeric variable.
type Histogram struct {
	plotBase
	layout Layout

	variable *selector.Widget
	bins     *selector.Widget

	state  HistogramState
	values []float64
}

// NewHistogram returns a histogram controller over the numeric variables
// of ds. Nothing is drawn until Open.
func NewHistogram(ds *dataset.Dataset, layout Layout, r render.Renderer) *Histogram {
	h := &Histogram{
		plotBase: plotBase{name: HistogramName, ds: ds, r: r, vars: ds.NamesOf(dataset.Numeric)},
		layout:   layout,
		state:    HistogramState{Bins: hist.DefaultBuckets},
	}
	binItems := make([]string, len(hist.BucketOptions))
	for i, n := range hist.BucketOptions {
		binItems[i] = strconv.Itoa(n)
	}
	track := layout.track(layout.Width, false)
	h.variable = selector.New(HistVariable, h.vars, track,
		selector.WithRenderer(r),
		selector.WithConsumer(h.consume))
	h.bins = selector.New(HistBins, binItems, track,
		selector.WithRenderer(r),
		selector.WithConsumer(h.consume))
	return h
}

func (h *Histogram) consume(ev selector.IndexSelected) { h.Dispatch(IndexSelected(ev)) }

// Open creates the bars and plots the first numeric variable.
func (h *Histogram) Open() {
	h.openLabels()
	h.r.SetAxisDomain(HistXAxis, [2]float64{0, 1})
	h.r.SetAxisDomain(HistYAxis, [2]float64{0, 1})
	h.r.ResetBars(h.state.Bins, h.layout.Width/float64(h.state.Bins))
	h.bins.Select(slices.Index(hist.BucketOptions, h.state.Bins))
	h.variable.Select(0)
	if len(h.vars) > 0 {
		h.selectVariable(0)
	}
}

// Widgets returns the variable and bin selectors.
func (h *Histogram) Widgets() []*selector.Widget {
	return []*selector.Widget{h.variable, h.bins}
}

// State returns a copy of the current state.
func (h *Histogram) State() HistogramState {
	s := h.state
	s.Counts = slices.Clone(s.Counts)
	return s
}

// Dispatch applies ev.
func (h *Histogram) Dispatch(ev Event) {
	e, ok := ev.(IndexSelected)
	if !ok {
		return
	}
	switch e.WidgetID {
	case HistVariable:
		h.selectVariable(e.Index)
	case HistBins:
		h.selectBins(e.Index)
	}
}

func (h *Histogram) selectVariable(i int) {
	if i < 0 || i >= len(h.vars) {
		return
	}
	name := h.vars[i]
	values := h.ds.Column(name)
	domain, err := scale.HistDomain(values)
	if err != nil {
		h.state.Warning = h.degenerate(name, err)
		return
	}
	h.values = values
	h.state.Variable = name
	h.state.Domain = domain
	h.state.Warning = ""
	h.clearWarning()
	h.recompute()
	h.r.SetLabelText(HistLabel, name)
	h.r.SetLabelText(HistMissing, MissingMessage(name, h.ds.Missing(name), h.ds.Len()))
	slog.Debug("histogram variable", "variable", name, "domain", domain)
}

func (h *Histogram) selectBins(i int) {
	if i < 0 || i >= len(hist.BucketOptions) {
		return
	}
	n := hist.BucketOptions[i]
	if n == h.state.Bins {
		return
	}
	h.state.Bins = n
	h.r.ResetBars(n, h.layout.Width/float64(n))
	slog.Debug("histogram bins", "bins", n)
	if h.values != nil {
		h.recompute()
	}
}

// recompute bins the current values and lays the bars out.
func (h *Histogram) recompute() {
	d := h.state.Domain
	res := hist.Bin(h.values, d[0], d[1], h.state.Bins)
	h.state.Counts = res.Counts
	h.state.Excluded = res.Excluded

	top := [2]float64{0, float64(res.Max())}
	y := scale.NewLinear(top, [2]float64{h.layout.Height, 0})
	h.r.SetAxisDomain(HistXAxis, d)
	h.r.SetAxisDomain(HistYAxis, top)

	width := h.layout.Width / float64(h.state.Bins)
	xs := vec.Linspace(0, h.layout.Width-width, h.state.Bins)
	for i, c := range res.Counts {
		y0 := y.Map(float64(c))
		h.r.SetBarGeometry(i, render.BarGeometry{
			X:      xs[i],
			Y:      y0,
			Width:  width,
			Height: h.layout.Height - y0,
		})
	}
}
