// Package selector implements the discrete-position slider shared by every
// view: a pointer position along a track picks one of a fixed list of
// items, and a new pick is announced exactly once.
package selector

import (
	"math"

	"github.com/aescherling/quiver/internal/render"
	"github.com/aescherling/quiver/internal/scale"
)

// NoneItem is the sentinel item prepended by WithSentinel.
const NoneItem = "None"

// State is the hover state of a widget.
type State int

const (
	Idle State = iota
	Hovering
)

func (s State) String() string {
	if s == Hovering {
		return "hovering"
	}
	return "idle"
}

// IndexSelected is emitted when a widget settles on a new index.
type IndexSelected struct {
	WidgetID string
	Index    int
	Item     string
}

// Consumer receives selection events.
type Consumer func(IndexSelected)

// Geometry describes the track in the widget's own frame.
type Geometry struct {
	// Length of the track, including both margins.
	Length float64
	// Height of the hit-test surface; the indicator sits at Height/2.
	Height float64
	// Margin is trimmed from the far end of the track.
	Margin float64
	// Reversed runs index 0 at the far end, as the vertical row slider
	// does.
	Reversed bool
}

// DefaultGeometry matches the 300 unit selectors under each plot.
var DefaultGeometry = Geometry{Length: 300, Height: 20, Margin: 5}

// Widget is one selector. It reads its own bounds and reports choices; it
// never touches the state of the view that consumes it.
type Widget struct {
	id       string
	items    []string
	geom     Geometry
	track    scale.Linear
	state    State
	index    int
	dot      float64
	format   func(item string) string
	consumer Consumer
	r        render.Renderer
}

// Option configures a Widget.
type Option func(*Widget)

// WithSentinel prepends the NoneItem sentinel at index 0.
func WithSentinel() Option {
	return func(w *Widget) {
		w.items = append([]string{NoneItem}, w.items...)
	}
}

// WithLabel sets how the selected item is written to the widget label.
func WithLabel(format func(item string) string) Option {
	return func(w *Widget) { w.format = format }
}

// WithRenderer sends indicator and label updates to r.
func WithRenderer(r render.Renderer) Option {
	return func(w *Widget) { w.r = r }
}

// WithConsumer registers the callback for selection events.
func WithConsumer(c Consumer) Option {
	return func(w *Widget) { w.consumer = c }
}

// New creates a widget over items. The initial index is 0.
func New(id string, items []string, g Geometry, opts ...Option) *Widget {
	w := &Widget{
		id:     id,
		items:  append([]string(nil), items...),
		geom:   g,
		format: func(item string) string { return item },
	}
	for _, o := range opts {
		o(w)
	}
	rng := [2]float64{0, g.Length - 2*g.Margin}
	if g.Reversed {
		rng[0], rng[1] = rng[1], rng[0]
	}
	w.track = scale.NewIndex(len(w.items), rng)
	w.dot = w.track.Map(0)
	return w
}

// ID returns the widget id.
func (w *Widget) ID() string { return w.id }

// DotID is the renderer mark id of the indicator.
func (w *Widget) DotID() string { return w.id + "/dot" }

// LabelID is the renderer label id of the widget caption.
func (w *Widget) LabelID() string { return w.id + "/label" }

// Items returns the selectable items, sentinel included.
func (w *Widget) Items() []string { return w.items }

// Len returns the number of items.
func (w *Widget) Len() int { return len(w.items) }

// Index returns the current index.
func (w *Widget) Index() int { return w.index }

// Item returns the currently selected item.
func (w *Widget) Item() string {
	if len(w.items) == 0 {
		return ""
	}
	return w.items[w.index]
}

// State returns the hover state.
func (w *Widget) State() State { return w.state }

// Indicator returns the indicator position along the track.
func (w *Widget) Indicator() float64 { return w.dot }

// Geometry returns the track geometry.
func (w *Widget) Geometry() Geometry { return w.geom }

// SetConsumer replaces the selection callback.
func (w *Widget) SetConsumer(c Consumer) { w.consumer = c }

// Enter marks the pointer as over the widget.
func (w *Widget) Enter() { w.state = Hovering }

// Leave marks the pointer as gone. The selection is kept.
func (w *Widget) Leave() { w.state = Idle }

// Select positions the widget on index i without notifying the consumer.
// It is used to draw the initial state.
func (w *Widget) Select(i int) {
	if len(w.items) == 0 {
		return
	}
	w.index = clamp(i, 0, len(w.items)-1)
	w.moveDot()
	w.writeLabel()
}

// Move handles a pointer move at track coordinate px. The indicator always
// follows; the consumer is invoked only when the index changes.
func (w *Widget) Move(px float64) (IndexSelected, bool) {
	w.state = Hovering
	if len(w.items) == 0 || math.IsNaN(px) {
		return IndexSelected{}, false
	}
	raw := w.track.Invert(px)
	return w.apply(clamp(roundHalfUp(raw), 0, len(w.items)-1))
}

// Step moves the selection by delta items, clamped to the track.
func (w *Widget) Step(delta int) (IndexSelected, bool) {
	if len(w.items) == 0 {
		return IndexSelected{}, false
	}
	return w.apply(clamp(w.index+delta, 0, len(w.items)-1))
}

func (w *Widget) apply(i int) (IndexSelected, bool) {
	w.index, i = i, w.index
	w.moveDot()
	if w.index == i {
		return IndexSelected{}, false
	}
	w.writeLabel()
	ev := IndexSelected{WidgetID: w.id, Index: w.index, Item: w.items[w.index]}
	if w.consumer != nil {
		w.consumer(ev)
	}
	return ev, true
}

func (w *Widget) moveDot() {
	w.dot = w.track.Map(float64(w.index))
	if w.r != nil {
		w.r.SetMarkPosition(w.DotID(), w.dot, w.geom.Height/2)
	}
}

func (w *Widget) writeLabel() {
	if w.r != nil {
		w.r.SetLabelText(w.LabelID(), w.format(w.items[w.index]))
	}
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(x float64) int {
	f := math.Floor(x + 0.5)
	switch {
	case math.IsNaN(f):
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}

func clamp(i, lo, hi int) int {
	return max(lo, min(i, hi))
}
