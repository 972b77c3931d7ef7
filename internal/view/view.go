// Package view wires selector widgets to the recomputation of one view
// each. A controller owns its view's state, receives every interaction as
// an Event through Dispatch and issues renderer calls for exactly the parts
// of the view that changed.
package view

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aescherling/quiver/internal/dataset"
	"github.com/aescherling/quiver/internal/render"
	"github.com/aescherling/quiver/internal/scale"
	"github.com/aescherling/quiver/internal/selector"
	"github.com/aescherling/quiver/internal/table"
)

// Event is an interaction delivered to a controller.
type Event interface {
	isEvent()
}

// IndexSelected reports a selector settling on a new index.
type IndexSelected selector.IndexSelected

// SortToggled reports a click on a table header.
type SortToggled struct {
	Column string
}

// OffsetChanged moves the table window along one axis.
type OffsetChanged struct {
	Axis  table.Axis
	Value int
}

func (IndexSelected) isEvent() {}
func (SortToggled) isEvent() {}
func (OffsetChanged) isEvent() {}

// Controller is the behaviour shared by the three views.
type Controller interface {
	// Open draws the initial state.
	Open()
	// Widgets returns the selectors the view exposes to the pointer.
	Widgets() []*selector.Widget
	Dispatch(ev Event)
}

// Layout carries the sizes views are drawn at, in view units.
type Layout struct {
	Width, Height float64

	SelectorHeight float64
	SelectorMargin float64

	PageRows, PageCols int
	RowSliderLength    float64
	ColSliderLength    float64
}

// DefaultLayout returns the stock sizes: 300x300 plots, 20 unit selectors
// with a 5 unit margin and a 15x5 table window.
func DefaultLayout() Layout {
	return Layout{
		Width:           300,
		Height:          300,
		SelectorHeight:  selector.DefaultGeometry.Height,
		SelectorMargin:  selector.DefaultGeometry.Margin,
		PageRows:        table.DefaultPageRows,
		PageCols:        table.DefaultPageCols,
		RowSliderLength: 300,
		ColSliderLength: 600,
	}
}

func (l Layout) track(length float64, reversed bool) selector.Geometry {
	return selector.Geometry{
		Length:   length,
		Height:   l.SelectorHeight,
		Margin:   l.SelectorMargin,
		Reversed: reversed,
	}
}

// MissingMessage is the text shown above a plot for a variable with k
// missing values out of n records.
func MissingMessage(name string, k, n int) string {
	switch {
	case k <= 0:
		return ""
	case k == 1:
		return fmt.Sprintf("Warning: %s has 1 missing value. The %d remaining observations are plotted below.", name, n-1)
	default:
		return fmt.Sprintf("Warning: %s has %d missing values. The %d remaining observations are plotted below.", name, k, n-k)
	}
}

// WarningLabel and CategoricalLabel are the label ids a plot view reports
// on, prefixed with the view name.
func WarningLabel(view string) string { return view + "/warning" }
func CategoricalLabel(view string) string { return view + "/categorical" }

// CategoricalMessage names the variables a plot leaves out.
func CategoricalMessage(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return "Not plotted (categorical): " + strings.Join(names, ", ")
}

func warningText(name string, err error) string {
	var de *scale.DegenerateExtentError
	if errors.As(err, &de) && de.Valid == 0 {
		return fmt.Sprintf("Warning: %s has no numeric values to plot.", name)
	}
	return fmt.Sprintf("Warning: %s has a single value and cannot be scaled.", name)
}

// plotBase is the part of a plot controller that reports on variables.
type plotBase struct {
	name string
	ds   *dataset.Dataset
	r    render.Renderer
	vars []string
}

func (b *plotBase) openLabels() {
	b.r.SetLabelText(CategoricalLabel(b.name), CategoricalMessage(b.ds.NamesOf(dataset.Categorical)))
	b.r.SetLabelText(WarningLabel(b.name), "")
	if len(b.vars) == 0 {
		b.r.SetLabelText(WarningLabel(b.name), "Warning: no numeric variables to plot.")
	}
}

// degenerate puts the warning for err on the view's warning label and
// returns it. The caller keeps its previous visual state.
func (b *plotBase) degenerate(variable string, err error) string {
	msg := warningText(variable, err)
	if !errors.Is(err, scale.ErrDegenerateExtent) {
		slog.Error("unexpected scale failure", "view", b.name, "variable", variable, "err", err)
	} else {
		slog.Warn("keeping previous scale", "view", b.name, "variable", variable, "err", err)
	}
	b.r.SetLabelText(WarningLabel(b.name), msg)
	return msg
}

func (b *plotBase) clearWarning() {
	b.r.SetLabelText(WarningLabel(b.name), "")
}
