package view

import (
	"log/slog"
	"strconv"

	"github.com/aescherling/quiver/internal/dataset"
	"github.com/aescherling/quiver/internal/render"
	"github.com/aescherling/quiver/internal/selector"
	"github.com/aescherling/quiver/internal/table"
)

// Renderer ids of the table sliders.
const (
	TableName = "table"

	TableRows = "table/rows"
	TableCols = "table/cols"
)

// SortDirection describes the order the last sort left the rows in.
type SortDirection int

const (
	Unsorted SortDirection = iota
	Descending
	Ascending
)

func (d SortDirection) String() string {
	switch d {
	case Descending:
		return "descending"
	case Ascending:
		return "ascending"
	default:
		return "unsorted"
	}
}

// TableState is the interaction state of the table.
type TableState struct {
	Offset table.Offset
	// SortKey is the armed header: clicking it again sorts the other way
	// and disarms it. Empty when nothing is armed.
	SortKey string
	// Sorted is the key of the most recent sort.
	Sorted    string
	Direction SortDirection
}

// Table pages through the whole dataset.
type Table struct {
	pager *table.Pager
	rows  *selector.Widget
	cols  *selector.Widget
	state TableState
}

// NewTable returns a table controller. Sliders exist only for the axes the
// dataset overflows.
func NewTable(ds *dataset.Dataset, layout Layout, r render.Renderer) *Table {
	t := &Table{pager: table.NewPager(ds, layout.PageRows, layout.PageCols, r)}
	n, p := t.pager.Size()
	pr, pc := t.pager.PageSize()
	if n > pr {
		items := make([]string, n)
		for i := range items {
			items[i] = strconv.Itoa(i + 1)
		}
		t.rows = selector.New(TableRows, items, layout.track(layout.RowSliderLength, true),
			selector.WithRenderer(r),
			selector.WithConsumer(t.consume))
	}
	if p > pc {
		t.cols = selector.New(TableCols, ds.Names(), layout.track(layout.ColSliderLength, false),
			selector.WithRenderer(r),
			selector.WithConsumer(t.consume))
	}
	return t
}

func (t *Table) consume(ev selector.IndexSelected) {
	switch ev.WidgetID {
	case TableRows:
		t.move(table.Rows, ev.Index)
	case TableCols:
		t.move(table.Cols, ev.Index)
	}
}

// Open draws the window at the origin.
func (t *Table) Open() {
	for _, w := range t.Widgets() {
		w.Select(0)
	}
	t.pager.Show(t.state.Offset)
}

// Widgets returns the row and column sliders that exist.
func (t *Table) Widgets() []*selector.Widget {
	var out []*selector.Widget
	if t.rows != nil {
		out = append(out, t.rows)
	}
	if t.cols != nil {
		out = append(out, t.cols)
	}
	return out
}

// Pager returns the underlying pager.
func (t *Table) Pager() *table.Pager { return t.pager }

// State returns the current state.
func (t *Table) State() TableState { return t.state }

// HeaderKey returns the sort key under window column j. Column -1 is the
// row-number header.
func (t *Table) HeaderKey(j int) (string, bool) {
	return t.pager.HeaderKey(j, t.state.Offset)
}

// Dispatch applies ev.
func (t *Table) Dispatch(ev Event) {
	switch e := ev.(type) {
	case OffsetChanged:
		t.move(e.Axis, e.Value)
	case SortToggled:
		t.toggle(e.Column)
	case IndexSelected:
		t.consume(selector.IndexSelected(e))
	}
}

func (t *Table) move(axis table.Axis, v int) {
	v = t.pager.Clamp(axis, v)
	off := t.state.Offset
	if axis == table.Cols {
		if v == off.Col {
			return
		}
		off.Col = v
		t.state.Offset = off
		t.pager.ShowCols(off)
		return
	}
	if v == off.Row {
		return
	}
	off.Row = v
	t.state.Offset = off
	t.pager.ShowRows(off)
}

// toggle sorts by key. A new key sorts largest first and arms the key; the
// armed key sorts the current rows smallest first and disarms. The toggle
// never restores load order.
func (t *Table) toggle(key string) {
	// The first click is the ordering called "sorted-ascending (top-k)":
	// the top-k query puts the largest values first, so its direction is
	// reported as Descending.
	q, dir, armed := table.Top, Descending, key
	if key == t.state.SortKey {
		q, dir, armed = table.Bottom, Ascending, ""
	}
	if err := t.pager.Sort(key, q); err != nil {
		slog.Warn("table sort failed", "key", key, "err", err)
		return
	}
	t.state.SortKey = armed
	t.state.Sorted = key
	t.state.Direction = dir
	t.pager.ShowRows(t.state.Offset)
}
