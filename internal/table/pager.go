package table

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aescherling/quiver/internal/dataset"
	"github.com/aescherling/quiver/internal/render"
)

const (
	// DefaultPageRows and DefaultPageCols size the visible window.
	DefaultPageRows = 15
	DefaultPageCols = 5

	// Cell text longer than truncateAbove runes is cut to truncateKeep
	// runes followed by Ellipsis.
	truncateAbove = 19
	truncateKeep  = 16

	// Ellipsis marks truncated cell text.
	Ellipsis = "..."

	// StripeFill is the background of even data rows.
	StripeFill = "skyblue"
)

// Axis selects the row or column dimension of the window.
type Axis int

const (
	Rows Axis = iota
	Cols
)

func (a Axis) String() string {
	if a == Cols {
		return "col"
	}
	return "row"
}

// Offset is the top-left data position of the window.
type Offset struct {
	Row, Col int
}

// Query picks which end of a dimension a sort takes.
type Query int

const (
	// Top orders largest key first.
	Top Query = iota
	// Bottom orders smallest key first.
	Bottom
)

func (q Query) String() string {
	if q == Bottom {
		return "bottom"
	}
	return "top"
}

// Renderer ids for the table's labels and row backgrounds.
const RowHeaderLabel = "table/rowheader"

// RowLabel is the label id of window row i.
func RowLabel(i int) string { return "table/row/" + strconv.Itoa(i) }

// ColLabel is the label id of window column j.
func ColLabel(j int) string { return "table/col/" + strconv.Itoa(j) }

// StripeMark is the mark id of the background of window row i.
func StripeMark(i int) string { return "table/stripe/" + strconv.Itoa(i) }

// Truncate shortens long cell text. The threshold is fixed.
func Truncate(s string) string {
	r := []rune(s)
	if len(r) > truncateAbove {
		return string(r[:truncateKeep]) + Ellipsis
	}
	return s
}

// Pager renders a pageRows x pageCols window of a dataset and sorts the
// dataset through an Index.
type Pager struct {
	ds       *dataset.Dataset
	names    []string
	index    *Index
	pageRows int
	pageCols int
	r        render.Renderer
}

// NewPager returns a pager over ds in load order.
func NewPager(ds *dataset.Dataset, pageRows, pageCols int, r render.Renderer) *Pager {
	return &Pager{
		ds:       ds,
		names:    ds.Names(),
		index:    NewIndex(ds, nil),
		pageRows: max(pageRows, 1),
		pageCols: max(pageCols, 1),
		r:        r,
	}
}

// Size returns the total number of rows and columns.
func (p *Pager) Size() (rows, cols int) { return p.index.Len(), len(p.names) }

// PageSize returns the window dimensions.
func (p *Pager) PageSize() (rows, cols int) { return p.pageRows, p.pageCols }

// Index returns the current index.
func (p *Pager) Index() *Index { return p.index }

// Names returns the column names in display order.
func (p *Pager) Names() []string { return p.names }

// MaxOffset returns the largest valid offset along axis.
func (p *Pager) MaxOffset(a Axis) int {
	if a == Cols {
		return max(0, len(p.names)-p.pageCols)
	}
	return max(0, p.index.Len()-p.pageRows)
}

// Clamp bounds an offset along axis to [0, MaxOffset(axis)].
func (p *Pager) Clamp(a Axis, v int) int {
	return max(0, min(v, p.MaxOffset(a)))
}

// HeaderKey returns the sort key under window column j at offset off.
// Column -1 is the row-number header.
func (p *Pager) HeaderKey(j int, off Offset) (string, bool) {
	if j == -1 {
		return RowNumberKey, true
	}
	c := off.Col + j
	if j < 0 || j >= p.pageCols || c >= len(p.names) {
		return "", false
	}
	return p.names[c], true
}

// Show draws everything in the window at off.
func (p *Pager) Show(off Offset) {
	p.r.SetLabelText(RowHeaderLabel, "row")
	p.headers(off)
	p.rowLabels(off)
	p.cells(off)
}

// ShowRows redraws row labels, row stripes and cells.
func (p *Pager) ShowRows(off Offset) {
	p.rowLabels(off)
	p.cells(off)
}

// ShowCols redraws column headers and cells.
func (p *Pager) ShowCols(off Offset) {
	p.headers(off)
	p.cells(off)
}

func (p *Pager) headers(off Offset) {
	for j := 0; j < p.pageCols; j++ {
		text := ""
		if c := off.Col + j; c < len(p.names) {
			text = p.names[c]
		}
		p.r.SetLabelText(ColLabel(j), text)
	}
}

func (p *Pager) rowLabels(off Offset) {
	for i := 0; i < p.pageRows; i++ {
		row := off.Row + i
		if row >= p.index.Len() {
			p.r.SetLabelText(RowLabel(i), "")
			p.r.SetMarkStyle(StripeMark(i), render.MarkStyle{})
			continue
		}
		p.r.SetLabelText(RowLabel(i), strconv.Itoa(p.index.At(row).RowNumber+1))
		style := render.MarkStyle{}
		if row%2 == 0 {
			style.Fill = StripeFill
		}
		p.r.SetMarkStyle(StripeMark(i), style)
	}
}

func (p *Pager) cells(off Offset) {
	for i := 0; i < p.pageRows; i++ {
		for j := 0; j < p.pageCols; j++ {
			p.r.SetCellText(render.CellID{Row: i, Col: j}, p.cellText(off.Row+i, off.Col+j))
		}
	}
}

func (p *Pager) cellText(row, col int) string {
	if row < 0 || col < 0 || row >= p.index.Len() || col >= len(p.names) {
		return ""
	}
	return Truncate(p.index.At(row).Text(col))
}

// Sort reorders the whole dataset by key, taking the top or bottom of a
// dimension built over the current order. The dimension is disposed and
// the index rebuilt over the new order.
func (p *Pager) Sort(key string, q Query) error {
	dim, err := p.index.Dimension(key)
	if err != nil {
		return err
	}
	defer dim.Dispose()

	n := p.index.Len()
	var order []int
	if q == Top {
		order, err = dim.Top(n)
	} else {
		order, err = dim.Bottom(n)
	}
	if err != nil {
		return err
	}
	if len(order) != n {
		return fmt.Errorf("sort by %q returned %d of %d records", key, len(order), n)
	}
	p.index = NewIndex(p.ds, order)
	slog.Debug("table sorted", "key", key, "query", q.String(), "records", n)
	return nil
}
