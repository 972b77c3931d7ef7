package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aescherling/quiver/internal/dataset"
	"github.com/aescherling/quiver/internal/render"
	"github.com/aescherling/quiver/internal/table"
)

// wide is 20 rows by 8 columns. Column n holds a permutation of 0..19.
func wide(t *testing.T) *dataset.Dataset {
	t.Helper()
	names := []string{"n"}
	for j := 1; j < 8; j++ {
		names = append(names, fmt.Sprintf("c%d", j))
	}
	rows := make([][]any, 20)
	for i := range rows {
		rows[i] = []any{i * 7 % 20}
		for j := 1; j < 8; j++ {
			rows[i] = append(rows[i], fmt.Sprintf("r%dc%d", i, j))
		}
	}
	d, err := dataset.New(names, rows, nil)
	require.NoError(t, err)
	return d
}

func openTable(t *testing.T) (*Table, *render.Recorder) {
	t.Helper()
	rec := render.NewRecorder()
	tb := NewTable(wide(t), DefaultLayout(), rec)
	tb.Open()
	return tb, rec
}

func TestTableSlidersOnlyWhenNeeded(t *testing.T) {
	tb, _ := openTable(t)
	require.Len(t, tb.Widgets(), 2)
	assert.Equal(t, TableRows, tb.Widgets()[0].ID())
	assert.Equal(t, 20, tb.Widgets()[0].Len())

	d, err := dataset.New([]string{"a", "b"}, [][]any{{1, 2}, {3, 4}}, nil)
	require.NoError(t, err)
	small := NewTable(d, DefaultLayout(), render.NewRecorder())
	assert.Empty(t, small.Widgets())
}

func TestTableOffsetClamp(t *testing.T) {
	tb, rec := openTable(t)

	rec.Clear()
	tb.Dispatch(OffsetChanged{Axis: table.Rows, Value: 12})
	assert.Equal(t, table.Offset{Row: 5}, tb.State().Offset)
	assert.Equal(t, "r5c1", rec.Cells[render.CellID{Row: 0, Col: 1}])
	assert.Equal(t, "6", rec.Labels[table.RowLabel(0)])

	// Already at the clamped offset.
	rec.Clear()
	tb.Dispatch(OffsetChanged{Axis: table.Rows, Value: 19})
	assert.Zero(t, rec.Count("SetCellText"))

	tb.Dispatch(OffsetChanged{Axis: table.Cols, Value: 7})
	assert.Equal(t, table.Offset{Row: 5, Col: 3}, tb.State().Offset)
	assert.Equal(t, "c3", rec.Labels[table.ColLabel(0)])
	assert.Equal(t, "r19c7", rec.Cells[render.CellID{Row: 14, Col: 4}])

	tb.Dispatch(OffsetChanged{Axis: table.Rows, Value: -4})
	assert.Equal(t, 0, tb.State().Offset.Row)
}

func TestTableRowSliderIsReversed(t *testing.T) {
	tb, _ := openTable(t)
	rows := tb.Widgets()[0]

	rows.Move(0)
	assert.Equal(t, 19, rows.Index())
	assert.Equal(t, 5, tb.State().Offset.Row)

	rows.Move(290)
	assert.Equal(t, 0, tb.State().Offset.Row)
}

func TestTableSortToggle(t *testing.T) {
	tb, rec := openTable(t)

	tb.Dispatch(SortToggled{Column: "n"})
	st := tb.State()
	assert.Equal(t, "n", st.SortKey)
	assert.Equal(t, "n", st.Sorted)
	assert.Equal(t, Descending, st.Direction)
	assert.Equal(t, "19", rec.Cells[render.CellID{Row: 0, Col: 0}])
	assert.Equal(t, "18", rec.Labels[table.RowLabel(0)])

	tb.Dispatch(SortToggled{Column: "n"})
	st = tb.State()
	assert.Equal(t, "", st.SortKey)
	assert.Equal(t, "n", st.Sorted)
	assert.Equal(t, Ascending, st.Direction)
	assert.Equal(t, "0", rec.Cells[render.CellID{Row: 0, Col: 0}])
	assert.Equal(t, "1", rec.Labels[table.RowLabel(0)])

	// A third click starts the cycle again.
	tb.Dispatch(SortToggled{Column: "n"})
	assert.Equal(t, Descending, tb.State().Direction)

	tb.Dispatch(SortToggled{Column: table.RowNumberKey})
	assert.Equal(t, table.RowNumberKey, tb.State().SortKey)
	assert.Equal(t, "20", rec.Labels[table.RowLabel(0)])
}

func TestTableSortKeepsOffset(t *testing.T) {
	tb, rec := openTable(t)
	tb.Dispatch(OffsetChanged{Axis: table.Rows, Value: 3})
	tb.Dispatch(SortToggled{Column: "n"})
	assert.Equal(t, 3, tb.State().Offset.Row)
	assert.Equal(t, "16", rec.Cells[render.CellID{Row: 0, Col: 0}])
	assert.Equal(t, 20, tb.Pager().Index().Len())
}

func TestTableUnknownSortKey(t *testing.T) {
	tb, rec := openTable(t)
	rec.Clear()
	tb.Dispatch(SortToggled{Column: "nope"})
	assert.Equal(t, TableState{}, tb.State())
	assert.Zero(t, len(rec.Calls))
}

func TestTableHeaderKey(t *testing.T) {
	tb, _ := openTable(t)
	tb.Dispatch(OffsetChanged{Axis: table.Cols, Value: 2})
	k, ok := tb.HeaderKey(0)
	assert.True(t, ok)
	assert.Equal(t, "c2", k)
	k, _ = tb.HeaderKey(-1)
	assert.Equal(t, table.RowNumberKey, k)
}
