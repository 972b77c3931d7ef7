package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/aescherling/quiver/internal/render"
	"github.com/aescherling/quiver/internal/scale"
	"github.com/aescherling/quiver/internal/selector"
	"github.com/aescherling/quiver/internal/table"
	"github.com/aescherling/quiver/internal/view"
)

// -------------------------
// Styles
// -------------------------

var (
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	axisStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("202")).Bold(true)
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

	// Selector styles. The focused selector takes the same cyan as the
	// active tab.
	captionStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	focusedCaptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	trackStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dotStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	hoverDotStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	valueStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	headerStyle        = lipgloss.NewStyle().Bold(true).Underline(true)
	focusedHeaderStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	rowLabelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// namedColors resolves the colour names the views use. Black is left to
// the terminal's own foreground.
var namedColors = map[string]string{
	"skyblue": "#87CEEB",
	"black":   "",
}

// terminalColor converts a view colour into a lipgloss colour.
func terminalColor(name string) (lipgloss.Color, bool) {
	if hex, ok := namedColors[name]; ok {
		name = hex
	}
	if name == "" {
		return "", false
	}
	return lipgloss.Color(name), true
}

// -------------------------
// Selectors
// -------------------------

const captionWidth = 9

// selectorName is the part of a widget id after the view prefix.
func selectorName(id string) string {
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		return id[i+1:]
	}
	return id
}

// span is the usable length of a widget track.
func span(w *selector.Widget) float64 {
	g := w.Geometry()
	return g.Length - 2*g.Margin
}

// dotCell returns the cell of the indicator on a track of n cells. Vertical
// tracks put the far end of the track at the top.
func dotCell(w *selector.Widget, n int, vertical bool) int {
	if n <= 1 || span(w) <= 0 {
		return 0
	}
	t := w.Indicator() / span(w)
	if vertical {
		t = 1 - t
	}
	return clampInt(int(math.Round(t*float64(n-1))), 0, n-1)
}

// trackPos converts a cell offset on a track of n cells back into the
// widget's track coordinate.
func trackPos(w *selector.Widget, offset, n int, vertical bool) float64 {
	if n <= 1 {
		return 0
	}
	t := float64(clampInt(offset, 0, n-1)) / float64(n-1)
	if vertical {
		t = 1 - t
	}
	return t * span(w)
}

func drawDot(w *selector.Widget) string {
	if w.State() == selector.Hovering {
		return hoverDotStyle.Render("●")
	}
	return dotStyle.Render("●")
}

// drawSelector draws a horizontal track of n cells, with its caption and
// current value.
func drawSelector(c *canvas, w *selector.Widget, n int, focused bool) string {
	caption := captionStyle
	if focused {
		caption = focusedCaptionStyle
	}
	var b strings.Builder
	dot := dotCell(w, n, false)
	for i := 0; i < n; i++ {
		if i == dot && w.Len() > 0 {
			b.WriteString(drawDot(w))
			continue
		}
		b.WriteString(trackStyle.Render("─"))
	}
	return caption.Render(fmt.Sprintf("%-*s", captionWidth, selectorName(w.ID()))) + " " +
		zone.Mark(w.ID(), b.String()) + " " +
		valueStyle.Render(c.label(w.LabelID()))
}

// drawVerticalSelector draws a track of n rows, one cell wide.
func drawVerticalSelector(w *selector.Widget, n int, focused bool) string {
	rows := make([]string, n)
	dot := dotCell(w, n, true)
	track := trackStyle
	if focused {
		track = focusedCaptionStyle
	}
	for i := range rows {
		if i == dot && w.Len() > 0 {
			rows[i] = drawDot(w)
			continue
		}
		rows[i] = track.Render("│")
	}
	return zone.Mark(w.ID(), strings.Join(rows, "\n"))
}

// -------------------------
// Axes
// -------------------------

// formatTick prints a tick value without trailing zeros.
func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// xAxis draws the baseline and the tick labels under a plot n cells wide,
// indented by gutter cells.
func xAxis(domain [2]float64, n, gutter int) string {
	line := strings.Repeat(" ", gutter-1) + "└" + strings.Repeat("─", n)
	labels := []rune(strings.Repeat(" ", gutter+n+8))
	if domain[0] < domain[1] && n > 1 {
		sc := scale.NewLinear(domain, [2]float64{0, float64(n - 1)})
		next := 0
		for _, t := range sc.Ticks(max(2, n/8)) {
			text := []rune(formatTick(t))
			at := gutter + int(math.Round(sc.Map(t))) - len(text)/2
			if at < next || at+len(text) > len(labels) {
				continue
			}
			copy(labels[at:], text)
			next = at + len(text) + 1
		}
	}
	return axisStyle.Render(line) + "\n" + axisStyle.Render(strings.TrimRight(string(labels), " "))
}

// yGutter returns the left labels of a plot n rows high: the top of the
// domain on the first row and the bottom on the last.
func yGutter(domain [2]float64, n int) ([]string, int) {
	top, bottom := formatTick(domain[1]), formatTick(domain[0])
	width := max(runewidth.StringWidth(top), runewidth.StringWidth(bottom)) + 2
	out := make([]string, n)
	for i := range out {
		label := ""
		switch i {
		case 0:
			label = top
		case n - 1:
			label = bottom
		}
		out[i] = axisStyle.Render(runewidth.FillLeft(label, width-2) + " │")
	}
	return out, width
}

// -------------------------
// Histogram
// -------------------------

// eighths are the partial blocks used for the top cell of a bar.
var eighths = []rune("▁▂▃▄▅▆▇")

// drawHistogram draws the animated bars of c on a cols x rows grid. The
// bars live in a width x height frame.
func drawHistogram(c *canvas, width, height float64, cols, rows int) string {
	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", cols))
	}
	for i, b := range c.bars {
		lo := int(math.Round(b.X / width * float64(cols)))
		hi := int(math.Round((b.X + b.Width) / width * float64(cols)))
		if hi-lo >= 2 {
			hi--
		}
		h := math.Max(0, c.heights[i]) / height * float64(rows)
		full := int(h)
		part := int((h - float64(full)) * 8)
		if full == 0 && part == 0 && b.Height > 0 {
			part = 1
		}
		for col := max(lo, 0); col < hi && col < cols; col++ {
			for r := 0; r < full && r < rows; r++ {
				grid[rows-1-r][col] = '█'
			}
			if part > 0 && full < rows {
				grid[rows-1-full][col] = eighths[part-1]
			}
		}
	}

	gutter, gw := yGutter(c.axes[view.HistYAxis], rows)
	lines := make([]string, rows)
	for r := range grid {
		lines[r] = gutter[r] + barStyle.Render(string(grid[r]))
	}
	return strings.Join(lines, "\n") + "\n" + xAxis(c.axes[view.HistXAxis], cols, gw)
}

// -------------------------
// Scatter
// -------------------------

// radiusGlyphs grow with the mark radius over view.RadiusRange.
var radiusGlyphs = []string{"·", "•", "●", "◉"}

func glyphFor(radius float64) string {
	lo, hi := view.RadiusRange[0], view.RadiusRange[1]
	t := (radius - lo) / (hi - lo)
	i := int(t * float64(len(radiusGlyphs)))
	if radius > lo && i == 0 {
		i = 1
	}
	return radiusGlyphs[clampInt(i, 0, len(radiusGlyphs)-1)]
}

// drawScatter draws the first n points of c on a cols x rows grid. Points
// without a position are skipped; later points cover earlier ones.
func drawScatter(c *canvas, n int, width, height float64, cols, rows int) string {
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for col := range grid[r] {
			grid[r][col] = " "
		}
	}
	for i := 0; i < n; i++ {
		pos, ok := c.marks[render.Point(i)]
		if !ok || math.IsNaN(pos[0]) || math.IsNaN(pos[1]) {
			continue
		}
		col := clampInt(int(math.Round(pos[0]/width*float64(cols-1))), 0, cols-1)
		row := clampInt(int(math.Round(pos[1]/height*float64(rows-1))), 0, rows-1)
		st := c.styles[render.Point(i)]
		glyph := glyphFor(st.Radius)
		color, ok := terminalColor(st.Fill)
		if !ok {
			color, ok = terminalColor(st.Stroke)
		}
		if ok {
			glyph = lipgloss.NewStyle().Foreground(color).Render(glyph)
		}
		grid[row][col] = glyph
	}

	gutter, gw := yGutter(c.axes[view.ScatterY], rows)
	lines := make([]string, rows)
	for r := range grid {
		lines[r] = gutter[r] + strings.Join(grid[r], "")
	}
	return strings.Join(lines, "\n") + "\n" + xAxis(c.axes[view.ScatterX], cols, gw)
}

// -------------------------
// Table
// -------------------------

const (
	cellWidth     = 19
	rowLabelWidth = 6
)

// headerZone is the zone id of window header j; -1 is the row header.
func headerZone(j int) string { return "table/header/" + strconv.Itoa(j) }

func sortArrow(d view.SortDirection) string {
	switch d {
	case view.Descending:
		return " ▼"
	case view.Ascending:
		return " ▲"
	}
	return ""
}

// drawTable draws the table window. focus is the focused header, or -2
// when no header has focus.
func drawTable(c *canvas, t *view.Table, focus int) string {
	pageRows, pageCols := t.Pager().PageSize()
	st := t.State()

	header := func(j int, text string, width int) string {
		if key, ok := t.HeaderKey(j); ok && key == st.Sorted && text != "" {
			text += sortArrow(st.Direction)
		}
		style := headerStyle
		if j == focus {
			style = focusedHeaderStyle
		}
		cell := runewidth.FillRight(runewidth.Truncate(text, width-1, ""), width-1)
		return zone.Mark(headerZone(j), style.Render(cell)) + " "
	}

	var b strings.Builder
	b.WriteString(header(-1, c.label(table.RowHeaderLabel), rowLabelWidth))
	for j := 0; j < pageCols; j++ {
		b.WriteString(header(j, c.label(table.ColLabel(j)), cellWidth+1))
	}
	for i := 0; i < pageRows; i++ {
		b.WriteString("\n")
		line := rowLabelStyle.Render(runewidth.FillLeft(c.label(table.RowLabel(i)), rowLabelWidth-1)) + " "
		row := lipgloss.NewStyle()
		if color, ok := terminalColor(c.styles[table.StripeMark(i)].Fill); ok {
			row = row.Background(color).Foreground(lipgloss.Color("0"))
		}
		var cells strings.Builder
		for j := 0; j < pageCols; j++ {
			cells.WriteString(runewidth.FillRight(c.cells[render.CellID{Row: i, Col: j}], cellWidth) + " ")
		}
		b.WriteString(line + row.Render(cells.String()))
	}
	return b.String()
}

// tableWidth is the cell width of a table window with pageCols columns.
func tableWidth(pageCols int) int {
	return rowLabelWidth + pageCols*(cellWidth+1)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
