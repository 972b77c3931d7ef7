package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/aescherling/quiver/internal/config"
	"github.com/aescherling/quiver/internal/dataset"
	"github.com/aescherling/quiver/internal/load"
	"github.com/aescherling/quiver/internal/selector"
	"github.com/aescherling/quiver/internal/table"
	"github.com/aescherling/quiver/internal/view"
)

// -------------------------
// Model and Global Styles
// -------------------------

// Positions of the views in config.Views.
const (
	histogramView = iota
	scatterView
	tableView
)

// control is one place keyboard focus can rest: a selector or, in the
// table, a column header.
type control struct {
	widget *selector.Widget
	// header is the window column of a table header, -1 for the row
	// header. Unused when widget is set.
	header int
}

// model holds the application state.
type model struct {
	cfg    config.Config
	layout view.Layout
	path   string

	// ds is the loaded dataset; every controller draws onto canvas.
	ds      *dataset.Dataset
	canvas  *canvas
	hist    *view.Histogram
	scatter *view.Scatter
	table   *view.Table
	views   []view.Controller

	// active is the index of the shown view; focus holds the focused
	// control of each view.
	active int
	focus  []int

	help help.Model

	// Bar animation.
	spring    harmonica.Spring
	animating bool

	// Window dimensions.
	winWidth, winHeight int

	// status is the outcome of the last reload.
	status string
}

// tickMsg advances the bar animation by one frame.
type tickMsg struct{}

// reloadMsg is sent by the file watcher when the data file changes.
type reloadMsg struct {
	path string
}

// appHeaderStyle is the title bar across the top.
var appHeaderStyle = lipgloss.NewStyle().
	Background(lipgloss.Color("4")).
	Foreground(lipgloss.Color("15")).
	Bold(true)

var tabStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("245")).
	Padding(0, 1)

// activeTabStyle marks the shown view.
var activeTabStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("15")).
	Background(lipgloss.Color("23")).
	Bold(true).
	Padding(0, 1)

func newModel(cfg config.Config, path string, ds *dataset.Dataset) *model {
	m := &model{
		cfg:    cfg,
		layout: cfg.Layout(),
		path:   path,
		active: max(0, slices.Index(config.Views, cfg.View)),
		help:   help.New(),
		// Defaults for window dimensions; they will be updated on WindowSizeMsg.
		winWidth:  80,
		winHeight: 24,
	}
	if cfg.Animation {
		m.spring = harmonica.NewSpring(harmonica.FPS(cfg.AnimationFPS), 6.0, 0.8)
	}
	m.open(ds)
	return m
}

// open builds fresh controllers over ds and draws their initial state.
func (m *model) open(ds *dataset.Dataset) {
	m.ds = ds
	m.canvas = newCanvas()
	m.hist = view.NewHistogram(ds, m.layout, m.canvas)
	m.scatter = view.NewScatter(ds, m.layout, m.canvas)
	m.table = view.NewTable(ds, m.layout, m.canvas)
	m.views = []view.Controller{m.hist, m.scatter, m.table}
	for _, v := range m.views {
		v.Open()
	}
	m.focus = make([]int, len(m.views))
	m.animating = false
}

// -------------------------
// Commands and Init
// -------------------------

// tickCmd returns a command that sends a tickMsg after one animation frame.
func tickCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Init starts the opening animation of the histogram bars.
func (m *model) Init() tea.Cmd {
	return m.animate()
}

// animate starts the frame ticks if a bar is away from its target. With
// animation off the bars jump straight there.
func (m *model) animate() tea.Cmd {
	if !m.cfg.Animation {
		m.canvas.settle()
		return nil
	}
	if m.animating || m.canvas.settled() {
		return nil
	}
	m.animating = true
	return tickCmd(m.cfg.AnimationFPS)
}

// -------------------------
// Update
// -------------------------

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tickMsg:
		if m.canvas.animate(m.spring) {
			return m, tickCmd(m.cfg.AnimationFPS)
		}
		m.animating = false
		return m, nil

	case tea.WindowSizeMsg:
		m.winWidth = msg.Width
		m.winHeight = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case reloadMsg:
		m.reload(msg.path)
		return m, m.animate()

	case tea.MouseMsg:
		m.mouse(msg)
		return m, m.animate()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		// Switch views.
		case key.Matches(msg, keys.Next):
			m.active = (m.active + 1) % len(m.views)
		case key.Matches(msg, keys.Prev):
			m.active = (m.active + len(m.views) - 1) % len(m.views)

		// Move focus between controls.
		case key.Matches(msg, keys.Up):
			m.moveFocus(-1)
		case key.Matches(msg, keys.Down):
			m.moveFocus(1)

		// Nudge the focused selector, or walk along the headers.
		case key.Matches(msg, keys.Left):
			m.nudge(-1)
		case key.Matches(msg, keys.Right):
			m.nudge(1)

		case key.Matches(msg, keys.Sort):
			if ctl, ok := m.focused(); ok && ctl.widget == nil {
				m.sortBy(ctl.header)
			}

		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, m.animate()

	default:
		return m, nil
	}
}

// reload replaces the dataset with a fresh read of path. A failed read
// keeps the current dataset.
func (m *model) reload(path string) {
	ds, err := load.File(context.Background(), path)
	if err != nil {
		slog.Warn("reload failed", "path", path, "err", err)
		m.status = fmt.Sprintf("Reload failed: %v", err)
		return
	}
	m.open(ds)
	m.status = fmt.Sprintf("Reloaded %s at %s", filepath.Base(path), time.Now().Format(time.TimeOnly))
}

// controls lists the focusable controls of the active view in focus order.
func (m *model) controls() []control {
	var out []control
	for _, w := range m.views[m.active].Widgets() {
		out = append(out, control{widget: w})
	}
	if m.active == tableView {
		_, pageCols := m.table.Pager().PageSize()
		for j := -1; j < pageCols; j++ {
			if _, ok := m.table.HeaderKey(j); ok {
				out = append(out, control{header: j})
			}
		}
	}
	return out
}

func (m *model) focused() (control, bool) {
	ctls := m.controls()
	if len(ctls) == 0 {
		return control{}, false
	}
	i := clampInt(m.focus[m.active], 0, len(ctls)-1)
	return ctls[i], true
}

func (m *model) moveFocus(delta int) {
	n := len(m.controls())
	if n == 0 {
		return
	}
	m.focus[m.active] = (clampInt(m.focus[m.active], 0, n-1) + delta + n) % n
}

// nudge steps the focused selector by delta items. On a table header it
// moves focus to the neighbouring header instead.
func (m *model) nudge(delta int) {
	ctl, ok := m.focused()
	if !ok {
		return
	}
	if ctl.widget != nil {
		ctl.widget.Step(delta)
		return
	}
	ctls := m.controls()
	i := clampInt(m.focus[m.active]+delta, 0, len(ctls)-1)
	if ctls[i].widget == nil {
		m.focus[m.active] = i
	}
}

// sortBy toggles the sort on window column j of the table.
func (m *model) sortBy(j int) {
	key, ok := m.table.HeaderKey(j)
	if !ok {
		return
	}
	m.table.Dispatch(view.SortToggled{Column: key})
}

// mouse drives every selector of the active view the pointer is over and
// sorts on a header click.
func (m *model) mouse(msg tea.MouseMsg) {
	for _, w := range m.views[m.active].Widgets() {
		z := zone.Get(w.ID())
		if !z.InBounds(msg) {
			if w.State() == selector.Hovering {
				w.Leave()
			}
			continue
		}
		x, y := z.Pos(msg)
		m.point(w, x, y)
	}
	if m.active != tableView || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	_, pageCols := m.table.Pager().PageSize()
	for j := -1; j < pageCols; j++ {
		if zone.Get(headerZone(j)).InBounds(msg) {
			m.sortBy(j)
			return
		}
	}
}

// point moves w to the pointer at cell (x, y) of its track.
func (m *model) point(w *selector.Widget, x, y int) {
	if w.State() == selector.Idle {
		w.Enter()
	}
	n, vertical := m.trackCells(w)
	offset := x
	if vertical {
		offset = y
	}
	w.Move(trackPos(w, offset, n, vertical))
}

// plotSize is the size of a plot area in cells.
func (m model) plotSize() (cols, rows int) {
	cols = clampInt(m.winWidth-12, 20, 100)
	rows = clampInt(m.winHeight-16, 6, 30)
	return cols, rows
}

// trackCells returns how many cells the track of w is drawn over, and
// whether it runs down the screen.
func (m model) trackCells(w *selector.Widget) (int, bool) {
	switch w.ID() {
	case view.TableRows:
		rows, _ := m.table.Pager().PageSize()
		return rows, true
	case view.TableCols:
		_, pageCols := m.table.Pager().PageSize()
		return clampInt(tableWidth(pageCols)-captionWidth-12, 10, max(10, m.winWidth-captionWidth-12)), false
	}
	cols, _ := m.plotSize()
	return cols, false
}

// -------------------------
// Rendering Functions
// -------------------------

// renderHeader shows the data file and its shape.
func (m model) renderHeader() string {
	header := fmt.Sprintf("quiver | %s | %d records | %d variables (%d numeric)",
		filepath.Base(m.path), m.ds.Len(), len(m.ds.Names()), len(m.ds.NamesOf(dataset.Numeric)))
	return appHeaderStyle.Render(header)
}

func (m model) renderTabs() string {
	tabs := make([]string, len(config.Views))
	for i, name := range config.Views {
		if i == m.active {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderNotes returns the warning and categorical lines of a plot.
func (m model) renderNotes(name string) []string {
	var out []string
	if s := m.canvas.label(view.WarningLabel(name)); s != "" {
		out = append(out, warningStyle.Render(s))
	}
	if s := m.canvas.label(view.CategoricalLabel(name)); s != "" {
		out = append(out, noteStyle.Render(s))
	}
	return out
}

func (m *model) renderSelectors(widgets []*selector.Widget) []string {
	ctl, _ := m.focused()
	out := make([]string, 0, len(widgets))
	for _, w := range widgets {
		n, _ := m.trackCells(w)
		out = append(out, drawSelector(m.canvas, w, n, ctl.widget == w))
	}
	return out
}

func (m *model) renderHistogram() string {
	cols, rows := m.plotSize()
	parts := []string{titleStyle.Render(m.canvas.label(view.HistLabel))}
	if s := m.canvas.label(view.HistMissing); s != "" {
		parts = append(parts, noteStyle.Render(s))
	}
	parts = append(parts, m.renderNotes(view.HistogramName)...)
	parts = append(parts, drawHistogram(m.canvas, m.layout.Width, m.layout.Height, cols, rows), "")
	parts = append(parts, m.renderSelectors(m.hist.Widgets())...)
	return strings.Join(parts, "\n")
}

// renderLegend describes the colour and size encodings in use.
func (m *model) renderLegend() []string {
	st := m.scatter.State()
	var out []string
	if st.Color != "" {
		var ramp strings.Builder
		for i := 0; i < 8; i++ {
			ramp.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(view.ColorOf(float64(i) / 7))).Render("█"))
		}
		out = append(out, noteStyle.Render("colour "+st.Color+": "+formatTick(st.ColorDomain[0]))+" "+
			ramp.String()+" "+noteStyle.Render(formatTick(st.ColorDomain[1])))
	}
	if st.Size != "" {
		out = append(out, noteStyle.Render(fmt.Sprintf("size %s: %s %s %s", st.Size,
			formatTick(st.SizeDomain[0]), strings.Join(radiusGlyphs, " "), formatTick(st.SizeDomain[1]))))
	}
	return out
}

func (m *model) renderScatter() string {
	cols, rows := m.plotSize()
	st := m.scatter.State()
	title := ""
	if st.X != "" && st.Y != "" {
		title = st.Y + " against " + st.X
	}
	parts := []string{titleStyle.Render(title)}
	parts = append(parts, m.renderNotes(view.ScatterName)...)
	parts = append(parts, drawScatter(m.canvas, m.ds.Len(), m.layout.Width, m.layout.Height, cols, rows))
	parts = append(parts, m.renderLegend()...)
	parts = append(parts, "")
	parts = append(parts, m.renderSelectors(m.scatter.Widgets())...)
	return strings.Join(parts, "\n")
}

func (m *model) renderTable() string {
	focus := -2
	ctl, ok := m.focused()
	if ok && ctl.widget == nil {
		focus = ctl.header
	}
	grid := drawTable(m.canvas, m.table, focus)

	var below []string
	for _, w := range m.table.Widgets() {
		if w.ID() == view.TableRows {
			rows, _ := m.table.Pager().PageSize()
			grid = lipgloss.JoinHorizontal(lipgloss.Top, grid, " \n"+drawVerticalSelector(w, rows, ctl.widget == w))
			continue
		}
		below = append(below, m.renderSelectors([]*selector.Widget{w})...)
	}

	st := m.table.State()
	n, p := m.table.Pager().Size()
	pageRows, pageCols := m.table.Pager().PageSize()
	info := fmt.Sprintf("rows %d-%d of %d, columns %d-%d of %d",
		min(st.Offset.Row+1, n), min(st.Offset.Row+pageRows, n), n,
		min(st.Offset.Col+1, p), min(st.Offset.Col+pageCols, p), p)
	if st.Sorted != "" {
		info += fmt.Sprintf(", sorted by %s (%s)", st.Sorted, st.Direction)
	}

	parts := append([]string{grid, ""}, below...)
	return strings.Join(append(parts, noteStyle.Render(info)), "\n")
}

// View renders the header, the active view and the key help.
func (m model) View() string {
	header := m.renderHeader()

	var content string
	switch m.active {
	case histogramView:
		content = m.renderHistogram()
	case scatterView:
		content = m.renderScatter()
	case tableView:
		content = m.renderTable()
	}

	instructions := m.help.View(keys)
	out := header + "\n" + m.renderTabs() + "\n\n" + content + "\n\n" + instructions
	if m.status != "" {
		out += "\n" + noteStyle.Render(m.status)
	}
	return zone.Scan(out)
}

// -------------------------
// Main
// -------------------------

// loadConfig reads the config file, if any, then applies the flags that
// were set on the command line.
func loadConfig(path string, fs *flag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	cfg.Override(fs)
	return cfg, cfg.Validate()
}

// setupLogging sends slog output to path. The terminal belongs to the
// program, so without a path logs are dropped.
func setupLogging(path string) (func() error, error) {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return f.Close, nil
}

func run(path string, cfg config.Config) error {
	closeLog, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	ds, err := load.File(context.Background(), path)
	if err != nil {
		return err
	}

	zone.NewGlobal()
	defer zone.Close()

	m := newModel(cfg, path, ds)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())

	if cfg.Watch {
		w, err := load.Watch(path, func(changed string) {
			p.Send(reloadMsg{path: changed})
		})
		if err != nil {
			return err
		}
		defer w.Close()
	}

	_, err = p.Run()
	return err
}

func main() {
	flag.String("view", config.ViewHistogram, "View shown at startup: histogram, scatter or table")
	configFlag := flag.String("config", "", "TOML or YAML config file")
	flag.Int("rows", table.DefaultPageRows, "Table rows per page")
	flag.Int("cols", table.DefaultPageCols, "Table columns per page")
	flag.String("log", "", "Write logs to this file")
	flag.Bool("watch", false, "Reload when the data file changes")
	flag.Bool("noanim", false, "Disable bar animation")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <data file>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configFlag, flag.CommandLine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := run(flag.Arg(0), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
