package render

// Call is one recorded renderer invocation.
type Call struct {
	Method string
	ID     string
}

// Recorder is a Renderer that keeps the latest value of everything it is
// told, plus the sequence of calls since the last Clear.
type Recorder struct {
	Calls []Call

	Axes   map[string][2]float64
	Marks  map[string][2]float64
	Styles map[string]MarkStyle
	Bars   []BarGeometry
	Cells  map[CellID]string
	Labels map[string]string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Axes:   map[string][2]float64{},
		Marks:  map[string][2]float64{},
		Styles: map[string]MarkStyle{},
		Cells:  map[CellID]string{},
		Labels: map[string]string{},
	}
}

// Clear forgets the call log but keeps the current state.
func (r *Recorder) Clear() { r.Calls = nil }

// Count returns how many calls to method were logged.
func (r *Recorder) Count(method string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (r *Recorder) log(method, id string) {
	r.Calls = append(r.Calls, Call{Method: method, ID: id})
}

func (r *Recorder) SetAxisDomain(axis string, domain [2]float64) {
	r.log("SetAxisDomain", axis)
	r.Axes[axis] = domain
}

func (r *Recorder) SetMarkPosition(mark string, x, y float64) {
	r.log("SetMarkPosition", mark)
	r.Marks[mark] = [2]float64{x, y}
}

func (r *Recorder) SetMarkStyle(mark string, style MarkStyle) {
	r.log("SetMarkStyle", mark)
	r.Styles[mark] = style
}

func (r *Recorder) SetBarGeometry(bar int, geom BarGeometry) {
	r.log("SetBarGeometry", "")
	if bar >= 0 && bar < len(r.Bars) {
		r.Bars[bar] = geom
	}
}

func (r *Recorder) SetCellText(cell CellID, text string) {
	r.log("SetCellText", cell.String())
	r.Cells[cell] = text
}

func (r *Recorder) SetLabelText(label string, text string) {
	r.log("SetLabelText", label)
	r.Labels[label] = text
}

func (r *Recorder) ResetBars(count int, width float64) {
	r.log("ResetBars", "")
	r.Bars = make([]BarGeometry, count)
	for i := range r.Bars {
		r.Bars[i] = BarGeometry{X: float64(i) * width, Width: width}
	}
}
