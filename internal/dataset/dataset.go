// Package dataset holds the in-memory table the views explore: an ordered
// list of records over a fixed variable set, each variable tagged Numeric
// or Categorical once at load time.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

var (
	// ErrEmpty is returned when a dataset has no records or no variables.
	ErrEmpty = errors.New("dataset is empty")

	// ErrRaggedRecord is returned when a record does not carry one value
	// per variable.
	ErrRaggedRecord = errors.New("record does not match variable set")

	// ErrDuplicateVariable is returned when two variables share a name.
	ErrDuplicateVariable = errors.New("duplicate variable name")
)

// Type is the per-variable type tag.
type Type int

const (
	// Numeric variables coerce to float64 for every non-missing value.
	Numeric Type = iota
	// Categorical variables hold at least one value that is not a number.
	Categorical
)

func (t Type) String() string {
	switch t {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Variable is a named column.
type Variable struct {
	Name string
	Type Type
}

// MissingnessReport maps a variable name to its count of missing
// observations. It is supplied alongside the records, not derived by the
// views.
type MissingnessReport map[string]int

// Record is one row. Values are addressed by variable position.
type Record struct {
	// RowNumber is the 0-based position the record had at load time.
	RowNumber int

	text []string
	nums []float64
}

// Text returns the display text of the value at column col.
func (r Record) Text(col int) string {
	if col < 0 || col >= len(r.text) {
		return ""
	}
	return r.text[col]
}

// Num returns the numeric value at column col, NaN when it is missing or
// not a number.
func (r Record) Num(col int) float64 {
	if col < 0 || col >= len(r.nums) {
		return math.NaN()
	}
	return r.nums[col]
}

// Dataset is an immutable ordered set of records.
type Dataset struct {
	vars    []Variable
	index   map[string]int
	records []Record
	missing MissingnessReport
}

// New builds a Dataset from column names and raw row values. A nil or
// blank raw value counts as missing. Each variable is tagged Numeric when
// all of its non-missing values coerce to a number.
func New(names []string, rows [][]any, missing MissingnessReport) (*Dataset, error) {
	if len(names) == 0 || len(rows) == 0 {
		return nil, ErrEmpty
	}
	d := &Dataset{
		vars:    make([]Variable, len(names)),
		index:   make(map[string]int, len(names)),
		records: make([]Record, len(rows)),
		missing: missing,
	}
	if d.missing == nil {
		d.missing = MissingnessReport{}
	}
	for i, name := range names {
		if _, dup := d.index[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateVariable, name)
		}
		d.index[name] = i
		d.vars[i] = Variable{Name: name, Type: Numeric}
	}

	for r, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRaggedRecord, r, len(row), len(names))
		}
		rec := Record{
			RowNumber: r,
			text:      make([]string, len(names)),
			nums:      make([]float64, len(names)),
		}
		for c, raw := range row {
			rec.nums[c] = math.NaN()
			if IsMissing(raw) {
				continue
			}
			rec.text[c] = cast.ToString(raw)
			f, err := cast.ToFloat64E(raw)
			if err != nil {
				d.vars[c].Type = Categorical
				continue
			}
			// Infinite values keep their text but are left out of every
			// numeric read.
			if !math.IsInf(f, 0) {
				rec.nums[c] = f
			}
		}
		d.records[r] = rec
	}
	return d, nil
}

// naTokens are texts every loader reads as missing, besides blank text.
var naTokens = map[string]bool{"NA": true, "NaN": true, "null": true}

// IsMissing reports whether a raw loader value stands for a missing
// observation: nil, blank text or one of the NA tokens.
func IsMissing(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		s := strings.TrimSpace(v)
		return s == "" || naTokens[s]
	default:
		return false
	}
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Variables returns the variables in column order.
func (d *Dataset) Variables() []Variable { return d.vars }

// Names returns every variable name in column order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.vars))
	for i, v := range d.vars {
		out[i] = v.Name
	}
	return out
}

// NamesOf returns the names of the variables tagged t, in column order.
func (d *Dataset) NamesOf(t Type) []string {
	var out []string
	for _, v := range d.vars {
		if v.Type == t {
			out = append(out, v.Name)
		}
	}
	return out
}

// Lookup returns the column position of name.
func (d *Dataset) Lookup(name string) (int, bool) {
	i, ok := d.index[name]
	return i, ok
}

// Variable returns the variable called name.
func (d *Dataset) Variable(name string) (Variable, bool) {
	i, ok := d.index[name]
	if !ok {
		return Variable{}, false
	}
	return d.vars[i], true
}

// Record returns the record at load position i.
func (d *Dataset) Record(i int) Record { return d.records[i] }

// Column returns the numeric reading of variable name for every record in
// load order. Missing and non-numeric values are NaN. An unknown name yields
// a column of NaN.
func (d *Dataset) Column(name string) []float64 {
	out := make([]float64, len(d.records))
	col, ok := d.index[name]
	for i, rec := range d.records {
		if !ok {
			out[i] = math.NaN()
			continue
		}
		out[i] = rec.nums[col]
	}
	return out
}

// Missing returns the reported missing-value count for name.
func (d *Dataset) Missing(name string) int { return d.missing[name] }

// Report returns the missingness report supplied at construction.
func (d *Dataset) Report() MissingnessReport { return d.missing }
