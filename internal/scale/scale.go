// Package scale maps data extents onto pixel ranges for axes, marks and
// selector tracks.
package scale

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"
)

// ErrDegenerateExtent is matched by every *DegenerateExtentError.
var ErrDegenerateExtent = errors.New("degenerate extent")

// DegenerateExtentError reports a value sequence that cannot produce a
// usable domain: either nothing in it is a number, or its floored and
// ceiled bounds collapse to a single point.
type DegenerateExtentError struct {
	// Valid is the number of finite values seen.
	Valid int
	// Lo and Hi are the rounded bounds when Valid > 0.
	Lo, Hi float64
}

func (e *DegenerateExtentError) Error() string {
	if e.Valid == 0 {
		return "degenerate extent: no numeric values"
	}
	return fmt.Sprintf("degenerate extent: all %d values round to [%g, %g]", e.Valid, e.Lo, e.Hi)
}

func (e *DegenerateExtentError) Is(target error) bool {
	return target == ErrDegenerateExtent
}

// Linear is an affine map from a domain onto a range.
type Linear struct {
	norm   scale.Linear
	lo, hi float64
}

// NewLinear returns the affine map taking domain[0] to rng[0] and
// domain[1] to rng[1]. Ranges may run backwards, as for a y axis whose
// origin is at the bottom.
func NewLinear(domain, rng [2]float64) Linear {
	return Linear{
		norm: scale.Linear{Min: domain[0], Max: domain[1], Base: 10},
		lo:   rng[0],
		hi:   rng[1],
	}
}

// NewIndex returns the scale taking index range [0, count-1] onto rng.
func NewIndex(count int, rng [2]float64) Linear {
	return NewLinear([2]float64{0, float64(max(count-1, 0))}, rng)
}

func (s Linear) unit(v float64) float64 {
	if s.norm.Min == s.norm.Max {
		return 0
	}
	return s.norm.Map(v)
}

// Map applies the scale.
func (s Linear) Map(v float64) float64 {
	return s.lo + (s.hi-s.lo)*s.unit(v)
}

// Invert maps a range position back into the domain.
func (s Linear) Invert(x float64) float64 {
	if s.hi == s.lo {
		return s.norm.Min
	}
	return s.norm.Unmap((x - s.lo) / (s.hi - s.lo))
}

// Domain returns the input bounds.
func (s Linear) Domain() [2]float64 { return [2]float64{s.norm.Min, s.norm.Max} }

// Range returns the output bounds.
func (s Linear) Range() [2]float64 { return [2]float64{s.lo, s.hi} }

// Ticks returns at most n nicely spaced tick positions inside the domain.
func (s Linear) Ticks(n int) []float64 {
	norm := s.norm
	if norm.Min > norm.Max {
		norm.Min, norm.Max = norm.Max, norm.Min
	}
	major, _ := norm.Ticks(scale.TickOptions{Max: n})
	return major
}

// Pow normalises a value into [0, 1] over its domain, raises it to
// Exponent and then maps it onto the range. It is used for radius
// encodings, where area should grow faster than the value.
type Pow struct {
	Linear
	Exponent float64
}

// NewPow returns a power scale.
func NewPow(exponent float64, domain, rng [2]float64) Pow {
	return Pow{Linear: NewLinear(domain, rng), Exponent: exponent}
}

// Map applies the scale.
func (s Pow) Map(v float64) float64 {
	return s.lo + (s.hi-s.lo)*math.Pow(s.unit(v), s.Exponent)
}

// Invert maps a range position back into the domain.
func (s Pow) Invert(x float64) float64 {
	if s.hi == s.lo {
		return s.norm.Min
	}
	return s.norm.Unmap(math.Pow((x-s.lo)/(s.hi-s.lo), 1/s.Exponent))
}

// Extent returns the minimum and maximum of values, ignoring NaN and
// infinities.
func Extent(values []float64) (lo, hi float64, err error) {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if finite(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return 0, 0, &DegenerateExtentError{}
	}
	lo, hi = stats.Bounds(valid)
	return lo, hi, nil
}

// AxisDomain returns [floor(min), ceil(max)] of values.
func AxisDomain(values []float64) ([2]float64, error) {
	lo, hi, err := Extent(values)
	if err != nil {
		return [2]float64{}, err
	}
	d := [2]float64{math.Floor(lo), math.Ceil(hi)}
	if d[0] == d[1] {
		return [2]float64{}, &DegenerateExtentError{Valid: countValid(values), Lo: d[0], Hi: d[1]}
	}
	return d, nil
}

// HistDomain returns the axis domain widened by one unit on each side so
// that boundary values never land exactly on the outer bucket edges.
func HistDomain(values []float64) ([2]float64, error) {
	d, err := AxisDomain(values)
	if err != nil {
		return d, err
	}
	return [2]float64{d[0] - 1, d[1] + 1}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func countValid(values []float64) int {
	n := 0
	for _, v := range values {
		if finite(v) {
			n++
		}
	}
	return n
}
