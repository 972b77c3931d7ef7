// Package table pages a fixed-size window over a dataset and reorders the
// whole dataset through top/bottom dimension queries.
package table

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/aescherling/quiver/internal/dataset"
)

// RowNumberKey sorts by load position.
const RowNumberKey = "rowNumber"

var (
	// ErrUnknownKey is returned for a dimension over a variable the
	// dataset does not have.
	ErrUnknownKey = errors.New("unknown sort key")

	// ErrDisposed is returned by queries on a disposed dimension.
	ErrDisposed = errors.New("dimension disposed")
)

// Index is an ordered view over the records of a dataset. Position i of
// the view holds record Order()[i].
type Index struct {
	ds    *dataset.Dataset
	order []int
}

// NewIndex returns an index over ds in the given record order. A nil order
// is load order.
func NewIndex(ds *dataset.Dataset, order []int) *Index {
	if order == nil {
		order = make([]int, ds.Len())
		for i := range order {
			order[i] = i
		}
	}
	return &Index{ds: ds, order: order}
}

// Len returns the number of records in the view.
func (x *Index) Len() int { return len(x.order) }

// At returns the record at view position i.
func (x *Index) At(i int) dataset.Record { return x.ds.Record(x.order[i]) }

// Order returns a copy of the record order.
func (x *Index) Order() []int { return slices.Clone(x.order) }

// Dimension builds a sorted dimension over key.
func (x *Index) Dimension(key string) (*Dimension, error) {
	less, err := x.comparator(key)
	if err != nil {
		return nil, err
	}
	sorted := slices.Clone(x.order)
	slices.SortStableFunc(sorted, less)
	return &Dimension{key: key, sorted: sorted}, nil
}

func (x *Index) comparator(key string) (func(a, b int) int, error) {
	if key == RowNumberKey {
		return func(a, b int) int {
			return cmp.Compare(x.ds.Record(a).RowNumber, x.ds.Record(b).RowNumber)
		}, nil
	}
	v, ok := x.ds.Variable(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	col, _ := x.ds.Lookup(key)
	if v.Type == dataset.Numeric {
		return func(a, b int) int {
			return compareNum(x.ds.Record(a).Num(col), x.ds.Record(b).Num(col))
		}, nil
	}
	return func(a, b int) int {
		return cmp.Compare(x.ds.Record(a).Text(col), x.ds.Record(b).Text(col))
	}, nil
}

// compareNum orders NaN below every number.
func compareNum(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	}
	return cmp.Compare(a, b)
}

// Dimension answers top-k and bottom-k queries over one key. Records with
// equal keys keep their view order in Bottom and come out reversed in Top.
type Dimension struct {
	key    string
	sorted []int
}

// Key returns the variable the dimension orders by.
func (d *Dimension) Key() string { return d.key }

// Top returns the k records with the largest keys, largest first.
func (d *Dimension) Top(k int) ([]int, error) {
	if d.sorted == nil {
		return nil, ErrDisposed
	}
	k = max(0, min(k, len(d.sorted)))
	out := make([]int, 0, k)
	for i := len(d.sorted) - 1; i >= len(d.sorted)-k; i-- {
		out = append(out, d.sorted[i])
	}
	return out, nil
}

// Bottom returns the k records with the smallest keys, smallest first.
func (d *Dimension) Bottom(k int) ([]int, error) {
	if d.sorted == nil {
		return nil, ErrDisposed
	}
	k = max(0, min(k, len(d.sorted)))
	return slices.Clone(d.sorted[:k]), nil
}

// Dispose releases the dimension; later queries fail.
func (d *Dimension) Dispose() { d.sorted = nil }
