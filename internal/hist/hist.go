// Package hist partitions numeric values into equal-width buckets.
package hist

import (
	"math"

	"github.com/aescherling/quiver/internal/scale"
)

// BucketOptions are the bucket counts the bin selector offers.
var BucketOptions = []int{5, 10, 15, 20, 25, 30, 35}

// DefaultBuckets is the bucket count a histogram opens with.
const DefaultBuckets = 10

// Result is the outcome of one binning pass.
type Result struct {
	// Counts has one entry per bucket.
	Counts []int
	// Excluded counts non-NaN values whose bucket index fell outside
	// [0, len(Counts)-1]. They are dropped rather than clamped into the
	// outer buckets.
	Excluded int
}

// Total returns the number of values that landed in a bucket.
func (r Result) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

// Max returns the largest bucket count.
func (r Result) Max() int {
	m := 0
	for _, c := range r.Counts {
		m = max(m, c)
	}
	return m
}

// Bin maps every value through the linear scale [low, high] -> [0, buckets]
// and counts the floor of the result. NaN values are skipped entirely.
func Bin(values []float64, low, high float64, buckets int) Result {
	res := Result{Counts: make([]int, max(buckets, 0))}
	if buckets <= 0 {
		return res
	}
	s := scale.NewLinear([2]float64{low, high}, [2]float64{0, float64(buckets)})
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		// A NaN index, from an unbounded domain, fails the range test too.
		i := math.Floor(s.Map(v))
		if !(i >= 0 && i < float64(buckets)) {
			res.Excluded++
			continue
		}
		res.Counts[int(i)]++
	}
	return res
}
