package hist

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aescherling/quiver/internal/scale"
)

func TestBinCounts(t *testing.T) {
	// Domain [0, 10] over 5 buckets: width 2.
	res := Bin([]float64{0, 1.9, 2, 3, 9.99, math.NaN()}, 0, 10, 5)
	assert.Equal(t, []int{2, 2, 0, 0, 1}, res.Counts)
	assert.Equal(t, 0, res.Excluded)
	assert.Equal(t, 5, res.Total())
	assert.Equal(t, 2, res.Max())
}

func TestBinExcludesUpperEdge(t *testing.T) {
	// A value exactly on high maps to index == buckets and is dropped,
	// not folded into the last bucket.
	res := Bin([]float64{10, 5}, 0, 10, 5)
	assert.Equal(t, []int{0, 0, 1, 0, 0}, res.Counts)
	assert.Equal(t, 1, res.Excluded)

	res = Bin([]float64{-0.1}, 0, 10, 5)
	assert.Equal(t, 1, res.Excluded)
}

func TestBinLengthMatchesBuckets(t *testing.T) {
	for _, b := range BucketOptions {
		assert.Len(t, Bin(nil, 0, 1, b).Counts, b)
	}
	assert.Empty(t, Bin([]float64{1}, 0, 1, 0).Counts)
}

func TestBinSumProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(200)
		xs := make([]float64, n)
		valid := 0
		for i := range xs {
			switch rng.Intn(10) {
			case 0:
				xs[i] = math.NaN()
			case 1:
				xs[i] = float64(rng.Intn(20))
				valid++
			default:
				xs[i] = rng.NormFloat64() * 50
				valid++
			}
		}
		dom, err := scale.HistDomain(xs)
		if err != nil {
			continue
		}
		for _, b := range BucketOptions {
			res := Bin(xs, dom[0], dom[1], b)
			require.Len(t, res.Counts, b)
			assert.Equal(t, valid, res.Total()+res.Excluded)
			assert.LessOrEqual(t, res.Total(), valid)
			// The padded domain keeps every value away from the outer edges.
			assert.Equal(t, 0, res.Excluded)
		}
	}
}

func TestBinUnboundedDomain(t *testing.T) {
	var res Result
	assert.NotPanics(t, func() {
		res = Bin([]float64{1, 2, math.Inf(1)}, 0, math.Inf(1), 5)
	})
	assert.Len(t, res.Counts, 5)
	assert.Equal(t, 3, res.Total()+res.Excluded)
	assert.Equal(t, 1, res.Excluded)

	res = Bin([]float64{math.Inf(-1), 5, math.Inf(1)}, 0, 10, 5)
	assert.Equal(t, 1, res.Total())
	assert.Equal(t, 2, res.Excluded)
}
