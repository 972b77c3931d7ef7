package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *Dataset {
	t.Helper()
	d, err := New(
		[]string{"age", "name", "score"},
		[][]any{
			{"34", "alice", 1.5},
			{"", "bob", nil},
			{27.0, "carol", "2"},
		},
		MissingnessReport{"age": 1, "score": 1},
	)
	require.NoError(t, err)
	return d
}

func TestTypeTags(t *testing.T) {
	d := sample(t)
	assert.Equal(t, []string{"age", "score"}, d.NamesOf(Numeric))
	assert.Equal(t, []string{"name"}, d.NamesOf(Categorical))

	v, ok := d.Variable("name")
	require.True(t, ok)
	assert.Equal(t, Categorical, v.Type)
	assert.Equal(t, "categorical", v.Type.String())
}

func TestColumnMissingIsNaN(t *testing.T) {
	d := sample(t)
	age := d.Column("age")
	require.Len(t, age, 3)
	assert.Equal(t, 34.0, age[0])
	assert.True(t, math.IsNaN(age[1]))
	assert.Equal(t, 27.0, age[2])

	for _, v := range d.Column("name") {
		assert.True(t, math.IsNaN(v))
	}
	for _, v := range d.Column("nope") {
		assert.True(t, math.IsNaN(v))
	}
}

func TestRecordText(t *testing.T) {
	d := sample(t)
	rec := d.Record(2)
	assert.Equal(t, 2, rec.RowNumber)
	assert.Equal(t, "27", rec.Text(0))
	assert.Equal(t, "carol", rec.Text(1))
	assert.Equal(t, "", d.Record(1).Text(2))
	assert.Equal(t, "", rec.Text(99))
	assert.True(t, math.IsNaN(rec.Num(-1)))
}

func TestMissingReport(t *testing.T) {
	d := sample(t)
	assert.Equal(t, 1, d.Missing("age"))
	assert.Equal(t, 0, d.Missing("name"))
	assert.Equal(t, 3, d.Len())
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = New([]string{"a", "b"}, [][]any{{1}}, nil)
	assert.ErrorIs(t, err, ErrRaggedRecord)

	_, err = New([]string{"a", "a"}, [][]any{{1, 2}}, nil)
	assert.ErrorIs(t, err, ErrDuplicateVariable)
}

func TestNATokensAndInfinity(t *testing.T) {
	d, err := New(
		[]string{"a", "b"},
		[][]any{{"NA", "1"}, {"NaN", "Infinity"}, {"null", "-Inf"}, {"2", "4"}},
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, d.NamesOf(Numeric))

	for i := 0; i < 3; i++ {
		assert.Equal(t, "", d.Record(i).Text(0), "row %d", i)
		assert.True(t, math.IsNaN(d.Record(i).Num(0)), "row %d", i)
	}

	b := d.Column("b")
	assert.Equal(t, 1.0, b[0])
	assert.True(t, math.IsNaN(b[1]))
	assert.True(t, math.IsNaN(b[2]))
	assert.Equal(t, "Infinity", d.Record(1).Text(1))

	assert.True(t, IsMissing(" NA "))
	assert.True(t, IsMissing(nil))
	assert.False(t, IsMissing("na"))
	assert.False(t, IsMissing(0))
}
