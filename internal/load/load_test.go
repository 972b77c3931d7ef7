package load

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aescherling/quiver/internal/dataset"
)

const paired = `[
  [
    {"name": "ann", "age": 40, "height": 1.71},
    {"name": "bea", "age": null, "height": 1.62},
    {"name": "cal", "age": 33, "height": ""}
  ],
  [ {"name": 0, "age": 1, "height": 1} ]
]`

func TestJSONPaired(t *testing.T) {
	d, err := JSON(strings.NewReader(paired))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "height"}, d.Names())
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, dataset.MissingnessReport{"name": 0, "age": 1, "height": 1}, d.Report())
	assert.Equal(t, []string{"age", "height"}, d.NamesOf(dataset.Numeric))
	assert.Equal(t, "40", d.Record(0).Text(1))
	assert.Equal(t, "", d.Record(1).Text(1))
}

func TestJSONNATokens(t *testing.T) {
	in := `[
  [ {"age": "23"}, {"age": "NA"}, {"age": "45"}, {"age": "NaN"} ],
  [ {"age": 2} ]
]`
	d, err := JSON(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"age"}, d.NamesOf(dataset.Numeric))
	assert.Equal(t, 2, d.Missing("age"))
	assert.Equal(t, "", d.Record(1).Text(0))
	assert.Equal(t, 45.0, d.Record(2).Num(0))
}

func TestCSVInfinity(t *testing.T) {
	d, err := CSV(strings.NewReader("a,b\n1,2\nInfinity,3\n4,5\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, d.NamesOf(dataset.Numeric))
	assert.Equal(t, 0, d.Missing("a"))
	assert.Equal(t, "Infinity", d.Record(1).Text(0))
	assert.True(t, math.IsNaN(d.Record(1).Num(0)))
}

func TestJSONBareRecords(t *testing.T) {
	d, err := JSON(strings.NewReader(`[{"b": 1, "a": "x"}, {"b": null, "a": "y"}]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, d.Names())
	assert.Equal(t, 1, d.Missing("b"))
	assert.Equal(t, 0, d.Missing("a"))
}

func TestJSONReportShape(t *testing.T) {
	for _, report := range []string{`[]`, `[{"a": 0}, {"a": 1}]`, `{"a": 0}`, `[{"a": -1}]`} {
		_, err := JSON(strings.NewReader(`[[{"a": 1}], ` + report + `]`))
		assert.ErrorIs(t, err, ErrReportShape, report)
	}
}

func TestJSONRagged(t *testing.T) {
	_, err := JSON(strings.NewReader(`[{"a": 1, "b": 2}, {"a": 1}]`))
	assert.ErrorIs(t, err, dataset.ErrRaggedRecord)

	_, err = JSON(strings.NewReader(`[{"a": 1, "b": 2}, {"a": 1, "c": 2}]`))
	assert.ErrorIs(t, err, dataset.ErrRaggedRecord)

	_, err = JSON(strings.NewReader(`[]`))
	assert.ErrorIs(t, err, dataset.ErrEmpty)
}

func TestCSV(t *testing.T) {
	in := "name;score;team\nann;12.5;red\nbea;NA;blue\ncal;;red\n"
	d, err := CSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "score", "team"}, d.Names())
	assert.Equal(t, 2, d.Missing("score"))
	assert.Equal(t, []string{"score"}, d.NamesOf(dataset.Numeric))
	assert.Equal(t, 12.5, d.Record(0).Num(1))
}

func TestCSVRagged(t *testing.T) {
	_, err := CSV(strings.NewReader("a,b\n1,2\n3\n"))
	assert.ErrorIs(t, err, dataset.ErrRaggedRecord)

	_, err = CSV(strings.NewReader(""))
	assert.ErrorIs(t, err, dataset.ErrEmpty)
}

func TestDetectSeparator(t *testing.T) {
	assert.Equal(t, ',', DetectSeparator("a,b,c"))
	assert.Equal(t, '\t', DetectSeparator("a\tb\tc"))
	assert.Equal(t, '|', DetectSeparator("a|b|c,d"))
	assert.Equal(t, ',', DetectSeparator("single"))
}

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat("data/cars.JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, _ = DetectFormat("x.tsv")
	assert.Equal(t, FormatCSV, f)

	f, _ = DetectFormat("x.parquet")
	assert.Equal(t, FormatParquet, f)

	_, err = DetectFormat("x.xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func writeParquet(t *testing.T) []byte {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "weight", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "kind", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2, 3}, nil)
	b.Field(1).(*array.Float64Builder).AppendValues([]float64{2.5, 0, 4}, []bool{true, false, true})
	b.Field(2).(*array.StringBuilder).AppendValues([]string{"a", "b", ""}, []bool{true, true, false})
	rec := b.NewRecord()
	defer rec.Release()

	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	var buf bytes.Buffer
	require.NoError(t, pqarrow.WriteTable(tbl, &buf, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))
	return buf.Bytes()
}

func TestParquet(t *testing.T) {
	d, err := Parquet(context.Background(), bytes.NewReader(writeParquet(t)))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "weight", "kind"}, d.Names())
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, dataset.MissingnessReport{"id": 0, "weight": 1, "kind": 1}, d.Report())
	assert.Equal(t, []string{"id", "weight"}, d.NamesOf(dataset.Numeric))
	assert.Equal(t, 4.0, d.Record(2).Num(1))
	assert.Equal(t, "b", d.Record(1).Text(2))
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.json")
	require.NoError(t, os.WriteFile(path, []byte(paired), 0o644))

	d, err := File(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())

	_, err = File(context.Background(), filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	_, err = File(context.Background(), filepath.Join(dir, "people.xml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n1\n"), 0o644))

	changed := make(chan string, 16)
	w, err := Watch(path, func(p string) { changed <- p })
	require.NoError(t, err)
	defer w.Close()

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("a\n2\n"), 0o644))

	select {
	case p := <-changed:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestMissingness(t *testing.T) {
	r := Missingness([]string{"a", "b"}, [][]any{{nil, "x"}, {" ", 1}, {2, ""}})
	assert.Equal(t, dataset.MissingnessReport{"a": 2, "b": 1}, r)
}
