// Package load reads datasets from files. Every loader returns the
// records together with a missingness report; when the file format does
// not carry one it is counted from the values.
package load

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aescherling/quiver/internal/dataset"
)

var (
	// ErrUnsupportedFormat is returned for a file extension no loader
	// handles.
	ErrUnsupportedFormat = errors.New("unsupported data format")

	// ErrReportShape is returned when the missingness report of a JSON
	// file is not a sequence holding exactly one object.
	ErrReportShape = errors.New("missingness report must be a single-element array holding one object")
)

// Format identifies a file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatCSV
	FormatParquet
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatParquet:
		return "parquet"
	default:
		return "unknown"
	}
}

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv", ".tsv", ".txt":
		return FormatCSV, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// File loads the dataset at path.
func File(ctx context.Context, path string) (*dataset.Dataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	var d *dataset.Dataset
	switch format {
	case FormatJSON:
		d, err = JSON(f)
	case FormatCSV:
		d, err = CSV(f)
	case FormatParquet:
		d, err = Parquet(ctx, f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s file %s: %w", format, filepath.Base(path), err)
	}
	slog.Info("loaded data file",
		"path", path,
		"format", format.String(),
		"records", d.Len(),
		"variables", len(d.Variables()),
		"categorical", len(d.NamesOf(dataset.Categorical)))
	return d, nil
}

// Missingness counts the missing values of every variable.
func Missingness(names []string, rows [][]any) dataset.MissingnessReport {
	report := make(dataset.MissingnessReport, len(names))
	for _, name := range names {
		report[name] = 0
	}
	for _, row := range rows {
		for c, v := range row {
			if c < len(names) && dataset.IsMissing(v) {
				report[names[c]]++
			}
		}
	}
	return report
}
