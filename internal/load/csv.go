package load

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aescherling/quiver/internal/dataset"
)

// DetectSeparator picks the most frequent of comma, semicolon, tab and
// pipe in the header line. It falls back to comma.
func DetectSeparator(header string) rune {
	best, most := ',', 0
	for _, sep := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(header, string(sep)); n > most {
			best, most = sep, n
		}
	}
	return best
}

// CSV reads delimited text with a header row. The delimiter is detected
// from the header. Missingness is counted from the cells.
func CSV(r io.Reader) (*dataset.Dataset, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	line, _, _ := strings.Cut(string(head), "\n")

	cr := csv.NewReader(br)
	cr.Comma = DetectSeparator(line)
	cr.TrimLeadingSpace = true

	names, err := cr.Read()
	if err == io.EOF {
		return nil, dataset.ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	if len(names) > 0 {
		names[0] = strings.TrimPrefix(names[0], "\ufeff")
	}

	var rows [][]any
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				return nil, fmt.Errorf("%w: %v", dataset.ErrRaggedRecord, err)
			}
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}
		row := make([]any, len(rec))
		for c, cell := range rec {
			cell = strings.TrimSpace(cell)
			if dataset.IsMissing(cell) {
				cell = ""
			}
			row[c] = cell
		}
		rows = append(rows, row)
	}
	return dataset.New(names, rows, Missingness(names, rows))
}
