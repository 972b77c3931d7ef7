package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/aescherling/quiver/internal/dataset"
)

// JSON reads either the paired form
//
//	[ [ {record}, ... ], [ {variable: missingCount, ...} ] ]
//
// or a bare array of records, whose missingness is counted. Variables take
// the key order of the first record.
func JSON(r io.Reader) (*dataset.Dataset, error) {
	var top []json.RawMessage
	if err := json.NewDecoder(r).Decode(&top); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if len(top) == 0 {
		return nil, dataset.ErrEmpty
	}

	if firstByte(top[0]) == '[' {
		if len(top) != 2 {
			return nil, fmt.Errorf("paired form has %d elements, want 2", len(top))
		}
		var records []json.RawMessage
		if err := json.Unmarshal(top[0], &records); err != nil {
			return nil, fmt.Errorf("failed to decode records: %w", err)
		}
		names, rows, err := decodeRecords(records)
		if err != nil {
			return nil, err
		}
		report, err := decodeReport(top[1])
		if err != nil {
			return nil, err
		}
		return dataset.New(names, rows, report)
	}

	names, rows, err := decodeRecords(top)
	if err != nil {
		return nil, err
	}
	return dataset.New(names, rows, Missingness(names, rows))
}

func firstByte(raw json.RawMessage) byte {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

func decodeRecords(records []json.RawMessage) ([]string, [][]any, error) {
	if len(records) == 0 {
		return nil, nil, dataset.ErrEmpty
	}
	var names []string
	var index map[string]int
	rows := make([][]any, len(records))
	for i, raw := range records {
		keys, values, err := decodeObject(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		if i == 0 {
			names = keys
			index = make(map[string]int, len(keys))
			for c, k := range keys {
				index[k] = c
			}
		}
		if len(keys) != len(names) {
			return nil, nil, fmt.Errorf("%w: record %d has %d keys, want %d", dataset.ErrRaggedRecord, i, len(keys), len(names))
		}
		row := make([]any, len(names))
		for k, v := range values {
			c, ok := index[k]
			if !ok {
				return nil, nil, fmt.Errorf("%w: record %d has unknown key %q", dataset.ErrRaggedRecord, i, k)
			}
			row[c] = v
		}
		rows[i] = row
	}
	return names, rows, nil
}

// decodeObject decodes one flat JSON object, keeping its key order.
func decodeObject(raw json.RawMessage) ([]string, map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected an object, got %v", tok)
	}
	var keys []string
	values := map[string]any{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected an object key, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("value of %q: %w", key, err)
		}
		if _, dup := values[key]; dup {
			return nil, nil, fmt.Errorf("%w: %q", dataset.ErrDuplicateVariable, key)
		}
		keys = append(keys, key)
		values[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}

// decodeReport removes the single-element array around the report.
func decodeReport(raw json.RawMessage) (dataset.MissingnessReport, error) {
	var wrapped []map[string]float64
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReportShape, err)
	}
	if len(wrapped) != 1 {
		return nil, fmt.Errorf("%w: got %d elements", ErrReportShape, len(wrapped))
	}
	report := make(dataset.MissingnessReport, len(wrapped[0]))
	for k, v := range wrapped[0] {
		if v < 0 || v != math.Trunc(v) {
			return nil, fmt.Errorf("%w: count for %q is %v", ErrReportShape, k, v)
		}
		report[k] = int(v)
	}
	return report, nil
}
