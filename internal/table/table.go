// Package table converts between CSV text and domain.Dataset.
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"

	"louslist/internal/domain"
)

var (
	intPattern   = regexp.MustCompile(`^-?(0|[1-9][0-9]*)$`)
	floatPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("csv has no header row")

// Parse reads CSV text with a header row into a Dataset. Records shorter
// than the header are padded with nulls; longer records are an error.
// Column types are inferred per column.
func Parse(data []byte) (*domain.Dataset, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var raw [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if len(rec) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("read record: record on line %d has %d fields, header has %d", line, len(rec), len(header))
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		raw = append(raw, rec)
	}

	ds := &domain.Dataset{
		Columns: dedupeColumns(header),
		Rows:    make([][]domain.Value, len(raw)),
	}
	for i := range raw {
		ds.Rows[i] = make([]domain.Value, len(header))
	}
	for col := range header {
		kind := inferKind(raw, col)
		for i, rec := range raw {
			ds.Rows[i][col] = convert(rec[col], kind)
		}
	}
	return ds, nil
}

// Encode renders ds as CSV with a header row. Null cells are written empty.
func Encode(ds *domain.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, ds); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams ds as CSV to w.
func Write(w io.Writer, ds *domain.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i := range rec {
			rec[i] = ""
			if i < len(row) {
				rec[i] = row[i].String()
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// dedupeColumns renames repeated header names to name.1, name.2, ...
func dedupeColumns(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	counts := make(map[string]int, len(header))
	for i, name := range header {
		candidate := name
		for used[candidate] {
			counts[name]++
			candidate = name + "." + strconv.Itoa(counts[name])
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}

func inferKind(raw [][]string, col int) domain.ValueKind {
	kind := domain.KindNull
	for _, rec := range raw {
		s := rec[col]
		if s == "" {
			continue
		}
		switch {
		case intPattern.MatchString(s) && fitsInt64(s):
			if kind == domain.KindNull {
				kind = domain.KindInt
			}
		case floatPattern.MatchString(s) && isFinite(s):
			if kind == domain.KindNull || kind == domain.KindInt {
				kind = domain.KindFloat
			}
		default:
			return domain.KindString
		}
	}
	return kind
}

func convert(s string, kind domain.ValueKind) domain.Value {
	if s == "" {
		return domain.Null
	}
	switch kind {
	case domain.KindInt:
		n, _ := strconv.ParseInt(s, 10, 64)
		return domain.IntValue(n)
	case domain.KindFloat:
		f, _ := strconv.ParseFloat(s, 64)
		return domain.FloatValue(f)
	default:
		return domain.StringValue(s)
	}
}

func fitsInt64(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFinite(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}
