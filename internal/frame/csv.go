package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// missingTokens are cell values read as missing in numeric columns.
var missingTokens = map[string]bool{
	"":    true,
	"na":  true,
	"n/a": true,
	"nan": true,
	"..":  true,
	"-":   true,
	":":   true,
}

// ReadCSV reads a CSV document with a header row into a Frame.
// Column kinds are looked up in schema by the normalized header name.
// Rows with a different number of fields than the header are an error.
func ReadCSV(r io.Reader, schema Schema) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	builders := make([]*columnBuilder, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		builders[i] = newColumnBuilder(name, schema[NormalizeName(name)])
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line++

		for i, cell := range record {
			if err := builders[i].add(cell); err != nil {
				return nil, fmt.Errorf("%w: line %d, column %q: %w", ErrParse, line, builders[i].col.Name, err)
			}
		}
	}

	columns := make([]*Column, len(builders))
	for i, b := range builders {
		columns[i] = b.col
	}
	return New(columns...)
}

// columnBuilder accumulates cells for one column.
type columnBuilder struct {
	col    *Column
	lookup map[string]int
}

func newColumnBuilder(name string, kind Kind) *columnBuilder {
	b := &columnBuilder{col: &Column{Name: name, Kind: kind}}
	if kind == KindCategory {
		b.lookup = make(map[string]int)
	}
	return b
}

func (b *columnBuilder) add(cell string) error {
	cell = strings.TrimSpace(cell)

	switch b.col.Kind {
	case KindCategory:
		level := norm.NFC.String(cell)
		code, ok := b.lookup[level]
		if !ok {
			code = len(b.col.levels)
			b.lookup[level] = code
			b.col.levels = append(b.col.levels, level)
		}
		b.col.codes = append(b.col.codes, code)
	case KindNumeric:
		v, err := parseNumber(cell)
		if err != nil {
			return err
		}
		b.col.numbers = append(b.col.numbers, v)
	default:
		b.col.strings = append(b.col.strings, cell)
	}
	return nil
}

// parseNumber parses a numeric cell, accepting thousands separators.
// Missing tokens yield NaN.
func parseNumber(cell string) (float64, error) {
	if missingTokens[strings.ToLower(cell)] {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a number: %q", cell)
	}
	return v, nil
}
