package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/vvka-141/csvload/pkg/csvload"
)

// nullTokens are read as missing values, mirroring the usual CSV NA markers.
var nullTokens = map[string]bool{
	"NaN":  true,
	"nan":  true,
	"NULL": true,
	"null": true,
	"N/A":  true,
	"n/a":  true,
	"NA":   true,
	"#N/A": true,
	"None": true,
}

// IsNullToken reports whether a raw cell denotes a missing value.
func IsNullToken(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	return nullTokens[s]
}

// ReadOptions controls CSV parsing.
type ReadOptions struct {
	// Delimiter is the field separator. Zero means ','.
	Delimiter rune
}

// Read parses a whole CSV stream. The first record is the header. A UTF-8
// byte order mark is stripped; short rows are padded with nulls.
// Errors wrap csvload.ErrIO.
func Read(r io.Reader, opts ReadOptions) (*Dataset, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", csvload.ErrIO)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", csvload.ErrIO, err)
	}

	names := NormalizeColumnNames(header)
	ds := &Dataset{Columns: make([]Column, len(names))}
	for i, n := range names {
		ds.Columns[i].Name = n
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", csvload.ErrIO, err)
		}
		if len(record) > len(names) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", csvload.ErrIO, line, len(record), len(names))
		}
		for i := range ds.Columns {
			v := Null()
			if i < len(record) && !IsNullToken(record[i]) {
				v = Text(record[i])
			}
			ds.Columns[i].Values = append(ds.Columns[i].Values, v)
		}
	}

	return ds, nil
}
