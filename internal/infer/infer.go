package infer

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vvka-141/csvload/internal/dataset"
	"github.com/vvka-141/csvload/pkg/csvload"
)

// DetectedDayFirst is the Profile.DateFormat of an auto-detected date column.
const DetectedDayFirst = "dayfirst"

// Options configures inference. The zero value is usable.
type Options struct {
	// DateColumns maps a column name to the strftime format its values use.
	DateColumns map[string]string

	// Now anchors the two-digit-year pivot. Zero means time.Now().
	Now time.Time
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Profile is what inference learned about one column.
type Profile struct {
	Column string
	Kind   StorageKind

	// Size is the VARCHAR length for BoundedText.
	Size int

	// MaxWidth is the longest non-null value in characters.
	MaxWidth int

	// DateFormat is the configured strftime format, DetectedDayFirst, or "".
	DateFormat string

	UniqueRatio     float64
	DateAttempted   bool
	DateSuccessRate float64
}

// SQLType renders the column type for DDL.
func (p Profile) SQLType() string {
	return p.Kind.SQLType(p.Size)
}

// Infer classifies a column. It does not modify the column.
func Infer(col dataset.Column, opts Options) Profile {
	p := Profile{Column: col.Name}
	rows := len(col.Values)

	if format, ok := opts.DateColumns[col.Name]; ok {
		p.Kind = Date
		p.DateFormat = format
		p.DateAttempted = true
		p.DateSuccessRate = successRate(col, rows, configuredParser(format))
		return p
	}

	var nonNull int
	allInt, allNum := true, true
	distinct := make(map[string]struct{})
	var first string
	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		s := raw(v)
		if nonNull == 0 {
			first = s
		}
		nonNull++
		distinct[s] = struct{}{}
		if n := utf8.RuneCountInString(s); n > p.MaxWidth {
			p.MaxWidth = n
		}
		if allInt {
			if _, err := parseInteger(s); err != nil {
				allInt = false
			}
		}
		if allNum {
			if _, err := parseDecimal(s); err != nil {
				allNum = false
			}
		}
	}

	if rows > 0 {
		p.UniqueRatio = float64(len(distinct)) / float64(rows)
	}

	switch {
	case nonNull > 0 && allInt:
		p.Kind = Integer
		return p
	case nonNull > 0 && allNum:
		p.Kind = Decimal
		return p
	}

	if nonNull > 0 && p.UniqueRatio < csvload.DateUniqueRatioLimit && looksLikeDate(first) {
		p.DateAttempted = true
		now := opts.now()
		p.DateSuccessRate = successRate(col, rows, func(s string) (time.Time, bool) {
			return parseDayFirst(s, now)
		})
		if p.DateSuccessRate >= csvload.DateMinSuccessRate {
			p.Kind = Date
			p.DateFormat = DetectedDayFirst
			return p
		}
	}

	p.Kind, p.Size = TextKind(p.MaxWidth)
	return p
}

// Apply replaces the column's cells with values of the profile's kind.
// Unparseable cells become null. Text kinds leave the column untouched.
func Apply(col *dataset.Column, p Profile, opts Options) {
	var convert func(string) dataset.Value

	switch p.Kind {
	case Integer:
		convert = func(s string) dataset.Value {
			i, err := parseInteger(s)
			if err != nil {
				return dataset.Null()
			}
			return dataset.Integer(i)
		}
	case Decimal:
		convert = func(s string) dataset.Value {
			n, err := parseDecimal(s)
			if err != nil {
				return dataset.Null()
			}
			return dataset.Decimal(n)
		}
	case Date:
		var parse func(string) (time.Time, bool)
		if p.DateFormat == DetectedDayFirst {
			now := opts.now()
			parse = func(s string) (time.Time, bool) { return parseDayFirst(s, now) }
		} else {
			parse = configuredParser(p.DateFormat)
		}
		convert = func(s string) dataset.Value {
			t, ok := parse(s)
			if !ok {
				return dataset.Null()
			}
			return dataset.Date(t)
		}
	default:
		return
	}

	for i, v := range col.Values {
		if v.IsNull() {
			continue
		}
		col.Values[i] = convert(raw(v))
	}
}

// InferDataset infers and applies a profile for every column, in column order.
func InferDataset(ds *dataset.Dataset, opts Options) []Profile {
	profiles := make([]Profile, len(ds.Columns))
	for i := range ds.Columns {
		profiles[i] = Infer(ds.Columns[i], opts)
		Apply(&ds.Columns[i], profiles[i], opts)
	}
	return profiles
}

// looksLikeDate is the cheap gate before a full day-first parse is attempted.
func looksLikeDate(sample string) bool {
	return utf8.RuneCountInString(sample) >= csvload.DateSampleMinLength &&
		strings.ContainsAny(sample, "/-.")
}

// configuredParser parses with a fixed strftime format. An unusable format
// parses nothing.
func configuredParser(format string) func(string) (time.Time, bool) {
	layout, err := StrftimeToLayout(format)
	if err != nil {
		return func(string) (time.Time, bool) { return time.Time{}, false }
	}
	return func(s string) (time.Time, bool) {
		t, err := time.Parse(layout, strings.TrimSpace(s))
		return t, err == nil
	}
}

// successRate is the fraction of all rows, nulls included, that parse.
func successRate(col dataset.Column, rows int, parse func(string) (time.Time, bool)) float64 {
	if rows == 0 {
		return 0
	}
	ok := 0
	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		if _, parsed := parse(raw(v)); parsed {
			ok++
		}
	}
	return float64(ok) / float64(rows)
}

func raw(v dataset.Value) string {
	if v.Kind() == dataset.KindText {
		return v.Text()
	}
	return v.String()
}
