package infer

import (
	"fmt"
	"strings"
	"time"
)

// TwoDigitYearPivot: a two-digit year that lands more than this many years
// after the current year is moved back a century.
const TwoDigitYearPivot = 20

var (
	// ISO forms are unambiguous and tried first.
	isoLayouts = []string{
		"2006-1-2",
		"2006-1-2 15:04",
		"2006-1-2 15:04:05",
		"2006-1-2T15:04",
		"2006-1-2T15:04:05",
		time.RFC3339,
		"2006/1/2",
		"2006/1/2 15:04:05",
		"2006.1.2",
		"20060102",
	}
	dayFirstLayouts = []string{
		"2/1/2006", "2/1/2006 15:04", "2/1/2006 15:04:05",
		"2-1-2006", "2-1-2006 15:04", "2-1-2006 15:04:05",
		"2.1.2006", "2.1.2006 15:04", "2.1.2006 15:04:05",
		"2 Jan 2006", "2-Jan-2006", "2 January 2006",
		"Jan 2, 2006", "January 2, 2006", "Mon, 2 Jan 2006",
	}
	twoDigitYearLayouts = []string{
		"2/1/06", "2-1-06", "2.1.06", "2-Jan-06", "2 Jan 06",
	}
)

// parseDayFirst reads s as a date, preferring day-before-month for ambiguous
// numeric forms. Only the calendar date is meaningful in the result.
func parseDayFirst(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := now.Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}
	return time.Time{}, false
}

// strftimeDirectives maps strftime verbs to Go layout fragments.
var strftimeDirectives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'e': "_2",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'f': "000000",
	'p': "PM",
	'b': "Jan",
	'h': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'j': "002",
	'z': "-0700",
	'Z': "MST",
	'%': "%",
}

// StrftimeToLayout converts a strftime-style format such as "%Y-%m-%d %H:%M:%S"
// into a Go time layout.
func StrftimeToLayout(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("empty date format")
	}
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(format) {
			return "", fmt.Errorf("date format %q ends with a bare %%", format)
		}
		i++
		frag, ok := strftimeDirectives[format[i]]
		if !ok {
			return "", fmt.Errorf("date format %q: unsupported directive %%%c", format, format[i])
		}
		b.WriteString(frag)
	}
	return b.String(), nil
}
