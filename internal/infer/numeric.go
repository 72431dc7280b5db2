package infer

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/vvka-141/csvload/pkg/csvload"
)

var (
	integerRegex = regexp.MustCompile(`^[+-]?\d+$`)
	numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
)

// parseInteger accepts an optionally signed run of digits that fits in int64.
func parseInteger(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if !integerRegex.MatchString(s) {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(s, 10, 64)
}

// parseDecimal accepts any numeric literal that fits NUMERIC(18,4) before rounding.
func parseDecimal(s string) (pgtype.Numeric, error) {
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return pgtype.Numeric{}, strconv.ErrSyntax
	}
	// Numeric.Scan rejects exponents; expand them at the column scale first.
	if strings.ContainsAny(s, "eE") {
		r, ok := new(big.Rat).SetString(s)
		if !ok {
			return pgtype.Numeric{}, strconv.ErrSyntax
		}
		s = r.FloatString(csvload.DecimalScale)
	}
	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{}, err
	}
	if integerDigits(n) > csvload.DecimalPrecision-csvload.DecimalScale {
		return pgtype.Numeric{}, strconv.ErrRange
	}
	return n, nil
}

// integerDigits counts the digits left of the decimal point.
func integerDigits(n pgtype.Numeric) int {
	if n.Int == nil || n.Int.Sign() == 0 {
		return 0
	}
	digits := len(new(big.Int).Abs(n.Int).String()) + int(n.Exp)
	if digits < 0 {
		return 0
	}
	return digits
}
