package dataset

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindInteger
	KindDecimal
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Value is a single cell. The zero Value is Null.
type Value struct {
	kind Kind
	text string
	i    int64
	num  pgtype.Numeric
	date time.Time
}

func Null() Value                    { return Value{} }
func Text(s string) Value            { return Value{kind: KindText, text: s} }
func Integer(i int64) Value          { return Value{kind: KindInteger, i: i} }
func Decimal(n pgtype.Numeric) Value { return Value{kind: KindDecimal, num: n} }

// Date keeps only the calendar date of t.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Text returns the raw string of a Text value and "" otherwise.
func (v Value) Text() string { return v.text }

func (v Value) Int() int64              { return v.i }
func (v Value) Numeric() pgtype.Numeric { return v.num }
func (v Value) Time() time.Time         { return v.date }

// Arg returns the value in a form pgx can bind to a query placeholder.
func (v Value) Arg() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindInteger:
		return v.i
	case KindDecimal:
		return v.num
	case KindDate:
		return pgtype.Date{Time: v.date, Valid: true}
	default:
		return nil
	}
}

// String renders the value for previews and logs.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindDecimal:
		s, err := v.num.Value()
		if err != nil || s == nil {
			return "NULL"
		}
		return fmt.Sprint(s)
	case KindDate:
		return v.date.Format("2006-01-02")
	default:
		return "NULL"
	}
}
