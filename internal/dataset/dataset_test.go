package dataset

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/csvload/pkg/csvload"
)

func TestNormalizeColumnName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"id", "id"},
		{"  Order Date ", "OrderDate"},
		{"order-id", "order_id"},
		{"price ($)", "price"},
		{"Café", "Cafe"},
		{"a.b/c", "abc"},
		{"already_ok_1", "already_ok_1"},
		{"日本", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeColumnName(tt.in))
		})
	}
}

func TestNormalizeColumnNames_UniqueAndNonEmpty(t *testing.T) {
	got := NormalizeColumnNames([]string{"name", "Name ", "", "na-me", "name", "???"})
	assert.Equal(t, []string{"name", "Name_2", "column3", "na_me", "name_3", "column6"}, got)
}

func TestIsNullToken(t *testing.T) {
	for _, s := range []string{"", "   ", "NaN", "nan", "NULL", "null", "N/A", "n/a", "NA", "#N/A", "None"} {
		assert.True(t, IsNullToken(s), "%q", s)
	}
	for _, s := range []string{"0", "none", "-", "x"} {
		assert.False(t, IsNullToken(s), "%q", s)
	}
}

func TestRead_Basic(t *testing.T) {
	input := "\ufeffid, amount ,joined\n1,10.5,2024-01-02\n2,,NULL\n"

	ds, err := Read(strings.NewReader(input), ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "amount", "joined"}, ds.ColumnNames())
	assert.Equal(t, 2, ds.RowCount())

	id, ok := ds.Column("id")
	require.True(t, ok)
	assert.Equal(t, Text("1"), id.Values[0])

	amount, _ := ds.Column("amount")
	assert.True(t, amount.Values[1].IsNull())

	joined, _ := ds.Column("joined")
	assert.Equal(t, "2024-01-02", joined.Values[0].Text())
	assert.True(t, joined.Values[1].IsNull())
}

func TestRead_WhitespaceOnlyCellIsNull(t *testing.T) {
	ds, err := Read(strings.NewReader("code,name\n  ,a\n\t,b\nX1, c \n"), ReadOptions{})
	require.NoError(t, err)

	code, ok := ds.Column("code")
	require.True(t, ok)
	assert.True(t, code.Values[0].IsNull())
	assert.True(t, code.Values[1].IsNull())
	assert.Equal(t, Text("X1"), code.Values[2])

	name, _ := ds.Column("name")
	assert.Equal(t, " c ", name.Values[2].Text(), "non-blank cells keep their padding")
}

func TestRead_DelimiterAndShortRows(t *testing.T) {
	ds, err := Read(strings.NewReader("a;b;c\n1;2\n"), ReadOptions{Delimiter: ';'})
	require.NoError(t, err)

	require.Equal(t, 1, ds.RowCount())
	assert.Equal(t, "2", ds.Columns[1].Values[0].Text())
	assert.True(t, ds.Columns[2].Values[0].IsNull())
}

func TestRead_HeaderOnly(t *testing.T) {
	ds, err := Read(strings.NewReader("a,b\n"), ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, ds.RowCount())
	assert.Len(t, ds.Columns, 2)
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(strings.NewReader(""), ReadOptions{})
	assert.True(t, errors.Is(err, csvload.ErrIO))

	_, err = Read(strings.NewReader("a,b\n1,2,3\n"), ReadOptions{})
	assert.True(t, errors.Is(err, csvload.ErrIO))
}

func TestValue_Arg(t *testing.T) {
	var n pgtype.Numeric
	require.NoError(t, n.Scan("12.5"))
	day := time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)

	assert.Nil(t, Null().Arg())
	assert.Equal(t, "x", Text("x").Arg())
	assert.Equal(t, int64(7), Integer(7).Arg())
	assert.Equal(t, n, Decimal(n).Arg())
	assert.Equal(t, pgtype.Date{Time: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), Valid: true}, Date(day).Arg())
}

func TestValue_String(t *testing.T) {
	var n pgtype.Numeric
	require.NoError(t, n.Scan("12.5"))

	assert.Equal(t, "NULL", Null().String())
	assert.Equal(t, "42", Integer(42).String())
	assert.Equal(t, "12.5", Decimal(n).String())
	assert.Equal(t, "2024-03-09", Date(time.Date(2024, 3, 9, 1, 0, 0, 0, time.UTC)).String())
}

func TestDataset_Args(t *testing.T) {
	ds := &Dataset{Columns: []Column{
		{Name: "a", Values: []Value{Integer(1), Null()}},
		{Name: "b", Values: []Value{Text("x"), Text("y")}},
	}}

	assert.Equal(t, [][]any{{int64(1), "x"}, {nil, "y"}}, ds.Args())
}
