package infer

import (
	"fmt"

	"github.com/vvka-141/csvload/pkg/csvload"
)

// StorageKind is the closed set of column types a table can receive.
type StorageKind int

const (
	Integer StorageKind = iota
	Decimal
	Date
	BoundedText
	UnboundedText
)

func (k StorageKind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	case Date:
		return "date"
	case BoundedText:
		return "bounded-text"
	case UnboundedText:
		return "text"
	default:
		return fmt.Sprintf("StorageKind(%d)", int(k))
	}
}

// SQLType renders the PostgreSQL column type. size is only used by BoundedText.
func (k StorageKind) SQLType(size int) string {
	switch k {
	case Integer:
		return "BIGINT"
	case Decimal:
		return fmt.Sprintf("NUMERIC(%d,%d)", csvload.DecimalPrecision, csvload.DecimalScale)
	case Date:
		return "DATE"
	case BoundedText:
		return fmt.Sprintf("VARCHAR(%d)", size)
	default:
		return "TEXT"
	}
}

// TextKind picks the text type for a maximum observed width.
// It returns the kind and the VARCHAR size (0 for TEXT).
func TextKind(width int) (StorageKind, int) {
	if width > 0 && width < csvload.MaxBoundedTextWidth {
		return BoundedText, width + csvload.TextWidthPadding
	}
	return UnboundedText, 0
}
