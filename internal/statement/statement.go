// Package statement canonicalizes raw bank statement rows into movement
// drafts: dates normalized to ISO, locale amounts parsed, multi-column
// concepts joined, and a composite sort key that orders newest-first while
// staying stable across repeated imports of the same file.
package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/cajero-dev/cajero/internal/movement"
)

// conceptSeparator joins multi-column descriptions.
const conceptSeparator = " | "

// maxOriginIndex bounds the per-file row counter used in the sort key.
const maxOriginIndex = 999999

// RawRow is the input contract from institution adapters: one positional
// statement row, in source file order.
type RawRow struct {
	Caja        string
	Fecha       string
	Concepto    []string
	Importe     string
	Saldo       string
	NumApunte   string
	OriginIndex int
}

// ParseError reports a row field this package could not interpret. The
// caller decides whether to skip the row or abort the import.
type ParseError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: field %s: cannot parse %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Rejected is a row that could not be canonicalized, kept so the import
// can report every row's outcome.
type Rejected struct {
	Row RawRow
	Err *ParseError
}

// Canonicalize turns raw rows into movement drafts. Rows with unparseable
// amounts or balances are rejected (returned separately, never silently
// dropped); an unparseable date degrades the row to the epoch sentinel
// instead of rejecting it.
func Canonicalize(rows []RawRow, importTime time.Time) ([]movement.Draft, []Rejected) {
	drafts := make([]movement.Draft, 0, len(rows))

	var rejected []Rejected

	stamp := importTime.UTC().Format(time.RFC3339)

	for _, row := range rows {
		importe, err := ParseAmount(row.Importe)
		if err != nil {
			rejected = append(rejected, Rejected{Row: row, Err: &ParseError{
				Row: row.OriginIndex, Field: "importe", Value: row.Importe, Err: err,
			}})

			continue
		}

		saldo, err := ParseAmount(row.Saldo)
		if err != nil {
			rejected = append(rejected, Rejected{Row: row, Err: &ParseError{
				Row: row.OriginIndex, Field: "saldo", Value: row.Saldo, Err: err,
			}})

			continue
		}

		normalized := NormalizeDate(row.Fecha)

		drafts = append(drafts, movement.Draft{
			Caja:           row.Caja,
			Fecha:          strings.TrimSpace(row.Fecha),
			NormalizedDate: normalized,
			Concepto:       joinConcept(row.Concepto),
			Importe:        importe,
			Saldo:          saldo,
			NumApunte:      row.NumApunte,
			SortKey:        SortKey(normalized, stamp, row.OriginIndex),
			OriginIndex:    row.OriginIndex,
		})
	}

	return drafts, rejected
}

// SortKey builds the composite ordering key. Sorting it descending yields
// newest date first; within one date the import timestamp then the
// inverted origin index preserve the source file's intra-day order, and a
// re-import of the same batch sorts identically relative to its rows.
func SortKey(normalizedDate, importStamp string, originIndex int) string {
	if originIndex < 0 {
		originIndex = 0
	}

	if originIndex > maxOriginIndex {
		originIndex = maxOriginIndex
	}

	return fmt.Sprintf("%s_%s_%06d", normalizedDate, importStamp, maxOriginIndex-originIndex)
}

func joinConcept(parts []string) string {
	trimmed := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			trimmed = append(trimmed, p)
		}
	}

	return strings.Join(trimmed, conceptSeparator)
}
