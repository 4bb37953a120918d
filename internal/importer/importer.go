// Package importer reads the CSV statement exports of the supported
// institutions and produces raw positional rows for canonicalization.
// Each institution is described by a column profile; the parser detects
// the header row and lets the profile drive the extraction.
package importer

import (
	"io"

	"github.com/cajero-dev/cajero/internal/statement"
)

type Bank string

const (
	BankCRural    Bank = "crural"
	BankCaixabank Bank = "caixabank"
	BankBBVA      Bank = "bbva"
	BankSantander Bank = "santander"
	BankUnicaja   Bank = "unicaja"
)

type Importer interface {
	Parse(r io.Reader, caja string) ([]statement.RawRow, error)
}
