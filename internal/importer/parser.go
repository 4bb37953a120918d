package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	enc "github.com/cajero-dev/cajero/internal/encoding"
	"github.com/cajero-dev/cajero/internal/statement"
)

// Parser reads one institution's CSV export according to its profile.
// Amounts and dates travel through as raw strings; the canonicalizer
// owns locale parsing and normalization.
type Parser struct {
	profile *Profile
}

func NewParser(bank Bank) (*Parser, error) {
	p := profileFor(bank)
	if p == nil {
		return nil, fmt.Errorf("unknown bank: %s", bank)
	}

	return &Parser{profile: p}, nil
}

func (p *Parser) Parse(r io.Reader, caja string) ([]statement.RawRow, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx, ok := findHeader(p.profile, rows)
	if !ok {
		return nil, fmt.Errorf("no %s header found: expected columns %v", p.profile.Bank, p.profile.requiredCols())
	}

	return p.extractRows(cols, rows[headerIdx+1:], caja), nil
}

// colIndex maps column names to their index in the header row.
type colIndex map[string]int

// findHeader scans for the first row containing every required column of
// the profile. Statement exports routinely carry preamble rows (account
// metadata, date ranges) above the real header.
func findHeader(p *Profile, rows [][]string) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		if matchesProfile(p, cols) {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// extractRows turns data rows into raw positional rows. Rows without a
// date or an amount are footers or padding and are skipped; everything
// else passes through untyped for the canonicalizer to judge.
func (p *Parser) extractRows(cols colIndex, rows [][]string, caja string) []statement.RawRow {
	profile := p.profile

	var out []statement.RawRow

	for _, row := range rows {
		fecha := cell(row, cols, profile.DateCol)
		importe := cell(row, cols, profile.AmountCol)

		if fecha == "" || importe == "" {
			continue
		}

		var concepto []string

		for _, c := range profile.ConceptCols {
			if v := cell(row, cols, c); v != "" {
				concepto = append(concepto, v)
			}
		}

		raw := statement.RawRow{
			Caja:        caja,
			Fecha:       fecha,
			Concepto:    concepto,
			Importe:     importe,
			Saldo:       cell(row, cols, profile.BalanceCol),
			OriginIndex: len(out),
		}

		if profile.NumApunteCol != "" {
			raw.NumApunte = cell(row, cols, profile.NumApunteCol)
		}

		out = append(out, raw)
	}

	return out
}

// cell safely gets a trimmed value by column name.
func cell(row []string, cols colIndex, name string) string {
	idx, ok := cols[name]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
