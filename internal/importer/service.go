package importer

import (
	"fmt"
	"io"

	"github.com/cajero-dev/cajero/internal/statement"
)

type Service struct {
	parsers map[Bank]*Parser
}

func NewService() *Service {
	parsers := make(map[Bank]*Parser)

	for _, bank := range []Bank{BankCRural, BankCaixabank, BankBBVA, BankSantander, BankUnicaja} {
		p, err := NewParser(bank)
		if err != nil {
			// Unreachable for the fixed bank list; a missing profile is
			// a programming error caught by the package tests.
			panic(err)
		}

		parsers[bank] = p
	}

	return &Service{parsers: parsers}
}

// Import parses one statement export for the named bank and caja.
func (s *Service) Import(bank Bank, caja string, r io.Reader) ([]statement.RawRow, error) {
	parser, ok := s.parsers[bank]
	if !ok {
		return nil, fmt.Errorf("unknown bank: %s", bank)
	}

	return parser.Parse(r, caja)
}
