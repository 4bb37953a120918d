package importer

// Profile describes the column layout of one institution's CSV export.
// ConceptCols are joined in order by the canonicalizer; optional columns
// may be absent from a given file without failing the profile match.
type Profile struct {
	Bank         Bank
	DateCol      string
	ConceptCols  []string
	AmountCol    string
	BalanceCol   string
	NumApunteCol string   // bank-side entry number, where the export has one
	OptionalCols []string // concept columns that may be missing
}

// requiredCols returns the columns that must be present for this profile
// to match a header row.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.AmountCol, p.BalanceCol}

	for _, c := range p.ConceptCols {
		if !p.optional(c) {
			cols = append(cols, c)
		}
	}

	return cols
}

func (p Profile) optional(col string) bool {
	for _, c := range p.OptionalCols {
		if c == col {
			return true
		}
	}

	return false
}

// profiles is the ordered list of institution export formats to try
// during auto-detection. More specific layouts come first so that a
// header carrying extra columns never matches a narrower profile.
var profiles = []Profile{
	{
		Bank:         BankBBVA,
		DateCol:      "FECHA",
		ConceptCols:  []string{"CONCEPTO", "OBSERVACIONES", "BENEFIARIO_ORDENANTE"},
		AmountCol:    "IMPORTE",
		BalanceCol:   "SALDO",
		OptionalCols: []string{"BENEFIARIO_ORDENANTE"},
	},
	{
		Bank:        BankCaixabank,
		DateCol:     "FECHA",
		ConceptCols: []string{"CONCEPTO", "CONCEPTOADIC"},
		AmountCol:   "IMPORTE",
		BalanceCol:  "SALDO",
	},
	{
		Bank:         BankCRural,
		DateCol:      "FECHA",
		ConceptCols:  []string{"CONCEPTO"},
		AmountCol:    "IMPORTE",
		BalanceCol:   "SALDO",
		NumApunteCol: "NUM_APUNTE",
	},
	{
		Bank:         BankUnicaja,
		DateCol:      "FECHA",
		ConceptCols:  []string{"CONCEPTO"},
		AmountCol:    "IMPORTE",
		BalanceCol:   "SALDO",
		NumApunteCol: "NUM_MOV",
	},
	{
		Bank:        BankSantander,
		DateCol:     "FECHA",
		ConceptCols: []string{"CONCEPTO"},
		AmountCol:   "IMPORTE",
		BalanceCol:  "SALDO",
	},
}

// profileFor returns the profile of one institution. The profile-level
// distinction between unicaja, crural and santander rests on their
// entry-number columns, so bank selection stays explicit at the API
// boundary rather than inferred from the header alone.
func profileFor(bank Bank) *Profile {
	for i := range profiles {
		if profiles[i].Bank == bank {
			return &profiles[i]
		}
	}

	return nil
}
