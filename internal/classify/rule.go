package classify

import (
	"fmt"
	"strings"

	"github.com/cajero-dev/cajero/internal/movement"
)

// Tuple is the normalized view of a movement the rule set matches on: the
// caja code without its descriptive suffix, the raw date reduced to its
// digits, the concept, and the signed amount.
type Tuple struct {
	Caja     string
	Fecha    string
	Concepto string
	Importe  float64
}

// NewTuple normalizes a movement for classification.
func NewTuple(m *movement.Movement) Tuple {
	caja := m.Caja
	if i := strings.Index(caja, "_"); i >= 0 {
		caja = caja[:i]
	}

	return Tuple{
		Caja:     caja,
		Fecha:    digitsOnly(m.Fecha),
		Concepto: m.Concepto,
		Importe:  m.Importe,
	}
}

func digitsOnly(s string) string {
	var b strings.Builder

	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Matcher is a declarative predicate over a Tuple. Exactly one of the
// combinator fields (All, Any, Not) or the leaf fields (Field/Op) is set.
// Rules are stored as data and interpreted here; no executable logic is
// ever loaded from persistence.
type Matcher struct {
	All []Matcher `json:"all,omitempty"`
	Any []Matcher `json:"any,omitempty"`
	Not *Matcher  `json:"not,omitempty"`

	Field  string   `json:"field,omitempty"` // caja | fecha | concepto | importe
	Op     string   `json:"op,omitempty"`
	Value  string   `json:"value,omitempty"`  // string comparisons
	Amount *float64 `json:"amount,omitempty"` // importe comparisons
}

// Supported leaf operators.
const (
	OpEquals   = "equals"
	OpContains = "contains"
	OpPrefix   = "prefix"
	OpSuffix   = "suffix"
	OpEq       = "eq"
	OpLt       = "lt"
	OpLte      = "lte"
	OpGt       = "gt"
	OpGte      = "gte"
)

// Match evaluates the predicate. Malformed leaves evaluate to false
// rather than failing the classification run.
func (m Matcher) Match(t Tuple) bool {
	switch {
	case len(m.All) > 0:
		for _, sub := range m.All {
			if !sub.Match(t) {
				return false
			}
		}

		return true
	case len(m.Any) > 0:
		for _, sub := range m.Any {
			if sub.Match(t) {
				return true
			}
		}

		return false
	case m.Not != nil:
		return !m.Not.Match(t)
	}

	if m.Field == "importe" {
		return m.matchAmount(t.Importe)
	}

	return m.matchString(t)
}

func (m Matcher) matchString(t Tuple) bool {
	var field string

	switch m.Field {
	case "caja":
		field = t.Caja
	case "fecha":
		field = t.Fecha
	case "concepto":
		field = t.Concepto
	default:
		return false
	}

	field = strings.ToLower(field)
	value := strings.ToLower(m.Value)

	switch m.Op {
	case OpEquals:
		return field == value
	case OpContains:
		return strings.Contains(field, value)
	case OpPrefix:
		return strings.HasPrefix(field, value)
	case OpSuffix:
		return strings.HasSuffix(field, value)
	}

	return false
}

func (m Matcher) matchAmount(importe float64) bool {
	if m.Amount == nil {
		return false
	}

	switch m.Op {
	case OpEq:
		return amountsEqual(importe, *m.Amount)
	case OpLt:
		return importe < *m.Amount
	case OpLte:
		return importe <= *m.Amount
	case OpGt:
		return importe > *m.Amount
	case OpGte:
		return importe >= *m.Amount
	}

	return false
}

// Validate rejects matchers that would silently never match.
func (m Matcher) Validate() error {
	combinators := 0
	if len(m.All) > 0 {
		combinators++
	}

	if len(m.Any) > 0 {
		combinators++
	}

	if m.Not != nil {
		combinators++
	}

	if combinators > 1 {
		return fmt.Errorf("matcher mixes combinators")
	}

	if combinators == 1 {
		for _, sub := range append(append([]Matcher{}, m.All...), m.Any...) {
			if err := sub.Validate(); err != nil {
				return err
			}
		}

		if m.Not != nil {
			return m.Not.Validate()
		}

		return nil
	}

	switch m.Field {
	case "caja", "fecha", "concepto":
		switch m.Op {
		case OpEquals, OpContains, OpPrefix, OpSuffix:
			return nil
		}

		return fmt.Errorf("field %s: unknown string operator %q", m.Field, m.Op)
	case "importe":
		switch m.Op {
		case OpEq, OpLt, OpLte, OpGt, OpGte:
			if m.Amount == nil {
				return fmt.Errorf("importe matcher needs an amount")
			}

			return nil
		}

		return fmt.Errorf("field importe: unknown operator %q", m.Op)
	}

	return fmt.Errorf("unknown matcher field %q", m.Field)
}

// Generator is a parameterized posting template. Texto may embed the
// placeholders {concepto}, {fecha}, {caja} and {importe}.
type Generator struct {
	Tipo    string `json:"tipo"`
	Tercero string `json:"tercero"`
	Texto   string `json:"texto"`

	// arqueo fields
	Naturaleza string `json:"naturaleza,omitempty"`
	Partida    string `json:"partida,omitempty"`

	// ado220 fields
	Expediente string  `json:"expediente,omitempty"`
	FPago      string  `json:"fpago,omitempty"`
	TPago      string  `json:"tpago,omitempty"`
	Funcional  string  `json:"funcional,omitempty"`
	Economica  string  `json:"economica,omitempty"`
	GFA        *string `json:"gfa,omitempty"`
	Cuenta     string  `json:"cuenta,omitempty"`
}

func (g Generator) Validate() error {
	switch g.Tipo {
	case TipoArqueo:
		if g.Partida == "" {
			return fmt.Errorf("arqueo generator needs a partida")
		}

		if g.Naturaleza == "" {
			return fmt.Errorf("arqueo generator needs a naturaleza")
		}
	case TipoAdo220:
		if g.Funcional == "" || g.Economica == "" || g.Cuenta == "" {
			return fmt.Errorf("ado220 generator needs funcional, economica and cuenta")
		}
	default:
		return fmt.Errorf("unknown generator tipo %q", g.Tipo)
	}

	if g.Tercero == "" {
		return fmt.Errorf("generator needs a tercero")
	}

	return nil
}

// Rule pairs one matcher with one generator. Order matters: the engine
// walks rules in sequence and the first match wins.
type Rule struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Matcher     Matcher   `json:"matcher"`
	Generator   Generator `json:"generator"`
}

func (r Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule without id")
	}

	if err := r.Matcher.Validate(); err != nil {
		return fmt.Errorf("rule %s: %w", r.ID, err)
	}

	if err := r.Generator.Validate(); err != nil {
		return fmt.Errorf("rule %s: %w", r.ID, err)
	}

	return nil
}
