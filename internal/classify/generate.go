package classify

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// taskID synthesizes the downstream traceability identifier for one
// movement: caja, date digits, amount and a fragment lifted from the
// middle of the concept. It is never used as a storage key.
func taskID(t Tuple) string {
	return t.Caja + "_" + t.Fecha + "_" + formatImporte(t.Importe) + "_" + middleFragment(t.Concepto)
}

// middleFragment takes six alphanumeric characters from around the middle
// of the concept, enough to tell two same-day same-amount movements apart
// in downstream logs.
func middleFragment(concepto string) string {
	stripped := make([]rune, 0, len(concepto))

	for _, r := range concepto {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			stripped = append(stripped, r)
		}
	}

	start := (len([]rune(concepto)) - 5) / 2
	if start < 0 {
		start = 0
	}

	if start > len(stripped) {
		start = len(stripped)
	}

	end := start + 6
	if end > len(stripped) {
		end = len(stripped)
	}

	return string(stripped[start:end])
}

func formatImporte(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// expand substitutes tuple placeholders into a generator text template.
func expand(template string, t Tuple) string {
	r := strings.NewReplacer(
		"{concepto}", t.Concepto,
		"{fecha}", t.Fecha,
		"{caja}", t.Caja,
		"{importe}", formatImporte(t.Importe),
	)

	return r.Replace(template)
}

// Generate instantiates the template for one movement tuple.
func (g Generator) Generate(t Tuple, now time.Time) *OperationSet {
	set := &OperationSet{
		IDTask:       taskID(t),
		CreationDate: now.UTC().Format(time.RFC3339),
		NumOps:       1,
		Liquido:      t.Importe,
	}

	switch g.Tipo {
	case TipoArqueo:
		set.Operaciones = []Operation{{
			Tipo: TipoArqueo,
			Detalle: &ArqueoDetail{
				Fecha:      t.Fecha,
				Caja:       t.Caja,
				Tercero:    g.Tercero,
				Naturaleza: g.Naturaleza,
				Final: []BudgetLine{
					{Partida: g.Partida, Importe: t.Importe},
					{Partida: "Total", Importe: 0.0},
				},
				TextoSical: []SicalText{{TCargo: expand(g.Texto, t), Ado: ""}},
			},
		}}
	case TipoAdo220:
		set.Operaciones = []Operation{{
			Tipo: TipoAdo220,
			Detalle: &AdoDetail{
				Fecha:      t.Fecha,
				Expediente: g.Expediente,
				Tercero:    g.Tercero,
				FPago:      g.FPago,
				TPago:      g.TPago,
				Caja:       t.Caja,
				Texto:      expand(g.Texto, t),
				Aplicaciones: []Application{{
					Funcional: g.Funcional,
					Economica: g.Economica,
					GFA:       g.GFA,
					Importe:   math.Abs(t.Importe),
					Cuenta:    g.Cuenta,
				}},
			},
		}}
	}

	return set
}
