package classify

import (
	"time"
)

// Fallback constants: unidentified counterparty, catch-all budget lines.
const (
	fallbackTercero    = "43000000M"
	fallbackNaturaleza = "4"
	fallbackPartida    = "399"
	fallbackFuncional  = "999"
	fallbackEconomica  = "999"
	fallbackCuenta     = "9999"
	fallbackFPago      = "10"
	fallbackTPago      = "10"

	adoTextoLimit = 40
)

// fallback builds the deterministic operation set used when no rule
// matches: incoming money becomes a generic arqueo against the catch-all
// budget line, outgoing money a generic ado220 payment order. Both carry
// the original concept for a human to reclassify later.
func fallback(t Tuple, now time.Time) *OperationSet {
	if t.Importe >= 0 {
		g := Generator{
			Tipo:       TipoArqueo,
			Tercero:    fallbackTercero,
			Naturaleza: fallbackNaturaleza,
			Partida:    fallbackPartida,
			Texto:      "TRANSF N/F: {concepto}",
		}

		return g.Generate(t, now)
	}

	g := Generator{
		Tipo:      TipoAdo220,
		Tercero:   fallbackTercero,
		FPago:     fallbackFPago,
		TPago:     fallbackTPago,
		Funcional: fallbackFuncional,
		Economica: fallbackEconomica,
		Cuenta:    fallbackCuenta,
		Texto:     "C/Cta.: " + truncateRunes(t.Concepto, adoTextoLimit),
	}

	return g.Generate(t, now)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}
