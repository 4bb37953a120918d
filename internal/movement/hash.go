package movement

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// conceptHashLen caps how much of the concept participates in the content
// hash. Two real movements that agree on caja, date, amount, balance and
// the first 100 characters of the concept collapse into one ID; that is
// the accepted cost of recognizing re-imports.
const conceptHashLen = 100

// Hash derives the content identity of a draft. Origin index and import
// timestamp are deliberately left out so that importing the identical
// statement twice yields the identical set of IDs.
func Hash(d Draft) string {
	var b strings.Builder

	b.WriteString(d.Caja)
	b.WriteString(d.Fecha)
	b.WriteString(truncateRunes(d.Concepto, conceptHashLen))
	b.WriteString(formatAmount(d.Importe))
	b.WriteString(formatAmount(d.Saldo))

	sum := sha256.Sum256([]byte(b.String()))

	return hex.EncodeToString(sum[:])
}

// formatAmount renders a number the shortest way that round-trips, so the
// hash input is stable for a given stored value.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}
