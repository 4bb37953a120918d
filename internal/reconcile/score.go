// Package reconcile proposes and confirms mappings between imported
// general-ledger entries and stored bank movements.
package reconcile

import (
	"math"
	"strings"
	"time"

	"github.com/cajero-dev/cajero/internal/ledger"
	"github.com/cajero-dev/cajero/internal/movement"
)

const (
	// Threshold is the minimum confidence for a pair to be proposed.
	Threshold = 0.5

	amountTolerance = 0.01
	minTokenLength  = 4
)

// Score rates one (ledger entry, bank movement) pair on [0, 1]. The
// amount is a hard gate: pairs whose amounts differ by more than a cent
// score zero no matter how well the rest lines up.
func Score(e *ledger.Entry, m *movement.Movement) float64 {
	if math.Abs(e.Amount-m.Importe) > amountTolerance {
		return 0
	}

	confidence := 0.5

	confidence += dateScore(e, m)
	confidence += descriptionScore(e.Description, m.Concepto)

	if e.Reference != "" && strings.Contains(m.Concepto, e.Reference) {
		confidence += 0.2
	}

	return math.Min(confidence, 1.0)
}

// dateScore compares the movement date against both ledger dates: exact
// equality on either is worth more than a one-day slip, which still
// happens routinely between booking and value dates.
func dateScore(e *ledger.Entry, m *movement.Movement) float64 {
	if e.EntryDate == m.NormalizedDate || e.ValueDate == m.NormalizedDate {
		return 0.3
	}

	if withinOneDay(e.EntryDate, m.NormalizedDate) || withinOneDay(e.ValueDate, m.NormalizedDate) {
		return 0.2
	}

	return 0
}

func withinOneDay(a, b string) bool {
	ta, errA := time.Parse("2006-01-02", a)
	tb, errB := time.Parse("2006-01-02", b)

	if errA != nil || errB != nil {
		return false
	}

	diff := ta.Sub(tb)
	if diff < 0 {
		diff = -diff
	}

	return diff <= 24*time.Hour
}

// descriptionScore rewards full containment either way; failing that,
// the overlap of significant tokens earns a smaller, proportional score.
func descriptionScore(description, concepto string) float64 {
	desc := strings.ToLower(strings.TrimSpace(description))
	conc := strings.ToLower(strings.TrimSpace(concepto))

	if desc == "" || conc == "" {
		return 0
	}

	if strings.Contains(conc, desc) || strings.Contains(desc, conc) {
		return 0.2
	}

	return 0.1 * tokenOverlap(desc, conc)
}

// tokenOverlap is the share of significant words the two texts have in
// common, relative to the smaller word set. Words of three characters or
// fewer are noise (articles, prepositions, bank codes) and are ignored.
func tokenOverlap(a, b string) float64 {
	tokensA := significantTokens(a)
	tokensB := significantTokens(b)

	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	shared := 0

	for token := range tokensA {
		if _, ok := tokensB[token]; ok {
			shared++
		}
	}

	smaller := len(tokensA)
	if len(tokensB) < smaller {
		smaller = len(tokensB)
	}

	return float64(shared) / float64(smaller)
}

func significantTokens(s string) map[string]struct{} {
	tokens := make(map[string]struct{})

	for _, w := range strings.Fields(s) {
		if len([]rune(w)) >= minTokenLength {
			tokens[w] = struct{}{}
		}
	}

	return tokens
}
