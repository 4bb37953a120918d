package statement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a locale-formatted amount into euros. Exports mix two
// conventions: Spanish "1.234,56" and spreadsheet-rendered "1,234.56".
// Whichever separator appears last is taken as the decimal point and the
// other one as thousands grouping.
func ParseAmount(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}

	lastComma := strings.LastIndex(clean, ",")
	lastDot := strings.LastIndex(clean, ".")

	if lastComma > lastDot {
		clean = strings.ReplaceAll(clean, ".", "")
		i := strings.LastIndex(clean, ",")
		clean = strings.ReplaceAll(clean[:i], ",", "") + "." + clean[i+1:]
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("unrecognized amount %q", s)
	}

	return d.InexactFloat64(), nil
}
