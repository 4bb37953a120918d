package statement

import (
	"fmt"
	"strings"
	"time"
)

// EpochSentinel is what a row's normalized date degrades to when the bank
// supplied nothing parseable. The row is kept, not dropped.
const EpochSentinel = "1970-01-01"

// monthNames maps Spanish and English month names (full and abbreviated)
// to month numbers. Rural savings bank exports print dates like
// "30-may-25"; the abbreviation language depends on the workstation locale.
var monthNames = map[string]time.Month{
	"ene": time.January, "enero": time.January, "jan": time.January, "january": time.January,
	"feb": time.February, "febrero": time.February, "february": time.February,
	"mar": time.March, "marzo": time.March, "march": time.March,
	"abr": time.April, "abril": time.April, "apr": time.April, "april": time.April,
	"may": time.May, "mayo": time.May,
	"jun": time.June, "junio": time.June, "june": time.June,
	"jul": time.July, "julio": time.July, "july": time.July,
	"ago": time.August, "agosto": time.August, "aug": time.August, "august": time.August,
	"sep": time.September, "septiembre": time.September, "september": time.September,
	"oct": time.October, "octubre": time.October, "october": time.October,
	"nov": time.November, "noviembre": time.November, "november": time.November,
	"dic": time.December, "diciembre": time.December, "dec": time.December, "december": time.December,
}

// ParseDate parses the date formats seen across institution exports:
// DD/MM/YYYY, DD-mon-YY (Spanish or English month names), YYYYMMDD and
// ISO YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if strings.Contains(s, "/") {
		if t, err := time.Parse("02/01/2006", s); err == nil {
			return t, nil
		}

		if t, err := time.Parse("2/1/2006", s); err == nil {
			return t, nil
		}

		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}

	if strings.Contains(s, "-") {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t, nil
		}

		if t, ok := parseMonthNameDate(s); ok {
			return t, nil
		}

		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}

	if len(s) == 8 && isDigits(s) {
		if t, err := time.Parse("20060102", s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseMonthNameDate handles "30-may-25" and "30-mayo-2025" style dates.
// Two-digit years are taken as 20xx.
func parseMonthNameDate(s string) (time.Time, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	month, ok := monthNames[strings.ToLower(strings.TrimSpace(parts[1]))]
	if !ok {
		return time.Time{}, false
	}

	day, year := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[2])
	if len(year) == 2 {
		year = "20" + year
	}

	t, err := time.Parse("2-1-2006", fmt.Sprintf("%s-%d-%s", day, month, year))
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// NormalizeDate converts any supported raw date to ISO yyyy-mm-dd, or the
// epoch sentinel when the value is unparseable.
func NormalizeDate(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return EpochSentinel
	}

	return t.Format("2006-01-02")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return len(s) > 0
}
