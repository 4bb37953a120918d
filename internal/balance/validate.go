// Package balance checks that a run of bank movements forms an internally
// consistent running-balance chain.
package balance

import (
	"fmt"
	"math"
	"sort"

	"github.com/cajero-dev/cajero/internal/movement"
	"github.com/cajero-dev/cajero/internal/statement"
)

// tolerance absorbs floating point noise in bank-rendered balances.
const tolerance = 0.01

// Entry is the slice of a movement this validator needs.
type Entry struct {
	Fecha   string
	Importe float64
	Saldo   float64
}

// Issue is one adjacent pair whose balances do not add up.
type Issue struct {
	Index           int     `json:"index"`
	Date            string  `json:"date"`
	ExpectedBalance float64 `json:"expected_balance"`
	ActualBalance   float64 `json:"actual_balance"`
	Difference      float64 `json:"difference"`
}

type Result struct {
	IsValid           bool    `json:"is_valid"`
	Issues            []Issue `json:"issues"`
	IsAscending       bool    `json:"is_ascending"`
	IsDescendingOrder bool    `json:"is_descending_order"`
	Message           string  `json:"message"`
}

// FromDrafts adapts canonicalized drafts for validation.
func FromDrafts(drafts []movement.Draft) []Entry {
	entries := make([]Entry, len(drafts))
	for i, d := range drafts {
		entries[i] = Entry{Fecha: d.Fecha, Importe: d.Importe, Saldo: d.Saldo}
	}

	return entries
}

// Validate checks ordering and running-balance arithmetic over the list as
// supplied by the caller (expected newest-first).
//
// A list whose dates are not monotonic has no defined previous/next
// relation, so IsDescendingOrder is flagged false and the balance walk is
// skipped entirely. For a monotonic list the walk runs oldest-first:
// expected = round2(current.saldo + next.importe). Every adjacent pair is
// checked against the stored balances, so a single missing movement
// flags exactly the pair that straddles the gap.
func Validate(entries []Entry) Result {
	if len(entries) < 2 {
		return Result{
			IsValid:           true,
			IsDescendingOrder: true,
			Message:           "not enough movements to validate balance consistency",
		}
	}

	dates := make([]int64, len(entries))
	for i, e := range entries {
		dates[i] = dateOrdinal(e.Fecha)
	}

	sorted := make([]int64, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	// The supplied order is ascending when its first element is already the
	// chronological minimum; otherwise it must be newest-first.
	isAscending := dates[0] == sorted[0]

	if !monotonic(dates, isAscending) {
		return Result{
			IsValid:     false,
			IsAscending: isAscending,
			Message:     "movements are not in a consistent date order; balance check skipped",
		}
	}

	walk := entries
	if !isAscending {
		walk = make([]Entry, len(entries))

		for i, e := range entries {
			walk[len(entries)-1-i] = e
		}
	}

	var issues []Issue

	for i := 0; i < len(walk)-1; i++ {
		current, next := walk[i], walk[i+1]

		expected := round2(current.Saldo + next.Importe)
		actual := round2(next.Saldo)

		if math.Abs(expected-actual) > tolerance {
			index := i + 1
			if !isAscending {
				index = len(entries) - (i + 2)
			}

			issues = append(issues, Issue{
				Index:           index,
				Date:            next.Fecha,
				ExpectedBalance: expected,
				ActualBalance:   actual,
				Difference:      round2(actual - expected),
			})
		}
	}

	message := "all balances are consistent"
	if len(issues) > 0 {
		message = fmt.Sprintf("found %d inconsistencies in the movement balances", len(issues))
	}

	return Result{
		IsValid:           len(issues) == 0,
		Issues:            issues,
		IsAscending:       isAscending,
		IsDescendingOrder: true,
		Message:           message,
	}
}

// monotonic reports whether dates never move against the given direction.
// Equal adjacent dates are always allowed.
func monotonic(dates []int64, ascending bool) bool {
	for i := 0; i < len(dates)-1; i++ {
		if ascending && dates[i+1] < dates[i] {
			return false
		}

		if !ascending && dates[i+1] > dates[i] {
			return false
		}
	}

	return true
}

// dateOrdinal gives a comparable value for any supported date format.
// Unparseable dates collapse to the epoch, matching the canonicalizer's
// degraded behavior.
func dateOrdinal(s string) int64 {
	t, err := statement.ParseDate(s)
	if err != nil {
		return 0
	}

	return t.Unix()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
