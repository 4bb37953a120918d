// Package ledger imports the fixed-width general-ledger extract and keeps
// its entries available for reconciliation against bank movements.
package ledger

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("ledger entry not found")

// Entry is one general-ledger line. Amount is signed: the debit/credit
// indicator at the end of the source line is already folded in.
type Entry struct {
	ID              string
	AccountCode     string
	TransactionType string
	EntryDate       string // YYYY-MM-DD
	ValueDate       string // YYYY-MM-DD
	Description     string
	Reference       string
	CheckNumber     string
	TaskID          string
	Amount          float64
	EntityID        string
	EntityName      string
	InsertionDate   time.Time
	Processed       bool
	MovementID      *string
}
