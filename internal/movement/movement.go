package movement

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("movement not found")

// Movement is one bank statement line in canonical form. Its ID is the
// content hash, which doubles as the idempotency key: re-importing the
// same statement produces the same IDs.
type Movement struct {
	ID             string
	Caja           string
	Fecha          string // date exactly as the bank printed it
	NormalizedDate string // ISO yyyy-mm-dd
	Concepto       string
	Importe        float64
	Saldo          float64 // running balance after this movement
	NumApunte      string  // bank-native reference, empty when absent
	SortKey        string
	InsertionDate  time.Time
	Contabilized   bool
	TaskID         *string // accounting task the movement was posted under
}

// Draft is a canonicalized movement that has not been hashed or persisted
// yet. The canonicalizer produces drafts; ImportBatch turns them into
// stored Movements.
type Draft struct {
	Caja           string
	Fecha          string
	NormalizedDate string
	Concepto       string
	Importe        float64
	Saldo          float64
	NumApunte      string
	SortKey        string
	OriginIndex    int
}

// AccountBalance is the latest known balance of one caja, taken from the
// movement with the highest sort key.
type AccountBalance struct {
	Caja         string
	Balance      float64
	LastDate     string
	LastConcepto string
	Movements    int
}
