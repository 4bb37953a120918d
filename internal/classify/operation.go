// Package classify turns a canonical bank movement into a structured
// government-accounting operation set, using an ordered, replaceable rule
// set with a deterministic fallback.
package classify

import (
	"fmt"
	"math"
)

const (
	TipoArqueo = "arqueo"
	TipoAdo220 = "ado220"
)

// OperationSet is the payload handed to the downstream posting service.
type OperationSet struct {
	IDTask       string      `json:"id_task"`
	CreationDate string      `json:"creation_date"`
	NumOps       int         `json:"num_operaciones"`
	Liquido      float64     `json:"liquido_operaciones"`
	Operaciones  []Operation `json:"operaciones"`
}

// Operation carries one posting. Detalle is an *ArqueoDetail or an
// *AdoDetail depending on Tipo.
type Operation struct {
	Tipo    string `json:"tipo"`
	Detalle any    `json:"detalle"`
}

// ArqueoDetail is a cash-receipt posting (incoming funds).
type ArqueoDetail struct {
	Fecha      string       `json:"fecha"`
	Caja       string       `json:"caja"`
	Tercero    string       `json:"tercero"`
	Naturaleza string       `json:"naturaleza"`
	Final      []BudgetLine `json:"final"`
	TextoSical []SicalText  `json:"texto_sical"`
}

// BudgetLine is one budget line-item of an arqueo. The list ends with a
// zero-valued "Total" terminator line.
type BudgetLine struct {
	Partida string  `json:"partida"`
	Importe float64 `json:"IMPORTE_PARTIDA"`
}

type SicalText struct {
	TCargo string `json:"tcargo"`
	Ado    string `json:"ado"`
}

// AdoDetail is a payment-order posting (outgoing funds).
type AdoDetail struct {
	Fecha        string        `json:"fecha"`
	Expediente   string        `json:"expediente"`
	Tercero      string        `json:"tercero"`
	FPago        string        `json:"fpago"`
	TPago        string        `json:"tpago"`
	Caja         string        `json:"caja"`
	Texto        string        `json:"texto"`
	Aplicaciones []Application `json:"aplicaciones"`
}

// Application is one budget application line of an ado220. Amounts are
// positive here; the outgoing direction is implied by the operation type.
type Application struct {
	Funcional string  `json:"funcional"`
	Economica string  `json:"economica"`
	GFA       *string `json:"gfa"`
	Importe   float64 `json:"importe"`
	Cuenta    string  `json:"cuenta"`
}

// Validate cross-checks the set's header against its operations and each
// operation's lines against the movement amount it was generated from.
// Errors name the offending field; a set that fails here must not be
// dispatched.
func (s *OperationSet) Validate(movementAmount float64) error {
	if s.NumOps != len(s.Operaciones) {
		return fmt.Errorf("num_operaciones is %d but the set has %d operations", s.NumOps, len(s.Operaciones))
	}

	if !amountsEqual(s.Liquido, movementAmount) {
		return fmt.Errorf("liquido_operaciones %.2f does not match movement amount %.2f", s.Liquido, movementAmount)
	}

	for i, op := range s.Operaciones {
		switch d := op.Detalle.(type) {
		case *ArqueoDetail:
			if op.Tipo != TipoArqueo {
				return fmt.Errorf("operation %d: tipo %q carries an arqueo detail", i, op.Tipo)
			}

			var sum float64
			for _, line := range d.Final {
				sum += line.Importe
			}

			if !amountsEqual(sum, movementAmount) {
				return fmt.Errorf("operation %d: budget lines sum to %.2f, movement amount is %.2f", i, sum, movementAmount)
			}
		case *AdoDetail:
			if op.Tipo != TipoAdo220 {
				return fmt.Errorf("operation %d: tipo %q carries an ado220 detail", i, op.Tipo)
			}

			var sum float64
			for _, app := range d.Aplicaciones {
				sum += app.Importe
			}

			if !amountsEqual(sum, math.Abs(movementAmount)) {
				return fmt.Errorf("operation %d: applications sum to %.2f, movement amount is %.2f", i, sum, movementAmount)
			}
		default:
			return fmt.Errorf("operation %d: unknown detail type %T", i, op.Detalle)
		}
	}

	return nil
}

func amountsEqual(a, b float64) bool {
	return math.Abs(a-b) <= 0.005
}
