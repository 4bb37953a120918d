package movement

import (
	"time"

	"github.com/cajero-dev/cajero/internal/movement"
)

type movementResponse struct {
	ID             string    `json:"id"`
	Caja           string    `json:"caja"`
	Fecha          string    `json:"fecha"`
	NormalizedDate string    `json:"normalized_date"`
	Concepto       string    `json:"concepto"`
	Importe        float64   `json:"importe"`
	Saldo          float64   `json:"saldo"`
	NumApunte      string    `json:"id_apunte_banco,omitempty"`
	InsertionDate  time.Time `json:"insertion_date"`
	Contabilized   bool      `json:"is_contabilized"`
	TaskID         *string   `json:"id_apunte_contable,omitempty"`
}

func toResponse(m *movement.Movement) movementResponse {
	return movementResponse{
		ID:             m.ID,
		Caja:           m.Caja,
		Fecha:          m.Fecha,
		NormalizedDate: m.NormalizedDate,
		Concepto:       m.Concepto,
		Importe:        m.Importe,
		Saldo:          m.Saldo,
		NumApunte:      m.NumApunte,
		InsertionDate:  m.InsertionDate,
		Contabilized:   m.Contabilized,
		TaskID:         m.TaskID,
	}
}

func toResponseList(movs []*movement.Movement) []movementResponse {
	out := make([]movementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toResponse(m))
	}

	return out
}
