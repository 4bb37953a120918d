package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cajero-dev/cajero/internal/balance"
	"github.com/cajero-dev/cajero/internal/importer"
	"github.com/cajero-dev/cajero/internal/movement"
	"github.com/cajero-dev/cajero/internal/statement"
)

type Handler struct {
	importSvc   *importer.Service
	movementSvc *movement.Service
}

func NewHandler(importSvc *importer.Service, movementSvc *movement.Service) *Handler {
	return &Handler{
		importSvc:   importSvc,
		movementSvc: movementSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importStatement)
}

type rejectedDTO struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Value string `json:"value"`
	Error string `json:"error"`
}

type importResponse struct {
	New        int            `json:"new"`
	Duplicates int            `json:"duplicates"`
	Rejected   []rejectedDTO  `json:"rejected,omitempty"`
	Validation balance.Result `json:"validation"`
}

// importStatement runs the full ingestion path: institution adapter,
// canonicalization, balance-chain validation, atomic batch insert. An
// inconsistent date ordering always rejects the batch; balance issues
// gate it unless force=true. Row-level rejects are reported but never
// fail the rest of the batch.
func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		http.Error(w, "bank field is required", http.StatusBadRequest)
		return
	}

	caja := r.FormValue("caja")
	if caja == "" {
		http.Error(w, "caja field is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := h.importSvc.Import(bank, caja, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	drafts, rejected := statement.Canonicalize(rows, time.Now().UTC())

	validation := balance.Validate(balance.FromDrafts(drafts))

	force := r.URL.Query().Get("force") == "true"
	if !validation.IsDescendingOrder || (!validation.IsValid && !force) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)

		if err := json.NewEncoder(w).Encode(importResponse{
			Rejected:   toRejectedDTOs(rejected),
			Validation: validation,
		}); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	result, err := h.movementSvc.ImportBatch(r.Context(), drafts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(importResponse{
		New:        result.New,
		Duplicates: result.Duplicates,
		Rejected:   toRejectedDTOs(rejected),
		Validation: validation,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toRejectedDTOs(rejected []statement.Rejected) []rejectedDTO {
	if len(rejected) == 0 {
		return nil
	}

	out := make([]rejectedDTO, 0, len(rejected))

	for _, rej := range rejected {
		out = append(out, rejectedDTO{
			Row:   rej.Err.Row,
			Field: rej.Err.Field,
			Value: rej.Err.Value,
			Error: rej.Err.Err.Error(),
		})
	}

	return out
}
