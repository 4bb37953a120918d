package ledgerfile

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cajero-dev/cajero/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/import", h.importFile)
	r.Get("/entries", h.entries)
}

type lineErrorDTO struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

type importResponse struct {
	New        int            `json:"new"`
	Duplicates int            `json:"duplicates"`
	LineErrors []lineErrorDTO `json:"line_errors,omitempty"`
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.svc.ImportFile(r.Context(), file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := importResponse{New: result.New, Duplicates: result.Duplicates}
	for _, le := range result.LineErrors {
		resp.LineErrors = append(resp.LineErrors, lineErrorDTO{Line: le.Line, Error: le.Err.Error()})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type entryResponse struct {
	ID              string  `json:"id"`
	AccountCode     string  `json:"account_code"`
	TransactionType string  `json:"transaction_type"`
	EntryDate       string  `json:"entry_date"`
	ValueDate       string  `json:"value_date"`
	Description     string  `json:"description"`
	Reference       string  `json:"reference"`
	CheckNumber     string  `json:"check_number,omitempty"`
	TaskID          string  `json:"task_id,omitempty"`
	Amount          float64 `json:"amount"`
	EntityID        string  `json:"entity_id,omitempty"`
	EntityName      string  `json:"entity_name,omitempty"`
	Processed       bool    `json:"processed"`
	MovementID      *string `json:"movement_id,omitempty"`
}

func (h *Handler) entries(w http.ResponseWriter, r *http.Request) {
	accountCode := r.URL.Query().Get("account_code")
	if accountCode == "" {
		http.Error(w, "account_code query parameter is required", http.StatusBadRequest)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	entries, err := h.svc.ListByAccount(r.Context(), accountCode, page, pageSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			ID:              e.ID,
			AccountCode:     e.AccountCode,
			TransactionType: e.TransactionType,
			EntryDate:       e.EntryDate,
			ValueDate:       e.ValueDate,
			Description:     e.Description,
			Reference:       e.Reference,
			CheckNumber:     e.CheckNumber,
			TaskID:          e.TaskID,
			Amount:          e.Amount,
			EntityID:        e.EntityID,
			EntityName:      e.EntityName,
			Processed:       e.Processed,
			MovementID:      e.MovementID,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(out); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
