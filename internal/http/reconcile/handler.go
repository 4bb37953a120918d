package reconcile

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cajero-dev/cajero/internal/reconcile"
)

type Handler struct {
	svc *reconcile.Service
}

func NewHandler(svc *reconcile.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/propose", h.propose)
	r.Post("/confirm", h.confirm)
}

type proposeRequest struct {
	AccountCode string `json:"account_code"`
	Start       string `json:"start"` // YYYY-MM-DD
	End         string `json:"end"`
}

func (h *Handler) propose(w http.ResponseWriter, r *http.Request) {
	var req proposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.AccountCode == "" || req.Start == "" || req.End == "" {
		http.Error(w, "account_code, start and end are required", http.StatusBadRequest)
		return
	}

	proposals, err := h.svc.Propose(r.Context(), req.AccountCode, req.Start, req.End)
	if err != nil {
		if errors.Is(err, reconcile.ErrUnknownAccount) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(proposals); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type confirmRequest struct {
	MovementID string  `json:"movement_id"`
	EntryID    string  `json:"entry_id"`
	Confidence float64 `json:"confidence"`
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.MovementID == "" || req.EntryID == "" {
		http.Error(w, "movement_id and entry_id are required", http.StatusBadRequest)
		return
	}

	mapping, err := h.svc.Confirm(r.Context(), req.MovementID, req.EntryID, req.Confidence)
	if err != nil {
		if errors.Is(err, reconcile.ErrEntryProcessed) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(mapping); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
