package movement

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cajero-dev/cajero/internal/classify"
	"github.com/cajero-dev/cajero/internal/dispatch"
	"github.com/cajero-dev/cajero/internal/movement"
)

type Handler struct {
	svc      *movement.Service
	engine   *classify.Engine
	dispatch *dispatch.Service
}

func NewHandler(svc *movement.Service, engine *classify.Engine, dispatchSvc *dispatch.Service) *Handler {
	return &Handler{
		svc:      svc,
		engine:   engine,
		dispatch: dispatchSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/cajas", h.cajas)
	r.Get("/balances", h.balances)
	r.Post("/{id}/classify", h.classify)
	r.Post("/{id}/classify/{ruleID}", h.classifyWithRule)
	r.Patch("/{id}/posted", h.setPosted)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	caja := r.URL.Query().Get("caja")
	if caja == "" {
		http.Error(w, "caja query parameter is required", http.StatusBadRequest)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	movs, err := h.svc.ListByCaja(r.Context(), caja, page, pageSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(movs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) cajas(w http.ResponseWriter, r *http.Request) {
	cajas, err := h.svc.ListCajas(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(cajas); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type balancesResponse struct {
	Accounts []movement.AccountBalance `json:"accounts"`
	Total    float64                   `json:"total"`
}

func (h *Handler) balances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.svc.AccountBalances(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := balancesResponse{Accounts: balances}
	for _, b := range balances {
		resp.Total += b.Balance
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type classifyResponse struct {
	RuleID      string                 `json:"rule_id"`
	Description string                 `json:"description"`
	Matched     bool                   `json:"matched"`
	Dispatched  bool                   `json:"dispatched"`
	Set         *classify.OperationSet `json:"operation_set"`
}

func (h *Handler) classify(w http.ResponseWriter, r *http.Request) {
	h.runClassification(w, r, "")
}

func (h *Handler) classifyWithRule(w http.ResponseWriter, r *http.Request) {
	h.runClassification(w, r, chi.URLParam(r, "ruleID"))
}

// runClassification resolves the movement, runs the rule walk (or one
// forced rule) and optionally dispatches the result. A successful
// dispatch marks the movement contabilized under the set's task id.
func (h *Handler) runClassification(w http.ResponseWriter, r *http.Request, ruleID string) {
	id := chi.URLParam(r, "id")

	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, movement.ErrNotFound) {
			http.Error(w, "movement not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	tuple := classify.NewTuple(m)
	now := time.Now().UTC()

	var result *classify.Result
	if ruleID == "" {
		result, err = h.engine.Classify(tuple, now)
	} else {
		result, err = h.engine.Apply(ruleID, tuple, now)
	}

	if err != nil {
		var nf *classify.ErrRuleNotFound
		if errors.As(err, &nf) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusUnprocessableEntity)

		return
	}

	resp := classifyResponse{
		RuleID:      result.RuleID,
		Description: result.Description,
		Matched:     result.Matched,
		Set:         result.Set,
	}

	if r.URL.Query().Get("dispatch") == "true" {
		if err := h.dispatch.Send(r.Context(), result.Set); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		taskID := result.Set.IDTask
		if err := h.svc.SetContabilized(r.Context(), m.ID, true, &taskID); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		resp.Dispatched = true
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type setPostedRequest struct {
	Posted bool    `json:"posted"`
	TaskID *string `json:"task_id,omitempty"`
}

func (h *Handler) setPosted(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req setPostedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.SetContabilized(r.Context(), id, req.Posted, req.TaskID); err != nil {
		if errors.Is(err, movement.ErrNotFound) {
			http.Error(w, "movement not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
