package rules

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cajero-dev/cajero/internal/classify"
)

// RuleStore persists the ordered rule set.
type RuleStore interface {
	LoadRules(ctx context.Context) ([]classify.Rule, error)
	ReplaceRules(ctx context.Context, rules []classify.Rule) error
}

type Handler struct {
	store  RuleStore
	engine *classify.Engine
}

func NewHandler(store RuleStore, engine *classify.Engine) *Handler {
	return &Handler{store: store, engine: engine}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/", h.replace)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.engine.Rules()); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// replace swaps the whole rule set: validated first, then persisted,
// then swapped into the running engine. The set is never patched in
// place.
func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	var rules []classify.Rule
	if err := json.NewDecoder(r.Body).Decode(&rules); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	if err := h.store.ReplaceRules(r.Context(), rules); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.engine.Replace(rules)

	w.WriteHeader(http.StatusNoContent)
}
