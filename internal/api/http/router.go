package http

import (
	"github.com/gorilla/mux"

	"github.com/royludo/fuzzytaxosearch/internal/api/recovery"
)

// NewRouter wires the three endpoints (§6 HTTP) behind the panic-recovery
// middleware.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(recovery.Middleware)

	r.HandleFunc("/fuzzy", h.Autocomplete).Methods("POST")
	r.HandleFunc("/fuzzy_match", h.FuzzyMatch).Methods("POST")
	r.HandleFunc("/exact_match", h.ExactMatch).Methods("POST")

	return r
}
