package http

import (
	"encoding/json"
	"net/http"

	"github.com/royludo/fuzzytaxosearch/internal/api/respond"
	"github.com/royludo/fuzzytaxosearch/internal/api/validate"
)

// FuzzyMatch handles POST /fuzzy_match: stateless batch fuzzy lookup,
// reusing one worker across the whole batch so successive queries can
// pay off the incremental reparse (§4.7.2).
func (h *Handlers) FuzzyMatch(w http.ResponseWriter, r *http.Request) {
	var req validate.FuzzyMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteEmptyMatches(w, http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		respond.WriteEmptyMatches(w, http.StatusBadRequest)
		return
	}
	req.Normalize()

	worker, err := h.acquireFrom(r.Context(), h.generalPurpose.Pool)
	if err != nil {
		respond.WriteServiceUnavailable(w, "general-purpose pool exhausted")
		return
	}
	defer func() { _ = h.generalPurpose.Pool.Release(worker) }()

	matches := make([][]matcherRecord, len(req.Strings))
	for i, s := range req.Strings {
		if s == "" {
			matches[i] = []matcherRecord{}
			continue
		}
		recs := h.runMatch(worker, s)
		if len(recs) > req.NFirstResults {
			recs = recs[:req.NFirstResults]
		}
		matches[i] = recs
	}

	respond.WriteMatches(w, matches)
}
