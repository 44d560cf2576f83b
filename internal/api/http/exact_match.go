package http

import (
	"encoding/json"
	"net/http"

	"github.com/royludo/fuzzytaxosearch/internal/api/respond"
	"github.com/royludo/fuzzytaxosearch/internal/api/validate"
)

// ExactMatch handles POST /exact_match: stateless exact dictionary
// lookup, no pool involvement (§4.7.3).
func (h *Handlers) ExactMatch(w http.ResponseWriter, r *http.Request) {
	var req validate.ExactMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteEmptyMatches(w, http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		respond.WriteEmptyMatches(w, http.StatusBadRequest)
		return
	}

	matches := make([]*matcherRecord, len(req.Strings))
	for i, s := range req.Strings {
		rec, ok := h.dataset.Exact(s)
		if !ok {
			matches[i] = nil
			continue
		}
		matches[i] = &matcherRecord{String: rec.String, Data: rec.Data}
	}

	respond.WriteMatches(w, matches)
}
