package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/royludo/fuzzytaxosearch/internal/api/respond"
	"github.com/royludo/fuzzytaxosearch/internal/api/validate"
	"github.com/royludo/fuzzytaxosearch/internal/binder"
	"github.com/royludo/fuzzytaxosearch/internal/matcher"
)

// Autocomplete handles POST /fuzzy, the session-affine interactive path
// (§4.7.1).
func (h *Handlers) Autocomplete(w http.ResponseWriter, r *http.Request) {
	var req validate.AutocompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteEmptyMatches(w, http.StatusBadRequest)
		return
	}
	if req.Empty() {
		respond.WriteEmptyMatches(w, http.StatusBadRequest)
		return
	}

	if engineID, ok := h.sessions.EngineID(r); ok {
		var results []matcherRecord
		err := h.autocomplete.Binder.WithLease(engineID, func(l binder.Lease) binder.Lease {
			results = h.runMatch(l.Worker, req.String)
			l.Timer = l.Timer.Reset(h.engineTTL)
			return l
		})
		if err == nil {
			if saveErr := h.sessions.SetEngineID(w, r, engineID); saveErr != nil {
				log.Error().Err(saveErr).Msg("failed to refresh session cookie")
			}
			respond.WriteMatches(w, results)
			return
		}
		// SessionDesync (§7): the cookie names a lease the Reaper already
		// reclaimed. Fall through to the first-request path below.
	}

	worker, err := h.acquireFrom(r.Context(), h.autocomplete.Pool)
	if err != nil {
		respond.WriteServiceUnavailable(w, "autocomplete pool exhausted")
		return
	}
	results := h.runMatch(worker, req.String)

	id := uuid.New()
	timerHandle := h.autocomplete.Timer.Insert(id, h.engineTTL)
	h.autocomplete.Binder.AttachNew(id, worker, timerHandle)
	if saveErr := h.sessions.SetEngineID(w, r, id); saveErr != nil {
		log.Error().Err(saveErr).Msg("failed to write session cookie")
	}
	respond.WriteMatches(w, results)
}

// runMatch executes one match call. The scorer is purely functional
// over the dataset (§7 MatcherFailure's note that a worker remains
// usable after a failed match), so a recovered panic here yields an
// empty result without discarding the worker.
func (h *Handlers) runMatch(m *matcher.Matcher, query string) (results []matcherRecord) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("matcher failure")
			results = []matcherRecord{}
		}
	}()
	recs := m.Match(query)
	out := make([]matcherRecord, len(recs))
	for i, rec := range recs {
		out[i] = matcherRecord{String: rec.String, Data: rec.Data}
	}
	return out
}
