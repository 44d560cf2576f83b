// Package session wraps the out-of-scope session-cookie middleware
// (§1) behind the minimal EngineID/SetEngineID interface the autocomplete
// handler needs: read and write one opaque uuid under the "engine" key (§3,
// §4.7.1).
package session

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	cookieName = "fuzzytaxo_session"
	engineKey  = "engine"
)

// Store issues and reads the engine-uuid cookie. It is a thin wrapper
// over gorilla/sessions so the handler layer never touches cookie-store
// internals directly (§1's "session-cookie middleware" is out of scope;
// this is the minimal collaborator that contract implies).
type Store struct {
	store  sessions.Store
	maxAge int
	secure bool
}

// New builds a Store backed by a signed cookie store. maxAge is the
// inactivity expiry in seconds (§6 session_ttl); secure controls the
// cookie's Secure flag, left to deployment per the open question in
// §9.
func New(hashKey []byte, maxAge int, secure bool) *Store {
	cs := sessions.NewCookieStore(hashKey)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
	}
	return &Store{store: cs, maxAge: maxAge, secure: secure}
}

// EngineID returns the session's stored engine uuid, if any. ok is false
// for a brand-new session or one with a malformed/missing key — the
// handler treats both as SessionDesync (§7) and falls back to the
// first-request path.
func (s *Store) EngineID(r *http.Request) (id uuid.UUID, ok bool) {
	sess, err := s.store.Get(r, cookieName)
	if err != nil {
		return uuid.UUID{}, false
	}
	raw, present := sess.Values[engineKey]
	if !present {
		return uuid.UUID{}, false
	}
	str, isString := raw.(string)
	if !isString {
		return uuid.UUID{}, false
	}
	id, err = uuid.Parse(str)
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

// SetEngineID writes id into the session and refreshes its inactivity
// expiry to session_ttl (§4.7.1 steps 2-3).
func (s *Store) SetEngineID(w http.ResponseWriter, r *http.Request, id uuid.UUID) error {
	sess, err := s.store.Get(r, cookieName)
	if err != nil {
		// Get never fails fatally for a cookie store; a decode error just
		// yields a fresh, empty session we can still populate and save.
		sess, _ = s.store.New(r, cookieName)
	}
	sess.Values[engineKey] = id.String()
	sess.Options.MaxAge = s.maxAge
	return s.store.Save(r, w, sess)
}
