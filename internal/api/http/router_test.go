package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royludo/fuzzytaxosearch/internal/api/session"
	"github.com/royludo/fuzzytaxosearch/internal/dataset"
	"github.com/royludo/fuzzytaxosearch/internal/ecosystem"
	"github.com/royludo/fuzzytaxosearch/internal/matcher"
	"github.com/royludo/fuzzytaxosearch/internal/model"
)

// zooDataset reproduces §8's end-to-end scenario dataset.
func zooDataset() *dataset.Dataset {
	return dataset.New([]model.Record{
		{String: "Panthera leo", Data: json.RawMessage(`1`)},
		{String: "Panthera tigris", Data: json.RawMessage(`2`)},
		{String: "Café noir", Data: json.RawMessage(`3`)},
	})
}

type testServer struct {
	router         http.Handler
	autocomplete   *ecosystem.Ecosystem
	generalPurpose *ecosystem.Ecosystem
}

func newTestServer(t *testing.T, engineTTL time.Duration) *testServer {
	t.Helper()
	ds := zooDataset()
	factory := func() *matcher.Matcher { return matcher.New(ds.Records()) }

	autocomplete := ecosystem.New(4, 1, factory)
	gp := ecosystem.New(4, 1, factory)
	t.Cleanup(func() {
		autocomplete.Close()
		gp.Close()
	})

	sessions := session.New([]byte("0123456789abcdef0123456789abcdef"), 10, false)
	h := New(ds, autocomplete, gp, sessions, engineTTL, 0)

	return &testServer{router: NewRouter(h), autocomplete: autocomplete, generalPurpose: gp}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, cookies []*http.Cookie) (*httptest.ResponseRecorder, []*http.Cookie) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr, rr.Result().Cookies()
}

// scenario 1
func TestExactMatchScenario(t *testing.T) {
	s := newTestServer(t, time.Hour)
	rr, _ := s.do(t, "POST", "/exact_match", map[string]interface{}{
		"strings": []string{"Panthera leo", "missing"},
	}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Matches []*matcherRecord `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Matches, 2)
	assert.Equal(t, "Panthera leo", body.Matches[0].String)
	assert.Nil(t, body.Matches[1])
}

// scenarios 2 and 3: new session, then reused cookie keeps the same
// leased worker (pool in_use stays 1).
func TestAutocompleteSessionReuse(t *testing.T) {
	s := newTestServer(t, time.Hour)

	rr1, cookies := s.do(t, "POST", "/fuzzy", map[string]interface{}{"string": "Pan"}, nil)
	require.Equal(t, http.StatusOK, rr1.Code)
	require.NotEmpty(t, cookies)

	var body1 struct {
		Matches []matcherRecord `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rr1.Body.Bytes(), &body1))
	assert.GreaterOrEqual(t, len(body1.Matches), 2)
	assert.Contains(t, body1.Matches[0].String, "Panthera")
	assert.Equal(t, 1, s.autocomplete.Pool.Status().InUse)

	rr2, _ := s.do(t, "POST", "/fuzzy", map[string]interface{}{"string": "Pant"}, cookies)
	require.Equal(t, http.StatusOK, rr2.Code)
	assert.Equal(t, 1, s.autocomplete.Pool.Status().InUse, "must still be the same leased worker")
}

// scenario 4: after the lease is reaped, the same cookie is treated as a
// first request.
func TestAutocompleteReclaimedSessionTreatedAsFirstRequest(t *testing.T) {
	s := newTestServer(t, 20*time.Millisecond)

	rr1, cookies := s.do(t, "POST", "/fuzzy", map[string]interface{}{"string": "Pa"}, nil)
	require.Equal(t, http.StatusOK, rr1.Code)

	assert.Eventually(t, func() bool {
		return s.autocomplete.Pool.Status().InUse == 0
	}, time.Second, 5*time.Millisecond)

	rr2, _ := s.do(t, "POST", "/fuzzy", map[string]interface{}{"string": "Pa"}, cookies)
	assert.Equal(t, http.StatusOK, rr2.Code)
	assert.Equal(t, 1, s.autocomplete.Pool.Status().InUse)
}

// scenario 5
func TestFuzzyMatchBatchScenario(t *testing.T) {
	s := newTestServer(t, time.Hour)

	rr, _ := s.do(t, "POST", "/fuzzy_match", map[string]interface{}{
		"strings":         []string{"cafe", "Panthera l"},
		"n_first_results": 2,
	}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Matches [][]matcherRecord `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Matches, 2)

	found := false
	for _, m := range body.Matches[0] {
		if m.String == "Café noir" {
			found = true
		}
	}
	assert.True(t, found, "folded query must match the accented record")
	require.NotEmpty(t, body.Matches[1])
	assert.Equal(t, "Panthera leo", body.Matches[1][0].String)
}

// scenario 6
func TestAutocompleteEmptyQueryRejected(t *testing.T) {
	s := newTestServer(t, time.Hour)
	rr, _ := s.do(t, "POST", "/fuzzy", map[string]interface{}{"string": ""}, nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body struct {
		Matches []interface{} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Empty(t, body.Matches)
}
