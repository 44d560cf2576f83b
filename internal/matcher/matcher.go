// Package matcher implements the single-threaded, stateful fuzzy-match
// worker (C2): it owns one scorer instance per dictionary, tracks the
// previous query for incremental reparsing, and returns the tick-to-
// completion top-k contract described in §4.2.
package matcher

import "github.com/royludo/fuzzytaxosearch/internal/model"

const (
	// maxResults bounds every Match call's result slice (§4.2.3, P3).
	maxResults = 10
	// tickChunk is the bounded unit of work one scorer tick performs
	// (§4.2.3's "bounded time-slice").
	tickChunk = 256
)

// Matcher is NOT safe for concurrent use: it is leased exclusively to one
// caller at a time by the WorkerPool / SessionBinder (§3).
type Matcher struct {
	texts   []string       // folded dictionary strings, indexed like records
	records []model.Record // records returned on match, same indexing as texts

	prevPattern string
	activeSet   []int // candidate indices that matched on the last call
}

// New builds a Matcher over the given dictionary, folding every entry's
// display string to ASCII at injection time (§4.2.1, §4.2).
func New(records []model.Record) *Matcher {
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = foldKey(r.String)
	}
	return &Matcher{texts: texts, records: records}
}

// Match runs the fuzzy scorer to completion for query and returns up to 10
// best-first records (§4.2.3). Empty queries are rejected by the handler
// layer before reaching here (§4.2.4); Match does not special-case them:
// an empty pattern matches every entry with score 0, so up to 10 records
// are returned.
func (m *Matcher) Match(query string) []model.Record {
	pattern := foldKey(query)

	universe := m.universeFor(pattern)
	k := maxResults
	if k > len(universe) {
		k = len(universe)
	}

	scan := newTopKScan(universe, m.texts, pattern, k)
	for scan.step(tickChunk) {
		// run to completion; each step is one bounded tick
	}

	ranked := scan.ranked()
	results := make([]model.Record, len(ranked))
	for i, idx := range ranked {
		results[i] = m.records[idx]
	}

	m.activeSet = scan.activeSet
	m.prevPattern = pattern
	return results
}

// universeFor decides whether this call is an extension of the previous
// query (§4.2.2) and picks the candidate indices to rescore accordingly.
func (m *Matcher) universeFor(pattern string) []int {
	if m.isExtension(pattern) && m.activeSet != nil {
		return m.activeSet
	}
	full := make([]int, len(m.texts))
	for i := range full {
		full[i] = i
	}
	return full
}

// isExtension reports whether pattern equals prevPattern with exactly one
// trailing character appended (§4.2.2).
func (m *Matcher) isExtension(pattern string) bool {
	return len(m.prevPattern) > 1 &&
		len(pattern) == len(m.prevPattern)+1 &&
		pattern[:len(pattern)-1] == m.prevPattern
}
