package matcher

import (
	"container/heap"
)

// scoreSubsequence scores text against pattern (both already folded and
// lowercased by foldKey) as a bounded fuzzy match: every byte of pattern
// must appear in text in order. Consecutive runs and a match at the very start
// of text are rewarded, mirroring the kind of weighting a Smith-Waterman
// style fuzzy scorer applies — the exact weights are an implementation
// detail the service's contract (§4.2.3) does not expose.
//
// Returns ok=false when pattern is not a subsequence of text at all.
func scoreSubsequence(pattern, text string) (score int, ok bool) {
	if pattern == "" {
		return 0, true
	}

	ti := 0
	run := 0
	lastMatched := -1
	for pi := 0; pi < len(pattern); pi++ {
		found := false
		for ; ti < len(text); ti++ {
			if text[ti] == pattern[pi] {
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
		if ti == 0 {
			score += 5 // start-of-string bonus
		}
		if ti == lastMatched+1 {
			run++
		} else {
			run = 1 // gap since the last matched rune: run restarts
		}
		score += run
		lastMatched = ti
		ti++
	}
	return score, true
}

// candidate is a scored item awaiting tick processing or already ranked.
type candidate struct {
	index int // position into the scorer's candidate universe
	score int
}

// resultHeap is a min-heap of candidates by score, used to keep only the
// top-k while scanning a (possibly large) candidate set in one pass.
type resultHeap []candidate

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return h[i].score < h[j].score }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// topKScan scans universe (a set of candidate indices into the scorer's item
// table) against pattern, cooperatively, a chunk per call to step, and
// returns the best-first ranked indices once exhausted. chunkSize bounds
// how much work a single tick does (§4.2.3's bounded time-slice).
type topKScan struct {
	universe  []int
	texts     []string
	pattern   string
	k         int
	cursor    int
	heap      resultHeap
	activeSet []int // indices that matched this pass, for the next extension
}

func newTopKScan(universe []int, texts []string, pattern string, k int) *topKScan {
	h := make(resultHeap, 0, k)
	heap.Init(&h)
	return &topKScan{universe: universe, texts: texts, pattern: pattern, k: k, heap: h}
}

// step processes up to chunkSize candidates and reports whether more work
// remains (the scorer's "running" status, §4.2.3).
func (s *topKScan) step(chunkSize int) (running bool) {
	end := s.cursor + chunkSize
	if end > len(s.universe) {
		end = len(s.universe)
	}
	for ; s.cursor < end; s.cursor++ {
		idx := s.universe[s.cursor]
		score, ok := scoreSubsequence(s.pattern, s.texts[idx])
		if !ok {
			continue
		}
		s.activeSet = append(s.activeSet, idx)
		if s.heap.Len() < s.k {
			heap.Push(&s.heap, candidate{index: idx, score: score})
		} else if score > s.heap[0].score {
			s.heap[0] = candidate{index: idx, score: score}
			heap.Fix(&s.heap, 0)
		}
	}
	return s.cursor < len(s.universe)
}

// ranked drains the heap into a best-first slice of candidate indices.
func (s *topKScan) ranked() []int {
	ordered := make([]candidate, len(s.heap))
	copy(ordered, s.heap)
	// heap.Pop repeatedly yields ascending order (min-heap); reverse for best-first.
	h := resultHeap(ordered)
	out := make([]int, len(ordered))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(candidate).index
	}
	return out
}
