package sequence

import (
	"slices"

	"golang.org/x/sync/errgroup"
)

// scanner holds the state of one search: the claimed-index set and the hits
// it produced. Only the goroutine running Search touches it; skip workers
// write to their own buffers.
type scanner struct {
	text     []rune
	terms    [][]rune
	limit    int
	fromSkip int
	toSkip   int
	workers  int

	claimed    map[int]struct{}
	hits       []Hit
	candidates int

	buffers [][]Hit
}

func newScanner(text []rune, terms []string, fromSkip, toSkip, workers int) *scanner {
	s := &scanner{
		text:     text,
		fromSkip: fromSkip,
		toSkip:   toSkip,
		workers:  workers,
		claimed:  make(map[int]struct{}),
		buffers:  make([][]Hit, toSkip-fromSkip),
	}
	sorted := slices.Clone(terms)
	slices.Sort(sorted)
	for _, t := range sorted {
		r := []rune(t)
		s.terms = append(s.terms, r)
		s.limit = max(s.limit, len(r))
	}
	return s
}

func (s *scanner) claimedCount() int {
	return len(s.claimed)
}

// scanPosition fans out over every skip for one position, waits for all
// workers, then claims their candidates in rank order.
func (s *scanner) scanPosition(pos int) {
	remaining := len(s.text) - 1 - pos

	var g errgroup.Group
	if s.workers > 0 {
		g.SetLimit(s.workers)
	}

	for skip := s.fromSkip; skip < s.toSkip; skip++ {
		slot := skip - s.fromSkip
		s.buffers[slot] = s.buffers[slot][:0]
		if reachable(remaining, skip) < s.limit {
			continue
		}
		g.Go(func() error {
			s.buffers[slot] = s.scanSkip(pos, skip, s.buffers[slot])
			return nil
		})
	}
	_ = g.Wait()

	var merged []Hit
	for _, buf := range s.buffers {
		merged = append(merged, buf...)
	}
	if len(merged) == 0 {
		return
	}
	s.candidates += len(merged)

	slices.SortFunc(merged, rankCandidates)
	for _, h := range merged {
		if _, taken := s.claimed[h.Index]; taken {
			continue
		}
		s.claimed[h.Index] = struct{}{}
		s.hits = append(s.hits, h)
	}
}

// scanSkip decimates the text from pos by skip and appends every overlapping
// occurrence of every term to buf.
func (s *scanner) scanSkip(pos, skip int, buf []Hit) []Hit {
	seq := decimate(s.text, pos, skip)
	for _, term := range s.terms {
		for _, o := range indicesOf(seq, term) {
			buf = append(buf, Hit{
				Term:  string(term),
				Index: o*skip + pos,
				Start: pos,
				Skip:  skip,
			})
		}
	}
	return buf
}

// reachable is ceil(remaining/skip), the prefilter length a (position, skip)
// pair must reach before it is scanned. It counts the letters after pos, not
// pos itself, so a run of exactly limit letters is not scanned.
func reachable(remaining, skip int) int {
	return (remaining + skip - 1) / skip
}

// decimatedLen is the number of letters read from a position with the given
// number of letters after it.
func decimatedLen(remaining, skip int) int {
	return remaining/skip + 1
}

// decimate returns every skip-th letter of text starting at pos.
func decimate(text []rune, pos, skip int) []rune {
	out := make([]rune, 0, decimatedLen(len(text)-1-pos, skip))
	for i := pos; i < len(text); i += skip {
		out = append(out, text[i])
	}
	return out
}

// indicesOf returns every offset where term occurs in seq, overlaps included.
func indicesOf(seq, term []rune) []int {
	if len(term) == 0 || len(term) > len(seq) {
		return nil
	}
	var out []int
	last := len(seq) - len(term)
	for i := 0; i <= last; i++ {
		if seq[i] != term[0] {
			continue
		}
		if slices.Equal(seq[i:i+len(term)], term) {
			out = append(out, i)
		}
	}
	return out
}
