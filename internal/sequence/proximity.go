package sequence

import "slices"

// FilterProximity keeps hits that sit next to a close neighbor.
//
// Hits are sorted descending by (Index, Skip) and walked as adjacent pairs,
// the last hit paired with itself. Both hits of a pair are kept when their
// skips or their indices differ by at most p. Only adjacent pairs are
// compared: closeness is not transitive. The result is sorted ascending.
func FilterProximity(hits []Hit, p int) []Hit {
	if len(hits) == 0 {
		return nil
	}

	desc := slices.Clone(hits)
	slices.SortStableFunc(desc, func(a, b Hit) int {
		return compareHits(b, a)
	})

	kept := make([]bool, len(desc))
	for i := range desc {
		j := i + 1
		if j == len(desc) {
			j = i
		}
		if abs(desc[i].Skip-desc[j].Skip) <= p || abs(desc[i].Index-desc[j].Index) <= p {
			kept[i] = true
			kept[j] = true
		}
	}

	out := make([]Hit, 0, len(desc))
	for i, h := range desc {
		if kept[i] {
			out = append(out, h)
		}
	}
	SortHits(out)
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
