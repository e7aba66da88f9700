// Package sequence finds equidistant letter sequences (ELS) in normalized text.
//
// An Engine owns a range of normalized letters. Search walks every starting
// position in that range in order and, for each position, fans out over the
// configured skip intervals in parallel. Each worker decimates the text (every
// skip-th letter from the position to the end of the range) and records every
// overlapping occurrence of the search terms and their reversals.
//
// Each absolute index is claimed at most once per search. Within a single
// position, ties are broken by the smaller skip and then by the
// lexicographically smaller term, so results are reproducible regardless of
// worker scheduling.
//
// After the scan, hits may be filtered by proximity (a single adjacent pass
// over hits sorted by index and skip) and are then rebased onto the grid: the
// smallest contiguous slice of the range that contains every hit's span.
package sequence
