//go:build ignore

// Package main generates a synthetic corpus with planted letter sequences
// for benchmarking.
// Usage: go run scripts/generate-corpus.go -letters 300000 -plant TORAH:50 -output testdata/bench.txt
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	letters   = flag.Int("letters", 300000, "Number of letters to generate")
	alphabet  = flag.String("alphabet", "latin", "Alphabet: latin, greek, hebrew")
	lineWidth = flag.Int("width", 72, "Letters per output line")
	output    = flag.String("output", "testdata/bench.txt", "Output file")
	seed      = flag.Int64("seed", 42, "Random seed for reproducibility")
	plants    plantList
)

var alphabets = map[string][]rune{
	"latin":  []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ"),
	"greek":  []rune("ΑΒΓΔΕΖΗΘΙΚΛΜΝΞΟΠΡΣΤΥΦΧΨΩ"),
	"hebrew": []rune("אבגדהוזחטיכלמנסעפצקרשת"),
}

// plant is a term written into the corpus at a fixed skip.
type plant struct {
	term string
	skip int
}

type plantList []plant

func (p *plantList) String() string {
	parts := make([]string, 0, len(*p))
	for _, pl := range *p {
		parts = append(parts, fmt.Sprintf("%s:%d", pl.term, pl.skip))
	}
	return strings.Join(parts, ",")
}

func (p *plantList) Set(v string) error {
	term, skipStr, ok := strings.Cut(v, ":")
	if !ok || term == "" {
		return fmt.Errorf("want TERM:SKIP, got %q", v)
	}
	skip, err := strconv.Atoi(skipStr)
	if err != nil || skip < 1 {
		return fmt.Errorf("invalid skip in %q", v)
	}
	*p = append(*p, plant{term: term, skip: skip})
	return nil
}

func main() {
	flag.Var(&plants, "plant", "Term to plant as TERM:SKIP (repeatable)")
	flag.Parse()

	letterSet, ok := alphabets[*alphabet]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown alphabet %q\n", *alphabet)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))
	text := make([]rune, *letters)
	for i := range text {
		text[i] = letterSet[rng.Intn(len(letterSet))]
	}

	for _, pl := range plants {
		term := []rune(pl.term)
		span := (len(term)-1)*pl.skip + 1
		if span > len(text) {
			fmt.Fprintf(os.Stderr, "term %s at skip %d does not fit\n", pl.term, pl.skip)
			os.Exit(1)
		}
		start := rng.Intn(len(text) - span + 1)
		for i, r := range term {
			text[start+i*pl.skip] = r
		}
		fmt.Printf("planted %s at %d skipping every %d letter(s)\n", pl.term, start+1, pl.skip)
	}

	if err := os.MkdirAll(filepath.Dir(*output), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	var sb strings.Builder
	for i := 0; i < len(text); i += *lineWidth {
		end := min(i+*lineWidth, len(text))
		sb.WriteString(string(text[i:end]))
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(*output, []byte(sb.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write corpus: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d letters to %s\n", len(text), *output)
}
