package grammar

import (
	"iter"
	"slices"

	"github.com/vito/primal/pkg/scl"
)

type cell map[Nonterminal]struct{}

// Recognize reports whether the grammar derives exactly the given sentence.
// It runs CYK over the lexical and binary rules, then accepts when a start
// rule points at a nonterminal spanning the whole sentence. The empty
// sentence is never derived.
func (g *Grammar) Recognize(s scl.Sentence) bool {
	words := s.Words()
	n := len(words)
	if n == 0 {
		return false
	}

	// table[i][l-1] holds the nonterminals deriving words[i:i+l]
	table := make([][]cell, n)
	for i, w := range words {
		table[i] = make([]cell, n-i)
		table[i][0] = cell{}
		for _, nt := range g.lexical[w] {
			table[i][0][nt] = struct{}{}
		}
	}

	for l := 2; l <= n; l++ {
		for i := 0; i+l <= n; i++ {
			span := cell{}
			for m := 1; m < l; m++ {
				left, right := table[i][m-1], table[i+m][l-m-1]
				if len(left) == 0 || len(right) == 0 {
					continue
				}
				for b := range left {
					for c := range right {
						for _, a := range g.binary[[2]Nonterminal{b, c}] {
							span[a] = struct{}{}
						}
					}
				}
			}
			table[i][l-1] = span
		}
	}

	whole := table[0][n-1]
	if _, ok := whole[Start]; ok {
		return true
	}
	for _, nt := range g.starts {
		if _, ok := whole[nt]; ok {
			return true
		}
	}
	return false
}

type frame struct {
	nt    Nonterminal
	depth int
}

// Generate enumerates the sentences of every derivation from Start whose
// tree is at most depth levels of nonterminals deep. Productions are
// expanded in Compare order, so the sequence is deterministic. A sentence
// with several derivations is yielded once per derivation.
func (g *Grammar) Generate(depth int) iter.Seq[scl.Sentence] {
	return func(yield func(scl.Sentence) bool) {
		g.expand([]frame{{nt: Start, depth: depth}}, nil, yield)
	}
}

func (g *Grammar) expand(pending []frame, out []string, yield func(scl.Sentence) bool) bool {
	if len(pending) == 0 {
		return yield(scl.NewSentence(out...))
	}
	f, rest := pending[0], pending[1:]
	if f.depth <= 0 {
		return true
	}
	for _, p := range g.byLHS[f.nt] {
		var next []frame
		words := out
		switch p.Kind {
		case KindLexical:
			next = rest
			words = append(slices.Clip(out), p.Terminal)
		case KindBinary:
			next = append([]frame{{p.Left, f.depth - 1}, {p.Right, f.depth - 1}}, rest...)
		case KindStart:
			next = append([]frame{{p.Left, f.depth - 1}}, rest...)
		}
		if !g.expand(next, words, yield) {
			return false
		}
	}
	return true
}
