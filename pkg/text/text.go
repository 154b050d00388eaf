// Package text provides sources of positive example sentences.
package text

import (
	"iter"

	"github.com/vito/primal/pkg/grammar"
	"github.com/vito/primal/pkg/scl"
)

// Text is a pull-based, possibly unbounded sequence of sentences. Next
// returns false once the source is exhausted.
type Text interface {
	Next() (scl.Sentence, bool)
}

// Slice replays a fixed list of sentences.
type Slice struct {
	sentences []scl.Sentence
	pos       int
}

func NewSlice(sentences ...scl.Sentence) *Slice {
	return &Slice{sentences: sentences}
}

// Strings is NewSlice over whitespace-separated sentences.
func Strings(texts ...string) *Slice {
	sentences := make([]scl.Sentence, len(texts))
	for i, t := range texts {
		sentences[i] = scl.ParseSentence(t)
	}
	return NewSlice(sentences...)
}

func (t *Slice) Next() (scl.Sentence, bool) {
	if t.pos >= len(t.sentences) {
		return scl.Sentence{}, false
	}
	s := t.sentences[t.pos]
	t.pos++
	return s, true
}

// Remaining returns how many sentences are left.
func (t *Slice) Remaining() int {
	return len(t.sentences) - t.pos
}

// Seq pulls from an iterator.
type Seq struct {
	next func() (scl.Sentence, bool)
	stop func()
}

// FromSeq adapts seq. Close must be called to release it.
func FromSeq(seq iter.Seq[scl.Sentence]) *Seq {
	next, stop := iter.Pull(seq)
	return &Seq{next: next, stop: stop}
}

// FromGrammar enumerates the derivations of g up to depth, in the
// grammar's fixed expansion order.
func FromGrammar(g *grammar.Grammar, depth int) *Seq {
	return FromSeq(g.Generate(depth))
}

func (t *Seq) Next() (scl.Sentence, bool) {
	return t.next()
}

// Close stops the underlying iterator.
func (t *Seq) Close() {
	t.stop()
}

// Skip discards up to n sentences from t and returns how many it discarded.
func Skip(t Text, n int) int {
	skipped := 0
	for skipped < n {
		if _, ok := t.Next(); !ok {
			break
		}
		skipped++
	}
	return skipped
}
