// Package oracle defines the membership oracle the learner queries and the
// distributional restrictions computed from it.
package oracle

import (
	"log/slog"

	"github.com/vito/primal/pkg/grammar"
	"github.com/vito/primal/pkg/scl"
)

// Oracle decides membership in the target language. Generates must be
// total and deterministic; anything that cannot be decided is false.
type Oracle interface {
	Generates(s scl.Sentence) bool
}

// Func adapts a function to Oracle.
type Func func(s scl.Sentence) bool

func (f Func) Generates(s scl.Sentence) bool {
	return f(s)
}

// Set is the oracle of a finite language.
type Set struct {
	members scl.SentenceSet
}

// NewSet returns an oracle accepting exactly the given sentences.
func NewSet(members ...scl.Sentence) *Set {
	return &Set{members: scl.NewSentenceSet(members...)}
}

func (o *Set) Generates(s scl.Sentence) bool {
	return o.members.Contains(s)
}

// Grammar answers queries by recognizing against a grammar.
type Grammar struct {
	g *grammar.Grammar
}

// NewGrammar returns a grammar-backed oracle. It is safe for concurrent
// use since the grammar is immutable.
func NewGrammar(g *grammar.Grammar) *Grammar {
	return &Grammar{g: g}
}

// Generates recognizes s against the grammar. A recognizer panic counts as
// rejection and is logged through the default slog logger, since queries
// carry no context to take a logger from.
func (o *Grammar) Generates(s scl.Sentence) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("recognizer failed", "sentence", s.String(), "panic", r)
			ok = false
		}
	}()
	return o.g.Recognize(s)
}

// Target returns the grammar behind the oracle.
func (o *Grammar) Target() *grammar.Grammar {
	return o.g
}
