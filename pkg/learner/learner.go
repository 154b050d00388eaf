// Package learner implements the primal distributional learner for
// context-free languages with the k-finite kernel property (Yoshinaka,
// 2011).
//
// A Learner pulls positive examples from a text one at a time. Each new
// example grows the observed contexts and, when the novelty gate allows,
// the observed substrings. Every subset of at most k substrings is a
// kernel, and every kernel owns a nonterminal for the rest of the session.
// Rules are then induced from scratch by querying the oracle:
//
//	N -> t      iff every context consistent with N's kernel accepts t
//	N -> N1 N2  iff every such context accepts all of kernel(N1)+kernel(N2)
//	S -> N      iff the oracle accepts all of N's kernel
package learner

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/vito/primal/pkg/grammar"
	"github.com/vito/primal/pkg/ioctx"
	"github.com/vito/primal/pkg/oracle"
	"github.com/vito/primal/pkg/scl"
	"github.com/vito/primal/pkg/text"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/vito/primal/pkg/learner")

// Learner holds the state of one learning session. It is not safe for
// concurrent use.
type Learner struct {
	text    text.Text
	oracle  oracle.Oracle
	k       int
	gate    Gate
	workers int
	session uuid.UUID

	data       scl.SentenceSet
	substrings scl.SentenceSet
	contexts   scl.ContextSet
	terminals  map[string]struct{}
	registry   *registry

	guess    *grammar.Grammar
	pending  *scl.Sentence
	consumed int
}

// Option configures a Learner.
type Option func(*Learner)

// WithGate replaces the novelty gate deciding substring extraction.
func WithGate(gate Gate) Option {
	return func(l *Learner) {
		l.gate = gate
	}
}

// WithWorkers induces rules on up to n goroutines. The oracle must then be
// safe for concurrent use.
func WithWorkers(n int) Option {
	return func(l *Learner) {
		l.workers = n
	}
}

// New creates a learner for grammars with the k-FKP. It panics if k is
// negative.
func New(t text.Text, o oracle.Oracle, k int, opts ...Option) *Learner {
	if k < 0 {
		panic(fmt.Sprintf("learner: negative k %d", k))
	}
	l := &Learner{
		text:      t,
		oracle:    o,
		k:         k,
		gate:      RejectedByOracle,
		workers:   1,
		session:   uuid.New(),
		terminals: map[string]struct{}{},
		registry:  newRegistry(),
		guess:     grammar.Empty(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Advance consumes the next sentence of the text and returns the updated
// hypothesis. When the text is exhausted the current hypothesis is
// returned unchanged. The only errors are those of ctx; a sentence whose
// observation was cancelled is retried by the next Advance.
func (l *Learner) Advance(ctx context.Context) (*grammar.Grammar, error) {
	var s scl.Sentence
	if l.pending != nil {
		s = *l.pending
	} else {
		next, ok := l.text.Next()
		if !ok {
			return l.guess, nil
		}
		l.consumed++
		s = next
	}

	g, err := l.Observe(ctx, s)
	if err != nil {
		l.pending = &s
		return g, err
	}
	l.pending = nil
	return g, nil
}

// Observe feeds one sentence to the learner directly.
//
// All updates are staged and committed together with the new hypothesis,
// so when ctx is cancelled mid-way nothing changes and ctx.Err() is
// returned together with the previous hypothesis.
func (l *Learner) Observe(ctx context.Context, s scl.Sentence) (*grammar.Grammar, error) {
	if l.data.Contains(s) {
		return l.guess, nil
	}

	ctx, span := tracer.Start(ctx, "learner.Observe",
		trace.WithAttributes(
			attribute.String("session", l.session.String()),
			attribute.Int("sentence.length", s.Len()),
		))
	defer span.End()
	log := ioctx.LoggerFromContext(ctx)

	terminals := make(map[string]struct{}, len(l.terminals))
	for t := range l.terminals {
		terminals[t] = struct{}{}
	}
	for _, w := range s.Words() {
		terminals[w] = struct{}{}
	}

	contexts := l.contexts.Clone()
	for _, c := range ExtractContexts(s) {
		contexts.Add(c)
	}

	substrings := l.substrings
	if l.gate(l.oracle, s) {
		substrings = substrings.Clone()
		for _, sub := range ExtractSubstrings(s) {
			substrings.Add(sub)
		}
	}

	kernels, fresh, next := l.registry.assign(Kernels(substrings, l.k))
	span.AddEvent("kernels_synthesized", trace.WithAttributes(
		attribute.Int("kernels", len(kernels)),
		attribute.Int("kernels.fresh", len(fresh)),
	))
	log.Debug("observing sentence",
		"sentence", s.String(),
		"contexts", contexts.Len(),
		"substrings", substrings.Len(),
		"kernels", len(kernels),
		"fresh", len(fresh))

	ic := newInducer(l.oracle, kernels, contexts, sortedKeys(terminals))
	productions, err := ic.run(ctx, kernels, l.workers)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rule induction interrupted")
		log.Debug("observation cancelled", "sentence", s.String(), "error", err)
		return l.guess, err
	}

	l.data.Add(s)
	l.terminals = terminals
	l.contexts = contexts
	l.substrings = substrings
	l.registry.commit(fresh, next)
	l.guess = grammar.New(productions)

	span.SetAttributes(attribute.Int("productions", l.guess.Len()))
	span.SetStatus(codes.Ok, "hypothesis committed")
	log.Debug("hypothesis committed", "productions", l.guess.Len())
	return l.guess, nil
}

// Guess returns the current hypothesis.
func (l *Learner) Guess() *grammar.Grammar {
	return l.guess
}

// Consumed returns how many sentences Advance has pulled from the text,
// including a pending one.
func (l *Learner) Consumed() int {
	return l.consumed
}

// K returns the kernel size bound.
func (l *Learner) K() int {
	return l.k
}

// Session identifies the learning session across snapshots.
func (l *Learner) Session() uuid.UUID {
	return l.session
}

// Data returns a copy of the observed sentences.
func (l *Learner) Data() scl.SentenceSet {
	return l.data.Clone()
}

// Substrings returns a copy of the extracted substrings.
func (l *Learner) Substrings() scl.SentenceSet {
	return l.substrings.Clone()
}

// Contexts returns a copy of the observed contexts.
func (l *Learner) Contexts() scl.ContextSet {
	return l.contexts.Clone()
}

// Terminals returns the sorted observed alphabet.
func (l *Learner) Terminals() []string {
	return sortedKeys(l.terminals)
}

// Kernels returns every registered kernel ordered by nonterminal.
func (l *Learner) Kernels() []Kernel {
	result := make([]Kernel, 0, len(l.registry.byKey))
	for _, k := range l.registry.byKey {
		result = append(result, Kernel{Set: k.Set.Clone(), Nonterminal: k.Nonterminal})
	}
	slices.SortFunc(result, func(a, b Kernel) int {
		return int(a.Nonterminal) - int(b.Nonterminal)
	})
	return result
}

// NonterminalOf returns the nonterminal registered for a kernel.
func (l *Learner) NonterminalOf(kernel scl.SentenceSet) (grammar.Nonterminal, bool) {
	return l.registry.lookup(kernel)
}

// Stats summarizes the size of the learner state.
type Stats struct {
	Data        int
	Substrings  int
	Contexts    int
	Terminals   int
	Kernels     int
	NextName    int
	Productions int
}

func (l *Learner) Stats() Stats {
	return Stats{
		Data:        l.data.Len(),
		Substrings:  l.substrings.Len(),
		Contexts:    l.contexts.Len(),
		Terminals:   len(l.terminals),
		Kernels:     len(l.registry.byKey),
		NextName:    int(l.registry.next),
		Productions: l.guess.Len(),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	result := make([]string, 0, len(m))
	for k := range m {
		result = append(result, k)
	}
	slices.Sort(result)
	return result
}
