package learner

import (
	"context"

	"github.com/vito/primal/pkg/grammar"
	"github.com/vito/primal/pkg/oracle"
	"github.com/vito/primal/pkg/scl"
	"golang.org/x/sync/errgroup"
)

// pair is one ordered kernel pair with its concatenation set.
type pair struct {
	left, right grammar.Nonterminal
	sentences   []scl.Sentence
}

// inducer holds the read-only inputs of one rule induction pass. It is
// shared by all workers.
type inducer struct {
	oracle    oracle.Oracle
	contexts  scl.ContextSet
	terminals []scl.Sentence
	pairs     []pair
}

func newInducer(o oracle.Oracle, kernels []Kernel, contexts scl.ContextSet, terminals []string) *inducer {
	words := make([]scl.Sentence, len(terminals))
	for i, t := range terminals {
		words[i] = scl.NewSentence(t)
	}
	// every ordered pair, including those whose concatenation is empty
	pairs := make([]pair, 0, len(kernels)*len(kernels))
	for _, k1 := range kernels {
		for _, k2 := range kernels {
			pairs = append(pairs, pair{
				left:      k1.Nonterminal,
				right:     k2.Nonterminal,
				sentences: k1.Set.Concat(k2.Set).Sorted(),
			})
		}
	}
	return &inducer{
		oracle:    o,
		contexts:  contexts,
		terminals: words,
		pairs:     pairs,
	}
}

// run induces the rules of every kernel. With more than one worker the
// kernels are spread over an errgroup; each writes its own slot, so the
// merged set does not depend on scheduling.
func (ic *inducer) run(ctx context.Context, kernels []Kernel, workers int) ([]grammar.Production, error) {
	results := make([][]grammar.Production, len(kernels))
	if workers <= 1 {
		for i, k := range kernels {
			rules, err := ic.kernel(ctx, k)
			if err != nil {
				return nil, err
			}
			results[i] = rules
		}
	} else {
		eg, gctx := errgroup.WithContext(ctx)
		eg.SetLimit(workers)
		for i, k := range kernels {
			eg.Go(func() error {
				rules, err := ic.kernel(gctx, k)
				results[i] = rules
				return err
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	var productions []grammar.Production
	for _, rules := range results {
		productions = append(productions, rules...)
	}
	return productions, nil
}

// kernel induces the lexical, binary and start rules of one kernel.
func (ic *inducer) kernel(ctx context.Context, k Kernel) ([]grammar.Production, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	nt := k.Nonterminal
	contexts := oracle.ConsistentContexts(ic.oracle, k.Set, ic.contexts).Sorted()

	var rules []grammar.Production
	for _, t := range ic.terminals {
		if oracle.AcceptedByAll(ic.oracle, contexts, t) {
			rules = append(rules, grammar.Lexical(nt, t.String()))
		}
	}

	for _, p := range ic.pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ic.acceptsAll(contexts, p.sentences) {
			rules = append(rules, grammar.Binary(nt, p.left, p.right))
		}
	}

	start := true
	for s := range k.Set.All() {
		if !ic.oracle.Generates(s) {
			start = false
			break
		}
	}
	if start {
		rules = append(rules, grammar.StartRule(nt))
	}
	return rules, nil
}

func (ic *inducer) acceptsAll(contexts []scl.Context, sentences []scl.Sentence) bool {
	for _, c := range contexts {
		if !oracle.AcceptsAll(ic.oracle, c, sentences) {
			return false
		}
	}
	return true
}
