package learner

import (
	"github.com/vito/primal/pkg/grammar"
	"github.com/vito/primal/pkg/scl"
)

// Kernel is a bounded set of sentences bound to the nonterminal it
// generates.
type Kernel struct {
	Set         scl.SentenceSet     `json:"kernel"`
	Nonterminal grammar.Nonterminal `json:"nonterminal"`
}

// Kernels returns every subset of substrings with 0 to k elements,
// ordered by size and then by combination order over the sorted
// substrings.
func Kernels(substrings scl.SentenceSet, k int) []scl.SentenceSet {
	pool := substrings.Sorted()
	var result []scl.SentenceSet
	chosen := make([]scl.Sentence, 0, k)

	var choose func(start, size int)
	choose = func(start, size int) {
		if len(chosen) == size {
			result = append(result, scl.NewSentenceSet(chosen...))
			return
		}
		// leave room for the elements still to be chosen
		for i := start; i <= len(pool)-(size-len(chosen)); i++ {
			chosen = append(chosen, pool[i])
			choose(i+1, size)
			chosen = chosen[:len(chosen)-1]
		}
	}
	for size := 0; size <= k && size <= len(pool); size++ {
		choose(0, size)
	}
	return result
}

// registry binds kernels to nonterminals for the lifetime of a session.
type registry struct {
	byKey map[string]Kernel
	next  grammar.Nonterminal
}

func newRegistry() *registry {
	return &registry{byKey: map[string]Kernel{}}
}

// assign resolves the nonterminal of every kernel. Kernels seen before
// keep their nonterminal; unseen ones are numbered from the counter in
// order. Nothing is recorded until commit.
func (r *registry) assign(sets []scl.SentenceSet) (all []Kernel, fresh []Kernel, next grammar.Nonterminal) {
	next = r.next
	all = make([]Kernel, len(sets))
	for i, set := range sets {
		if known, ok := r.byKey[set.Key()]; ok {
			all[i] = known
			continue
		}
		all[i] = Kernel{Set: set, Nonterminal: next}
		fresh = append(fresh, all[i])
		next++
	}
	return all, fresh, next
}

func (r *registry) commit(fresh []Kernel, next grammar.Nonterminal) {
	for _, k := range fresh {
		r.byKey[k.Set.Key()] = k
	}
	r.next = next
}

func (r *registry) lookup(set scl.SentenceSet) (grammar.Nonterminal, bool) {
	k, ok := r.byKey[set.Key()]
	return k.Nonterminal, ok
}
