package oracle

import "github.com/vito/primal/pkg/scl"

// ConsistentContexts returns the contexts c for which every sentence s of
// kernel satisfies o.Generates(c.Wrap(s)): the largest context set that
// treats the kernel as one distributional class. An empty kernel keeps
// every context.
func ConsistentContexts(o Oracle, kernel scl.SentenceSet, contexts scl.ContextSet) scl.ContextSet {
	sentences := kernel.Sorted()
	var result scl.ContextSet
	for _, c := range contexts.Sorted() {
		if AcceptsAll(o, c, sentences) {
			result.Add(c)
		}
	}
	return result
}

// ConsistentSentences is the dual of ConsistentContexts: the sentences
// accepted by every context.
func ConsistentSentences(o Oracle, contexts scl.ContextSet, sentences scl.SentenceSet) scl.SentenceSet {
	cs := contexts.Sorted()
	var result scl.SentenceSet
	for _, s := range sentences.Sorted() {
		if AcceptedByAll(o, cs, s) {
			result.Add(s)
		}
	}
	return result
}

// AcceptsAll reports whether c wraps every sentence into the language,
// stopping at the first rejection.
func AcceptsAll(o Oracle, c scl.Context, sentences []scl.Sentence) bool {
	for _, s := range sentences {
		if !o.Generates(c.Wrap(s)) {
			return false
		}
	}
	return true
}

// AcceptedByAll reports whether every context wraps s into the language,
// stopping at the first rejection.
func AcceptedByAll(o Oracle, contexts []scl.Context, s scl.Sentence) bool {
	for _, c := range contexts {
		if !o.Generates(c.Wrap(s)) {
			return false
		}
	}
	return true
}
