package learner

import (
	"github.com/vito/primal/pkg/oracle"
	"github.com/vito/primal/pkg/scl"
)

// ExtractContexts returns Context(words[0:i], words[j:n]) for every
// 0 <= i <= j <= n, which is (n+1)(n+2)/2 contexts, duplicates included.
func ExtractContexts(s scl.Sentence) []scl.Context {
	n := s.Len()
	result := make([]scl.Context, 0, (n+1)*(n+2)/2)
	for i := 0; i <= n; i++ {
		left := s.Slice(0, i)
		for j := i; j <= n; j++ {
			result = append(result, scl.NewContext(left, s.Slice(j, n)))
		}
	}
	return result
}

// ExtractSubstrings returns words[i:j] for every 0 <= i <= j <= n,
// duplicates included.
func ExtractSubstrings(s scl.Sentence) []scl.Sentence {
	n := s.Len()
	result := make([]scl.Sentence, 0, (n+1)*(n+2)/2)
	for i := 0; i <= n; i++ {
		for j := i; j <= n; j++ {
			result = append(result, s.Slice(i, j))
		}
	}
	return result
}

// Gate decides whether a newly observed sentence contributes its
// substrings.
type Gate func(o oracle.Oracle, s scl.Sentence) bool

// RejectedByOracle is the default gate: substrings are extracted only when
// the oracle rejects the whole sentence. With a text drawn from the
// oracle's own language it never fires, and substrings stays empty.
func RejectedByOracle(o oracle.Oracle, s scl.Sentence) bool {
	return !o.Generates(s)
}

// AlwaysExtract extracts substrings from every new sentence.
func AlwaysExtract(oracle.Oracle, scl.Sentence) bool {
	return true
}
