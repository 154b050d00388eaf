package scl

import (
	"encoding/json"
	"iter"
	"strings"
)

// SentenceSet is a set of Sentences. The zero value is an empty set.
type SentenceSet struct {
	items items[Sentence]
}

// NewSentenceSet creates a set holding the given sentences.
func NewSentenceSet(sentences ...Sentence) SentenceSet {
	set := SentenceSet{items: make(items[Sentence], len(sentences))}
	for _, s := range sentences {
		set.items[s] = struct{}{}
	}
	return set
}

// Len returns the number of sentences.
func (s SentenceSet) Len() int {
	return len(s.items)
}

// Contains reports whether sentence is in the set.
func (s SentenceSet) Contains(sentence Sentence) bool {
	_, ok := s.items[sentence]
	return ok
}

// Add inserts a sentence, reporting whether it was new.
func (s *SentenceSet) Add(sentence Sentence) bool {
	if s.items == nil {
		s.items = make(items[Sentence])
	}
	if _, ok := s.items[sentence]; ok {
		return false
	}
	s.items[sentence] = struct{}{}
	return true
}

// Update adds every sentence of other to s.
func (s *SentenceSet) Update(other SentenceSet) {
	for x := range other.items {
		s.Add(x)
	}
}

// Clone returns an independent copy.
func (s SentenceSet) Clone() SentenceSet {
	return SentenceSet{items: s.items.clone()}
}

// Union returns the sentences in s or any of others.
func (s SentenceSet) Union(others ...SentenceSet) SentenceSet {
	return SentenceSet{items: union(append([]items[Sentence]{s.items}, sentenceItems(others)...)...)}
}

// Intersection returns the sentences in s and every one of others.
func (s SentenceSet) Intersection(others ...SentenceSet) SentenceSet {
	return SentenceSet{items: intersection(s.items, sentenceItems(others)...)}
}

// Difference returns the sentences in s but in none of others.
func (s SentenceSet) Difference(others ...SentenceSet) SentenceSet {
	return SentenceSet{items: difference(s.items, sentenceItems(others)...)}
}

func sentenceItems(sets []SentenceSet) []items[Sentence] {
	result := make([]items[Sentence], len(sets))
	for i, set := range sets {
		result[i] = set.items
	}
	return result
}

// IsSubset reports whether every sentence of s is in other.
func (s SentenceSet) IsSubset(other SentenceSet) bool {
	return s.items.subsetOf(other.items)
}

// Equal reports whether both sets hold the same sentences.
func (s SentenceSet) Equal(other SentenceSet) bool {
	return s.items.equal(other.items)
}

// Key is a canonical encoding of the set: equal sets have equal keys,
// whatever order their elements were added in.
func (s SentenceSet) Key() string {
	return canonicalKey(s.items, Sentence.canonical)
}

// Hash is an order-independent hash of the set.
func (s SentenceSet) Hash() uint64 {
	return commutativeHash(s.items, Sentence.canonical)
}

// Concat returns the cross product {a + b | a in s, b in other}.
func (s SentenceSet) Concat(other SentenceSet) SentenceSet {
	result := SentenceSet{items: make(items[Sentence], len(s.items)*len(other.items))}
	for a := range s.items {
		for b := range other.items {
			result.items[a.Concat(b)] = struct{}{}
		}
	}
	return result
}

// ConcatSentence returns {a + sentence | a in s}.
func (s SentenceSet) ConcatSentence(sentence Sentence) SentenceSet {
	result := SentenceSet{items: make(items[Sentence], len(s.items))}
	for a := range s.items {
		result.items[a.Concat(sentence)] = struct{}{}
	}
	return result
}

// Sorted returns the sentences in Compare order.
func (s SentenceSet) Sorted() []Sentence {
	return s.items.sorted(Sentence.Compare)
}

// All iterates the sentences in no particular order.
func (s SentenceSet) All() iter.Seq[Sentence] {
	return func(yield func(Sentence) bool) {
		for x := range s.items {
			if !yield(x) {
				return
			}
		}
	}
}

// String renders the set in Compare order.
func (s SentenceSet) String() string {
	sorted := s.Sorted()
	parts := make([]string, len(sorted))
	for i, x := range sorted {
		parts[i] = "\"" + x.String() + "\""
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// MarshalJSON encodes the set as an array in Compare order.
func (s SentenceSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array, dropping duplicates.
func (s *SentenceSet) UnmarshalJSON(data []byte) error {
	var sentences []Sentence
	if err := json.Unmarshal(data, &sentences); err != nil {
		return err
	}
	*s = NewSentenceSet(sentences...)
	return nil
}

func (SentenceSet) operand() {}
