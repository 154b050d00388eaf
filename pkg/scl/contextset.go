package scl

import (
	"encoding/json"
	"iter"
	"strings"
)

// ContextSet is a set of Contexts. The zero value is an empty set.
type ContextSet struct {
	items items[Context]
}

// NewContextSet creates a set holding the given contexts.
func NewContextSet(contexts ...Context) ContextSet {
	set := ContextSet{items: make(items[Context], len(contexts))}
	for _, c := range contexts {
		set.items[c] = struct{}{}
	}
	return set
}

// Len returns the number of contexts.
func (s ContextSet) Len() int {
	return len(s.items)
}

// Contains reports whether c is in the set.
func (s ContextSet) Contains(c Context) bool {
	_, ok := s.items[c]
	return ok
}

// Add inserts a context, reporting whether it was new.
func (s *ContextSet) Add(c Context) bool {
	if s.items == nil {
		s.items = make(items[Context])
	}
	if _, ok := s.items[c]; ok {
		return false
	}
	s.items[c] = struct{}{}
	return true
}

// Update adds every context of other to s.
func (s *ContextSet) Update(other ContextSet) {
	for x := range other.items {
		s.Add(x)
	}
}

// Clone returns an independent copy.
func (s ContextSet) Clone() ContextSet {
	return ContextSet{items: s.items.clone()}
}

// Union returns the contexts in s or any of others.
func (s ContextSet) Union(others ...ContextSet) ContextSet {
	return ContextSet{items: union(append([]items[Context]{s.items}, contextItems(others)...)...)}
}

// Intersection returns the contexts in s and every one of others.
func (s ContextSet) Intersection(others ...ContextSet) ContextSet {
	return ContextSet{items: intersection(s.items, contextItems(others)...)}
}

// Difference returns the contexts in s but in none of others.
func (s ContextSet) Difference(others ...ContextSet) ContextSet {
	return ContextSet{items: difference(s.items, contextItems(others)...)}
}

func contextItems(sets []ContextSet) []items[Context] {
	result := make([]items[Context], len(sets))
	for i, set := range sets {
		result[i] = set.items
	}
	return result
}

// IsSubset reports whether every context of s is in other.
func (s ContextSet) IsSubset(other ContextSet) bool {
	return s.items.subsetOf(other.items)
}

// Equal reports whether both sets hold the same contexts.
func (s ContextSet) Equal(other ContextSet) bool {
	return s.items.equal(other.items)
}

// Key is a canonical, order-independent encoding of the set.
func (s ContextSet) Key() string {
	return canonicalKey(s.items, Context.canonical)
}

// Hash is an order-independent hash of the set.
func (s ContextSet) Hash() uint64 {
	return commutativeHash(s.items, Context.canonical)
}

// Wrap returns {c.Wrap(sentence) | c in s}.
func (s ContextSet) Wrap(sentence Sentence) SentenceSet {
	result := SentenceSet{items: make(items[Sentence], len(s.items))}
	for c := range s.items {
		result.items[c.Wrap(sentence)] = struct{}{}
	}
	return result
}

// WrapSet returns the union of Wrap over every sentence of set.
func (s ContextSet) WrapSet(set SentenceSet) SentenceSet {
	result := SentenceSet{items: make(items[Sentence], len(s.items)*set.Len())}
	for c := range s.items {
		for x := range set.items {
			result.items[c.Wrap(x)] = struct{}{}
		}
	}
	return result
}

// Sorted returns the contexts in Compare order.
func (s ContextSet) Sorted() []Context {
	return s.items.sorted(Context.Compare)
}

// All iterates the contexts in no particular order.
func (s ContextSet) All() iter.Seq[Context] {
	return func(yield func(Context) bool) {
		for x := range s.items {
			if !yield(x) {
				return
			}
		}
	}
}

// String renders the set in Compare order.
func (s ContextSet) String() string {
	sorted := s.Sorted()
	parts := make([]string, len(sorted))
	for i, c := range sorted {
		parts[i] = c.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// MarshalJSON encodes the set as an array in Compare order.
func (s ContextSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array, dropping duplicates.
func (s *ContextSet) UnmarshalJSON(data []byte) error {
	var contexts []Context
	if err := json.Unmarshal(data, &contexts); err != nil {
		return err
	}
	*s = NewContextSet(contexts...)
	return nil
}
