// Package scl implements the value algebra the primal learner works over:
// sentences, contexts, their sets, and the wrap and concatenation operators.
package scl

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// sep joins the symbols of a sentence in its key. Symbols may not contain it.
const sep = "\x00"

// Sentence is an immutable sequence of terminal symbols. It is comparable, so
// two sentences with the same symbols are == and collide as map keys.
type Sentence struct {
	n   int
	key string
}

// NewSentence creates a Sentence from its symbols.
func NewSentence(words ...string) Sentence {
	for _, w := range words {
		if strings.Contains(w, sep) {
			panic(fmt.Sprintf("scl: symbol %q contains a NUL byte", w))
		}
	}
	return fromWords(words)
}

func fromWords(words []string) Sentence {
	return Sentence{n: len(words), key: strings.Join(words, sep)}
}

// ParseSentence splits text on whitespace.
func ParseSentence(text string) Sentence {
	return NewSentence(strings.Fields(text)...)
}

// Words returns a copy of the symbols.
func (s Sentence) Words() []string {
	if s.n == 0 {
		return nil
	}
	return strings.Split(s.key, sep)
}

// Len returns the number of symbols.
func (s Sentence) Len() int {
	return s.n
}

// Slice returns the symbols in [i, j) as a new Sentence.
func (s Sentence) Slice(i, j int) Sentence {
	return fromWords(s.Words()[i:j])
}

// Concat returns s followed by other.
func (s Sentence) Concat(other Sentence) Sentence {
	switch {
	case s.n == 0:
		return other
	case other.n == 0:
		return s
	}
	return Sentence{n: s.n + other.n, key: s.key + sep + other.key}
}

// ConcatSet returns {s + t | t in set}.
func (s Sentence) ConcatSet(set SentenceSet) SentenceSet {
	result := SentenceSet{items: make(items[Sentence], set.Len())}
	for t := range set.items {
		result.items[s.Concat(t)] = struct{}{}
	}
	return result
}

// Compare orders sentences symbol by symbol; a proper prefix sorts first.
func (s Sentence) Compare(other Sentence) int {
	a, b := s.Words(), other.Words()
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// canonical is an unambiguous encoding, also distinguishing the empty
// sentence from the sentence holding one empty symbol.
func (s Sentence) canonical() string {
	return strconv.Itoa(s.n) + ":" + s.key
}

// String joins the symbols with single spaces.
func (s Sentence) String() string {
	return strings.Join(s.Words(), " ")
}

func (s Sentence) MarshalJSON() ([]byte, error) {
	words := s.Words()
	if words == nil {
		words = []string{}
	}
	return json.Marshal(words)
}

func (s *Sentence) UnmarshalJSON(data []byte) error {
	var words []string
	if err := json.Unmarshal(data, &words); err != nil {
		return err
	}
	for _, w := range words {
		if strings.Contains(w, sep) {
			return fmt.Errorf("symbol %q contains a NUL byte", w)
		}
	}
	*s = fromWords(words)
	return nil
}

func (Sentence) operand() {}
