package scl

import "fmt"

// Operand is either a Sentence or a SentenceSet. It backs the dynamically
// typed operators below; the interface is sealed.
type Operand interface {
	operand()
}

// Concat concatenates two operands. Two sentences yield a Sentence; any
// combination involving a set yields a SentenceSet.
func Concat(a, b Operand) Operand {
	switch x := a.(type) {
	case Sentence:
		switch y := b.(type) {
		case Sentence:
			return x.Concat(y)
		case SentenceSet:
			return x.ConcatSet(y)
		}
	case SentenceSet:
		switch y := b.(type) {
		case Sentence:
			return x.ConcatSentence(y)
		case SentenceSet:
			return x.Concat(y)
		}
	}
	panic(fmt.Sprintf("scl: cannot concatenate %T and %T", a, b))
}

// Apply wraps c around a Sentence or, element-wise, a SentenceSet.
func (c Context) Apply(x Operand) Operand {
	switch v := x.(type) {
	case Sentence:
		return c.Wrap(v)
	case SentenceSet:
		return c.WrapSet(v)
	}
	panic(fmt.Sprintf("scl: cannot wrap a context around %T", x))
}

// Apply wraps every context of s around a Sentence or a SentenceSet.
func (s ContextSet) Apply(x Operand) SentenceSet {
	switch v := x.(type) {
	case Sentence:
		return s.Wrap(v)
	case SentenceSet:
		return s.WrapSet(v)
	}
	panic(fmt.Sprintf("scl: cannot wrap a context set around %T", x))
}
