package scl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func s(text string) Sentence {
	return ParseSentence(text)
}

func TestSentenceValueSemantics(t *testing.T) {
	require.Equal(t, s("a b c"), NewSentence("a", "b", "c"))
	require.NotEqual(t, s("a b"), s("ab"))

	// the empty sentence and a sentence of one empty symbol differ
	require.NotEqual(t, NewSentence(), NewSentence(""))
	require.Equal(t, 1, NewSentence("").Len())
	require.Equal(t, []string{""}, NewSentence("").Words())
	require.Nil(t, NewSentence().Words())

	m := map[Sentence]int{s("a a"): 1}
	m[NewSentence("a", "a")]++
	require.Len(t, m, 1)
	require.Equal(t, 2, m[s("a a")])
}

func TestSentenceNULPanics(t *testing.T) {
	require.Panics(t, func() { NewSentence("a\x00b") })
}

func TestSentenceConcatAndSlice(t *testing.T) {
	ab := s("a b")
	require.Equal(t, s("a b c d"), ab.Concat(s("c d")))
	require.Equal(t, ab, ab.Concat(NewSentence()))
	require.Equal(t, ab, NewSentence().Concat(ab))
	require.Equal(t, NewSentence("", ""), NewSentence("").Concat(NewSentence("")))

	abcd := s("a b c d")
	require.Equal(t, s("b c"), abcd.Slice(1, 3))
	require.Equal(t, NewSentence(), abcd.Slice(2, 2))
	require.Equal(t, abcd, abcd.Slice(0, 4))
}

func TestSentenceCompare(t *testing.T) {
	assert.Less(t, NewSentence().Compare(s("a")), 0)
	assert.Less(t, s("a").Compare(s("a a")), 0)
	assert.Less(t, s("a b").Compare(s("b")), 0)
	assert.Greater(t, s("b").Compare(s("a z z")), 0)
	assert.Equal(t, 0, s("x y").Compare(NewSentence("x", "y")))
}

func TestSentenceJSON(t *testing.T) {
	for _, x := range []Sentence{NewSentence(), NewSentence(""), s("a b")} {
		data, err := json.Marshal(x)
		require.NoError(t, err)

		var back Sentence
		require.NoError(t, json.Unmarshal(data, &back))
		require.Equal(t, x, back)
	}

	data, err := json.Marshal(NewSentence())
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(data))
}

func TestContextWrap(t *testing.T) {
	c := NewContext(s("x"), s("y z"))
	require.Equal(t, s("x a b y z"), c.Wrap(s("a b")))
	require.Equal(t, s("x y z"), c.Wrap(NewSentence()))

	empty := NewContext(NewSentence(), NewSentence())
	require.Equal(t, s("a"), empty.Wrap(s("a")))

	require.Equal(t,
		NewSentenceSet(s("x a y z"), s("x b y z")),
		c.WrapSet(NewSentenceSet(s("a"), s("b"))))

	require.Equal(t, NewContext(s("x"), s("y z")), c)
	require.NotEqual(t, NewContext(s("x y"), s("z")), NewContext(s("x"), s("y z")))
}

func TestContextJSON(t *testing.T) {
	c := NewContext(NewSentence(), s("a b"))
	data, err := json.Marshal(c)
	require.NoError(t, err)
	require.JSONEq(t, `{"left":[],"right":["a","b"]}`, string(data))

	var back Context
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, c, back)
}

func TestSentenceSetAlgebra(t *testing.T) {
	ab := NewSentenceSet(s("a"), s("b"))
	bc := NewSentenceSet(s("b"), s("c"))

	require.True(t, ab.Union(bc).Equal(NewSentenceSet(s("a"), s("b"), s("c"))))
	require.True(t, ab.Intersection(bc).Equal(NewSentenceSet(s("b"))))
	require.True(t, ab.Difference(bc).Equal(NewSentenceSet(s("a"))))
	require.True(t, ab.Intersection(bc, NewSentenceSet(s("c"))).Equal(SentenceSet{}))

	// non-mutating
	require.Equal(t, 2, ab.Len())

	var zero SentenceSet
	require.Equal(t, 0, zero.Len())
	require.False(t, zero.Contains(s("a")))
	require.True(t, zero.Add(s("a")))
	require.False(t, zero.Add(s("a")))
	zero.Update(bc)
	require.True(t, zero.Equal(NewSentenceSet(s("a"), s("b"), s("c"))))

	require.True(t, ab.Intersection(bc).IsSubset(ab))
	require.False(t, ab.IsSubset(bc))
}

func TestSentenceSetKeyIsOrderIndependent(t *testing.T) {
	a := NewSentenceSet(s("x"), s("y z"), NewSentence())
	b := NewSentenceSet()
	b.Add(NewSentence())
	b.Add(s("y z"))
	b.Add(s("x"))
	b.Add(s("x"))

	require.True(t, a.Equal(b))
	require.Equal(t, a.Key(), b.Key())
	require.Equal(t, a.Hash(), b.Hash())

	require.NotEqual(t, NewSentenceSet().Key(), NewSentenceSet(NewSentence()).Key())
	require.NotEqual(t, NewSentenceSet(s("a b")).Key(), NewSentenceSet(s("a"), s("b")).Key())

	registry := map[string]int{a.Key(): 7}
	require.Equal(t, 7, registry[b.Key()])
}

func TestSentenceSetConcat(t *testing.T) {
	left := NewSentenceSet(s("a"), NewSentence())
	right := NewSentenceSet(s("b"), s("c"))

	require.True(t, left.Concat(right).Equal(
		NewSentenceSet(s("a b"), s("a c"), s("b"), s("c"))))

	require.Equal(t, 0, NewSentenceSet().Concat(right).Len())
	require.True(t, s("x").ConcatSet(right).Equal(NewSentenceSet(s("x b"), s("x c"))))
	require.True(t, right.ConcatSentence(s("x")).Equal(NewSentenceSet(s("b x"), s("c x"))))

	// duplicates collapse
	require.Equal(t, 1, NewSentenceSet(s("a"), NewSentence()).
		Concat(NewSentenceSet(s("a"), NewSentence())).
		Intersection(NewSentenceSet(s("a"))).Len())
}

func TestContextSetWrap(t *testing.T) {
	cs := NewContextSet(
		NewContext(NewSentence(), NewSentence()),
		NewContext(s("a"), NewSentence()),
	)
	require.True(t, cs.Wrap(s("b")).Equal(NewSentenceSet(s("b"), s("a b"))))
	require.True(t, cs.WrapSet(NewSentenceSet(s("b"), s("c"))).Equal(
		NewSentenceSet(s("b"), s("c"), s("a b"), s("a c"))))
	require.Equal(t, 0, cs.WrapSet(NewSentenceSet()).Len())
}

func TestContextSetAlgebra(t *testing.T) {
	c1 := NewContext(s("a"), NewSentence())
	c2 := NewContext(NewSentence(), s("a"))
	c3 := NewContext(s("a"), s("a"))

	x := NewContextSet(c1, c2)
	y := NewContextSet(c2, c3)
	require.True(t, x.Union(y).Equal(NewContextSet(c1, c2, c3)))
	require.True(t, x.Intersection(y).Equal(NewContextSet(c2)))
	require.True(t, x.Difference(y).Equal(NewContextSet(c1)))
	require.Equal(t, NewContextSet(c2, c1).Key(), x.Key())
	require.Equal(t, NewContextSet(c2, c1).Hash(), x.Hash())
	require.Equal(t, []Context{c2, c1}, x.Sorted())
}

func TestOperands(t *testing.T) {
	a, b := s("a"), s("b")
	set := NewSentenceSet(a, b)

	require.Equal(t, s("a b"), Concat(a, b))
	require.True(t, Concat(a, set).(SentenceSet).Equal(NewSentenceSet(s("a a"), s("a b"))))
	require.True(t, Concat(set, a).(SentenceSet).Equal(NewSentenceSet(s("a a"), s("b a"))))
	require.Equal(t, 4, Concat(set, set).(SentenceSet).Len())

	c := NewContext(s("x"), s("y"))
	require.Equal(t, s("x a y"), c.Apply(a))
	require.True(t, c.Apply(set).(SentenceSet).Equal(NewSentenceSet(s("x a y"), s("x b y"))))
	require.True(t, NewContextSet(c).Apply(a).Equal(NewSentenceSet(s("x a y"))))

	require.Panics(t, func() { Concat(a, nil) })
	require.Panics(t, func() { Concat(nil, set) })
	require.Panics(t, func() { c.Apply(nil) })
	require.Panics(t, func() { NewContextSet(c).Apply(nil) })
}

func TestSetJSON(t *testing.T) {
	set := NewSentenceSet(s("b"), s("a"), NewSentence())
	data, err := json.Marshal(set)
	require.NoError(t, err)
	require.JSONEq(t, `[[],["a"],["b"]]`, string(data))

	var back SentenceSet
	require.NoError(t, json.Unmarshal(data, &back))
	require.True(t, set.Equal(back))

	cs := NewContextSet(NewContext(s("a"), NewSentence()))
	data, err = json.Marshal(cs)
	require.NoError(t, err)

	var csBack ContextSet
	require.NoError(t, json.Unmarshal(data, &csBack))
	require.True(t, cs.Equal(csBack))
}
