package oracle

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/vito/primal/pkg/grammar"
	"github.com/vito/primal/pkg/scl"
)

func s(text string) scl.Sentence {
	return scl.ParseSentence(text)
}

// aPlus accepts one or more a's.
var aPlus = Func(func(x scl.Sentence) bool {
	if x.Len() == 0 {
		return false
	}
	for _, w := range x.Words() {
		if w != "a" {
			return false
		}
	}
	return true
})

func TestGrammarOracle(t *testing.T) {
	g := grammar.MustParse("S", "S -> A", "A -> 'a' | A A")
	o := NewGrammar(g)
	require.True(t, o.Generates(s("a")))
	require.True(t, o.Generates(s("a a a")))
	require.False(t, o.Generates(scl.NewSentence()))
	require.False(t, o.Generates(s("a b")))
	require.Same(t, g, o.Target())
}

func TestSetOracle(t *testing.T) {
	o := NewSet(s("x"), s("x y"))
	require.True(t, o.Generates(s("x y")))
	require.False(t, o.Generates(s("y")))
}

func TestConsistentContexts(t *testing.T) {
	empty := scl.NewSentence()
	contexts := scl.NewContextSet(
		scl.NewContext(empty, empty),
		scl.NewContext(s("a"), empty),
		scl.NewContext(empty, s("b")),
		scl.NewContext(s("b"), empty),
	)

	// every kernel member must be wrapped into the language
	got := ConsistentContexts(aPlus, scl.NewSentenceSet(s("a"), s("a a")), contexts)
	require.True(t, got.Equal(scl.NewContextSet(
		scl.NewContext(empty, empty),
		scl.NewContext(s("a"), empty),
	)))

	// the empty sentence only survives non-empty contexts
	got = ConsistentContexts(aPlus, scl.NewSentenceSet(empty), contexts)
	require.True(t, got.Equal(scl.NewContextSet(scl.NewContext(s("a"), empty))))

	// vacuous for the empty kernel
	got = ConsistentContexts(aPlus, scl.NewSentenceSet(), contexts)
	require.True(t, got.Equal(contexts))
}

func TestConsistentSentences(t *testing.T) {
	empty := scl.NewSentence()
	contexts := scl.NewContextSet(
		scl.NewContext(s("a"), empty),
		scl.NewContext(empty, s("a")),
	)
	sentences := scl.NewSentenceSet(empty, s("a"), s("b"), s("a a"))

	got := ConsistentSentences(aPlus, contexts, sentences)
	require.True(t, got.Equal(scl.NewSentenceSet(empty, s("a"), s("a a"))))

	got = ConsistentSentences(aPlus, scl.NewContextSet(), sentences)
	require.True(t, got.Equal(sentences))
}

func TestRestrictionCallBounds(t *testing.T) {
	kernel := scl.NewSentenceSet(s("a"), s("a a"), s("a a a"))
	var contexts scl.ContextSet
	for i := 0; i < 5; i++ {
		contexts.Add(scl.NewContext(scl.ParseSentence(strings.Repeat("a ", i)), scl.NewSentence()))
	}

	c := NewCounter(aPlus, nil)
	ConsistentContexts(c, kernel, contexts)
	require.LessOrEqual(t, c.Calls(), int64(kernel.Len()*contexts.Len()))

	c = NewCounter(aPlus, nil)
	ConsistentSentences(c, contexts, kernel)
	require.LessOrEqual(t, c.Calls(), int64(kernel.Len()*contexts.Len()))
}

func TestCounterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	c := NewCounter(aPlus, metrics)

	c.Generates(s("a"))
	c.Generates(s("a a"))
	c.Generates(s("b"))

	require.Equal(t, int64(3), c.Calls())
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.Queries.WithLabelValues("true")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Queries.WithLabelValues("false")))
}

func TestCounterConcurrent(t *testing.T) {
	c := NewCounter(aPlus, nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Generates(s("a"))
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int64(800), c.Calls())
}

func TestCache(t *testing.T) {
	metrics := NewMetrics(nil)
	inner := NewCounter(aPlus, nil)
	cache, err := NewCache(inner, 2, metrics)
	require.NoError(t, err)

	require.True(t, cache.Generates(s("a")))
	require.True(t, cache.Generates(s("a")))
	require.False(t, cache.Generates(s("b")))
	require.Equal(t, int64(2), inner.Calls())
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheHits))

	// evicts the least recently used answer
	cache.Generates(s("a a"))
	require.Equal(t, 2, cache.Len())
	cache.Generates(s("a"))
	require.Equal(t, int64(4), inner.Calls())

	_, err = NewCache(aPlus, 0, nil)
	require.Error(t, err)
}

func TestGrammarOracleRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	o := NewGrammar(nil)
	require.False(t, o.Generates(s("a")))
	require.Contains(t, buf.String(), `msg="recognizer failed" sentence=a`)
}
