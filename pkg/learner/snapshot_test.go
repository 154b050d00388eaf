package learner

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vito/primal/pkg/grammar"
	"github.com/vito/primal/pkg/scl"
	"github.com/vito/primal/pkg/text"
)

func learned(t *testing.T) *Learner {
	l := New(text.Strings("a", "a a"), aPlusOracle(), 1, WithGate(AlwaysExtract))
	learn(t, l)
	return l
}

func TestSnapshotRoundTrip(t *testing.T) {
	l := learned(t)

	payload, err := json.Marshal(l.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(payload, &snap))

	restored, err := Restore(snap, text.Strings("a a a"), aPlusOracle(), WithGate(AlwaysExtract))
	require.NoError(t, err)
	require.Equal(t, l.Session(), restored.Session())
	require.Equal(t, 2, restored.Consumed())
	require.True(t, l.Guess().Equal(restored.Guess()))

	again, err := json.Marshal(restored.Snapshot())
	require.NoError(t, err)
	require.JSONEq(t, string(payload), string(again))

	// both continue identically
	ctx := context.Background()
	g1, err := l.Observe(ctx, s("a a a"))
	require.NoError(t, err)
	g2, err := restored.Advance(ctx)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(g1.Productions(), g2.Productions()))
	require.Equal(t, l.Stats(), restored.Stats())
}

func TestSnapshotOfEmptyLearner(t *testing.T) {
	l := New(text.Strings(), aPlusOracle(), 2)
	restored, err := Restore(l.Snapshot(), text.Strings(), aPlusOracle())
	require.NoError(t, err)
	require.Equal(t, 2, restored.K())
	require.Equal(t, 0, restored.Guess().Len())
}

func TestRestoreKeepsPending(t *testing.T) {
	l := New(text.Strings("a"), aPlusOracle(), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Advance(ctx)
	require.Error(t, err)

	restored, err := Restore(l.Snapshot(), text.Strings(), aPlusOracle())
	require.NoError(t, err)
	_, err = restored.Advance(context.Background())
	require.NoError(t, err)
	require.True(t, restored.Data().Contains(s("a")))
}

func TestRestoreRejectsInconsistentSnapshots(t *testing.T) {
	for _, example := range []struct {
		name    string
		corrupt func(*Snapshot)
		message string
	}{
		{
			name:    "version",
			corrupt: func(snap *Snapshot) { snap.Version = 99 },
			message: "unsupported snapshot version 99",
		},
		{
			name:    "negative k",
			corrupt: func(snap *Snapshot) { snap.K = -1 },
			message: "negative k",
		},
		{
			name:    "negative consumed count",
			corrupt: func(snap *Snapshot) { snap.Consumed = -1 },
			message: "negative consumed count",
		},
		{
			name:    "oversized kernel",
			corrupt: func(snap *Snapshot) { snap.K = 0 },
			message: "exceeds k=0",
		},
		{
			name: "nonterminal out of range",
			corrupt: func(snap *Snapshot) {
				snap.NextName = 1
			},
			message: "outside [0, 1)",
		},
		{
			name: "missing kernel",
			corrupt: func(snap *Snapshot) {
				snap.Kernels = snap.Kernels[:len(snap.Kernels)-1]
			},
			message: "is not registered",
		},
		{
			name: "extra kernel",
			corrupt: func(snap *Snapshot) {
				snap.Kernels = append(snap.Kernels, Kernel{
					Set:         scl.NewSentenceSet(s("b")),
					Nonterminal: snap.NextName,
				})
				snap.NextName++
			},
			message: "registry holds 5 kernels, expected 4",
		},
		{
			name: "duplicate nonterminal",
			corrupt: func(snap *Snapshot) {
				snap.Kernels[1].Nonterminal = snap.Kernels[0].Nonterminal
			},
			message: "bound twice",
		},
		{
			name: "unknown production",
			corrupt: func(snap *Snapshot) {
				snap.Productions = append(snap.Productions, grammar.Binary(0, 0, 42))
			},
			message: "refers to an unknown nonterminal",
		},
	} {
		t.Run(example.name, func(t *testing.T) {
			snap := learned(t).Snapshot()
			example.corrupt(&snap)
			_, err := Restore(snap, text.Strings(), aPlusOracle())
			require.ErrorContains(t, err, example.message)
		})
	}
}
