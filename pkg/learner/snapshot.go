package learner

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vito/primal/pkg/grammar"
	"github.com/vito/primal/pkg/oracle"
	"github.com/vito/primal/pkg/scl"
	"github.com/vito/primal/pkg/text"
)

// SnapshotVersion is bumped whenever the Snapshot layout changes.
const SnapshotVersion = 1

// Snapshot is the serializable state of a Learner. The text, the oracle
// and the options are not part of it.
type Snapshot struct {
	Version     int                  `json:"version"`
	Session     uuid.UUID            `json:"session"`
	K           int                  `json:"k"`
	Data        scl.SentenceSet      `json:"data"`
	Substrings  scl.SentenceSet      `json:"substrings"`
	Contexts    scl.ContextSet       `json:"contexts"`
	Terminals   []string             `json:"terminals"`
	Kernels     []Kernel             `json:"kernels"`
	NextName    grammar.Nonterminal  `json:"next_name"`
	Productions []grammar.Production `json:"productions"`
	Pending     *scl.Sentence        `json:"pending,omitempty"`

	// Consumed counts the sentences pulled from the text. A resumed session
	// skips that many before advancing.
	Consumed int `json:"consumed"`
}

// Snapshot captures the current state.
func (l *Learner) Snapshot() Snapshot {
	var pending *scl.Sentence
	if l.pending != nil {
		p := *l.pending
		pending = &p
	}
	return Snapshot{
		Version:     SnapshotVersion,
		Session:     l.session,
		K:           l.k,
		Data:        l.data.Clone(),
		Substrings:  l.substrings.Clone(),
		Contexts:    l.contexts.Clone(),
		Terminals:   l.Terminals(),
		Kernels:     l.Kernels(),
		NextName:    l.registry.next,
		Productions: l.guess.Productions(),
		Pending:     pending,
		Consumed:    l.consumed,
	}
}

// Restore rebuilds a Learner from a snapshot, continuing on the given text
// and oracle. The snapshot is checked for internal consistency first.
func Restore(snap Snapshot, t text.Text, o oracle.Oracle, opts ...Option) (*Learner, error) {
	if snap.Version != SnapshotVersion {
		return nil, errors.Errorf("unsupported snapshot version %d", snap.Version)
	}
	if snap.K < 0 {
		return nil, errors.Errorf("negative k %d", snap.K)
	}
	if snap.Consumed < 0 {
		return nil, errors.Errorf("negative consumed count %d", snap.Consumed)
	}

	reg := newRegistry()
	names := map[grammar.Nonterminal]bool{}
	for _, k := range snap.Kernels {
		if k.Set.Len() > snap.K {
			return nil, errors.Errorf("kernel %s exceeds k=%d", k.Set, snap.K)
		}
		if k.Nonterminal < 0 || k.Nonterminal >= snap.NextName {
			return nil, errors.Errorf("kernel %s has nonterminal %d outside [0, %d)", k.Set, k.Nonterminal, snap.NextName)
		}
		if _, dup := reg.byKey[k.Set.Key()]; dup {
			return nil, errors.Errorf("duplicate kernel %s", k.Set)
		}
		if names[k.Nonterminal] {
			return nil, errors.Errorf("nonterminal %d bound twice", k.Nonterminal)
		}
		names[k.Nonterminal] = true
		reg.byKey[k.Set.Key()] = k
	}
	reg.next = snap.NextName

	expected := 0
	if snap.Data.Len() > 0 {
		for _, set := range Kernels(snap.Substrings, snap.K) {
			if _, ok := reg.byKey[set.Key()]; !ok {
				return nil, errors.Errorf("kernel %s is not registered", set)
			}
			expected++
		}
	}
	if expected != len(reg.byKey) {
		return nil, errors.Errorf("registry holds %d kernels, expected %d", len(reg.byKey), expected)
	}

	for _, p := range snap.Productions {
		var ok bool
		switch p.Kind {
		case grammar.KindLexical:
			ok = names[p.LHS]
		case grammar.KindBinary:
			ok = names[p.LHS] && names[p.Left] && names[p.Right]
		case grammar.KindStart:
			ok = p.LHS == grammar.Start && names[p.Left]
		}
		if !ok {
			return nil, errors.Errorf("production %s refers to an unknown nonterminal", p)
		}
	}

	l := New(t, o, snap.K, opts...)
	if snap.Session != uuid.Nil {
		l.session = snap.Session
	}
	l.data = snap.Data.Clone()
	l.substrings = snap.Substrings.Clone()
	l.contexts = snap.Contexts.Clone()
	for _, term := range snap.Terminals {
		l.terminals[term] = struct{}{}
	}
	l.registry = reg
	l.guess = grammar.New(snap.Productions)
	if snap.Pending != nil {
		p := *snap.Pending
		l.pending = &p
	}
	l.consumed = snap.Consumed
	return l, nil
}
