// Package grammar holds the grammars the learner produces: productions in a
// binary normal form, recognition by CYK, and bounded enumeration of
// derivations.
package grammar

import (
	"cmp"
	"encoding"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Nonterminal identifies a nonterminal. The learner allocates them from 0
// upwards; Start is reserved.
type Nonterminal int

// Start is the distinguished start symbol.
const Start Nonterminal = -1

// Kind is the shape of a production.
type Kind uint8

const (
	// KindLexical is N -> t.
	KindLexical Kind = iota
	// KindBinary is N -> N1 N2.
	KindBinary
	// KindStart is Start -> N.
	KindStart
)

var kindNames = []string{"lexical", "binary", "start"}

var (
	_ encoding.TextMarshaler   = Kind(0)
	_ encoding.TextUnmarshaler = (*Kind)(nil)
)

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown production kind %d", k)
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	i := slices.Index(kindNames, string(text))
	if i < 0 {
		return fmt.Errorf("unknown production kind %q", text)
	}
	*k = Kind(i)
	return nil
}

// Production is a comparable rule value. Which fields are meaningful depends
// on Kind: Terminal for lexical rules, Left and Right for binary rules, Left
// alone for start rules.
type Production struct {
	Kind     Kind        `json:"kind"`
	LHS      Nonterminal `json:"lhs"`
	Terminal string      `json:"terminal,omitempty"`
	Left     Nonterminal `json:"left,omitempty"`
	Right    Nonterminal `json:"right,omitempty"`
}

// Lexical returns lhs -> terminal.
func Lexical(lhs Nonterminal, terminal string) Production {
	return Production{Kind: KindLexical, LHS: lhs, Terminal: terminal}
}

// Binary returns lhs -> left right.
func Binary(lhs, left, right Nonterminal) Production {
	return Production{Kind: KindBinary, LHS: lhs, Left: left, Right: right}
}

// StartRule returns Start -> nt.
func StartRule(nt Nonterminal) Production {
	return Production{Kind: KindStart, LHS: Start, Left: nt}
}

// Compare orders productions by LHS, kind, then right-hand side.
func (p Production) Compare(other Production) int {
	return cmp.Or(
		cmp.Compare(p.LHS, other.LHS),
		cmp.Compare(p.Kind, other.Kind),
		strings.Compare(p.Terminal, other.Terminal),
		cmp.Compare(p.Left, other.Left),
		cmp.Compare(p.Right, other.Right),
	)
}

// Format renders the production using names for nonterminals.
func (p Production) Format(name func(Nonterminal) string) string {
	switch p.Kind {
	case KindLexical:
		return fmt.Sprintf("%s -> '%s'", name(p.LHS), p.Terminal)
	case KindBinary:
		return fmt.Sprintf("%s -> %s %s", name(p.LHS), name(p.Left), name(p.Right))
	default:
		return fmt.Sprintf("%s -> %s", name(p.LHS), name(p.Left))
	}
}

func (p Production) String() string {
	return p.Format(DefaultName)
}

// DefaultName renders Start as S and everything else as N<id>.
func DefaultName(nt Nonterminal) string {
	if nt == Start {
		return "S"
	}
	return "N" + strconv.Itoa(int(nt))
}

// Grammar is an immutable production set with a start symbol.
type Grammar struct {
	productions map[Production]struct{}
	names       map[Nonterminal]string

	sorted  []Production
	byLHS   map[Nonterminal][]Production
	lexical map[string][]Nonterminal
	binary  map[[2]Nonterminal][]Nonterminal
	starts  []Nonterminal
}

// Option configures a Grammar.
type Option func(*Grammar)

// WithNames sets display names for nonterminals.
func WithNames(names map[Nonterminal]string) Option {
	return func(g *Grammar) {
		g.names = make(map[Nonterminal]string, len(names))
		for nt, name := range names {
			g.names[nt] = name
		}
	}
}

// New builds a Grammar from a list of productions. Duplicates collapse.
func New(productions []Production, opts ...Option) *Grammar {
	g := &Grammar{
		productions: make(map[Production]struct{}, len(productions)),
		byLHS:       map[Nonterminal][]Production{},
		lexical:     map[string][]Nonterminal{},
		binary:      map[[2]Nonterminal][]Nonterminal{},
	}
	for _, opt := range opts {
		opt(g)
	}
	for _, p := range productions {
		if _, ok := g.productions[p]; ok {
			continue
		}
		g.productions[p] = struct{}{}
		g.sorted = append(g.sorted, p)
	}
	slices.SortFunc(g.sorted, Production.Compare)

	for _, p := range g.sorted {
		g.byLHS[p.LHS] = append(g.byLHS[p.LHS], p)
		switch p.Kind {
		case KindLexical:
			g.lexical[p.Terminal] = append(g.lexical[p.Terminal], p.LHS)
		case KindBinary:
			key := [2]Nonterminal{p.Left, p.Right}
			g.binary[key] = append(g.binary[key], p.LHS)
		case KindStart:
			g.starts = append(g.starts, p.Left)
		}
	}
	return g
}

// Empty returns a grammar without productions.
func Empty() *Grammar {
	return New(nil)
}

// Start returns the start symbol.
func (g *Grammar) Start() Nonterminal {
	return Start
}

// Len returns the number of productions.
func (g *Grammar) Len() int {
	return len(g.productions)
}

// Contains reports whether p is one of the productions.
func (g *Grammar) Contains(p Production) bool {
	_, ok := g.productions[p]
	return ok
}

// Productions returns the productions in Compare order.
func (g *Grammar) Productions() []Production {
	return slices.Clone(g.sorted)
}

// Equal reports whether both grammars hold the same production set.
func (g *Grammar) Equal(other *Grammar) bool {
	if len(g.productions) != len(other.productions) {
		return false
	}
	for p := range g.productions {
		if _, ok := other.productions[p]; !ok {
			return false
		}
	}
	return true
}

// Nonterminals returns every nonterminal mentioned, Start excluded.
func (g *Grammar) Nonterminals() []Nonterminal {
	seen := map[Nonterminal]struct{}{}
	add := func(nt Nonterminal) {
		if nt != Start {
			seen[nt] = struct{}{}
		}
	}
	for _, p := range g.sorted {
		add(p.LHS)
		if p.Kind != KindLexical {
			add(p.Left)
		}
		if p.Kind == KindBinary {
			add(p.Right)
		}
	}
	result := make([]Nonterminal, 0, len(seen))
	for nt := range seen {
		result = append(result, nt)
	}
	slices.Sort(result)
	return result
}

// Terminals returns the sorted terminal alphabet of the lexical rules.
func (g *Grammar) Terminals() []string {
	result := make([]string, 0, len(g.lexical))
	for t := range g.lexical {
		result = append(result, t)
	}
	slices.Sort(result)
	return result
}

// Name returns the display name of nt.
func (g *Grammar) Name(nt Nonterminal) string {
	if name, ok := g.names[nt]; ok {
		return name
	}
	return DefaultName(nt)
}

// String renders one production per line.
func (g *Grammar) String() string {
	var b strings.Builder
	for _, p := range g.sorted {
		b.WriteString(p.Format(g.Name))
		b.WriteByte('\n')
	}
	return b.String()
}
