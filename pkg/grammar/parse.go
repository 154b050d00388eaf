package grammar

import (
	"bufio"
	"strings"

	"github.com/pkg/errors"
)

// Parse reads rules of the form
//
//	A -> 'a' | B C
//	S -> A
//
// where start names the start symbol. Quoted symbols are terminals, bare
// symbols are nonterminals. Each alternative must be a single terminal, two
// nonterminals, or, for the start symbol only, a single nonterminal; the
// start symbol may not appear on a right-hand side. Nonterminals are
// numbered from 0 in order of first appearance. Right-hand sides that mix
// terminals and nonterminals, such as S -> 'a' | S 'a', must first be
// rewritten into this form, for example S -> A, A -> 'a' | A A.
func Parse(start string, rules ...string) (*Grammar, error) {
	p := &parser{
		start: start,
		ids:   map[string]Nonterminal{start: Start},
		names: map[Nonterminal]string{Start: start},
	}
	for i, rule := range rules {
		if err := p.rule(rule); err != nil {
			return nil, errors.Wrapf(err, "rule %d", i+1)
		}
	}
	return New(p.productions, WithNames(p.names)), nil
}

// ParseString parses one rule per line. Blank lines and lines starting with
// # are skipped.
func ParseString(start, text string) (*Grammar, error) {
	var rules []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading rules")
	}
	return Parse(start, rules...)
}

// MustParse is Parse for fixed grammars; it panics on error.
func MustParse(start string, rules ...string) *Grammar {
	g, err := Parse(start, rules...)
	if err != nil {
		panic(err)
	}
	return g
}

type parser struct {
	start       string
	ids         map[string]Nonterminal
	names       map[Nonterminal]string
	next        Nonterminal
	productions []Production
}

type symbol struct {
	text     string
	terminal bool
}

func (p *parser) nonterminal(name string) Nonterminal {
	if nt, ok := p.ids[name]; ok {
		return nt
	}
	nt := p.next
	p.next++
	p.ids[name] = nt
	p.names[nt] = name
	return nt
}

func (p *parser) rule(rule string) error {
	lhsText, rhsText, ok := strings.Cut(rule, "->")
	if !ok {
		return errors.Errorf("missing -> in %q", rule)
	}
	lhsName := strings.TrimSpace(lhsText)
	if lhsName == "" || strings.ContainsAny(lhsName, " \t'\"") {
		return errors.Errorf("invalid left-hand side %q", lhsName)
	}
	lhs := p.nonterminal(lhsName)

	for _, alt := range strings.Split(rhsText, "|") {
		syms, err := tokenize(alt)
		if err != nil {
			return err
		}
		prod, err := p.production(lhs, syms)
		if err != nil {
			return errors.Wrapf(err, "%s -> %s", lhsName, strings.TrimSpace(alt))
		}
		p.productions = append(p.productions, prod)
	}
	return nil
}

func (p *parser) production(lhs Nonterminal, syms []symbol) (Production, error) {
	for _, s := range syms {
		if !s.terminal && s.text == p.start {
			return Production{}, errors.Errorf("start symbol %s on right-hand side", p.start)
		}
	}
	switch {
	case len(syms) == 1 && syms[0].terminal:
		return Lexical(lhs, syms[0].text), nil
	case len(syms) == 2 && !syms[0].terminal && !syms[1].terminal:
		return Binary(lhs, p.nonterminal(syms[0].text), p.nonterminal(syms[1].text)), nil
	case len(syms) == 1 && lhs == Start:
		return StartRule(p.nonterminal(syms[0].text)), nil
	default:
		return Production{}, errors.Errorf("not in normal form")
	}
}

func tokenize(alt string) ([]symbol, error) {
	var syms []symbol
	rest := strings.TrimSpace(alt)
	for rest != "" {
		if q := rest[0]; q == '\'' || q == '"' {
			end := strings.IndexByte(rest[1:], q)
			if end < 0 {
				return nil, errors.Errorf("unterminated terminal in %q", alt)
			}
			syms = append(syms, symbol{text: rest[1 : end+1], terminal: true})
			rest = strings.TrimSpace(rest[end+2:])
			continue
		}
		word, tail := rest, ""
		if i := strings.IndexAny(rest, " \t"); i >= 0 {
			word, tail = rest[:i], rest[i:]
		}
		syms = append(syms, symbol{text: word})
		rest = strings.TrimSpace(tail)
	}
	if len(syms) == 0 {
		return nil, errors.Errorf("empty alternative")
	}
	return syms, nil
}
