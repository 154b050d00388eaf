package scl

import (
	"encoding/json"
	"fmt"
)

// Context is a (left, right) pair wrapped around sentences.
type Context struct {
	left  Sentence
	right Sentence
}

// NewContext creates a Context from both sides.
func NewContext(left, right Sentence) Context {
	return Context{left: left, right: right}
}

// Left returns the sentence before the hole.
func (c Context) Left() Sentence {
	return c.left
}

// Right returns the sentence after the hole.
func (c Context) Right() Sentence {
	return c.right
}

// Wrap returns left ++ s ++ right.
func (c Context) Wrap(s Sentence) Sentence {
	return c.left.Concat(s).Concat(c.right)
}

// WrapSet wraps the context around every sentence of set.
func (c Context) WrapSet(set SentenceSet) SentenceSet {
	result := SentenceSet{items: make(items[Sentence], set.Len())}
	for s := range set.items {
		result.items[c.Wrap(s)] = struct{}{}
	}
	return result
}

// Compare orders contexts by left side, then right side.
func (c Context) Compare(other Context) int {
	if cmp := c.left.Compare(other.left); cmp != 0 {
		return cmp
	}
	return c.right.Compare(other.right)
}

func (c Context) canonical() string {
	return c.left.canonical() + "|" + c.right.canonical()
}

func (c Context) String() string {
	return fmt.Sprintf("(%s, %s)", c.left, c.right)
}

type contextJSON struct {
	Left  Sentence `json:"left"`
	Right Sentence `json:"right"`
}

func (c Context) MarshalJSON() ([]byte, error) {
	return json.Marshal(contextJSON{Left: c.left, Right: c.right})
}

func (c *Context) UnmarshalJSON(data []byte) error {
	var raw contextJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Context{left: raw.Left, right: raw.Right}
	return nil
}
