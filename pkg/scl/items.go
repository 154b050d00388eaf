package scl

import (
	"hash/fnv"
	"slices"
	"strings"
)

// items is the shared set representation behind SentenceSet and ContextSet.
type items[T comparable] map[T]struct{}

func (s items[T]) clone() items[T] {
	result := make(items[T], len(s))
	for x := range s {
		result[x] = struct{}{}
	}
	return result
}

func (s items[T]) subsetOf(other items[T]) bool {
	if len(s) > len(other) {
		return false
	}
	for x := range s {
		if _, ok := other[x]; !ok {
			return false
		}
	}
	return true
}

func (s items[T]) equal(other items[T]) bool {
	return len(s) == len(other) && s.subsetOf(other)
}

func (s items[T]) sorted(cmp func(a, b T) int) []T {
	result := make([]T, 0, len(s))
	for x := range s {
		result = append(result, x)
	}
	slices.SortFunc(result, cmp)
	return result
}

func union[T comparable](sets ...items[T]) items[T] {
	n := 0
	for _, s := range sets {
		n += len(s)
	}
	result := make(items[T], n)
	for _, s := range sets {
		for x := range s {
			result[x] = struct{}{}
		}
	}
	return result
}

func intersection[T comparable](first items[T], others ...items[T]) items[T] {
	result := make(items[T])
outer:
	for x := range first {
		for _, o := range others {
			if _, ok := o[x]; !ok {
				continue outer
			}
		}
		result[x] = struct{}{}
	}
	return result
}

func difference[T comparable](first items[T], others ...items[T]) items[T] {
	result := make(items[T])
outer:
	for x := range first {
		for _, o := range others {
			if _, ok := o[x]; ok {
				continue outer
			}
		}
		result[x] = struct{}{}
	}
	return result
}

// canonicalKey joins the sorted canonical encodings of the elements.
func canonicalKey[T comparable](s items[T], encode func(T) string) string {
	encoded := make([]string, 0, len(s))
	for x := range s {
		encoded = append(encoded, encode(x))
	}
	slices.Sort(encoded)
	return strings.Join(encoded, "\x01")
}

// commutativeHash sums element hashes, so insertion order cannot matter.
func commutativeHash[T comparable](s items[T], encode func(T) string) uint64 {
	var sum uint64
	for x := range s {
		h := fnv.New64a()
		_, _ = h.Write([]byte(encode(x)))
		sum += h.Sum64()
	}
	return sum
}
