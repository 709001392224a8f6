// Package knowledge provides the in-process fact store used to ground
// generated tutor dialogue and adapted content.
package knowledge

import (
	"strings"
	"sync"
	"unicode"
)

// Base is a mutable, process-wide fact store. Facts live from process start
// to process end; there is no persistence guarantee. All methods are safe for
// concurrent use; writes are serialized by a single lock.
type Base struct {
	mu    sync.Mutex
	facts []string
}

// NewBase creates an empty knowledge base.
func NewBase() *Base {
	return &Base{}
}

// NewBaseWithFacts creates a knowledge base pre-seeded with facts.
func NewBaseWithFacts(facts ...string) *Base {
	b := NewBase()
	for _, f := range facts {
		b.Add(f)
	}
	return b
}

// Add appends a fact unconditionally. Duplicates are legal; insertion order
// is preserved.
func (b *Base) Add(fact string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.facts = append(b.facts, fact)
}

// All returns every fact joined by newlines, for bulk grounding.
func (b *Base) All() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.facts, "\n")
}

// Len returns the number of stored facts.
func (b *Base) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.facts)
}

// Relevant returns facts whose tokens overlap the query's tokens, joined by
// newlines. When nothing overlaps, every fact is returned: retrieval here is
// a coarse filter and a superset match is preferable to empty grounding.
func (b *Base) Relevant(query string) string {
	queryTokens := tokenize(query)

	b.mu.Lock()
	facts := make([]string, len(b.facts))
	copy(facts, b.facts)
	b.mu.Unlock()

	if len(queryTokens) == 0 {
		return strings.Join(facts, "\n")
	}

	var matched []string
	for _, fact := range facts {
		if overlaps(tokenize(fact), queryTokens) {
			matched = append(matched, fact)
		}
	}
	if len(matched) == 0 {
		return strings.Join(facts, "\n")
	}
	return strings.Join(matched, "\n")
}

// Clear empties the store.
func (b *Base) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.facts = nil
}

// tokenize lowercases and splits on non-letter/digit runes, dropping short
// stop-word-ish tokens.
func tokenize(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, word := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(word) < 3 {
			continue
		}
		tokens[word] = struct{}{}
	}
	return tokens
}

func overlaps(a, b map[string]struct{}) bool {
	for t := range a {
		if _, ok := b[t]; ok {
			return true
		}
	}
	return false
}
