package lr

import (
	"bytes"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/npillmayer/parsegen/lr/iteratable"
)

// Item is a rule position, i.e. a rule together with a dot marking how much
// of its right hand side has already been matched.
//
//     E ➞ E + • T
//
// Items are comparable values and may be used as map keys.
type Item struct {
	rule *Rule
	dot  int
}

// StartItem returns the item for a rule with the dot at position 0, together
// with the symbol after the dot (nil for epsilon rules).
func StartItem(r *Rule) (Item, *Symbol) {
	i := Item{rule: r}
	return i, i.PeekSymbol()
}

// Rule returns the rule of an item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Dot returns the position of the dot.
func (i Item) Dot() int {
	return i.dot
}

// PeekSymbol returns the symbol after the dot, or nil if the item is complete.
func (i Item) PeekSymbol() *Symbol {
	if i.rule == nil || i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// IsComplete is true if the dot is behind the last symbol of the rule.
func (i Item) IsComplete() bool {
	return i.PeekSymbol() == nil
}

// Advance returns a new item with the dot moved one symbol to the right.
// Advancing a complete item returns the item unchanged.
func (i Item) Advance() Item {
	if i.IsComplete() {
		return i
	}
	return Item{rule: i.rule, dot: i.dot + 1}
}

// Prefix returns the symbols of the RHS in front of the dot.
func (i Item) Prefix() []*Symbol {
	return i.rule.rhs[:i.dot]
}

func (i Item) String() string {
	var b bytes.Buffer
	b.WriteString(i.rule.LHS.Name)
	b.WriteString(" ➞")
	for k, A := range i.rule.rhs {
		if k == i.dot {
			b.WriteString(" •")
		}
		b.WriteString(" ")
		b.WriteString(A.Name)
	}
	if i.IsComplete() {
		b.WriteString(" •")
	}
	return b.String()
}

func asItem(x interface{}) Item {
	return x.(Item)
}

func newItemSet() *iteratable.Set {
	return iteratable.NewSet(0)
}

// Dump is a debugging helper, writing an item set to the tracer.
func Dump(S *iteratable.Set) {
	S.Each(func(x interface{}) {
		tracer().Debugf("    %v", asItem(x))
	})
}

func itemSetString(S *iteratable.Set) string {
	var b bytes.Buffer
	b.WriteString("{")
	first := true
	S.Each(func(x interface{}) {
		if first {
			b.WriteString(" ")
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(asItem(x).String())
	})
	b.WriteString(" }")
	return b.String()
}

// --- Closure ---------------------------------------------------------------

// DefaultClosureCacheSize is the number of single-item closures memoized by
// an LRAnalysis.
const DefaultClosureCacheSize = 256

// Closure computes the closure of a single item, i.e. the item plus all the
// start items of rules for non-terminals expected after the dot, transitively.
//
// Non-terminals are expanded breadth-first: first the rules of the symbol
// after the dot, in grammar order, then the rules of the leftmost RHS symbols
// of these, in order of their appearance.
func (ga *LRAnalysis) Closure(i Item) *iteratable.Set {
	items := ga.expansion(i)
	C := iteratable.NewSet(len(items))
	for _, item := range items {
		C.Add(item)
	}
	return C
}

// ClosureSet computes the closure of an item set. S is not modified.
// The result holds the items of S, followed by the closure of each item
// of S in turn.
func (ga *LRAnalysis) ClosureSet(S *iteratable.Set) *iteratable.Set {
	C := S.Copy()
	S.Each(func(x interface{}) {
		C.Union(ga.Closure(asItem(x)))
	})
	return C
}

// expansion returns the closure of a single item as a slice, served from the
// cache if possible.
func (ga *LRAnalysis) expansion(i Item) []Item {
	cache := ga.closureCache()
	if cache != nil {
		if items, ok := cache.Get(i); ok {
			ga.cacheHits++
			return items
		}
	}
	items := []Item{i}
	seen := map[Item]bool{i: true}
	var queue []*Symbol
	queued := make(map[*Symbol]bool)
	if A := i.PeekSymbol(); A != nil && !A.IsTerminal() {
		queue, queued[A] = append(queue, A), true
	}
	for k := 0; k < len(queue); k++ { // queue grows during the loop
		for _, r := range ga.g.FindNonTermRules(queue[k]) {
			item, B := StartItem(r)
			if !seen[item] {
				seen[item] = true
				items = append(items, item)
			}
			if B != nil && !B.IsTerminal() && !queued[B] {
				queued[B] = true
				queue = append(queue, B)
			}
		}
	}
	if cache != nil {
		ga.cacheMisses++
		cache.Add(i, items)
	}
	return items
}

// successor computes the item set reached from state items S by symbol A:
// every item of S with A after the dot is advanced, and the result is closed.
func (ga *LRAnalysis) successor(S *iteratable.Set, A *Symbol) *iteratable.Set {
	kernel := newItemSet()
	S.Each(func(x interface{}) {
		i := asItem(x)
		if i.PeekSymbol() == A {
			kernel.Add(i.Advance())
		}
	})
	C := ga.ClosureSet(kernel)
	tracer().Debugf("goto(%s) --%s--> %s", itemSetString(S), A, itemSetString(C))
	return C
}

// SetClosureCacheSize re-sizes the memo for single-item closures, dropping
// all memoized closures. A size of 0 disables memoization.
func (ga *LRAnalysis) SetClosureCacheSize(size int) error {
	ga.cacheHits, ga.cacheMisses = 0, 0
	if size <= 0 {
		ga.closures = nil
		ga.noCache = true
		return nil
	}
	cache, err := lru.New[Item, []Item](size)
	if err != nil {
		return fmt.Errorf("cannot create closure cache: %w", err)
	}
	ga.closures, ga.noCache = cache, false
	return nil
}

// ClosureCacheStats returns the number of closures served from the memo and
// the number of closures computed and memoized.
func (ga *LRAnalysis) ClosureCacheStats() (hits, misses int) {
	return ga.cacheHits, ga.cacheMisses
}

func (ga *LRAnalysis) closureCache() *lru.Cache[Item, []Item] {
	if ga.closures == nil && !ga.noCache {
		if err := ga.SetClosureCacheSize(DefaultClosureCacheSize); err != nil {
			tracer().Errorf("%v", err)
			ga.noCache = true
		}
	}
	return ga.closures
}
