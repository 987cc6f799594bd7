package lr

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/tools/container/intsets"
)

// LRAnalysis is an object for grammar analysis. It computes the START and
// FOLLOW sets of the non-terminals of a grammar and serves item closures.
//
// START(A) is the set of terminals which may be the leftmost symbol of a
// derivation from A. FOLLOW(A) is the set of terminals which may immediately
// follow A, where every occurrence of A at the end of a rule's RHS
// contributes end of input. This over-approximates the textbook FOLLOW set,
// and reduce actions of the SLR table are placed accordingly.
//
// Sets are represented as sparse sets of symbol IDs.
type LRAnalysis struct {
	g        *Grammar
	start    []*intsets.Sparse // indexed by symbol ID
	follow   []*intsets.Sparse // indexed by symbol ID
	closures *lru.Cache[Item, []Item]
	noCache  bool
	// closure memo statistics
	cacheHits, cacheMisses int
}

// Analysis creates an analyser for a grammar and computes START and FOLLOW
// sets for all non-terminals.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{
		g:      g,
		start:  make([]*intsets.Sparse, g.SymbolCount()),
		follow: make([]*intsets.Sparse, g.SymbolCount()),
	}
	g.EachNonTerminal(func(A *Symbol) interface{} {
		ga.start[A.ID] = ga.computeStart(A)
		return nil
	})
	g.EachNonTerminal(func(A *Symbol) interface{} {
		ga.follow[A.ID] = ga.computeFollow(A)
		return nil
	})
	return ga
}

// Grammar returns the grammar this analyser operates on.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// computeStart collects the first RHS symbols of all rules of non-terminals
// reachable as leftmost children of A.
func (ga *LRAnalysis) computeStart(A *Symbol) *intsets.Sparse {
	set := &intsets.Sparse{}
	visited := map[*Symbol]bool{A: true}
	worklist := []*Symbol{A}
	for len(worklist) > 0 {
		N := worklist[0]
		worklist = worklist[1:]
		for _, r := range ga.g.FindNonTermRules(N) {
			if r.IsEpsilon() {
				continue
			}
			B := r.rhs[0]
			if B.IsTerminal() {
				set.Insert(B.ID)
			} else if !visited[B] {
				visited[B] = true
				worklist = append(worklist, B)
			}
		}
	}
	return set
}

// computeFollow scans all rules for occurrences of A and of the LHS symbols
// A propagates to.
func (ga *LRAnalysis) computeFollow(A *Symbol) *intsets.Sparse {
	set := &intsets.Sparse{}
	if A == ga.g.final {
		set.Insert(ga.g.eof.ID)
	}
	visited := map[*Symbol]bool{A: true}
	worklist := []*Symbol{A}
	for len(worklist) > 0 {
		X := worklist[0]
		worklist = worklist[1:]
		for _, r := range ga.g.rules {
			for k, B := range r.rhs {
				if B != X {
					continue
				}
				if k+1 < len(r.rhs) {
					next := r.rhs[k+1]
					if next.IsTerminal() {
						set.Insert(next.ID)
					} else {
						set.UnionWith(ga.start[next.ID])
					}
					continue
				}
				set.Insert(ga.g.eof.ID) // rule-final occurrence
				if !visited[r.LHS] {
					visited[r.LHS] = true
					worklist = append(worklist, r.LHS)
				}
			}
		}
	}
	tracer().Debugf("FOLLOW(%v) = %v", A, ga.symbolNames(set))
	return set
}

// Start returns a copy of START(A) as a set of symbol IDs. For terminals,
// START(A) = { A }.
func (ga *LRAnalysis) Start(A *Symbol) *intsets.Sparse {
	set := &intsets.Sparse{}
	if A == nil {
		return set
	}
	if A.IsTerminal() {
		set.Insert(A.ID)
	} else if A.ID >= 0 && A.ID < len(ga.start) {
		set.Copy(ga.start[A.ID])
	}
	return set
}

// Follow returns a copy of FOLLOW(A) as a set of symbol IDs. FOLLOW is empty
// for terminals.
func (ga *LRAnalysis) Follow(A *Symbol) *intsets.Sparse {
	set := &intsets.Sparse{}
	if A != nil && !A.IsTerminal() && A.ID >= 0 && A.ID < len(ga.follow) {
		set.Copy(ga.follow[A.ID])
	}
	return set
}

// StartSymbols returns START(A) as symbols, ordered by symbol ID.
func (ga *LRAnalysis) StartSymbols(A *Symbol) []*Symbol {
	return ga.symbols(ga.Start(A))
}

// FollowSymbols returns FOLLOW(A) as symbols, ordered by symbol ID.
func (ga *LRAnalysis) FollowSymbols(A *Symbol) []*Symbol {
	return ga.symbols(ga.Follow(A))
}

func (ga *LRAnalysis) symbols(set *intsets.Sparse) []*Symbol {
	ids := set.AppendTo(nil)
	syms := make([]*Symbol, 0, len(ids))
	for _, id := range ids {
		syms = append(syms, ga.g.Symbol(id))
	}
	return syms
}

func (ga *LRAnalysis) symbolNames(set *intsets.Sparse) []string {
	syms := ga.symbols(set)
	names := make([]string, len(syms))
	for i, A := range syms {
		names[i] = A.Name
	}
	return names
}
