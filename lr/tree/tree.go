/*
Package tree implements parse trees as produced by the SLR parser of package slr.

Inner nodes of a parse tree carry the grammar rule they have been reduced by,
leaves carry an input token. Every element knows its parent. The parent
relation is a plain back-pointer, i.e. children are owned by their parents
only.

Parse trees are not immutable: clients may re-shape a tree by replacing
children of a node (see Node.ReplaceChild), e.g. for term rewriting. The
rule of a node always reflects its current children: replacing a child by
an element for a different grammar symbol will derive a new rule for the
node.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/parsegen"
	"github.com/npillmayer/parsegen/lr"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'parsegen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("parsegen.lr")
}

// Element is an element of a parse tree, either a *Leaf or a *Node.
type Element interface {
	Symbol() *lr.Symbol  // grammar symbol of this element
	Parent() *Node       // parent node, or nil for the root
	IsTerminal() bool    // true for leafs
	Span() parsegen.Span // span of input covered by this element
	String() string
	setParent(*Node)
}

// ErrAttached is returned if an element should be inserted into a tree, but
// already has a parent.
var ErrAttached = errors.New("tree element already has a parent")

// --- Leafs -----------------------------------------------------------------

// Leaf is a tree element for an input token.
type Leaf struct {
	token  parsegen.Token
	symbol *lr.Symbol
	parent *Node
}

var _ Element = (*Leaf)(nil)

// NewLeaf creates a leaf for a token, representing terminal symbol A.
func NewLeaf(token parsegen.Token, A *lr.Symbol) *Leaf {
	return &Leaf{token: token, symbol: A}
}

// Token returns the input token of a leaf.
func (l *Leaf) Token() parsegen.Token {
	return l.token
}

// Symbol returns the terminal symbol of a leaf.
func (l *Leaf) Symbol() *lr.Symbol {
	return l.symbol
}

// Parent returns the parent node of a leaf.
func (l *Leaf) Parent() *Node {
	return l.parent
}

// IsTerminal is true for leafs.
func (l *Leaf) IsTerminal() bool {
	return true
}

// Span returns the input span of the leaf's token.
func (l *Leaf) Span() parsegen.Span {
	if l.token == nil {
		return parsegen.Span{}
	}
	return l.token.Span()
}

func (l *Leaf) setParent(n *Node) {
	l.parent = n
}

func (l *Leaf) String() string {
	return l.symbol.Name
}

// --- Inner nodes -----------------------------------------------------------

// Node is an inner node of a parse tree, reduced by a grammar rule.
// The children of a node correspond to the RHS of the rule.
type Node struct {
	rule     *lr.Rule
	children []Element
	parent   *Node
}

var _ Element = (*Node)(nil)

// NewNode creates a node for a rule, with children matching the RHS of the
// rule. It is an error if the children's symbols do not match the rule,
// or if a child already has a parent.
func NewNode(rule *lr.Rule, children ...Element) (*Node, error) {
	if rule == nil {
		return nil, errors.New("cannot create tree node without rule")
	}
	if rule.Len() != len(children) {
		return nil, fmt.Errorf("rule %v requires %d children, have %d", rule, rule.Len(), len(children))
	}
	for i, ch := range children {
		if ch == nil {
			return nil, fmt.Errorf("child #%d for rule %v is nil", i, rule)
		}
		if ch.Symbol().Name != rule.At(i).Name {
			return nil, fmt.Errorf("child #%d for rule %v is %v", i, rule, ch.Symbol())
		}
		if ch.Parent() != nil {
			return nil, fmt.Errorf("child #%d for rule %v: %w", i, rule, ErrAttached)
		}
	}
	n := &Node{
		rule:     rule,
		children: append([]Element(nil), children...),
	}
	for _, ch := range n.children {
		ch.setParent(n)
	}
	return n, nil
}

// Rule returns the rule a node has been reduced by, or derived from later
// re-shaping.
func (n *Node) Rule() *lr.Rule {
	return n.rule
}

// Symbol returns the LHS of the node's rule.
func (n *Node) Symbol() *lr.Symbol {
	return n.rule.LHS
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsTerminal is false for inner nodes, even for nodes without children.
func (n *Node) IsTerminal() bool {
	return false
}

func (n *Node) setParent(p *Node) {
	n.parent = p
}

// Len returns the number of children.
func (n *Node) Len() int {
	return len(n.children)
}

// Child returns the i-th child, or nil.
func (n *Node) Child(i int) Element {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns the children of a node. The slice is a copy.
func (n *Node) Children() []Element {
	return append([]Element(nil), n.children...)
}

// IndexOf returns the position of ch among the children of n, or -1.
func (n *Node) IndexOf(ch Element) int {
	for i, c := range n.children {
		if c == ch {
			return i
		}
	}
	return -1
}

// IsFrontier is true if all children of a node are leafs.
func (n *Node) IsFrontier() bool {
	for _, ch := range n.children {
		if !ch.IsTerminal() {
			return false
		}
	}
	return true
}

// Span returns the span of input covered by the node's leafs.
func (n *Node) Span() parsegen.Span {
	var span parsegen.Span
	for _, ch := range n.children {
		span = span.Extend(ch.Span())
	}
	return span
}

// ReplaceChild replaces the i-th child of n by ch and returns the replaced
// child, which is detached from n. If ch is for a different grammar symbol
// than the replaced child, n receives a new rule, derived from its current
// children.
//
// ch must not be attached to a tree.
func (n *Node) ReplaceChild(i int, ch Element) (Element, error) {
	if i < 0 || i >= len(n.children) {
		return nil, fmt.Errorf("node %v has no child #%d", n.rule.LHS, i)
	}
	if ch == nil {
		return nil, errors.New("cannot replace tree node child by nil")
	}
	if ch.Parent() != nil {
		return nil, ErrAttached
	}
	old := n.children[i]
	if old == ch {
		return old, nil
	}
	n.children[i] = ch
	ch.setParent(n)
	old.setParent(nil)
	if ch.Symbol().Name != n.rule.At(i).Name {
		rhs := n.rule.RHS()
		rhs[i] = ch.Symbol()
		n.rule = lr.NewRule(n.rule.LHS, rhs...)
		tracer().Debugf("node %v derived rule %v", n.rule.LHS, n.rule)
	}
	return old, nil
}

// Replace replaces a tree element by another one, at the same position of
// old's parent.
func Replace(old, ch Element) error {
	if old == nil || old.Parent() == nil {
		return errors.New("cannot replace a tree element without parent")
	}
	p := old.Parent()
	i := p.IndexOf(old)
	if i < 0 {
		return fmt.Errorf("inconsistent tree: %v not a child of its parent %v", old.Symbol(), p.Symbol())
	}
	_, err := p.ReplaceChild(i, ch)
	return err
}

// Yield returns the leafs of the tree below n, left to right.
func (n *Node) Yield() []*Leaf {
	var leafs []*Leaf
	stack := []Element{n}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch x := e.(type) {
		case *Leaf:
			leafs = append(leafs, x)
		case *Node:
			for i := len(x.children) - 1; i >= 0; i-- {
				stack = append(stack, x.children[i])
			}
		}
	}
	return leafs
}

// Derivation returns the rules of the nodes below n in pre-order, which is
// the sequence of rules of a leftmost derivation.
func (n *Node) Derivation() []*lr.Rule {
	var rules []*lr.Rule
	stack := []*Node{n}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		rules = append(rules, x.rule)
		for i := len(x.children) - 1; i >= 0; i-- {
			if ch, ok := x.children[i].(*Node); ok {
				stack = append(stack, ch)
			}
		}
	}
	return rules
}

// String returns a parenthesized form of the tree below n, e.g.
//
//     (E (E (T n)) + (T n))
//
func (n *Node) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(n.rule.LHS.Name)
	for _, ch := range n.children {
		b.WriteString(" ")
		b.WriteString(ch.String())
	}
	b.WriteString(")")
	return b.String()
}
