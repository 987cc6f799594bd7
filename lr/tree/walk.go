package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/

import (
	"github.com/npillmayer/parsegen"
)

// Direction lets clients decide wether children nodes should be traversed left-to-right
// (default) or right-to-left.
type Direction int

// Children nodes may be traversed left-to-right (default) or right-to-left.
const (
	LtoR Direction = 1
	RtoL Direction = -1
)

// Breakmode is a client hint wether to stop traversing on break-signals or not.
type Breakmode int

// Setting Continue will always traverse a complete (sub-)tree. Break will skip
// traversing sub-tree as soon as an Enter-function signals a break.
const (
	Continue Breakmode = iota
	Break
)

// Listener is a type for walking a parse tree.
//
// EnterRule returns a boolean value indicating if the traversal should continue to
// the children of this node. ExitRule and Terminal may return user-defined values
// to be propagated upwards of the tree. ExitRule receives the values of the
// children, in the order of the children (independent of the direction of
// traversal); values of skipped children are nil.
type Listener interface {
	EnterRule(*Node, RuleCtxt) bool
	ExitRule(*Node, []interface{}, RuleCtxt) interface{}
	Terminal(*Leaf, RuleCtxt) interface{}
}

// RuleCtxt is a context structure for Listeners.
type RuleCtxt struct {
	Span      parsegen.Span // span of input symbols covered by this element
	Level     int           // nesting level
	RuleIndex int           // serial of the rule, -1 for terminals and derived rules
}

func makeCtxt(e Element, level int) RuleCtxt {
	ctxt := RuleCtxt{Span: e.Span(), Level: level, RuleIndex: -1}
	if n, ok := e.(*Node); ok {
		ctxt.RuleIndex = n.rule.Serial
	}
	return ctxt
}

// Walk traverses a sub-tree top-down, applying Listener-methods for all elements
// encountered. It returns a user-defined value, calculated by the listener.
func Walk(root Element, listener Listener, dir Direction, breakmode Breakmode) interface{} {
	if root == nil {
		return nil
	}
	tracer().Debugf("Walk starting at node %v", root.Symbol())
	return walk(root, listener, dir, breakmode, 0)
}

func walk(e Element, listener Listener, dir Direction, breakmode Breakmode, level int) interface{} {
	ctxt := makeCtxt(e, level)
	node, ok := e.(*Node)
	if !ok {
		return listener.Terminal(e.(*Leaf), ctxt)
	}
	tracer().Debugf(">>> %s", node.Symbol())
	values := make([]interface{}, len(node.children))
	doContinue := listener.EnterRule(node, ctxt)
	if doContinue || breakmode == Continue { // traverse children nodes
		i, end, step := 0, len(node.children), 1
		if dir == RtoL {
			i, end, step = len(node.children)-1, -1, -1
		}
		for ; i != end; i += step {
			values[i] = walk(node.children[i], listener, dir, breakmode, level+1)
		}
	}
	value := listener.ExitRule(node, values, ctxt)
	tracer().Debugf("<<< %s", node.Symbol())
	return value
}
