package lr

import (
	"bytes"
	"fmt"
)

// ConflictError is returned by table construction if two different actions
// compete for the same cell of the parser table. This happens for
// shift/reduce- and reduce/reduce-conflicts, i.e. for grammars which are
// not SLR(1).
type ConflictError struct {
	State     int     // ID of the CFSM state
	Items     []Item  // items of the state
	Symbol    *Symbol // column of the cell
	Existing  Action  // action found in the cell
	Attempted Action  // action which should have been written
}

// Kind returns a short description of the conflict, e.g. "shift/reduce".
func (e *ConflictError) Kind() string {
	k1, k2 := e.Existing.Kind, e.Attempted.Kind
	if k1 == ReduceAction && k2 != ReduceAction {
		k1, k2 = k2, k1
	}
	return kindName(k1) + "/" + kindName(k2)
}

func (e *ConflictError) Error() string {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("%s conflict in state %d on symbol %v: %v vs. %v",
		e.Kind(), e.State, e.Symbol, e.Existing, e.Attempted))
	for _, i := range e.Items {
		b.WriteString("\n    ")
		b.WriteString(i.String())
	}
	return b.String()
}

// UnknownSymbolError is returned for table lookups with a symbol name which is
// neither a terminal nor a non-terminal of the grammar.
type UnknownSymbolError struct {
	Name string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown grammar symbol %q", e.Name)
}

func kindName(k ActionKind) string {
	switch k {
	case ShiftAction:
		return "shift"
	case GotoAction:
		return "goto"
	case ReduceAction:
		return "reduce"
	case DoneAction:
		return "done"
	}
	return "none"
}
