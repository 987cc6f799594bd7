package lr

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadGrammar reads a grammar in a simple line format: every line holds a
// single rule, with the LHS separated by '=' from a comma-separated list of
// RHS symbols.
//
//     # expressions
//     __FINAL__=E
//     E=E,+,T
//     E=T
//     T=n
//     X=
//
// Blank lines and lines starting with '#' are skipped. A line "X=" defines an
// epsilon-rule. Symbols are classified by the grammar: every symbol without
// a rule is a terminal. If the text has no rule for "__FINAL__", a rule
// __FINAL__ ➞ S is added, where S is the LHS of the first rule.
func ReadGrammar(gname string, r io.Reader) (*Grammar, error) {
	b := NewGrammarBuilder(gname)
	scnr := bufio.NewScanner(r)
	lineno := 0
	var first string
	hasFinal := false
	for scnr.Scan() {
		lineno++
		line := strings.TrimSpace(scnr.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("grammar %s, line %d: expected LHS=RHS, have %q", gname, lineno, line)
		}
		lhs := strings.TrimSpace(line[:eq])
		if strings.ContainsAny(lhs, ", \t") {
			return nil, fmt.Errorf("grammar %s, line %d: malformed LHS %q", gname, lineno, lhs)
		}
		if first == "" {
			first = lhs
		}
		if lhs == FinalName {
			hasFinal = true
		}
		rb := b.LHS(lhs)
		if rhs := strings.TrimSpace(line[eq+1:]); rhs != "" {
			for _, sym := range strings.Split(rhs, ",") {
				sym = strings.TrimSpace(sym)
				if sym == "" {
					return nil, fmt.Errorf("grammar %s, line %d: empty symbol in RHS", gname, lineno)
				}
				rb.S(sym)
			}
		}
		rb.End()
	}
	if err := scnr.Err(); err != nil {
		return nil, fmt.Errorf("grammar %s: %w", gname, err)
	}
	if first == "" {
		return nil, fmt.Errorf("grammar %s has no rules", gname)
	}
	if !hasFinal {
		tracer().Debugf("grammar %s: adding rule %s ➞ %s", gname, FinalName, first)
		b.LHS(FinalName).N(first).End()
	}
	return b.Grammar()
}
