package iteratable

import (
	"bytes"
	"fmt"
)

// Set is an insertion-ordered set of comparable items. Iteration follows
// insertion order, which makes algorithms on item sets deterministic.
//
// A Set has an internal cursor, set up by IterateOnce and advanced by Next.
// Items added during an iteration will be visited by the same iteration:
//
//     S.IterateOnce()
//     for S.Next() {
//         x := S.Item()
//         …  S.Add(y)   // y will be visited later in this loop
//     }
//
// There is a single cursor per set, so iterations must not be nested.
//
type Set struct {
	items  []interface{}
	index  map[interface{}]int
	cursor int
}

// NewSet creates an empty set with initial capacity cap.
func NewSet(cap int) *Set {
	if cap < 0 {
		cap = 0
	}
	return &Set{
		items:  make([]interface{}, 0, cap),
		index:  make(map[interface{}]int, cap),
		cursor: -1,
	}
}

// Add adds an item, if not already present. It returns true if the set
// changed.
func (s *Set) Add(x interface{}) bool {
	if _, ok := s.index[x]; ok {
		return false
	}
	s.index[x] = len(s.items)
	s.items = append(s.items, x)
	return true
}

// Contains checks for membership of x.
func (s *Set) Contains(x interface{}) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[x]
	return ok
}

// Size returns the number of items.
func (s *Set) Size() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Values returns the items in insertion order. The slice is a copy.
func (s *Set) Values() []interface{} {
	if s == nil {
		return nil
	}
	return append([]interface{}(nil), s.items...)
}

// Copy creates a shallow copy of s.
func (s *Set) Copy() *Set {
	c := NewSet(s.Size())
	for _, x := range s.items {
		c.Add(x)
	}
	return c
}

// Equals compares two sets, ignoring the order of items.
func (s *Set) Equals(other *Set) bool {
	if s.Size() != other.Size() {
		return false
	}
	for _, x := range s.items {
		if !other.Contains(x) {
			return false
		}
	}
	return true
}

// Union adds all items of other to s. Destructive; returns s.
func (s *Set) Union(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, x := range other.items {
		s.Add(x)
	}
	return s
}

// Each calls f for every item in insertion order.
func (s *Set) Each(f func(interface{})) {
	if s == nil {
		return
	}
	for _, x := range s.items {
		f(x)
	}
}

// IterateOnce resets the internal cursor to the start of the set.
func (s *Set) IterateOnce() {
	s.cursor = -1
}

// Next advances the cursor. It returns false if the end of the set has been
// reached.
func (s *Set) Next() bool {
	if s.cursor+1 >= len(s.items) {
		s.cursor = len(s.items)
		return false
	}
	s.cursor++
	return true
}

// Item returns the item under the cursor.
func (s *Set) Item() interface{} {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return nil
	}
	return s.items[s.cursor]
}

func (s *Set) String() string {
	var b bytes.Buffer
	b.WriteString("{")
	for i, x := range s.items {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(fmt.Sprintf(" %v", x))
	}
	b.WriteString(" }")
	return b.String()
}
