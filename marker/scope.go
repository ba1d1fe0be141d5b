package marker

import "fmt"

// Scope selects which part of the element tree a component lookup searches.
type Scope int

const (
	This Scope = iota
	Parent
	Children
)

var scopeNames = [...]string{
	This:     "This",
	Parent:   "Parent",
	Children: "Children",
}

func (s Scope) String() string {
	if s >= This && s <= Children {
		return scopeNames[s]
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

// ScopeFromOrdinal decodes the ordinal form used in markers.
func ScopeFromOrdinal(n int64) (Scope, bool) {
	if n < int64(This) || n > int64(Children) {
		return This, false
	}
	return Scope(n), true
}

// ScopeFromName decodes the constant name form used in markers.
func ScopeFromName(name string) (Scope, bool) {
	for s, n := range scopeNames {
		if n == name {
			return Scope(s), true
		}
	}
	return This, false
}
