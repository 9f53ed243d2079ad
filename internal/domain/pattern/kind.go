package pattern

// Kind discriminates the three pattern variants. Patterns are structurally
// identical; the kind determines which relationship slot a pattern may fill.
type Kind string

const (
	KindProperty    Kind = "property"
	KindProcess     Kind = "process"
	KindPerspective Kind = "perspective"
)

// Kinds returns the three pattern kinds in canonical order.
func Kinds() []Kind {
	return []Kind{KindProperty, KindProcess, KindPerspective}
}

// IsValid reports whether k is one of the three known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindProperty, KindProcess, KindPerspective:
		return true
	}
	return false
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}
