package pattern

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "p3-backend/pkg/errors"
)

// ID is a value object that ensures valid pattern identifiers
type ID struct {
	value string
}

// NewID creates a new random ID
func NewID() ID {
	return ID{value: uuid.New().String()}
}

// ParseID creates an ID from a string, validating it's a proper UUID
func ParseID(id string) (ID, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ID{}, pkgerrors.NewValidation("invalid pattern id: " + id)
	}
	return ID{value: id}, nil
}

// String returns the string representation of the ID
func (id ID) String() string {
	return id.value
}

// Equals checks if two IDs are equal
func (id ID) Equals(other ID) bool {
	return id.value == other.value
}

// IsEmpty checks if the ID is empty (an unfilled relationship slot)
func (id ID) IsEmpty() bool {
	return id.value == ""
}

// Score is a bounded measure in [0.0, 1.0] used for relationship strength
// and confidence. Out-of-range inputs are clamped, never rejected.
type Score float64

// NewScore creates a Score, clamping the value into [0.0, 1.0].
func NewScore(value float64) Score {
	if value < 0.0 {
		return Score(0.0)
	}
	if value > 1.0 {
		return Score(1.0)
	}
	return Score(value)
}

// Value returns the score as a plain float64.
func (s Score) Value() float64 {
	return float64(s)
}

// NormalizeName lower-cases a pattern name for identity and similarity
// purposes. The stored display name keeps its original casing.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
