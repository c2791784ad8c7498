package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ID is a globally unique identifier for users and sessions. Equality is by
// the trimmed string value, so IDs work as map keys.
type ID struct {
	value string
}

// NewID generates a random identifier.
func NewID() ID {
	return ID{value: uuid.NewString()}
}

// ParseID wraps an externally supplied identifier.
func ParseID(raw string) (ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ID{}, validation("id", "must be a non-empty string")
	}
	for _, r := range trimmed {
		if r > 127 {
			return ID{}, validation("id", "must contain only ASCII characters")
		}
	}
	return ID{value: trimmed}, nil
}

func (id ID) Value() string  { return id.value }
func (id ID) String() string { return id.value }

// IsZero reports whether the ID was never set.
func (id ID) IsZero() bool { return id.value == "" }
