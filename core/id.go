package core

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a fresh random agent identifier.
func NewID() uuid.UUID { return uuid.New() }

// IDOrNew returns id, or a fresh identifier when id is uuid.Nil.
func IDOrNew(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return NewID()
	}
	return id
}

// ParseID parses the textual form of an agent identifier.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid agent id %q: %w", s, err)
	}
	return id, nil
}
