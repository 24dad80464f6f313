// Package identity hands out resource identifiers.
//
// Uniqueness is probabilistic: identifiers are random UUID v4 values and are
// never checked against the store.
package identity

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator produces a fresh identifier on every call.
type Generator interface {
	NewID() string
}

// UUIDGenerator renders random (version 4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID in its canonical text form.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// NewID is UUIDGenerator{}.NewID for callers that do not carry a Generator.
func NewID() string {
	return UUIDGenerator{}.NewID()
}

// Sequence is a deterministic Generator for tests. It yields UUID-shaped
// identifiers numbered from 1.
type Sequence struct {
	mu   sync.Mutex
	next uint64
}

// NewSequence creates a Sequence whose first identifier is number 1.
func NewSequence() *Sequence {
	return &Sequence{next: 1}
}

// NewID returns the next identifier in the sequence.
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("00000000-0000-4000-8000-%012d", s.next)
	s.next++
	return id
}
