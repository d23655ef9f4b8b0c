package ident

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator produces unique identifiers for new timers
type Generator interface {
	NewID() string
}

type uuidGenerator struct{}

// UUID returns a Generator producing random (v4) UUID strings
func UUID() Generator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

// Sequence is a deterministic Generator ("<prefix>-1", "<prefix>-2", ...)
type Sequence struct {
	Prefix string

	mu   sync.Mutex
	next int
}

func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, s.next)
}
