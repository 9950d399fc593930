package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque session identifiers.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return v.String(), nil
}

// Sequence returns IDs from a fixed list, then fails. Used in tests.
type Sequence struct {
	ids []string
}

func NewSequence(ids ...string) *Sequence {
	return &Sequence{ids: append([]string(nil), ids...)}
}

func (s *Sequence) NewID() (string, error) {
	if len(s.ids) == 0 {
		return "", fmt.Errorf("id sequence exhausted")
	}
	next := s.ids[0]
	s.ids = s.ids[1:]
	return next, nil
}
