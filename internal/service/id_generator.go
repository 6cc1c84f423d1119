package service

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	apperrors "brotos/internal/errors"
)

const (
	idMin         = 100000
	idMax         = 999999
	idMaxAttempts = 1000
)

// IDGenerator draws six digit login ids uniformly and resamples on collision.
type IDGenerator struct {
	reserved    string
	maxAttempts int
	intn        func(n int) int
}

// NewIDGenerator creates a generator that never returns reserved.
func NewIDGenerator(reserved string) *IDGenerator {
	return &IDGenerator{
		reserved:    reserved,
		maxAttempts: idMaxAttempts,
		intn:        rand.Intn,
	}
}

// Next returns a fresh id for which taken reports false.
func (g *IDGenerator) Next(ctx context.Context, taken func(ctx context.Context, id string) (bool, error)) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		id := strconv.Itoa(idMin + g.intn(idMax-idMin+1))
		if id == g.reserved {
			continue
		}
		exists, err := taken(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check id %s: %w", id, err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", apperrors.ErrIDSpaceExhausted
}
