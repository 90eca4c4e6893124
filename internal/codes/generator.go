// Package codes produces the short human-typeable verification codes stamped
// on every certificate for third-party authenticity lookup.
package codes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// Prefix is the fixed textual prefix of every verification code.
	Prefix = "CERT-"

	defaultMaxAttempts = 100
)

// ErrExhausted is returned when no unused code could be produced within the
// attempt cap.
var ErrExhausted = errors.New("verification code attempts exhausted")

// ExistsFunc reports whether a code is already taken by a persisted record.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generator produces collision-checked verification codes. A code carries no
// business meaning beyond "not already used".
//
// The existence check and the eventual batch commit are separate operations,
// so two concurrent batches can still race to the same code; the unique
// index on the store is what catches that case, failing the later commit.
type Generator struct {
	exists      ExistsFunc
	maxAttempts int
}

// NewGenerator builds a generator that checks uniqueness through exists.
func NewGenerator(exists ExistsFunc) *Generator {
	return &Generator{exists: exists, maxAttempts: defaultMaxAttempts}
}

// Generate returns a fresh unused code: the fixed prefix plus the first
// eight hex characters of a random UUID, upper-cased. Collisions trigger
// regeneration up to the attempt cap.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	if g.exists == nil {
		return "", errors.New("code generator has no existence check")
	}
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code := Prefix + strings.ToUpper(uuid.New().String()[:8])
		taken, err := g.exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code uniqueness: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrExhausted, g.maxAttempts)
}
