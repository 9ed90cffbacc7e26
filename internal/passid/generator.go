// Package passid issues human-shareable pass identifiers of the form TWS-XXXX-YYYY.
package passid

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
)

const (
	// Prefix starts every pass identifier.
	Prefix = "TWS"
	// Alphabet is the set pass characters are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// MaxAttempts bounds the collision retry loop.
	MaxAttempts = 10

	groupLen = 4
)

// ErrGenerationExhausted is returned when every attempt collided with an existing pass.
var ErrGenerationExhausted = errors.New("pass id generation exhausted")

var pattern = regexp.MustCompile(`^TWS-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// Valid reports whether id has the pass identifier format.
func Valid(id string) bool {
	return pattern.MatchString(id)
}

// ExistsFunc reports whether a pass id is already held by a registration.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// Generator produces store-verified unique pass ids.
type Generator struct {
	exists      ExistsFunc
	random      io.Reader
	maxAttempts int
}

// Option configures a Generator.
type Option func(*Generator)

// WithRandom replaces crypto/rand as the entropy source.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) { g.random = r }
}

// WithMaxAttempts overrides MaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// NewGenerator creates a generator that checks candidates with exists.
func NewGenerator(exists ExistsFunc, opts ...Option) *Generator {
	g := &Generator{exists: exists, random: rand.Reader, maxAttempts: MaxAttempts}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a pass id no registration currently holds. It performs one
// store read per attempt and never writes.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		id, err := g.candidate()
		if err != nil {
			return "", err
		}
		taken, err := g.exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check pass id: %w", err)
		}
		if !taken {
			return id, nil
		}
	}
	return "", ErrGenerationExhausted
}

func (g *Generator) candidate() (string, error) {
	var buf [2 * groupLen]byte
	base := big.NewInt(int64(len(Alphabet)))
	for i := range buf {
		n, err := rand.Int(g.random, base)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return fmt.Sprintf("%s-%s-%s", Prefix, buf[:groupLen], buf[groupLen:]), nil
}
