// Package tracking produces the tracking numbers shared by all order lines of
// one checkout.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrExhausted is returned when the random scheme cannot find a free number.
var ErrExhausted = errors.New("no free tracking number found")

// Lookup reports whether a tracking number is already used by an order.
type Lookup interface {
	TrackingNoExists(ctx context.Context, trackingNo string) (bool, error)
}

// Generator yields a tracking number not carried by any existing order.
type Generator interface {
	Generate(ctx context.Context, lookup Lookup) (string, error)
}

// UUIDGenerator returns "<prefix>-<32 upper-case hex>" tokens. Collisions are
// not checked; the lookup is ignored.
type UUIDGenerator struct {
	Prefix string
}

// Generate implements Generator.
func (g UUIDGenerator) Generate(_ context.Context, _ Lookup) (string, error) {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if g.Prefix == "" {
		return id, nil
	}
	return g.Prefix + "-" + id, nil
}

const (
	randomMin = 1111111
	randomMax = 9999999
	// DefaultMaxAttempts bounds the retry loop of RandomGenerator.
	DefaultMaxAttempts = 32
)

// RandomGenerator produces the legacy format: prefix followed by a random
// 7-digit number, retried until the lookup reports it unused.
type RandomGenerator struct {
	Prefix      string
	MaxAttempts int

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomGenerator creates a RandomGenerator drawing from src. A nil src
// is seeded from the clock.
func NewRandomGenerator(prefix string, src rand.Source) *RandomGenerator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &RandomGenerator{
		Prefix:      prefix,
		MaxAttempts: DefaultMaxAttempts,
		rnd:         rand.New(src),
	}
}

// Generate implements Generator.
func (g *RandomGenerator) Generate(ctx context.Context, lookup Lookup) (string, error) {
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	for i := 0; i < attempts; i++ {
		candidate := g.Prefix + strconv.Itoa(g.next())
		taken, err := lookup.TrackingNoExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check tracking number: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrExhausted, attempts)
}

func (g *RandomGenerator) next() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return randomMin + g.rnd.Intn(randomMax-randomMin+1)
}
