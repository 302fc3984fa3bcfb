package internal

import (
	"context"
	"fmt"

	"crosswarped.com/coinring/pkg/primitives"
)

// ctxCheckInterval bounds how many patterns are walked between context
// checks; 2^n grows fast enough that the loop must stay cancellable.
const ctxCheckInterval = 1 << 12

// AllCanonicalConfigs returns every canonical configuration of an n-coin
// ring, one representative per rotation class, sorted ascending by bit
// pattern. This is both the search's initial belief (the player knows
// nothing) and the reference set the canonical moves are read from.
func AllCanonicalConfigs(ctx context.Context, n int) ([]primitives.Config, error) {
	if n < 1 || n > primitives.MaxRingSize {
		return nil, fmt.Errorf("%w: %d (must be in [1, %d])", primitives.ErrInvalidRingSize, n, primitives.MaxRingSize)
	}

	seen := make(map[primitives.Config]bool)
	var out []primitives.Config
	for pattern := uint64(0); pattern < uint64(1)<<n; pattern++ {
		if pattern%ctxCheckInterval == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c, err := primitives.NewConfig(n, pattern)
		if err != nil {
			return nil, err
		}
		canon := c.Canonical()
		if seen[canon] {
			continue
		}
		seen[canon] = true
		out = append(out, canon)
	}

	// Patterns are walked in ascending order and a class's canonical form is
	// its smallest pattern, so out is already sorted.
	return out, nil
}
