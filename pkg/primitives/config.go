package primitives

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// MaxRingSize is the largest supported ring. A Config packs one bit per
// coin into a uint64.
const MaxRingSize = 63

var (
	// ErrInvalidRingSize reports a ring size outside [1, MaxRingSize].
	ErrInvalidRingSize = errors.New("invalid ring size")

	// ErrInvalidPosition reports a flip position outside [0, n).
	ErrInvalidPosition = errors.New("invalid position")
)

// Config is one concrete assignment of heads and tails to every coin of an
// n-coin ring. Position i around the ring maps to bit i; heads is 1.
//
// Config is an immutable comparable value: == is structural equality
// (position for position, not up to rotation) and Configs can be map keys.
type Config struct {
	bits uint64
	size int
}

// NewConfig builds a Config of the given ring size from a bit pattern.
// Bits above the ring size are rejected rather than masked off, so that two
// equal Configs always came from the same pattern.
func NewConfig(size int, bitPattern uint64) (Config, error) {
	if size < 1 || size > MaxRingSize {
		return Config{}, fmt.Errorf("%w: %d (must be in [1, %d])", ErrInvalidRingSize, size, MaxRingSize)
	}
	if bitPattern&^ringMask(size) != 0 {
		return Config{}, fmt.Errorf("bit pattern %b does not fit in a ring of %d coins", bitPattern, size)
	}
	return Config{bits: bitPattern, size: size}, nil
}

// AllTails returns the ring of the given size with every coin showing tails.
func AllTails(size int) (Config, error) {
	return NewConfig(size, 0)
}

// AllHeads returns the ring of the given size with every coin showing heads.
func AllHeads(size int) (Config, error) {
	if size < 1 || size > MaxRingSize {
		return Config{}, fmt.Errorf("%w: %d (must be in [1, %d])", ErrInvalidRingSize, size, MaxRingSize)
	}
	return Config{bits: ringMask(size), size: size}, nil
}

// ParseConfig reads the textual form produced by String: one 'H' or 'T'
// per position, position 0 first.
func ParseConfig(s string) (Config, error) {
	if len(s) < 1 || len(s) > MaxRingSize {
		return Config{}, fmt.Errorf("%w: %d (must be in [1, %d])", ErrInvalidRingSize, len(s), MaxRingSize)
	}
	var b uint64
	for i, r := range s {
		switch r {
		case 'H', 'h':
			b |= 1 << i
		case 'T', 't':
		default:
			return Config{}, fmt.Errorf("position %d: %q is not 'H' or 'T'", i, r)
		}
	}
	return Config{bits: b, size: len(s)}, nil
}

func ringMask(size int) uint64 {
	return (uint64(1) << size) - 1
}

// Size returns the number of coins in the ring.
func (c Config) Size() int {
	return c.size
}

// Bits returns the raw bit pattern, heads at position i in bit i.
func (c Config) Bits() uint64 {
	return c.bits
}

// Heads returns the number of coins showing heads.
func (c Config) Heads() int {
	return bits.OnesCount64(c.bits)
}

// IsAllHeads reports whether every coin shows heads.
func (c Config) IsAllHeads() bool {
	return c.bits == ringMask(c.size)
}

// IsHeads reports whether the coin at the given position shows heads.
func (c Config) IsHeads(position int) bool {
	return c.bits&(1<<position) != 0
}

// Rotate returns the ring turned by k positions: the coin at position i
// moves to position (i+k) mod n. Negative k turns the other way.
func (c Config) Rotate(k int) Config {
	k %= c.size
	if k < 0 {
		k += c.size
	}
	if k == 0 {
		return c
	}
	b := (c.bits<<k | c.bits>>(c.size-k)) & ringMask(c.size)
	return Config{bits: b, size: c.size}
}

// Rotations returns all n cyclic rotations of the ring, starting with the
// identity rotation.
func (c Config) Rotations() []Config {
	out := make([]Config, c.size)
	for k := range c.size {
		out[k] = c.Rotate(k)
	}
	return out
}

// Canonical returns the representative of the ring's rotation class: the
// rotation with the numerically smallest bit pattern. Every rotation of c
// has the same Canonical, and Canonical is idempotent.
func (c Config) Canonical() Config {
	best := c
	r := c
	for range c.size - 1 {
		r = r.Rotate(1)
		if r.bits < best.bits {
			best = r
		}
	}
	return best
}

// Flip returns a new Config with exactly the positions in m toggled.
// The input is never modified. A move built for a different ring size is
// rejected, since its positions would not line up with this ring.
func (c Config) Flip(m Move) (Config, error) {
	if m.size != c.size {
		return Config{}, fmt.Errorf("%w: move is for a ring of %d coins, config has %d", ErrInvalidPosition, m.size, c.size)
	}
	return Config{bits: c.bits ^ m.bits, size: c.size}, nil
}

// String renders the ring as one 'H' or 'T' per position, position 0 first.
func (c Config) String() string {
	var sb strings.Builder
	sb.Grow(c.size)
	for i := range c.size {
		if c.IsHeads(i) {
			sb.WriteByte('H')
		} else {
			sb.WriteByte('T')
		}
	}
	return sb.String()
}
