package primitives

import (
	"fmt"
	"math/bits"
	"strings"
)

// Move is a set of positions the player asks the adversary to flip, on a
// ring of a fixed size. Like Config it is an immutable comparable value.
type Move struct {
	bits uint64
	size int
}

// NewMove builds a Move for a ring of the given size. Each position must
// lie in [0, size); duplicates are allowed and collapse into the set.
func NewMove(size int, positions ...int) (Move, error) {
	if size < 1 || size > MaxRingSize {
		return Move{}, fmt.Errorf("%w: %d (must be in [1, %d])", ErrInvalidRingSize, size, MaxRingSize)
	}
	var b uint64
	for _, p := range positions {
		if p < 0 || p >= size {
			return Move{}, fmt.Errorf("%w: %d (must be in [0, %d))", ErrInvalidPosition, p, size)
		}
		b |= 1 << p
	}
	return Move{bits: b, size: size}, nil
}

// MoveFromConfig returns the Move flipping exactly the heads positions of c.
// This is how canonical moves are derived: each canonical configuration
// stands for one rotation class of position subsets.
func MoveFromConfig(c Config) Move {
	return Move{bits: c.bits, size: c.size}
}

// Size returns the ring size the move applies to.
func (m Move) Size() int {
	return m.size
}

// Len returns the number of positions flipped by the move.
func (m Move) Len() int {
	return bits.OnesCount64(m.bits)
}

// IsFullFlip reports whether the move flips every position.
func (m Move) IsFullFlip() bool {
	return m.bits == ringMask(m.size)
}

// Positions returns the flipped positions in ascending order.
func (m Move) Positions() []int {
	out := make([]int, 0, m.Len())
	for p := range m.size {
		if m.bits&(1<<p) != 0 {
			out = append(out, p)
		}
	}
	return out
}

// String renders the move as its position set, e.g. "{0 2 3}".
func (m Move) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, p := range m.Positions() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d", p)
	}
	sb.WriteByte('}')
	return sb.String()
}
