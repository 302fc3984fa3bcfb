package coinring

import (
	"slices"

	"crosswarped.com/coinring/pkg/primitives"
)

// CanonicalMoves returns one move per rotation class of non-empty position
// subsets, derived from the initial belief: every canonical configuration in
// it stands for one class, and its heads positions are the class
// representative. The all-tails configuration maps to the empty move, a
// no-op, and is skipped.
//
// The order is deterministic: descending number of flipped positions,
// ties broken by ascending bit pattern. That puts the full flip first,
// which is the move most often useful and keeps searches reproducible
// across runs.
func CanonicalMoves(initial primitives.Belief) []primitives.Move {
	moves := make([]primitives.Move, 0, initial.Len())
	for c := range initial.All() {
		if c.Heads() == 0 {
			continue
		}
		moves = append(moves, primitives.MoveFromConfig(c))
	}
	slices.SortStableFunc(moves, func(a, b primitives.Move) int {
		return b.Len() - a.Len()
	})
	return moves
}
