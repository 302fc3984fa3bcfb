package coinring

import (
	"crosswarped.com/coinring/pkg/primitives"
)

// Update advances a belief under the game's worst-case semantics: the
// adversary may turn the table to any orientation before the requested flip
// is applied, so every rotation of every member is a possible pre-flip
// state. A rotation that already shows all heads is carried through
// untouched: play stops the moment the board is won, so that branch never
// sees the flip.
//
// The result is a fresh canonicalized belief; the input is not modified.
func Update(belief primitives.Belief, move primitives.Move) (primitives.Belief, error) {
	successors := make([]primitives.Config, 0, belief.Len()*belief.RingSize())
	for c := range belief.All() {
		for _, r := range c.Rotations() {
			if r.IsAllHeads() {
				successors = append(successors, r)
				continue
			}
			flipped, err := r.Flip(move)
			if err != nil {
				return primitives.Belief{}, err
			}
			successors = append(successors, flipped)
		}
	}
	return primitives.NewBelief(successors...), nil
}
