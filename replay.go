package coinring

import (
	"crosswarped.com/coinring/pkg/primitives"
)

// RotationFn supplies the adversary's rotation before each move; step is
// 1-based and the returned amount is taken mod the ring size. Handing the
// choice in as a function keeps the harness honest: the adversary can be
// random, exhaustive, or genuinely adversarial without the core knowing.
type RotationFn func(step int) int

// Replay runs a move sequence against one concrete starting configuration
// and one adversary. Before each flip the adversary rotates the ring, then
// the flip is applied mechanically, using the same rotation and flip
// primitives the search is built on.
//
// It returns the 1-based index of the move after which all heads first
// showed and won=true; step 0 if the start was already won (play never
// begins); or won=false when the sequence runs out first.
func Replay(start primitives.Config, moves []primitives.Move, rotate RotationFn) (step int, won bool, err error) {
	current := start
	if current.IsAllHeads() {
		return 0, true, nil
	}
	for i, move := range moves {
		current = current.Rotate(rotate(i + 1))
		current, err = current.Flip(move)
		if err != nil {
			return 0, false, err
		}
		if current.IsAllHeads() {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}
