// Package coinring finds certain-win move sequences for the blind
// coin-flipping game: n coins in a ring, each hidden, with an adversary who
// may rotate the ring arbitrarily before every requested flip. A solution
// is a sequence of flips guaranteed to reach all heads no matter what the
// adversary does or how the coins started.
//
// The engine tracks a belief state (the set of configurations the hidden
// ring could be, up to rotation) and runs a breadth-first search over
// belief states, so the first solution found is a shortest one.
package coinring

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"crosswarped.com/coinring/internal"
	"crosswarped.com/coinring/pkg/primitives"
)

// ErrBoundExceeded reports that the explored-state budget ran out before
// the search could either find a solution or prove none exists. It is
// distinct from the no-solution outcome, which is a result, not an error.
var ErrBoundExceeded = errors.New("search bound exceeded")

// Solution is a certain-win move sequence, shortest for its ring size.
type Solution struct {
	Moves []primitives.Move
}

// Solver searches one ring size. The zero MaxStates means unbounded.
type Solver struct {
	RingSize  int
	MaxStates int

	// Do not access this field directly, use the initialBelief method instead.
	lazyInitialBelief *primitives.Belief
}

func NewSolver(ringSize int) *Solver {
	return &Solver{RingSize: ringSize}
}

func (s *Solver) initialBelief(ctx context.Context) (primitives.Belief, error) {
	if s.lazyInitialBelief == nil {
		configs, err := internal.AllCanonicalConfigs(ctx, s.RingSize)
		if err != nil {
			return primitives.Belief{}, err
		}
		b := primitives.NewBelief(configs...)
		s.lazyInitialBelief = &b
	}
	return *s.lazyInitialBelief, nil
}

// node pairs the path taken so far with the belief it leads to. Nodes are
// owned by the frontier and dropped once expanded.
type node struct {
	moves  []primitives.Move
	belief primitives.Belief
}

// Search runs the breadth-first search. It returns:
//   - a Solution when a certain-win sequence exists,
//   - (nil, nil) when the reachable belief space is exhausted without
//     finding one, which proves no solution exists for this ring size,
//   - an error wrapping ErrBoundExceeded when MaxStates > 0 ran out, or
//     ctx's error on cancellation.
//
// All search state is local to the call; concurrent searches on distinct
// solvers are independent.
func (s *Solver) Search(ctx context.Context) (*Solution, error) {
	initial, err := s.initialBelief(ctx)
	if err != nil {
		return nil, err
	}
	goalConfig, err := primitives.AllHeads(s.RingSize)
	if err != nil {
		return nil, err
	}
	goal := primitives.NewBelief(goalConfig)

	// The move set never changes across the search: the adversary's rotation
	// freedom makes the same canonical moves available from every belief.
	moves := CanonicalMoves(initial)

	frontier := []node{{belief: initial}}
	explored := map[string]bool{initial.Key(): true}

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := frontier[0]
		frontier = frontier[1:]

		if n.belief.Equal(goal) {
			return &Solution{Moves: n.moves}, nil
		}

		for _, move := range moves {
			next, err := Update(n.belief, move)
			if err != nil {
				return nil, err
			}
			key := next.Key()
			if explored[key] {
				continue
			}
			explored[key] = true
			if s.MaxStates > 0 && len(explored) > s.MaxStates {
				return nil, fmt.Errorf("%w: explored more than %d belief states for ring size %d", ErrBoundExceeded, s.MaxStates, s.RingSize)
			}
			path := append(slices.Clone(n.moves), move)
			frontier = append(frontier, node{moves: path, belief: next})
		}
	}

	// Frontier drained: every reachable belief state was examined.
	return nil, nil
}

// Search is the unbounded convenience form: a shortest certain-win sequence
// for an n-coin ring, or nil when none exists.
func Search(ctx context.Context, n int) (*Solution, error) {
	return NewSolver(n).Search(ctx)
}
