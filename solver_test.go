package coinring

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"crosswarped.com/coinring/pkg/primitives"
)

func searchMoves(t *testing.T, n int) []primitives.Move {
	t.Helper()
	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Minute)
	defer cancel()

	solution, err := Search(ctx, n)
	if err != nil {
		t.Fatalf("Search(%d) error: %v", n, err)
	}
	if solution == nil {
		t.Fatalf("Search(%d) found no solution", n)
	}
	return solution.Moves
}

// aliveAfter advances the set of not-yet-won configurations the adversary
// could still be holding, over every rotation choice at once. When the set
// drains, every rotation-choice path has reached all heads.
func aliveAfter(t *testing.T, alive map[primitives.Config]bool, move primitives.Move) map[primitives.Config]bool {
	t.Helper()
	next := make(map[primitives.Config]bool)
	for c := range alive {
		for _, r := range c.Rotations() {
			flipped, err := r.Flip(move)
			if err != nil {
				t.Fatalf("Flip: %v", err)
			}
			if !flipped.IsAllHeads() {
				next[flipped] = true
			}
		}
	}
	return next
}

func TestSearchSingleCoin(t *testing.T) {
	moves := searchMoves(t, 1)

	want := [][]int{{0}}
	got := make([][]int, len(moves))
	for i, m := range moves {
		got[i] = m.Positions()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search(1) mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchTwoCoins(t *testing.T) {
	moves := searchMoves(t, 2)
	if len(moves) != 3 {
		t.Fatalf("Search(2) returned %d moves, want 3", len(moves))
	}
}

func TestSearchFourCoins(t *testing.T) {
	moves := searchMoves(t, 4)
	if len(moves) != 15 {
		t.Fatalf("Search(4) returned %d moves, want 15", len(moves))
	}

	// Exhaustive win check: from every one of the 16 starting
	// configurations, track every configuration any sequence of adversary
	// rotations could produce. All of them must be won by the last move.
	for pattern := uint64(0); pattern < 16; pattern++ {
		start, err := primitives.NewConfig(4, pattern)
		if err != nil {
			t.Fatalf("NewConfig: %v", err)
		}

		alive := map[primitives.Config]bool{}
		if !start.IsAllHeads() {
			alive[start] = true
		}
		for i, move := range moves {
			if len(alive) == 0 {
				break
			}
			alive = aliveAfter(t, alive, move)
			if len(alive) > 0 && i == len(moves)-1 {
				t.Errorf("start %v: %d configurations still unwon after move %d", start, len(alive), i+1)
			}
		}
		if len(alive) != 0 {
			t.Errorf("start %v: sequence is not a certain win", start)
		}
	}
}

func TestSearchNoSolution(t *testing.T) {
	for _, n := range []int{3, 5, 6} {
		ctx, cancel := context.WithTimeout(t.Context(), 2*time.Minute)
		solution, err := Search(ctx, n)
		cancel()
		if err != nil {
			t.Fatalf("Search(%d) error: %v", n, err)
		}
		if solution != nil {
			t.Errorf("Search(%d) = %d moves, want no solution", n, len(solution.Moves))
		}
	}
}

func TestSearchNoSolutionSevenCoins(t *testing.T) {
	if testing.Short() {
		t.Skip("exhausting the 7-coin belief space is slow")
	}

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Minute)
	defer cancel()

	solution, err := Search(ctx, 7)
	if err != nil {
		t.Fatalf("Search(7) error: %v", err)
	}
	if solution != nil {
		t.Errorf("Search(7) = %d moves, want no solution", len(solution.Moves))
	}
}

func TestSearchDeterministic(t *testing.T) {
	first := searchMoves(t, 4)
	second := searchMoves(t, 4)

	toPositions := func(moves []primitives.Move) [][]int {
		out := make([][]int, len(moves))
		for i, m := range moves {
			out[i] = m.Positions()
		}
		return out
	}
	if diff := cmp.Diff(toPositions(first), toPositions(second)); diff != "" {
		t.Errorf("two searches disagree (-first +second):\n%s", diff)
	}
}

func TestSearchInvalidRingSize(t *testing.T) {
	for _, n := range []int{0, -2, primitives.MaxRingSize + 1} {
		if _, err := Search(t.Context(), n); !errors.Is(err, primitives.ErrInvalidRingSize) {
			t.Errorf("Search(%d): expected ErrInvalidRingSize, got %v", n, err)
		}
	}
}

func TestSearchBoundExceeded(t *testing.T) {
	solver := NewSolver(4)
	solver.MaxStates = 2

	solution, err := solver.Search(t.Context())
	if !errors.Is(err, ErrBoundExceeded) {
		t.Fatalf("expected ErrBoundExceeded, got solution=%v err=%v", solution, err)
	}
}

func TestSearchCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := Search(ctx, 4); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSearchConcurrentInvocations(t *testing.T) {
	// Searches share nothing, so distinct ring sizes may run in parallel.
	for _, n := range []int{1, 2, 3, 4} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			t.Parallel()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if _, err := Search(ctx, n); err != nil {
				t.Errorf("Search(%d) error: %v", n, err)
			}
		})
	}
}

func TestSolutionSurvivesRandomReplay(t *testing.T) {
	moves := searchMoves(t, 4)
	rng := rand.New(rand.NewPCG(42, 1024))

	for trial := 0; trial < 200; trial++ {
		start, err := primitives.NewConfig(4, rng.Uint64()%16)
		if err != nil {
			t.Fatalf("NewConfig: %v", err)
		}
		step, won, err := Replay(start, moves, func(int) int {
			return rng.IntN(4)
		})
		if err != nil {
			t.Fatalf("Replay: %v", err)
		}
		if !won {
			t.Fatalf("trial %d: sequence failed from %v", trial, start)
		}
		if step > len(moves) {
			t.Fatalf("trial %d: won at step %d, beyond the %d-move sequence", trial, step, len(moves))
		}
	}
}
