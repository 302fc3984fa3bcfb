package coinring

import (
	"errors"
	"testing"

	"crosswarped.com/coinring/pkg/primitives"
)

func mustConfig(t *testing.T, text string) primitives.Config {
	t.Helper()
	c, err := primitives.ParseConfig(text)
	if err != nil {
		t.Fatalf("ParseConfig(%q): %v", text, err)
	}
	return c
}

func noRotation(int) int { return 0 }

func TestReplayAlreadyWonStart(t *testing.T) {
	moves := []primitives.Move{mustMove(t, 4, 0)}

	step, won, err := Replay(mustConfig(t, "HHHH"), moves, noRotation)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if !won || step != 0 {
		t.Errorf("Replay = (%d, %v), want (0, true): play never begins on a won board", step, won)
	}
}

func TestReplayStillAdversary(t *testing.T) {
	// Against an adversary who never rotates, the two-coin line
	// "flip both, flip one, flip both" wins at a predictable step.
	moves := []primitives.Move{
		mustMove(t, 2, 0, 1),
		mustMove(t, 2, 0),
		mustMove(t, 2, 0, 1),
	}

	tests := []struct {
		start    string
		wantStep int
	}{
		{"TT", 1},
		{"TH", 3},
		{"HT", 2},
		{"HH", 0},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			step, won, err := Replay(mustConfig(t, tt.start), moves, noRotation)
			if err != nil {
				t.Fatalf("Replay: %v", err)
			}
			if !won {
				t.Fatal("sequence did not win")
			}
			if step != tt.wantStep {
				t.Errorf("won at step %d, want %d", step, tt.wantStep)
			}
		})
	}
}

func TestReplaySequenceExhausted(t *testing.T) {
	moves := []primitives.Move{mustMove(t, 2, 0)}

	step, won, err := Replay(mustConfig(t, "TT"), moves, noRotation)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if won || step != 0 {
		t.Errorf("Replay = (%d, %v), want (0, false)", step, won)
	}
}

func TestReplayMismatchedMove(t *testing.T) {
	moves := []primitives.Move{mustMove(t, 3, 0)}

	if _, _, err := Replay(mustConfig(t, "TTTT"), moves, noRotation); !errors.Is(err, primitives.ErrInvalidPosition) {
		t.Errorf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestReplayExhaustiveAdversaries(t *testing.T) {
	// The searched two-coin solution must win from every start against
	// every one of the 2^3 rotation-choice sequences.
	moves := searchMoves(t, 2)
	if len(moves) != 3 {
		t.Fatalf("Search(2) returned %d moves, want 3", len(moves))
	}

	for pattern := uint64(0); pattern < 4; pattern++ {
		start, err := primitives.NewConfig(2, pattern)
		if err != nil {
			t.Fatalf("NewConfig: %v", err)
		}
		for choices := 0; choices < 1<<len(moves); choices++ {
			rotate := func(step int) int {
				return (choices >> (step - 1)) & 1
			}
			_, won, err := Replay(start, moves, rotate)
			if err != nil {
				t.Fatalf("Replay: %v", err)
			}
			if !won {
				t.Errorf("start %v, rotation choices %03b: sequence failed", start, choices)
			}
		}
	}
}

func TestReplayRotationAmountsTakenModSize(t *testing.T) {
	// Rotation amounts outside [0, n) are equivalent to their residue.
	moves := []primitives.Move{mustMove(t, 2, 0)}

	step, won, err := Replay(mustConfig(t, "HT"), moves, func(int) int { return 7 })
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	// Rotating HT by 7, the same as by 1, gives TH; flipping position 0 wins.
	if !won || step != 1 {
		t.Errorf("Replay = (%d, %v), want (1, true)", step, won)
	}
}
