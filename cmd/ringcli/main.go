package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime/pprof"
	"time"

	"crosswarped.com/coinring"
	"crosswarped.com/coinring/pkg/primitives"
)

func main() {

	ringSize := flag.Int("n", 4, "The number of coins in the ring")
	maxStates := flag.Int("max-states", 0, "Abort after exploring this many belief states (0 = unbounded)")
	verify := flag.Int("verify", 0, "Replay the found sequence this many times against a random adversary")
	seed := flag.Uint64("seed", 0, "Seed for the verification adversary (0 = from the clock)")

	timeout := flag.Duration("timeout", 1*time.Minute, "The timeout for the search")

	profile := flag.Bool("profile", false, "Profile the search")
	profileFile := flag.String("profile-file", "cpu.pprof", "The file to write the CPU profile to")
	memoryProfileFile := flag.String("memory-profile-file", "mem.pprof", "The file to write the memory profile to")

	flag.Parse()

	var mf *os.File
	if *profile {
		f, err := os.Create(*profileFile)
		if err != nil {
			fmt.Println("Error creating profile file:", err)
			os.Exit(1)
		}
		defer f.Close()

		mf, err = os.Create(*memoryProfileFile)
		if err != nil {
			fmt.Println("Error creating memory profile file:", err)
			os.Exit(1)
		}
		defer mf.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Println("Error starting CPU profile:", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	solver := coinring.NewSolver(*ringSize)
	solver.MaxStates = *maxStates

	fmt.Printf("Searching for a certain-win sequence for %d coins...\n", *ringSize)
	start := time.Now()
	solution, err := solver.Search(ctx)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, coinring.ErrBoundExceeded):
		fmt.Println("Search bound exceeded:", err)
		return
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Println("Search timed out after", elapsed)
		return
	case err != nil:
		fmt.Println("Error searching:", err)
		os.Exit(1)
	case solution == nil:
		fmt.Printf("No certain-win sequence exists for %d coins (proved in %v)\n", *ringSize, elapsed)
		return
	}

	fmt.Printf("Found a %d-move sequence in %v:\n", len(solution.Moves), elapsed)
	for i, move := range solution.Moves {
		fmt.Printf("%3d. flip %v\n", i+1, move)
	}

	if *verify > 0 {
		if verifyAgainstRandomAdversary(*ringSize, solution.Moves, *verify, *seed) {
			fmt.Println("All replays reached all heads.")
		} else {
			os.Exit(1)
		}
	}

	if mf != nil {
		pprof.WriteHeapProfile(mf)
	}
}

// verifyAgainstRandomAdversary replays the sequence from a random start
// against a randomly rotating adversary. A failure here would mean the
// search is broken, so it is reported loudly.
func verifyAgainstRandomAdversary(ringSize int, moves []primitives.Move, trials int, seed uint64) bool {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, uint64(trials)))

	fmt.Printf("Replaying %d random trials (seed %d)...\n", trials, seed)
	for trial := range trials {
		start, err := primitives.NewConfig(ringSize, rng.Uint64()%(uint64(1)<<ringSize))
		if err != nil {
			fmt.Println("Error building start configuration:", err)
			return false
		}
		step, won, err := coinring.Replay(start, moves, func(int) int {
			return rng.IntN(ringSize)
		})
		if err != nil {
			fmt.Println("Error replaying:", err)
			return false
		}
		if !won {
			fmt.Printf("Trial %d: sequence failed from %v\n", trial+1, start)
			return false
		}
		fmt.Printf("Trial %d: won at move %d from %v\n", trial+1, step, start)
	}
	return true
}
