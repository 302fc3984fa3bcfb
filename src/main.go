package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"google.golang.org/api/iterator"

	"crosswarped.com/coinring"
	"crosswarped.com/coinring/pkg/primitives"
)

type SolveRingRequest struct {
	RingSize  int  `json:"ringSize"`
	MaxStates int  `json:"maxStates"`
	SkipCache bool `json:"skipCache"`
}

type SolveRingResponse struct {
	Success bool    `json:"success"`
	Found   bool    `json:"found"`
	Moves   [][]int `json:"moves,omitempty"`
	Cached  bool    `json:"cached,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// getCachedSolution looks a ring size up in the solutions table. The moves
// column holds one move per semicolon-separated group, positions separated
// by commas, e.g. "0,1,2,3;0;0,1". Rows with solvable=false record proven
// no-solution ring sizes.
func getCachedSolution(ctx context.Context, ringSize int) (moves [][]int, solvable bool, found bool, err error) {
	client, err := bigquery.NewClient(ctx, "coinring-x")
	if err != nil {
		return nil, false, false, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	query := fmt.Sprintf("SELECT solvable, moves FROM `coinring-x.solver.solutions` WHERE ring_size = %d LIMIT 1", ringSize)
	q := client.Query(query)
	q.Location = "US"

	job, err := q.Run(ctx)
	if err != nil {
		return nil, false, false, fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, false, false, fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, false, false, fmt.Errorf("status.Err: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return nil, false, false, fmt.Errorf("job.Read: %w", err)
	}

	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, false, false, fmt.Errorf("it.Next: %w", err)
		}

		rowSolvable, ok := row[0].(bool)
		if !ok {
			return nil, false, false, fmt.Errorf("row[0] is not a bool: %v", row[0])
		}
		if !rowSolvable {
			return nil, false, true, nil
		}
		encoded, ok := row[1].(string)
		if !ok {
			return nil, false, false, fmt.Errorf("row[1] is not a string: %v", row[1])
		}
		parsed, err := parseMoves(encoded)
		if err != nil {
			return nil, false, false, fmt.Errorf("parseMoves: %w", err)
		}
		return parsed, true, true, nil
	}
	return nil, false, false, nil
}

func parseMoves(encoded string) ([][]int, error) {
	var moves [][]int
	for _, group := range strings.Split(encoded, ";") {
		var positions []int
		for _, field := range strings.Split(group, ",") {
			p, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("bad position %q: %w", field, err)
			}
			positions = append(positions, p)
		}
		moves = append(moves, positions)
	}
	return moves, nil
}

func execute(ctx context.Context, req SolveRingRequest) (*SolveRingResponse, error) {
	if req.RingSize < 1 {
		return nil, fmt.Errorf("ringSize must be at least 1")
	}
	if req.RingSize > primitives.MaxRingSize {
		return nil, fmt.Errorf("ringSize must be at most %d", primitives.MaxRingSize)
	}
	if req.MaxStates < 0 {
		return nil, fmt.Errorf("maxStates must not be negative")
	}

	if !req.SkipCache {
		moves, solvable, found, err := getCachedSolution(ctx, req.RingSize)
		if err != nil {
			// The cache is an optimization; fall through to a live search.
			fmt.Printf("Solution cache lookup failed: %v\n", err)
		} else if found {
			fmt.Printf("Serving cached solution for ring size %d\n", req.RingSize)
			return &SolveRingResponse{Success: true, Found: solvable, Moves: moves, Cached: true}, nil
		}
	}

	deadline, ok := ctx.Deadline()
	timeout := 1 * time.Minute
	if ok {
		timeout = time.Until(deadline) - 5*time.Second
		fmt.Printf("Setting timeout to %v\n", timeout)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	solver := coinring.NewSolver(req.RingSize)
	solver.MaxStates = req.MaxStates

	solution, err := solver.Search(ctx)
	if errors.Is(err, coinring.ErrBoundExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("search budget exhausted before an answer was proven: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("solver.Search: %w", err)
	}
	if solution == nil {
		return &SolveRingResponse{Success: true, Found: false}, nil
	}

	moves := make([][]int, len(solution.Moves))
	for i, m := range solution.Moves {
		moves[i] = m.Positions()
	}
	return &SolveRingResponse{Success: true, Found: true, Moves: moves}, nil
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

func solveRing(w http.ResponseWriter, r *http.Request) {
	// Set CORS headers
	setCORSHeaders(w)

	// Handle OPTIONS request for CORS preflight
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, `{"success": false, "error": "Method %s not allowed"}`, r.Method)
		return
	}

	var req SolveRingRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fmt.Printf("Error parsing JSON body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		response := SolveRingResponse{
			Success: false,
			Error:   fmt.Sprintf("Invalid JSON: %v", err),
		}
		json.NewEncoder(w).Encode(response)
		return
	}

	response, err := execute(r.Context(), req)
	if err != nil {
		response = &SolveRingResponse{Success: false, Error: err.Error()}
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Printf("Error marshaling response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success": false, "error": "Internal server error"}`)
		return
	}
}

func main() {
	funcframework.RegisterHTTPFunction("/solve-ring", solveRing)

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := ""
	if localOnly := os.Getenv("LOCAL_ONLY"); localOnly == "true" {
		hostname = "127.0.0.1"
	}
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		log.Fatalf("funcframework.StartHostPort: %v\n", err)
	}
}
