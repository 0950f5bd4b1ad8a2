package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	xfgstark "github.com/vybium/xfg-stark/pkg/xfg-stark"
)

// ProveRequest is the JSON job description read from stdin.
type ProveRequest struct {
	Air           string   `json:"air"` // "counter" or "fibonacci"
	InitialState  []uint64 `json:"initial_state"`
	NumSteps      int      `json:"num_steps"`
	SecurityLevel uint32   `json:"security_level,omitempty"`
	Verify        bool     `json:"verify,omitempty"`
}

// ProveResponse is the JSON result written to stdout.
type ProveResponse struct {
	Proof     []byte `json:"proof"`
	ProofSize int    `json:"proof_size"`
	Verified  *bool  `json:"verified,omitempty"`
}

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)

	if !scanner.Scan() {
		fatal("Failed to read prove request")
	}
	var req ProveRequest
	if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
		fatal(fmt.Sprintf("Failed to parse prove request: %v", err))
	}

	if req.SecurityLevel == 0 {
		req.SecurityLevel = 128
	}

	air, initialState, err := buildAir(req)
	if err != nil {
		fatal(fmt.Sprintf("Failed to build AIR: %v", err))
	}

	logStderr(fmt.Sprintf("Proving %s AIR for %d steps...", req.Air, req.NumSteps))
	prover, err := xfgstark.NewProver(xfgstark.DefaultConfig())
	if err != nil {
		fatal(fmt.Sprintf("Failed to create prover: %v", err))
	}

	proof, err := prover.Prove(air, initialState, req.NumSteps)
	if err != nil {
		fatal(fmt.Sprintf("Proof generation failed: %v", err))
	}
	logStderr("Proof generated successfully")

	proofBytes, err := proof.Bytes()
	if err != nil {
		fatal(fmt.Sprintf("Failed to serialize proof: %v", err))
	}

	resp := ProveResponse{
		Proof:     proofBytes,
		ProofSize: len(proofBytes),
	}

	if req.Verify {
		verifier, err := xfgstark.NewVerifier(air, xfgstark.DefaultConfig())
		if err != nil {
			fatal(fmt.Sprintf("Failed to create verifier: %v", err))
		}
		result, err := verifier.Verify(proof, initialState)
		if err != nil {
			fatal(fmt.Sprintf("Verification failed: %v", err))
		}
		resp.Verified = &result.Valid
		logStderr(fmt.Sprintf("Verification result: %v (%d ms)", result.Valid, result.VerificationTimeMs))
	}

	out, err := json.Marshal(resp)
	if err != nil {
		fatal(fmt.Sprintf("Failed to serialize response: %v", err))
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
}

func buildAir(req ProveRequest) (*xfgstark.Air, []xfgstark.FieldElement, error) {
	initialState := make([]xfgstark.FieldElement, len(req.InitialState))
	for i, v := range req.InitialState {
		initialState[i] = xfgstark.NewFieldElement(v)
	}

	switch req.Air {
	case "counter":
		if len(initialState) != 1 {
			return nil, nil, fmt.Errorf("counter AIR expects 1 initial register, got %d", len(initialState))
		}
		air, err := xfgstark.NewCounterAir(req.SecurityLevel, initialState[0])
		return air, initialState, err
	case "fibonacci":
		if len(initialState) != 2 {
			return nil, nil, fmt.Errorf("fibonacci AIR expects 2 initial registers, got %d", len(initialState))
		}
		air, err := xfgstark.NewFibonacciAir(req.SecurityLevel, initialState[0], initialState[1])
		return air, initialState, err
	default:
		return nil, nil, fmt.Errorf("unknown AIR %q (supported: counter, fibonacci)", req.Air)
	}
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

func fatal(msg string) {
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", msg)
	os.Exit(1)
}
