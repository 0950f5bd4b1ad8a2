package utils

import "fmt"

// Supported hash functions for the Fiat-Shamir channel.
var supportedHashFunctions = map[string]bool{
	"sha3":   true,
	"sha256": true,
}

// Config collects the proof-system parameters shared by the prover and the
// verifier. A proof generated under one config verifies only under an
// equivalent config.
type Config struct {
	// SecurityParameter is the target security level in bits.
	SecurityParameter uint32
	// BlowupFactor is the ratio of the evaluation domain to the trace
	// length. Must be a power of two.
	BlowupFactor int
	// NumQueries is the number of spot checks the verifier performs per
	// FRI layer.
	NumQueries int
	// FieldExtensionDegree selects the extension degree of the base field
	// used during proving. Only degree 1 is supported.
	FieldExtensionDegree uint32
	// FRIFinalDegree is the degree bound at which FRI folding stops and
	// the remaining polynomial is sent in the clear.
	FRIFinalDegree int
	// HashFunction names the hash used by the Fiat-Shamir channel. Merkle
	// commitments always use SHA3-256.
	HashFunction string
}

// DefaultConfig returns the standard parameter set: 128-bit security, 16x
// blowup, 64 queries, SHA3-256.
func DefaultConfig() *Config {
	return &Config{
		SecurityParameter:    128,
		BlowupFactor:         16,
		NumQueries:           64,
		FieldExtensionDegree: 1,
		FRIFinalDegree:       4,
		HashFunction:         "sha3",
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.SecurityParameter == 0 {
		return fmt.Errorf("security parameter must be positive")
	}
	if c.BlowupFactor < 2 || c.BlowupFactor > 16 {
		return fmt.Errorf("blowup factor must be between 2 and 16, got %d", c.BlowupFactor)
	}
	if !IsPowerOfTwo(c.BlowupFactor) {
		return fmt.Errorf("blowup factor must be a power of two, got %d", c.BlowupFactor)
	}
	if c.NumQueries < 1 {
		return fmt.Errorf("number of queries must be positive, got %d", c.NumQueries)
	}
	if c.FieldExtensionDegree != 1 {
		return fmt.Errorf("unsupported field extension degree %d", c.FieldExtensionDegree)
	}
	if c.FRIFinalDegree < 0 {
		return fmt.Errorf("FRI final degree must be non-negative, got %d", c.FRIFinalDegree)
	}
	if !supportedHashFunctions[c.HashFunction] {
		return fmt.Errorf("unsupported hash function %q", c.HashFunction)
	}
	return nil
}

// WithSecurityParameter returns the config with the security parameter set.
func (c *Config) WithSecurityParameter(bits uint32) *Config {
	c.SecurityParameter = bits
	return c
}

// WithBlowupFactor returns the config with the blowup factor set.
func (c *Config) WithBlowupFactor(factor int) *Config {
	c.BlowupFactor = factor
	return c
}

// WithNumQueries returns the config with the query count set.
func (c *Config) WithNumQueries(n int) *Config {
	c.NumQueries = n
	return c
}

// WithFRIFinalDegree returns the config with the FRI final degree set.
func (c *Config) WithFRIFinalDegree(degree int) *Config {
	c.FRIFinalDegree = degree
	return c
}

// WithHashFunction returns the config with the hash function set.
func (c *Config) WithHashFunction(name string) *Config {
	c.HashFunction = name
	return c
}

// Clone returns a copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
