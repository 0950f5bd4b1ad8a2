package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, uint32(128), cfg.SecurityParameter)
	require.Equal(t, 16, cfg.BlowupFactor)
	require.Equal(t, 64, cfg.NumQueries)
	require.Equal(t, "sha3", cfg.HashFunction)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero security parameter", func(c *Config) { c.SecurityParameter = 0 }},
		{"blowup too small", func(c *Config) { c.BlowupFactor = 1 }},
		{"blowup too large", func(c *Config) { c.BlowupFactor = 32 }},
		{"blowup not power of two", func(c *Config) { c.BlowupFactor = 12 }},
		{"zero queries", func(c *Config) { c.NumQueries = 0 }},
		{"unsupported extension degree", func(c *Config) { c.FieldExtensionDegree = 2 }},
		{"negative final degree", func(c *Config) { c.FRIFinalDegree = -1 }},
		{"unknown hash", func(c *Config) { c.HashFunction = "md5" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestConfigBuilders(t *testing.T) {
	cfg := DefaultConfig().
		WithSecurityParameter(64).
		WithBlowupFactor(4).
		WithNumQueries(16).
		WithFRIFinalDegree(2).
		WithHashFunction("sha256")

	require.NoError(t, cfg.Validate())
	require.Equal(t, uint32(64), cfg.SecurityParameter)
	require.Equal(t, 4, cfg.BlowupFactor)
	require.Equal(t, 16, cfg.NumQueries)
	require.Equal(t, 2, cfg.FRIFinalDegree)
	require.Equal(t, "sha256", cfg.HashFunction)
}

func TestConfigClone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.NumQueries = 1
	require.Equal(t, 64, cfg.NumQueries, "clone must not share state")
}

func TestPowerOfTwoHelpers(t *testing.T) {
	require.True(t, IsPowerOfTwo(1))
	require.True(t, IsPowerOfTwo(1024))
	require.False(t, IsPowerOfTwo(0))
	require.False(t, IsPowerOfTwo(12))

	require.Equal(t, 0, Log2(1))
	require.Equal(t, 10, Log2(1024))

	require.Equal(t, 1, NextPowerOfTwo(1))
	require.Equal(t, 8, NextPowerOfTwo(5))
	require.Equal(t, 8, NextPowerOfTwo(8))

	require.Equal(t, 0, CeilLog2(1))
	require.Equal(t, 3, CeilLog2(5))
	require.Equal(t, 3, CeilLog2(8))
}
