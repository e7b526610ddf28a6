package check

import "github.com/cwbudde/algo-validate/analyze"

// Config holds the shared settings every tester consumes.
type Config struct {
	SampleRate           float64
	BlockSize            int
	Channels             int
	Seed                 int64
	PerfIterations       int
	AutomationIterations int
}

// DefaultConfig returns the standard harness test configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate:           44100,
		BlockSize:            512,
		Channels:             2,
		Seed:                 1,
		PerfIterations:       1000,
		AutomationIterations: 100,
	}
}

func (c Config) normalized() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = 44100
	}

	if c.BlockSize <= 0 {
		c.BlockSize = 512
	}

	if c.Channels <= 0 {
		c.Channels = 2
	}

	if c.Seed == 0 {
		c.Seed = 1
	}

	if c.PerfIterations <= 0 {
		c.PerfIterations = 1000
	}

	if c.AutomationIterations <= 0 {
		c.AutomationIterations = 100
	}

	return c
}

// makeBlock allocates a zeroed multi-channel block.
func makeBlock(channels, samples int) [][]float64 {
	block := make([][]float64, channels)
	for ch := range block {
		block[ch] = make([]float64, samples)
	}

	return block
}

// blockFrom duplicates a mono stimulus into every channel of a new block.
func blockFrom(mono []float64, channels int) [][]float64 {
	block := make([][]float64, channels)
	for ch := range block {
		buf := make([]float64, len(mono))
		copy(buf, mono)
		block[ch] = buf
	}

	return block
}

// anyNonFinite reports whether any channel of the block carries NaN or Inf.
func anyNonFinite(block [][]float64) bool {
	for _, buf := range block {
		if analyze.ContainsNonFinite(buf) {
			return true
		}
	}

	return false
}
