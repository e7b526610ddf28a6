// Package testutil provides deterministic signals and tolerance helpers for
// harness tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// StereoBlock duplicates a mono signal into a two-channel block.
func StereoBlock(mono []float64) [][]float64 {
	left := make([]float64, len(mono))
	right := make([]float64, len(mono))
	copy(left, mono)
	copy(right, mono)
	return [][]float64{left, right}
}

// SilentBlock allocates a zeroed multi-channel block.
func SilentBlock(channels, length int) [][]float64 {
	block := make([][]float64, channels)
	for ch := range block {
		block[ch] = make([]float64, length)
	}
	return block
}
