// Package engine defines the contract every audio-processing unit under
// validation must satisfy, plus the integer-id registry the harness iterates.
package engine

// Engine is the narrow processing contract the harness depends on.
// Implementations are free to serialize internally; the harness never
// shares a buffer between concurrent Process calls.
type Engine interface {
	// Prepare configures the engine for a sample rate and maximum block
	// length. It must be callable again to change the configuration.
	Prepare(sampleRate float64, maxBlockSamples int)

	// Process transforms a multi-channel block in place. Block length may be
	// anything from 1 upward; the engine must never resize the slices.
	Process(block [][]float64)

	// Reset clears all internal state (filter memory, delay lines, envelope
	// followers) without requiring a new Prepare.
	Reset()

	// UpdateParameters applies a sparse set of normalized [0,1] values by
	// parameter index. Unspecified indices keep their prior value.
	UpdateParameters(values map[int]float64)

	ParameterCount() int
	ParameterName(index int) string
	DisplayName() string
}
