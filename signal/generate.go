// Package signal generates the deterministic test stimuli the validation
// harness feeds through engines under test.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/core"
)

// Generator creates deterministic stimuli from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}

	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.cfg.SampleRate)
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}

	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}

	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out, nil
}

// Impulse generates a single-sample impulse at the given position.
func (g *Generator) Impulse(position int, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse samples must be > 0: %d", samples)
	}

	if position < 0 || position >= samples {
		return nil, fmt.Errorf("impulse position out of range: %d (length %d)", position, samples)
	}

	out := make([]float64, samples)
	out[position] = amplitude

	return out, nil
}

// Ramp generates a linear ramp from 0 to amplitude.
func (g *Generator) Ramp(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("ramp samples must be > 0: %d", samples)
	}

	out := make([]float64, samples)
	if samples == 1 {
		out[0] = amplitude
		return out, nil
	}

	for i := range out {
		out[i] = amplitude * float64(i) / float64(samples-1)
	}

	return out, nil
}

// Sweep generates a logarithmic sine sweep. The instantaneous frequency
// rises exponentially from startHz to endHz:
//
//	f(t) = f1 * exp(t/T * ln(f2/f1))
//
// with the phase given by the closed-form integral of f(t).
func (g *Generator) Sweep(startHz, endHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sweep samples must be > 0: %d", samples)
	}

	if startHz <= 0 || endHz <= 0 {
		return nil, fmt.Errorf("sweep frequencies must be > 0: %f, %f", startHz, endHz)
	}

	if startHz >= endHz {
		return nil, fmt.Errorf("sweep start frequency must be < end frequency: %f >= %f", startHz, endHz)
	}

	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sweep sample rate must be > 0: %f", g.cfg.SampleRate)
	}

	out := make([]float64, samples)

	T := float64(samples) / g.cfg.SampleRate
	lnRatio := math.Log(endHz / startHz)

	for i := range out {
		t := float64(i) / g.cfg.SampleRate
		phase := 2 * math.Pi * startHz * T / lnRatio * (math.Exp(t/T*lnRatio) - 1)
		out[i] = amplitude * math.Sin(phase)
	}

	return out, nil
}

// MultiTone generates a sum of sine tones. frequencies and amplitudes must
// have the same length.
func (g *Generator) MultiTone(frequencies, amplitudes []float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("multitone samples must be > 0: %d", samples)
	}

	if len(frequencies) == 0 {
		return nil, fmt.Errorf("multitone needs at least one frequency")
	}

	if len(frequencies) != len(amplitudes) {
		return nil, fmt.Errorf("multitone frequency/amplitude count mismatch: %d vs %d",
			len(frequencies), len(amplitudes))
	}

	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("multitone sample rate must be > 0: %f", g.cfg.SampleRate)
	}

	out := make([]float64, samples)

	for k, freq := range frequencies {
		step := 2 * math.Pi * freq / g.cfg.SampleRate
		amp := amplitudes[k]

		for i := range out {
			out[i] += amp * math.Sin(step*float64(i))
		}
	}

	return out, nil
}

// BandNoise generates deterministic noise band-limited to [lowHz, highHz]
// by zeroing spectrum bins outside the band and transforming back.
func (g *Generator) BandNoise(lowHz, highHz, amplitude float64, samples int) ([]float64, error) {
	if lowHz < 0 || highHz <= lowHz {
		return nil, fmt.Errorf("band noise range invalid: [%f, %f]", lowHz, highHz)
	}

	noise, err := g.WhiteNoise(1, samples)
	if err != nil {
		return nil, err
	}

	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("band noise sample rate must be > 0: %f", g.cfg.SampleRate)
	}

	fftSize := nextPowerOf2(samples)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("band noise fft plan: %w", err)
	}

	timeData := make([]complex128, fftSize)
	for i, v := range noise {
		timeData[i] = complex(v, 0)
	}

	freqData := make([]complex128, fftSize)

	err = plan.Forward(freqData, timeData)
	if err != nil {
		return nil, fmt.Errorf("band noise forward fft: %w", err)
	}

	binHz := g.cfg.SampleRate / float64(fftSize)
	lowBin := int(math.Ceil(lowHz / binHz))
	highBin := int(math.Floor(highHz / binHz))

	for i := 0; i <= fftSize/2; i++ {
		if i < lowBin || i > highBin {
			freqData[i] = 0

			// mirror bin
			if i > 0 && i < fftSize/2 {
				freqData[fftSize-i] = 0
			}
		}
	}

	err = plan.Inverse(timeData, freqData)
	if err != nil {
		return nil, fmt.Errorf("band noise inverse fft: %w", err)
	}

	out := make([]float64, samples)
	peak := 0.0

	for i := range out {
		out[i] = real(timeData[i])
		if a := math.Abs(out[i]); a > peak {
			peak = a
		}
	}

	if peak > 0 {
		scale := amplitude / peak
		for i := range out {
			out[i] *= scale
		}
	}

	return out, nil
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
