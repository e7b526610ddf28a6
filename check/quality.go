package check

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-validate/analyze"
	"github.com/cwbudde/algo-validate/engine"
	"github.com/cwbudde/algo-validate/signal"
)

// toneFrequencies is the representative set for the tonal response check.
var toneFrequencies = []float64{100, 250, 500, 1000, 2500, 5000, 10000}

const (
	qualityLength = 8192

	// runawayGainRatio flags output exceeding input by more than 20 dB.
	runawayGainRatio = 10.0

	// ringingEnergyThreshold bounds the energy allowed in the second half
	// of an impulse response.
	ringingEnergyThreshold = 0.01

	// silenceFloorRMS is the maximum output RMS for silent input.
	silenceFloorRMS = 0.001

	thdHarmonics = 5

	// nominalReference is the level SNR is derived against.
	nominalReference = 1.0
)

// Quality runs the fixed audio quality battery: tonal response, noise
// stability, transient response, clipping behavior, and silence behavior.
type Quality struct {
	cfg Config
	gen *signal.Generator
}

// NewQuality creates an audio quality tester.
func NewQuality(cfg Config) *Quality {
	cfg = cfg.normalized()

	return &Quality{
		cfg: cfg,
		gen: signal.NewGenerator(
			[]core.ProcessorOption{
				core.WithSampleRate(cfg.SampleRate),
				core.WithBlockSize(cfg.BlockSize),
			},
			signal.WithSeed(cfg.Seed),
		),
	}
}

// Run executes the battery with the engine's parameters at their current
// (default) values.
func (t *Quality) Run(e engine.Engine) QualityResult {
	res := QualityResult{
		TonalResponse:     true,
		NoiseStability:    true,
		TransientResponse: true,
		ClippingBehavior:  true,
		SilenceBehavior:   true,
	}

	if err := t.prepare(e); err != nil {
		res.TonalResponse = false
		res.Issues = append(res.Issues, fmt.Sprintf("prepare fault: %v", err))

		return res
	}

	t.tonalTest(e, &res)
	t.noiseTest(e, &res)
	t.transientTest(e, &res)
	t.clippingTest(e, &res)
	t.silenceTest(e, &res)
	t.bandGains(e, &res)

	return res
}

// tonalTest sweeps representative tones, flags runaway gain, and
// accumulates the averaged THD estimate.
func (t *Quality) tonalTest(e engine.Engine, res *QualityResult) {
	var thdSum float64
	var thdCount int

	for _, freq := range toneFrequencies {
		stimulus, err := t.gen.Sine(freq, 0.25, qualityLength)
		if err != nil {
			continue
		}

		inRMS := analyze.RMS(stimulus)

		block, err := t.process(e, stimulus)
		if err != nil {
			res.TonalResponse = false
			res.Issues = append(res.Issues, fmt.Sprintf("tone %.0f Hz: process fault: %v", freq, err))

			continue
		}

		if anyNonFinite(block) {
			res.TonalResponse = false
			res.Issues = append(res.Issues, fmt.Sprintf("tone %.0f Hz: non-finite output", freq))

			continue
		}

		outRMS := analyze.RMS(block[0])
		if outRMS > inRMS*runawayGainRatio {
			res.TonalResponse = false
			res.Issues = append(res.Issues,
				fmt.Sprintf("runaway gain at %.0f Hz: output %.3f vs input %.3f RMS", freq, outRMS, inRMS))
		}

		thdSum += analyze.THDEstimate(block[0], freq, t.cfg.SampleRate, thdHarmonics)
		thdCount++
	}

	if thdCount > 0 {
		res.THD = thdSum / float64(thdCount)
	}
}

// noiseTest feeds white noise and requires the output peak to stay within
// full scale.
func (t *Quality) noiseTest(e engine.Engine, res *QualityResult) {
	noise, err := t.gen.WhiteNoise(0.5, qualityLength)
	if err != nil {
		return
	}

	block, err := t.process(e, noise)
	if err != nil {
		res.NoiseStability = false
		res.Issues = append(res.Issues, fmt.Sprintf("noise test: process fault: %v", err))

		return
	}

	if anyNonFinite(block) {
		res.NoiseStability = false
		res.Issues = append(res.Issues, "noise test: non-finite output")

		return
	}

	if peak := analyze.Peak(block[0]); peak > 1.0 {
		res.NoiseStability = false
		res.Issues = append(res.Issues, fmt.Sprintf("noise output peaked at %.3f above full scale", peak))
	}
}

// transientTest checks that an impulse response decays instead of ringing.
func (t *Quality) transientTest(e engine.Engine, res *QualityResult) {
	impulse, err := t.gen.Impulse(0, 1.0, qualityLength/2)
	if err != nil {
		return
	}

	block, err := t.process(e, impulse)
	if err != nil {
		res.TransientResponse = false
		res.Issues = append(res.Issues, fmt.Sprintf("transient test: process fault: %v", err))

		return
	}

	out := block[0]
	tail := out[len(out)/2:]

	var tailEnergy float64

	for _, x := range tail {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			res.TransientResponse = false
			res.Issues = append(res.Issues, "transient test: non-finite output")

			return
		}

		tailEnergy += x * x
	}

	if tailEnergy > ringingEnergyThreshold {
		res.TransientResponse = false
		res.Issues = append(res.Issues,
			fmt.Sprintf("impulse tail carries %.4f energy, uncontrolled ringing", tailEnergy))
	}
}

// clippingTest drives a near-full-scale sine and requires the output not to
// exceed full scale.
func (t *Quality) clippingTest(e engine.Engine, res *QualityResult) {
	stimulus, err := t.gen.Sine(1000, 0.99, qualityLength)
	if err != nil {
		return
	}

	block, err := t.process(e, stimulus)
	if err != nil {
		res.ClippingBehavior = false
		res.Issues = append(res.Issues, fmt.Sprintf("clipping test: process fault: %v", err))

		return
	}

	if peak := analyze.Peak(block[0]); peak > 1.0 {
		res.ClippingBehavior = false
		res.Issues = append(res.Issues, fmt.Sprintf("near-full-scale input clipped to %.3f", peak))
	}
}

// silenceTest processes silence after a reset and checks for self-noise,
// DC offset, or free-running oscillation. SNR derives from the measured
// floor.
func (t *Quality) silenceTest(e engine.Engine, res *QualityResult) {
	if err := guardReset(e); err != nil {
		res.SilenceBehavior = false
		res.Issues = append(res.Issues, fmt.Sprintf("silence test: reset fault: %v", err))

		return
	}

	block := makeBlock(t.cfg.Channels, qualityLength)

	if err := guardProcess(e, block); err != nil {
		res.SilenceBehavior = false
		res.Issues = append(res.Issues, fmt.Sprintf("silence test: process fault: %v", err))

		return
	}

	floor := analyze.RMS(block[0])
	res.SNRdB = analyze.SNR(nominalReference, floor)
	res.DCOffset = analyze.DC(block[0])

	if floor > silenceFloorRMS {
		res.SilenceBehavior = false
		res.Issues = append(res.Issues,
			fmt.Sprintf("silent input produced %.6f RMS output", floor))
	}
}

// bandGains records the coarse low/mid/high gain of the engine against a
// log sweep. Informational: it feeds the detailed report, not a pass flag.
func (t *Quality) bandGains(e engine.Engine, res *QualityResult) {
	stimulus, err := t.gen.Sweep(30, 16000, 0.25, qualityLength)
	if err != nil {
		return
	}

	block, err := t.process(e, stimulus)
	if err != nil || anyNonFinite(block) {
		return
	}

	inMag, err := analyze.MagnitudeSpectrum(stimulus, analyze.DefaultFFTSize)
	if err != nil {
		return
	}

	outMag, err := analyze.MagnitudeSpectrum(block[0], analyze.DefaultFFTSize)
	if err != nil {
		return
	}

	bands := analyze.StandardBands()

	gains, err := analyze.BandGainDB(inMag, outMag, bands, t.cfg.SampleRate)
	if err != nil {
		return
	}

	res.BandGainsDB = make(map[string]float64, len(bands))
	for i, band := range bands {
		res.BandGainsDB[band.Name] = gains[i]
	}
}

func (t *Quality) process(e engine.Engine, stimulus []float64) ([][]float64, error) {
	if err := guardReset(e); err != nil {
		return nil, err
	}

	block := blockFrom(stimulus, t.cfg.Channels)

	if err := guardProcess(e, block); err != nil {
		return nil, err
	}

	return block, nil
}

func (t *Quality) prepare(e engine.Engine) error {
	err := guard(func() {
		e.Prepare(t.cfg.SampleRate, qualityLength)
	})
	if err != nil {
		return err
	}

	return guardReset(e)
}
