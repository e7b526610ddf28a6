package check

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-validate/analyze"
	"github.com/cwbudde/algo-validate/engine"
	"github.com/cwbudde/algo-validate/signal"
)

const (
	// mixLawTolerance is the maximum RMS difference between dry output and
	// unprocessed input.
	mixLawTolerance = 0.01

	// resetFloorRMS is the maximum RMS of post-reset silence output.
	resetFloorRMS = 1e-3

	stabilityLength = 4096

	automationParams = 3
)

// wetDryNames are the parameter names matched (case-insensitively) for the
// mix-law check.
var wetDryNames = map[string]bool{
	"mix":     true,
	"wet":     true,
	"dry":     true,
	"wet/dry": true,
	"dry/wet": true,
	"blend":   true,
}

// Stability checks mix-law correctness, automation robustness, bypass
// behavior, and state-reset correctness.
type Stability struct {
	cfg Config
	gen *signal.Generator
}

// NewStability creates a stability tester.
func NewStability(cfg Config) *Stability {
	cfg = cfg.normalized()

	return &Stability{
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

// Run executes all stability checks.
func (t *Stability) Run(e engine.Engine) StabilityResult {
	res := StabilityResult{
		MixLaw:     true,
		Automation: true,
		Bypass:     true,
		ResetState: true,
	}

	if err := guard(func() { e.Prepare(t.cfg.SampleRate, stabilityLength) }); err != nil {
		res.Automation = false
		res.Issues = append(res.Issues, fmt.Sprintf("prepare fault: %v", err))

		return res
	}

	t.mixLawTest(e, &res)
	t.automationTest(e, &res)
	t.bypassTest(e, &res)
	t.resetTest(e, &res)

	return res
}

// findParameter returns the first parameter index whose name matches the
// given set, or -1.
func findParameter(e engine.Engine, names map[string]bool) (int, string) {
	for i := range e.ParameterCount() {
		name := e.ParameterName(i)
		if names[strings.ToLower(strings.TrimSpace(name))] {
			return i, name
		}
	}

	return -1, ""
}

// mixLawTest verifies that the wet/dry parameter at its fully dry extreme
// reproduces the unprocessed input, and that the fully wet extreme actually
// processes.
func (t *Stability) mixLawTest(e engine.Engine, res *StabilityResult) {
	index, name := findParameter(e, wetDryNames)
	if index < 0 {
		return
	}

	// "dry" names invert: 1.0 is fully dry.
	dryValue := 0.0
	if strings.EqualFold(strings.TrimSpace(name), "dry") {
		dryValue = 1.0
	}

	input, err := t.gen.WhiteNoise(0.5, stabilityLength)
	if err != nil {
		return
	}

	// Push the remaining parameters off neutral so the wet path audibly
	// differs from the dry path.
	offNeutral := make(map[int]float64)
	for i := range e.ParameterCount() {
		if i != index {
			offNeutral[i] = 0.75
		}
	}

	dryOut, err := t.processWith(e, input, offNeutral, map[int]float64{index: dryValue})
	if err != nil {
		res.MixLaw = false
		res.Issues = append(res.Issues, fmt.Sprintf("mix-law dry pass fault: %v", err))

		return
	}

	if diff := rmsDifference(input, dryOut); diff > mixLawTolerance {
		res.MixLaw = false
		res.Issues = append(res.Issues,
			fmt.Sprintf("dry extreme of %q deviates from input by %.4f RMS", name, diff))
	}

	wetOut, err := t.processWith(e, input, offNeutral, map[int]float64{index: 1 - dryValue})
	if err != nil {
		res.MixLaw = false
		res.Issues = append(res.Issues, fmt.Sprintf("mix-law wet pass fault: %v", err))

		return
	}

	if diff := rmsDifference(input, wetOut); diff <= mixLawTolerance {
		res.MixLaw = false
		res.Issues = append(res.Issues,
			fmt.Sprintf("wet extreme of %q does not alter the signal", name))
	}
}

// automationTest hammers the first few parameters with randomized
// simultaneous changes while continuously processing noise.
func (t *Stability) automationTest(e engine.Engine, res *StabilityResult) {
	count := e.ParameterCount()
	if count > automationParams {
		count = automationParams
	}

	noise, err := t.gen.WhiteNoise(0.5, t.cfg.BlockSize)
	if err != nil {
		return
	}

	rng := rand.New(rand.NewSource(t.cfg.Seed))

	if err := guardReset(e); err != nil {
		res.Automation = false
		res.Issues = append(res.Issues, fmt.Sprintf("automation reset fault: %v", err))

		return
	}

	for iter := range t.cfg.AutomationIterations {
		values := make(map[int]float64, count)
		for i := range count {
			values[i] = rng.Float64()
		}

		if err := guardUpdate(e, values); err != nil {
			res.Automation = false
			res.Issues = append(res.Issues,
				fmt.Sprintf("automation iteration %d: update fault: %v", iter, err))

			return
		}

		block := blockFrom(noise, t.cfg.Channels)

		if err := guardProcess(e, block); err != nil {
			res.Automation = false
			res.Issues = append(res.Issues,
				fmt.Sprintf("automation iteration %d: process fault: %v", iter, err))

			return
		}

		if anyNonFinite(block) {
			res.Automation = false
			res.Issues = append(res.Issues,
				fmt.Sprintf("automation iteration %d: non-finite output", iter))

			return
		}
	}
}

// bypassTest only applies to engines exposing a bypass-named parameter:
// engaged bypass must reproduce the input.
func (t *Stability) bypassTest(e engine.Engine, res *StabilityResult) {
	index, name := findParameter(e, map[string]bool{"bypass": true})
	if index < 0 {
		return
	}

	input, err := t.gen.WhiteNoise(0.5, stabilityLength)
	if err != nil {
		return
	}

	out, err := t.processWith(e, input, nil, map[int]float64{index: 1})
	if err != nil {
		res.Bypass = false
		res.Issues = append(res.Issues, fmt.Sprintf("bypass fault: %v", err))

		return
	}

	if diff := rmsDifference(input, out); diff > mixLawTolerance {
		res.Bypass = false
		res.Issues = append(res.Issues,
			fmt.Sprintf("engaged %q deviates from input by %.4f RMS", name, diff))
	}
}

// resetTest clears state and requires near-silent output on silence. It is
// run twice; diverging outcomes indicate state that survives reset.
func (t *Stability) resetTest(e engine.Engine, res *StabilityResult) {
	first, firstErr := t.resetOnce(e)
	second, secondErr := t.resetOnce(e)

	if firstErr != nil || secondErr != nil {
		res.ResetState = false
		res.Issues = append(res.Issues, "reset check faulted")

		return
	}

	if !first || !second {
		res.ResetState = false
		res.Issues = append(res.Issues, "output not silent after reset")

		return
	}
}

func (t *Stability) resetOnce(e engine.Engine) (bool, error) {
	// Excite internal state first so a lazy reset is caught.
	noise, err := t.gen.WhiteNoise(0.9, t.cfg.BlockSize)
	if err != nil {
		return false, err
	}

	excite := blockFrom(noise, t.cfg.Channels)
	if err := guardProcess(e, excite); err != nil {
		return false, err
	}

	if err := guardReset(e); err != nil {
		return false, err
	}

	silence := makeBlock(t.cfg.Channels, t.cfg.BlockSize)
	if err := guardProcess(e, silence); err != nil {
		return false, err
	}

	for _, buf := range silence {
		if analyze.RMS(buf) > resetFloorRMS {
			return false, nil
		}
	}

	return true, nil
}

// processWith resets, applies base then override parameters, and processes
// the stimulus once.
func (t *Stability) processWith(e engine.Engine, input []float64, base, override map[int]float64) ([]float64, error) {
	if err := guardReset(e); err != nil {
		return nil, err
	}

	if len(base) > 0 {
		if err := guardUpdate(e, base); err != nil {
			return nil, err
		}
	}

	if err := guardUpdate(e, override); err != nil {
		return nil, err
	}

	block := blockFrom(input, t.cfg.Channels)

	if err := guardProcess(e, block); err != nil {
		return nil, err
	}

	if anyNonFinite(block) {
		return nil, fmt.Errorf("non-finite output")
	}

	return block[0], nil
}

// rmsDifference returns the RMS of the sample-wise difference between two
// equal-length signals.
func rmsDifference(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	if n == 0 {
		return 0
	}

	var sumSq float64

	for i := range n {
		d := a[i] - b[i]
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return math.MaxFloat64
		}

		sumSq += d * d
	}

	return math.Sqrt(sumSq / float64(n))
}
