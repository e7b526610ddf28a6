package check

import (
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-validate/analyze"
	"github.com/cwbudde/algo-validate/engine"
	"github.com/cwbudde/algo-validate/signal"
)

// sweepValues is the fixed normalized sample set every parameter is swept
// through while all other parameters sit at the neutral midpoint.
var sweepValues = []float64{0, 0.25, 0.5, 0.75, 1}

const (
	neutralValue = 0.5

	// responseThreshold is the minimum RMS spread across the sweep for a
	// parameter to count as audibly effective.
	responseThreshold = 1e-3
)

// ParameterSweep sweeps every parameter of an engine through fixed
// normalized values and records level response, faults, and timing.
type ParameterSweep struct {
	cfg Config
	gen *signal.Generator
}

// NewParameterSweep creates a parameter sweep tester.
func NewParameterSweep(cfg Config) *ParameterSweep {
	cfg = cfg.normalized()

	return &ParameterSweep{
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

// Run sweeps all parameters. Individual call faults are recorded on the
// affected parameter result and never abort the sweep.
func (t *ParameterSweep) Run(e engine.Engine) []ParameterResult {
	count := e.ParameterCount()
	if count <= 0 {
		return nil
	}

	stimulus, err := t.gen.Sine(440, 0.5, t.cfg.BlockSize)
	if err != nil {
		return nil
	}

	results := make([]ParameterResult, 0, count)

	for index := range count {
		results = append(results, t.sweepOne(e, index, stimulus))
	}

	return results
}

func (t *ParameterSweep) sweepOne(e engine.Engine, index int, stimulus []float64) ParameterResult {
	res := ParameterResult{
		Index:  index,
		Name:   e.ParameterName(index),
		MinRMS: math.Inf(1),
	}

	neutral := make(map[int]float64, e.ParameterCount())
	for i := range e.ParameterCount() {
		neutral[i] = neutralValue
	}

	var totalTime time.Duration
	var timedCalls int

	for _, value := range sweepValues {
		if err := guardReset(e); err != nil {
			res.Crashed = true
			res.Issues = append(res.Issues, fmt.Sprintf("reset fault at value %.2f: %v", value, err))

			continue
		}

		if err := guardUpdate(e, neutral); err != nil {
			res.Crashed = true
			res.Issues = append(res.Issues, fmt.Sprintf("neutral update fault: %v", err))

			continue
		}

		if err := guardUpdate(e, map[int]float64{index: value}); err != nil {
			res.Crashed = true
			res.Issues = append(res.Issues, fmt.Sprintf("update fault at value %.2f: %v", value, err))

			continue
		}

		block := blockFrom(stimulus, t.cfg.Channels)

		start := time.Now()
		err := guardProcess(e, block)
		elapsed := time.Since(start)

		if err != nil {
			res.Crashed = true
			res.Issues = append(res.Issues, fmt.Sprintf("process fault at value %.2f: %v", value, err))

			continue
		}

		totalTime += elapsed
		timedCalls++

		for _, buf := range block {
			for _, x := range buf {
				if math.IsNaN(x) {
					res.ProducedNaN = true
				}

				if math.IsInf(x, 0) {
					res.ProducedInf = true
				}
			}
		}

		level := analyze.RMS(block[0])
		if level < res.MinRMS {
			res.MinRMS = level
		}

		if level > res.MaxRMS {
			res.MaxRMS = level
		}
	}

	if math.IsInf(res.MinRMS, 1) {
		res.MinRMS = 0
	}

	if timedCalls > 0 {
		res.MeanCallTime = totalTime / time.Duration(timedCalls)
	}

	if res.ProducedNaN {
		res.Issues = append(res.Issues, "produced NaN output during sweep")
	}

	if res.ProducedInf {
		res.Issues = append(res.Issues, "produced Inf output during sweep")
	}

	spread := res.MaxRMS - res.MinRMS
	res.Responsive = spread > responseThreshold
	res.AudibleEffect = res.Responsive

	if !res.Responsive && !res.Crashed {
		res.Issues = append(res.Issues,
			fmt.Sprintf("no audible effect: RMS spread %.6f below threshold", spread))
	}

	return res
}
