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

const (
	warmupIterations = 10

	// realtimeCeilingPercent is the maximum per-call share of the block
	// budget an engine may use and still count as real-time capable.
	realtimeCeilingPercent = 80.0

	// onsetThreshold is the magnitude above which an impulse response is
	// considered to have started.
	onsetThreshold = 1e-4

	latencyProbeLength = 4096
)

// Profiler measures per-call processing cost against the real-time budget
// and the onset latency of an engine. All measurement state lives on the
// instance, so multiple profilers can run side by side.
type Profiler struct {
	cfg     Config
	gen     *signal.Generator
	timings []time.Duration
}

// NewProfiler creates a performance profiler.
func NewProfiler(cfg Config) *Profiler {
	cfg = cfg.normalized()

	return &Profiler{
		cfg: cfg,
		gen: signal.NewGenerator(
			[]core.ProcessorOption{
				core.WithSampleRate(cfg.SampleRate),
				core.WithBlockSize(cfg.BlockSize),
			},
			signal.WithSeed(cfg.Seed),
		),
		timings: make([]time.Duration, 0, cfg.PerfIterations),
	}
}

// Run profiles the engine: warmup, timed iterations on steady noise, then
// an impulse probe for onset latency.
func (t *Profiler) Run(e engine.Engine) PerformanceResult {
	res := PerformanceResult{Realtime: true}

	if err := guard(func() { e.Prepare(t.cfg.SampleRate, latencyProbeLength) }); err != nil {
		res.Realtime = false
		res.Bottleneck = fmt.Sprintf("prepare fault: %v", err)

		return res
	}

	noise, err := t.gen.WhiteNoise(0.5, t.cfg.BlockSize)
	if err != nil {
		return res
	}

	block := blockFrom(noise, t.cfg.Channels)

	for range warmupIterations {
		if err := guardProcess(e, block); err != nil {
			res.Realtime = false
			res.Bottleneck = fmt.Sprintf("warmup fault: %v", err)

			return res
		}
	}

	t.timings = t.timings[:0]

	for range t.cfg.PerfIterations {
		start := time.Now()
		err := guardProcess(e, block)
		elapsed := time.Since(start)

		if err != nil {
			res.Realtime = false
			res.Bottleneck = fmt.Sprintf("process fault during profiling: %v", err)

			return res
		}

		t.timings = append(t.timings, elapsed)
	}

	budget := time.Duration(float64(t.cfg.BlockSize) / t.cfg.SampleRate * float64(time.Second))
	if budget <= 0 {
		return res
	}

	var total time.Duration
	var peak time.Duration

	for _, d := range t.timings {
		total += d
		if d > peak {
			peak = d
		}
	}

	mean := total / time.Duration(len(t.timings))

	res.MeanCPUPercent = float64(mean) / float64(budget) * 100
	res.PeakCPUPercent = float64(peak) / float64(budget) * 100
	res.Realtime = res.PeakCPUPercent <= realtimeCeilingPercent

	switch {
	case !res.Realtime && res.MeanCPUPercent > realtimeCeilingPercent/2:
		res.Bottleneck = "consistently heavy processing"
	case !res.Realtime:
		res.Bottleneck = "occasional per-call spikes"
	}

	res.LatencySamples = t.measureLatency(e)

	return res
}

// measureLatency feeds a single impulse and returns the delay of the output
// relative to the stimulus, or -1 when the engine emits nothing above the
// onset threshold.
func (t *Profiler) measureLatency(e engine.Engine) int {
	if err := guardReset(e); err != nil {
		return -1
	}

	impulse, err := t.gen.Impulse(0, 1.0, latencyProbeLength)
	if err != nil {
		return -1
	}

	block := blockFrom(impulse, t.cfg.Channels)

	if err := guardProcess(e, block); err != nil {
		return -1
	}

	onset := -1

	for i, x := range block[0] {
		if math.Abs(x) > onsetThreshold {
			onset = i
			break
		}
	}

	if onset < 0 {
		return -1
	}

	// Cross-correlation against the stimulus survives engines that smear
	// the impulse, where the raw onset scan fires early on pre-ringing.
	lag, err := analyze.CrossCorrelationLag(impulse, block[0], latencyProbeLength/2)
	if err != nil || lag < 0 {
		return onset
	}

	return lag
}
