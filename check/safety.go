package check

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-validate/analyze"
	"github.com/cwbudde/algo-validate/engine"
	"github.com/cwbudde/algo-validate/signal"
)

// atypicalBlockSizes exercises block lengths a host may legally deliver.
var atypicalBlockSizes = []int{1, 17, 64, 256, 1024, 4096}

const (
	denormalMagnitude = 1e-320

	concurrentWorkers    = 4
	concurrentIterations = 25
)

// Safety runs the fixed safety battery: non-finite input handling, denormal
// handling, block-size tolerance, and concurrent-call tolerance.
type Safety struct {
	cfg Config
	gen *signal.Generator
}

// NewSafety creates a safety tester.
func NewSafety(cfg Config) *Safety {
	cfg = cfg.normalized()

	return &Safety{
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

// Run executes the battery. Every engine call is isolated; a fault converts
// to a recorded failure, never a harness crash.
func (t *Safety) Run(e engine.Engine) SafetyResult {
	res := SafetyResult{NoFaults: true}

	res.NaNInput = t.nonFiniteTest(e, &res, math.NaN(), "NaN")
	res.InfInput = t.nonFiniteTest(e, &res, math.Inf(1), "Inf")
	res.DenormalInput = t.denormalTest(e, &res)
	res.BlockSizes = t.blockSizeTest(e, &res)
	res.ConcurrentCalls = t.concurrentTest(e, &res)

	return res
}

// nonFiniteTest injects a single poisoned sample and requires the output to
// be fully finite.
func (t *Safety) nonFiniteTest(e engine.Engine, res *SafetyResult, poison float64, label string) bool {
	if err := t.prepare(e); err != nil {
		res.NoFaults = false
		res.Failures = append(res.Failures, fmt.Sprintf("%s test: prepare fault: %v", label, err))

		return false
	}

	stimulus, err := t.gen.Sine(440, 0.5, t.cfg.BlockSize)
	if err != nil {
		return false
	}

	block := blockFrom(stimulus, t.cfg.Channels)
	block[0][0] = poison

	if err := guardProcess(e, block); err != nil {
		res.NoFaults = false
		res.Failures = append(res.Failures, fmt.Sprintf("%s test: process fault: %v", label, err))

		return false
	}

	if anyNonFinite(block) {
		res.Failures = append(res.Failures, fmt.Sprintf("%s input propagated to output", label))
		return false
	}

	return true
}

// denormalTest feeds denormal-magnitude input and requires the output to be
// free of denormals, both immediately and after a silent follow-up block.
func (t *Safety) denormalTest(e engine.Engine, res *SafetyResult) bool {
	if err := t.prepare(e); err != nil {
		res.NoFaults = false
		res.Failures = append(res.Failures, fmt.Sprintf("denormal test: prepare fault: %v", err))

		return false
	}

	block := makeBlock(t.cfg.Channels, t.cfg.BlockSize)
	for _, buf := range block {
		for i := range buf {
			buf[i] = denormalMagnitude
		}
	}

	if err := guardProcess(e, block); err != nil {
		res.NoFaults = false
		res.Failures = append(res.Failures, fmt.Sprintf("denormal test: process fault: %v", err))

		return false
	}

	tail := makeBlock(t.cfg.Channels, t.cfg.BlockSize)
	if err := guardProcess(e, tail); err != nil {
		res.NoFaults = false
		res.Failures = append(res.Failures, fmt.Sprintf("denormal test: silence fault: %v", err))

		return false
	}

	for _, buf := range append(block, tail...) {
		if analyze.ContainsDenormal(buf) {
			res.Failures = append(res.Failures, "denormal input produced denormal output")
			return false
		}
	}

	return true
}

// blockSizeTest re-runs a short noise buffer at every atypical block size.
func (t *Safety) blockSizeTest(e engine.Engine, res *SafetyResult) bool {
	maxSize := atypicalBlockSizes[len(atypicalBlockSizes)-1]

	if err := guard(func() { e.Prepare(t.cfg.SampleRate, maxSize) }); err != nil {
		res.NoFaults = false
		res.Failures = append(res.Failures, fmt.Sprintf("block size test: prepare fault: %v", err))

		return false
	}

	pass := true

	for _, size := range atypicalBlockSizes {
		noise, err := t.gen.WhiteNoise(0.5, size)
		if err != nil {
			continue
		}

		block := blockFrom(noise, t.cfg.Channels)

		if err := guardProcess(e, block); err != nil {
			res.NoFaults = false
			res.Failures = append(res.Failures, fmt.Sprintf("block size %d: process fault: %v", size, err))
			pass = false

			continue
		}

		if anyNonFinite(block) {
			res.Failures = append(res.Failures, fmt.Sprintf("block size %d: non-finite output", size))
			pass = false
		}
	}

	return pass
}

// concurrentTest invokes Process from several goroutines, each owning an
// independent buffer. The failure flag is monotonic: workers only ever set
// it, so there is no race on clearing.
func (t *Safety) concurrentTest(e engine.Engine, res *SafetyResult) bool {
	if err := t.prepare(e); err != nil {
		res.NoFaults = false
		res.Failures = append(res.Failures, fmt.Sprintf("concurrency test: prepare fault: %v", err))

		return false
	}

	noise, err := t.gen.WhiteNoise(0.5, t.cfg.BlockSize)
	if err != nil {
		return false
	}

	var failed atomic.Bool
	var wg sync.WaitGroup

	for range concurrentWorkers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			block := blockFrom(noise, t.cfg.Channels)

			for range concurrentIterations {
				if err := guardProcess(e, block); err != nil {
					failed.Store(true)
					return
				}

				if anyNonFinite(block) {
					failed.Store(true)
					return
				}
			}
		}()
	}

	wg.Wait()

	if failed.Load() {
		res.NoFaults = false
		res.Failures = append(res.Failures, "concurrent processing faulted or produced non-finite output")

		return false
	}

	return true
}

func (t *Safety) prepare(e engine.Engine) error {
	err := guard(func() {
		e.Prepare(t.cfg.SampleRate, t.cfg.BlockSize)
	})
	if err != nil {
		return err
	}

	return guardReset(e)
}
