package check

import (
	"math"
	"time"
)

// fakeEngine is a configurable in-memory engine used across the tester
// tests. The zero value is a well-behaved passthrough with a Gain and Mix
// parameter, NaN sanitization, and a clean reset.
type fakeEngine struct {
	name   string
	params []string
	values map[int]float64

	// behavior switches
	passNonFinite bool          // propagate NaN/Inf instead of flushing
	emitNaN       bool          // inject NaN into every output block
	stuckTone     bool          // output a free-running tone regardless of input
	dirtyReset    bool          // keep ringing after reset
	panicOnCall   bool          // panic inside Process
	sleepPerCall  time.Duration // simulated processing cost
	latency       int           // delay output by this many samples
	leakRipple    bool          // add a faint blip ahead of the delayed output
	ignoreMix     bool          // break the mix law

	sampleRate float64
	phase      float64
	residue    float64
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		name:   "Fake",
		params: []string{"Gain", "Mix"},
		values: map[int]float64{0: 0.5, 1: 1},
	}
}

func (f *fakeEngine) Prepare(sampleRate float64, _ int) {
	f.sampleRate = sampleRate
}

func (f *fakeEngine) Reset() {
	f.phase = 0

	if !f.dirtyReset {
		f.residue = 0
	}
}

func (f *fakeEngine) UpdateParameters(values map[int]float64) {
	if f.values == nil {
		f.values = make(map[int]float64)
	}

	for i, v := range values {
		if i >= 0 && i < len(f.params) {
			f.values[i] = v
		}
	}
}

func (f *fakeEngine) ParameterCount() int { return len(f.params) }

func (f *fakeEngine) ParameterName(index int) string {
	if index < 0 || index >= len(f.params) {
		return ""
	}

	return f.params[index]
}

func (f *fakeEngine) DisplayName() string { return f.name }

func (f *fakeEngine) Process(block [][]float64) {
	if f.panicOnCall {
		panic("fake engine fault")
	}

	if f.sleepPerCall > 0 {
		time.Sleep(f.sleepPerCall)
	}

	gain := 0.25 + f.values[0]*1.5 // 0.25x .. 1.75x
	mix := f.values[1]

	if f.ignoreMix {
		mix = 1
	}

	for _, buf := range block {
		for i, x := range buf {
			if !f.passNonFinite && (math.IsNaN(x) || math.IsInf(x, 0)) {
				x = 0
			}

			// Flush denormal input like a well-behaved engine.
			if math.Abs(x) < 1e-300 {
				x = 0
			}

			wet := x * gain
			buf[i] = x*(1-mix) + wet*mix
		}
	}

	if f.latency > 0 {
		for _, buf := range block {
			shifted := make([]float64, len(buf))
			copy(shifted[f.latency:], buf)
			copy(buf, shifted)
		}
	}

	if f.leakRipple {
		for _, buf := range block {
			if len(buf) > 0 {
				buf[0] += 1e-3
			}
		}
	}

	if f.stuckTone {
		sr := f.sampleRate
		if sr <= 0 {
			sr = 44100
		}

		step := 2 * math.Pi * 440 / sr
		phase := f.phase

		for _, buf := range block {
			phase = f.phase
			for i := range buf {
				buf[i] += 0.1 * math.Sin(phase)
				phase += step
			}
		}

		f.phase = phase
	}

	if f.dirtyReset {
		// Residual state that survives Reset and leaks into output.
		f.residue = 0.05

		for _, buf := range block {
			for i := range buf {
				buf[i] += f.residue
			}
		}
	}

	if f.emitNaN {
		for _, buf := range block {
			if len(buf) > 0 {
				buf[0] = math.NaN()
			}
		}
	}
}

// testConfig keeps tester iteration counts small enough for fast tests.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.BlockSize = 256
	cfg.PerfIterations = 50
	cfg.AutomationIterations = 20

	return cfg
}
