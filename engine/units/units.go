// Package units provides the built-in engines: thin adapters that expose
// algo-dsp effects through the multi-channel Engine contract. Each channel
// owns its own effect instance so modulation and delay state never bleeds
// between channels.
package units

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-validate/engine"
)

// paramSpec describes one normalized parameter of a unit.
type paramSpec struct {
	name string
	def  float64 // normalized default
}

// base carries the parameter bookkeeping shared by every built-in unit.
// The owning unit supplies apply to push a normalized value into its
// effect instances. Units may be driven from several goroutines at once,
// so every mutating method serializes on mu; the owning unit locks the
// same mutex inside Prepare, Reset, and Process.
type base struct {
	mu     sync.Mutex
	name   string
	specs  []paramSpec
	values []float64
	apply  func(index int, value float64)
}

func initBase(b *base, name string, specs []paramSpec) {
	b.name = name
	b.specs = specs
	b.values = make([]float64, len(specs))

	for i, s := range specs {
		b.values[i] = s.def
	}
}

// DisplayName returns the unit's display name.
func (b *base) DisplayName() string { return b.name }

// ParameterCount returns the number of exposed parameters.
func (b *base) ParameterCount() int { return len(b.specs) }

// ParameterName returns the name of the parameter at index, or "" when
// the index is out of range.
func (b *base) ParameterName(index int) string {
	if index < 0 || index >= len(b.specs) {
		return ""
	}

	return b.specs[index].name
}

// UpdateParameters applies a sparse set of normalized values. Out-of-range
// indices are ignored; values are clamped to [0,1] and non-finite values
// are dropped.
func (b *base) UpdateParameters(values map[int]float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for index, v := range values {
		if index < 0 || index >= len(b.specs) {
			continue
		}

		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}

		v = clamp01(v)
		b.values[index] = v

		if b.apply != nil {
			b.apply(index, v)
		}
	}
}

// reapply pushes every stored value through apply, used after new channel
// instances are created.
func (b *base) reapply() {
	if b.apply == nil {
		return
	}

	for i, v := range b.values {
		b.apply(i, v)
	}
}

// growChans appends effect instances until chans holds one per channel and
// reapplies the stored parameter values so new instances match the old ones.
// It reports whether construction succeeded. Callers hold the unit mutex.
func growChans[T any](b *base, chans *[]T, want int, newFx func() (T, error)) bool {
	for len(*chans) < want {
		fx, err := newFx()
		if err != nil {
			return false
		}

		*chans = append(*chans, fx)
		b.reapply()
	}

	return true
}

// zeroBlock silences every channel. Units fall back to it when an effect
// instance cannot be constructed, so a broken unit is heard as silence
// rather than passing input through unprocessed.
func zeroBlock(block [][]float64) {
	for _, buf := range block {
		for i := range buf {
			buf[i] = 0
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}

// lin maps a normalized value onto the linear range [lo, hi].
func lin(v, lo, hi float64) float64 {
	return lo + clamp01(v)*(hi-lo)
}

// logmap maps a normalized value onto [lo, hi] with logarithmic spacing,
// the natural mapping for frequencies.
func logmap(v, lo, hi float64) float64 {
	if lo <= 0 || hi <= lo {
		return lo
	}

	return lo * math.Exp(clamp01(v)*math.Log(hi/lo))
}

// DefaultRegistry returns a Registry pre-populated with all built-in units.
func DefaultRegistry() *engine.Registry {
	r := engine.NewRegistry()

	r.MustRegister(1, newGain)
	r.MustRegister(2, newDistortion)
	r.MustRegister(3, newDelay)
	r.MustRegister(4, newBitCrusher)
	r.MustRegister(5, newChorus)
	r.MustRegister(6, newFlanger)
	r.MustRegister(7, newPhaser)
	r.MustRegister(8, newMoogFilter)

	return r
}
