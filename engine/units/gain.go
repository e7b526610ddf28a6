package units

import (
	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-validate/engine"
)

// gainUnit is the simplest built-in unit: a smoothed wide-range gain with a
// wet/dry mix. It doubles as the reference unit for mix-law checks.
type gainUnit struct {
	base

	gain float64 // linear
	mix  float64

	// one-pole smoothing state per channel
	smoothed []float64
}

func newGain() (engine.Engine, error) {
	g := &gainUnit{
		gain: 1,
		mix:  1,
	}

	initBase(&g.base, "Gain", []paramSpec{
		{name: "Gain", def: 0.5},
		{name: "Mix", def: 1},
	})
	g.base.apply = g.applyParam
	g.base.reapply()

	return g, nil
}

func (g *gainUnit) applyParam(index int, v float64) {
	switch index {
	case 0:
		g.gain = core.DBToLinear(lin(v, -24, 24))
	case 1:
		g.mix = v
	}
}

func (g *gainUnit) Prepare(_ float64, _ int) {}

func (g *gainUnit) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.smoothed {
		g.smoothed[i] = g.gain
	}
}

func (g *gainUnit) Process(block [][]float64) {
	const smoothing = 0.995

	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.smoothed) < len(block) {
		grown := make([]float64, len(block))
		copy(grown, g.smoothed)

		for i := len(g.smoothed); i < len(grown); i++ {
			grown[i] = g.gain
		}

		g.smoothed = grown
	}

	for ch, buf := range block {
		s := g.smoothed[ch]
		for i, x := range buf {
			s = s*smoothing + g.gain*(1-smoothing)
			buf[i] = x*(1-g.mix) + x*s*g.mix
		}

		g.smoothed[ch] = s
	}
}
