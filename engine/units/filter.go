package units

import (
	"github.com/cwbudde/algo-dsp/dsp/filter/moog"
	"github.com/cwbudde/algo-validate/engine"
)

// moogFilterUnit wraps the moog ladder filter per channel.
type moogFilterUnit struct {
	base

	sampleRate float64
	chans      []*moog.Filter
}

func newMoogFilter() (engine.Engine, error) {
	m := &moogFilterUnit{sampleRate: 48000}

	initBase(&m.base, "MoogFilter", []paramSpec{
		{name: "Cutoff", def: 0.7},
		{name: "Resonance", def: 0.2},
		{name: "Drive", def: 0.1},
	})
	m.base.apply = m.applyParam

	return m, nil
}

func (m *moogFilterUnit) applyParam(index int, v float64) {
	for _, fx := range m.chans {
		applyMoogParam(fx, index, v)
	}
}

func applyMoogParam(fx *moog.Filter, index int, v float64) {
	switch index {
	case 0:
		_ = fx.SetCutoffHz(logmap(v, 20, 18000))
	case 1:
		_ = fx.SetResonance(lin(v, 0, 3.5))
	case 2:
		_ = fx.SetDrive(lin(v, 0.1, 4))
	}
}

func (m *moogFilterUnit) Prepare(sampleRate float64, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sampleRate = sampleRate
	for _, fx := range m.chans {
		_ = fx.SetSampleRate(sampleRate)
	}
}

func (m *moogFilterUnit) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, fx := range m.chans {
		fx.Reset()
	}
}

func (m *moogFilterUnit) Process(block [][]float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ok := growChans(&m.base, &m.chans, len(block), func() (*moog.Filter, error) {
		return moog.New(m.sampleRate)
	})
	if !ok {
		zeroBlock(block)
		return
	}

	for ch, buf := range block {
		m.chans[ch].ProcessInPlace(buf)
	}
}
