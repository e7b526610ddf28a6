package units

import (
	"github.com/cwbudde/algo-dsp/dsp/effects/modulation"
	"github.com/cwbudde/algo-validate/engine"
)

// chorusUnit wraps modulation.Chorus per channel.
type chorusUnit struct {
	base

	sampleRate float64
	chans      []*modulation.Chorus
}

func newChorus() (engine.Engine, error) {
	c := &chorusUnit{sampleRate: 48000}

	initBase(&c.base, "Chorus", []paramSpec{
		{name: "Speed", def: 0.3},
		{name: "Depth", def: 0.4},
		{name: "Mix", def: 0.5},
	})
	c.base.apply = c.applyParam

	return c, nil
}

func (c *chorusUnit) applyParam(index int, v float64) {
	for _, fx := range c.chans {
		applyChorusParam(fx, index, v)
	}
}

func applyChorusParam(fx *modulation.Chorus, index int, v float64) {
	switch index {
	case 0:
		_ = fx.SetSpeedHz(logmap(v, 0.05, 5))
	case 1:
		_ = fx.SetDepth(lin(v, 0.0005, 0.008))
	case 2:
		_ = fx.SetMix(v)
	}
}

func (c *chorusUnit) Prepare(sampleRate float64, _ int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sampleRate = sampleRate
	for _, fx := range c.chans {
		_ = fx.SetSampleRate(sampleRate)
	}
}

func (c *chorusUnit) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, fx := range c.chans {
		fx.Reset()
	}
}

func (c *chorusUnit) Process(block [][]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ok := growChans(&c.base, &c.chans, len(block), func() (*modulation.Chorus, error) {
		fx, err := modulation.NewChorus()
		if err != nil {
			return nil, err
		}

		if err := fx.SetSampleRate(c.sampleRate); err != nil {
			return nil, err
		}

		return fx, nil
	})
	if !ok {
		zeroBlock(block)
		return
	}

	for ch, buf := range block {
		c.chans[ch].ProcessInPlace(buf)
	}
}

// flangerUnit wraps modulation.Flanger per channel. The effect is
// sample-oriented, so processing loops per sample.
type flangerUnit struct {
	base

	sampleRate float64
	chans      []*modulation.Flanger
}

func newFlanger() (engine.Engine, error) {
	f := &flangerUnit{sampleRate: 48000}

	initBase(&f.base, "Flanger", []paramSpec{
		{name: "Rate", def: 0.3},
		{name: "Depth", def: 0.4},
		{name: "Feedback", def: 0.4},
		{name: "Mix", def: 0.5},
	})
	f.base.apply = f.applyParam

	return f, nil
}

func (f *flangerUnit) applyParam(index int, v float64) {
	for _, fx := range f.chans {
		applyFlangerParam(fx, index, v)
	}
}

func applyFlangerParam(fx *modulation.Flanger, index int, v float64) {
	switch index {
	case 0:
		_ = fx.SetRateHz(logmap(v, 0.05, 5))
	case 1:
		_ = fx.SetDepthSeconds(lin(v, 0, 0.005))
	case 2:
		_ = fx.SetFeedback(lin(v, -0.9, 0.9))
	case 3:
		_ = fx.SetMix(v)
	}
}

func (f *flangerUnit) Prepare(sampleRate float64, _ int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sampleRate = sampleRate
	for _, fx := range f.chans {
		_ = fx.SetSampleRate(sampleRate)
	}
}

func (f *flangerUnit) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, fx := range f.chans {
		fx.Reset()
	}
}

func (f *flangerUnit) Process(block [][]float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ok := growChans(&f.base, &f.chans, len(block), func() (*modulation.Flanger, error) {
		return modulation.NewFlanger(f.sampleRate)
	})
	if !ok {
		zeroBlock(block)
		return
	}

	for ch, buf := range block {
		fx := f.chans[ch]
		for i, x := range buf {
			buf[i] = fx.Process(x)
		}
	}
}

// phaserUnit wraps modulation.Phaser per channel.
type phaserUnit struct {
	base

	sampleRate float64
	chans      []*modulation.Phaser
}

func newPhaser() (engine.Engine, error) {
	p := &phaserUnit{sampleRate: 48000}

	initBase(&p.base, "Phaser", []paramSpec{
		{name: "Rate", def: 0.3},
		{name: "Feedback", def: 0.3},
		{name: "Mix", def: 0.5},
	})
	p.base.apply = p.applyParam

	return p, nil
}

func (p *phaserUnit) applyParam(index int, v float64) {
	for _, fx := range p.chans {
		applyPhaserParam(fx, index, v)
	}
}

func applyPhaserParam(fx *modulation.Phaser, index int, v float64) {
	switch index {
	case 0:
		_ = fx.SetRateHz(logmap(v, 0.05, 5))
	case 1:
		_ = fx.SetFeedback(lin(v, 0, 0.9))
	case 2:
		_ = fx.SetMix(v)
	}
}

func (p *phaserUnit) Prepare(sampleRate float64, _ int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sampleRate = sampleRate
	for _, fx := range p.chans {
		_ = fx.SetSampleRate(sampleRate)
	}
}

func (p *phaserUnit) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, fx := range p.chans {
		fx.Reset()
	}
}

func (p *phaserUnit) Process(block [][]float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ok := growChans(&p.base, &p.chans, len(block), func() (*modulation.Phaser, error) {
		return modulation.NewPhaser(p.sampleRate)
	})
	if !ok {
		zeroBlock(block)
		return
	}

	for ch, buf := range block {
		fx := p.chans[ch]
		for i, x := range buf {
			buf[i] = fx.Process(x)
		}
	}
}
