package units

import (
	"github.com/cwbudde/algo-dsp/dsp/effects"
	"github.com/cwbudde/algo-validate/engine"
)

// distortionUnit wraps effects.Distortion per channel.
type distortionUnit struct {
	base

	sampleRate float64
	chans      []*effects.Distortion
}

func newDistortion() (engine.Engine, error) {
	d := &distortionUnit{sampleRate: 48000}

	initBase(&d.base, "Distortion", []paramSpec{
		{name: "Drive", def: 0.25},
		{name: "Shape", def: 0.5},
		{name: "Output", def: 0.5},
		{name: "Mix", def: 1},
	})
	d.base.apply = d.applyParam

	return d, nil
}

func (d *distortionUnit) applyParam(index int, v float64) {
	for _, fx := range d.chans {
		applyDistortionParam(fx, index, v)
	}
}

func applyDistortionParam(fx *effects.Distortion, index int, v float64) {
	switch index {
	case 0:
		_ = fx.SetDrive(logmap(v, 0.1, 10))
	case 1:
		_ = fx.SetShape(v)
	case 2:
		_ = fx.SetOutputLevel(lin(v, 0, 2))
	case 3:
		_ = fx.SetMix(v)
	}
}

func (d *distortionUnit) Prepare(sampleRate float64, _ int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sampleRate = sampleRate
	for _, fx := range d.chans {
		_ = fx.SetSampleRate(sampleRate)
	}
}

func (d *distortionUnit) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, fx := range d.chans {
		fx.Reset()
	}
}

func (d *distortionUnit) Process(block [][]float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ok := growChans(&d.base, &d.chans, len(block), func() (*effects.Distortion, error) {
		return effects.NewDistortion(d.sampleRate)
	})
	if !ok {
		zeroBlock(block)
		return
	}

	for ch, buf := range block {
		d.chans[ch].ProcessInPlace(buf)
	}
}

// delayUnit wraps effects.Delay per channel.
type delayUnit struct {
	base

	sampleRate float64
	chans      []*effects.Delay
}

func newDelay() (engine.Engine, error) {
	d := &delayUnit{sampleRate: 48000}

	initBase(&d.base, "Delay", []paramSpec{
		{name: "Time", def: 0.25},
		{name: "Feedback", def: 0.3},
		{name: "Mix", def: 0.5},
	})
	d.base.apply = d.applyParam

	return d, nil
}

func (d *delayUnit) applyParam(index int, v float64) {
	for _, fx := range d.chans {
		applyDelayParam(fx, index, v)
	}
}

func applyDelayParam(fx *effects.Delay, index int, v float64) {
	switch index {
	case 0:
		_ = fx.SetTime(lin(v, 0.01, 1))
	case 1:
		_ = fx.SetFeedback(lin(v, 0, 0.9))
	case 2:
		_ = fx.SetMix(v)
	}
}

func (d *delayUnit) Prepare(sampleRate float64, _ int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sampleRate = sampleRate
	for _, fx := range d.chans {
		_ = fx.SetSampleRate(sampleRate)
	}
}

func (d *delayUnit) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, fx := range d.chans {
		fx.Reset()
	}
}

func (d *delayUnit) Process(block [][]float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ok := growChans(&d.base, &d.chans, len(block), func() (*effects.Delay, error) {
		return effects.NewDelay(d.sampleRate)
	})
	if !ok {
		zeroBlock(block)
		return
	}

	for ch, buf := range block {
		d.chans[ch].ProcessInPlace(buf)
	}
}

// bitCrusherUnit wraps effects.BitCrusher per channel.
type bitCrusherUnit struct {
	base

	sampleRate float64
	chans      []*effects.BitCrusher
}

func newBitCrusher() (engine.Engine, error) {
	b := &bitCrusherUnit{sampleRate: 48000}

	initBase(&b.base, "BitCrusher", []paramSpec{
		{name: "BitDepth", def: 0.75},
		{name: "Downsample", def: 0},
		{name: "Mix", def: 1},
	})
	b.base.apply = b.applyParam

	return b, nil
}

func (b *bitCrusherUnit) applyParam(index int, v float64) {
	for _, fx := range b.chans {
		applyBitCrusherParam(fx, index, v)
	}
}

func applyBitCrusherParam(fx *effects.BitCrusher, index int, v float64) {
	switch index {
	case 0:
		_ = fx.SetBitDepth(lin(v, 2, 16))
	case 1:
		_ = fx.SetDownsample(1 + int(lin(v, 0, 15)))
	case 2:
		_ = fx.SetMix(v)
	}
}

func (b *bitCrusherUnit) Prepare(sampleRate float64, _ int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sampleRate = sampleRate
	for _, fx := range b.chans {
		_ = fx.SetSampleRate(sampleRate)
	}
}

func (b *bitCrusherUnit) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, fx := range b.chans {
		fx.Reset()
	}
}

func (b *bitCrusherUnit) Process(block [][]float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ok := growChans(&b.base, &b.chans, len(block), func() (*effects.BitCrusher, error) {
		return effects.NewBitCrusher(b.sampleRate)
	})
	if !ok {
		zeroBlock(block)
		return
	}

	for ch, buf := range block {
		b.chans[ch].ProcessInPlace(buf)
	}
}
