package analyze

import (
	"github.com/cwbudde/algo-dsp/dsp/window"
	"github.com/cwbudde/algo-dsp/measure/thd"
)

// THDEstimate returns the total-harmonic-distortion ratio of a tonal
// response, summing up to harmonicCount harmonics of fundamentalHz. It is a
// gross-defect detector, not a precision measurement: non-finite input
// collapses to silence first, and a signal with no detectable fundamental
// reports 0.
func THDEstimate(samples []float64, fundamentalHz, sampleRate float64, harmonicCount int) float64 {
	if len(samples) == 0 || fundamentalHz <= 0 || sampleRate <= 0 {
		return 0
	}

	res := thd.AnalyzeSignal(sanitize(samples), thd.Config{
		SampleRate:      sampleRate,
		FundamentalFreq: fundamentalHz,
		MaxHarmonics:    harmonicCount,
		WindowType:      window.TypeHann,
	})

	if res.FundamentalLevel <= 0 {
		return 0
	}

	return res.THD
}
