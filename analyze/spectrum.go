package analyze

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// DefaultFFTSize gives sub-11 Hz bin resolution at 44.1 kHz.
const DefaultFFTSize = 4096

// FreqRange names one frequency band for band-gain measurements.
type FreqRange struct {
	Name   string
	LowHz  float64
	HighHz float64
}

// StandardBands covers the coarse low/mid/high split used by the quality
// tester.
func StandardBands() []FreqRange {
	return []FreqRange{
		{Name: "low", LowHz: 20, HighHz: 250},
		{Name: "mid", LowHz: 250, HighHz: 4000},
		{Name: "high", LowHz: 4000, HighHz: 16000},
	}
}

// MagnitudeSpectrum returns |X[k]| for bins 0..fftSize/2 of the
// Hann-windowed signal, zero-padded when the signal is shorter than
// fftSize. fftSize must be a power of two; non-finite input samples are
// treated as silence.
func MagnitudeSpectrum(samples []float64, fftSize int) ([]float64, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("fft size must be a power of two >= 2: %d", fftSize)
	}

	clean := sanitize(samples)
	if len(clean) > fftSize {
		clean = clean[:fftSize]
	}

	coeffs := window.Generate(window.TypeHann, len(clean))

	timeData := make([]complex128, fftSize)

	for i, v := range clean {
		w := 1.0
		if len(coeffs) == len(clean) {
			w = coeffs[i]
		}

		timeData[i] = complex(v*w, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("magnitude spectrum plan: %w", err)
	}

	freqData := make([]complex128, fftSize)

	err = plan.Forward(freqData, timeData)
	if err != nil {
		return nil, fmt.Errorf("magnitude spectrum fft: %w", err)
	}

	binCount := fftSize/2 + 1
	re := make([]float64, binCount)
	im := make([]float64, binCount)

	for i := range binCount {
		re[i] = real(freqData[i])
		im[i] = imag(freqData[i])
	}

	out := make([]float64, binCount)
	vecmath.Magnitude(out, re, im)

	return out, nil
}

// BandGainDB returns the output/input energy ratio per range in dB. Both
// spectra must come from the same fftSize. Silent input bands report
// FloorDB.
func BandGainDB(inputMag, outputMag []float64, ranges []FreqRange, sampleRate float64) ([]float64, error) {
	if len(inputMag) != len(outputMag) {
		return nil, fmt.Errorf("spectrum length mismatch: %d vs %d", len(inputMag), len(outputMag))
	}

	if len(inputMag) < 2 {
		return nil, fmt.Errorf("spectrum too short: %d bins", len(inputMag))
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}

	fftSize := 2 * (len(inputMag) - 1)
	binHz := sampleRate / float64(fftSize)

	gains := make([]float64, len(ranges))

	for r, fr := range ranges {
		lowBin := clampInt(int(math.Ceil(fr.LowHz/binHz)), 0, len(inputMag)-1)
		highBin := clampInt(int(math.Floor(fr.HighHz/binHz)), lowBin, len(inputMag)-1)

		var inEnergy, outEnergy float64

		for i := lowBin; i <= highBin; i++ {
			inEnergy += inputMag[i] * inputMag[i]
			outEnergy += outputMag[i] * outputMag[i]
		}

		if inEnergy <= 0 || outEnergy <= 0 {
			gains[r] = FloorDB
			continue
		}

		db := 10 * math.Log10(outEnergy/inEnergy)
		if db < FloorDB {
			db = FloorDB
		}

		gains[r] = db
	}

	return gains, nil
}

func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}

	if val > hi {
		return hi
	}

	return val
}
