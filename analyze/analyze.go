// Package analyze computes the scalar and spectral metrics the harness uses
// to judge engine output: levels, magnitude spectra, band gains, THD, and
// cross-correlation lag.
//
// Unlike a mastering-grade analyzer, every function here tolerates
// non-finite input: NaN and Inf samples are treated as silence and dB
// measures bottom out at FloorDB instead of propagating NaN. Detection of
// non-finite output is a separate, explicit concern (ContainsNonFinite).
package analyze

import "math"

// FloorDB is the sentinel floor for all dB-valued measurements.
const FloorDB = -120.0

// RMS returns the root-mean-square level of the signal. Non-finite samples
// contribute zero.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sumSq float64

	for _, x := range samples {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}

		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(samples)))
}

// Peak returns the peak absolute amplitude. Non-finite samples are ignored.
func Peak(samples []float64) float64 {
	peak := 0.0

	for _, x := range samples {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}

		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return peak
}

// DC returns the mean of the signal using Kahan summation. Non-finite
// samples contribute zero.
func DC(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum, c float64

	for _, x := range samples {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}

		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(samples))
}

// CrestFactor returns peak / RMS, or 0 when the signal is silent.
func CrestFactor(samples []float64) float64 {
	r := RMS(samples)
	if r == 0 {
		return 0
	}

	return Peak(samples) / r
}

// ContainsNonFinite reports whether any sample is NaN or Inf.
func ContainsNonFinite(samples []float64) bool {
	for _, x := range samples {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return true
		}
	}

	return false
}

// ContainsDenormal reports whether any sample has a magnitude below the
// smallest normal float64 but above zero. Denormal output starves real-time
// pipelines on several architectures.
func ContainsDenormal(samples []float64) bool {
	const smallestNormal = 2.2250738585072014e-308

	for _, x := range samples {
		a := math.Abs(x)
		if a > 0 && a < smallestNormal {
			return true
		}
	}

	return false
}

// AmpToDB converts a linear amplitude to dB, bottoming out at FloorDB for
// zero, negative, or non-finite input.
func AmpToDB(amp float64) float64 {
	if amp <= 0 || math.IsNaN(amp) || math.IsInf(amp, 0) {
		return FloorDB
	}

	db := 20 * math.Log10(amp)
	if db < FloorDB {
		return FloorDB
	}

	return db
}

// SNR returns the signal-to-noise ratio in dB between a nominal reference
// level and a measured noise floor, capped at -FloorDB for silent floors.
func SNR(referenceLevel, noiseFloorRMS float64) float64 {
	if referenceLevel <= 0 {
		return 0
	}

	if noiseFloorRMS <= 0 || math.IsNaN(noiseFloorRMS) || math.IsInf(noiseFloorRMS, 0) {
		return -FloorDB
	}

	snr := 20 * math.Log10(referenceLevel/noiseFloorRMS)
	if snr > -FloorDB {
		return -FloorDB
	}

	return snr
}

// sanitize returns a copy of samples with non-finite values replaced by
// zero, or the original slice when it is already clean.
func sanitize(samples []float64) []float64 {
	clean := true

	for _, x := range samples {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			clean = false
			break
		}
	}

	if clean {
		return samples
	}

	out := make([]float64, len(samples))

	for i, x := range samples {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}

		out[i] = x
	}

	return out
}
