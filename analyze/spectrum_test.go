package analyze

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-validate/internal/testutil"
)

func TestMagnitudeSpectrumPeakBin(t *testing.T) {
	const (
		sampleRate = 44100.0
		fftSize    = 4096
		freq       = 1000.0
	)

	sine := testutil.DeterministicSine(freq, sampleRate, 1, fftSize)

	mag, err := MagnitudeSpectrum(sine, fftSize)
	if err != nil {
		t.Fatalf("MagnitudeSpectrum() error = %v", err)
	}

	if len(mag) != fftSize/2+1 {
		t.Fatalf("bin count = %d, want %d", len(mag), fftSize/2+1)
	}

	peakBin := 0
	for i, v := range mag {
		if v > mag[peakBin] {
			peakBin = i
		}
	}

	wantBin := int(math.Round(freq / sampleRate * fftSize))
	if peakBin != wantBin {
		t.Fatalf("peak bin = %d, want %d", peakBin, wantBin)
	}
}

func TestMagnitudeSpectrumZeroPadsShortInput(t *testing.T) {
	sine := testutil.DeterministicSine(1000, 44100, 1, 100)

	mag, err := MagnitudeSpectrum(sine, 1024)
	if err != nil {
		t.Fatalf("MagnitudeSpectrum() error = %v", err)
	}

	if len(mag) != 513 {
		t.Fatalf("bin count = %d, want 513", len(mag))
	}
}

func TestMagnitudeSpectrumRejectsBadSize(t *testing.T) {
	_, err := MagnitudeSpectrum([]float64{1, 2, 3}, 1000)
	if err == nil {
		t.Fatal("non-power-of-two fft size should error")
	}
}

func TestMagnitudeSpectrumToleratesNaN(t *testing.T) {
	samples := testutil.DeterministicSine(1000, 44100, 1, 1024)
	samples[0] = math.NaN()

	mag, err := MagnitudeSpectrum(samples, 1024)
	if err != nil {
		t.Fatalf("MagnitudeSpectrum() error = %v", err)
	}

	testutil.RequireFinite(t, mag)
}

func TestBandGainIdenticalSpectraIsUnity(t *testing.T) {
	sine := testutil.DeterministicSine(1000, 44100, 1, 4096)

	mag, err := MagnitudeSpectrum(sine, 4096)
	if err != nil {
		t.Fatalf("MagnitudeSpectrum() error = %v", err)
	}

	gains, err := BandGainDB(mag, mag, StandardBands(), 44100)
	if err != nil {
		t.Fatalf("BandGainDB() error = %v", err)
	}

	// The mid band holds the tone; identical spectra give 0 dB there.
	testutil.RequireNear(t, gains[1], 0, 1e-9)
}

func TestBandGainSilentBandReportsFloor(t *testing.T) {
	silent := make([]float64, 2049)
	gains, err := BandGainDB(silent, silent, StandardBands(), 44100)
	if err != nil {
		t.Fatalf("BandGainDB() error = %v", err)
	}

	for i, g := range gains {
		if g != FloorDB {
			t.Fatalf("band %d gain = %v, want floor", i, g)
		}
	}
}

func TestBandGainRejectsLengthMismatch(t *testing.T) {
	_, err := BandGainDB(make([]float64, 10), make([]float64, 11), StandardBands(), 44100)
	if err == nil {
		t.Fatal("length mismatch should error")
	}
}

func TestTHDEstimateCleanVersusClipped(t *testing.T) {
	const (
		sampleRate = 44100.0
		freq       = 1000.0
	)

	clean := testutil.DeterministicSine(freq, sampleRate, 0.5, 8192)

	clipped := make([]float64, len(clean))
	for i, x := range clean {
		// Hard clipping folds energy into odd harmonics.
		clipped[i] = math.Max(-0.25, math.Min(0.25, x))
	}

	cleanTHD := THDEstimate(clean, freq, sampleRate, 5)
	clippedTHD := THDEstimate(clipped, freq, sampleRate, 5)

	if clippedTHD <= cleanTHD {
		t.Fatalf("clipped THD %v not above clean THD %v", clippedTHD, cleanTHD)
	}

	if clippedTHD < 0.05 {
		t.Fatalf("hard-clipped sine THD %v suspiciously low", clippedTHD)
	}
}

func TestTHDEstimateSilentInput(t *testing.T) {
	if got := THDEstimate(make([]float64, 4096), 1000, 44100, 5); got != 0 {
		t.Fatalf("silent THD = %v, want 0", got)
	}
}

func TestCrossCorrelationLagDetectsShift(t *testing.T) {
	const shift = 37

	a := testutil.DeterministicNoise(3, 0.5, 2048)

	b := make([]float64, len(a))
	copy(b[shift:], a[:len(a)-shift])

	lag, err := CrossCorrelationLag(a, b, 128)
	if err != nil {
		t.Fatalf("CrossCorrelationLag() error = %v", err)
	}

	if lag != shift {
		t.Fatalf("lag = %d, want %d", lag, shift)
	}
}

func TestCrossCorrelationLagZeroForIdentical(t *testing.T) {
	a := testutil.DeterministicNoise(5, 0.5, 1024)

	lag, err := CrossCorrelationLag(a, a, 64)
	if err != nil {
		t.Fatalf("CrossCorrelationLag() error = %v", err)
	}

	if lag != 0 {
		t.Fatalf("lag = %d, want 0", lag)
	}
}

func TestCrossCorrelationLagRejectsEmpty(t *testing.T) {
	_, err := CrossCorrelationLag(nil, []float64{1}, 4)
	if err == nil {
		t.Fatal("empty input should error")
	}
}
