package analyze

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-validate/internal/testutil"
)

func TestRMSKnownSignal(t *testing.T) {
	sine := testutil.DeterministicSine(1000, 44100, 1, 44100)

	// Full-scale sine has RMS 1/sqrt(2).
	got := RMS(sine)
	testutil.RequireNear(t, got, 1/math.Sqrt2, 1e-3)
}

func TestRMSToleratesNonFinite(t *testing.T) {
	samples := []float64{0.5, math.NaN(), -0.5, math.Inf(1)}

	got := RMS(samples)
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("RMS propagated non-finite value: %v", got)
	}
}

func TestPeakIgnoresNonFinite(t *testing.T) {
	samples := []float64{0.25, math.Inf(1), -0.75}

	testutil.RequireNear(t, Peak(samples), 0.75, 0)
}

func TestDCOffset(t *testing.T) {
	samples := make([]float64, 1000)
	for i := range samples {
		samples[i] = 0.1
	}

	testutil.RequireNear(t, DC(samples), 0.1, 1e-12)
}

func TestContainsNonFinite(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    bool
	}{
		{"clean", []float64{0, 0.5, -1}, false},
		{"nan", []float64{0, math.NaN()}, true},
		{"posinf", []float64{math.Inf(1)}, true},
		{"neginf", []float64{math.Inf(-1)}, true},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsNonFinite(tt.samples); got != tt.want {
				t.Fatalf("ContainsNonFinite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContainsDenormal(t *testing.T) {
	if ContainsDenormal([]float64{0, 1, -1}) {
		t.Fatal("normal values flagged as denormal")
	}

	if !ContainsDenormal([]float64{1e-320}) {
		t.Fatal("denormal value not detected")
	}
}

func TestAmpToDBFloor(t *testing.T) {
	if got := AmpToDB(0); got != FloorDB {
		t.Fatalf("AmpToDB(0) = %v, want floor %v", got, FloorDB)
	}

	if got := AmpToDB(math.NaN()); got != FloorDB {
		t.Fatalf("AmpToDB(NaN) = %v, want floor %v", got, FloorDB)
	}

	testutil.RequireNear(t, AmpToDB(1), 0, 1e-12)
	testutil.RequireNear(t, AmpToDB(0.5), -6.0206, 1e-3)
}

func TestSNRFromSilentFloor(t *testing.T) {
	if got := SNR(1, 0); got != -FloorDB {
		t.Fatalf("SNR with silent floor = %v, want %v", got, -FloorDB)
	}

	testutil.RequireNear(t, SNR(1, 0.001), 60, 1e-9)
}

func TestCrestFactorSine(t *testing.T) {
	sine := testutil.DeterministicSine(1000, 44100, 0.5, 44100)

	testutil.RequireNear(t, CrestFactor(sine), math.Sqrt2, 1e-3)
}
