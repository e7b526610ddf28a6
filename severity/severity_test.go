package severity

import (
	"strings"
	"testing"

	"github.com/cwbudde/algo-validate/check"
)

// cleanReport returns a report with every check passing.
func cleanReport() check.Report {
	return check.Report{
		Identity: check.Identity{ID: 1, Name: "Clean", ParameterCount: 2},
		Created:  true,
		Parameters: []check.ParameterResult{
			{Index: 0, Name: "Gain", Responsive: true, AudibleEffect: true},
			{Index: 1, Name: "Mix", Responsive: true, AudibleEffect: true},
		},
		Safety: check.SafetyResult{
			NaNInput: true, InfInput: true, DenormalInput: true,
			BlockSizes: true, ConcurrentCalls: true, NoFaults: true,
		},
		Quality: check.QualityResult{
			TonalResponse: true, NoiseStability: true, TransientResponse: true,
			ClippingBehavior: true, SilenceBehavior: true,
		},
		Performance: check.PerformanceResult{Realtime: true},
		Stability: check.StabilityResult{
			MixLaw: true, Automation: true, Bypass: true, ResetState: true,
		},
	}
}

func TestScoreCleanReportIsZero(t *testing.T) {
	if got := Score(cleanReport(), DefaultWeights()); got != 0 {
		t.Fatalf("Score = %d, want 0", got)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	r := cleanReport()
	r.Safety.NaNInput = false
	r.Stability.ResetState = false

	first := Score(r, DefaultWeights())

	for range 10 {
		if got := Score(r, DefaultWeights()); got != first {
			t.Fatalf("Score = %d on repeat, first run gave %d", got, first)
		}
	}
}

func TestScoreCreationFailure(t *testing.T) {
	r := check.Report{Identity: check.Identity{ID: 7, Name: "Broken"}}

	if got := Score(r, DefaultWeights()); got != MaxScore {
		t.Fatalf("Score = %d, want %d for construction failure", got, MaxScore)
	}
}

// Flipping any single pass flag to fail must never lower the score.
func TestScoreMonotonic(t *testing.T) {
	base := Score(cleanReport(), DefaultWeights())

	degrade := []struct {
		name  string
		apply func(*check.Report)
	}{
		{"crash", func(r *check.Report) { r.Crashed = true }},
		{"nanInput", func(r *check.Report) { r.Safety.NaNInput = false }},
		{"infInput", func(r *check.Report) { r.Safety.InfInput = false }},
		{"denormal", func(r *check.Report) { r.Safety.DenormalInput = false }},
		{"blockSizes", func(r *check.Report) { r.Safety.BlockSizes = false }},
		{"concurrent", func(r *check.Report) { r.Safety.ConcurrentCalls = false }},
		{"noFaults", func(r *check.Report) { r.Safety.NoFaults = false }},
		{"tonal", func(r *check.Report) { r.Quality.TonalResponse = false }},
		{"noise", func(r *check.Report) { r.Quality.NoiseStability = false }},
		{"transient", func(r *check.Report) { r.Quality.TransientResponse = false }},
		{"clipping", func(r *check.Report) { r.Quality.ClippingBehavior = false }},
		{"silence", func(r *check.Report) { r.Quality.SilenceBehavior = false }},
		{"realtime", func(r *check.Report) { r.Performance.Realtime = false }},
		{"mixLaw", func(r *check.Report) { r.Stability.MixLaw = false }},
		{"automation", func(r *check.Report) { r.Stability.Automation = false }},
		{"bypass", func(r *check.Report) { r.Stability.Bypass = false }},
		{"reset", func(r *check.Report) { r.Stability.ResetState = false }},
		{"paramFault", func(r *check.Report) { r.Parameters[0].Crashed = true }},
		{"paramNaN", func(r *check.Report) { r.Parameters[1].ProducedNaN = true }},
	}

	for _, tc := range degrade {
		r := cleanReport()
		tc.apply(&r)

		if got := Score(r, DefaultWeights()); got <= base {
			t.Errorf("%s: Score = %d, want above clean score %d", tc.name, got, base)
		}
	}
}

func TestScoreAccumulates(t *testing.T) {
	w := DefaultWeights()

	r := cleanReport()
	r.Safety.NaNInput = false
	one := Score(r, w)

	r.Safety.DenormalInput = false
	two := Score(r, w)

	if two != one+w.SafetyCheck {
		t.Fatalf("second safety failure added %d, want %d", two-one, w.SafetyCheck)
	}
}

func TestNormalizeClampsNegativeWeights(t *testing.T) {
	w := Weights{Crash: -5, SafetyCheck: 3}.Normalize()

	if w.Crash != 0 {
		t.Fatalf("negative crash weight not clamped: %d", w.Crash)
	}

	if w.SafetyCheck != 3 {
		t.Fatalf("positive weight changed: %d", w.SafetyCheck)
	}
}

func TestBucketBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, "perfect"},
		{1, "minor"},
		{24, "minor"},
		{25, "major"},
		{74, "major"},
		{75, "critical"},
		{MaxScore, "critical"},
	}

	for _, tc := range cases {
		if got := Bucket(tc.score); got != tc.want {
			t.Errorf("Bucket(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestRecommendationsCleanReportEmpty(t *testing.T) {
	if recs := Recommendations(cleanReport()); len(recs) != 0 {
		t.Fatalf("clean report yielded recommendations: %v", recs)
	}
}

func TestRecommendationsNaNHandling(t *testing.T) {
	r := cleanReport()
	r.Safety.NaNInput = false

	recs := Recommendations(r)

	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1: %v", len(recs), recs)
	}

	if !strings.Contains(recs[0], "NaN input handling") {
		t.Fatalf("recommendation %q does not name NaN handling", recs[0])
	}
}

func TestRecommendationsCreationFailure(t *testing.T) {
	recs := Recommendations(check.Report{})

	if len(recs) != 1 || !strings.Contains(recs[0], "construction") {
		t.Fatalf("unexpected recommendations for construction failure: %v", recs)
	}
}

func TestRecommendationsOrderStable(t *testing.T) {
	r := cleanReport()
	r.Crashed = true
	r.Stability.ResetState = false
	r.Parameters[0].ProducedInf = true

	first := Recommendations(r)
	second := Recommendations(r)

	if len(first) != len(second) {
		t.Fatalf("recommendation count varies: %d vs %d", len(first), len(second))
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("recommendation order varies at %d: %q vs %q", i, first[i], second[i])
		}
	}

	// Crash remediation leads the list.
	if !strings.Contains(first[0], "crash") {
		t.Fatalf("first recommendation = %q, want crash remediation", first[0])
	}
}
