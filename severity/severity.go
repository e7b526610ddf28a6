// Package severity turns a populated engine report into a single ordinal
// defect score plus human-readable remediation recommendations. The score
// is a pure function of already-recorded fields: identical reports always
// score identically, and flipping any pass flag to fail never lowers the
// score.
package severity

import (
	"fmt"

	"github.com/cwbudde/algo-validate/check"
)

// MaxScore is the sentinel for engines that never produced category
// results.
const MaxScore = 100

// Weights is the severity policy. All weights are clamped non-negative so
// scoring stays monotonic however the policy is configured.
type Weights struct {
	CreationFailure int `yaml:"creation_failure"`
	Crash           int `yaml:"crash"`
	SafetyCheck     int `yaml:"safety_check"`
	ParameterFault  int `yaml:"parameter_fault"`
	QualityCheck    int `yaml:"quality_check"`
	Performance     int `yaml:"performance"`
	StabilityCheck  int `yaml:"stability_check"`
}

// DefaultWeights returns the standard policy.
func DefaultWeights() Weights {
	return Weights{
		CreationFailure: MaxScore,
		Crash:           60,
		SafetyCheck:     18,
		ParameterFault:  6,
		QualityCheck:    8,
		Performance:     10,
		StabilityCheck:  12,
	}
}

// Normalize clamps negative weights to zero.
func (w Weights) Normalize() Weights {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}

		return v
	}

	return Weights{
		CreationFailure: clamp(w.CreationFailure),
		Crash:           clamp(w.Crash),
		SafetyCheck:     clamp(w.SafetyCheck),
		ParameterFault:  clamp(w.ParameterFault),
		QualityCheck:    clamp(w.QualityCheck),
		Performance:     clamp(w.Performance),
		StabilityCheck:  clamp(w.StabilityCheck),
	}
}

// Score computes the severity score for a report.
func Score(r check.Report, w Weights) int {
	w = w.Normalize()

	if !r.Created {
		return w.CreationFailure
	}

	score := 0

	if r.Crashed {
		score += w.Crash
	}

	score += r.Safety.FailureCount() * w.SafetyCheck
	score += r.ParameterFaultCount() * w.ParameterFault
	score += r.Quality.FailureCount() * w.QualityCheck

	if !r.Performance.Realtime {
		score += w.Performance
	}

	score += r.Stability.FailureCount() * w.StabilityCheck

	return score
}

// Bucket names the severity class of a score.
func Bucket(score int) string {
	switch {
	case score == 0:
		return "perfect"
	case score < 25:
		return "minor"
	case score < 75:
		return "major"
	default:
		return "critical"
	}
}

// Recommendations derives ordered remediation strings from the recorded
// flags. Presentation only: it never feeds back into the score.
func Recommendations(r check.Report) []string {
	if !r.Created {
		return []string{"fix engine construction: factory did not yield a usable instance"}
	}

	var recs []string

	if r.Crashed {
		recs = append(recs, "investigate harness-level crash during testing")
	}

	if !r.Safety.NaNInput {
		recs = append(recs, "add NaN input handling: sanitize or reject non-finite samples")
	}

	if !r.Safety.InfInput {
		recs = append(recs, "add Inf input handling: clamp or reject infinite samples")
	}

	if !r.Safety.DenormalInput {
		recs = append(recs, "add denormal protection: flush subnormal values to zero")
	}

	if !r.Safety.BlockSizes {
		recs = append(recs, "support arbitrary block sizes from 1 sample upward")
	}

	if !r.Safety.ConcurrentCalls {
		recs = append(recs, "remove unguarded global state: concurrent calls on independent buffers faulted")
	}

	if !r.Safety.NoFaults {
		recs = append(recs, "eliminate processing faults observed during the safety battery")
	}

	if !r.Quality.TonalResponse {
		recs = append(recs, "bound frequency-dependent gain: output exceeded input by over 20 dB")
	}

	if !r.Quality.NoiseStability {
		recs = append(recs, "control noise gain staging: output peaked above full scale")
	}

	if !r.Quality.TransientResponse {
		recs = append(recs, "damp impulse response: uncontrolled ringing detected")
	}

	if !r.Quality.ClippingBehavior {
		recs = append(recs, "add output limiting: near-full-scale input clipped")
	}

	if !r.Quality.SilenceBehavior {
		recs = append(recs, "eliminate self-noise or DC offset on silent input")
	}

	if !r.Performance.Realtime {
		recs = append(recs, fmt.Sprintf("optimize processing: peak CPU %.1f%% of the block budget",
			r.Performance.PeakCPUPercent))
	}

	if !r.Stability.MixLaw {
		recs = append(recs, "fix wet/dry mix law: dry extreme must reproduce the input")
	}

	if !r.Stability.Automation {
		recs = append(recs, "harden against rapid parameter automation")
	}

	if !r.Stability.Bypass {
		recs = append(recs, "fix bypass: engaged bypass must reproduce the input")
	}

	if !r.Stability.ResetState {
		recs = append(recs, "clear all internal state on reset (filter memory, delay lines, envelopes)")
	}

	if faults := r.ParameterFaultCount(); faults > 0 {
		recs = append(recs, fmt.Sprintf("fix %d parameter(s) that faulted or produced non-finite output", faults))
	}

	return recs
}
