// Package check implements the five test categories the harness runs
// against every engine: parameter sweep, safety, audio quality, performance,
// and stability. Each tester owns its stimuli and analysis; faults inside a
// single engine call degrade that call's result, never the batch.
package check

import "time"

// Identity describes one engine under test. Immutable once created.
type Identity struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	ParameterCount int    `json:"parameterCount"`
}

// ParameterResult records the sweep outcome for one parameter.
type ParameterResult struct {
	Index         int           `json:"index"`
	Name          string        `json:"name"`
	Responsive    bool          `json:"responsive"`
	AudibleEffect bool          `json:"audibleEffect"`
	Crashed       bool          `json:"crashed"`
	ProducedNaN   bool          `json:"producedNaN"`
	ProducedInf   bool          `json:"producedInf"`
	MinRMS        float64       `json:"minRms"`
	MaxRMS        float64       `json:"maxRms"`
	MeanCallTime  time.Duration `json:"meanCallTimeNs"`
	Issues        []string      `json:"issues,omitempty"`
}

// Faulted reports whether any fault flag is set on the parameter.
func (p ParameterResult) Faulted() bool {
	return p.Crashed || p.ProducedNaN || p.ProducedInf
}

// SafetyResult records the fixed safety battery outcome.
type SafetyResult struct {
	NaNInput        bool     `json:"nanInput"`
	InfInput        bool     `json:"infInput"`
	DenormalInput   bool     `json:"denormalInput"`
	BlockSizes      bool     `json:"blockSizes"`
	ConcurrentCalls bool     `json:"concurrentCalls"`
	NoFaults        bool     `json:"noFaults"`
	Failures        []string `json:"failures,omitempty"`
}

// FailureCount returns the number of failed safety sub-checks.
func (s SafetyResult) FailureCount() int {
	count := 0

	for _, pass := range []bool{
		s.NaNInput, s.InfInput, s.DenormalInput,
		s.BlockSizes, s.ConcurrentCalls, s.NoFaults,
	} {
		if !pass {
			count++
		}
	}

	return count
}

// QualityResult records the audio quality battery outcome.
type QualityResult struct {
	TonalResponse     bool               `json:"tonalResponse"`
	NoiseStability    bool               `json:"noiseStability"`
	TransientResponse bool               `json:"transientResponse"`
	ClippingBehavior  bool               `json:"clippingBehavior"`
	SilenceBehavior   bool               `json:"silenceBehavior"`
	THD               float64            `json:"thd"`
	SNRdB             float64            `json:"snrDb"`
	DCOffset          float64            `json:"dcOffset"`
	BandGainsDB       map[string]float64 `json:"bandGainsDb,omitempty"`
	Issues            []string           `json:"issues,omitempty"`
}

// FailureCount returns the number of failed quality sub-checks.
func (q QualityResult) FailureCount() int {
	count := 0

	for _, pass := range []bool{
		q.TonalResponse, q.NoiseStability, q.TransientResponse,
		q.ClippingBehavior, q.SilenceBehavior,
	} {
		if !pass {
			count++
		}
	}

	return count
}

// PerformanceResult records CPU budget usage and onset latency.
type PerformanceResult struct {
	MeanCPUPercent float64 `json:"meanCpuPercent"`
	PeakCPUPercent float64 `json:"peakCpuPercent"`
	Realtime       bool    `json:"realtime"`
	LatencySamples int     `json:"latencySamples"`
	Bottleneck     string  `json:"bottleneck,omitempty"`
}

// StabilityResult records behavioral stability checks.
type StabilityResult struct {
	MixLaw     bool     `json:"mixLaw"`
	Automation bool     `json:"automation"`
	Bypass     bool     `json:"bypass"`
	ResetState bool     `json:"resetState"`
	Issues     []string `json:"issues,omitempty"`
}

// FailureCount returns the number of failed stability sub-checks.
func (s StabilityResult) FailureCount() int {
	count := 0

	for _, pass := range []bool{s.MixLaw, s.Automation, s.Bypass, s.ResetState} {
		if !pass {
			count++
		}
	}

	return count
}

// Report aggregates every category result for one engine. It is created
// empty at the start of a run, populated incrementally, finalized by the
// severity scorer, and immutable thereafter.
type Report struct {
	Identity        Identity          `json:"identity"`
	Created         bool              `json:"created"`
	Crashed         bool              `json:"crashed"`
	Parameters      []ParameterResult `json:"parameters,omitempty"`
	Safety          SafetyResult      `json:"safety"`
	Quality         QualityResult     `json:"quality"`
	Performance     PerformanceResult `json:"performance"`
	Stability       StabilityResult   `json:"stability"`
	Severity        int               `json:"severity"`
	Recommendations []string          `json:"recommendations,omitempty"`
}

// ParameterFaultCount returns the number of parameters with any fault flag.
func (r Report) ParameterFaultCount() int {
	count := 0

	for _, p := range r.Parameters {
		if p.Faulted() {
			count++
		}
	}

	return count
}
