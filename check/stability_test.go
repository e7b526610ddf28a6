package check

import (
	"testing"
)

func TestStabilityCleanEnginePasses(t *testing.T) {
	e := newFakeEngine()

	res := NewStability(testConfig()).Run(e)

	if n := res.FailureCount(); n != 0 {
		t.Fatalf("clean engine failed %d stability checks: %v", n, res.Issues)
	}
}

func TestStabilityMixLawViolation(t *testing.T) {
	e := newFakeEngine()
	e.ignoreMix = true

	res := NewStability(testConfig()).Run(e)

	if res.MixLaw {
		t.Fatal("engine ignoring its mix parameter passed the mix-law check")
	}

	if len(res.Issues) == 0 {
		t.Fatal("no issue recorded for mix-law violation")
	}
}

func TestStabilityMixLawSkippedWithoutMixParameter(t *testing.T) {
	e := newFakeEngine()
	e.params = []string{"Gain"}

	res := NewStability(testConfig()).Run(e)

	if !res.MixLaw {
		t.Fatalf("engine without a wet/dry parameter failed the mix-law check: %v", res.Issues)
	}
}

func TestStabilityDirtyResetDetected(t *testing.T) {
	e := newFakeEngine()
	e.dirtyReset = true

	res := NewStability(testConfig()).Run(e)

	if res.ResetState {
		t.Fatal("lingering post-reset state not detected")
	}
}

func TestStabilityAutomationNonFinite(t *testing.T) {
	e := newFakeEngine()
	e.emitNaN = true

	res := NewStability(testConfig()).Run(e)

	if res.Automation {
		t.Fatal("NaN under automation not detected")
	}
}

func TestStabilityAutomationFaultIsolated(t *testing.T) {
	e := newFakeEngine()
	e.panicOnCall = true

	res := NewStability(testConfig()).Run(e)

	if res.Automation {
		t.Fatal("panic under automation not recorded")
	}

	if res.ResetState {
		t.Fatal("panic during reset check not recorded")
	}
}

func TestRMSDifference(t *testing.T) {
	a := []float64{1, 1, 1, 1}
	b := []float64{1, 1, 1, 1}

	if d := rmsDifference(a, b); d != 0 {
		t.Fatalf("identical signals differ by %v", d)
	}

	c := []float64{0, 0, 0, 0}
	if d := rmsDifference(a, c); d != 1 {
		t.Fatalf("unit offset difference = %v, want 1", d)
	}
}
