package check

import (
	"strings"
	"testing"
)

func TestSafetyCleanEnginePasses(t *testing.T) {
	e := newFakeEngine()

	res := NewSafety(testConfig()).Run(e)

	if !res.NaNInput || !res.InfInput || !res.DenormalInput ||
		!res.BlockSizes || !res.ConcurrentCalls || !res.NoFaults {
		t.Fatalf("clean engine failed safety battery: %+v", res)
	}

	if res.FailureCount() != 0 {
		t.Fatalf("FailureCount() = %d, want 0", res.FailureCount())
	}
}

func TestSafetyFlagsNaNPassthrough(t *testing.T) {
	e := newFakeEngine()
	e.passNonFinite = true

	res := NewSafety(testConfig()).Run(e)

	if res.NaNInput {
		t.Fatal("NaN passthrough not flagged")
	}

	if res.InfInput {
		t.Fatal("Inf passthrough not flagged")
	}

	found := false

	for _, f := range res.Failures {
		if strings.Contains(f, "NaN") {
			found = true
		}
	}

	if !found {
		t.Fatalf("no NaN failure description recorded: %v", res.Failures)
	}
}

func TestSafetyFlagsNaNEmission(t *testing.T) {
	e := newFakeEngine()
	e.emitNaN = true

	res := NewSafety(testConfig()).Run(e)

	if res.NaNInput {
		t.Fatal("NaN emission not flagged")
	}

	if res.BlockSizes {
		t.Fatal("non-finite output across block sizes not flagged")
	}
}

func TestSafetyPanicRecordedNotPropagated(t *testing.T) {
	e := newFakeEngine()
	e.panicOnCall = true

	// Must not panic the test.
	res := NewSafety(testConfig()).Run(e)

	if res.NoFaults {
		t.Fatal("processing fault not recorded")
	}

	if res.NaNInput || res.InfInput || res.BlockSizes || res.ConcurrentCalls {
		t.Fatalf("faulting engine passed sub-checks: %+v", res)
	}
}

func TestSafetyBlockSizesCoverAtypicalLengths(t *testing.T) {
	e := newFakeEngine()

	res := NewSafety(testConfig()).Run(e)

	if !res.BlockSizes {
		t.Fatalf("block size battery failed: %v", res.Failures)
	}
}
