package check

import (
	"fmt"

	"github.com/cwbudde/algo-validate/engine"
)

// guard invokes fn and converts a panic into an error. Every engine call a
// tester issues goes through here so that one faulting call degrades only
// its own result.
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine fault: %v", r)
		}
	}()

	fn()

	return nil
}

// guardProcess runs one Process call under panic isolation.
func guardProcess(e engine.Engine, block [][]float64) error {
	return guard(func() {
		e.Process(block)
	})
}

// guardReset runs one Reset call under panic isolation.
func guardReset(e engine.Engine) error {
	return guard(func() {
		e.Reset()
	})
}

// guardUpdate applies parameters under panic isolation.
func guardUpdate(e engine.Engine, values map[int]float64) error {
	return guard(func() {
		e.UpdateParameters(values)
	})
}
