package units_test

import (
	"fmt"

	"github.com/cwbudde/algo-validate/engine/units"
)

func ExampleDefaultRegistry() {
	reg := units.DefaultRegistry()

	for _, id := range reg.IDs() {
		e, err := reg.Create(id)
		if err != nil {
			continue
		}

		fmt.Printf("%d %s\n", id, e.DisplayName())
	}

	// Output:
	// 1 Gain
	// 2 Distortion
	// 3 Delay
	// 4 BitCrusher
	// 5 Chorus
	// 6 Flanger
	// 7 Phaser
	// 8 MoogFilter
}
