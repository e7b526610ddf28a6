package analyze

import (
	"fmt"
	"math"
)

// CrossCorrelationLag returns the lag, in samples, at which b best aligns
// with a, searched over [-maxLag, maxLag]. Positive lag means b is delayed
// relative to a. Correlations are normalized per lag so shorter overlaps do
// not dominate; non-finite samples contribute zero.
func CrossCorrelationLag(a, b []float64, maxLag int) (int, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("cross-correlation input must not be empty")
	}

	if maxLag < 0 {
		return 0, fmt.Errorf("max lag must be >= 0: %d", maxLag)
	}

	ca := sanitize(a)
	cb := sanitize(b)

	bestLag := 0
	bestScore := math.Inf(-1)

	for lag := -maxLag; lag <= maxLag; lag++ {
		var sum float64
		var n int

		for i := range ca {
			j := i + lag
			if j < 0 || j >= len(cb) {
				continue
			}

			sum += ca[i] * cb[j]
			n++
		}

		if n == 0 {
			continue
		}

		score := math.Abs(sum) / float64(n)
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}

	return bestLag, nil
}
