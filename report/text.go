package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/cwbudde/algo-validate/check"
	"github.com/cwbudde/algo-validate/severity"
)

// Summary renders engine counts per severity bucket plus the worst
// offenders with their primary recommendation.
type Summary struct {
	// TopOffenders bounds the offender list; 0 means all failing engines.
	TopOffenders int
}

// FileName implements Renderer.
func (s *Summary) FileName() string { return "summary.txt" }

// Render implements Renderer.
func (s *Summary) Render(w io.Writer, reports []check.Report) error {
	counts := bucketCounts(reports)

	_, err := fmt.Fprintf(w, "Engine Validation Summary\n=========================\n\n")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "Engines tested: %d\n", len(reports))
	if err != nil {
		return err
	}

	for _, bucket := range []string{"perfect", "minor", "major", "critical"} {
		_, err = fmt.Fprintf(w, "  %-8s %d\n", bucket+":", counts[bucket])
		if err != nil {
			return err
		}
	}

	offenders := make([]check.Report, 0)

	for _, r := range bySeverity(reports) {
		if r.Severity == 0 {
			continue
		}

		offenders = append(offenders, r)

		if s.TopOffenders > 0 && len(offenders) >= s.TopOffenders {
			break
		}
	}

	if len(offenders) == 0 {
		_, err = fmt.Fprintf(w, "\nAll engines passed without findings.\n")
		return err
	}

	_, err = fmt.Fprintf(w, "\nWorst offenders:\n")
	if err != nil {
		return err
	}

	for _, r := range offenders {
		_, err = fmt.Fprintf(w, "  [%3d] %-16s severity %3d (%s)",
			r.Identity.ID, r.Identity.Name, r.Severity, severity.Bucket(r.Severity))
		if err != nil {
			return err
		}

		if issue := primaryIssue(r); issue != "" {
			_, err = fmt.Fprintf(w, " - %s", issue)
			if err != nil {
				return err
			}
		}

		_, err = fmt.Fprintln(w)
		if err != nil {
			return err
		}
	}

	return nil
}

// bandOrder returns band names low-to-high, with any unrecognized bands
// sorted after, so the detailed dump is stable across runs.
func bandOrder(bands map[string]float64) []string {
	names := make([]string, 0, len(bands))

	for _, name := range []string{"low", "mid", "high"} {
		if _, ok := bands[name]; ok {
			names = append(names, name)
		}
	}

	var extra []string

	for name := range bands {
		switch name {
		case "low", "mid", "high":
		default:
			extra = append(extra, name)
		}
	}

	sort.Strings(extra)

	return append(names, extra...)
}

// Detailed renders the full per-engine dump: every boolean check, numeric
// metric, and the complete recommendation list.
type Detailed struct{}

// FileName implements Renderer.
func (d *Detailed) FileName() string { return "detailed.txt" }

// Render implements Renderer.
func (d *Detailed) Render(w io.Writer, reports []check.Report) error {
	for _, r := range bySeverity(reports) {
		err := d.renderOne(w, r)
		if err != nil {
			return err
		}
	}

	return nil
}

func (d *Detailed) renderOne(w io.Writer, r check.Report) error {
	_, err := fmt.Fprintf(w, "Engine %d: %s\n", r.Identity.ID, r.Identity.Name)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "  severity: %d (%s)\n", r.Severity, severity.Bucket(r.Severity))
	if err != nil {
		return err
	}

	if !r.Created {
		_, err = fmt.Fprintf(w, "  construction FAILED\n\n")
		return err
	}

	if r.Crashed {
		_, err = fmt.Fprintf(w, "  crashed during testing\n")
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(w, "  safety: nan=%s inf=%s denormal=%s blocks=%s concurrent=%s faults=%s\n",
		passFail(r.Safety.NaNInput), passFail(r.Safety.InfInput), passFail(r.Safety.DenormalInput),
		passFail(r.Safety.BlockSizes), passFail(r.Safety.ConcurrentCalls), passFail(r.Safety.NoFaults))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "  quality: tonal=%s noise=%s transient=%s clipping=%s silence=%s\n",
		passFail(r.Quality.TonalResponse), passFail(r.Quality.NoiseStability),
		passFail(r.Quality.TransientResponse), passFail(r.Quality.ClippingBehavior),
		passFail(r.Quality.SilenceBehavior))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "  quality metrics: thd=%.4f snr=%.1f dB dc=%.6f\n",
		r.Quality.THD, r.Quality.SNRdB, r.Quality.DCOffset)
	if err != nil {
		return err
	}

	for _, name := range bandOrder(r.Quality.BandGainsDB) {
		_, err = fmt.Fprintf(w, "    band %-4s gain %.1f dB\n", name, r.Quality.BandGainsDB[name])
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(w, "  performance: mean=%.1f%% peak=%.1f%% realtime=%s latency=%d samples\n",
		r.Performance.MeanCPUPercent, r.Performance.PeakCPUPercent,
		passFail(r.Performance.Realtime), r.Performance.LatencySamples)
	if err != nil {
		return err
	}

	if r.Performance.Bottleneck != "" {
		_, err = fmt.Fprintf(w, "    bottleneck: %s\n", r.Performance.Bottleneck)
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(w, "  stability: mixlaw=%s automation=%s bypass=%s reset=%s\n",
		passFail(r.Stability.MixLaw), passFail(r.Stability.Automation),
		passFail(r.Stability.Bypass), passFail(r.Stability.ResetState))
	if err != nil {
		return err
	}

	for _, p := range r.Parameters {
		_, err = fmt.Fprintf(w, "  param %2d %-14s responsive=%-5v rms=[%.4f, %.4f] mean call=%s",
			p.Index, p.Name, p.Responsive, p.MinRMS, p.MaxRMS, p.MeanCallTime)
		if err != nil {
			return err
		}

		if p.Faulted() {
			_, err = fmt.Fprintf(w, " faulted(crash=%v nan=%v inf=%v)", p.Crashed, p.ProducedNaN, p.ProducedInf)
			if err != nil {
				return err
			}
		}

		_, err = fmt.Fprintln(w)
		if err != nil {
			return err
		}
	}

	if len(r.Recommendations) > 0 {
		_, err = fmt.Fprintf(w, "  recommendations:\n")
		if err != nil {
			return err
		}

		for _, rec := range r.Recommendations {
			_, err = fmt.Fprintf(w, "    - %s\n", rec)
			if err != nil {
				return err
			}
		}
	}

	_, err = fmt.Fprintln(w)

	return err
}
