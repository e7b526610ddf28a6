// Package harness orchestrates the validation batch: it iterates the engine
// registry, drives the per-engine pipeline (create, prepare, five test
// categories, score), and isolates failures so one engine's defects never
// abort the run.
package harness

import (
	"fmt"

	"github.com/cwbudde/algo-validate/check"
	"github.com/cwbudde/algo-validate/engine"
	"github.com/cwbudde/algo-validate/severity"
)

// Harness runs the full validation batch over a registry.
type Harness struct {
	registry *engine.Registry
	cfg      Config

	// Progress, when set, receives one line per engine as the batch runs.
	Progress func(format string, args ...any)
}

// New creates a harness for the given registry and configuration.
func New(registry *engine.Registry, cfg Config) *Harness {
	return &Harness{
		registry: registry,
		cfg:      cfg.normalized(),
	}
}

// Run processes every registered engine id to completion and returns one
// report per id, in registry order. Construction failures and uncaught
// faults are downgraded to maximal-severity entries.
func (h *Harness) Run() []check.Report {
	ids := h.registry.IDs()
	reports := make([]check.Report, 0, len(ids))

	for _, id := range ids {
		reports = append(reports, h.runOne(id))
	}

	return reports
}

func (h *Harness) runOne(id int) check.Report {
	report := check.Report{
		Identity: check.Identity{ID: id},
	}

	e, err := h.create(id)
	if err != nil {
		h.progress("engine %d: construction failed: %v", id, err)

		report.Created = false
		h.finalize(&report)

		return report
	}

	report.Created = true
	report.Identity.Name = e.DisplayName()
	report.Identity.ParameterCount = e.ParameterCount()

	h.progress("engine %d: %s (%d parameters)", id, report.Identity.Name, report.Identity.ParameterCount)

	prepErr := h.guard(func() {
		e.Prepare(h.cfg.Check.SampleRate, h.cfg.Check.BlockSize)
	})
	if prepErr != nil {
		report.Crashed = true
		h.finalize(&report)

		return report
	}

	// Category testers in fixed order. Each call is additionally guarded
	// here so a harness-level defect degrades one category, not the batch.
	if err := h.guard(func() {
		report.Parameters = check.NewParameterSweep(h.cfg.Check).Run(e)
	}); err != nil {
		report.Crashed = true
	}

	if err := h.guard(func() {
		report.Safety = check.NewSafety(h.cfg.Check).Run(e)
	}); err != nil {
		report.Crashed = true
	}

	if err := h.guard(func() {
		report.Quality = check.NewQuality(h.cfg.Check).Run(e)
	}); err != nil {
		report.Crashed = true
	}

	if err := h.guard(func() {
		report.Performance = check.NewProfiler(h.cfg.Check).Run(e)
	}); err != nil {
		report.Crashed = true
	}

	if err := h.guard(func() {
		report.Stability = check.NewStability(h.cfg.Check).Run(e)
	}); err != nil {
		report.Crashed = true
	}

	h.finalize(&report)

	return report
}

// finalize scores the report and attaches recommendations. After this the
// report is immutable.
func (h *Harness) finalize(report *check.Report) {
	report.Severity = severity.Score(*report, h.cfg.Weights)
	report.Recommendations = severity.Recommendations(*report)
}

// create constructs the engine under panic isolation: a panicking factory
// is a construction failure, not a harness crash.
func (h *Harness) create(id int) (engine.Engine, error) {
	var e engine.Engine
	var err error

	guardErr := h.guard(func() {
		e, err = h.registry.Create(id)
	})
	if guardErr != nil {
		return nil, guardErr
	}

	return e, err
}

func (h *Harness) guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("harness fault: %v", r)
		}
	}()

	fn()

	return nil
}

func (h *Harness) progress(format string, args ...any) {
	if h.Progress != nil {
		h.Progress(format, args...)
	}
}
