package harness

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-validate/engine"
	"github.com/cwbudde/algo-validate/severity"
)

// passthroughEngine is a minimal well-behaved engine for batch tests.
type passthroughEngine struct {
	name string
}

func (p *passthroughEngine) Prepare(float64, int) {}
func (p *passthroughEngine) Reset()               {}

func (p *passthroughEngine) Process(block [][]float64) {
	for _, buf := range block {
		for i, x := range buf {
			if math.IsNaN(x) || math.IsInf(x, 0) || math.Abs(x) < 1e-300 {
				buf[i] = 0
			}
		}
	}
}

func (p *passthroughEngine) UpdateParameters(map[int]float64) {}
func (p *passthroughEngine) ParameterCount() int              { return 0 }
func (p *passthroughEngine) ParameterName(int) string         { return "" }
func (p *passthroughEngine) DisplayName() string              { return p.name }

func testBatchConfig() Config {
	cfg := DefaultConfig()
	cfg.BlockSize = 128
	cfg.Channels = 1
	cfg.PerfIterations = 20
	cfg.AutomationIterations = 5

	return cfg.normalized()
}

func TestRunCompletesDespiteFailures(t *testing.T) {
	reg := engine.NewRegistry()

	reg.MustRegister(1, func() (engine.Engine, error) {
		return &passthroughEngine{name: "Alpha"}, nil
	})
	reg.MustRegister(2, func() (engine.Engine, error) {
		return nil, errors.New("allocation refused")
	})
	reg.MustRegister(3, func() (engine.Engine, error) {
		panic("factory exploded")
	})
	reg.MustRegister(4, func() (engine.Engine, error) {
		return &passthroughEngine{name: "Delta"}, nil
	})

	reports := New(reg, testBatchConfig()).Run()

	if len(reports) != 4 {
		t.Fatalf("got %d reports, want one per registered id", len(reports))
	}

	for i, id := range []int{1, 2, 3, 4} {
		if reports[i].Identity.ID != id {
			t.Fatalf("report %d has id %d, want %d", i, reports[i].Identity.ID, id)
		}
	}

	if !reports[0].Created || !reports[3].Created {
		t.Fatal("healthy engines not marked created")
	}

	if reports[1].Created || reports[2].Created {
		t.Fatal("failed constructions marked created")
	}

	for _, i := range []int{1, 2} {
		if reports[i].Severity != severity.MaxScore {
			t.Fatalf("construction failure severity = %d, want %d", reports[i].Severity, severity.MaxScore)
		}

		if len(reports[i].Recommendations) == 0 {
			t.Fatalf("construction failure has no recommendation")
		}
	}
}

func TestRunPopulatesIdentity(t *testing.T) {
	reg := engine.NewRegistry()
	reg.MustRegister(5, func() (engine.Engine, error) {
		return &passthroughEngine{name: "Echo"}, nil
	})

	reports := New(reg, testBatchConfig()).Run()

	if len(reports) != 1 {
		t.Fatalf("got %d reports", len(reports))
	}

	r := reports[0]

	if r.Identity.Name != "Echo" {
		t.Fatalf("name = %q, want Echo", r.Identity.Name)
	}

	if r.Identity.ParameterCount != 0 {
		t.Fatalf("parameter count = %d", r.Identity.ParameterCount)
	}

	if r.Severity != 0 {
		t.Fatalf("clean passthrough scored %d: %v", r.Severity, r.Recommendations)
	}
}

func TestRunReportsProgress(t *testing.T) {
	reg := engine.NewRegistry()
	reg.MustRegister(1, func() (engine.Engine, error) {
		return &passthroughEngine{name: "Alpha"}, nil
	})
	reg.MustRegister(2, func() (engine.Engine, error) {
		return nil, errors.New("no")
	})

	var lines []string

	h := New(reg, testBatchConfig())
	h.Progress = func(format string, args ...any) {
		lines = append(lines, format)
	}

	h.Run()

	if len(lines) != 2 {
		t.Fatalf("got %d progress lines, want 2", len(lines))
	}

	if !strings.Contains(lines[1], "construction failed") {
		t.Fatalf("second line = %q", lines[1])
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.SampleRate != 44100 || cfg.BlockSize != 512 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	if cfg.Check.SampleRate != cfg.SampleRate {
		t.Fatal("derived tester config not populated")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")

	data := []byte("sample_rate: 48000\nblock_size: 1024\nseverity_weights:\n  crash: -10\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.SampleRate != 48000 {
		t.Fatalf("sample rate = %v", cfg.SampleRate)
	}

	if cfg.Check.BlockSize != 1024 {
		t.Fatalf("derived block size = %d", cfg.Check.BlockSize)
	}

	// Unset fields keep defaults; negative weights are clamped.
	if cfg.Channels != 2 {
		t.Fatalf("channels = %d, want default", cfg.Channels)
	}

	if cfg.Weights.Crash != 0 {
		t.Fatalf("negative weight not clamped: %d", cfg.Weights.Crash)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("missing explicit config path did not error")
	}
}
