// Command algo-validate runs the engine validation batch against the
// built-in unit registry and writes the report files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-validate/engine/units"
	"github.com/cwbudde/algo-validate/harness"
	"github.com/cwbudde/algo-validate/report"
	"github.com/cwbudde/algo-validate/severity"
)

var (
	cfgFile    string
	outputDir  string
	sampleRate float64
)

var rootCmd = &cobra.Command{
	Use:   "algo-validate",
	Short: "Validation harness for audio-processing engines",
	Long: `algo-validate exercises every registered audio engine with a fixed
battery of safety, quality, performance, and stability tests and writes
summary, detailed, HTML, and JSON reports.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full validation batch",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := harness.LoadConfig(cfgFile)
		if err != nil {
			return err
		}

		if outputDir != "" {
			cfg.OutputDir = outputDir
		}

		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}

		h := harness.New(units.DefaultRegistry(), cfg)
		h.Progress = func(format string, args ...any) {
			fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
		}

		reports := h.Run()

		err = report.WriteAll(cfg.OutputDir, reports)
		if err != nil {
			return err
		}

		counts := map[string]int{}
		for _, r := range reports {
			counts[severity.Bucket(r.Severity)]++
		}

		fmt.Fprintf(cmd.OutOrStdout(),
			"\n%d engines tested: %d perfect, %d minor, %d major, %d critical\n",
			len(reports), counts["perfect"], counts["minor"], counts["major"], counts["critical"])
		fmt.Fprintf(cmd.OutOrStdout(), "reports written to %s\n", cfg.OutputDir)

		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered engines",
	RunE: func(cmd *cobra.Command, _ []string) error {
		registry := units.DefaultRegistry()

		for _, id := range registry.IDs() {
			e, err := registry.Create(id)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  <construction failed: %v>\n", id, err)
				continue
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-16s %d parameters\n",
				id, e.DisplayName(), e.ParameterCount())
		}

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./algo-validate.yaml)")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "report output directory")
	runCmd.Flags().Float64Var(&sampleRate, "sample-rate", 0, "override test sample rate")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
