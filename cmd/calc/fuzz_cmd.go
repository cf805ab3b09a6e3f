package main

import (
	"fmt"

	"github.com/calcvm/calc/crosscheck"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newFuzzCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Check randomly generated expressions across every backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := viper.GetString("output")
			if err := checkOutputFormat(format); err != nil {
				return err
			}
			logger := getLogger()
			summary, err := crosscheck.Fuzz(cmd.Context(), crosscheck.FuzzConfig{
				Count:         viper.GetInt("count"),
				Seed:          viper.GetInt64("seed"),
				Workers:       viper.GetInt("workers"),
				MaxDepth:      viper.GetInt("max-depth"),
				Division:      viper.GetBool("division"),
				LargeLiterals: viper.GetBool("large"),
				Logger:        &logger,
			})
			if summary == nil {
				return err
			}
			out := cmd.OutOrStdout()
			if isStructured(format) {
				if jerr := writeOutput(out, format, summary); jerr != nil {
					return jerr
				}
				return err
			}
			fmt.Fprintf(out, "run %s: %d checked, %s, %s in %v\n",
				summary.RunID, summary.Checked,
				green(fmt.Sprintf("%d passed", summary.Passed)),
				failedText(summary.Failed), summary.Duration)
			for _, f := range summary.Failures {
				fmt.Fprintf(out, "  #%d %s\n    %s\n", f.Index, f.Expr, red(f.Error))
			}
			if err != nil {
				return fmt.Errorf("fuzz run %s failed", summary.RunID)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Int("count", 1000, "Number of expressions to check")
	f.Int64("seed", 1, "Generator seed")
	f.Int("workers", 0, "Worker goroutines (0 uses GOMAXPROCS)")
	f.Int("max-depth", 8, "Maximum tree depth")
	f.Bool("division", true, "Generate division")
	f.Bool("large", true, "Generate literals outside the inline range")
	f.StringP("output", "o", "", "Output format: text, json or yaml")
	return cmd
}

func failedText(n int) string {
	s := fmt.Sprintf("%d failed", n)
	if n > 0 {
		return red(s)
	}
	return s
}
