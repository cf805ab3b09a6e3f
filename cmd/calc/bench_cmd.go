package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/calcvm/calc"
	"github.com/calcvm/calc/bench"
	"github.com/calcvm/calc/internal/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench [expr]",
		Short: "Measure the folder and every backend on an expression",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := getExpr(cmd, args)
			if err != nil {
				return err
			}
			format := viper.GetString("output")
			if err := checkOutputFormat(format); err != nil {
				return err
			}
			e, err := calc.Parse(cmd.Context(), src)
			if err != nil {
				return err
			}
			logger := getLogger()
			suite, err := bench.Suite(e, bench.Config{
				Iterations: viper.GetInt("iterations"),
				Warmup:     viper.GetInt("warmup"),
				Logger:     &logger,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if isStructured(format) {
				return writeOutput(out, format, suite)
			}
			fmt.Fprintf(out, "%s %s\n", bold("expr:"), suite.Expr)
			t := table.NewTable(out)
			t.WithHeader([]string{"NAME", "MIN", "MEDIAN", "AVG", "P95", "P99", "OPS/SEC"})
			t.WithColumnAlignment([]table.Alignment{
				table.AlignLeft, table.AlignRight, table.AlignRight, table.AlignRight,
				table.AlignRight, table.AlignRight, table.AlignRight,
			})
			for _, r := range suite.Results {
				t.Append([]string{
					r.Name,
					ns(r.MinNs),
					green(ns(r.MedianNs)),
					ns(r.AvgNs),
					ns(r.P95Ns),
					ns(r.P99Ns),
					fmt.Sprintf("%.0f", r.OpsPerSec),
				})
			}
			if err := t.Render(); err != nil {
				return err
			}
			if viper.GetBool("histogram") {
				for _, r := range suite.Results {
					printHistogram(cmd, r)
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Int("iterations", bench.DefaultIterations, "Timed iterations per measurement")
	f.Int("warmup", bench.DefaultWarmup, "Untimed warmup iterations")
	f.Bool("histogram", false, "Print the latency distribution of each measurement")
	f.StringP("output", "o", "", "Output format: text, json or yaml")
	return cmd
}

func ns(n int64) string {
	return time.Duration(n).String()
}

func printHistogram(cmd *cobra.Command, r *bench.BenchResult) {
	const barWidth = 30
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s\n", bold(r.Name))
	maxCount := 0
	for _, b := range r.Distribution {
		maxCount = max(maxCount, b.Count)
	}
	for _, b := range r.Distribution {
		barLen := 0
		if maxCount > 0 {
			barLen = b.Count * barWidth / maxCount
		}
		bar := strings.Repeat("█", barLen) + strings.Repeat("░", barWidth-barLen)
		fmt.Fprintf(out, "%8v-%8v %s %d\n", ns(b.LowerNs), ns(b.UpperNs), green(bar), b.Count)
	}
}
