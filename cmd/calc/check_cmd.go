package main

import (
	"errors"
	"fmt"

	"github.com/calcvm/calc"
	"github.com/calcvm/calc/crosscheck"
	"github.com/calcvm/calc/internal/table"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [expr]",
		Short: "Compare every backend and mode against the reference folder",
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
			report, checkErr := crosscheck.Check(e)
			if report == nil {
				return checkErr
			}
			out := cmd.OutOrStdout()
			if isStructured(format) {
				if err := writeOutput(out, format, report); err != nil {
					return err
				}
				return checkErr
			}
			fmt.Fprintf(out, "%s %s\n", bold("expr:"), report.Expr)
			fmt.Fprintf(out, "%s %s\n", bold("fold:"), outcomeText(report.Oracle))
			fmt.Fprintf(out, "%s %d / %d / %d\n", bold("sizes (rpn/stack/register):"),
				report.RPNDepth, report.StackSize, report.RegisterCount)
			t := table.NewTable(out)
			t.WithHeader([]string{"BACKEND", "MODE", "RESULT", "PEAK SLOTS"})
			for _, run := range report.Runs {
				peak := "-"
				if run.Mode == calc.Checked && run.Outcome.Err == nil {
					peak = fmt.Sprint(run.PeakSlots)
				}
				t.Append([]string{string(run.Backend), string(run.Mode), outcomeText(run.Outcome), peak})
			}
			if err := t.Render(); err != nil {
				return err
			}
			var merr *multierror.Error
			if errors.As(checkErr, &merr) {
				fmt.Fprintln(out, red(fmt.Sprintf("%d mismatch(es)", len(merr.Errors))))
			} else if checkErr == nil {
				fmt.Fprintln(out, green("ok"))
			}
			return checkErr
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output format: text, json or yaml")
	return cmd
}

func outcomeText(o crosscheck.Outcome) string {
	if o.Err != nil {
		return yellow(o.String())
	}
	return o.String()
}
