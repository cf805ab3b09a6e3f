package main

import (
	"fmt"
	"strconv"

	"github.com/calcvm/calc"
	"github.com/calcvm/calc/internal/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type evalResult struct {
	Expr    string       `json:"expr" yaml:"expr"`
	Backend calc.Backend `json:"backend" yaml:"backend"`
	Mode    calc.Mode    `json:"mode" yaml:"mode"`
	Value   *int64       `json:"value,omitempty" yaml:"value,omitempty"`
	Error   string       `json:"error,omitempty" yaml:"error,omitempty"`
}

func addEvalFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("backend", "b", string(calc.Register), "Backend: rpn, stack or register")
	f.StringP("mode", "m", string(calc.Checked), "Mode: checked or trusted")
	f.Bool("all", false, "Evaluate with every backend and mode")
	f.StringP("output", "o", "", "Output format: text, json or yaml")
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
}

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [expr]",
		Short: "Evaluate an expression",
		Example: `  calc eval "2 + 3 * 4"
  calc eval --backend stack --mode trusted -c "(1 + 2) * 3"
  echo "10 / 3" | calc eval --stdin --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args)
		},
	}
	addEvalFlags(cmd)
	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
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
	out := cmd.OutOrStdout()

	if viper.GetBool("all") {
		var results []evalResult
		for _, backend := range calc.Backends() {
			prog, err := calc.Compile(e, backend)
			if err != nil {
				return err
			}
			for _, mode := range calc.Modes() {
				r := evalResult{Expr: e.String(), Backend: backend, Mode: mode}
				if v, err := prog.Eval(mode); err != nil {
					r.Error = err.Error()
				} else {
					r.Value = &v
				}
				results = append(results, r)
			}
		}
		if isStructured(format) {
			return writeOutput(out, format, results)
		}
		t := table.NewTable(out)
		t.WithHeader([]string{"BACKEND", "MODE", "RESULT"})
		t.WithColumnAlignment([]table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignRight})
		for _, r := range results {
			value := red(r.Error)
			if r.Value != nil {
				value = green(strconv.FormatInt(*r.Value, 10))
			}
			t.Append([]string{string(r.Backend), string(r.Mode), value})
		}
		return t.Render()
	}

	backend, err := getBackend()
	if err != nil {
		return err
	}
	mode, err := getMode()
	if err != nil {
		return err
	}
	prog, err := calc.Compile(e, backend)
	if err != nil {
		return err
	}
	v, err := prog.Eval(mode)
	if err != nil {
		return err
	}
	if isStructured(format) {
		return writeOutput(out, format, evalResult{Expr: e.String(), Backend: backend, Mode: mode, Value: &v})
	}
	_, err = fmt.Fprintln(out, v)
	return err
}
