package main

import (
	"github.com/calcvm/calc"
	"github.com/calcvm/calc/dis"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newDisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [expr]",
		Short: "Disassemble the bytecode compiled from an expression",
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
			backend, err := getBackend()
			if err != nil {
				return err
			}
			e, err := calc.Parse(cmd.Context(), src)
			if err != nil {
				return err
			}
			prog, err := calc.Compile(e, backend)
			if err != nil {
				return err
			}
			instructions := prog.Disassemble()
			if isStructured(format) {
				return writeOutput(cmd.OutOrStdout(), format, map[string]any{
					"backend":      backend,
					"stats":        prog.Stats(),
					"instructions": instructions,
				})
			}
			return dis.Print(instructions, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringP("backend", "b", string(calc.Register), "Backend: rpn, stack or register")
	cmd.Flags().StringP("output", "o", "", "Output format: text, json or yaml")
	return cmd
}
