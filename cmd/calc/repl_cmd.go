package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/calcvm/calc"
	"github.com/spf13/cobra"
)

func newReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read expressions line by line and print their values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd)
		},
	}
	cmd.Flags().StringP("backend", "b", string(calc.Register), "Backend: rpn, stack or register")
	cmd.Flags().StringP("mode", "m", string(calc.Checked), "Mode: checked or trusted")
	return cmd
}

func runRepl(cmd *cobra.Command) error {
	backend, err := getBackend()
	if err != nil {
		return err
	}
	mode, err := getMode()
	if err != nil {
		return err
	}
	return repl(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), backend, mode)
}

// repl evaluates one expression per line until EOF. Errors are reported and
// the loop continues.
func repl(ctx context.Context, in io.Reader, out, errOut io.Writer, backend calc.Backend, mode calc.Mode) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			v, err := calc.Eval(ctx, line, calc.WithBackend(backend), calc.WithMode(mode))
			if err != nil {
				fmt.Fprintln(errOut, red(strings.TrimSuffix(errorMessage(err), "\n")))
			} else {
				fmt.Fprintln(out, v)
			}
		}
		fmt.Fprint(out, "> ")
	}
	fmt.Fprintln(out)
	return scanner.Err()
}
