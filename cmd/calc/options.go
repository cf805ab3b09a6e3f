package main

import (
	"errors"
	"io"
	"strings"

	"github.com/calcvm/calc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func hasInput(cmd *cobra.Command, args []string) bool {
	return len(args) > 0 || flagChanged(cmd, "code") || flagChanged(cmd, "stdin")
}

// getExpr determines the expression to work on. There are three
// possibilities:
// 1. the expression as args[0]
// 2. --code <expr>
// 3. --stdin (read the expression from stdin)
func getExpr(cmd *cobra.Command, args []string) (string, error) {
	codeFlagSet := flagChanged(cmd, "code")
	stdinFlagSet := flagChanged(cmd, "stdin") && viper.GetBool("stdin")
	argSupplied := len(args) > 0

	count := 0
	for _, set := range []bool{codeFlagSet, stdinFlagSet, argSupplied} {
		if set {
			count++
		}
	}
	if count > 1 {
		return "", errors.New("multiple input sources specified")
	}
	switch {
	case stdinFlagSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	case argSupplied:
		return args[0], nil
	case codeFlagSet:
		return viper.GetString("code"), nil
	}
	if code := viper.GetString("code"); code != "" {
		return code, nil
	}
	return "", errors.New("no input provided")
}

func getBackend() (calc.Backend, error) {
	return calc.ParseBackend(viper.GetString("backend"))
}

func getMode() (calc.Mode, error) {
	return calc.ParseMode(viper.GetString("mode"))
}
