package main

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	viper.Reset()
	viper.SetEnvPrefix("calc")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	root := &cobra.Command{
		Use:   "calc [expr]",
		Short: "Compile arithmetic expressions to bytecode and run them",
		Long: `Compile integer arithmetic expressions to RPN, stack or register bytecode
and evaluate them on checked or trusted virtual machines.

With no input and an interactive terminal, calc starts a REPL.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if err := initConfig(); err != nil {
				return err
			}
			processGlobalFlags()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !hasInput(cmd, args) && isTerminalIO() {
				return runRepl(cmd)
			}
			return runEval(cmd, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("code", "c", "", "Expression to evaluate")
	pf.Bool("stdin", false, "Read the expression from stdin")
	pf.Bool("no-color", false, "Disable colored output")
	pf.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	pf.String("config", "", "Config file (default ./calc.yaml or ~/.config/calc/calc.yaml)")
	addEvalFlags(root)

	root.AddCommand(
		newEvalCmd(),
		newDisCmd(),
		newCheckCmd(),
		newFuzzCmd(),
		newGenCmd(),
		newBenchCmd(),
		newReplCmd(),
		newVersionCmd(),
	)
	return root
}

func initConfig() error {
	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("calc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "calc"))
		}
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatal(err)
	}
}
