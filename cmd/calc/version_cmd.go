package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := viper.GetString("output")
			if err := checkOutputFormat(format); err != nil {
				return err
			}
			if isStructured(format) {
				return writeOutput(cmd.OutOrStdout(), format, map[string]string{
					"version": version,
					"commit":  commit,
					"date":    date,
				})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "calc %s (commit %s, built %s)\n", version, commit, date)
			return err
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output format: text, json or yaml")
	return cmd
}
