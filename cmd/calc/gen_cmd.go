package main

import (
	"fmt"

	"github.com/calcvm/calc/internal/gen"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Print randomly generated expressions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := gen.New(viper.GetInt64("seed"),
				gen.WithMaxDepth(viper.GetInt("max-depth")),
				gen.WithDivision(viper.GetBool("division")),
				gen.WithLargeLiterals(viper.GetBool("large")),
			)
			for i := 0; i < viper.GetInt("count"); i++ {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), g.Expr().String()); err != nil {
					return err
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Int64("seed", 1, "Generator seed")
	f.Int("count", 1, "Number of expressions")
	f.Int("max-depth", gen.DefaultMaxDepth, "Maximum tree depth")
	f.Bool("division", false, "Generate division")
	f.Bool("large", false, "Generate literals outside the inline range")
	return cmd
}
