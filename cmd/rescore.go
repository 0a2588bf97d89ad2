package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Recompute score, tier, and temperature for every lead",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		updated, err := env.Pipeline.Rescore(ctx)
		if err != nil {
			return eris.Wrap(err, "rescore leads")
		}

		fmt.Printf("Rescored %d leads\n", updated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rescoreCmd)
}
