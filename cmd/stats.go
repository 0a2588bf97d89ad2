package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/leadflow/leadflow-cli/internal/revenue"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Pipeline summary",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		s, err := env.Store.GetLeadStats(ctx)
		if err != nil {
			return eris.Wrap(err, "get lead stats")
		}

		fmt.Printf("Leads:          %d\n", s.Total)
		fmt.Printf("  hot:          %d\n", s.Hot)
		fmt.Printf("  warm:         %d\n", s.Warm)
		fmt.Printf("  lukewarm:     %d\n", s.Lukewarm)
		fmt.Printf("  cold:         %d\n", s.Cold)
		fmt.Printf("Average score:  %.1f\n", s.AvgScore)
		fmt.Printf("Total revenue:  %s\n", revenue.Format(float64(s.TotalRevenue)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
