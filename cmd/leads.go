package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/leadflow/leadflow-cli/internal/model"
	"github.com/leadflow/leadflow-cli/internal/revenue"
	"github.com/leadflow/leadflow-cli/internal/store"
)

var leadsFlags struct {
	page        int
	pageSize    int
	temperature string
	tier        string
	stage       string
	search      string
}

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		page, err := env.Store.ListLeads(ctx, store.ListOptions{
			Page:        leadsFlags.page,
			PageSize:    leadsFlags.pageSize,
			Temperature: model.Temperature(leadsFlags.temperature),
			Tier:        model.Tier(leadsFlags.tier),
			Stage:       model.PipelineStage(leadsFlags.stage),
			Search:      leadsFlags.search,
		})
		if err != nil {
			return eris.Wrap(err, "list leads")
		}

		for _, l := range page.Leads {
			fmt.Printf("%-36s  %-30s  %3d  %-8s  %-12s  %s\n",
				l.ID, truncate(l.BusinessName, 30), l.Score, l.Temperature,
				l.PipelineStage, revenue.Format(float64(l.Revenue)))
		}
		fmt.Printf("\nPage %d of %d (%d leads total)\n",
			leadsFlags.page, page.TotalPages, page.Total)
		return nil
	},
}

var leadsStageCmd = &cobra.Command{
	Use:   "stage <lead-id> <stage>",
	Short: "Move a lead to another pipeline stage",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		stage := model.PipelineStage(args[1])
		if !model.ValidStage(stage) {
			return eris.Errorf("invalid pipeline stage: %s", args[1])
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Store.UpdateLeadStage(ctx, args[0], stage); err != nil {
			return err
		}

		fmt.Printf("Moved %s to %s\n", args[0], stage)
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func init() {
	leadsCmd.Flags().IntVar(&leadsFlags.page, "page", 1, "page number")
	leadsCmd.Flags().IntVar(&leadsFlags.pageSize, "page-size", store.DefaultPageSize, "leads per page")
	leadsCmd.Flags().StringVar(&leadsFlags.temperature, "temperature", "", "filter by temperature (Hot, Warm, Lukewarm, Cold)")
	leadsCmd.Flags().StringVar(&leadsFlags.tier, "tier", "", "filter by revenue tier")
	leadsCmd.Flags().StringVar(&leadsFlags.stage, "stage", "", "filter by pipeline stage")
	leadsCmd.Flags().StringVar(&leadsFlags.search, "search", "", "search business names")
	leadsCmd.AddCommand(leadsStageCmd)
	rootCmd.AddCommand(leadsCmd)
}
