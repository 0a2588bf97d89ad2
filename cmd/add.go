package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/leadflow/leadflow-cli/internal/model"
	"github.com/leadflow/leadflow-cli/internal/revenue"
)

var addFlags struct {
	business string
	contact  string
	email    string
	phone    string
	state    string
	industry string
	revenue  string
	draft    bool
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a single lead",
	Long: `Adds one lead. Revenue is free text: "250000", "$1.2M", and
"20k/mo" all work. The lead is scored, screened against the DNC lists,
and stored.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		lead := &model.Lead{
			BusinessName: addFlags.business,
			ContactName:  addFlags.contact,
			Email:        addFlags.email,
			Phone:        addFlags.phone,
			State:        addFlags.state,
			Industry:     addFlags.industry,
			Revenue:      revenue.Normalize(addFlags.revenue),
		}

		if err := env.Pipeline.CreateLead(ctx, lead); err != nil {
			return eris.Wrap(err, "add lead")
		}

		fmt.Printf("Added %s\n", lead.BusinessName)
		fmt.Printf("  revenue:     %s\n", revenue.Format(float64(lead.Revenue)))
		fmt.Printf("  score:       %d (%s, %s)\n", lead.Score, lead.Temperature, lead.Tier)
		fmt.Printf("  dnc:         %s", lead.DNCStatus)
		if lead.DNCReason != "" {
			fmt.Printf(" (%s)", lead.DNCReason)
		}
		fmt.Println()

		if addFlags.draft {
			d := env.Pipeline.Assess(ctx, *lead)
			fmt.Printf("  draft score: %d (%s)\n", d.Score, d.Temperature)
			for _, r := range d.Reasoning {
				fmt.Printf("    - %s\n", r)
			}
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addFlags.business, "business", "", "business name (required)")
	addCmd.Flags().StringVar(&addFlags.contact, "contact", "", "contact person")
	addCmd.Flags().StringVar(&addFlags.email, "email", "", "email address")
	addCmd.Flags().StringVar(&addFlags.phone, "phone", "", "phone number")
	addCmd.Flags().StringVar(&addFlags.state, "state", "", "US state")
	addCmd.Flags().StringVar(&addFlags.industry, "industry", "", "industry")
	addCmd.Flags().StringVar(&addFlags.revenue, "revenue", "", "annual revenue, free text")
	addCmd.Flags().BoolVar(&addFlags.draft, "draft", false, "print a preliminary scoring narrative")
	_ = addCmd.MarkFlagRequired("business")
	rootCmd.AddCommand(addCmd)
}
