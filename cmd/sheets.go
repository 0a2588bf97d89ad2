package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/leadflow/leadflow-cli/internal/sheets"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Google Sheets sync",
}

var sheetsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull leads from the configured sheet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		res := env.Pipeline.SyncSheets(ctx)
		if !res.Success {
			return eris.Errorf("sheet sync failed: %s", res.Error)
		}

		fmt.Printf("Synced %d of %d rows (%d skipped)\n", res.Imported, res.TotalRows, res.Skipped)
		return nil
	},
}

var sheetsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe each sheet access strategy",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		client := sheets.NewClient(sheets.Options{UserAgent: cfg.HTTP.UserAgent})
		results := client.Probe(ctx, cfg.Sheets.ID, cfg.Sheets.Name)

		ok := false
		for _, s := range sheets.Strategies {
			if err := results[s]; err != nil {
				fmt.Printf("  %-8s FAIL  %v\n", s, err)
			} else {
				fmt.Printf("  %-8s OK\n", s)
				ok = true
			}
		}
		if !ok {
			return eris.New("no access strategy works; share the sheet as 'anyone with the link can view'")
		}
		return nil
	},
}

func init() {
	sheetsCmd.AddCommand(sheetsSyncCmd, sheetsCheckCmd)
	rootCmd.AddCommand(sheetsCmd)
}
