package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/leadflow/leadflow-cli/internal/tabular"
)

var importFlags struct {
	xlsx bool
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import leads from a file or stdin",
	Long: `Imports leads from pasted text, CSV, TSV, or (with --xlsx) a
spreadsheet. Structured input is column-mapped automatically; free-form
text is parsed with the model API when a key is configured.

With no file argument, input is read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		raw, err := readImportInput(args)
		if err != nil {
			return err
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Pipeline.SmartImport(ctx, raw)
		if err != nil {
			return eris.Wrap(err, "import leads")
		}

		fmt.Printf("Imported %d leads (%d duplicates, %d skipped)\n",
			res.Imported, res.Duplicates, res.Skipped)
		for _, w := range res.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
		return nil
	},
}

// readImportInput loads the import payload from the file argument or
// stdin. XLSX files are flattened to tab-separated rows so the rest of
// the pipeline sees the same shape as pasted TSV.
func readImportInput(args []string) (string, error) {
	if importFlags.xlsx {
		if len(args) == 0 {
			return "", eris.New("--xlsx needs a file argument")
		}
		rows, err := tabular.ReadXLSX(args[0])
		if err != nil {
			return "", err
		}
		lines := make([]string, len(rows))
		for i, row := range rows {
			lines[i] = strings.Join(row, "\t")
		}
		return strings.Join(lines, "\n"), nil
	}

	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", eris.Wrap(err, "read import file")
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", eris.Wrap(err, "read stdin")
	}
	return string(data), nil
}

func init() {
	importCmd.Flags().BoolVar(&importFlags.xlsx, "xlsx", false, "treat the file as an XLSX spreadsheet")
	rootCmd.AddCommand(importCmd)
}
