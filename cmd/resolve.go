package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"verigo/verifier"
)

var resolveResultsFile string

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Map a conversion output path back to its ledger row",
	Long: `resolve parses a conversion output path (a run directory, or anything
under it) into its tool/layer/app identity and, when the row exists in the
results ledger, prints the recorded per-run verdicts.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveResultsFile, "results-file",
		"whole_app_conversions.md", "results ledger to look the row up in")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	key, err := verifier.ParseRunPath(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("tool:       %s\n", key.Tool)
	fmt.Printf("model:      %s\n", key.Model)
	fmt.Printf("layer:      %s\n", key.Layer)
	fmt.Printf("app:        %s\n", key.App)
	fmt.Printf("conversion: %s\n", key.Conversion)

	ledger, err := verifier.LoadLedger(resolveResultsFile)
	if err != nil {
		return err
	}
	for _, row := range ledger.Rows() {
		if row.Key != key {
			continue
		}
		fmt.Printf("converted:  %s\n", row.Converted)
		fmt.Printf("compiled:   %s\n", row.Compiled)
		fmt.Printf("verified:   %s\n", row.Verified)
		return nil
	}

	fmt.Printf("no row in %s\n", resolveResultsFile)
	return nil
}
