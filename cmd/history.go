package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent verification batches and their outcomes",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of batches to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	batches, err := store.GetBatches(historyLimit)
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		fmt.Println("No verification batches recorded yet.")
		return nil
	}

	fmt.Printf("%-5s %-10s %-6s %-9s %-7s %-20s %-10s %s\n",
		"ID", "STATUS", "JOBS", "VERIFIED", "FAILED", "STARTED", "DURATION", "RESULTS FILE")
	for _, b := range batches {
		duration := "-"
		if b.Duration != nil {
			duration = *b.Duration
		}
		fmt.Printf("%-5d %-10s %-6d %-9d %-7d %-20s %-10s %s\n",
			b.ID, b.Status, b.TotalJobs, b.Succeeded, b.Failed,
			b.StartedAt.Format("2006-01-02 15:04:05"), duration, b.ResultsFile)
	}

	// The latest batch gets a failure breakdown; older ones are one line.
	latest := batches[0]
	breakdown, err := store.FailureBreakdown(latest.ID)
	if err != nil {
		return err
	}
	if len(breakdown) > 0 {
		fmt.Printf("\nFailure breakdown for batch %d:\n", latest.ID)
		for kind, count := range breakdown {
			fmt.Printf("  %3d × %s\n", count, kind)
		}
	}
	return nil
}
