package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"verigo/verifier/storage"
)

var rootCmd = &cobra.Command{
	Use:   "verigo",
	Short: "Verify converted applications by building and smoke-testing them in Docker",
	Long: `verigo walks a results ledger of machine-generated framework
conversions, rebuilds each converted application into a container image,
launches it, and probes it for liveness. Verdicts are merged back into the
ledger so the batch can be re-run and resumed at any time.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore opens the history database under ./data, creating it on first
// use.
func openStore() (*storage.Store, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	dataDir := filepath.Join(cwd, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := storage.NewStore(filepath.Join(dataDir, "verigo.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}

func init() {
	log.SetFlags(0)
}
