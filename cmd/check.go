package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"verigo/events"
	"verigo/verifier"
)

var checkOpts verifier.Options

var checkConfigPath string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Build, launch and smoke-test every run the ledger marks as pending or retryable",
	RunE:  runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&checkOpts.ResultsFile, "results-file", "whole_app_conversions.md", "results ledger to read and update")
	f.StringVar(&checkOpts.AuditFile, "result-file", "", "optional CSV audit of every processed run")
	f.StringVar(&checkOpts.BaseDir, "base-dir", ".", "directory holding the Dockerfile templates and output root")
	f.StringVar(&checkOpts.ConversionsDir, "conversions-dir", "agentic", "root of the seeded conversion run directories")
	f.BoolVar(&checkOpts.DryRun, "dry-run", false, "discover and count jobs without running anything")
	f.BoolVar(&checkOpts.SkipExisting, "skip-existing", false, "leave runs already verified healthy alone")
	f.IntVar(&checkOpts.MaxWorkers, "max-workers", 128, "concurrent verification jobs")
	f.DurationVar(&checkOpts.BuildTimeout, "build-timeout", 600*time.Second, "per-attempt docker build timeout")
	f.DurationVar(&checkOpts.StartupWait, "startup-wait", 2*time.Second, "grace period before checking the container state")
	f.DurationVar(&checkOpts.SmokeWait, "smoke-wait", 480*time.Second, "extra warm-up before the first smoke attempt")
	f.IntVar(&checkOpts.SmokeAttempts, "smoke-attempts", 5, "smoke test attempts per run")
	f.DurationVar(&checkOpts.SmokeDelay, "smoke-delay", 2*time.Second, "delay between failed smoke attempts")
	f.StringVar(&checkConfigPath, "config", "", "optional YAML file supplying flag defaults")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts := checkOpts

	if checkConfigPath != "" {
		cfg, err := verifier.LoadFileConfig(checkConfigPath)
		if err != nil {
			return err
		}
		applyFileConfig(cmd, cfg, &opts)
	}

	if !opts.DryRun {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Store = store
	}

	// Progress lines render off the broker so workers never wait on stdout.
	broker := events.NewBroker()
	opts.Events = broker

	client := make(chan events.Event, 256)
	broker.Register(client)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for ev := range client {
			if ev.Type != "job_completed" {
				continue
			}
			line := fmt.Sprintf("[%v/%v] %v run_%v = %v",
				ev.Data["done"], ev.Data["total"], ev.Data["key"],
				ev.Data["run"], ev.Data["symbol"])
			if errText, _ := ev.Data["error"].(string); errText != "" {
				line += " (" + errText + ")"
			}
			fmt.Println(line)
		}
	}()

	result, err := verifier.RunVerification(opts)
	broker.Unregister(client)
	<-printed
	if err != nil {
		return err
	}

	if opts.DryRun {
		return nil
	}

	log.Printf("📊 Batch finished: %d jobs | %d verified | %d failed | %s",
		result.Total, result.Succeeded, result.Failed, result.Duration.Round(time.Millisecond))
	log.Println("✅ Done.")
	return nil
}

// applyFileConfig fills in config-file values for every flag the user did
// not set explicitly.
func applyFileConfig(cmd *cobra.Command, cfg *verifier.FileConfig, opts *verifier.Options) {
	unset := func(name string) bool { return !cmd.Flags().Changed(name) }

	if unset("results-file") && cfg.ResultsFile != "" {
		opts.ResultsFile = cfg.ResultsFile
	}
	if unset("result-file") && cfg.AuditFile != "" {
		opts.AuditFile = cfg.AuditFile
	}
	if unset("base-dir") && cfg.BaseDir != "" {
		opts.BaseDir = cfg.BaseDir
	}
	if unset("conversions-dir") && cfg.ConversionsDir != "" {
		opts.ConversionsDir = cfg.ConversionsDir
	}
	if unset("skip-existing") && cfg.SkipExisting {
		opts.SkipExisting = true
	}
	if unset("max-workers") && cfg.MaxWorkers > 0 {
		opts.MaxWorkers = cfg.MaxWorkers
	}
	if unset("build-timeout") && cfg.BuildTimeout > 0 {
		opts.BuildTimeout = time.Duration(cfg.BuildTimeout)
	}
	if unset("startup-wait") && cfg.StartupWait > 0 {
		opts.StartupWait = time.Duration(cfg.StartupWait)
	}
	if unset("smoke-wait") && cfg.SmokeWait > 0 {
		opts.SmokeWait = time.Duration(cfg.SmokeWait)
	}
	if unset("smoke-attempts") && cfg.SmokeAttempts > 0 {
		opts.SmokeAttempts = cfg.SmokeAttempts
	}
	if unset("smoke-delay") && cfg.SmokeDelay > 0 {
		opts.SmokeDelay = time.Duration(cfg.SmokeDelay)
	}
}
