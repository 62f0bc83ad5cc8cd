package verifier

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"verigo/verifier/storage"
)

// RunVerification executes the full pipeline: parse the ledger, discover
// which runs need work, fan the build+launch+smoke jobs out across the
// worker pool, then merge every verdict back in a single pass.
//
// Only ledger and configuration problems are returned as errors; individual
// job failures are verdicts, not errors.
func RunVerification(opts Options) (*BatchResult, error) {
	opts = opts.withDefaults()

	// A missing ledger at batch level is a configuration problem, not an
	// empty table: there is nothing to verify and nowhere to record it.
	if !fileExists(opts.ResultsFile) {
		return nil, fmt.Errorf("results file not found: %s", opts.ResultsFile)
	}
	ledger, err := LoadLedger(opts.ResultsFile)
	if err != nil {
		return nil, err
	}

	rows := ledger.Rows()
	log.Printf("📖 Parsed %d rows from %s", len(rows), opts.ResultsFile)

	jobs, updates := DiscoverJobs(rows, opts)

	if opts.DryRun {
		log.Printf("🔍 [dry run] Would process %d runs and update %s", len(jobs), opts.ResultsFile)
		return &BatchResult{Total: len(jobs)}, nil
	}

	docker := opts.Docker
	if docker == nil && len(jobs) > 0 {
		docker, err = NewDockerClient()
		if err != nil {
			return nil, err
		}
	}

	var batch *storage.Batch
	if opts.Store != nil {
		batch, err = opts.Store.CreateBatch(opts.ResultsFile, len(jobs))
		if err != nil {
			return nil, fmt.Errorf("create batch record: %w", err)
		}
	}

	if len(jobs) > 0 {
		log.Printf("🐳 Processing %d runs (max-workers=%d)", len(jobs), opts.MaxWorkers)
	}

	started := time.Now()
	result := &BatchResult{Total: len(jobs)}
	var auditRows [][]string
	done := 0

	collected := runBatch(jobs, opts.MaxWorkers, func(job Job) JobResult {
		return runJob(docker, job, opts)
	}, func(res JobResult) {
		done++
		updates[res.Key][res.RunIndex-1] = res.Symbol
		if res.Symbol == SymbolSuccess {
			result.Succeeded++
		} else {
			result.Failed++
		}

		auditRows = append(auditRows, []string{res.RunDir, res.Symbol.String(), string(res.Kind)})

		if batch != nil {
			if err := opts.Store.RecordResult(batch.ID, resultRecord(res)); err != nil {
				log.Printf("⚠️  Failed to record result: %v", err)
			}
		}
		if opts.Events != nil {
			opts.Events.Broadcast("job_completed", map[string]any{
				"done":   done,
				"total":  len(jobs),
				"key":    res.Key.String(),
				"run":    res.RunIndex,
				"symbol": res.Symbol.String(),
				"error":  string(res.Kind),
			})
		}
	})
	result.Results = collected
	result.Duration = time.Since(started)

	ledger.Merge(updates)
	if err := ledger.Save(); err != nil {
		return nil, err
	}

	if opts.AuditFile != "" && len(auditRows) > 0 {
		if err := writeAuditCSV(opts.AuditFile, auditRows); err != nil {
			log.Printf("⚠️  Failed to write audit CSV: %v", err)
		} else {
			log.Printf("📄 Audit CSV saved to %s", opts.AuditFile)
		}
	}

	if batch != nil {
		if err := opts.Store.FinishBatch(batch.ID, result.Succeeded, result.Failed, result.Duration); err != nil {
			log.Printf("⚠️  Failed to finish batch record: %v", err)
		}
	}

	return result, nil
}

// resultRecord converts a job verdict into its history-store row.
func resultRecord(res JobResult) storage.Result {
	return storage.Result{
		Tool:       res.Key.Tool,
		Model:      res.Key.Model,
		Layer:      res.Key.Layer,
		Conversion: res.Key.Conversion,
		App:        res.Key.App,
		RunIndex:   res.RunIndex,
		RunDir:     res.RunDir,
		Symbol:     res.Symbol.String(),
		Error:      string(res.Kind),
		Duration:   res.Duration.String(),
	}
}

// writeAuditCSV writes the flat per-run audit in the Path,Status,Error
// layout offline tooling expects.
func writeAuditCSV(path string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Path", "Status", "Error"}); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
