package verifier

import "log"

// DiscoverJobs walks the parsed rows and decides, per run index, whether a
// verification job is needed or the stored verdict stands. It returns the
// jobs plus the update map the batch will merge back; positions decided
// here (not compiled, kept verdicts) are already filled in.
//
// The policy, which makes re-invocation idempotent:
//   - run did not compile upstream: record NotCompiled, no job
//   - verdict is Success and skip-existing is set: keep, no job
//   - no verdict yet, or a retryable blocked marker: job
//   - anything else, unknown runes included: keep as-is, no job
func DiscoverJobs(rows []Row, opts Options) ([]Job, map[ConversionKey][]StatusSymbol) {
	var jobs []Job
	updates := make(map[ConversionKey][]StatusSymbol)

	for _, row := range rows {
		runs := row.Runs()
		if runs <= 0 {
			continue
		}

		updates[row.Key] = make([]StatusSymbol, runs)

		appDir := row.Key.AppDir(opts.ConversionsDir)
		if !dirExists(appDir) {
			log.Printf("⚠️  Missing app directory: %s", appDir)
			continue
		}

		target, err := ParseTarget(row.Key.Conversion)
		if err != nil {
			log.Printf("⚠️  Skipping %s: %v", row.Key, err)
			continue
		}

		for run := 1; run <= runs; run++ {
			existing := row.VerifiedSymbol(run)

			if !row.CompiledOK(run) {
				sym := existing
				if sym == SymbolNone {
					sym = SymbolNotCompiled
				}
				updates[row.Key][run-1] = sym
				continue
			}

			if opts.SkipExisting && existing == SymbolSuccess {
				updates[row.Key][run-1] = existing
				continue
			}

			if !existing.Retryable() {
				updates[row.Key][run-1] = existing
				continue
			}

			jobs = append(jobs, Job{
				Key:        row.Key,
				RunIndex:   run,
				RunDir:     row.Key.RunDir(opts.ConversionsDir, run),
				Target:     target,
				CompiledOK: true,
			})
		}
	}

	return jobs, updates
}
