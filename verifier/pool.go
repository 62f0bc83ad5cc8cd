package verifier

import "golang.org/x/sync/errgroup"

// runBatch drains the job queue with a bounded pool of workers. Results are
// handed to the collector in completion order, from a single goroutine, so
// the collector needs no locking. Work is process- and I/O-bound, which is
// why the bound is independent of CPU count.
func runBatch(jobs []Job, workers int, run func(Job) JobResult, collect func(JobResult)) []JobResult {
	results := make(chan JobResult)

	done := make(chan struct{})
	collected := make([]JobResult, 0, len(jobs))
	go func() {
		defer close(done)
		for res := range results {
			collected = append(collected, res)
			if collect != nil {
				collect(res)
			}
		}
	}()

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			results <- run(job)
			return nil
		})
	}
	_ = g.Wait()
	close(results)
	<-done

	return collected
}
