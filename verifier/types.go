package verifier

import (
	"time"

	"verigo/events"
	"verigo/verifier/storage"
)

// Options configures one verification batch. A single value threads through
// every component; there is no process-wide mutable state.
type Options struct {
	ResultsFile    string // persisted ledger (markdown table)
	AuditFile      string // optional flat CSV audit, empty disables
	BaseDir        string // holds the Dockerfile templates and output root
	ConversionsDir string // root of the seeded run directories

	DryRun       bool // discover and count, dispatch nothing
	SkipExisting bool // leave Success verdicts alone

	MaxWorkers   int
	BuildTimeout time.Duration
	StartupWait  time.Duration

	// SmokeWait is the warm-up before the first smoke attempt. Unlike the
	// other knobs it gets no default from withDefaults: zero means no
	// warm-up, and the 480s default lives on the CLI flag so that
	// --smoke-wait 0 can still disable it.
	SmokeWait time.Duration

	SmokeAttempts int
	SmokeDelay    time.Duration

	Store  *storage.Store // optional history store
	Events *events.Broker // optional progress events
	Docker *DockerClient  // defaults to the system docker when jobs exist
}

// withDefaults fills in the defaults the CLI documents.
func (o Options) withDefaults() Options {
	if o.ResultsFile == "" {
		o.ResultsFile = "whole_app_conversions.md"
	}
	if o.BaseDir == "" {
		o.BaseDir = "."
	}
	if o.ConversionsDir == "" {
		o.ConversionsDir = "agentic"
	}
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = 128
	}
	if o.BuildTimeout <= 0 {
		o.BuildTimeout = 600 * time.Second
	}
	if o.StartupWait <= 0 {
		o.StartupWait = 2 * time.Second
	}
	if o.SmokeAttempts <= 0 {
		o.SmokeAttempts = 5
	}
	if o.SmokeDelay <= 0 {
		o.SmokeDelay = 2 * time.Second
	}
	return o
}

// Job is one independent unit of work: a single run directory to build,
// launch and smoke-test. Jobs never share files, names or state.
type Job struct {
	Key        ConversionKey
	RunIndex   int
	RunDir     string
	Target     Target
	CompiledOK bool
}

// JobResult is a job's terminal verdict.
type JobResult struct {
	Key      ConversionKey
	RunIndex int
	RunDir   string
	Symbol   StatusSymbol
	Kind     FailureKind // empty on success
	Detail   string      // short diagnostic, log tail for build failures
	Duration time.Duration
}

// BatchResult summarizes one pipeline invocation.
type BatchResult struct {
	Total     int
	Succeeded int
	Failed    int
	Duration  time.Duration
	Results   []JobResult
}
