package verifier

import "fmt"

// FailureKind classifies everything that can go wrong while verifying one
// run. The classification is what the audit CSV and history store record;
// the raw diagnostics live in the run's output directory.
type FailureKind string

const (
	FailPrerequisiteNotCompiled FailureKind = "prerequisite not compiled"
	FailDockerfileSourceMissing FailureKind = "no dockerfile found"
	FailRunDirMissing           FailureKind = "run directory not found"
	FailBuildFileMissing        FailureKind = "build file not found"
	FailBuildFailed             FailureKind = "docker build error"
	FailBuildTimedOut           FailureKind = "docker build timeout"
	FailRunLaunchFailed         FailureKind = "docker run error"
	FailContainerNotRunning     FailureKind = "container not running"
	FailPortDetectionFailed     FailureKind = "port detection error"
	FailSmokeUnreachable        FailureKind = "docker ping error"
	FailCleanupFailed           FailureKind = "cleanup error"
)

// Symbol maps a failure onto the persisted alphabet: build-stage failures
// are retryable as BuildBlocked, runtime and smoke failures as RunBlocked,
// and missing prerequisites are final.
func (k FailureKind) Symbol() StatusSymbol {
	switch k {
	case FailPrerequisiteNotCompiled:
		return SymbolNotCompiled
	case FailBuildFailed, FailBuildTimedOut:
		return SymbolBuildBlocked
	case FailRunDirMissing, FailBuildFileMissing, FailDockerfileSourceMissing:
		return SymbolSkipped
	default:
		return SymbolRunBlocked
	}
}

// VerifyError is a classified job failure with a short diagnostic. Every
// failure inside a job is caught at the job boundary and carried as one of
// these; it never aborts sibling jobs.
type VerifyError struct {
	Kind   FailureKind
	Detail string
}

func (e *VerifyError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func failf(kind FailureKind, format string, args ...any) *VerifyError {
	return &VerifyError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
