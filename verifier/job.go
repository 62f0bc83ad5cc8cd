package verifier

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var runDirRe = regexp.MustCompile(`^run_\d+$`)

// runJob verifies one run end to end and classifies whatever went wrong.
// Nothing escapes the job boundary: even a panic becomes a retryable
// verdict, so one bad run never takes down its siblings.
func runJob(docker *DockerClient, job Job, opts Options) (res JobResult) {
	started := time.Now()
	res = JobResult{Key: job.Key, RunIndex: job.RunIndex, RunDir: job.RunDir}

	defer func() {
		res.Duration = time.Since(started)
		if r := recover(); r != nil {
			res.Symbol = SymbolBuildBlocked
			res.Kind = FailBuildFailed
			res.Detail = fmt.Sprintf("panic: %v", r)
		}
	}()

	err := verifyRun(docker, job, opts)
	if err == nil {
		res.Symbol = SymbolSuccess
		return res
	}

	var verr *VerifyError
	if !errors.As(err, &verr) {
		verr = &VerifyError{Kind: FailBuildFailed, Detail: err.Error()}
	}
	res.Symbol = verr.Kind.Symbol()
	res.Kind = verr.Kind
	res.Detail = verr.Detail
	return res
}

// verifyRun does the actual work: materialize the Dockerfile, build the
// image (with one Java fallback attempt when warranted), then launch and
// smoke-test it.
func verifyRun(docker *DockerClient, job Job, opts Options) error {
	if !dirExists(job.RunDir) {
		return failf(FailRunDirMissing, "%s", job.RunDir)
	}
	if !runDirRe.MatchString(filepath.Base(job.RunDir)) {
		return failf(FailRunDirMissing, "not a run_<n> directory: %s", job.RunDir)
	}

	if err := WriteDockerignore(job.RunDir); err != nil {
		return failf(FailRunDirMissing, "write .dockerignore: %v", err)
	}

	system := DetectBuildSystem(job.RunDir)
	if !system.HasDescriptor(job.RunDir) {
		return failf(FailBuildFileMissing, "%s not found in %s", system.DescriptorName(), job.RunDir)
	}

	templatePath := filepath.Join(opts.BaseDir, job.Target.TemplateName())
	if !fileExists(templatePath) {
		return failf(FailDockerfileSourceMissing, "%s", templatePath)
	}

	detected := DetectJavaVersion(job.RunDir)
	if detected == 0 {
		detected = baselineJava
	}
	candidates := []int{detected}
	if job.CompiledOK && detected != fallbackJava {
		candidates = append(candidates, fallbackJava)
	}

	outDir := job.Key.OutputDir(opts.BaseDir, job.RunIndex)

	// First successful build wins; on total failure the diagnostic is the
	// last attempt's output, which is the fallback's when one ran.
	var image string
	var lastErr *VerifyError
	for _, javaVersion := range candidates {
		content, err := RenderDockerfile(templatePath, job.Target, system, javaVersion)
		if err != nil {
			return failf(FailDockerfileSourceMissing, "%v", err)
		}
		if err := os.WriteFile(filepath.Join(job.RunDir, "Dockerfile"), []byte(content), 0o644); err != nil {
			return failf(FailBuildFailed, "write Dockerfile: %v", err)
		}

		tag := imageTag(job.Key.Conversion, job.RunIndex)
		out, err := docker.Build(job.RunDir, tag, opts.BuildTimeout)
		if err == nil {
			image = tag
			break
		}

		if errors.Is(err, errDockerTimeout) {
			writeDiagnostic(outDir, "docker_build.out",
				fmt.Sprintf("DOCKER BUILD TIMED OUT (%s)\n%s", opts.BuildTimeout, job.RunDir))
			lastErr = failf(FailBuildTimedOut, "after %s", opts.BuildTimeout)
			continue
		}

		writeDiagnostic(outDir, "docker_build.out", strings.Join([]string{
			"DOCKER BUILD FAILED",
			"cwd: " + job.RunDir,
			fmt.Sprintf("cmd: docker build -t %s .", tag),
			fmt.Sprintf("java: %d (%s)", javaVersion, system),
			"--- output ---",
			out,
		}, "\n"))
		lastErr = failf(FailBuildFailed, "%s", tail(out, diagnosticTailLines))
	}
	if image == "" {
		return lastErr
	}

	return Probe(docker, image, outDir, opts)
}

// imageTag derives a collision-free image name for one build attempt. The
// timestamp plus random suffix keeps concurrent jobs, and repeated attempts
// of the same run, out of each other's way in the daemon's namespace.
func imageTag(conversion string, runIndex int) string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s_%d_%d_%s",
		strings.ReplaceAll(conversion, "-", "_"), runIndex, time.Now().Unix(), suffix)
}
