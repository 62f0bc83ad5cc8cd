package verifier

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	tcpProbeTimeout  = 2 * time.Second
	httpProbeTimeout = 5 * time.Second
)

// Probe launches the built image, verifies the application answers HTTP on
// its published port, and tears the container down no matter what happened.
func Probe(docker *DockerClient, image, outDir string, opts Options) error {
	name := image + "_container"

	// The container and image are removed on every path out of here,
	// including a failed launch that may have left a half-created container.
	defer docker.Cleanup(name, image)

	out, err := docker.RunDetached(name, image)
	if err != nil {
		writeDiagnostic(outDir, "docker_run.out", "DOCKER RUN FAILED\n"+out)
		return failf(FailRunLaunchFailed, "%s", tail(out, diagnosticTailLines))
	}

	time.Sleep(opts.StartupWait)

	status, _ := docker.ContainerStatus(name)
	status = strings.TrimSpace(status)
	if !strings.Contains(status, "Up") {
		logs := docker.ContainerLogs(name)
		writeDiagnostic(outDir, "docker_run.out", strings.Join([]string{
			"CONTAINER NOT RUNNING",
			"status: " + status,
			"--- logs ---",
			logs,
		}, "\n"))
		return failf(FailContainerNotRunning, "status %q", status)
	}

	port, err := docker.HostPort(name)
	if err != nil {
		writeDiagnostic(outDir, "docker_run.out", "PORT DETECTION FAILED\n"+err.Error())
		return failf(FailPortDetectionFailed, "%v", err)
	}

	// Long-starting frameworks may accept TCP connections well before the
	// application answers; give them their warm-up.
	if opts.SmokeWait > 0 {
		time.Sleep(opts.SmokeWait)
	}

	ok, detail := smokeTest(port, opts.SmokeAttempts, opts.SmokeDelay)
	logs := docker.ContainerLogs(name)

	verdict := "SMOKE TEST PASSED"
	if !ok {
		verdict = "SMOKE TEST FAILED"
	}
	writeDiagnostic(outDir, "smoke.out", strings.Join([]string{
		verdict,
		fmt.Sprintf("url: http://localhost:%d", port),
		"result: " + detail,
		"--- logs ---",
		logs,
	}, "\n"))

	if !ok {
		return failf(FailSmokeUnreachable, "%s", detail)
	}
	return nil
}

// smokeTest probes the published port: TCP reachability first, then an HTTP
// GET against the root path. Any HTTP response counts as liveness, error
// statuses included; the question is whether the application answered, not
// whether its default route is happy.
func smokeTest(port, attempts int, delay time.Duration) (bool, string) {
	addr := net.JoinHostPort("localhost", strconv.Itoa(port))
	client := &http.Client{Timeout: httpProbeTimeout}

	var lastErr string
	for attempt := 1; attempt <= attempts; attempt++ {
		conn, err := net.DialTimeout("tcp", addr, tcpProbeTimeout)
		if err != nil {
			lastErr = err.Error()
			time.Sleep(delay)
			continue
		}
		conn.Close()

		req, _ := http.NewRequest(http.MethodGet, "http://"+addr, nil)
		req.Header.Set("User-Agent", "verigo-smoke/1.0")
		req.Header.Set("Accept", "*/*")

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err.Error()
			time.Sleep(delay)
			continue
		}
		resp.Body.Close()
		return true, fmt.Sprintf("HTTP %d", resp.StatusCode)
	}

	return false, fmt.Sprintf("unreachable on port %d (%d attempts): %s", port, attempts, lastErr)
}
