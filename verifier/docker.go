package verifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"regexp"
	"strconv"
	"time"
)

// appPort is the HTTP port every converted application serves inside its
// container; the host side is always OS-assigned.
const appPort = 8080

// Timeouts for the short docker subcommands. Builds get their own
// caller-supplied bound.
const (
	launchTimeout  = 20 * time.Second
	inspectTimeout = 10 * time.Second
	logsTimeout    = 30 * time.Second
	cleanupTimeout = 8 * time.Second
)

// errDockerTimeout marks a docker invocation that hit its deadline.
var errDockerTimeout = errors.New("docker command timed out")

var hostPortRe = regexp.MustCompile(`:(\d+)`)

// DockerClient shells out to the docker CLI. Every invocation is bounded by
// a timeout and captures combined stdout and stderr.
type DockerClient struct {
	path string
}

// NewDockerClient locates the docker binary and confirms the daemon answers.
func NewDockerClient() (*DockerClient, error) {
	path, err := exec.LookPath("docker")
	if err != nil {
		return nil, fmt.Errorf("docker binary not found: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := exec.CommandContext(ctx, path, "version", "--format", "{{.Server.Version}}").Run(); err != nil {
		return nil, fmt.Errorf("docker daemon not responding: %w", err)
	}
	return &DockerClient{path: path}, nil
}

// run executes one docker command and returns its combined output. Hitting
// the deadline is reported as errDockerTimeout.
func (c *DockerClient) run(dir string, timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.path, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	output := stdout.String()
	if stderr.Len() > 0 {
		if output != "" && output[len(output)-1] != '\n' {
			output += "\n"
		}
		output += stderr.String()
	}

	if ctx.Err() == context.DeadlineExceeded {
		return output, fmt.Errorf("%w after %s", errDockerTimeout, timeout)
	}
	return output, err
}

// Build builds the run directory's Dockerfile into the given image tag.
func (c *DockerClient) Build(runDir, tag string, timeout time.Duration) (string, error) {
	return c.run(runDir, timeout, "build", "-t", tag, ".")
}

// RunDetached launches the image in the background, publishing appPort to an
// OS-assigned host port.
func (c *DockerClient) RunDetached(name, image string) (string, error) {
	return c.run("", launchTimeout, "run", "-d",
		"-p", fmt.Sprintf("0:%d", appPort), "--name", name, image)
}

// ContainerStatus returns the docker status line for the named container,
// e.g. "Up 3 seconds" or "Exited (1) 2 seconds ago".
func (c *DockerClient) ContainerStatus(name string) (string, error) {
	return c.run("", inspectTimeout, "ps", "-a",
		"--filter", "name="+name, "--format", "{{.Status}}")
}

// ContainerLogs fetches the container's logs, best effort.
func (c *DockerClient) ContainerLogs(name string) string {
	out, _ := c.run("", logsTimeout, "logs", name)
	return out
}

// HostPort resolves the OS-assigned host port that appPort was published to.
func (c *DockerClient) HostPort(name string) (int, error) {
	out, err := c.run("", inspectTimeout, "port", name, strconv.Itoa(appPort))
	if err != nil {
		return 0, fmt.Errorf("docker port: %w", err)
	}
	return parseHostPort(out)
}

// Cleanup force-removes the container and its image. Failures here never
// change a job's verdict; they are logged and forgotten.
func (c *DockerClient) Cleanup(name, image string) {
	if out, err := c.run("", cleanupTimeout, "rm", "-f", name); err != nil {
		log.Printf("⚠️  %s: container %s: %v %s", FailCleanupFailed, name, err, out)
	}
	if out, err := c.run("", cleanupTimeout, "rmi", "-f", image); err != nil {
		log.Printf("⚠️  %s: image %s: %v %s", FailCleanupFailed, image, err, out)
	}
}

// parseHostPort extracts the host port from `docker port` output such as
// "0.0.0.0:32768".
func parseHostPort(out string) (int, error) {
	m := hostPortRe.FindStringSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("no host port in %q", out)
	}
	return strconv.Atoi(m[1])
}
