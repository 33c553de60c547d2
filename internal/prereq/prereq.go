package prereq

import (
	"context"
	"os/exec"
	"time"

	"hlfnet/pkg/logging"
)

// Checker reports whether the container tooling the network needs is present.
type Checker interface {
	DockerAvailable(ctx context.Context) bool
	ComposeAvailable(ctx context.Context) bool
}

// probeTimeout bounds each probe; a wedged docker daemon should not hang the check.
const probeTimeout = 15 * time.Second

// DockerChecker probes the docker CLI.
type DockerChecker struct {
	// Run executes a probe command; nil means exec.
	Run func(ctx context.Context, name string, args ...string) error
}

// NewDockerChecker returns a checker that shells out to docker.
func NewDockerChecker() *DockerChecker {
	return &DockerChecker{Run: runProbe}
}

func runProbe(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return exec.CommandContext(ctx, name, args...).Run()
}

func (c *DockerChecker) run(ctx context.Context, name string, args ...string) error {
	if c.Run == nil {
		return runProbe(ctx, name, args...)
	}
	return c.Run(ctx, name, args...)
}

// DockerAvailable reports whether docker is installed and the daemon answers.
func (c *DockerChecker) DockerAvailable(ctx context.Context) bool {
	if err := c.run(ctx, "docker", "info"); err != nil {
		logging.Debug("Prerequisites", "docker info failed: %v", err)
		return false
	}
	return true
}

// ComposeAvailable reports whether either the compose plugin or the legacy
// docker-compose binary is installed.
func (c *DockerChecker) ComposeAvailable(ctx context.Context) bool {
	if err := c.run(ctx, "docker", "compose", "version"); err == nil {
		return true
	}
	if err := c.run(ctx, "docker-compose", "version"); err != nil {
		logging.Debug("Prerequisites", "no compose found: %v", err)
		return false
	}
	return true
}

// ComposeCommand returns the compose entry point to use, preferring the plugin.
func (c *DockerChecker) ComposeCommand(ctx context.Context) []string {
	if err := c.run(ctx, "docker", "compose", "version"); err == nil {
		return []string{"docker", "compose"}
	}
	return []string{"docker-compose"}
}
