package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"hlfnet/pkg/logging"
)

// ComposeFile names one of the compose stacks that make up the network. The
// definitions themselves are shipped alongside hlfnet and are opaque to it.
type ComposeFile string

const (
	CAStack      ComposeFile = "compose-local-ca.yaml"
	NetworkStack ComposeFile = "compose-local.yaml"
)

// Runner executes compose commands and scripts inside compose services.
type Runner interface {
	// RunCompose runs `compose -f <file> <args>` and returns stdout. When
	// capture is false stdout is still returned but is not echoed to the debug log.
	RunCompose(ctx context.Context, file ComposeFile, args []string, capture bool) (string, error)
	// ExecInContainer runs script inside container of the given stack.
	ExecInContainer(ctx context.Context, file ComposeFile, container string, script Script, args ...string) (string, error)
}

// ComposeRunner shells out to the docker compose CLI.
type ComposeRunner struct {
	// Dir holds the compose definitions; commands run with it as working directory.
	Dir string
	// Command is the compose entry point, e.g. ["docker", "compose"] or ["docker-compose"].
	Command []string
	// Stderr receives a copy of the command's stderr when set.
	Stderr io.Writer
}

// NewComposeRunner returns a runner for the compose files in dir.
func NewComposeRunner(dir string, command []string) *ComposeRunner {
	if len(command) == 0 {
		command = []string{"docker", "compose"}
	}
	return &ComposeRunner{Dir: dir, Command: command}
}

// execCommand is swapped out in tests.
var execCommand = exec.CommandContext

// RunCompose implements Runner.
func (r *ComposeRunner) RunCompose(ctx context.Context, file ComposeFile, args []string, capture bool) (string, error) {
	argv := append(r.baseArgs(file), args...)
	out, err := r.run(ctx, argv)
	if capture && out != "" {
		logging.Debug("Compose", "%s: %s", file, strings.TrimSpace(out))
	}
	return out, err
}

// ExecInContainer implements Runner.
func (r *ComposeRunner) ExecInContainer(ctx context.Context, file ComposeFile, container string, script Script, args ...string) (string, error) {
	argv := append(r.baseArgs(file), "exec", "-T", container, script.shell(), script.Path)
	argv = append(argv, args...)
	out, err := r.run(ctx, argv)
	if out != "" {
		logging.Debug("Compose", "%s %s: %s", container, script.Path, strings.TrimSpace(out))
	}
	return out, err
}

func (r *ComposeRunner) baseArgs(file ComposeFile) []string {
	argv := make([]string, 0, len(r.Command)+2)
	argv = append(argv, r.Command...)
	return append(argv, "-f", filepath.Join(r.Dir, string(file)))
}

func (r *ComposeRunner) run(ctx context.Context, argv []string) (string, error) {
	// In-flight commands are never interrupted; cancellation is only observed
	// between steps by the caller.
	cmd := execCommand(context.WithoutCancel(ctx), argv[0], argv[1:]...)
	cmd.Dir = r.Dir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, r.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	logging.Debug("Compose", "Running %s", strings.Join(argv, " "))
	if err := cmd.Run(); err != nil {
		return stdoutBuf.String(), newProcessError(argv, stderrBuf.String(), err)
	}
	return stdoutBuf.String(), nil
}

// String is used in log lines.
func (r *ComposeRunner) String() string {
	return fmt.Sprintf("%s (dir %s)", strings.Join(r.Command, " "), r.Dir)
}
