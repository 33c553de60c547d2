package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"hlfnet/pkg/logging"
)

// Handle identifies a running chaincode debug session.
type Handle struct {
	PID       int       `yaml:"pid"`
	External  bool      `yaml:"external"`
	Command   []string  `yaml:"command"`
	StartedAt time.Time `yaml:"startedAt"`
}

// Manager tracks the debug session the network lifecycle has to end before
// containers go away.
type Manager interface {
	Active() (Handle, bool)
	Stop(Handle) error
}

// PIDFileManager records the session in a file so that a later hlfnet
// process can find and stop it.
type PIDFileManager struct {
	path   string
	Stdout io.Writer
	Stderr io.Writer
}

// NewPIDFileManager stores the session record under stateDir.
func NewPIDFileManager(stateDir string) *PIDFileManager {
	return &PIDFileManager{
		path:   filepath.Join(stateDir, "debug-session.yaml"),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Active returns the recorded session if its process is still alive. A stale
// record is removed.
func (m *PIDFileManager) Active() (Handle, bool) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return Handle{}, false
	}
	var h Handle
	if err := yaml.Unmarshal(data, &h); err != nil || h.PID <= 0 {
		logging.Warn("Session", "Ignoring unreadable session record %s", m.path)
		_ = os.Remove(m.path)
		return Handle{}, false
	}
	if !alive(h.PID) {
		_ = os.Remove(m.path)
		return Handle{}, false
	}
	return h, true
}

// Stop interrupts the session's process and forgets it.
func (m *PIDFileManager) Stop(h Handle) error {
	defer os.Remove(m.path)

	proc, err := os.FindProcess(h.PID)
	if err != nil {
		return fmt.Errorf("failed to find debug session %d: %w", h.PID, err)
	}
	if err := proc.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
		// Interrupt is not deliverable on every platform.
		if killErr := proc.Kill(); killErr != nil && !errors.Is(killErr, os.ErrProcessDone) {
			return fmt.Errorf("failed to stop debug session %d: %w", h.PID, killErr)
		}
	}
	logging.Info("Session", "Stopped debug session (pid %d)", h.PID)
	return nil
}

// Launch starts argv with env appended to the current environment, records it
// as the active session and waits for it to exit.
func (m *PIDFileManager) Launch(ctx context.Context, argv []string, env []string, external bool) error {
	if len(argv) == 0 {
		return fmt.Errorf("no chaincode command given")
	}
	if h, ok := m.Active(); ok {
		return fmt.Errorf("a debug session is already running (pid %d)", h.PID)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = m.Stdout
	cmd.Stderr = m.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start chaincode: %w", err)
	}

	h := Handle{PID: cmd.Process.Pid, External: external, Command: argv, StartedAt: time.Now()}
	if err := m.record(h); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return err
	}
	defer os.Remove(m.path)

	logging.Info("Session", "Chaincode debug session started (pid %d)", h.PID)
	return cmd.Wait()
}

func (m *PIDFileManager) record(h Handle) error {
	data, err := yaml.Marshal(&h)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return os.WriteFile(m.path, data, 0644)
}

func alive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
