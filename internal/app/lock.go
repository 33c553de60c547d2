package app

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/mutex/v2"

	"hlfnet/internal/config"
	"hlfnet/pkg/logging"
)

const (
	lockPrefix   = "hlfnet-"
	maxLockName  = 40
	lockInterval = 250 * time.Millisecond
)

var invalidLockChars = regexp.MustCompile(`[^a-zA-Z0-9-]+`)

// lockName turns the compose project into a machine-wide mutex name. Names
// may only hold letters, digits and hyphens and are limited in length.
func lockName(project string) string {
	name := lockPrefix + strings.Trim(invalidLockChars.ReplaceAllString(project, "-"), "-")
	if len(name) > maxLockName {
		name = name[:maxLockName]
	}
	return strings.TrimRight(name, "-")
}

// acquireLock blocks until no other hlfnet process is driving the same
// project, the configured timeout passes, or cancel is closed.
func acquireLock(settings config.Config, cancel <-chan struct{}) (mutex.Releaser, error) {
	spec := mutex.Spec{
		Name:    lockName(settings.Network.Project),
		Clock:   clock.WallClock,
		Delay:   lockInterval,
		Timeout: settings.Lock.Timeout,
		Cancel:  cancel,
	}
	logging.Debug("Lock", "Acquiring %s", spec.Name)

	releaser, err := mutex.Acquire(spec)
	switch {
	case err == nil:
		return releaser, nil
	case errors.Is(err, mutex.ErrTimeout):
		return nil, fmt.Errorf("another hlfnet command is still running for project %s: %w", settings.Network.Project, err)
	case errors.Is(err, mutex.ErrCancelled):
		return nil, fmt.Errorf("cancelled while waiting for another hlfnet command: %w", err)
	default:
		return nil, fmt.Errorf("failed to acquire lock %s: %w", spec.Name, err)
	}
}
