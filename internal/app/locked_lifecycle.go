package app

import (
	"context"

	"github.com/juju/mutex/v2"

	"hlfnet/internal/config"
	"hlfnet/internal/network"
	"hlfnet/pkg/logging"
)

// lockedLifecycle takes the project lock around every state-changing call
// and reloads the persisted state first, so a long-running MCP session sees
// what CLI commands did in between.
type lockedLifecycle struct {
	*network.Orchestrator
	acquire func(cancel <-chan struct{}) (mutex.Releaser, error)
}

func newLockedLifecycle(orch *network.Orchestrator, settings config.Config) *lockedLifecycle {
	return &lockedLifecycle{
		Orchestrator: orch,
		acquire: func(cancel <-chan struct{}) (mutex.Releaser, error) {
			return acquireLock(settings, cancel)
		},
	}
}

func (l *lockedLifecycle) enter(ctx context.Context) (func(), error) {
	releaser, err := l.acquire(ctx.Done())
	if err != nil {
		logging.Error("MCP", err, "Lifecycle call refused")
		return nil, err
	}
	if err := l.Orchestrator.Reload(); err != nil {
		logging.Warn("MCP", "%v", err)
	}
	return releaser.Release, nil
}

func (l *lockedLifecycle) CreateNetwork(ctx context.Context) bool {
	release, err := l.enter(ctx)
	if err != nil {
		return false
	}
	defer release()
	return l.Orchestrator.CreateNetwork(ctx)
}

func (l *lockedLifecycle) StopNetwork(ctx context.Context) network.Outcome {
	release, err := l.enter(ctx)
	if err != nil {
		return network.Outcome{Err: err}
	}
	defer release()
	return l.Orchestrator.StopNetwork(ctx)
}

func (l *lockedLifecycle) RestartNetwork(ctx context.Context) network.RestartResult {
	release, err := l.enter(ctx)
	if err != nil {
		return network.RestartResult{Stop: network.Outcome{Err: err}}
	}
	defer release()
	return l.Orchestrator.RestartNetwork(ctx)
}

func (l *lockedLifecycle) RemoveNetwork(ctx context.Context) network.Outcome {
	release, err := l.enter(ctx)
	if err != nil {
		return network.Outcome{Err: err}
	}
	defer release()
	return l.Orchestrator.RemoveNetwork(ctx)
}

func (l *lockedLifecycle) Ensure(ctx context.Context, candidate network.Candidate) (network.EnsureResult, error) {
	release, err := l.enter(ctx)
	if err != nil {
		return network.EnsureResult{}, err
	}
	defer release()
	return l.Orchestrator.Ensure(ctx, candidate)
}

func (l *lockedLifecycle) ShouldRestart(ctx context.Context, candidate network.Candidate) (bool, error) {
	if err := l.Orchestrator.Reload(); err != nil {
		logging.Warn("MCP", "%v", err)
	}
	return l.Orchestrator.ShouldRestart(ctx, candidate)
}
