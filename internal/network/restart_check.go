package network

import (
	"context"
	"fmt"
	"strings"

	"hlfnet/internal/shell"
	"hlfnet/pkg/logging"
)

// Candidate is the configuration a caller is about to debug with.
type Candidate struct {
	External bool
}

// ShouldRestart reports whether the network has to be restarted before
// debugging with candidate: either the chaincode mode differs from what is
// deployed or not every container of the project is running. A failing
// status query counts as needing a restart and the error is returned too.
func (o *Orchestrator) ShouldRestart(ctx context.Context, candidate Candidate) (bool, error) {
	ctx, span := o.tracer.Start(ctx, "ShouldRestart")
	restart, err := o.shouldRestart(ctx, candidate)
	endSpan(span, err)
	return restart, err
}

func (o *Orchestrator) shouldRestart(ctx context.Context, candidate Candidate) (bool, error) {
	restart := false
	if candidate.External != o.Identity().External {
		logging.Debug("Network", "Chaincode mode changed (external=%t)", candidate.External)
		restart = true
	}

	args := []string{"ls", "--filter", "name=" + o.cfg.Project}
	out, err := o.runner.RunCompose(ctx, shell.NetworkStack, args, false)
	if err != nil {
		return true, fmt.Errorf("failed to query compose project %s: %w", o.cfg.Project, err)
	}

	healthy := fmt.Sprintf("running(%d)", o.cfg.ExpectedContainers)
	if !strings.Contains(strings.ToLower(out), healthy) {
		logging.Debug("Network", "Project %s is not fully running", o.cfg.Project)
		restart = true
	}
	return restart, nil
}

// Ensure restarts the network when ShouldRestart says so, deploying in the
// candidate's chaincode mode. The check and the restart run under one gate
// acquisition.
func (o *Orchestrator) Ensure(ctx context.Context, candidate Candidate) (EnsureResult, error) {
	o.gate.Lock()
	defer o.gate.Unlock()

	ctx, span := o.tracer.Start(ctx, "Ensure")
	restart, err := o.shouldRestart(ctx, candidate)
	endSpan(span, err)
	if err != nil {
		logging.Warn("Network", "Restarting because the network status is unknown: %v", err)
	}
	if !restart {
		return EnsureResult{}, nil
	}

	o.setExternal(candidate.External)
	return EnsureResult{Restarted: true, Restart: o.restartNetwork(ctx)}, err
}
