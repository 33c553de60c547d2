package network

import (
	"context"
	"fmt"

	"hlfnet/internal/chaincode"
	"hlfnet/internal/reporting"
	"hlfnet/internal/shell"
	"hlfnet/pkg/logging"
)

var (
	upDetached = []string{"up", "--detach"}
	stopArgs   = []string{"stop"}
	downVolume = []string{"down", "-v"}
)

// CreateNetwork brings up the CA and main stacks, creates the channel and
// deploys the workspace chaincode in the configured mode. It returns false
// when a prerequisite is missing or any step fails; failures are reported
// through the notifier and never roll back what already ran. Running it
// against a network that is already up is fine.
func (o *Orchestrator) CreateNetwork(ctx context.Context) bool {
	o.gate.Lock()
	defer o.gate.Unlock()
	o.setExternal(o.cfg.Chaincode.External)
	return o.createNetwork(ctx)
}

func (o *Orchestrator) createNetwork(ctx context.Context) bool {
	ctx, span := o.tracer.Start(ctx, eventCreateNetwork)

	if !o.prereq.DockerAvailable(ctx) {
		o.notifier.Notify(reporting.LevelError, msgDockerNotRunning)
		endSpan(span, fmt.Errorf("docker unavailable"))
		return false
	}
	if !o.prereq.ComposeAvailable(ctx) {
		o.notifier.Notify(reporting.LevelError, msgComposeMissing)
		endSpan(span, fmt.Errorf("compose unavailable"))
		return false
	}

	start := o.clock.Now()
	o.progress.Begin(titleCreate)
	err := o.runCreate(ctx)
	o.progress.End(err)
	endSpan(span, err)
	if err != nil {
		logging.Error("Network", err, "Failed to start local Fabric network")
		o.notifier.Notify(reporting.LevelError, msgStartFailedPrefix+err.Error())
		return false
	}

	o.setStarted(true)
	o.publishRefresh(true)
	o.notifier.Notify(reporting.LevelInfo, msgStarted)
	o.record(eventCreateNetwork, metricCreateDuration, start)
	return true
}

func (o *Orchestrator) runCreate(ctx context.Context) error {
	s := &steps{ctx: ctx, op: "create"}

	if _, err := o.runner.RunCompose(ctx, shell.CAStack, upDetached, true); err != nil {
		return err
	}
	o.progress.Report(10, "")
	s.checkpoint()

	if _, err := o.runner.ExecInContainer(ctx, shell.CAStack, shell.CAContainer, shell.RegisterEnrollScript); err != nil {
		return err
	}
	o.progress.Report(20, "")
	s.checkpoint()

	if _, err := o.runner.RunCompose(ctx, shell.NetworkStack, upDetached, true); err != nil {
		return err
	}
	logging.Info("Network", "Created local Fabric network")
	o.progress.Report(70, labelCreatingChannel)
	s.checkpoint()

	o.settle()

	if _, err := o.runner.ExecInContainer(ctx, shell.NetworkStack, shell.CLIContainer, shell.CreateChannelScript); err != nil {
		return err
	}
	o.progress.Report(85, labelDeployChaincode)
	s.checkpoint()

	if o.Identity().External {
		if err := o.installExternalChaincode(ctx); err != nil {
			return err
		}
	} else {
		o.setPackageID(chaincode.DefaultPackageID(o.Identity()))
	}
	s.checkpoint()

	id := o.Identity()
	args := []string{chaincode.EffectiveID(id), id.Version, id.PackageID}
	if _, err := o.runner.ExecInContainer(ctx, shell.NetworkStack, shell.CLIContainer, shell.DeployChaincodeScript, args...); err != nil {
		return err
	}
	o.progress.Report(100, "")
	return nil
}

// settle gives the nodes time to become functional before the channel is
// created. A non-positive delay skips the wait.
func (o *Orchestrator) settle() {
	if o.cfg.SettleDelay <= 0 {
		return
	}
	<-o.clock.After(o.cfg.SettleDelay)
}

// installExternalChaincode packages the chaincode as a service and installs
// it on the peer. The package id printed by the packaging script becomes the
// deployed package id and the id handed to external debug sessions.
func (o *Orchestrator) installExternalChaincode(ctx context.Context) error {
	effective := chaincode.EffectiveID(o.Identity())

	out, err := o.runner.ExecInContainer(ctx, shell.NetworkStack, shell.CLIContainer, shell.PackageCaasScript, effective)
	if err != nil {
		return err
	}
	packageID := chaincode.ParsePackageOutput(out)
	o.setPackageID(packageID)
	o.debugEnv.SetExternalID(packageID)
	logging.Debug("Network", "Packaged external chaincode %s", packageID)

	if _, err := o.runner.ExecInContainer(ctx, shell.NetworkStack, shell.CLIContainer, shell.InstallCaasScript, effective); err != nil {
		return err
	}
	return nil
}

// StopNetwork ends the debug session and stops both stacks, keeping their
// containers and volumes. A failing command is reported but the network is
// still marked as stopped.
func (o *Orchestrator) StopNetwork(ctx context.Context) Outcome {
	o.gate.Lock()
	defer o.gate.Unlock()
	return o.stopNetwork(ctx)
}

func (o *Orchestrator) stopNetwork(ctx context.Context) Outcome {
	ctx, span := o.tracer.Start(ctx, eventStopNetwork)
	o.stopSession()

	start := o.clock.Now()
	o.progress.Begin(titleStop)
	err := o.runStop(ctx)
	o.progress.End(err)
	endSpan(span, err)
	if err != nil {
		o.reportTeardownError(err, msgStopFailed)
	}

	o.setStarted(false)
	o.publishRefresh(false)
	o.notifier.Notify(reporting.LevelInfo, msgStopped)
	o.record(eventStopNetwork, metricStopDuration, start)
	return Outcome{Err: err, StateReset: true}
}

func (o *Orchestrator) runStop(ctx context.Context) error {
	s := &steps{ctx: ctx, op: "stop"}

	o.progress.Report(20, "")
	if _, err := o.runner.RunCompose(ctx, shell.NetworkStack, stopArgs, true); err != nil {
		return err
	}
	o.progress.Report(40, "")
	s.checkpoint()

	if _, err := o.runner.RunCompose(ctx, shell.CAStack, stopArgs, true); err != nil {
		return err
	}
	o.progress.Report(100, "")
	return nil
}

// RemoveNetwork ends the debug session, cleans up generated files and tears
// both stacks down together with their volumes. Like StopNetwork it always
// leaves the network marked as stopped.
func (o *Orchestrator) RemoveNetwork(ctx context.Context) Outcome {
	o.gate.Lock()
	defer o.gate.Unlock()

	ctx, span := o.tracer.Start(ctx, eventRemoveNetwork)
	o.stopSession()

	start := o.clock.Now()
	o.progress.Begin(titleRemove)
	err := o.runRemove(ctx)
	o.progress.End(err)
	endSpan(span, err)
	if err != nil {
		o.reportTeardownError(err, msgRemoveFailed)
	}

	o.setStarted(false)
	o.publishRefresh(false)
	o.notifier.Notify(reporting.LevelInfo, msgRemoved)
	o.record(eventRemoveNetwork, metricRemoveDuration, start)
	return Outcome{Err: err, StateReset: true}
}

func (o *Orchestrator) runRemove(ctx context.Context) error {
	s := &steps{ctx: ctx, op: "remove"}

	if _, err := o.runner.ExecInContainer(ctx, shell.NetworkStack, shell.CLIContainer, shell.CleanupScript); err != nil {
		return err
	}
	o.progress.Report(20, "")
	s.checkpoint()

	if _, err := o.runner.RunCompose(ctx, shell.NetworkStack, downVolume, true); err != nil {
		return err
	}
	o.progress.Report(80, "")
	s.checkpoint()

	if _, err := o.runner.RunCompose(ctx, shell.CAStack, downVolume, true); err != nil {
		return err
	}
	o.progress.Report(100, "")
	return nil
}

// reportTeardownError tells a missing docker binary apart from any other
// failure.
func (o *Orchestrator) reportTeardownError(err error, generic string) {
	logging.Error("Network", err, "%s", generic)
	if shell.IsToolMissing(err) {
		o.notifier.Notify(reporting.LevelError, msgDockerMissing)
		return
	}
	o.notifier.Notify(reporting.LevelError, generic)
}

// RestartNetwork stops and then creates the network in the configured mode,
// holding the gate across both so no other operation can slip in between.
func (o *Orchestrator) RestartNetwork(ctx context.Context) RestartResult {
	o.gate.Lock()
	defer o.gate.Unlock()
	o.setExternal(o.cfg.Chaincode.External)
	return o.restartNetwork(ctx)
}

func (o *Orchestrator) restartNetwork(ctx context.Context) RestartResult {
	stop := o.stopNetwork(ctx)
	return RestartResult{Stop: stop, Started: o.createNetwork(ctx)}
}
