package network

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/juju/clock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"hlfnet/internal/chaincode"
	"hlfnet/internal/config"
	"hlfnet/internal/prereq"
	"hlfnet/internal/reporting"
	"hlfnet/internal/session"
	"hlfnet/internal/shell"
	"hlfnet/internal/state"
	"hlfnet/internal/telemetry"
	"hlfnet/internal/workspace"
	"hlfnet/pkg/logging"
)

// TracerName is the instrumentation scope of lifecycle spans.
const TracerName = "hlfnet/network"

// Config holds the network settings the orchestrator needs.
type Config struct {
	Project            string        // Compose project name matched by ShouldRestart
	ExpectedContainers int           // Running containers of a healthy network
	SettleDelay        time.Duration // Wait between the main stack coming up and channel creation
	Chaincode          config.ChaincodeConfig
}

// ConfigFrom extracts the orchestrator settings from the loaded configuration.
func ConfigFrom(cfg config.Config) Config {
	return Config{
		Project:            cfg.Network.Project,
		ExpectedContainers: cfg.Network.ExpectedContainers,
		SettleDelay:        cfg.Network.SettleDelay,
		Chaincode:          cfg.Chaincode,
	}
}

// Dependencies are the collaborators of the orchestrator. Runner and Prereq
// are required; everything else falls back to a no-op.
type Dependencies struct {
	Runner    shell.Runner
	Prereq    prereq.Checker
	Progress  reporting.Progress
	Notifier  reporting.Notifier
	Events    reporting.EventBus
	Telemetry telemetry.Sink
	Sessions  session.Manager
	Workspace workspace.Provider
	Store     state.Store
	Clock     clock.Clock
	Tracer    trace.Tracer
}

// Orchestrator owns the network state and the chaincode identity and runs
// the lifecycle operations against the compose stacks.
type Orchestrator struct {
	cfg Config

	runner    shell.Runner
	prereq    prereq.Checker
	progress  reporting.Progress
	notifier  reporting.Notifier
	events    reporting.EventBus
	telemetry telemetry.Sink
	sessions  session.Manager
	workspace workspace.Provider
	store     state.Store
	clock     clock.Clock
	tracer    trace.Tracer

	// gate admits one lifecycle operation at a time.
	gate sync.Mutex

	mu       sync.RWMutex // Protects started, identity
	started  bool
	identity chaincode.Identity
	debugEnv *chaincode.DebugEnv
}

// New creates an orchestrator. The stored state, when there is one, is the
// deployed identity ShouldRestart compares against. The configured chaincode
// mode only applies once the network is created or restarted.
func New(cfg Config, deps Dependencies) (*Orchestrator, error) {
	if deps.Runner == nil {
		return nil, fmt.Errorf("network: a shell runner is required")
	}
	if deps.Prereq == nil {
		return nil, fmt.Errorf("network: a prerequisite checker is required")
	}
	if cfg.ExpectedContainers <= 0 {
		cfg.ExpectedContainers = config.DefaultExpectedContainers
	}
	if cfg.Project == "" {
		cfg.Project = config.DefaultProject
	}

	o := &Orchestrator{
		cfg:       cfg,
		runner:    deps.Runner,
		prereq:    deps.Prereq,
		progress:  deps.Progress,
		notifier:  deps.Notifier,
		events:    deps.Events,
		telemetry: deps.Telemetry,
		sessions:  deps.Sessions,
		workspace: deps.Workspace,
		store:     deps.Store,
		clock:     deps.Clock,
		tracer:    deps.Tracer,
	}
	if o.progress == nil {
		o.progress = reporting.NopProgress{}
	}
	if o.notifier == nil {
		o.notifier = reporting.NopNotifier{}
	}
	if o.events == nil {
		o.events = reporting.NewEventBus()
	}
	if o.telemetry == nil {
		o.telemetry = telemetry.Nop{}
	}
	if o.store == nil {
		o.store = state.NewMemoryStore()
	}
	if o.clock == nil {
		o.clock = clock.WallClock
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(TracerName)
	}

	o.identity = chaincode.NewIdentity(cfg.Chaincode.Version, cfg.Chaincode.External)
	stored, ok, err := o.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load network state: %w", err)
	}
	if ok {
		o.applyStored(stored)
	}
	o.debugEnv = chaincode.NewDebugEnv(o.identity, cfg.Chaincode.PeerAddress, cfg.Chaincode.ServerAddress)

	o.DeriveChaincodeName()
	return o, nil
}

func (o *Orchestrator) applyStored(stored state.NetworkState) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.started = stored.Started
	o.identity.External = stored.Chaincode.External
	if stored.Chaincode.Version != "" {
		o.identity.Version = stored.Chaincode.Version
	}
	if stored.Chaincode.BaseName != "" {
		o.identity.BaseName = stored.Chaincode.BaseName
	}
	o.identity.PackageID = stored.Chaincode.PackageID
	if o.identity.PackageID == "" {
		o.identity.PackageID = chaincode.DefaultPackageID(o.identity)
	}
}

// Reload picks up state saved by another hlfnet process. The workspace name
// is derived again afterwards.
func (o *Orchestrator) Reload() error {
	o.gate.Lock()
	defer o.gate.Unlock()

	stored, ok, err := o.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load network state: %w", err)
	}
	if !ok {
		return nil
	}
	o.applyStored(stored)

	id := o.Identity()
	o.debugEnv.SetExternalID(id.PackageID)
	o.debugEnv.SetInProcessID(chaincode.DefaultPackageID(id))
	o.DeriveChaincodeName()
	return nil
}

// Started reports whether the last lifecycle operation left the network running.
func (o *Orchestrator) Started() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.started
}

// ConfiguredExternal reports the chaincode mode CreateNetwork and
// RestartNetwork deploy.
func (o *Orchestrator) ConfiguredExternal() bool {
	return o.cfg.Chaincode.External
}

// Identity returns the chaincode identity currently deployed or about to be.
func (o *Orchestrator) Identity() chaincode.Identity {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.identity
}

// DebugEnv returns the environment for chaincode debug sessions.
func (o *Orchestrator) DebugEnv() *chaincode.DebugEnv {
	return o.debugEnv
}

// Events returns the bus refresh events are published on.
func (o *Orchestrator) Events() reporting.EventBus {
	return o.events
}

// DeriveChaincodeName names the chaincode after the workspace. Without a
// workspace name the current identity is kept.
func (o *Orchestrator) DeriveChaincodeName() {
	if o.workspace == nil {
		return
	}
	name, ok := o.workspace.Name()
	if !ok {
		return
	}

	o.mu.Lock()
	o.identity.BaseName = chaincode.SanitizeName(name)
	id := o.identity
	o.mu.Unlock()

	o.debugEnv.SetInProcessID(chaincode.DefaultPackageID(id))
	logging.Debug("Network", "Chaincode name derived from workspace %q: %s", name, chaincode.EffectiveID(id))
}

func (o *Orchestrator) setStarted(started bool) {
	o.mu.Lock()
	o.started = started
	o.mu.Unlock()
	o.persist()
}

func (o *Orchestrator) setPackageID(packageID string) {
	o.mu.Lock()
	o.identity.PackageID = packageID
	o.mu.Unlock()
}

func (o *Orchestrator) setExternal(external bool) {
	o.mu.Lock()
	o.identity.External = external
	id := o.identity
	o.mu.Unlock()
	o.debugEnv.SetInProcessID(chaincode.DefaultPackageID(id))
}

// persist saves the state. Failures are logged.
func (o *Orchestrator) persist() {
	o.mu.RLock()
	st := state.NetworkState{Started: o.started, Chaincode: o.identity}
	o.mu.RUnlock()
	if err := o.store.Save(st); err != nil {
		logging.Warn("Network", "Failed to save network state: %v", err)
	}
}

func (o *Orchestrator) publishRefresh(started bool) {
	o.events.Publish(reporting.NewEvent(reporting.EventIdentityRefresh, eventSource, started))
	o.events.Publish(reporting.NewEvent(reporting.EventNetworkRefresh, eventSource, started))
}

func (o *Orchestrator) record(event, metric string, start time.Time) {
	elapsed := o.clock.Now().Sub(start)
	o.telemetry.RecordEvent(event, nil, map[string]float64{metric: float64(elapsed.Milliseconds())})
}

// stopSession ends the chaincode debug session, if any. Failures are logged.
func (o *Orchestrator) stopSession() {
	if o.sessions == nil {
		return
	}
	h, ok := o.sessions.Active()
	if !ok {
		return
	}
	if err := o.sessions.Stop(h); err != nil {
		logging.Warn("Network", "Failed to stop debug session %d: %v", h.PID, err)
		return
	}
	logging.Info("Network", "Stopped debug session %d", h.PID)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// steps notices cancellation between steps. It never aborts the sequence;
// the first cancelled checkpoint is logged and later ones are silent.
type steps struct {
	ctx    context.Context
	op     string
	warned bool
}

func (s *steps) checkpoint() {
	if s.warned || s.ctx.Err() == nil {
		return
	}
	s.warned = true
	logging.Warn("Network", "Cancellation requested during %s; finishing the remaining steps", s.op)
}
