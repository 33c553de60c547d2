package network

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"hlfnet/internal/reporting"
	"hlfnet/internal/session"
	"hlfnet/internal/shell"
	"hlfnet/internal/state"
	"hlfnet/internal/telemetry"
	"hlfnet/internal/workspace"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// fakeRunner records every command as a short string and answers from
// canned outputs and failures keyed by the same string.
type fakeRunner struct {
	mu       sync.Mutex
	calls    []string
	captures []bool
	outputs  map[string]string
	failures map[string]error
	onCall   func(call string)
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs:  map[string]string{},
		failures: map[string]error{},
	}
}

func composeCall(file shell.ComposeFile, args ...string) string {
	return strings.TrimSpace(fmt.Sprintf("compose %s %s", file, strings.Join(args, " ")))
}

func execCall(container string, script shell.Script, args ...string) string {
	return strings.TrimSpace(fmt.Sprintf("exec %s %s %s", container, path.Base(script.Path), strings.Join(args, " ")))
}

func (f *fakeRunner) RunCompose(_ context.Context, file shell.ComposeFile, args []string, capture bool) (string, error) {
	return f.answer(composeCall(file, args...), capture)
}

func (f *fakeRunner) ExecInContainer(_ context.Context, _ shell.ComposeFile, container string, script shell.Script, args ...string) (string, error) {
	return f.answer(execCall(container, script, args...), true)
}

func (f *fakeRunner) answer(call string, capture bool) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.captures = append(f.captures, capture)
	out, err, hook := f.outputs[call], f.failures[call], f.onCall
	f.mu.Unlock()
	if hook != nil {
		hook(call)
	}
	return out, err
}

func (f *fakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) DockerAvailable(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *mockChecker) ComposeAvailable(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Active() (session.Handle, bool) {
	args := m.Called()
	return args.Get(0).(session.Handle), args.Bool(1)
}

func (m *mockSessions) Stop(h session.Handle) error {
	return m.Called(h).Error(0)
}

type progressStep struct {
	Percent int
	Label   string
}

// recordingProgress keeps every report of the current scope.
type recordingProgress struct {
	mu     sync.Mutex
	titles []string
	steps  []progressStep
	ended  []error
}

func (p *recordingProgress) Begin(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.titles = append(p.titles, title)
}

func (p *recordingProgress) Report(percent int, label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps = append(p.steps, progressStep{Percent: percent, Label: label})
}

func (p *recordingProgress) End(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ended = append(p.ended, err)
}

func (p *recordingProgress) percents() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, 0, len(p.steps))
	for _, s := range p.steps {
		out = append(out, s.Percent)
	}
	return out
}

type notification struct {
	Level   reporting.Level
	Message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) Notify(level reporting.Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{Level: level, Message: message})
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.Message)
	}
	return out
}

// harness wires an orchestrator to fakes.
type harness struct {
	runner    *fakeRunner
	checker   *mockChecker
	sessions  *mockSessions
	progress  *recordingProgress
	notifier  *recordingNotifier
	events    *reporting.DefaultEventBus
	received  []reporting.Event
	telemetry *telemetry.Recorder
	store     *state.MemoryStore
	clock     *testclock.Clock
	spans     *tracetest.SpanRecorder
	orch      *Orchestrator
}

type harnessOption func(*Config, *Dependencies)

func withSettleDelay(d time.Duration) harnessOption {
	return func(c *Config, _ *Dependencies) { c.SettleDelay = d }
}

func withExternal() harnessOption {
	return func(c *Config, _ *Dependencies) { c.Chaincode.External = true }
}

func withWorkspace(name string) harnessOption {
	return func(_ *Config, d *Dependencies) { d.Workspace = workspace.Static(name) }
}

func withState(st state.NetworkState) harnessOption {
	return func(_ *Config, d *Dependencies) {
		store := state.NewMemoryStore()
		_ = store.Save(st)
		d.Store = store
	}
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	h := &harness{
		runner:    newFakeRunner(),
		checker:   &mockChecker{},
		sessions:  &mockSessions{},
		progress:  &recordingProgress{},
		notifier:  &recordingNotifier{},
		events:    reporting.NewEventBus(),
		telemetry: &telemetry.Recorder{},
		store:     state.NewMemoryStore(),
		clock:     testclock.NewClock(fixedNow),
		spans:     tracetest.NewSpanRecorder(),
	}
	h.events.Subscribe(nil, func(e reporting.Event) { h.received = append(h.received, e) })
	h.runner.outputs[composeCall(shell.NetworkStack, "ls", "--filter", "name=fabric-singleorg")] =
		"NAME                STATUS              CONFIG FILES\nfabric-singleorg    running(5)          compose-local.yaml\n"
	h.sessions.On("Active").Return(session.Handle{}, false).Maybe()

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(h.spans))
	cfg := Config{Project: "fabric-singleorg", ExpectedContainers: 5}
	deps := Dependencies{
		Runner:    h.runner,
		Prereq:    h.checker,
		Progress:  h.progress,
		Notifier:  h.notifier,
		Events:    h.events,
		Telemetry: h.telemetry,
		Sessions:  h.sessions,
		Store:     h.store,
		Clock:     h.clock,
		Tracer:    tp.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(&cfg, &deps)
	}

	if ms, ok := deps.Store.(*state.MemoryStore); ok {
		h.store = ms
	}

	orch, err := New(cfg, deps)
	require.NoError(t, err)
	h.orch = orch
	return h
}

func (h *harness) prerequisites(docker, compose bool) {
	h.checker.On("DockerAvailable", mock.Anything).Return(docker)
	h.checker.On("ComposeAvailable", mock.Anything).Return(compose).Maybe()
}

func (h *harness) eventTypes() []reporting.EventType {
	out := make([]reporting.EventType, 0, len(h.received))
	for _, e := range h.received {
		out = append(out, e.Type)
	}
	return out
}

func (h *harness) spanNames() []string {
	var out []string
	for _, s := range h.spans.Ended() {
		out = append(out, s.Name())
	}
	return out
}
