package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hlfnet/internal/chaincode"
	"hlfnet/internal/network"
	"hlfnet/internal/reporting"
)

type mockLifecycle struct {
	mock.Mock
	bus *reporting.DefaultEventBus
	env *chaincode.DebugEnv
	id  chaincode.Identity
}

func newMockLifecycle() *mockLifecycle {
	id := chaincode.NewIdentity("v1", false)
	return &mockLifecycle{
		bus: reporting.NewEventBus(),
		env: chaincode.NewDebugEnv(id, "", ""),
		id:  id,
	}
}

func (m *mockLifecycle) CreateNetwork(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *mockLifecycle) StopNetwork(ctx context.Context) network.Outcome {
	return m.Called(ctx).Get(0).(network.Outcome)
}

func (m *mockLifecycle) RestartNetwork(ctx context.Context) network.RestartResult {
	return m.Called(ctx).Get(0).(network.RestartResult)
}

func (m *mockLifecycle) RemoveNetwork(ctx context.Context) network.Outcome {
	return m.Called(ctx).Get(0).(network.Outcome)
}

func (m *mockLifecycle) ShouldRestart(ctx context.Context, c network.Candidate) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}

func (m *mockLifecycle) Ensure(ctx context.Context, c network.Candidate) (network.EnsureResult, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(network.EnsureResult), args.Error(1)
}

func (m *mockLifecycle) Started() bool                 { return true }
func (m *mockLifecycle) Identity() chaincode.Identity  { return m.id }
func (m *mockLifecycle) DebugEnv() *chaincode.DebugEnv { return m.env }
func (m *mockLifecycle) Events() reporting.EventBus    { return m.bus }

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestServer_Tools(t *testing.T) {
	s := New(newMockLifecycle(), "test")

	var names []string
	for _, tool := range s.tools() {
		names = append(names, tool.Tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"network_create", "network_stop", "network_restart", "network_remove",
		"network_should_restart", "network_ensure", "chaincode_debug_env",
	}, names)
	assert.NotNil(t, s.MCPServer())
}

func TestServer_HandleCreate(t *testing.T) {
	lc := newMockLifecycle()
	lc.On("CreateNetwork", mock.Anything).Return(true).Once()
	lc.On("CreateNetwork", mock.Anything).Return(false).Once()
	s := New(lc, "test")

	res, err := s.handleCreate(context.Background(), toolRequest("network_create", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Local Fabric Network started", resultText(t, res))

	res, err = s.handleCreate(context.Background(), toolRequest("network_create", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_HandleStopDegraded(t *testing.T) {
	lc := newMockLifecycle()
	lc.On("StopNetwork", mock.Anything).Return(network.Outcome{Err: errors.New("exit status 1"), StateReset: true})
	s := New(lc, "test")

	res, err := s.handleStop(context.Background(), toolRequest("network_stop", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "exit status 1")
}

func TestServer_HandleRestart(t *testing.T) {
	lc := newMockLifecycle()
	lc.On("RestartNetwork", mock.Anything).Return(network.RestartResult{
		Stop:    network.Outcome{Err: errors.New("ca stop failed"), StateReset: true},
		Started: true,
	})
	s := New(lc, "test")

	res, err := s.handleRestart(context.Background(), toolRequest("network_restart", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "ca stop failed")
	assert.Contains(t, text, "restarted")
}

func TestServer_HandleShouldRestart(t *testing.T) {
	lc := newMockLifecycle()
	lc.On("ShouldRestart", mock.Anything, network.Candidate{External: true}).Return(true, nil)
	lc.On("ShouldRestart", mock.Anything, network.Candidate{External: false}).Return(true, errors.New("compose ls failed"))
	s := New(lc, "test")

	res, err := s.handleShouldRestart(context.Background(), toolRequest("network_should_restart", map[string]any{"external": true}))
	require.NoError(t, err)
	assert.Equal(t, "true", resultText(t, res))

	res, err = s.handleShouldRestart(context.Background(), toolRequest("network_should_restart", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "compose ls failed")
	lc.AssertExpectations(t)
}

func TestServer_HandleEnsure(t *testing.T) {
	lc := newMockLifecycle()
	lc.On("Ensure", mock.Anything, network.Candidate{}).Return(network.EnsureResult{}, nil)
	s := New(lc, "test")

	res, err := s.handleEnsure(context.Background(), toolRequest("network_ensure", nil))
	require.NoError(t, err)
	assert.Equal(t, "Local Fabric Network is up to date", resultText(t, res))
}

func TestServer_HandleDebugEnv(t *testing.T) {
	s := New(newMockLifecycle(), "test")

	res, err := s.handleDebugEnv(context.Background(), toolRequest("chaincode_debug_env", map[string]any{"external": false}))
	require.NoError(t, err)

	var vars map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &vars))
	assert.Equal(t, "asset:v1", vars[chaincode.EnvChaincodeIDName])
	assert.Equal(t, "false", vars[chaincode.EnvPeerTLSEnabled])
}

func TestServer_NetworkResource(t *testing.T) {
	s := New(newMockLifecycle(), "test")

	contents, err := s.handleNetworkResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, NetworkResourceURI, text.URI)

	var status NetworkStatus
	require.NoError(t, json.Unmarshal([]byte(text.Text), &status))
	assert.True(t, status.Started)
	assert.Equal(t, "asset", status.ChaincodeID)
	assert.Equal(t, "asset:v1", status.PackageID)
}

func TestServer_NetworkRefreshNotifiesClients(t *testing.T) {
	lc := newMockLifecycle()
	s := New(lc, "test")

	var methods []string
	var uris []any
	s.notify = func(method string, params map[string]any) {
		methods = append(methods, method)
		uris = append(uris, params["uri"])
	}

	lc.bus.Publish(reporting.NewEvent(reporting.EventIdentityRefresh, "network", true))
	lc.bus.Publish(reporting.NewEvent(reporting.EventNetworkRefresh, "network", true))

	assert.Equal(t, []string{resourceUpdatedMethod}, methods)
	assert.Equal(t, []any{NetworkResourceURI}, uris)

	s.Close()
	lc.bus.Publish(reporting.NewEvent(reporting.EventNetworkRefresh, "network", false))
	assert.Len(t, methods, 1)
}
