package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"hlfnet/internal/chaincode"
	"hlfnet/internal/network"
	"hlfnet/internal/reporting"
	"hlfnet/pkg/logging"
)

const (
	// ServerName is announced to MCP clients.
	ServerName = "hlfnet"
	// NetworkResourceURI is the resource describing the network state.
	NetworkResourceURI = "hlfnet://network"

	resourceUpdatedMethod = "notifications/resources/updated"
)

// Lifecycle is the part of the orchestrator exposed over MCP.
type Lifecycle interface {
	CreateNetwork(ctx context.Context) bool
	StopNetwork(ctx context.Context) network.Outcome
	RestartNetwork(ctx context.Context) network.RestartResult
	RemoveNetwork(ctx context.Context) network.Outcome
	ShouldRestart(ctx context.Context, candidate network.Candidate) (bool, error)
	Ensure(ctx context.Context, candidate network.Candidate) (network.EnsureResult, error)
	Started() bool
	Identity() chaincode.Identity
	DebugEnv() *chaincode.DebugEnv
	Events() reporting.EventBus
}

// Server exposes the network lifecycle as MCP tools so that editors and
// agents can drive it over stdio.
type Server struct {
	lifecycle Lifecycle
	mcp       *server.MCPServer
	sub       *reporting.EventSubscription

	// notify sends a notification to every connected client.
	notify func(method string, params map[string]any)
}

// New creates the MCP server and registers its tools and resource.
func New(lifecycle Lifecycle, version string) *Server {
	s := &Server{
		lifecycle: lifecycle,
		mcp: server.NewMCPServer(
			ServerName,
			version,
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(true, true),
		),
	}
	s.notify = s.mcp.SendNotificationToAllClients

	s.mcp.AddTools(s.tools()...)
	s.mcp.AddResources(s.resources()...)

	s.sub = lifecycle.Events().Subscribe(
		reporting.TypeFilter(reporting.EventNetworkRefresh),
		s.onNetworkRefresh,
	)
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves MCP over stdin/stdout until the input is closed.
func (s *Server) ServeStdio() error {
	logging.Info("MCP", "Serving %s over stdio", ServerName)
	return server.ServeStdio(s.mcp)
}

// Close stops forwarding network events to clients.
func (s *Server) Close() {
	s.lifecycle.Events().Unsubscribe(s.sub)
}

func (s *Server) onNetworkRefresh(e reporting.Event) {
	logging.Debug("MCP", "Network refreshed (started=%t), notifying clients", e.Started)
	s.notify(resourceUpdatedMethod, map[string]any{"uri": NetworkResourceURI})
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("network_create",
				mcp.WithDescription("Start the local Fabric network and deploy the workspace chaincode"),
			),
			Handler: s.handleCreate,
		},
		{
			Tool: mcp.NewTool("network_stop",
				mcp.WithDescription("Stop the local Fabric network, keeping its containers and volumes"),
			),
			Handler: s.handleStop,
		},
		{
			Tool: mcp.NewTool("network_restart",
				mcp.WithDescription("Stop and start the local Fabric network"),
			),
			Handler: s.handleRestart,
		},
		{
			Tool: mcp.NewTool("network_remove",
				mcp.WithDescription("Remove the local Fabric network together with its volumes"),
			),
			Handler: s.handleRemove,
		},
		{
			Tool: mcp.NewTool("network_should_restart",
				mcp.WithDescription("Check whether the network must be restarted before debugging"),
				mcp.WithBoolean("external",
					mcp.Description("Debug the chaincode as an external service"),
				),
			),
			Handler: s.handleShouldRestart,
		},
		{
			Tool: mcp.NewTool("network_ensure",
				mcp.WithDescription("Restart the network only if it is not ready for the given chaincode mode"),
				mcp.WithBoolean("external",
					mcp.Description("Debug the chaincode as an external service"),
				),
			),
			Handler: s.handleEnsure,
		},
		{
			Tool: mcp.NewTool("chaincode_debug_env",
				mcp.WithDescription("Environment variables for launching the chaincode under a debugger"),
				mcp.WithBoolean("external",
					mcp.Description("Return the variables for an external chaincode service"),
				),
			),
			Handler: s.handleDebugEnv,
		},
	}
}

func (s *Server) resources() []server.ServerResource {
	return []server.ServerResource{
		{
			Resource: mcp.NewResource(NetworkResourceURI, "Local Fabric network",
				mcp.WithResourceDescription("Whether the network is started and which chaincode is deployed"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: s.handleNetworkResource,
		},
	}
}

// NetworkStatus is the JSON shape of the network resource.
type NetworkStatus struct {
	Started     bool   `json:"started"`
	ChaincodeID string `json:"chaincodeId"`
	Version     string `json:"version"`
	PackageID   string `json:"packageId"`
	External    bool   `json:"external"`
}

func (s *Server) status() NetworkStatus {
	id := s.lifecycle.Identity()
	return NetworkStatus{
		Started:     s.lifecycle.Started(),
		ChaincodeID: chaincode.EffectiveID(id),
		Version:     id.Version,
		PackageID:   id.PackageID,
		External:    id.External,
	}
}

func (s *Server) handleNetworkResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(s.status(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode network status: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      NetworkResourceURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
