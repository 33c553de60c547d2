package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"hlfnet/internal/network"
)

func (s *Server) handleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.lifecycle.CreateNetwork(ctx) {
		return mcp.NewToolResultError("Failed to start local Fabric Network"), nil
	}
	return mcp.NewToolResultText("Local Fabric Network started"), nil
}

func (s *Server) handleStop(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return outcomeResult(s.lifecycle.StopNetwork(ctx), "Local Fabric Network stopped"), nil
}

func (s *Server) handleRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return outcomeResult(s.lifecycle.RemoveNetwork(ctx), "Local Fabric Network removed"), nil
}

func (s *Server) handleRestart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return restartResult(s.lifecycle.RestartNetwork(ctx)), nil
}

func (s *Server) handleShouldRestart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	candidate := network.Candidate{External: req.GetBool("external", false)}
	restart, err := s.lifecycle.ShouldRestart(ctx, candidate)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("true (network status unknown: %v)", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%t", restart)), nil
}

func (s *Server) handleEnsure(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	candidate := network.Candidate{External: req.GetBool("external", false)}
	res, err := s.lifecycle.Ensure(ctx, candidate)
	if !res.Restarted {
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to check the network: %v", err)), nil
		}
		return mcp.NewToolResultText("Local Fabric Network is up to date"), nil
	}
	return restartResult(res.Restart), nil
}

func (s *Server) handleDebugEnv(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vars := s.lifecycle.DebugEnv().Vars(req.GetBool("external", false))
	data, err := json.MarshalIndent(vars, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format environment: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func outcomeResult(out network.Outcome, done string) *mcp.CallToolResult {
	if out.Err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s with errors: %v", done, out.Err))
	}
	return mcp.NewToolResultText(done)
}

func restartResult(res network.RestartResult) *mcp.CallToolResult {
	var lines []string
	if res.Stop.Err != nil {
		lines = append(lines, fmt.Sprintf("Stop reported errors: %v", res.Stop.Err))
	}
	if !res.Started {
		lines = append(lines, "Failed to start local Fabric Network")
		return mcp.NewToolResultError(strings.Join(lines, "\n"))
	}
	lines = append(lines, "Local Fabric Network restarted")
	return mcp.NewToolResultText(strings.Join(lines, "\n"))
}
