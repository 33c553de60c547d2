package config

import (
	"time"
)

// Config is the top-level configuration structure for hlfnet.
type Config struct {
	Network   NetworkConfig   `yaml:"network"`
	Chaincode ChaincodeConfig `yaml:"chaincode"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Lock      LockConfig      `yaml:"lock"`
}

// NetworkConfig describes where the compose stacks live and how they are driven.
type NetworkConfig struct {
	ComposeDir string `yaml:"composeDir"` // Directory containing compose-local*.yaml and the scripts
	Project    string `yaml:"project"`    // Compose project name used to filter `compose ls`
	// ComposeCommand overrides the compose entry point, e.g. ["docker-compose"].
	// Empty means detect: the docker plugin first, the legacy binary second.
	ComposeCommand     []string      `yaml:"composeCommand,omitempty"`
	SettleDelay        time.Duration `yaml:"settleDelay"`        // Wait after the main stack is up, before creating the channel
	ExpectedContainers int           `yaml:"expectedContainers"` // Running containers of a healthy network
}

// ChaincodeConfig holds the deployment settings for the workspace chaincode.
type ChaincodeConfig struct {
	Version       string `yaml:"version"`
	External      bool   `yaml:"external"`      // Run chaincode as a service (CaaS) instead of inside the peer
	PeerAddress   string `yaml:"peerAddress"`   // Peer address handed to in-process debug sessions
	ServerAddress string `yaml:"serverAddress"` // Listen address for external chaincode debug sessions
}

// WorkspaceConfig identifies the workspace the chaincode name is derived from.
type WorkspaceConfig struct {
	Dir  string `yaml:"dir,omitempty"`  // Defaults to the current directory
	Name string `yaml:"name,omitempty"` // Overrides the directory name
}

// TelemetryConfig controls where lifecycle timings and traces go.
type TelemetryConfig struct {
	MetricsFile  string `yaml:"metricsFile,omitempty"`  // Prometheus textfile written after each command
	OTLPEndpoint string `yaml:"otlpEndpoint,omitempty"` // host:port of an OTLP/gRPC collector
	OTLPInsecure bool   `yaml:"otlpInsecure,omitempty"`
}

// LockConfig bounds how long a command waits for another hlfnet process.
type LockConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}
