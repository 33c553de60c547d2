// Package config provides configuration management for hlfnet.
//
// Configuration is loaded and merged in the following order, later layers
// overriding earlier ones key by key:
//
//  1. Defaults compiled into the binary
//  2. User configuration (~/.config/hlfnet/config.yaml)
//  3. Project configuration (./.hlfnet/config.yaml)
//  4. An explicit file passed with --config
//
// Example:
//
//	network:
//	  composeDir: "docker"          # relative to the workspace
//	  project: "fabric-singleorg"
//	  settleDelay: "1s"
//	  expectedContainers: 5
//	chaincode:
//	  version: "v1"
//	  external: true                # chaincode-as-a-service
//	  serverAddress: "localhost:5999"
//	workspace:
//	  name: "asset-transfer"
//	telemetry:
//	  metricsFile: "/var/lib/node_exporter/hlfnet.prom"
//	  otlpEndpoint: "localhost:4317"
//	  otlpInsecure: true
package config
