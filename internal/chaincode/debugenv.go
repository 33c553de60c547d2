package chaincode

import (
	"sort"
	"sync"
)

// Environment variable names consumed by the chaincode shim.
const (
	EnvChaincodeIDName   = "CORE_CHAINCODE_ID_NAME"
	EnvChaincodeLogLevel = "CORE_CHAINCODE_LOGLEVEL"
	EnvPeerTLSEnabled    = "CORE_PEER_TLS_ENABLED"
	EnvPeerAddress       = "CORE_PEER_ADDRESS"

	EnvExternalID      = "CHAINCODE_ID"
	EnvExternalAddress = "CHAINCODE_SERVER_ADDRESS"
)

const (
	DefaultPeerAddress   = "localhost:5052"
	DefaultServerAddress = "localhost:5999"
)

// DebugEnv holds the environment handed to a chaincode process launched for
// debugging. There are two variants: one for chaincode the peer connects to
// in-process, one for chaincode served externally.
type DebugEnv struct {
	mu       sync.RWMutex
	inProc   map[string]string
	external map[string]string
}

// NewDebugEnv returns both variants populated with the defaults for id.
func NewDebugEnv(id Identity, peerAddress, serverAddress string) *DebugEnv {
	if peerAddress == "" {
		peerAddress = DefaultPeerAddress
	}
	if serverAddress == "" {
		serverAddress = DefaultServerAddress
	}
	return &DebugEnv{
		inProc: map[string]string{
			EnvChaincodeIDName:   DefaultPackageID(id),
			EnvChaincodeLogLevel: "debug",
			EnvPeerTLSEnabled:    "false",
			EnvPeerAddress:       peerAddress,
		},
		external: map[string]string{
			EnvExternalID:      id.PackageID,
			EnvExternalAddress: serverAddress,
		},
	}
}

// SetInProcessID updates the chaincode id of the in-process variant.
func (e *DebugEnv) SetInProcessID(packageID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inProc[EnvChaincodeIDName] = packageID
}

// SetExternalID updates the chaincode id of the external variant.
func (e *DebugEnv) SetExternalID(packageID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.external[EnvExternalID] = packageID
}

// Vars returns a copy of the variant selected by external.
func (e *DebugEnv) Vars(external bool) map[string]string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	src := e.inProc
	if external {
		src = e.external
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Environ renders the selected variant as sorted KEY=VALUE pairs.
func (e *DebugEnv) Environ(external bool) []string {
	vars := e.Vars(external)
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}
	return env
}
