package config

import (
	"time"

	"hlfnet/internal/chaincode"
)

const (
	// DefaultProject is the compose project name of the bundled stacks.
	DefaultProject = "fabric-singleorg"
	// DefaultExpectedContainers is the size of a healthy single-org network:
	// CA, orderer, peer, couchdb and the debug CLI.
	DefaultExpectedContainers = 5
	// DefaultSettleDelay is how long the nodes get before the channel is created.
	DefaultSettleDelay = time.Second
)

// GetDefaultConfig returns the configuration used when no file overrides it.
func GetDefaultConfig() Config {
	return Config{
		Network: NetworkConfig{
			ComposeDir:         "docker",
			Project:            DefaultProject,
			SettleDelay:        DefaultSettleDelay,
			ExpectedContainers: DefaultExpectedContainers,
		},
		Chaincode: ChaincodeConfig{
			Version:       chaincode.DefaultVersion,
			PeerAddress:   chaincode.DefaultPeerAddress,
			ServerAddress: chaincode.DefaultServerAddress,
		},
		Lock: LockConfig{
			Timeout: 10 * time.Minute,
		},
	}
}
