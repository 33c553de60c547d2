package network

// User-facing messages.
const (
	msgDockerNotRunning  = "Prerequisite- Docker is not installed or running. Please install and start Docker and try again"
	msgComposeMissing    = "Prerequisite- Docker-compose is not installed. Please install latest version of Docker-compose and try again"
	msgDockerMissing     = "Prerequisite- Docker is not installed. Please install latest version of Docker and Docker-compose and try again"
	msgStartFailedPrefix = "Failed to start local Fabric Network. "
	msgStarted           = "Local Fabric Network started"
	msgStopFailed        = "Failed to stop local Fabric Network"
	msgStopped           = "Local Fabric Network stopped"
	msgRemoveFailed      = "Failed to remove local Fabric Network"
	msgRemoved           = "Local Fabric Network removed"
	titleCreate          = "Starting local Fabric network"
	titleStop            = "Stopping local Fabric network"
	titleRemove          = "Removing local Fabric network"
	labelCreatingChannel = "Creating channel"
	labelDeployChaincode = "Deploying chaincode"
	eventCreateNetwork   = "CreateNetwork"
	eventStopNetwork     = "StopNetwork"
	eventRemoveNetwork   = "RemoveNetwork"
	metricCreateDuration = "createNetworkDuration"
	metricStopDuration   = "stopNetworkDuration"
	metricRemoveDuration = "removeNetworkDuration"
	eventSource          = "network"
)

// Outcome is the result of stop and remove. Those operations always reset
// the network state, even when a command failed, so callers need to tell a
// clean run from a degraded one.
type Outcome struct {
	// Err is the first command failure, nil on a clean run.
	Err error
	// StateReset is true once Started has been cleared and refresh events sent.
	StateReset bool
}

// OK reports whether every command succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil && o.StateReset
}

// RestartResult combines the stop outcome with whether create succeeded.
type RestartResult struct {
	Stop    Outcome
	Started bool
}

// EnsureResult tells whether Ensure restarted the network.
type EnsureResult struct {
	Restarted bool
	Restart   RestartResult
}
