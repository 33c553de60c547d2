package shell

// Container names defined by the bundled compose stacks.
const (
	CAContainer  = "ca.org1.debugger.com"
	CLIContainer = "debug-cli"
)

const scriptDir = "/etc/hyperledger/fabric/scripts/"

// Script is a bundled shell script mounted into a container.
type Script struct {
	Path  string
	Shell string
}

func (s Script) shell() string {
	if s.Shell == "" {
		return "bash"
	}
	return s.Shell
}

var (
	// The CA image has no bash.
	RegisterEnrollScript  = Script{Path: scriptDir + "registerEnrollOneOrg.sh", Shell: "sh"}
	CreateChannelScript   = Script{Path: scriptDir + "createChannelInternal.sh"}
	DeployChaincodeScript = Script{Path: scriptDir + "deployChaincodeInternal.sh"}
	PackageCaasScript     = Script{Path: scriptDir + "packageCaasChaincode.sh"}
	InstallCaasScript     = Script{Path: scriptDir + "installCaasChaincode.sh"}
	CleanupScript         = Script{Path: scriptDir + "cleanupFiles.sh"}
)
