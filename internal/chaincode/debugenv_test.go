package chaincode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugEnv_Defaults(t *testing.T) {
	env := NewDebugEnv(NewIdentity("v1", false), "", "")

	inProc := env.Vars(false)
	assert.Equal(t, "asset:v1", inProc[EnvChaincodeIDName])
	assert.Equal(t, "debug", inProc[EnvChaincodeLogLevel])
	assert.Equal(t, "false", inProc[EnvPeerTLSEnabled])
	assert.Equal(t, DefaultPeerAddress, inProc[EnvPeerAddress])

	ext := env.Vars(true)
	assert.Equal(t, "asset:v1", ext[EnvExternalID])
	assert.Equal(t, DefaultServerAddress, ext[EnvExternalAddress])
}

func TestDebugEnv_Updates(t *testing.T) {
	env := NewDebugEnv(NewIdentity("v1", false), "peer:7051", "cc:9999")

	env.SetInProcessID("mycc:v1")
	env.SetExternalID("mycc-caas:abc123")

	assert.Equal(t, "mycc:v1", env.Vars(false)[EnvChaincodeIDName])
	assert.Equal(t, "mycc-caas:abc123", env.Vars(true)[EnvExternalID])
	assert.Equal(t, []string{
		"CHAINCODE_ID=mycc-caas:abc123",
		"CHAINCODE_SERVER_ADDRESS=cc:9999",
	}, env.Environ(true))
}

func TestDebugEnv_VarsIsACopy(t *testing.T) {
	env := NewDebugEnv(NewIdentity("v1", false), "", "")
	vars := env.Vars(false)
	vars[EnvChaincodeIDName] = "changed"
	assert.Equal(t, "asset:v1", env.Vars(false)[EnvChaincodeIDName])
}
