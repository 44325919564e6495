package common

import (
	"github.com/spf13/viper"
)

const (
	// CfgConfigPath defines custom config path
	CfgConfigPath = "config.path"

	// CfgRPCEnabled sets whether to run the RPC service.
	CfgRPCEnabled = "rpc.enabled"
	// CfgRPCAddress sets the binding address of the RPC service.
	CfgRPCAddress = "rpc.address"
	// CfgRPCPort sets the port of the RPC service.
	CfgRPCPort = "rpc.port"
	// CfgRPCMaxConnections limits concurrent connections accepted by the RPC server.
	CfgRPCMaxConnections = "rpc.maxConnections"
	// CfgRPCTimeoutSecs sets the timeout for RPC requests.
	CfgRPCTimeoutSecs = "rpc.timeoutSecs"

	// CfgRegistryChallengeWindowSecs sets the freshness window (in seconds) within
	// which a signed ownership challenge must be submitted.
	CfgRegistryChallengeWindowSecs = "registry.challengeWindowSecs"

	// CfgLogLevels sets the log level.
	CfgLogLevels = "log.levels"
)

// InitialConfig is the default configuration produced by the init command.
const InitialConfig = `# Star notary configuration
rpc:
  enabled: true
  address: 127.0.0.1
  port: 8580
`

func init() {
	viper.SetDefault(CfgRPCEnabled, true)
	viper.SetDefault(CfgRPCAddress, "127.0.0.1")
	viper.SetDefault(CfgRPCPort, 8580)
	viper.SetDefault(CfgRPCMaxConnections, 200)
	viper.SetDefault(CfgRPCTimeoutSecs, 60)

	viper.SetDefault(CfgRegistryChallengeWindowSecs, 300)

	viper.SetDefault(CfgLogLevels, "*:info")
}

// WriteInitialConfig writes the default config file to the target path.
func WriteInitialConfig(filePath string) error {
	return WriteFileAtomic(filePath, []byte(InitialConfig), 0600)
}
