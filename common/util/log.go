package util

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/starnotary/starnotary/common"
)

func init() {
	customFormatter := new(log.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	log.SetFormatter(customFormatter)
}

// GetLoggerForModule returns a logger for the given module. The log level is
// taken from the "log.levels" config, e.g. "*:info,rpc:debug".
func GetLoggerForModule(module string) *log.Entry {
	levels := viper.GetString(common.CfgLogLevels)
	logger := log.WithFields(log.Fields{"prefix": module})

	level := log.InfoLevel
	for _, setting := range strings.Split(levels, ",") {
		parts := strings.Split(setting, ":")
		if len(parts) != 2 {
			continue
		}
		parsed, err := log.ParseLevel(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		name := strings.TrimSpace(parts[0])
		if name == "*" {
			level = parsed
		}
		if name == module {
			level = parsed
			break
		}
	}
	log.SetLevel(level)

	return logger
}
