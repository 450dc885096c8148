package config

import (
	"fmt"
	"strings"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	folderEnvVar   = "DATA_FOLDER"
	logLevelEnvVar = "LOG_LEVEL"
	envEnvVar      = "ENV"
)

type EnvVars struct {
	src source
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.src.get(portEnvVar, "8081")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.src.get(appNameVar, "Clinic Console")
}

func (e EnvVars) GetDataFolder() string {
	return e.src.get(folderEnvVar, "./data")
}

// GetLogLevel returns a zerolog level name (debug, info, warn, error).
func (e EnvVars) GetLogLevel() string {
	return strings.ToLower(e.src.get(logLevelEnvVar, "info"))
}

func (e EnvVars) GetEnv() string {
	return e.src.get(envEnvVar, "DEV")
}
