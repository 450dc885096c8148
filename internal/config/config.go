package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config interface {
	EnvConfig
	APIConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetLogLevel() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	API
	Storage
}

// New returns a configuration backed by environment variables only.
func New() Config {
	return newConfig(source{})
}

// Load returns a configuration backed by environment variables, falling back to the
// YAML file at path. Keys in the file use the environment variable names, e.g.
//
//	API_URL: https://clinic.example.com/api
//	TOKEN_DB: /var/lib/clinic/session.db
//
// An empty path is the same as New.
func Load(path string) (Config, error) {
	if path == "" {
		return New(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	values := make(map[string]string)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return newConfig(source{file: values}), nil
}

func newConfig(src source) Config {
	return mainConfig{
		EnvVars: EnvVars{src: src},
		API:     API{src: src},
		Storage: Storage{src: src},
	}
}

// source resolves a key from the environment first and the config file second.
type source struct {
	file map[string]string
}

func (s source) get(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := s.file[key]; value != "" {
		return value
	}
	return defaultValue
}
