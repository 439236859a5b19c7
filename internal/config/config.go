package config

import "time"

type Config interface {
	EnvConfig
	APIConfig
	StorageConfig
	FakeServiceConfig
}

type EnvConfig interface {
	GetAppName() string
	GetLogLevel() string
	GetEnv() string
}

type APIConfig interface {
	GetAPIURL() string
	GetHTTPTimeout() time.Duration
}

type StorageConfig interface {
	GetDataFolder() string
	GetTokenBackend() TokenBackend
	GetRedisURL() string
	GetRedisKey() string
}

type FakeServiceConfig interface {
	GetFakeServicePort() string
	GetFakeServiceSecret() string
}

type mainConfig struct {
	EnvVars
}

// New builds the configuration from the environment. When NEUROGUARD_CONFIG
// names a YAML file its values are used as defaults beneath the environment.
func New() (Config, error) {
	fv, err := loadFile(GetEnv(configFileEnvVar, ""))
	if err != nil {
		return nil, err
	}
	return mainConfig{EnvVars{file: fv}}, nil
}
