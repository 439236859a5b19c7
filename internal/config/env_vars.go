package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	configFileEnvVar  = "NEUROGUARD_CONFIG"
	appNameVar        = "APP_NAME"
	logLevelVar       = "LOG_LEVEL"
	apiURLVar         = "NEUROGUARD_API_URL"
	httpTimeoutVar    = "NEUROGUARD_HTTP_TIMEOUT"
	folderEnvVar      = "NEUROGUARD_DATA_FOLDER"
	tokenBackendVar   = "NEUROGUARD_TOKEN_BACKEND"
	redisURLVar       = "NEUROGUARD_REDIS_URL"
	redisKeyVar       = "NEUROGUARD_REDIS_KEY"
	fakePortVar       = "PORT"
	fakeSecretVar     = "FAKE_SERVICE_SECRET"
	defaultAPIURL     = "https://stroke-backend.reishandy.id"
	defaultRedisKey   = "neuroguard:access_token"
	defaultDataFolder = ".neuroguard"
)

// TokenBackend selects where the bearer credential is persisted.
type TokenBackend string

const (
	TokenBackendFile  TokenBackend = "file"
	TokenBackendRedis TokenBackend = "redis"
)

type EnvVars struct {
	file fileValues
}

var _ EnvConfig = EnvVars{}
var _ APIConfig = EnvVars{}
var _ StorageConfig = EnvVars{}
var _ FakeServiceConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return GetEnv(appNameVar, firstNonEmpty(e.file.AppName, "NeuroGuard"))
}

func (e EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, firstNonEmpty(e.file.LogLevel, "info"))
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetAPIURL returns the remote service base URL without a trailing slash so
// paths can be appended directly (no "//users/me").
func (e EnvVars) GetAPIURL() string {
	return strings.TrimRight(GetEnv(apiURLVar, firstNonEmpty(e.file.APIURL, defaultAPIURL)), "/")
}

// GetHTTPTimeout is zero (no timeout) unless configured.
func (e EnvVars) GetHTTPTimeout() time.Duration {
	raw := GetEnv(httpTimeoutVar, e.file.HTTPTimeout)
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}

func (e EnvVars) GetDataFolder() string {
	if folder := GetEnv(folderEnvVar, e.file.DataFolder); folder != "" {
		return folder
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDataFolder
	}
	return filepath.Join(home, defaultDataFolder)
}

func (e EnvVars) GetTokenBackend() TokenBackend {
	switch TokenBackend(strings.ToLower(GetEnv(tokenBackendVar, e.file.TokenBackend))) {
	case TokenBackendRedis:
		return TokenBackendRedis
	default:
		return TokenBackendFile
	}
}

func (e EnvVars) GetRedisURL() string {
	return GetEnv(redisURLVar, firstNonEmpty(e.file.RedisURL, "redis://localhost:6379/0"))
}

func (e EnvVars) GetRedisKey() string {
	return GetEnv(redisKeyVar, firstNonEmpty(e.file.RedisKey, defaultRedisKey))
}

func (e EnvVars) GetFakeServicePort() string {
	port := GetEnv(fakePortVar, firstNonEmpty(e.file.FakeServicePort, "8000"))
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetFakeServiceSecret() string {
	return GetEnv(fakeSecretVar, firstNonEmpty(e.file.FakeServiceSecret, "neuroguard-dev-secret"))
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
