package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileValues mirrors the optional YAML configuration file.
type fileValues struct {
	AppName           string `yaml:"app_name"`
	LogLevel          string `yaml:"log_level"`
	APIURL            string `yaml:"api_url"`
	HTTPTimeout       string `yaml:"http_timeout"`
	DataFolder        string `yaml:"data_folder"`
	TokenBackend      string `yaml:"token_backend"`
	RedisURL          string `yaml:"redis_url"`
	RedisKey          string `yaml:"redis_key"`
	FakeServicePort   string `yaml:"fake_service_port"`
	FakeServiceSecret string `yaml:"fake_service_secret"`
}

func loadFile(path string) (fileValues, error) {
	var fv fileValues
	if path == "" {
		return fv, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fv, fmt.Errorf("config.loadFile read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fv); err != nil {
		return fv, fmt.Errorf("config.loadFile parse %s: %w", path, err)
	}
	return fv, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
