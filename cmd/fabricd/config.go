package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is an optional declarative overlay for fields tedious to
// pass as flags (pre-registered nodes). Flags remain the primary
// configuration interface; this file, if given, only supplements them.
type fileConfig struct {
	Nodes []seedNode `yaml:"nodes"`
}

type seedNode struct {
	ID                 string `yaml:"id"`
	NodeType           string `yaml:"nodeType"`
	ProxyListenAddress string `yaml:"proxyListenAddress,omitempty"`
	IPAddress          string `yaml:"ipAddress,omitempty"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &cfg, nil
}

// reapIntervalOrDefault parses a duration flag value, falling back to
// def on empty or invalid input.
func reapIntervalOrDefault(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
