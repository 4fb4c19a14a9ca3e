// Package config loads the server's YAML configuration file and derives
// the runtime values built from it (principally the favicon data URI).
package config

import (
	"encoding/base64"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SoulflameConfiguration mirrors the on-disk server.yaml: listen address,
// status-response metadata, and a compression threshold. The threshold is
// loaded and defaulted here, but no connection reads it.
type SoulflameConfiguration struct {
	ListenAddress        string `yaml:"listen_address"`
	MaxPlayers           int32  `yaml:"max_players"`
	VersionName          string `yaml:"version_name"`
	Motd                 string `yaml:"motd"`
	FaviconPath          string `yaml:"favicon_path"`
	CompressionThreshold int32  `yaml:"compression_threshold"`
}

// Load reads and parses path as a SoulflameConfiguration, applying the same
// handful of defaults a freshly generated config is missing.
func Load(path string) (*SoulflameConfiguration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	var cfg SoulflameConfiguration
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = "0.0.0.0:25565"
	}
	if cfg.MaxPlayers == 0 {
		cfg.MaxPlayers = 20
	}
	if cfg.VersionName == "" {
		cfg.VersionName = "soulflame 759"
	}
	if cfg.CompressionThreshold == 0 {
		cfg.CompressionThreshold = 256
	}
	return &cfg, nil
}

// RuntimeConfiguration wraps a loaded SoulflameConfiguration with the
// values computed once at startup, so every connection reuses the same
// encoded favicon instead of re-reading and re-encoding it on every status
// request.
type RuntimeConfiguration struct {
	Static  *SoulflameConfiguration
	favicon string
}

// NewRuntimeConfiguration builds the runtime view of cfg, encoding the
// favicon file at cfg.FaviconPath (if set) into a data URI. A missing or
// unreadable favicon just yields an empty string rather than failing
// startup.
func NewRuntimeConfiguration(cfg *SoulflameConfiguration) *RuntimeConfiguration {
	rc := &RuntimeConfiguration{Static: cfg}
	if cfg.FaviconPath == "" {
		return rc
	}
	data, err := os.ReadFile(cfg.FaviconPath)
	if err != nil || len(data) == 0 {
		return rc
	}
	rc.favicon = "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
	return rc
}

// Favicon returns the precomputed favicon data URI, or "" if none is
// configured.
func (rc *RuntimeConfiguration) Favicon() string {
	return rc.favicon
}
