package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "server.yaml", "motd: \"hello\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddress != "0.0.0.0:25565" {
		t.Fatalf("ListenAddress = %q, want default", cfg.ListenAddress)
	}
	if cfg.MaxPlayers != 20 {
		t.Fatalf("MaxPlayers = %d, want default 20", cfg.MaxPlayers)
	}
	if cfg.CompressionThreshold != 256 {
		t.Fatalf("CompressionThreshold = %d, want default 256", cfg.CompressionThreshold)
	}
	if cfg.Motd != "hello" {
		t.Fatalf("Motd = %q, want %q", cfg.Motd, "hello")
	}
}

func TestLoadHonorsExplicitValues(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "server.yaml", `
listen_address: "127.0.0.1:25566"
max_players: 5
compression_threshold: 64
motd: "custom"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddress != "127.0.0.1:25566" || cfg.MaxPlayers != 5 || cfg.CompressionThreshold != 64 {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load("/nonexistent/server.yaml"); err == nil {
		t.Fatal("expected error loading missing config file, got nil")
	}
}

func TestRuntimeConfigurationEncodesFavicon(t *testing.T) {
	dir := t.TempDir()
	iconPath := writeTempFile(t, dir, "icon.png", "not-really-png-bytes")
	cfg := &SoulflameConfiguration{FaviconPath: iconPath}

	rc := NewRuntimeConfiguration(cfg)
	want := "data:image/png;base64,bm90LXJlYWxseS1wbmctYnl0ZXM="
	if rc.Favicon() != want {
		t.Fatalf("Favicon() = %q, want %q", rc.Favicon(), want)
	}
}

func TestRuntimeConfigurationWithoutFaviconIsEmpty(t *testing.T) {
	cfg := &SoulflameConfiguration{}
	rc := NewRuntimeConfiguration(cfg)
	if rc.Favicon() != "" {
		t.Fatalf("Favicon() = %q, want empty string", rc.Favicon())
	}
}
