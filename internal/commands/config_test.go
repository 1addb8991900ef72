package commands

import (
	"testing"

	"github.com/diogo/streamchat/internal/config"
)

func TestConfigSet_Theme(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runConfigSet(configSetCmd, []string{"theme", "light"}); err != nil {
		t.Fatalf("config set theme failed: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Theme != config.ThemeLight {
		t.Errorf("Theme = %q, want light", cfg.Theme)
	}
}

func TestConfigSet_InvalidTheme(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runConfigSet(configSetCmd, []string{"theme", "sepia"}); err == nil {
		t.Error("expected error for invalid theme")
	}
}

func TestConfigSet_ServerURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runConfigSet(configSetCmd, []string{"server-url", "http://host:9999"}); err != nil {
		t.Fatalf("config set server-url failed: %v", err)
	}

	cfg, _ := config.LoadConfig()
	if cfg.ServerURL != "http://host:9999" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
}

func TestConfigSet_Booleans(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runConfigSet(configSetCmd, []string{"verbose", "true"}); err != nil {
		t.Fatalf("config set verbose failed: %v", err)
	}
	if err := runConfigSet(configSetCmd, []string{"copy-to-clipboard", "1"}); err != nil {
		t.Fatalf("config set copy-to-clipboard failed: %v", err)
	}

	cfg, _ := config.LoadConfig()
	if !cfg.Verbose || !cfg.CopyToClipboard {
		t.Errorf("booleans not persisted: %+v", cfg)
	}

	if err := runConfigSet(configSetCmd, []string{"verbose", "maybe"}); err == nil {
		t.Error("expected error for invalid boolean")
	}
}

func TestConfigSet_UnknownKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runConfigSet(configSetCmd, []string{"no-such-key", "x"}); err == nil {
		t.Error("expected error for unknown key")
	}
}
