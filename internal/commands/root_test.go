package commands

import (
	"testing"

	"github.com/diogo/streamchat/internal/config"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	want := map[string]bool{
		"chat":    false,
		"config":  false,
		"history": false,
	}

	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommand_Flags(t *testing.T) {
	for _, name := range []string{"server", "model", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag %q not registered", name)
		}
	}
	for _, name := range []string{"output", "file", "version"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("flag %q not registered", name)
		}
	}
}

func TestLoadRuntimeConfig_FlagOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	serverFlag = "http://override:1234"
	modelFlag = "test-model"
	verboseFlag = true
	defer func() {
		serverFlag = ""
		modelFlag = ""
		verboseFlag = false
	}()

	cfg := loadRuntimeConfig()

	if cfg.ServerURL != "http://override:1234" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.DefaultModel != "test-model" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if !cfg.Verbose {
		t.Error("Verbose flag not applied")
	}
}

func TestLoadRuntimeConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := loadRuntimeConfig()

	want := config.DefaultConfig()
	if cfg.ServerURL != want.ServerURL {
		t.Errorf("ServerURL = %q, want %q", cfg.ServerURL, want.ServerURL)
	}
	if cfg.Theme != want.Theme {
		t.Errorf("Theme = %q, want %q", cfg.Theme, want.Theme)
	}
}
