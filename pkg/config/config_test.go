package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_Server(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port == 0 {
		t.Error("Server port should have a default value")
	}
}

func TestDefaultConfig_Pipeline(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Pipeline.Provider != "openrouter" {
		t.Errorf("Provider = %q, want openrouter", cfg.Pipeline.Provider)
	}
	if cfg.Pipeline.Model != "openai/gpt-5.2" {
		t.Errorf("Model = %q, want openai/gpt-5.2", cfg.Pipeline.Model)
	}
	if cfg.Pipeline.MaxTokens == 0 || cfg.Pipeline.Temperature == 0 {
		t.Error("MaxTokens and Temperature should have defaults")
	}
	if cfg.Pipeline.TimeoutSeconds == 0 {
		t.Error("TimeoutSeconds should have a default")
	}
}

func TestDefaultConfig_Sessions(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Sessions.TTLMinutes == 0 || cfg.Sessions.MaxSessions == 0 {
		t.Error("Session TTL and cap should have defaults")
	}
	if cfg.Sessions.SweepSchedule == "" {
		t.Error("Sweep schedule should have a default")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Pipeline.Model != "openai/gpt-5.2" {
		t.Errorf("expected default model, got %q", cfg.Pipeline.Model)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{"pipeline": {"model": "gpt-5-mini"}, "server": {"port": 9000}}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Pipeline.Model != "gpt-5-mini" {
		t.Errorf("Model = %q, want gpt-5-mini", cfg.Pipeline.Model)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	// untouched fields keep defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{"pipeline": {"model": "from-file"}}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("LEADPILOT_PIPELINE_MODEL", "from-env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Pipeline.Model != "from-env" {
		t.Errorf("Model = %q, want from-env", cfg.Pipeline.Model)
	}
}

func TestGetAPIBase_Defaults(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.GetAPIBase("openrouter"); got != "https://openrouter.ai/api/v1" {
		t.Errorf("openrouter base = %q", got)
	}
	if got := cfg.GetAPIBase("openai"); got != "https://api.openai.com/v1" {
		t.Errorf("openai base = %q", got)
	}
}

func TestFlexibleStringSlice_AcceptsNumbers(t *testing.T) {
	var f FlexibleStringSlice
	if err := json.Unmarshal([]byte(`["abc", 123]`), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(f) != 2 || f[0] != "abc" || f[1] != "123" {
		t.Fatalf("unexpected slice: %v", f)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := expandHome("~/x"); got != filepath.Join(home, "x") {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expandHome = %q", got)
	}
}
