package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type whisperSection struct {
	Backend string `mapstructure:"backend"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Debug   bool   `mapstructure:"debug"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Whisper       whisperSection `yaml:"whisper" mapstructure:"whisper"`
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty config gets name and production", func(t *testing.T) {
		var cfg ServiceConfig
		cfg.ApplyDefaults()
		if cfg.Name != "voicenote" {
			t.Errorf("expected name 'voicenote', got %q", cfg.Name)
		}
		if cfg.Environment != "production" {
			t.Errorf("expected 'production', got %q", cfg.Environment)
		}
		if cfg.Logging.ServiceName != "voicenote" {
			t.Errorf("expected logging service name propagated, got %q", cfg.Logging.ServiceName)
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("debug raises log level", func(t *testing.T) {
		cfg := ServiceConfig{Debug: true}
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("explicit level wins over debug", func(t *testing.T) {
		cfg := ServiceConfig{Debug: true}
		cfg.Logging.Level = "warn"
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "warn" {
			t.Errorf("expected warn level, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, ""},
		{"valid development", ServiceConfig{Name: "svc", Environment: "development"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "moon"}, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.Logging.ApplyDefaults()
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
name: voicenote
environment: staging
whisper:
  backend: local
  model: whisper-1
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg testConfig
	if err := LoadConfig("voicenote-test", &cfg, WithConfigFile(configPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "voicenote" {
		t.Errorf("expected name 'voicenote', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Whisper.Backend != "local" || cfg.Whisper.Model != "whisper-1" {
		t.Errorf("unexpected whisper section %+v", cfg.Whisper)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("whisper:\n  model: whisper-1\n  api_key: from-file\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("VNTEST_WHISPER_API_KEY", "from-env")
	t.Setenv("VNTEST_WHISPER_DEBUG", "true")
	t.Setenv("WHISPER_MODEL", "unprefixed-is-ignored")

	var cfg testConfig
	if err := LoadConfig("vntest", &cfg, WithConfigFile(configPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Whisper.APIKey != "from-env" {
		t.Errorf("expected env api key, got %q", cfg.Whisper.APIKey)
	}
	if !cfg.Whisper.Debug {
		t.Error("expected debug=true from env")
	}
	if cfg.Whisper.Model != "whisper-1" {
		t.Errorf("expected file model, got %q", cfg.Whisper.Model)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("VNDOTENV_WHISPER_BACKEND=local\n"), 0o644); err != nil {
		t.Fatalf("failed to write env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("VNDOTENV_WHISPER_BACKEND") })

	var cfg testConfig
	if err := LoadConfig("vndotenv", &cfg, WithConfigFile(filepath.Join(dir, "missing.yml")), WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Whisper.Backend != "local" {
		t.Errorf("expected backend from .env, got %q", cfg.Whisper.Backend)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("whisper: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	var cfg testConfig
	if err := LoadConfig("voicenote", &cfg, WithConfigFile(configPath)); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestCandidatesFromFiles(t *testing.T) {
	files := &fakeFiles{present: map[string]bool{
		filepath.Join("cmd", "voicenote", "config.yml"): true,
		".env": true,
	}}
	l := newLoader("voicenote", []LoaderOption{WithFiles(files)})
	if l.configFile != filepath.Join("cmd", "voicenote", "config.yml") {
		t.Errorf("config file = %q", l.configFile)
	}
	if l.envFile != ".env" {
		t.Errorf("env file = %q", l.envFile)
	}
	if l.envPrefix != "VOICENOTE" {
		t.Errorf("env prefix = %q", l.envPrefix)
	}
}

func TestExplicitPathsSkipSearch(t *testing.T) {
	files := &fakeFiles{present: map[string]bool{"config.yml": true}}
	l := newLoader("voice-note", []LoaderOption{
		WithFiles(files),
		WithConfigFile("/etc/vn.yml"),
		WithEnvFile("/etc/vn.env"),
		WithEnvPrefix("VN"),
	})
	if l.configFile != "/etc/vn.yml" || l.envFile != "/etc/vn.env" || l.envPrefix != "VN" {
		t.Errorf("options not applied: %+v", l)
	}
	if newLoader("voice-note", []LoaderOption{WithFiles(files)}).envPrefix != "VOICE_NOTE" {
		t.Error("expected dashes mapped to underscores in the default prefix")
	}
}

type fakeFiles struct {
	present map[string]bool
}

func (f *fakeFiles) Exists(path string) bool { return f.present[path] }
func (f *fakeFiles) LoadEnv(string) error    { return nil }

func TestKeyCandidates(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"DEBUG", []string{"debug"}},
		{"SERVER_PORT", []string{"server_port", "server.port"}},
		{"WHISPER_API_KEY", []string{"whisper_api_key", "whisper.api.key", "whisper.api_key", "whisper_api.key"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := keyCandidates(tc.name)
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Errorf("keyCandidates(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}
