package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/voicenote/logger"
)

// Files abstracts the two filesystem calls the loader makes.
type Files interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

type osFiles struct{}

func (osFiles) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadEnv never overrides variables that are already set.
func (osFiles) LoadEnv(path string) error { return godotenv.Load(path) }

type loader struct {
	files      Files
	configFile string
	envFile    string
	envPrefix  string
}

// LoaderOption customizes LoadConfig.
type LoaderOption func(*loader)

// WithFiles replaces filesystem access, mainly in tests.
func WithFiles(f Files) LoaderOption {
	return func(l *loader) { l.files = f }
}

// WithConfigFile skips the config.yml search and uses path.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) { l.configFile = path }
}

// WithEnvFile skips the .env search and uses path.
func WithEnvFile(path string) LoaderOption {
	return func(l *loader) { l.envFile = path }
}

// WithEnvPrefix binds PREFIX_* variables instead of the service-name prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *loader) { l.envPrefix = prefix }
}

func newLoader(service string, opts []LoaderOption) *loader {
	l := &loader{files: osFiles{}}
	for _, opt := range opts {
		opt(l)
	}
	if l.envPrefix == "" {
		l.envPrefix = strings.ToUpper(strings.ReplaceAll(service, "-", "_"))
	}
	if l.configFile == "" {
		l.configFile = l.first(configCandidates(service))
	}
	if l.envFile == "" {
		l.envFile = l.first(envCandidates(service))
	}
	return l
}

func (l *loader) first(candidates []string) string {
	for _, c := range candidates {
		if l.files.Exists(c) {
			return c
		}
	}
	return ""
}

func configCandidates(service string) []string {
	out := []string{
		filepath.Join("cmd", service, "config.yml"),
		filepath.Join("config", "config.yml"),
		"config.yml",
	}
	if dir, err := os.UserConfigDir(); err == nil {
		out = append(out, filepath.Join(dir, service, "config.yml"))
	}
	return out
}

func envCandidates(service string) []string {
	return []string{".env." + service, filepath.Join("cmd", service, ".env"), ".env"}
}

// LoadConfig fills cfg from config.yml, then .env, then PREFIX_* environment
// variables, each layer overriding the one before.
func LoadConfig(service string, cfg any, opts ...LoaderOption) error {
	l := newLoader(service, opts)
	log := logger.WithComponent("config")
	v := viper.New()

	if l.configFile != "" && l.files.Exists(l.configFile) {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", l.configFile, err)
		}
		log.Debug("config file loaded", logger.Fields(logger.FieldPath, l.configFile))
	}
	if l.envFile != "" && l.files.Exists(l.envFile) {
		if err := l.files.LoadEnv(l.envFile); err != nil {
			log.Warn(".env not loaded", logger.Fields(logger.FieldPath, l.envFile, logger.FieldError, err.Error()))
		}
	}
	overrideFromEnv(v, l.envPrefix, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: decode %s: %w", service, err)
	}
	return nil
}

// overrideFromEnv sets each PREFIX_NAME=value under every key NAME could
// stand for, so nested keys containing underscores still resolve.
func overrideFromEnv(v *viper.Viper, prefix string, environ []string) {
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		rest, found := strings.CutPrefix(name, prefix+"_")
		if !found || rest == "" {
			continue
		}
		for _, key := range keyCandidates(rest) {
			v.Set(key, value)
		}
	}
}

// keyCandidates maps an env name to the config keys it may address:
//
//	WHISPER_API_KEY -> whisper_api_key, whisper.api.key, whisper.api_key, whisper_api.key
func keyCandidates(name string) []string {
	lower := strings.ToLower(name)
	words := strings.Split(lower, "_")
	out := []string{lower}
	if len(words) == 1 {
		return out
	}
	seen := map[string]bool{lower: true}
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	add(strings.Join(words, "."))
	for split := 1; split < len(words); split++ {
		head, tail := words[:split], words[split:]
		add(strings.Join(head, ".") + "." + strings.Join(tail, "_"))
		add(strings.Join(head, "_") + "." + strings.Join(tail, "."))
	}
	return out
}
