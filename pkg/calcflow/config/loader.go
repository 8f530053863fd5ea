package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads configuration from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}

// EnvPrefix starts every environment override, e.g. CALCFLOW_LOG_LEVEL.
const EnvPrefix = "CALCFLOW_"

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// FromEnv collects overrides for the settings keys from environ, a list of
// KEY=value pairs as returned by os.Environ. Integers and booleans are
// parsed; anything else stays a string.
func FromEnv(environ []string) Config {
	set := make(map[string]string, len(environ))
	for _, kv := range environ {
		if name, value, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, EnvPrefix) {
			set[name] = value
		}
	}

	m := make(map[string]any)
	for _, key := range Keys() {
		value, ok := set[EnvName(key)]
		if !ok {
			continue
		}
		m[key] = parseScalar(value)
	}
	return New(m)
}

func parseScalar(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

// Load reads path, applies environment overrides and decodes the result
// into Settings. An empty path starts from Defaults().
func Load(path string) (Settings, error) {
	cfg := New(nil)
	if path != "" {
		var err error
		if cfg, err = FromFile(path); err != nil {
			return Settings{}, err
		}
	}
	cfg = cfg.Merge(FromEnv(os.Environ()))

	s := Decode(cfg)
	if err := s.Validate(); err != nil {
		if path == "" {
			return Settings{}, fmt.Errorf("config: %w", err)
		}
		return Settings{}, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}
