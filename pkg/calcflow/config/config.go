package config

import (
	"strings"
)

// Config wraps a map[string]any for type-safe value extraction.
// Keys may be dotted paths ("integration.subintervals") that descend into
// nested maps. All accessor methods return default values if the key is
// missing or the value cannot be converted to the requested type.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// lookup resolves key, preferring an exact top-level match over a dotted path.
func (c Config) lookup(key string) (any, bool) {
	if v, ok := c.data[key]; ok {
		return v, true
	}
	if !strings.Contains(key, ".") {
		return nil, false
	}

	var cur any = c.data
	for _, part := range strings.Split(key, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = val
		}
		return out, true
	}
	return nil, false
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (c Config) String(key, defaultVal string) string {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	if s, ok := v.(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal if missing or not a bool.
func (c Config) Bool(key string, defaultVal bool) bool {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal if missing or not convertible.
//
// Accepts:
//   - int: used directly
//   - int64: converted to int
//   - float64: converted to int (only if no fractional part)
func (c Config) Int(key string, defaultVal int) int {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
	}
	return defaultVal
}

// Float returns the float64 value for key, or defaultVal if missing or not convertible.
func (c Config) Float(key string, defaultVal float64) float64 {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	}
	return defaultVal
}

// Sub returns the section at key as a Config. Flat dotted keys under the
// section, such as those produced by FromEnv, are included and win over
// nested values. Missing or non-map sections yield an empty Config.
func (c Config) Sub(key string) Config {
	out := make(map[string]any)
	if v, ok := c.lookup(key); ok {
		if m, ok := asMap(v); ok {
			for k, v := range m {
				out[k] = v
			}
		}
	}
	prefix := key + "."
	for k, v := range c.data {
		if rest, ok := strings.CutPrefix(k, prefix); ok && rest != "" {
			out[rest] = v
		}
	}
	return New(out)
}

// Any returns the raw value for key, or defaultVal if missing.
func (c Config) Any(key string, defaultVal any) any {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	return v
}

// Has returns true if the key exists in the config.
func (c Config) Has(key string) bool {
	_, ok := c.lookup(key)
	return ok
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (c Config) Raw() map[string]any {
	return c.data
}

// Merge returns a Config where every key of over replaces the same key in c.
// Dotted keys in over win over nested values in c because lookup prefers an
// exact match. Neither input is modified.
func (c Config) Merge(over Config) Config {
	out := make(map[string]any, len(c.data)+len(over.data))
	for k, v := range c.data {
		out[k] = v
	}
	for k, v := range over.data {
		out[k] = v
	}
	return New(out)
}
