/*
Package config provides type-safe configuration extraction from map[string]any
and the decoded engine Settings.

# Overview

Config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches gracefully by returning default values.
Keys may be dotted paths that walk nested maps, which is how YAML sections
are addressed:

	cfg, _ := config.FromYAML([]byte(`
	integration:
	  subintervals: 500
	`))

	n := cfg.Int("integration.subintervals", 1000) // 500
	deg := cfg.Bool("degree_mode", false)          // false

Numeric accessors convert between int, int64 and float64 when no precision
is lost, so JSON numbers (always float64) work the same as YAML integers.

# Settings

Decode maps a Config onto Settings, falling back to Defaults() per key:

	degree_mode: false
	integration:
	  subintervals: 1000
	  skip_singularities: false
	history:
	  driver: memory        # memory | sqlite
	  path: calcflow.db
	  max_entries: 0        # 0 = unbounded
	observability:
	  metrics: false
	  tracing: false
	log_level: info

Every key can be overridden from the environment. The variable name is
CALCFLOW_ followed by the key in upper case with dots as underscores:

	CALCFLOW_HISTORY_DRIVER=sqlite
	CALCFLOW_INTEGRATION_SKIP_SINGULARITIES=true

Load combines FromFile, FromEnv, Decode and Validate.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
