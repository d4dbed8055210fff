// Package config handles meshdec tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Simplify SimplifyConfig `yaml:"simplify"`
	Parallel ParallelConfig `yaml:"parallel"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SimplifyConfig holds decimation settings.
type SimplifyConfig struct {
	// TargetPercent is the percentage of vertices to keep when
	// TargetVertices is zero.
	TargetPercent float64 `yaml:"target_percent"`
	// TargetVertices overrides TargetPercent when positive.
	TargetVertices int `yaml:"target_vertices"`
	// Strictness: 0 = none, 1 = foldover protection, 2 = foldover and
	// seam protection.
	Strictness int `yaml:"strictness"`
	// RejectNonManifold fails on non-manifold edges instead of pinning
	// them uncollapsible.
	RejectNonManifold bool `yaml:"reject_non_manifold"`
}

// ParallelConfig holds worker-pool settings for the initial cost pass.
type ParallelConfig struct {
	Enabled  bool `yaml:"enabled"`
	Workers  int  `yaml:"workers"`   // 0 = number of CPUs
	MinEdges int  `yaml:"min_edges"` // threshold below which the pass is sequential
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Simplify: SimplifyConfig{
			TargetPercent:     50,
			TargetVertices:    0,
			Strictness:        2,
			RejectNonManifold: false,
		},
		Parallel: ParallelConfig{
			Enabled:  true,
			Workers:  0,
			MinEdges: 1000,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
