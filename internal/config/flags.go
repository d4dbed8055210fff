package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagPercent     = flag.Float64("target-percent", 0, "Percentage of vertices to keep")
	flagVertices    = flag.Int("target-vertices", 0, "Absolute vertex count to stop at")
	flagStrictness  = flag.Int("strictness", -1, "Protection level: 0 none, 1 foldover, 2 foldover+seams")
	flagWorkers     = flag.Int("workers", 0, "Worker count for the initial cost pass")
	flagSequential  = flag.Bool("sequential", false, "Disable the parallel cost pass")
	flagNonManifold = flag.Bool("reject-non-manifold", false, "Fail on non-manifold edges")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagPercent > 0 {
		cfg.Simplify.TargetPercent = *flagPercent
	}
	if *flagVertices > 0 {
		cfg.Simplify.TargetVertices = *flagVertices
	}
	if *flagStrictness >= 0 && *flagStrictness <= 2 {
		cfg.Simplify.Strictness = *flagStrictness
	}
	if *flagWorkers > 0 {
		cfg.Parallel.Workers = *flagWorkers
	}
	if *flagSequential {
		cfg.Parallel.Enabled = false
	}
	if *flagNonManifold {
		cfg.Simplify.RejectNonManifold = true
	}
}
