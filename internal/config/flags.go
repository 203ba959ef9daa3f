package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagGame      = flag.String("game", "", "Game installation root")
	flagMod       = flag.String("mod", "", "Active mod for texture resolution")
	flagWorkers   = flag.Int("workers", 0, "Parallel workers for build-png-cache (0 = CPU count)")
	flagOverwrite = flag.Bool("overwrite", false, "Regenerate existing cache files")
	flagLogFile   = flag.String("log-file", "", "Also write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing: the command and its operands.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via -config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagGame != "" {
		cfg.Game.Path = *flagGame
	}
	if *flagMod != "" {
		cfg.Game.Mod = *flagMod
	}
	if *flagWorkers > 0 {
		cfg.Cache.Workers = *flagWorkers
	}
	if *flagOverwrite {
		cfg.Cache.Overwrite = true
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
