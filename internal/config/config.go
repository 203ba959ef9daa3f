// Package config handles rstool configuration loading and management.
package config

import "runtime"

// Config holds all tool settings.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Output  OutputConfig  `yaml:"output"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// GameConfig locates the game installation.
type GameConfig struct {
	Path string `yaml:"path"` // Installation root for build-png-cache
	Mod  string `yaml:"mod"`  // Active mod for texture resolution
}

// OutputConfig controls converter output.
type OutputConfig struct {
	IndentJSON      bool `yaml:"indent_json"`
	WriteOBJ        bool `yaml:"write_obj"`
	WritePalettePNG bool `yaml:"write_palette_png"`
}

// CacheConfig controls the PNG cache builder.
type CacheConfig struct {
	Workers           int     `yaml:"workers"` // 0 = runtime.NumCPU()
	Overwrite         bool    `yaml:"overwrite"`
	MipMaps           bool    `yaml:"mipmaps"`
	ColorKeyTolerance float64 `yaml:"colorkey_tolerance"`
	IncludeBMP        bool    `yaml:"include_bmp"`
	IncludeTGA        bool    `yaml:"include_tga"`
}

// WorkerCount resolves Workers, substituting the CPU count for 0.
func (c CacheConfig) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			IndentJSON:      true,
			WriteOBJ:        true,
			WritePalettePNG: true,
		},
		Cache: CacheConfig{
			Workers:    0,
			IncludeBMP: true,
			IncludeTGA: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
