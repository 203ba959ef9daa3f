package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.Output.IndentJSON || !cfg.Output.WriteOBJ || !cfg.Output.WritePalettePNG {
		t.Errorf("expected all outputs enabled by default, got %+v", cfg.Output)
	}
	if cfg.Cache.Workers != 0 {
		t.Errorf("expected workers 0, got %d", cfg.Cache.Workers)
	}
	if cfg.Cache.Overwrite || cfg.Cache.MipMaps {
		t.Error("expected overwrite and mipmaps off by default")
	}
	if !cfg.Cache.IncludeBMP || !cfg.Cache.IncludeTGA {
		t.Error("expected BMP and TGA sources included by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestWorkerCount(t *testing.T) {
	if n := (CacheConfig{}).WorkerCount(); n != runtime.NumCPU() {
		t.Errorf("expected %d workers, got %d", runtime.NumCPU(), n)
	}
	if n := (CacheConfig{Workers: 3}).WorkerCount(); n != 3 {
		t.Errorf("expected 3 workers, got %d", n)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
game:
  path: "C:/Games/RogueSpear"
  mod: "Eagle Watch"

output:
  indent_json: false
  write_obj: false

cache:
  workers: 4
  overwrite: true
  mipmaps: true
  colorkey_tolerance: 0.05
  include_tga: false

logging:
  level: "debug"
  log_file: "rstool.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Game.Path != "C:/Games/RogueSpear" || cfg.Game.Mod != "Eagle Watch" {
		t.Errorf("unexpected game config %+v", cfg.Game)
	}
	if cfg.Output.IndentJSON || cfg.Output.WriteOBJ {
		t.Error("expected json indent and obj output disabled")
	}
	if !cfg.Output.WritePalettePNG {
		t.Error("unset keys must keep their defaults")
	}
	if cfg.Cache.Workers != 4 || !cfg.Cache.Overwrite || !cfg.Cache.MipMaps {
		t.Errorf("unexpected cache config %+v", cfg.Cache)
	}
	if cfg.Cache.ColorKeyTolerance != 0.05 {
		t.Errorf("expected tolerance 0.05, got %f", cfg.Cache.ColorKeyTolerance)
	}
	if cfg.Cache.IncludeTGA || !cfg.Cache.IncludeBMP {
		t.Errorf("unexpected source filters %+v", cfg.Cache)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "rstool.log" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	tests := map[string]string{
		"syntax": `
cache:
  workers: not a number
  invalid syntax here
`,
		"unknown key": `
cache:
  wokers: 4
`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(tmpDir, name+".yaml")
			if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Errorf("empty file should be accepted: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Error("empty file must keep defaults")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"negative workers", func(c *Config) { c.Cache.Workers = -1 }},
		{"negative tolerance", func(c *Config) { c.Cache.ColorKeyTolerance = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "rstool.yaml")
	if err := os.WriteFile(configPath, []byte("cache:\n  workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find rstool.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "game and mod flags",
			setup: func() {
				*flagGame = "/games/r6"
				*flagMod = "Eagle Watch"
			},
			verify: func(cfg *Config) {
				if cfg.Game.Path != "/games/r6" || cfg.Game.Mod != "Eagle Watch" {
					t.Errorf("unexpected game config %+v", cfg.Game)
				}
			},
			teardown: func() {
				*flagGame = ""
				*flagMod = ""
			},
		},
		{
			name: "cache flags",
			setup: func() {
				*flagWorkers = 8
				*flagOverwrite = true
			},
			verify: func(cfg *Config) {
				if cfg.Cache.Workers != 8 || !cfg.Cache.Overwrite {
					t.Errorf("unexpected cache config %+v", cfg.Cache)
				}
			},
			teardown: func() {
				*flagWorkers = 0
				*flagOverwrite = false
			},
		},
		{
			name:  "log file flag",
			setup: func() { *flagLogFile = "out.log" },
			verify: func(cfg *Config) {
				if cfg.Logging.LogFile != "out.log" {
					t.Errorf("expected log file out.log, got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() { *flagLogFile = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
cache:
  workers: 2
  mipmaps: true
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWorkers = 6
	defer func() {
		*flagConfig = ""
		*flagWorkers = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Workers should be from flag (6), not file (2)
	if cfg.Cache.Workers != 6 {
		t.Errorf("expected 6 workers from flag, got %d", cfg.Cache.Workers)
	}
	// MipMaps from file since no flag override
	if !cfg.Cache.MipMaps {
		t.Error("expected mipmaps from file")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rstool.yaml")
	cfg := Default()
	cfg.Game.Path = "/games/rs"
	cfg.Cache.ColorKeyTolerance = 0.1
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reloading saved config: %v", err)
	}
	if loaded.Game.Path != "/games/rs" || loaded.Cache.ColorKeyTolerance != 0.1 {
		t.Errorf("saved config did not reload: %+v", loaded)
	}
}
