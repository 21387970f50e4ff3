package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.Library.Roots) != 1 || cfg.Library.Roots[0] != "." {
		t.Errorf("expected roots [.], got %v", cfg.Library.Roots)
	}
	if cfg.Library.Watch {
		t.Error("expected watch to be false by default")
	}
	if !cfg.Parser.UpAxisCorrection {
		t.Error("expected up axis correction to be enabled by default")
	}
	if cfg.View.Width != 1280 || cfg.View.Height != 720 {
		t.Errorf("expected 1280x720 viewport, got %dx%d", cfg.View.Width, cfg.View.Height)
	}
	if cfg.View.FOV != 45 {
		t.Errorf("expected fov 45, got %f", cfg.View.FOV)
	}
	if cfg.Picking.Precise {
		t.Error("expected precise picking to be off by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestAspect(t *testing.T) {
	if got := (ViewConfig{Width: 800, Height: 600}).Aspect(); got != float32(800)/600 {
		t.Errorf("expected aspect 4/3, got %f", got)
	}
	if got := (ViewConfig{Width: 800}).Aspect(); got != 1 {
		t.Errorf("expected aspect 1 for zero height, got %f", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "config.yaml",
			content: `
library:
  roots: ["/assets/models", "/assets/props"]
  watch: true
parser:
  up_axis_correction: false
view:
  width: 1920
  height: 1080
  fov: 60
picking:
  precise: true
logging:
  level: "debug"
  log_file: "scene.log"
`,
		},
		{
			name: "toml",
			file: "config.toml",
			content: `
[library]
roots = ["/assets/models", "/assets/props"]
watch = true

[parser]
up_axis_correction = false

[view]
width = 1920
height = 1080
fov = 60.0

[picking]
precise = true

[logging]
level = "debug"
log_file = "scene.log"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err != nil {
				t.Fatalf("failed to load config: %v", err)
			}

			if len(cfg.Library.Roots) != 2 || cfg.Library.Roots[1] != "/assets/props" {
				t.Errorf("unexpected roots %v", cfg.Library.Roots)
			}
			if !cfg.Library.Watch {
				t.Error("expected watch to be true")
			}
			if cfg.Parser.UpAxisCorrection {
				t.Error("expected up axis correction to be false")
			}
			if cfg.View.Width != 1920 || cfg.View.Height != 1080 {
				t.Errorf("expected 1920x1080, got %dx%d", cfg.View.Width, cfg.View.Height)
			}
			if cfg.View.FOV != 60 {
				t.Errorf("expected fov 60, got %f", cfg.View.FOV)
			}
			if cfg.View.Near != 0.1 {
				t.Errorf("expected default near 0.1 to survive, got %f", cfg.View.Near)
			}
			if !cfg.Picking.Precise {
				t.Error("expected precise to be true")
			}
			if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "scene.log" {
				t.Errorf("unexpected logging config %+v", cfg.Logging)
			}
		})
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := map[string]string{
		"invalid.yaml": "view:\n  width: not a number\n  invalid syntax here\n",
		"invalid.toml": "[view\nwidth = ",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), name)
			if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error loading invalid config, got nil")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	for _, name := range []string{"out.yaml", "nested/out.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := Default()
			cfg.Library.Roots = []string{"/a", "/b"}
			cfg.View.RotationY = 90
			cfg.Picking.Precise = true

			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo: %v", err)
			}
			loaded := Default()
			if err := loadFromFile(loaded, path); err != nil {
				t.Fatalf("loadFromFile: %v", err)
			}
			if len(loaded.Library.Roots) != 2 || loaded.Library.Roots[0] != "/a" {
				t.Errorf("roots = %v", loaded.Library.Roots)
			}
			if loaded.View.RotationY != 90 || !loaded.Picking.Precise {
				t.Errorf("view/picking not restored: %+v %+v", loaded.View, loaded.Picking)
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
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("daetool.toml", []byte("[view]\nwidth = 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./daetool.toml" {
		t.Errorf("expected ./daetool.toml, got %q", path)
	}

	if err := os.WriteFile("daetool.yaml", []byte("view:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./daetool.yaml" {
		t.Errorf("expected yaml to win over toml, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "precise flag",
			setup: func() { *flagPrecise = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Picking.Precise {
					t.Error("expected precise picking with precise flag")
				}
			},
			teardown: func() { *flagPrecise = false },
		},
		{
			name:  "no up axis flag",
			setup: func() { *flagNoUpAxis = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Parser.UpAxisCorrection {
					t.Error("expected up axis correction to be disabled")
				}
			},
			teardown: func() { *flagNoUpAxis = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.View.Width != 2560 || cfg.View.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.View.Width, cfg.View.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "camera flags",
			setup: func() {
				*flagDistance = 12
				*flagRotationX = -10
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.View.Distance != 12 || cfg.View.RotationX != -10 {
					t.Errorf("unexpected view %+v", cfg.View)
				}
				if cfg.View.RotationY != 45 {
					t.Errorf("expected default yaw, got %f", cfg.View.RotationY)
				}
			},
			teardown: func() {
				*flagDistance = 0
				*flagRotationX = 0
			},
		},
		{
			name:  "root flags",
			setup: func() { flagRoots = rootList{"/x", "/y"} },
			verify: func(t *testing.T, cfg *Config) {
				if len(cfg.Library.Roots) != 2 || cfg.Library.Roots[0] != "/x" {
					t.Errorf("expected roots [/x /y], got %v", cfg.Library.Roots)
				}
			},
			teardown: func() { flagRoots = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestParseFlags(t *testing.T) {
	defer func() {
		*flagWatch = false
		*flagLogFile = ""
		flagRoots = nil
	}()

	if err := ParseFlags([]string{"-watch", "-root", "/a", "-root", "/b", "-log-file", "x.log", "model.dae", "10", "20"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if got := Args(); len(got) != 3 || got[0] != "model.dae" {
		t.Errorf("Args() = %v", got)
	}

	cfg := Default()
	applyFlags(cfg)
	if !cfg.Library.Watch {
		t.Error("expected watch from flag")
	}
	if cfg.Logging.LogFile != "x.log" {
		t.Errorf("expected log file x.log, got %s", cfg.Logging.LogFile)
	}
	if len(cfg.Library.Roots) != 2 || cfg.Library.Roots[1] != "/b" {
		t.Errorf("expected roots [/a /b], got %v", cfg.Library.Roots)
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
view:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.View.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.View.Width)
	}
	if cfg.View.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.View.Height)
	}
}
