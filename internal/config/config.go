// Package config handles loading and saving of the scene tool settings.
package config

// Config holds all settings.
type Config struct {
	Library LibraryConfig `yaml:"library" toml:"library"`
	Parser  ParserConfig  `yaml:"parser" toml:"parser"`
	View    ViewConfig    `yaml:"view" toml:"view"`
	Picking PickingConfig `yaml:"picking" toml:"picking"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// LibraryConfig lists where documents are looked up.
type LibraryConfig struct {
	Roots []string `yaml:"roots" toml:"roots"` // searched last to first
	Watch bool     `yaml:"watch" toml:"watch"` // drop cached documents when their file changes
}

// ParserConfig holds document parsing settings.
type ParserConfig struct {
	UpAxisCorrection bool `yaml:"up_axis_correction" toml:"up_axis_correction"`
}

// ViewConfig describes the camera used for culling and picking.
type ViewConfig struct {
	Width     int     `yaml:"width" toml:"width"`
	Height    int     `yaml:"height" toml:"height"`
	FOV       float32 `yaml:"fov" toml:"fov"` // vertical, degrees
	Near      float32 `yaml:"near" toml:"near"`
	Far       float32 `yaml:"far" toml:"far"`
	Distance  float32 `yaml:"distance" toml:"distance"`     // 0 fits the scene
	RotationX float32 `yaml:"rotation_x" toml:"rotation_x"` // pitch, degrees
	RotationY float32 `yaml:"rotation_y" toml:"rotation_y"` // yaw, degrees
}

// PickingConfig holds ray picking settings.
type PickingConfig struct {
	Precise bool `yaml:"precise" toml:"precise"` // test triangles, not only bounding spheres
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
	Format  string `yaml:"format" toml:"format"` // console or json
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Library: LibraryConfig{
			Roots: []string{"."},
		},
		Parser: ParserConfig{
			UpAxisCorrection: true,
		},
		View: ViewConfig{
			Width:     1280,
			Height:    720,
			FOV:       45,
			Near:      0.1,
			Far:       1000,
			RotationX: 30,
			RotationY: 45,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Aspect returns the viewport aspect ratio.
func (v ViewConfig) Aspect() float32 {
	if v.Height == 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}
