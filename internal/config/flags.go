package config

import (
	"flag"
	"io"
	"strings"
)

// rootList collects repeated -root flags.
type rootList []string

func (r *rootList) String() string {
	return strings.Join(*r, ",")
}

func (r *rootList) Set(v string) error {
	*r = append(*r, v)
	return nil
}

var (
	flagSet = flag.NewFlagSet("daetool", flag.ContinueOnError)

	flagConfig    = flagSet.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug     = flagSet.Bool("debug", false, "Enable debug logging")
	flagLogFile   = flagSet.String("log-file", "", "Also write logs to this file")
	flagPrecise   = flagSet.Bool("precise", false, "Pick against triangles instead of bounding spheres")
	flagNoUpAxis  = flagSet.Bool("no-up-axis", false, "Keep the document's up axis")
	flagWatch     = flagSet.Bool("watch", false, "Reload documents when their file changes")
	flagWidth     = flagSet.Int("width", 0, "Viewport width")
	flagHeight    = flagSet.Int("height", 0, "Viewport height")
	flagDistance  = flagSet.Float64("distance", 0, "Camera distance, 0 fits the scene")
	flagRotationX = flagSet.Float64("pitch", 0, "Camera pitch in degrees")
	flagRotationY = flagSet.Float64("yaw", 0, "Camera yaw in degrees")
	flagRoots     rootList
)

func init() {
	flagSet.Var(&flagRoots, "root", "Document search root (repeatable)")
}

// ParseFlags parses command-line flags. Call this early in main() with the
// arguments after the subcommand.
func ParseFlags(args []string) error {
	return flagSet.Parse(args)
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flagSet.Args()
}

// PrintDefaults writes the flag usage to the flag set's output.
func PrintDefaults() {
	flagSet.PrintDefaults()
}

// SetOutput sets where usage and parse errors are written.
func SetOutput(w io.Writer) {
	flagSet.SetOutput(w)
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagPrecise {
		cfg.Picking.Precise = true
	}
	if *flagNoUpAxis {
		cfg.Parser.UpAxisCorrection = false
	}
	if *flagWatch {
		cfg.Library.Watch = true
	}
	if *flagWidth > 0 {
		cfg.View.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.View.Height = *flagHeight
	}
	if *flagDistance > 0 {
		cfg.View.Distance = float32(*flagDistance)
	}
	if *flagRotationX != 0 {
		cfg.View.RotationX = float32(*flagRotationX)
	}
	if *flagRotationY != 0 {
		cfg.View.RotationY = float32(*flagRotationY)
	}
	if len(flagRoots) > 0 {
		cfg.Library.Roots = append([]string(nil), flagRoots...)
	}
}
