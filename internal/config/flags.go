package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagModel      = flag.String("model", "", "Vehicle model (.glb or .gltf)")
	flagAssets     = flag.String("assets", "", "Extra asset root, searched first")
	flagPivot      = flag.String("pivot", "", "Wheel pivot policy: first or centroid")
	flagPad        = flag.String("pad", "", "Touch pad listen address")
	flagNoPad      = flag.Bool("no-pad", false, "Disable the browser touch pad")
	flagWrite      = flag.String("write-config", "", `Write the effective config to a path ("user" for the config dir) and exit`)
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the -write-config target, or "" when not requested.
func WriteConfigPath() string {
	return *flagWrite
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Graphics.ShowBounds = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagModel != "" {
		cfg.Assets.Model = *flagModel
	}
	if *flagAssets != "" {
		cfg.Assets.Roots = append(cfg.Assets.Roots, *flagAssets)
	}
	if *flagPivot != "" {
		cfg.Vehicle.PivotPolicy = *flagPivot
	}
	if *flagPad != "" {
		cfg.Remote.Addr = *flagPad
		cfg.Remote.Enabled = true
	}
	if *flagNoPad {
		cfg.Remote.Enabled = false
	}
}
