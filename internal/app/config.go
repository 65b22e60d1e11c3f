package app

import "fmt"

// Profile format names accepted by the loaders.
const (
	FormatHCL  = "hcl"
	FormatTOML = "toml"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ProfilePath points at a profile file or directory. Empty selects the
	// built-in reference profile.
	ProfilePath   string
	ProfileFormat string

	// ImagePath, when set, is where the boot sector image is written after
	// the run.
	ImagePath string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.ProfileFormat {
	case FormatHCL, FormatTOML:
	case "":
		cfg.ProfileFormat = FormatHCL
	default:
		return nil, fmt.Errorf("unknown profile format %q (want %q or %q)", cfg.ProfileFormat, FormatHCL, FormatTOML)
	}
	return &cfg, nil
}
