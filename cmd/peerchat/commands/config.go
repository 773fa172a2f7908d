package commands

import (
	"github.com/mosaicnetworks/peerchat/src/config"
)

//CLIConfig contains configuration for the Run command
type CLIConfig struct {
	Peerchat   config.Config `mapstructure:",squash"`
	Standalone bool          `mapstructure:"standalone"`
}

//NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Peerchat:   *config.NewDefaultConfig(),
		Standalone: false,
	}
}
