package mobile

import (
	"time"

	"github.com/mosaicnetworks/peerchat/src/config"
)

// MobileConfig only uses types that can cross the gomobile boundary. Durations
// are in milliseconds.
type MobileConfig struct {
	RumorTimeout        int    //rumor timeout in milliseconds
	AntiEntropyInterval int    //anti-entropy period in milliseconds
	RumorRetries        int    //max retransmissions of a rumor, 0 for unlimited
	BasePort            int    //first candidate port, 0 for the per-user range
	PortRangeSize       int    //number of candidate ports
	WireFormat          string //json or msgpack
	LogLevel            string //debug, info, warn, error
}

// NewMobileConfig creates a MobileConfig. Durations are in milliseconds.
func NewMobileConfig(rumorTimeout int,
	antiEntropyInterval int,
	rumorRetries int,
	basePort int,
	portRangeSize int,
	wireFormat string,
	logLevel string) *MobileConfig {

	return &MobileConfig{
		RumorTimeout:        rumorTimeout,
		AntiEntropyInterval: antiEntropyInterval,
		RumorRetries:        rumorRetries,
		BasePort:            basePort,
		PortRangeSize:       portRangeSize,
		WireFormat:          wireFormat,
		LogLevel:            logLevel,
	}
}

// DefaultMobileConfig returns the default settings of a peerchat node, logging
// at info level.
func DefaultMobileConfig() *MobileConfig {
	return &MobileConfig{
		RumorTimeout:        int(config.DefaultRumorTimeout / time.Millisecond),
		AntiEntropyInterval: int(config.DefaultAntiEntropyInterval / time.Millisecond),
		RumorRetries:        config.DefaultRumorRetries,
		BasePort:            config.DefaultBasePort,
		PortRangeSize:       config.DefaultPortRangeSize,
		WireFormat:          config.DefaultWireFormat,
		LogLevel:            "info",
	}
}

func (c *MobileConfig) toPeerchatConfig() *config.Config {
	conf := config.NewDefaultConfig()

	conf.RumorTimeout = time.Duration(c.RumorTimeout) * time.Millisecond
	conf.AntiEntropyInterval = time.Duration(c.AntiEntropyInterval) * time.Millisecond
	conf.RumorRetries = c.RumorRetries
	conf.BasePort = c.BasePort
	conf.PortRangeSize = c.PortRangeSize
	conf.WireFormat = c.WireFormat
	conf.LogLevel = c.LogLevel

	return conf
}
