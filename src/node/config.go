package node

import (
	"testing"
	"time"

	"github.com/mosaicnetworks/peerchat/src/common"
	"github.com/sirupsen/logrus"
)

// Config contains the parameters of the gossip protocol.
type Config struct {
	// RumorTimeout is how long a rumor waits for an acknowledging status
	// before it is resent to another neighbour.
	RumorTimeout time.Duration `mapstructure:"rumor-timeout"`

	// AntiEntropyInterval is the period at which a status vector is sent to a
	// random neighbour.
	AntiEntropyInterval time.Duration `mapstructure:"anti-entropy"`

	// RumorRetries caps the number of retransmissions of one rumor. 0 means
	// unlimited.
	RumorRetries int `mapstructure:"rumor-retries"`

	// ContinueProbability is the probability of resuming rumoring after the
	// outstanding rumor has been acknowledged.
	ContinueProbability float64 `mapstructure:"continue-probability"`

	Logger *logrus.Logger
}

// NewConfig ...
func NewConfig(rumorTimeout time.Duration,
	antiEntropy time.Duration,
	rumorRetries int,
	continueProbability float64,
	logger *logrus.Logger) *Config {

	return &Config{
		RumorTimeout:        rumorTimeout,
		AntiEntropyInterval: antiEntropy,
		RumorRetries:        rumorRetries,
		ContinueProbability: continueProbability,
		Logger:              logger,
	}
}

// DefaultConfig ...
func DefaultConfig() *Config {
	logger := logrus.New()
	logger.Level = logrus.DebugLevel

	return &Config{
		RumorTimeout:        2 * time.Second,
		AntiEntropyInterval: 1 * time.Second,
		Logger:              logger,
	}
}

// TestConfig returns a configuration with short timers and a logger writing
// into t.Log.
func TestConfig(t testing.TB) *Config {
	config := DefaultConfig()
	config.RumorTimeout = 50 * time.Millisecond
	config.AntiEntropyInterval = 20 * time.Millisecond
	config.Logger = common.NewTestLogger(t, logrus.DebugLevel)
	return config
}
