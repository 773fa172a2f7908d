package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/mosaicnetworks/peerchat/src/common"
	"github.com/mosaicnetworks/peerchat/src/net"
	"github.com/mosaicnetworks/peerchat/src/peers"
	"github.com/mosaicnetworks/peerchat/src/proxy"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default configuration values.
const (
	DefaultLogLevel            = "debug"
	DefaultLogFile             = ""
	DefaultBindHost            = "127.0.0.1"
	DefaultBasePort            = 0
	DefaultPortRangeSize       = peers.DefaultRangeSize
	DefaultOrigin              = ""
	DefaultRumorTimeout        = 2 * time.Second
	DefaultAntiEntropyInterval = 1 * time.Second
	DefaultRumorRetries        = 0
	DefaultContinueProbability = 0.0
	DefaultWireFormat          = net.FormatJSON
	DefaultServiceAddr         = ""
)

// Config contains all the configuration properties of a peerchat node.
type Config struct {
	// DataDir is the top-level directory containing peerchat configuration.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// LogFile, if set, receives a copy of every log entry.
	LogFile string `mapstructure:"log-file"`

	// BindHost is the IP the UDP socket is bound to. Neighbours are expected
	// on the same host.
	BindHost string `mapstructure:"host"`

	// BasePort is the first port of the candidate range. When 0, it is
	// derived from the ID of the user running the process, so that every
	// user of a machine gets a distinct range.
	BasePort int `mapstructure:"base-port"`

	// PortRangeSize is the number of candidate ports.
	PortRangeSize int `mapstructure:"port-range"`

	// Origin is the identity under which local messages are numbered. When
	// empty, it is set to hostname:port once the port is bound.
	Origin string `mapstructure:"origin"`

	// RumorTimeout is how long a rumor waits for an acknowledgement before it
	// is resent to another neighbour.
	RumorTimeout time.Duration `mapstructure:"rumor-timeout"`

	// AntiEntropyInterval is the period of the status exchanges.
	AntiEntropyInterval time.Duration `mapstructure:"anti-entropy"`

	// RumorRetries caps the retransmissions of a single rumor. 0 means
	// unlimited.
	RumorRetries int `mapstructure:"rumor-retries"`

	// ContinueProbability is the probability of rumoring a message again after
	// a neighbour acknowledged it.
	ContinueProbability float64 `mapstructure:"continue-probability"`

	// WireFormat is the encoding of datagrams: json or msgpack. All the nodes
	// of an overlay must use the same.
	WireFormat string `mapstructure:"wire-format"`

	// ServiceAddr is the address:port of the optional HTTP service. The
	// service is disabled when empty.
	ServiceAddr string `mapstructure:"service-listen"`

	// Proxy is the application proxy that enables peerchat to communicate
	// with the application.
	Proxy proxy.AppProxy `mapstructure:"-"`

	logger *logrus.Logger
}

// ErrInvalidConfig is wrapped by the errors of Validate.
var ErrInvalidConfig = errors.New("config: invalid")

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:             DefaultDataDir(),
		LogLevel:            DefaultLogLevel,
		LogFile:             DefaultLogFile,
		BindHost:            DefaultBindHost,
		BasePort:            DefaultBasePort,
		PortRangeSize:       DefaultPortRangeSize,
		Origin:              DefaultOrigin,
		RumorTimeout:        DefaultRumorTimeout,
		AntiEntropyInterval: DefaultAntiEntropyInterval,
		RumorRetries:        DefaultRumorRetries,
		ContinueProbability: DefaultContinueProbability,
		WireFormat:          DefaultWireFormat,
		ServiceAddr:         DefaultServiceAddr,
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.logger = common.NewTestLogger(t, level)
	return config
}

// Validate checks the gossip settings. Timers must be positive, RumorRetries
// non-negative, and ContinueProbability a probability.
func (c *Config) Validate() error {
	switch {
	case c.RumorTimeout <= 0:
		return fmt.Errorf("%w: rumor-timeout must be positive, got %s", ErrInvalidConfig, c.RumorTimeout)
	case c.AntiEntropyInterval <= 0:
		return fmt.Errorf("%w: anti-entropy must be positive, got %s", ErrInvalidConfig, c.AntiEntropyInterval)
	case c.RumorRetries < 0:
		return fmt.Errorf("%w: rumor-retries must not be negative, got %d", ErrInvalidConfig, c.RumorRetries)
	case c.ContinueProbability < 0 || c.ContinueProbability > 1:
		return fmt.Errorf("%w: continue-probability must be in [0,1], got %v", ErrInvalidConfig, c.ContinueProbability)
	}
	return nil
}

// PortRange returns the candidate ports: PortRangeSize ports from BasePort, or
// the range of the current user if BasePort is not set.
func (c *Config) PortRange() (peers.PortRange, error) {
	if c.BasePort != 0 {
		return peers.NewPortRangeFromBase(c.BasePort, c.PortRangeSize)
	}

	uid, err := UserID()
	if err != nil {
		return peers.PortRange{}, err
	}

	r := peers.NewPortRange(uid)
	if c.PortRangeSize != DefaultPortRangeSize {
		return peers.NewPortRangeFromBase(r.Min, c.PortRangeSize)
	}

	return r, nil
}

// OriginOrDefault returns Origin if set, hostname:port otherwise.
func (c *Config) OriginOrDefault(port int) string {
	if c.Origin != "" {
		return c.Origin
	}

	host, err := os.Hostname()
	if err != nil || host == "" {
		host = c.BindHost
	}

	return host + ":" + strconv.Itoa(port)
}

// Logger returns a formatted logrus Entry, with prefix set to "peerchat". If
// LogFile is set, entries are also written to that file.
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)

		if c.LogFile != "" {
			c.logger.AddHook(lfshook.NewHook(
				lfshook.PathMap{
					logrus.DebugLevel: c.LogFile,
					logrus.InfoLevel:  c.LogFile,
					logrus.WarnLevel:  c.LogFile,
					logrus.ErrorLevel: c.LogFile,
					logrus.FatalLevel: c.LogFile,
					logrus.PanicLevel: c.LogFile,
				},
				&logrus.JSONFormatter{},
			))
		}
	}
	return c.logger.WithField("prefix", "peerchat")
}

// DefaultDataDir return the default directory name for top-level peerchat
// config based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Peerchat")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Peerchat")
		} else {
			return filepath.Join(home, ".peerchat")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// UserID returns the numeric ID of the user running the process. On systems
// without numeric IDs, the ID is derived from the user name.
func UserID() (int, error) {
	usr, err := user.Current()
	if err != nil {
		return 0, fmt.Errorf("config: cannot determine current user: %w", err)
	}

	if uid, err := strconv.Atoi(usr.Uid); err == nil {
		return uid, nil
	}

	uid := 0
	for _, r := range usr.Uid {
		uid = 31*uid + int(r)
		if uid < 0 {
			uid = -uid
		}
	}

	return uid, nil
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
