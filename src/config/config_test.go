package config

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mosaicnetworks/peerchat/src/peers"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := NewDefaultConfig()

	assert.Equal(t, 2*time.Second, c.RumorTimeout)
	assert.Equal(t, time.Second, c.AntiEntropyInterval)
	assert.Equal(t, "127.0.0.1", c.BindHost)
	assert.Equal(t, "json", c.WireFormat)
	assert.Equal(t, "", c.ServiceAddr)
	assert.Equal(t, 0, c.RumorRetries)
}

func TestPortRange(t *testing.T) {
	c := NewDefaultConfig()

	c.BasePort = 40000
	r, err := c.PortRange()
	require.NoError(t, err)
	assert.Equal(t, peers.PortRange{Min: 40000, Max: 40003}, r)

	c.PortRangeSize = 2
	r, err = c.PortRange()
	require.NoError(t, err)
	assert.Equal(t, peers.PortRange{Min: 40000, Max: 40001}, r)

	c.BasePort = 0
	c.PortRangeSize = DefaultPortRangeSize
	uid, err := UserID()
	require.NoError(t, err)
	r, err = c.PortRange()
	require.NoError(t, err)
	assert.Equal(t, peers.NewPortRange(uid), r)

	c.BasePort = 65535
	_, err = c.PortRange()
	assert.Error(t, err)
}

func TestOriginOrDefault(t *testing.T) {
	c := NewDefaultConfig()

	c.Origin = "alice"
	assert.Equal(t, "alice", c.OriginOrDefault(1234))

	c.Origin = ""
	assert.True(t, strings.HasSuffix(c.OriginOrDefault(1234), ":1234"))
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logrus.InfoLevel, LogLevel("info"))
	assert.Equal(t, logrus.WarnLevel, LogLevel("warn"))
	assert.Equal(t, logrus.DebugLevel, LogLevel("whatever"))
}

func TestLogFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "peerchat-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	c := NewDefaultConfig()
	c.LogLevel = "info"
	c.LogFile = filepath.Join(dir, "peerchat.log")

	logger := c.Logger()
	logger.Logger.Out = ioutil.Discard
	logger.WithField("origin", "A").Info("Accepted rumor")
	logger.Debug("not written")

	data, err := ioutil.ReadFile(c.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Accepted rumor"`)
	assert.Contains(t, string(data), `"prefix":"peerchat"`)
	assert.NotContains(t, string(data), "not written")
}

func TestValidate(t *testing.T) {
	require.NoError(t, NewDefaultConfig().Validate())

	cases := map[string]func(c *Config){
		"zero rumor timeout":        func(c *Config) { c.RumorTimeout = 0 },
		"negative rumor timeout":    func(c *Config) { c.RumorTimeout = -time.Second },
		"zero anti-entropy":         func(c *Config) { c.AntiEntropyInterval = 0 },
		"negative retries":          func(c *Config) { c.RumorRetries = -1 },
		"negative probability":      func(c *Config) { c.ContinueProbability = -0.1 },
		"probability larger than 1": func(c *Config) { c.ContinueProbability = 1.5 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := NewDefaultConfig()
			mutate(c)
			err := c.Validate()
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}

	c := NewDefaultConfig()
	c.ContinueProbability = 1
	c.RumorRetries = 3
	assert.NoError(t, c.Validate())
}
