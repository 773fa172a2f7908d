package commands

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mosaicnetworks/peerchat/src/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	out := &bytes.Buffer{}
	VersionCmd.SetOutput(out)
	VersionCmd.Run(VersionCmd, nil)
	assert.Equal(t, version.Version, strings.TrimSpace(out.String()))
}

func TestLoadConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "peerchat-cmd")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	toml := `
origin = "alice"
rumor-timeout = "3s"
anti-entropy = "500ms"
wire-format = "msgpack"
continue-probability = 0.5
`
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "peerchat.toml"), []byte(toml), 0600))

	viper.Reset()
	_config = NewDefaultCLIConfig()

	cmd := &cobra.Command{Use: "run"}
	AddRunFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{
		"--datadir", dir,
		"--log", "info",
		"--base-port", "40000",
		"--wire-format", "json",
	}))

	require.NoError(t, loadConfig(cmd, nil))

	assert.Equal(t, dir, _config.Peerchat.DataDir)
	assert.Equal(t, "info", _config.Peerchat.LogLevel)
	assert.Equal(t, 40000, _config.Peerchat.BasePort)
	assert.Equal(t, "alice", _config.Peerchat.Origin)
	assert.Equal(t, 3*time.Second, _config.Peerchat.RumorTimeout)
	assert.Equal(t, 500*time.Millisecond, _config.Peerchat.AntiEntropyInterval)
	assert.Equal(t, 0.5, _config.Peerchat.ContinueProbability)
	//flags win over the file
	assert.Equal(t, "json", _config.Peerchat.WireFormat)
	assert.False(t, _config.Standalone)
}

func TestLoadConfigLogSettings(t *testing.T) {
	dir, err := ioutil.TempDir("", "peerchat-cmd")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	logFile := filepath.Join(dir, "out.log")

	toml := fmt.Sprintf("log = \"error\"\nlog-file = %q\n", logFile)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "peerchat.toml"), []byte(toml), 0600))

	viper.Reset()
	_config = NewDefaultCLIConfig()

	cmd := &cobra.Command{Use: "run"}
	AddRunFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--datadir", dir}))

	require.NoError(t, loadConfig(cmd, nil))

	logger := _config.Peerchat.Logger()
	assert.Equal(t, logrus.ErrorLevel, logger.Logger.Level)

	logger.Debug("not written")
	logger.Error("written to file")

	out, err := ioutil.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(out), "written to file")
	assert.NotContains(t, string(out), "not written")
}
