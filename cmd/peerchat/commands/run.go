package commands

import (
	"fmt"
	"os"

	"github.com/mosaicnetworks/peerchat/src/dummy"
	"github.com/mosaicnetworks/peerchat/src/peerchat"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//NewRunCmd returns the command that starts a peerchat node
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run node",
		PreRunE: loadConfig,
		RunE:    runPeerchat,
	}
	AddRunFlags(cmd)
	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runPeerchat(cmd *cobra.Command, args []string) error {
	client := dummy.NewInmemDummyClient(cmd.OutOrStdout(), _config.Peerchat.Logger())

	_config.Peerchat.Proxy = client

	engine := peerchat.NewPeerchat(&_config.Peerchat)

	if err := engine.Init(); err != nil {
		_config.Peerchat.Logger().Error("Cannot initialize engine:", err)
		return err
	}

	client.SetOrigin(engine.Origin)

	_config.Peerchat.Logger().WithFields(logrus.Fields{
		"origin":    engine.Origin,
		"addr":      engine.Transport.LocalAddr(),
		"neighbors": engine.Peers.NetAddrs(),
	}).Info("Ready")

	if !_config.Standalone {
		go func() {
			if err := client.ReadInput(os.Stdin); err != nil {
				_config.Peerchat.Logger().WithError(err).Error("Reading input")
			}
		}()
	}

	engine.Run()

	return nil
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

//AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {

	cmd.Flags().String("datadir", _config.Peerchat.DataDir, "Top-level directory for configuration")
	cmd.Flags().String("log", _config.Peerchat.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("log-file", _config.Peerchat.LogFile, "Also write logs, as JSON, to this file")
	cmd.Flags().String("origin", _config.Peerchat.Origin, "Identity of the local messages (default hostname:port)")

	// Network
	cmd.Flags().String("host", _config.Peerchat.BindHost, "IP to bind the UDP socket to")
	cmd.Flags().Int("base-port", _config.Peerchat.BasePort, "First candidate port (default derived from the user ID)")
	cmd.Flags().Int("port-range", _config.Peerchat.PortRangeSize, "Number of candidate ports")
	cmd.Flags().String("wire-format", _config.Peerchat.WireFormat, "Datagram encoding: json or msgpack")

	// Service
	cmd.Flags().StringP("service-listen", "s", _config.Peerchat.ServiceAddr, "Listen IP:Port for HTTP service (disabled if empty)")

	// Gossip
	cmd.Flags().Duration("rumor-timeout", _config.Peerchat.RumorTimeout, "Time before a rumor is resent")
	cmd.Flags().Duration("anti-entropy", _config.Peerchat.AntiEntropyInterval, "Time between status exchanges")
	cmd.Flags().Int("rumor-retries", _config.Peerchat.RumorRetries, "Max retransmissions of a rumor (0 for unlimited)")
	cmd.Flags().Float64("continue-probability", _config.Peerchat.ContinueProbability, "Probability to keep rumoring after an acknowledgement")

	// Client
	cmd.Flags().Bool("standalone", _config.Standalone, "Do not read messages from stdin")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	_config.Peerchat.Logger().WithFields(logrus.Fields{
		"peerchat.DataDir":             _config.Peerchat.DataDir,
		"peerchat.LogLevel":            _config.Peerchat.LogLevel,
		"peerchat.LogFile":             _config.Peerchat.LogFile,
		"peerchat.Origin":              _config.Peerchat.Origin,
		"peerchat.BindHost":            _config.Peerchat.BindHost,
		"peerchat.BasePort":            _config.Peerchat.BasePort,
		"peerchat.PortRangeSize":       _config.Peerchat.PortRangeSize,
		"peerchat.WireFormat":          _config.Peerchat.WireFormat,
		"peerchat.ServiceAddr":         _config.Peerchat.ServiceAddr,
		"peerchat.RumorTimeout":        _config.Peerchat.RumorTimeout,
		"peerchat.AntiEntropyInterval": _config.Peerchat.AntiEntropyInterval,
		"peerchat.RumorRetries":        _config.Peerchat.RumorRetries,
		"peerchat.ContinueProbability": _config.Peerchat.ContinueProbability,
		"Standalone":                   _config.Standalone,
	}).Debug("RUN")

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/peerchat.toml (.json, .yaml also work)
	viper.SetConfigName("peerchat")               // name of config file (without extension)
	viper.AddConfigPath(_config.Peerchat.DataDir) // search root directory

	// If a config file is found, read it in.
	var found string
	if err := viper.ReadInConfig(); err == nil {
		found = fmt.Sprintf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		found = fmt.Sprintf("No config file found in: %s", _config.Peerchat.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// the logger is built here, once the log settings of the file are known
	_config.Peerchat.Logger().Debug(found)

	return nil
}
