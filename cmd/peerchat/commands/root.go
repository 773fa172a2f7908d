package commands

import (
	"github.com/spf13/cobra"
)

var (
	_config = NewDefaultCLIConfig()
)

//RootCmd is the root command for peerchat
var RootCmd = &cobra.Command{
	Use:              "peerchat",
	Short:            "gossip chat over a local UDP overlay",
	TraverseChildren: true,
}
