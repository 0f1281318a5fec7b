package commands

import (
	"github.com/spf13/cobra"
	"github.com/vulcan-lighting/vulcan/src/config"
)

var (
	_config = config.NewDefaultConfig()
)

// RootCmd is the root command for Vulcan
var RootCmd = &cobra.Command{
	Use:              "vulcan",
	Short:            "vulcan DMX controller",
	TraverseChildren: true,
}
