package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KrolPaul/call-center/internal/config"
)

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config <path>",
	Short: "Validate a call-center JSON configuration file without starting the server",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidateConfig,
}

func runValidateConfig(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := config.LoadStrict(path)
	if err != nil {
		return argError(err)
	}
	if err := config.Validate(cfg); err != nil {
		return argError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (nOperators=%d, maxCallQueueSize=%d)\n",
		path, cfg.NOperators, cfg.MaxCallQueueSize)
	return nil
}
