package cmd

import (
	"github.com/spf13/cobra"
	"wafblock/internal/cmdutil"
	"wafblock/logger"
	"wafblock/pkg/cmd/block"
	"wafblock/pkg/cmd/show"
)

func New() *cobra.Command {
	return NewWithFactory(&cmdutil.Factory{})
}

func NewWithFactory(f *cmdutil.Factory) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "wafblock",
		Short:         "wafblock - block malicious IP addresses in AWS WAF IP sets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return f.Init(configPath)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file (default .wafblock.yml)")
	cmd.AddCommand(block.NewBlockCmd(f))
	cmd.AddCommand(show.NewShowCmd(f))
	return cmd
}
