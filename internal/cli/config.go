package cli

import (
	"github.com/spf13/cobra"

	"lifetrack/internal/config"
)

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg := a.cfg
				if cfg.Storage.S3.SecretAccessKey != "" {
					cfg.Storage.S3.SecretAccessKey = "REDACTED"
				}
				out, err := config.Marshal(cfg)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the default config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				printf(cmd.OutOrStdout(), "%s\n", config.DefaultPath(a.home))
				return nil
			},
		},
	)
	return cmd
}
