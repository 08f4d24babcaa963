package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redjax/notetabs/internal/config"
	"github.com/redjax/notetabs/internal/version"
)

// NewSelfCmd creates the self command
func NewSelfCmd(getConfig func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "self",
		Short: "Manage the notetabs installation",
		Long:  `Commands for inspecting the notetabs application itself.`,
	}

	cmd.AddCommand(version.NewVersionCommand())
	cmd.AddCommand(version.NewInfoCommand())

	cmd.AddCommand(&cobra.Command{
		Use:   "paths",
		Short: "Show where notes, config and logs live",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := getConfig()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Data directory: %s\n", cfg.DataDir)
			fmt.Fprintf(out, "Storage (%s): %s\n", cfg.StorageBackend, cfg.ResolvedStoragePath())
			fmt.Fprintf(out, "Log file: %s\n", cfg.ResolvedLogFile())
		},
	})

	return cmd
}
