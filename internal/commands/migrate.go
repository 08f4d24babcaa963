package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/redjax/notetabs/internal/config"
	"github.com/redjax/notetabs/internal/notes"
)

// NewMigrateCmd creates the migrate command
func NewMigrateCmd(getConfig func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Adopt notes saved by older versions",
		Long: `Load the configured storage and, if it holds no notes under the current keys, adopt notes saved by older versions.
Every command does this on startup; migrate only reports what happened.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runMigrate(cmd.Context(), getConfig(), cmd.OutOrStdout()); err != nil {
				fmt.Fprintf(os.Stderr, "Error migrating notes: %v\n", err)
				os.Exit(1)
			}
		},
	}

	return cmd
}

func runMigrate(ctx context.Context, cfg *config.Config, out io.Writer) error {
	sess, err := openSession(ctx, cfg, notes.WithoutBlankSave())
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	if sess.loadErr != nil {
		return fmt.Errorf("error loading notes: %w", sess.loadErr)
	}

	switch sess.source {
	case notes.SourceLegacyTabs:
		fmt.Fprintf(out, "Migrated %d notes from the legacy tab storage\n", sess.store.Len())
	case notes.SourceLegacySingle:
		fmt.Fprintln(out, "Migrated the legacy single note into a tab")
	default:
		fmt.Fprintf(out, "Nothing to migrate (%d notes in %s)\n", sess.store.Len(), cfg.ResolvedStoragePath())
	}
	return nil
}
