package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/redjax/notetabs/internal/config"
	"github.com/redjax/notetabs/internal/notes"
	"github.com/redjax/notetabs/internal/tui"
	"github.com/redjax/notetabs/internal/utils"
)

// NewNotesCmd creates the open command
func NewNotesCmd(getConfig func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "open [index|id]",
		Aliases: []string{"edit"},
		Short:   "Open the notes editor",
		Long:    `Open the tabbed notes editor, optionally starting on the given tab (1-based position or note id).`,
		Args:    cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			if err := RunEditor(cmd.Context(), getConfig(), ref); err != nil {
				fmt.Fprintf(os.Stderr, "Error running notes TUI: %v\n", err)
				os.Exit(1)
			}
		},
	}

	return cmd
}

// RunEditor opens the editor TUI over the configured storage.
func RunEditor(ctx context.Context, cfg *config.Config, ref string) error {
	if !utils.IsInteractive() {
		return fmt.Errorf("the editor needs an interactive terminal; try 'ntb list' or 'ntb show'")
	}

	bridge := tui.NewStatusBridge()
	sess, err := openSession(ctx, cfg, notes.WithStatusHandler(bridge.Handle))
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(ctx); err != nil {
			slog.Error("failed to close notes", "error", err)
		}
	}()

	if sess.loadErr != nil {
		slog.Warn("continuing with a fresh note", "error", sess.loadErr)
	}

	if ref != "" {
		n, err := resolveNote(sess.store, ref)
		if err != nil {
			return err
		}
		if err := sess.store.SwitchTo(ctx, n.ID); err != nil {
			return err
		}
	}

	app := tui.NewAppModel(ctx, sess.store, bridge, utils.NewClipboard())
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
