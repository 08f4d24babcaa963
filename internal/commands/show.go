package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redjax/notetabs/internal/config"
	"github.com/redjax/notetabs/internal/notes"
	"github.com/redjax/notetabs/internal/utils"
)

// NewShowCmd creates the show command
func NewShowCmd(getConfig func() *config.Config) *cobra.Command {
	var copyNote bool

	cmd := &cobra.Command{
		Use:   "show [index|id]",
		Short: "Print a note's content",
		Long:  `Print the content of a note, given by 1-based tab position or id. Defaults to the active note.`,
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}

			var clip clipboardWriter
			if copyNote {
				clip = utils.NewClipboard()
			}

			if err := runShow(cmd.Context(), getConfig(), cmd.OutOrStdout(), ref, clip); err != nil {
				fmt.Fprintf(os.Stderr, "Error showing note: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&copyNote, "copy", false, "Also copy the note to the clipboard")

	return cmd
}

type clipboardWriter interface {
	WriteText(text string) error
}

// runShow prints the note and, when clip is set, copies it there as well.
func runShow(ctx context.Context, cfg *config.Config, out io.Writer, ref string, clip clipboardWriter) error {
	sess, err := openSession(ctx, cfg, notes.WithoutBlankSave())
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	if sess.loadErr != nil {
		return fmt.Errorf("error loading notes: %w", sess.loadErr)
	}

	n, err := resolveNote(sess.store, ref)
	if err != nil {
		return err
	}

	content := n.Content
	if !strings.HasSuffix(content, "\n") && content != "" {
		content += "\n"
	}
	if _, err := io.WriteString(out, content); err != nil {
		return err
	}

	if clip != nil {
		if err := clip.WriteText(n.Content); err != nil {
			return fmt.Errorf("error copying to clipboard: %w", err)
		}
		slog.Debug("copied note to clipboard", "id", n.ID)
	}
	return nil
}
