package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/redjax/notetabs/internal/config"
	"github.com/redjax/notetabs/internal/notes"
	"github.com/redjax/notetabs/internal/services"
)

// NewPreviewCmd creates the preview command
func NewPreviewCmd(getConfig func() *config.Config) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "preview [index|id]",
		Short: "Render notes as Markdown in the browser",
		Long:  `Render a note (the active one by default), or every note with --all, as Markdown and open it in the default browser.`,
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			if err := runPreview(cmd.Context(), getConfig(), cmd.OutOrStdout(), services.NewPreviewService(), ref, all); err != nil {
				fmt.Fprintf(os.Stderr, "Error previewing notes: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Preview every note")

	return cmd
}

type previewer interface {
	Preview(title string, list []notes.Note) (string, error)
}

func runPreview(ctx context.Context, cfg *config.Config, out io.Writer, preview previewer, ref string, all bool) error {
	sess, err := openSession(ctx, cfg, notes.WithoutBlankSave())
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	if sess.loadErr != nil {
		return fmt.Errorf("error loading notes: %w", sess.loadErr)
	}

	list := sess.store.Notes()
	title := "notetabs"
	if !all {
		n, err := resolveNote(sess.store, ref)
		if err != nil {
			return err
		}
		list = []notes.Note{n}
		title = n.DisplayTitle()
	}

	path, err := preview.Preview(title, list)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Opened preview: %s\n", path)
	return nil
}
