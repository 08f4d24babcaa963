package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/redjax/notetabs/internal/config"
	"github.com/redjax/notetabs/internal/notes"
	"github.com/redjax/notetabs/internal/utils"
)

// NewListCmd creates the list command
func NewListCmd(getConfig func() *config.Config) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes in tab order",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runList(cmd.Context(), getConfig(), cmd.OutOrStdout(), asJSON); err != nil {
				fmt.Fprintf(os.Stderr, "Error listing notes: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print notes as JSON")

	return cmd
}

func runList(ctx context.Context, cfg *config.Config, out io.Writer, asJSON bool) error {
	sess, err := openSession(ctx, cfg, notes.WithoutBlankSave())
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	if sess.loadErr != nil {
		return fmt.Errorf("error loading notes: %w", sess.loadErr)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sess.store.Snapshot())
	}

	// #, marker, color, chars and updated columns plus separators
	titleWidth := utils.MaxColumnWidth(utils.DetectTerminalWidth(100), 3+1+8+8+16, 6*3+1)
	activeID := sess.store.ActiveID()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "", "TITLE", "COLOR", "CHARS", "UPDATED")

	for i, n := range sess.store.Notes() {
		marker := ""
		if n.ID == activeID {
			marker = "*"
		}
		t.Row(
			fmt.Sprint(i+1),
			marker,
			utils.TruncateDisplay(n.DisplayTitle(), titleWidth),
			string(n.Color),
			fmt.Sprint(utf8.RuneCountInString(n.Content)),
			n.UpdatedAt.Local().Format("2006-01-02 15:04"),
		)
	}

	_, err = fmt.Fprintln(out, t.Render())
	return err
}
