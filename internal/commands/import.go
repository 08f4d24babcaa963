package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/redjax/notetabs/internal/config"
	"github.com/redjax/notetabs/internal/notes"
	"github.com/redjax/notetabs/internal/utils"
)

// NewImportCmd creates the import command
func NewImportCmd(getConfig func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <path>...",
		Short: "Import files as new notes",
		Long: `Import files as new tabs after the existing ones.
A JSON or YAML file written by 'ntb export' adds each exported note; any other file becomes one note with the file's text.
Use - to read text from stdin.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runImport(cmd.Context(), getConfig(), cmd.OutOrStdout(), cmd.InOrStdin(), args); err != nil {
				fmt.Fprintf(os.Stderr, "Error importing notes: %v\n", err)
				os.Exit(1)
			}
		},
	}

	return cmd
}

func runImport(ctx context.Context, cfg *config.Config, out io.Writer, in io.Reader, paths []string) error {
	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	if sess.loadErr != nil {
		return fmt.Errorf("error loading notes: %w", sess.loadErr)
	}

	// A fresh store holds one blank note; imported notes replace it.
	replaceBlank := sess.store.Len() == 1 && isBlank(sess.store.Notes()[0])

	imported := 0
	for _, path := range paths {
		data, err := readImport(path, in)
		if err != nil {
			return err
		}

		batch, err := parseImport(path, data)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			fmt.Fprintf(out, "Skipped %s: nothing to import\n", path)
			continue
		}

		for _, n := range batch {
			if err := addNote(ctx, sess.store, n); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			imported++
		}
		slog.Debug("imported file", "path", path, "notes", len(batch))
	}

	if replaceBlank && imported > 0 {
		first := sess.store.Notes()[0].ID
		if err := sess.store.SwitchTo(ctx, first); err != nil {
			return err
		}
		sess.store.DeleteActive(ctx)
	}

	if err := sess.store.Save(ctx); err != nil {
		return fmt.Errorf("error saving notes: %w", err)
	}

	fmt.Fprintf(out, "Imported %d notes\n", imported)
	return nil
}

func isBlank(n notes.Note) bool {
	return strings.TrimSpace(n.Content) == "" && n.Color == notes.ColorDefault
}

func readImport(path string, in io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(in)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// parseImport decodes an export file, or wraps any other text in one note.
func parseImport(path string, data []byte) ([]exportNote, error) {
	var doc exportFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err == nil && len(doc.Notes) > 0 {
			return doc.Notes, nil
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Notes) > 0 {
			return doc.Notes, nil
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return []exportNote{{
		Content: utils.PlainText(string(data)),
		Color:   string(notes.ColorDefault),
	}}, nil
}

// addNote appends n as a new tab. Ids and timestamps are not carried over.
func addNote(ctx context.Context, store *notes.Store, n exportNote) error {
	store.CreateNote(ctx)
	store.UpdateContent(n.Content)

	color, err := notes.ParseColor(n.Color)
	if err != nil || color == notes.ColorDefault {
		return nil
	}
	if color == notes.ColorCustom && n.CustomBg == "" {
		return nil
	}
	return store.SetColor(ctx, color, n.CustomBg, n.CustomFg)
}
