package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/redjax/notetabs/internal/config"
	"github.com/redjax/notetabs/internal/notes"
	"github.com/redjax/notetabs/internal/services"
	"github.com/redjax/notetabs/internal/utils"
	"github.com/redjax/notetabs/internal/version"
)

// exportNote is a note as written by export and read back by import.
type exportNote struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Color     string    `json:"color" yaml:"color"`
	CustomBg  string    `json:"customBg,omitempty" yaml:"customBg,omitempty"`
	CustomFg  string    `json:"customFg,omitempty" yaml:"customFg,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

type exportFile struct {
	App          string       `json:"app" yaml:"app"`
	Version      string       `json:"version" yaml:"version"`
	ExportedAt   time.Time    `json:"exportedAt" yaml:"exportedAt"`
	ActiveNoteID string       `json:"activeNoteId,omitempty" yaml:"activeNoteId,omitempty"`
	Notes        []exportNote `json:"notes" yaml:"notes"`
}

var exportFormats = map[string]string{
	"json": ".json",
	"yaml": ".yaml",
	"md":   ".md",
	"html": ".html",
}

// NewExportCmd creates the export command
func NewExportCmd(getConfig func() *config.Config) *cobra.Command {
	var outputPath string
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all notes",
		Long: `Export every note in tab order as JSON, YAML, Markdown or HTML.
Writes to stdout unless -o/--output is given. JSON and YAML exports can be read back with 'ntb import'.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runExport(cmd.Context(), getConfig(), cmd.OutOrStdout(), format, outputPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting notes: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: json, yaml, md or html")

	return cmd
}

func runExport(ctx context.Context, cfg *config.Config, out io.Writer, format, outputPath string) error {
	format = strings.ToLower(format)
	ext, ok := exportFormats[format]
	if !ok {
		return fmt.Errorf("unsupported export format: %s (valid options: json, yaml, md, html)", format)
	}

	sess, err := openSession(ctx, cfg, notes.WithoutBlankSave())
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	if sess.loadErr != nil {
		return fmt.Errorf("error loading notes: %w", sess.loadErr)
	}

	doc := sess.store.Snapshot()
	now := time.Now()

	if outputPath == "" {
		return encodeExport(out, format, doc, now)
	}

	if filepath.Ext(outputPath) == "" {
		outputPath += ext
	}

	var spin *utils.SpinnerUtil
	if utils.IsInteractive() {
		spin = utils.NewSpinnerService()
		spin.Start(fmt.Sprintf("Exporting %d notes...", len(doc.Notes)))
	}

	err = writeExport(outputPath, format, doc, now)
	if spin != nil {
		if err != nil {
			spin.Error("Export failed")
		} else {
			spin.Success(fmt.Sprintf("Exported %d notes to %s", len(doc.Notes), outputPath))
		}
	} else if err == nil {
		fmt.Fprintf(out, "Exported %d notes to %s\n", len(doc.Notes), outputPath)
	}
	return err
}

func newExportFile(doc notes.Document, now time.Time) exportFile {
	f := exportFile{
		App:          "notetabs",
		Version:      version.GetShortVersion(),
		ExportedAt:   now.UTC(),
		ActiveNoteID: doc.ActiveID,
		Notes:        make([]exportNote, 0, len(doc.Notes)),
	}

	for _, n := range doc.Notes {
		f.Notes = append(f.Notes, exportNote{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			Color:     string(n.Color),
			CustomBg:  n.CustomBg,
			CustomFg:  n.CustomFg,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		})
	}
	return f
}

func writeExport(path, format string, doc notes.Document, now time.Time) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := utils.EnsureDirs(dir); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := encodeExport(f, format, doc, now); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeExport(w io.Writer, format string, doc notes.Document, now time.Time) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newExportFile(doc, now))

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newExportFile(doc, now)); err != nil {
			return err
		}
		return enc.Close()

	case "md":
		var b strings.Builder
		for i, n := range doc.Notes {
			if i > 0 {
				b.WriteString("\n---\n\n")
			}
			fmt.Fprintf(&b, "# %s\n\n", n.DisplayTitle())
			if n.Content != "" {
				b.WriteString(strings.TrimRight(n.Content, "\n"))
				b.WriteString("\n")
			}
		}
		_, err := io.WriteString(w, b.String())
		return err

	case "html":
		return services.NewPreviewService().RenderHTML(w, "notetabs export "+now.Format("2006-01-02"), doc.Notes)

	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}
