package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/redjax/notetabs/internal/commands"
	"github.com/redjax/notetabs/internal/config"
	"github.com/redjax/notetabs/internal/notes"
	"github.com/redjax/notetabs/internal/utils"
)

var (
	cfgFile   string
	debug     bool
	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   `ntb`,
	Short: `notetabs is a tabbed scratchpad for the terminal that saves as you type.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// Without a subcommand, open the editor
		if err := commands.RunEditor(cmd.Context(), cfg, ""); err != nil {
			fmt.Fprintf(os.Stderr, "Error running notes TUI: %v\n", err)
			os.Exit(1)
		}
	},
	SilenceUsage: true,
}

func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config-file", "c", "", "config file (supports .yml, .json, .toml, .env)")
	flags.BoolVarP(&debug, "debug", "D", false, "Enable debug logging")
	flags.String("data-dir", "", "Directory for notes and logs")
	flags.String("backend", "", "Storage backend: file, sqlite or memory")
	flags.String("storage", "", "Storage file path (default: derived from data dir and backend)")
	flags.Duration("debounce", notes.DefaultDebounce, "Delay between the last edit and the auto-save")
	flags.String("log-file", "", "Log file path (default: <data dir>/notetabs.log)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")

	getConfig := func() *config.Config { return cfg }

	// Add subcommands - they will get config when executed
	rootCmd.AddCommand(commands.NewNotesCmd(getConfig))
	rootCmd.AddCommand(commands.NewListCmd(getConfig))
	rootCmd.AddCommand(commands.NewShowCmd(getConfig))
	rootCmd.AddCommand(commands.NewPreviewCmd(getConfig))
	rootCmd.AddCommand(commands.NewExportCmd(getConfig))
	rootCmd.AddCommand(commands.NewImportCmd(getConfig))
	rootCmd.AddCommand(commands.NewMigrateCmd(getConfig))
	rootCmd.AddCommand(commands.NewSelfCmd(getConfig))

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Flags(), cfgFile)
		if err != nil {
			return err
		}
		if debug {
			loaded.LogLevel = "debug"
		}
		cfg = loaded

		return initLogging()
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	}
}

// initLogging sends slog output to the log file; the terminal belongs to the
// TUI.
func initLogging() error {
	if err := utils.EnsureDirs(cfg.DataDir); err != nil {
		return fmt.Errorf("error creating data directory %s: %w", cfg.DataDir, err)
	}

	logger, closer, err := utils.NewFileLogger(cfg.ResolvedLogFile(), utils.ParseLogLevel(cfg.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		logger = slog.New(slog.DiscardHandler)
		closer = nil
	}

	slog.SetDefault(logger)
	logCloser = closer
	slog.Debug("configuration loaded", "data_dir", cfg.DataDir, "backend", cfg.StorageBackend, "debounce", cfg.Debounce)
	return nil
}
