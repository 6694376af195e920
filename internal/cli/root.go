// Package cli provides the command-line interface for the assistant backend.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/advocaid/assistant/backend/internal/config"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose   bool
	personaID string

	cfg           *config.Config
	logger        *slog.Logger
	closeLogger   func() error
	skipBootstrap = map[string]bool{"help": true, "version": true, "completion": true}
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "advocaid",
	Short: "Bilingual legal and career guidance assistant",
	Long: `Advocaid answers legal and career questions in English and Urdu.

Run "advocaid serve" for the HTTP/WebSocket API or "advocaid chat" for a
terminal conversation. Configuration comes from the environment and an
optional .env file.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipBootstrap[cmd.Name()] {
			return nil
		}

		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		if verbose {
			cfg.Log.Level = slog.LevelDebug
		}
		if personaID != "" {
			cfg.Chat.Persona = personaID
		}

		logger, closeLogger = config.SetupLogger(cfg.Log)
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLogger != nil {
			if err := closeLogger(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVarP(&personaID, "persona", "p", "", "assistant variant (overrides ASSISTANT_PERSONA)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(personasCmd)
}
