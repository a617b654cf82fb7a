// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitveg/docextract/internal/config"
	"github.com/gitveg/docextract/internal/container"
	"github.com/gitveg/docextract/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
	JSON   bool
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "docextract",
		Short: "Extract text from PDFs and images, with OCR fallback for scans.",
		Long: `docextract extracts plain text from PDF files and raster images.

PDFs are read from their embedded text layer when one exists; scanned PDFs are
rendered page by page and passed through OCR. Images always go through OCR.
Recognition uses a mixed Chinese and English profile by default.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initApp,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				if err := AppContainer.Close(); err != nil {
					GetLogger().WithError(err).Warn("Failed to close container")
				}
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Logging overrides
	LogLevel  string
	LogFormat string

	// AppConfig is the effective configuration, loaded before any subcommand runs.
	AppConfig *config.Config

	// AppContainer is created on first use by GetContainer.
	AppContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default stdout)")
	Cmd.PersistentFlags().BoolVar(&SharedFlags.JSON, "json", false, "Print the structured result as JSON")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&LogFormat, "log-format", "", "Log format (text, json)")
}

func initApp(cmd *cobra.Command, args []string) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}
	if LogLevel != "" {
		cfg.Log.Level = LogLevel
	}
	if LogFormat != "" {
		cfg.Log.Format = LogFormat
	}
	AppConfig = cfg

	logger := config.ConfigureLoggingFromConfig(cfg)
	logging.SetLogger(logger)
	logger.Debug("Configuration loaded",
		logging.Field{Key: logging.FieldBackend, Value: cfg.OCR.Backend},
		logging.Field{Key: logging.FieldLanguages, Value: cfg.LanguageProfile()})
	return nil
}

// GetLogger returns the application logger.
func GetLogger() logging.Logger {
	return logging.GetLogger()
}

// GetContainer returns AppContainer, wiring it from AppConfig on first use.
func GetContainer(ctx context.Context) (*container.Container, error) {
	if AppContainer != nil {
		return AppContainer, nil
	}
	if AppConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	c, err := container.NewContainer(ctx, AppConfig, container.WithLogger(GetLogger()))
	if err != nil {
		return nil, err
	}
	AppContainer = c
	return c, nil
}
