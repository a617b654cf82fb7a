// Package configcmd prints the effective configuration
package configcmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gitveg/docextract/cmd/root"
)

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, config.yaml and environment
variables have been applied. The Gemini API key is never printed.`,
	RunE: configFunc,
}

func configFunc(cmd *cobra.Command, args []string) error {
	if root.AppConfig == nil {
		return fmt.Errorf("configuration not loaded")
	}
	data, err := yaml.Marshal(root.AppConfig)
	if err != nil {
		return fmt.Errorf("error encoding configuration: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
