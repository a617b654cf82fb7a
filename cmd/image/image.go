// Package image handles the image OCR command
package image

import (
	"github.com/spf13/cobra"

	"github.com/gitveg/docextract/cmd/common"
	"github.com/gitveg/docextract/cmd/root"
	"github.com/gitveg/docextract/internal/validation"
)

// Cmd represents the image command
var Cmd = &cobra.Command{
	Use:   "image",
	Short: "Recognize text in an image",
	Long: `Recognize text in an image file with the configured OCR backend.

Supported formats: .png .jpg .jpeg .bmp .gif .tiff

Example:
  docextract image -i receipt.png`,
	RunE: imageFunc,
}

func imageFunc(cmd *cobra.Command, args []string) error {
	input := root.SharedFlags.Input
	if input == "" && len(args) > 0 {
		input = args[0]
	}

	appContainer, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}

	return common.ProcessFile(cmd.Context(), appContainer.GetCoordinator(), validation.KindImage,
		input, root.SharedFlags.Output, root.SharedFlags.JSON, cmd.OutOrStdout(), root.GetLogger())
}
