// Package pdf handles the PDF text extraction command
package pdf

import (
	"github.com/spf13/cobra"

	"github.com/gitveg/docextract/cmd/common"
	"github.com/gitveg/docextract/cmd/root"
	"github.com/gitveg/docextract/internal/validation"
)

// Cmd represents the pdf command
var Cmd = &cobra.Command{
	Use:   "pdf",
	Short: "Extract text from a PDF",
	Long: `Extract text from a PDF file.

The embedded text layer is used when it contains text. Otherwise every page is
rendered with poppler and recognized with the configured OCR backend.

Example:
  docextract pdf -i report.pdf
  docextract pdf -i scan.pdf --json`,
	RunE: pdfFunc,
}

func pdfFunc(cmd *cobra.Command, args []string) error {
	input := root.SharedFlags.Input
	if input == "" && len(args) > 0 {
		input = args[0]
	}

	appContainer, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}

	return common.ProcessFile(cmd.Context(), appContainer.GetCoordinator(), validation.KindPDF,
		input, root.SharedFlags.Output, root.SharedFlags.JSON, cmd.OutOrStdout(), root.GetLogger())
}
