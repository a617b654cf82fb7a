package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gitveg/docextract/cmd/batch"
	"github.com/gitveg/docextract/cmd/common"
	configcmd "github.com/gitveg/docextract/cmd/config"
	"github.com/gitveg/docextract/cmd/image"
	"github.com/gitveg/docextract/cmd/pdf"
	"github.com/gitveg/docextract/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(pdf.Cmd)
	root.Cmd.AddCommand(image.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(configcmd.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		// The failure message is already on stdout.
		if !errors.Is(err, common.ErrExtractionFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
