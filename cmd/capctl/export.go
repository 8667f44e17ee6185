package main

import (
	"fmt"
	"os"

	"capsearch/internal/export"

	"github.com/spf13/cobra"
)

var (
	flagFormat string
	flagOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <video-id>",
	Short: "Fetch captions and write them as an SRT or VTT document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadCaptions(cmd, args[0])
		if err != nil {
			return err
		}

		var doc string
		switch flagFormat {
		case "srt":
			doc = export.RenderSRT(result.Cues)
		case "vtt":
			doc = export.RenderVTT(result.Cues)
		default:
			return fmt.Errorf("unsupported export format %q", flagFormat)
		}

		if flagOutput == "" {
			fmt.Print(doc)
			return nil
		}
		return os.WriteFile(flagOutput, []byte(doc), 0644)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagFormat, "format", "f", "srt", "output format (srt or vtt)")
	exportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write to file instead of stdout")
}
