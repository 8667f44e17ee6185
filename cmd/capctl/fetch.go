package main

import (
	"fmt"

	"capsearch/internal/timecode"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <video-id>",
	Short: "Fetch captions for a video and print the transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadCaptions(cmd, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("# language: %s  source: %s  cues: %d\n", result.SelectedLanguage, result.Source, len(result.Cues))
		for _, c := range result.Cues {
			fmt.Printf("[%s] %s\n", timecode.FormatTimestamp(c.Start), c.Text)
		}
		return nil
	},
}
