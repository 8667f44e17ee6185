package main

import (
	"fmt"

	"capsearch/internal/search"
	"capsearch/internal/timecode"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <video-id> <query>",
	Short: "Fetch captions and print the cues matching a query",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadCaptions(cmd, args[0])
		if err != nil {
			return err
		}

		found := search.New(result.Cues).Search(args[1])
		fmt.Printf("# %d of %d cue(s) match\n", found.Found, found.Total)
		for _, m := range found.Matches {
			fmt.Printf("[%s] %s\n", timecode.FormatTimestamp(m.Cue.Start), m.Cue.Text)
		}
		return nil
	},
}
