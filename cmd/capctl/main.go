package main

import (
	"fmt"
	"os"

	"capsearch/internal/config"
	"capsearch/internal/fetch"
	"capsearch/internal/innertube"
	"capsearch/internal/logger"
	"capsearch/internal/models"
	"capsearch/internal/pipeline"
	"capsearch/internal/source"

	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagLang     string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "capctl",
	Short: "Fetch, search and export video captions from the command line",
	Long: `Capctl runs the caption acquisition pipeline once for a video and prints
the result, without a running daemon. It tries the same sources in the same
order as the server: page-embedded data, the primary API, the secondary API,
and the community subtitle repository.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to the config file")
	rootCmd.PersistentFlags().StringVar(&flagLang, "lang", "", "language code to load (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "error", "log level (error, warn, info, debug)")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exportCmd)
}

// loadCaptions runs one acquisition cycle for the video and returns the
// result.
func loadCaptions(cmd *cobra.Command, videoID string) (*models.AcquisitionResult, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	log := logger.New(flagLogLevel)

	upstream := innertube.NewClient(log, cfg.UserAgent, cfg.WatchURL, cfg.PlayerURL)
	fetcher := fetch.NewFetcher(upstream.HttpClient(), log, cfg.UserAgent)

	strategies := []source.Strategy{
		source.NewPageData(log),
		source.NewPrimaryAPI(upstream, log, innertube.ClientIdentity{
			Name:    cfg.Clients.Primary.Name,
			Version: cfg.Clients.Primary.Version,
		}),
		source.NewSecondaryAPI(upstream, log, innertube.ClientIdentity{
			Name:    cfg.Clients.Secondary.Name,
			Version: cfg.Clients.Secondary.Version,
		}),
	}
	var community source.Strategy
	if cfg.Community.BaseURL != "" {
		community = source.NewCommunityRepo(fetcher, log, cfg.Community.BaseURL)
	}

	orchestrator := pipeline.New(log, upstream, fetcher, strategies, community, cfg.DefaultLanguage)
	return orchestrator.Load(cmd.Context(), pipeline.Request{
		VideoID:  videoID,
		Language: flagLang,
	})
}
